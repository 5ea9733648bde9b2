package history

// DefaultMaxDepth 是撤销栈默认保留的最大步数
const DefaultMaxDepth = 50

// History 保存某个值的历史版本，支持撤销和重做
// past 按时间顺序排列，最后一个元素是最近的一次状态；future 的第一个元素是最近一次撤销掉的状态
type History[T any] struct {
	past     []T
	present  T
	future   []T
	maxDepth int
}

func New[T any](initial T, maxDepth int) *History[T] {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &History[T]{
		present:  initial,
		maxDepth: maxDepth,
	}
}

func (h *History[T]) Present() T {
	return h.present
}

// Set 记录一个新状态，旧的状态进入撤销栈，重做栈被清空
func (h *History[T]) Set(next T) {
	h.push(h.present)
	h.present = next
	h.future = nil
}

// push 把一个状态压入撤销栈，超出深度时丢弃最早的一步
func (h *History[T]) push(state T) {
	h.past = append(h.past, state)
	if len(h.past) > h.maxDepth {
		h.past = h.past[len(h.past)-h.maxDepth:]
	}
}

// Undo 回到上一个状态，没有可撤销的状态时返回 false
func (h *History[T]) Undo() (T, bool) {
	if len(h.past) == 0 {
		return h.present, false
	}

	previous := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append([]T{h.present}, h.future...)
	h.present = previous

	return h.present, true
}

// Redo 重新应用最近一次撤销掉的状态，没有可重做的状态时返回 false
func (h *History[T]) Redo() (T, bool) {
	if len(h.future) == 0 {
		return h.present, false
	}

	next := h.future[0]
	h.future = h.future[1:]
	h.push(h.present)
	h.present = next

	return h.present, true
}

// Clear 清空撤销和重做栈，保留当前状态
func (h *History[T]) Clear() {
	h.past = nil
	h.future = nil
}

func (h *History[T]) CanUndo() bool {
	return len(h.past) > 0
}

func (h *History[T]) CanRedo() bool {
	return len(h.future) > 0
}

// Depth 返回撤销栈和重做栈中各自的步数
func (h *History[T]) Depth() (undo int, redo int) {
	return len(h.past), len(h.future)
}
