package history

// Bound 把 History 绑定到外部持有的状态上
// 状态本身由调用方通过 get/set 管理，Bound 只负责记录快照以及在撤销、重做时写回
type Bound[T any] struct {
	get func() T
	set func(T)

	h *History[T]
}

func NewBound[T any](get func() T, set func(T), maxDepth int) *Bound[T] {
	var zero T
	return &Bound[T]{
		get: get,
		set: set,
		h:   New(zero, maxDepth),
	}
}

// Snapshot 在修改之前调用，记录当前状态
// 适用于不会失败的修改；可能被拒绝的修改应该先自行保存快照，成功后再调用 Record
func (b *Bound[T]) Snapshot() {
	b.Record(b.get())
}

// Record 把修改之前的状态压入撤销栈并清空重做栈
func (b *Bound[T]) Record(previous T) {
	b.h.push(previous)
	b.h.future = nil
}

// Undo 把外部状态恢复到上一步，没有可撤销的状态时返回 false
func (b *Bound[T]) Undo() bool {
	return b.step(b.h.Undo)
}

// Redo 重新应用最近一次撤销掉的状态，没有可重做的状态时返回 false
func (b *Bound[T]) Redo() bool {
	return b.step(b.h.Redo)
}

// step 让 History 以外部状态为当前状态走一步，再把结果写回
// 两次操作之间 present 不保留外部状态的引用
func (b *Bound[T]) step(move func() (T, bool)) bool {
	var zero T
	b.h.present = b.get()
	state, ok := move()
	b.h.present = zero
	if ok {
		b.set(state)
	}
	return ok
}

func (b *Bound[T]) Clear() {
	b.h.Clear()
}

func (b *Bound[T]) CanUndo() bool {
	return b.h.CanUndo()
}

func (b *Bound[T]) CanRedo() bool {
	return b.h.CanRedo()
}

// Depth 返回撤销栈和重做栈中各自的步数
func (b *Bound[T]) Depth() (undo int, redo int) {
	return b.h.Depth()
}
