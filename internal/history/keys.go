package history

import (
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
)

// Chord 是前端上报的一次按键组合，例如 "ctrl+shift+z"
type Chord string

func (c Chord) String() string {
	return string(c)
}

var modifierOrder = []string{"ctrl", "alt", "shift", "super"}

// ParseChord 规范化按键组合：统一小写，修饰键按固定顺序排列
// "Shift+Ctrl+Z"、"meta+z" 这类写法都会被转换成绑定中使用的形式
func ParseChord(s string) Chord {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")

	var modifiers []string
	var keyName string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		switch p {
		case "":
			continue
		case "control":
			p = "ctrl"
		case "cmd", "meta", "command":
			p = "super"
		case "option":
			p = "alt"
		}
		if slices.Contains(modifierOrder, p) {
			if !slices.Contains(modifiers, p) {
				modifiers = append(modifiers, p)
			}
			continue
		}
		keyName = p
	}

	slices.SortFunc(modifiers, func(a, b string) int {
		return slices.Index(modifierOrder, a) - slices.Index(modifierOrder, b)
	})

	return Chord(strings.Join(append(modifiers, keyName), "+"))
}

type KeyMap struct {
	Undo key.Binding
	Redo key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Undo: key.NewBinding(
			key.WithKeys("ctrl+z", "super+z"),
			key.WithHelp("ctrl+z", "撤销"),
		),
		Redo: key.NewBinding(
			key.WithKeys("ctrl+y", "ctrl+shift+z", "super+shift+z"),
			key.WithHelp("ctrl+y", "重做"),
		),
	}
}

// Action 是一次按键触发的历史操作
type Action string

const (
	ActionNone Action = ""
	ActionUndo Action = "undo"
	ActionRedo Action = "redo"
)

// Shortcuts 把撤销、重做快捷键分派到 Undoer 上
// 只有 Attach 之后才会响应按键，Detach 之后所有按键都会被忽略
type Shortcuts struct {
	mu       sync.Mutex
	keys     KeyMap
	target   Undoer
	attached bool
}

type Undoer interface {
	Undo() bool
	Redo() bool
}

func NewShortcuts(keys KeyMap) *Shortcuts {
	return &Shortcuts{keys: keys}
}

func (s *Shortcuts) Attach(target Undoer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.target = target
	s.attached = true
}

func (s *Shortcuts) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.target = nil
	s.attached = false
}

func (s *Shortcuts) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.attached
}

// HandleKey 处理一次按键，返回匹配到的操作以及该操作是否真正改变了状态
// 焦点在文本输入框中时不处理，交给输入框自己的撤销逻辑
func (s *Shortcuts) HandleKey(chord Chord, inTextInput bool) (Action, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached || s.target == nil || inTextInput {
		return ActionNone, false
	}

	switch {
	case key.Matches(chord, s.keys.Undo):
		return ActionUndo, s.target.Undo()
	case key.Matches(chord, s.keys.Redo):
		return ActionRedo, s.target.Redo()
	default:
		return ActionNone, false
	}
}

// Help 返回已启用的快捷键说明
func (s *Shortcuts) Help() []key.Help {
	var help []key.Help
	for _, b := range []key.Binding{s.keys.Undo, s.keys.Redo} {
		if b.Enabled() {
			help = append(help, b.Help())
		}
	}
	return help
}
