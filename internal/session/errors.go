package session

import "errors"

var (
	ErrSessionNotFound = errors.New("编辑会话不存在或已过期")
	ErrSessionClosed   = errors.New("编辑会话已关闭")
	ErrInvalidWindow   = errors.New("排班窗口的天数超出范围")
	ErrNothingToUndo   = errors.New("没有可以撤销的操作")
	ErrNothingToRedo   = errors.New("没有可以重做的操作")
	ErrWindowChanging  = errors.New("正在切换排班窗口，请稍后再试")
)
