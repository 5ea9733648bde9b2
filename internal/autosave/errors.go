package autosave

import "errors"

var ErrClosed = errors.New("编辑会话已关闭")
