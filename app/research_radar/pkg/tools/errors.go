package tools

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput 工具收到空的或格式错误的输入
	ErrInvalidInput = errors.New("invalid input")
	// ErrPersist 记录无法写入磁盘
	ErrPersist = errors.New("persist failed")
)

// InputError 输入错误，属于不可恢复错误
type InputError struct {
	Tool   string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: invalid input: %s", e.Tool, e.Reason)
}

// Is 使 errors.Is(err, ErrInvalidInput) 成立
func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

// IOError 持久化失败，属于不可恢复错误
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Is 使 errors.Is(err, ErrPersist) 成立
func (e *IOError) Is(target error) bool { return target == ErrPersist }
