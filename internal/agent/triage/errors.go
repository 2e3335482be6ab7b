package triage

import (
	"errors"
	"fmt"
)

// StageError 阶段硬失败，包裹底层原因
type StageError struct {
	Stage string
	Err   error
}

// Error 实现 error 接口
func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

// Unwrap 实现 errors.Unwrap 接口
func (e *StageError) Unwrap() error {
	return e.Err
}

// FailedStage 若 err 来自某个阶段则返回阶段名
func FailedStage(err error) (string, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}
