package pipeline

import "fmt"

// PipelineError 某个步骤的不可恢复错误，运行因此终止
type PipelineError struct {
	Framework string
	Step      string
	Err       error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s pipeline failed at step %q: %v", e.Framework, e.Step, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }
