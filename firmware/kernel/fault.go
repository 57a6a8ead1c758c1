package kernel

import (
	"errors"
	"fmt"
)

// FaultInfo describes the failure that halted the kernel.
type FaultInfo struct {
	TaskID TaskID
	Task   string
	// Err is set when the task returned an error.
	Err error
	// Value and Stack are set when the task panicked.
	Value any
	Stack []byte
}

// Panicked reports whether the fault was a recovered panic.
func (f FaultInfo) Panicked() bool { return f.Err == nil }

func (f FaultInfo) cause() string {
	if f.Err != nil {
		return f.Err.Error()
	}
	return fmt.Sprintf("panic: %v", f.Value)
}

func (f FaultInfo) Error() string {
	return fmt.Sprintf("task=%d (%s): %s", f.TaskID, f.Task, f.cause())
}

func (f FaultInfo) Unwrap() error {
	if f.Err != nil {
		return f.Err
	}
	if err, ok := f.Value.(error); ok {
		return err
	}
	return nil
}

// IsFault reports whether err carries a FaultInfo.
func IsFault(err error) bool {
	var f FaultInfo
	return errors.As(err, &f)
}
