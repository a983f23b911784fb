package cli

import (
	"fmt"
	"strconv"
)

// Exit codes
const (
	ExitSuccess   = 0
	ExitPartial   = 1
	ExitFatal     = 2
	ExitCancelled = 3
)

// ExitError carries the process exit code of a command. The error, if any,
// has already been reported to the user.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return "exit status " + strconv.Itoa(e.Code)
	}
	return fmt.Sprintf("exit status %d: %v", e.Code, e.Err)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
