package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/adanyl0v/go-task-tracker/internal/store"
)

// reportedError marks a failure the store already printed as a
// notification.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }

func (e reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return reportedError{err: err}
}

// Execute runs the tracker command and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	root := NewRootCommand()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var r reportedError
	if !errors.As(err, &r) {
		_, _ = fmt.Fprintln(root.ErrOrStderr(), "Error:", store.ErrorMessage(err))
	}
	return 1
}
