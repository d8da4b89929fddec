package cmd

import (
	"fmt"
	"os"
)

var (
	// globals used to patch over calls to os.Exit() during test
	osExit = os.Exit
)

// exitCode is returned by commands which have already logged the reason of their failure
type exitCode int

func (c exitCode) Error() string {
	return fmt.Sprintf("exit status %d", int(c))
}

func wrapFatalWithCodef(code int, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	osExit(code)
}
