package cli

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

// exitError carries a process exit code and an optional hint line.
type exitError struct {
	code   int
	err    error
	hint   string
	silent bool
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }
func (e *exitError) ExitCode() int { return e.code }
func (e *exitError) withHint(h string) *exitError {
	e.hint = h
	return e
}

func usageError(format string, args ...interface{}) *exitError {
	return &exitError{code: 2, err: errors.Newf(format, args...)}
}

// errShowedHelp ends a bare "kinly" run after the help text was printed.
var errShowedHelp = &exitError{code: 2, err: errors.New("no subcommand"), silent: true}

// usageArgs turns cobra's argument validation failures into usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return (&exitError{code: 2, err: err}).withHint("run `" + cmd.CommandPath() + " --help` for usage")
		}
		return nil
	}
}

func flagError(cmd *cobra.Command, err error) error {
	return (&exitError{code: 2, err: err}).withHint("run `" + cmd.CommandPath() + " --help` for usage")
}
