package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.starlark.net/repl"
	"go.starlark.net/starlark"

	"github.com/starvals/starvals/pkg/eval"
)

func newREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive Starlark session",
		Long: `Start an interactive Starlark read-eval-print loop with the container
builtin predeclared. Exit with Ctrl-D.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			predeclared, err := eval.Predeclared(nil)
			if err != nil {
				return err
			}

			thread := &starlark.Thread{
				Name: "repl",
				Print: func(_ *starlark.Thread, msg string) {
					fmt.Println(msg)
				},
			}

			fmt.Println("starvals: container(...) is predeclared; Ctrl-D to exit")
			repl.REPL(thread, predeclared)
			return nil
		},
	}
}
