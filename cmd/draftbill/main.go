package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/draftbill/draftbill/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// Operation failures already wrote their formatted output; only
		// command-level errors (bad flags, unreadable database) need a line.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) || exitErr.Code == cli.ExitCommandError {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
