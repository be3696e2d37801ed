// Command projectarea edits a project document from the terminal. Each
// invocation is one editor session: it loads the workspace, runs one
// command and quick-saves the result.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
