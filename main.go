// The main package for the vapescout executable.
package main

import (
	"github.com/sbrennan/vapescout/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
