// cmd/main.go
package main

import cmd "github.com/mwiater/langbench/cmd/langbench"

// main starts the langbench CLI application by delegating to the
// cobra root command defined in the langbench package.
func main() {
	cmd.Execute()
}
