// Package main is the entry point for the defscope CLI.
package main

import "defscope.dev/pkg/defscope/cmd"

func main() {
	cmd.Execute()
}
