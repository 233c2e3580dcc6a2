// Package main is the entry point for the microplace CLI.
package main

import (
	"github.com/arnegilmore/microplace/cmd"
)

func main() {
	cmd.Execute()
}
