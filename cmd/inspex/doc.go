// Package inspex provides the command-line interface for the inspex tool.
// It configures subcommands (export, profiles, regions, history), parses
// flags, and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/inspex/inspex/cmd/inspex"
//	func main() { inspex.Execute() }
package inspex
