package main

import "github.com/inspex/inspex/cmd/inspex"

func main() { inspex.Execute() }
