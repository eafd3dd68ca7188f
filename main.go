package main

import (
	"github.com/tikz/fold/cmd"
)

func main() {
	cmd.Execute() // initialize cobra commands
}
