package main

import "github.com/agentic-research/formtab/cmd"

func main() {
	cmd.Execute()
}
