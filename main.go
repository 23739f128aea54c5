package main

import "github.com/dt-pm-tools/aha-cli/cmd"

func main() {
	cmd.Execute()
}
