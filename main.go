package main

import "github.com/harmonia-labs/resonance/cmd"

func main() {
	cmd.Execute()
}
