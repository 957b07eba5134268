package main

import "github.com/quaverlab/quaver/cmd"

func main() {
	cmd.Execute()
}
