package main

import "github.com/bz888/medirag/cmd"

func main() {
	cmd.Execute()
}
