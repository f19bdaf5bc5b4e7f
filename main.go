package main

import "github.com/fishresearch/trapdb/cmd"

func main() {
	cmd.Execute()
}
