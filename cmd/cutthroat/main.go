package main

import "github.com/mcoot/cutthroat/internal/cli"

func main() {
	cli.Execute()
}
