package main

import "github.com/mcoot/kmapgame/internal/cli"

func main() {
	cli.Execute()
}
