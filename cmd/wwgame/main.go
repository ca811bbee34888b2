package main

import "github.com/mcoot/werewolf-go/internal/cli"

func main() {
	cli.Execute()
}
