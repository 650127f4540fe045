package main

import (
	_ "go.uber.org/automaxprocs"
	"repair-ticket/cmd"
)

func main() {
	cmd.Start()
}
