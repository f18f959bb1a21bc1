package main

import "github.com/robocompute/robocompute-go/internal/cli"

var version = "dev"

func main() {
	cli.Execute(version)
}
