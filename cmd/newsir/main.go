package main

import "newsir/internal/cli"

func main() {
	cli.Execute()
}
