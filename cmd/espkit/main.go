package main

import "espkit/internal/cli"

func main() {
	cli.Execute()
}
