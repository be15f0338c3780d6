package main

import "qtsetup/internal/cli"

func main() {
	cli.Execute()
}
