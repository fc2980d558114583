package main

import "ragtour/internal/cli"

func main() {
	cli.Execute()
}
