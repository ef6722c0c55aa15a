package main

import "addrvec/internal/cli"

func main() {
	cli.Execute()
}
