package main

import (
	"os"

	"svw.info/wordladder/internal/cli"
)

func main() {
	os.Exit(cli.Main(os.Args[1:], os.Stdout, os.Stderr))
}
