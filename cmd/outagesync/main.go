package main

import "github.com/vietddude/outagesync/internal/cli"

func main() {
	cli.Execute()
}
