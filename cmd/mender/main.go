package main

import "github.com/vietddude/mender/internal/cli"

func main() {
	cli.Execute()
}
