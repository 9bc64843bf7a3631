package main

import (
	"github.com/harborline/battleship-go/internal/cli"
)

func main() {
	cli.Execute()
}
