package main

import (
	"os"

	"github.com/van-Rees-Lab/flups-validation/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
