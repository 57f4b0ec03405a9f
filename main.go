package main

import (
	"github.com/dyike/quotebridge/internal/cli"
)

func main() {
	cli.Run()
}
