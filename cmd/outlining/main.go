package main

import (
	"context"
	"fmt"
	"os"

	"github.com/peco/outlining/internal/cli"
	"github.com/peco/outlining/internal/util"
)

var version = "v0.1.0"

func main() {
	var st int
	defer func() { os.Exit(st) }()

	if err := cli.New(version).Run(context.Background(), os.Args[1:]); err != nil {
		st, _ = util.GetExitStatus(err)
		if st != 0 {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
	}
}
