package main

import (
	"context"
	"fmt"
	"os"

	"github.com/klauern/s3up/internal/cli"
	"github.com/klauern/s3up/internal/ui"
)

func main() {
	if err := cli.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ui.ErrorPrefix(), err)
		os.Exit(1)
	}
}
