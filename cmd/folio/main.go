package main

import (
	"fmt"
	"os"

	"github.com/existflow/folio/internal/cli"
	"github.com/existflow/folio/internal/logger"
)

func main() {
	err := cli.Execute()
	_ = logger.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
