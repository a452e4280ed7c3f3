// BoardPlace: PCB component placement search
//
// Searches for positions of a USB connector, an MCU, its crystal and two
// mounting blocks on a rectangular board that satisfy every hard layout
// rule, and writes the best layout as text, PDF, PNG, Excel, DXF and JSON.
//
// Build:
//   go build -o boardplace ./cmd/boardplace
//
// Usage:
//   boardplace solve --seed 7 --time 2s --formats summary,pdf,json
//   boardplace check placement_solution.json
//   boardplace view placement_solution.json

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/piwi3910/BoardPlace/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cli.SetVersion(version, commit, date)
	err := cli.Execute(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return cli.ExitCode(err)
}
