// lockscore scores vendor contracts for lock-in risk.
//
// Usage:
//
//	lockscore assess contracts/acme_tos.html --md acme.md
//	lockscore batch contracts/ --output-dir reports/
//	lockscore serve    # MCP tool server (stdio transport)
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ppiankov/lockscore/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
