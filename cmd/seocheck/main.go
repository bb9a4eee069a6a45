// Command seocheck runs the on-page SEO checks from the terminal and prints
// the same JSON report the API returns.
//
// Usage:
//
//	seocheck check https://example.com https://example.org
//	seocheck check --file urls.txt
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
