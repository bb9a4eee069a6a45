package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Bahjat/seo-check-api/internal/platform/logger"
	"github.com/Bahjat/seo-check-api/internal/seocheck"
)

var errNoURLs = errors.New("no URLs given: pass them as arguments or with --file")

type checkOptions struct {
	file         string
	timeout      time.Duration
	concurrency  int
	allowPrivate bool
}

// NewCheckCmd creates the check subcommand.
func NewCheckCmd() *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check [urls...]",
		Short: "Fetch the given pages and report SEO issues as JSON",
		Long: `Fetch each page, run the on-page SEO rules against it and print a JSON
report. Pages without issues are left out of the report; pages that could not
be fetched are listed with an error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read URLs from a file, one per line (# starts a comment)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", seocheck.DefaultFetchTimeout, "Timeout for each page fetch")
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "c", seocheck.DefaultConcurrency, "Pages fetched at the same time")
	cmd.Flags().BoolVar(&opts.allowPrivate, "allow-private", false, "Allow fetching private and loopback addresses")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, opts *checkOptions) error {
	urls := append([]string(nil), args...)
	if opts.file != "" {
		fromFile, err := readURLFile(opts.file)
		if err != nil {
			return err
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) == 0 {
		return errNoURLs
	}

	level, _ := cmd.Flags().GetString("log-level")
	log := logger.NewWithWriter(cmd.ErrOrStderr(), level, "text")

	checker := seocheck.NewChecker(
		seocheck.NewHTTPClient(opts.allowPrivate),
		seocheck.WithFetchTimeout(opts.timeout),
		seocheck.WithConcurrency(opts.concurrency),
		seocheck.WithLogger(log),
	)

	report, err := checker.Check(cmd.Context(), urls)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // user-provided list
	if err != nil {
		return nil, fmt.Errorf("open url list: %w", err)
	}
	defer func() { _ = f.Close() }()

	return parseURLList(f)
}

func parseURLList(r io.Reader) ([]string, error) {
	var urls []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read url list: %w", err)
	}
	return urls, nil
}
