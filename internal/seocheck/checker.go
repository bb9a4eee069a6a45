package seocheck

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Bahjat/seo-check-api/internal/model"
	"github.com/Bahjat/seo-check-api/internal/platform/errs"
)

const (
	// DefaultFetchTimeout bounds a single page fetch.
	DefaultFetchTimeout = 120 * time.Second
	// DefaultConcurrency is the number of pages fetched at once per batch.
	DefaultConcurrency = 10
)

// Checker runs the fetch, parse and rule pipeline for a batch of URLs.
// It holds configuration only and is safe for concurrent use.
type Checker struct {
	fetcher      Fetcher
	rules        []Rule
	fetchTimeout time.Duration
	concurrency  int
	logger       *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithFetchTimeout sets the per-URL fetch timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Checker) {
		if d > 0 {
			c.fetchTimeout = d
		}
	}
}

// WithConcurrency sets how many URLs of one batch are processed at once.
func WithConcurrency(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithRules replaces the default rule set.
func WithRules(rules []Rule) Option {
	return func(c *Checker) {
		c.rules = rules
	}
}

// WithLogger sets the logger used for per-URL debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewChecker returns a Checker that fetches pages with fetcher.
func NewChecker(fetcher Fetcher, opts ...Option) *Checker {
	c := &Checker{
		fetcher:      fetcher,
		rules:        DefaultRules(),
		fetchTimeout: DefaultFetchTimeout,
		concurrency:  DefaultConcurrency,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// page is a fetched body, shared between identical URLs of one batch.
type page struct {
	body        []byte
	contentType string
}

// Check analyzes every URL and returns the aggregated report. A failing URL
// becomes an error entry and never affects the others. Entries follow the
// input order; URLs without issues are left out. The only error returned is
// the context's, in which case no report is produced.
func (c *Checker) Check(ctx context.Context, urls []string) (*model.AnalysisReport, error) {
	results := make([]*model.URLResult, len(urls))

	// Identical URLs in flight at the same time share one fetch.
	var inflight singleflight.Group

	var g errgroup.Group
	g.SetLimit(c.concurrency)

	for i, rawURL := range urls {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = c.checkURL(ctx, &inflight, rawURL)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &model.AnalysisReport{
		TotalURLs: len(urls),
		Issues:    make([]model.URLResult, 0, len(urls)),
	}
	for _, r := range results {
		if r != nil {
			report.Issues = append(report.Issues, *r)
		}
	}
	return report, nil
}

// errInternal is the only detail a caller sees when checking a URL panicked.
// The panic value can carry a stack trace and stays in the server log.
const errInternal = "internal error"

// checkURL returns the terminal result for one URL, or nil when the page
// has no issues. A panic in any stage is turned into an error entry.
func (c *Checker) checkURL(ctx context.Context, inflight *singleflight.Group, rawURL string) (result *model.URLResult) {
	start := time.Now()
	logger := c.logger.With("url", rawURL)

	defer func() {
		if p := recover(); p != nil {
			logger.Error("panic while checking url", "panic", fmt.Sprint(p))
			result = &model.URLResult{URL: rawURL, Error: errInternal}
		}
	}()

	doc, err := c.load(ctx, inflight, rawURL)
	if err != nil {
		logger.Debug("url failed", "error", err, "kind", errs.KindOf(err).String(), "duration", time.Since(start).String())
		return &model.URLResult{URL: rawURL, Error: err.Error()}
	}

	issues := Evaluate(doc, c.rules)
	logger.Debug("url checked", "issues", len(issues), "duration", time.Since(start).String())
	if len(issues) == 0 {
		return nil
	}
	return &model.URLResult{URL: rawURL, IssueTypes: issues}
}

// load fetches and parses one URL. Each call parses its own Document even
// when the fetch was shared.
func (c *Checker) load(ctx context.Context, inflight *singleflight.Group, rawURL string) (*Document, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	v, err, _ := inflight.Do(rawURL, func() (any, error) {
		return c.fetch(ctx, rawURL)
	})
	if err != nil {
		return nil, err
	}
	p := v.(*page)

	doc, err := ParseDocument(bytes.NewReader(p.body), p.contentType)
	if err != nil {
		return nil, &errs.AppError{
			Kind:    errs.ParsingFailed,
			Message: "failed to parse the HTML content",
			Cause:   err,
		}
	}
	return doc, nil
}

func (c *Checker) fetch(ctx context.Context, rawURL string) (*page, error) {
	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	resp, err := c.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, c.fetchError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &errs.AppError{
			Kind:           errs.Unreachable,
			UpstreamStatus: resp.StatusCode,
			Message:        fmt.Sprintf("unexpected status %s for url: %s", statusLine(resp), rawURL),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fetchError(ctx, err)
	}

	return &page{body: body, contentType: resp.ContentType}, nil
}

func (c *Checker) fetchError(ctx context.Context, err error) error {
	if errors.Is(err, ErrBlockedAddress) {
		return &errs.AppError{
			Kind:    errs.InvalidInput,
			Message: "refusing to fetch a private or reserved address",
			Cause:   err,
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &errs.AppError{
			Kind:    errs.Timeout,
			Message: fmt.Sprintf("request timed out after %s", c.fetchTimeout),
			Cause:   err,
		}
	}
	return &errs.AppError{
		Kind:    errs.Unreachable,
		Message: "request failed",
		Cause:   err,
	}
}

func validateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return &errs.AppError{
			Kind:    errs.InvalidInput,
			Message: "invalid URL",
			Cause:   err,
		}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return &errs.AppError{
			Kind:    errs.InvalidInput,
			Message: fmt.Sprintf("invalid URL %q: only http and https are supported", rawURL),
		}
	}
	if parsed.Host == "" {
		return &errs.AppError{
			Kind:    errs.InvalidInput,
			Message: fmt.Sprintf("invalid URL %q: no host supplied", rawURL),
		}
	}
	return nil
}

func statusLine(resp *Response) string {
	if resp.Status != "" {
		return resp.Status
	}
	return fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}
