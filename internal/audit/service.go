package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/Bahjat/seo-check-api/internal/model"
	"github.com/Bahjat/seo-check-api/internal/platform/requestid"
)

// Service runs batches through a BatchChecker and logs the outcome.
type Service struct {
	checker BatchChecker
	logger  *slog.Logger
}

// NewService creates a Service backed by the given checker.
func NewService(checker BatchChecker, logger *slog.Logger) *Service {
	return &Service{checker: checker, logger: logger}
}

// Check delegates to the checker and logs a summary of the batch.
func (s *Service) Check(ctx context.Context, urls []string) (*model.AnalysisReport, error) {
	logger := requestid.Logger(ctx, s.logger).With("total_urls", len(urls))
	start := time.Now()

	report, err := s.checker.Check(ctx, urls)
	if err != nil {
		logger.Warn("seo check aborted", "error", err, "duration", time.Since(start).String())
		return nil, err
	}

	var failed, flagged int
	for _, r := range report.Issues {
		if r.Failed() {
			failed++
			logger.Warn("url could not be checked", "url", r.URL, "error", r.Error)
			continue
		}
		flagged++
	}

	logger.Info("seo check complete",
		"flagged", flagged,
		"failed", failed,
		"clean", report.TotalURLs-flagged-failed,
		"duration", time.Since(start).String(),
	)
	return report, nil
}
