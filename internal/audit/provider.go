package audit

import (
	"context"

	"github.com/Bahjat/seo-check-api/internal/model"
)

// BatchChecker defines the contract for any SEO batch analysis engine.
type BatchChecker interface {
	Check(ctx context.Context, urls []string) (*model.AnalysisReport, error)
}
