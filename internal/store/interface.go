// Package store provides the persistence layer used by the monitoring pipeline
package store

import (
	"context"
	"time"

	"github.com/blurahub/riskwatch/internal/models"
)

// SettingsStore reads the runtime configuration snapshot
type SettingsStore interface {
	GetSettings(ctx context.Context) (models.Settings, error)
}

// SourceStore enumerates monitored sources and records poll attempts
type SourceStore interface {
	ListActiveSources(ctx context.Context) ([]models.Source, error)
	TouchLastChecked(ctx context.Context, sourceID string, checkedAt time.Time) error
}

// ContentStore persists fetched content. ContentExists is the sole arbiter
// of ingestion idempotency: (platform, content_id) is globally unique.
type ContentStore interface {
	ContentExists(ctx context.Context, platform, contentID string) (bool, error)
	InsertContent(ctx context.Context, item *models.ContentItem) error
}

// AnalysisStore persists scoring results
type AnalysisStore interface {
	InsertAnalysis(ctx context.Context, analysis *models.Analysis) error
}

// AlertStore persists alerts and serves the digest query
type AlertStore interface {
	InsertAlert(ctx context.Context, alert *models.Alert) error
	ListAlertsSince(ctx context.Context, since time.Time) ([]models.Alert, error)
}

// KeywordStore reads the configured lexicon entries
type KeywordStore interface {
	ListKeywords(ctx context.Context) ([]models.Keyword, error)
}
