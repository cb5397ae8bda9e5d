// Package sources contains the platform fetchers for monitored accounts
package sources

import (
	"context"

	"github.com/blurahub/riskwatch/internal/models"
)

// Fetcher defines the contract for all platform fetchers
type Fetcher interface {
	Platform() string
	Enabled() bool
	FetchLatest(ctx context.Context, identifier string, maxItems int) ([]models.RawContent, error)
}

// ForSettings builds the fetcher set for one monitoring cycle from the
// settings snapshot's credentials. Fetchers with no credential report
// Enabled() == false and their sources are skipped for the cycle.
func ForSettings(settings models.Settings) []Fetcher {
	return []Fetcher{
		NewYouTubeFetcher(settings.YouTubeAPIKey),
		NewXFetcher(settings.XBearerToken),
	}
}
