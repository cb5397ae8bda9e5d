package notifications

import (
	"time"

	"github.com/blurahub/riskwatch/internal/models"
)

// Digest summarizes the alerts raised over a reporting period
type Digest struct {
	GeneratedAt time.Time
	Period      string
	TotalAlerts int
	HighCount   int
	MediumCount int
	ByPlatform  map[string]int
	Alerts      []models.Alert
}

// Notifier defines the contract for alert and digest delivery. Both methods
// report failure for logging only; callers never make persistence depend on
// the result.
type Notifier interface {
	SendAlert(alert models.Alert, analysis models.Analysis, settings models.Settings) error
	SendDigest(digest *Digest, settings models.Settings) error
}
