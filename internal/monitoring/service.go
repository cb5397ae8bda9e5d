// Package monitoring implements the ingestion-and-scoring pipeline
package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blurahub/riskwatch/internal/analysis"
	"github.com/blurahub/riskwatch/internal/models"
	"github.com/blurahub/riskwatch/internal/notifications"
	"github.com/blurahub/riskwatch/internal/sources"
	"github.com/blurahub/riskwatch/internal/store"
	"github.com/sirupsen/logrus"
)

// ErrNoCredentials signals that no platform API key is configured at all;
// the scheduler reacts with its fallback delay instead of the normal interval.
var ErrNoCredentials = errors.New("no platform credentials configured")

// pageSize is the number of newest items requested per source per cycle
const pageSize = 10

// LexiconProvider supplies the keyword snapshot for one cycle
type LexiconProvider interface {
	Current(ctx context.Context) analysis.Lexicon
}

// FetcherFactory builds the platform fetchers for one settings snapshot
type FetcherFactory func(settings models.Settings) []sources.Fetcher

// Service drives one monitoring cycle: enumerate sources, fetch new content,
// score it, and raise alerts.
type Service struct {
	settings  store.SettingsStore
	sources   store.SourceStore
	content   store.ContentStore
	analyses  store.AnalysisStore
	alerts    store.AlertStore
	lexicon   LexiconProvider
	notifier  notifications.Notifier
	fetchers  FetcherFactory
	metrics   *Metrics
	metricsMu sync.RWMutex
}

// Metrics holds counters for the most recent cycle
type Metrics struct {
	LastRun         time.Time      `json:"last_run"`
	LastRunDuration string         `json:"last_run_duration"`
	SourcesChecked  int            `json:"sources_checked"`
	ItemsIngested   int            `json:"items_ingested"`
	AlertsRaised    int            `json:"alerts_raised"`
	SourceCounts    map[string]int `json:"source_counts"`
	RiskBreakdown   map[string]int `json:"risk_breakdown"`
	ErrorCount      int            `json:"error_count"`
}

// Deps bundles the collaborators of the monitoring service
type Deps struct {
	Settings store.SettingsStore
	Sources  store.SourceStore
	Content  store.ContentStore
	Analyses store.AnalysisStore
	Alerts   store.AlertStore
	Lexicon  LexiconProvider
	Notifier notifications.Notifier
	Fetchers FetcherFactory
}

// NewService creates a monitoring service
func NewService(deps Deps) *Service {
	fetchers := deps.Fetchers
	if fetchers == nil {
		fetchers = sources.ForSettings
	}
	return &Service{
		settings: deps.Settings,
		sources:  deps.Sources,
		content:  deps.Content,
		analyses: deps.Analyses,
		alerts:   deps.Alerts,
		lexicon:  deps.Lexicon,
		notifier: deps.Notifier,
		fetchers: fetchers,
		metrics: &Metrics{
			SourceCounts:  make(map[string]int),
			RiskBreakdown: make(map[string]int),
		},
	}
}

// cycleState carries the per-cycle snapshot. It is captured once at cycle
// start so threshold or lexicon changes mid-cycle never produce torn reads.
type cycleState struct {
	settings models.Settings
	lexicon  analysis.Lexicon
	fetchers map[string]sources.Fetcher
}

// RunCycle performs one full monitoring pass over all active sources and
// returns the sleep interval from the cycle's settings snapshot. Per-source
// failures are isolated; the only errors returned are cycle-level ones
// (settings unreadable, source enumeration failed, no credentials,
// cancellation).
func (s *Service) RunCycle(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	logrus.Info("Starting monitoring cycle")

	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load settings: %w", err)
	}

	interval := time.Duration(settings.MonitoringIntervalMinutes) * time.Minute

	if !settings.HasPlatformCredentials() {
		logrus.Warn("No platform API keys configured, skipping cycle")
		return 0, ErrNoCredentials
	}

	activeSources, err := s.sources.ListActiveSources(ctx)
	if err != nil {
		return interval, fmt.Errorf("failed to list active sources: %w", err)
	}

	if len(activeSources) == 0 {
		logrus.Info("No active sources to monitor")
		s.recordCycle(start, 0, 0, 0, nil, nil, 0)
		return interval, nil
	}

	cycle := &cycleState{
		settings: settings,
		lexicon:  s.lexicon.Current(ctx),
		fetchers: make(map[string]sources.Fetcher),
	}
	for _, fetcher := range s.fetchers(settings) {
		cycle.fetchers[fetcher.Platform()] = fetcher
	}

	logrus.Infof("Monitoring %d sources", len(activeSources))

	ingested := 0
	alertsRaised := 0
	errorCount := 0
	sourceCounts := make(map[string]int)
	riskBreakdown := make(map[string]int)

	for _, source := range activeSources {
		if ctx.Err() != nil {
			return interval, ctx.Err()
		}

		stats, err := s.processSource(ctx, cycle, source)
		if err != nil {
			if ctx.Err() != nil {
				return interval, ctx.Err()
			}
			logrus.Errorf("Error processing source %s (%s): %v", source.DisplayName, source.Platform, err)
			errorCount++
		}
		ingested += stats.ingested
		alertsRaised += stats.alerts
		sourceCounts[source.Platform] += stats.ingested
		for level, count := range stats.risks {
			riskBreakdown[level] += count
		}

		// Records "we attempted", not "we succeeded": a persistently failing
		// source must not look fresh, but it must not block siblings either.
		if err := s.sources.TouchLastChecked(ctx, source.ID, time.Now().UTC()); err != nil {
			logrus.Errorf("Failed to update last_checked for source %s: %v", source.DisplayName, err)
		}
	}

	s.recordCycle(start, len(activeSources), ingested, alertsRaised, sourceCounts, riskBreakdown, errorCount)

	logrus.Infof("Monitoring cycle completed in %v: %d new items, %d alerts", time.Since(start), ingested, alertsRaised)
	return interval, nil
}

type sourceStats struct {
	ingested int
	alerts   int
	risks    map[string]int
}

// processSource fetches and processes the newest items of one source. Item
// order follows the fetch result (platform-native, newest first).
func (s *Service) processSource(ctx context.Context, cycle *cycleState, source models.Source) (sourceStats, error) {
	stats := sourceStats{risks: make(map[string]int)}

	fetcher, ok := cycle.fetchers[source.Platform]
	if !ok || !fetcher.Enabled() {
		logrus.Debugf("Skipping source %s: no credentials for platform %s", source.DisplayName, source.Platform)
		return stats, nil
	}

	items, err := fetcher.FetchLatest(ctx, source.Identifier, pageSize)
	if err != nil {
		return stats, fmt.Errorf("fetch failed: %w", err)
	}

	for _, raw := range items {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}
		processed, riskLevel, err := s.processItem(ctx, cycle, source, raw)
		if err != nil {
			logrus.Errorf("Error processing item %s/%s: %v", source.Platform, raw.ContentID, err)
			continue
		}
		if !processed {
			continue
		}
		stats.ingested++
		stats.risks[riskLevel]++
		if riskLevel != models.RiskLow {
			stats.alerts++
		}
	}

	return stats, nil
}

// processItem runs one item through dedup, persist, score, classify, and
// alert. Returns false when the item was already ingested.
func (s *Service) processItem(ctx context.Context, cycle *cycleState, source models.Source, raw models.RawContent) (bool, string, error) {
	// Once an item starts persisting it runs to completion. Dedup keys on
	// content existence, so a sequence cut off after InsertContent would
	// leave the item ingested but never scored, with no retry possible.
	// Shutdown is honored between items, in processSource.
	ctx = context.WithoutCancel(ctx)

	exists, err := s.content.ContentExists(ctx, source.Platform, raw.ContentID)
	if err != nil {
		return false, "", fmt.Errorf("dedup check failed: %w", err)
	}
	if exists {
		return false, "", nil
	}

	author := raw.Author
	if author == "" {
		author = source.DisplayName
	}
	handle := raw.AuthorHandle
	if handle == "" {
		handle = source.Identifier
	}

	item := &models.ContentItem{
		SourceID:     source.ID,
		Platform:     source.Platform,
		ContentID:    raw.ContentID,
		ContentURL:   raw.ContentURL,
		Text:         raw.Text,
		Author:       author,
		AuthorHandle: handle,
		PublishedAt:  raw.PublishedAt,
		Engagement:   raw.Engagement,
	}

	if err := s.content.InsertContent(ctx, item); err != nil {
		return false, "", err
	}

	logrus.Infof("New %s content: %s from %s", source.Platform, raw.ContentID, source.DisplayName)

	result := analysis.Score(item.Text, cycle.lexicon)
	riskLevel := analysis.ClassifyRisk(
		result.ViolenceScore, result.ThreatScore, result.HateScore,
		cycle.settings.RiskThresholdHigh, cycle.settings.RiskThresholdMedium,
	)

	record := &models.Analysis{
		ContentID:         item.ID,
		ViolenceScore:     result.ViolenceScore,
		ThreatScore:       result.ThreatScore,
		HateScore:         result.HateScore,
		Sentiment:         result.Sentiment,
		RiskLevel:         riskLevel,
		TriggeredKeywords: models.StringList(result.TriggeredKeywords),
		Explanation:       result.Explanation,
	}

	if err := s.analyses.InsertAnalysis(ctx, record); err != nil {
		return false, "", err
	}

	if riskLevel == models.RiskMedium || riskLevel == models.RiskHigh {
		if err := s.raiseAlert(ctx, cycle, item, record); err != nil {
			return false, "", err
		}
	}

	return true, riskLevel, nil
}

// raiseAlert persists the alert, then attempts notification. Notification
// failure is logged only: the alert record stands regardless.
func (s *Service) raiseAlert(ctx context.Context, cycle *cycleState, item *models.ContentItem, record *models.Analysis) error {
	alert := &models.Alert{
		ContentID:   item.ID,
		AnalysisID:  record.ID,
		RiskLevel:   record.RiskLevel,
		Title:       fmt.Sprintf("%s Risk: %s", record.RiskLevel, item.Author),
		Description: record.Explanation,
		ContentURL:  item.ContentURL,
		Platform:    item.Platform,
		Author:      item.Author,
		Status:      models.AlertStatusActive,
	}

	if err := s.alerts.InsertAlert(ctx, alert); err != nil {
		return err
	}

	logrus.Infof("Alert created: %s - %s", alert.ID, alert.Title)

	if err := s.notifier.SendAlert(*alert, *record, cycle.settings); err != nil {
		logrus.Errorf("Failed to send alert notification for %s: %v", alert.ID, err)
	}

	return nil
}

// BuildDigest summarizes the alerts raised since the given time
func (s *Service) BuildDigest(ctx context.Context, since time.Time, period string) (*notifications.Digest, error) {
	alerts, err := s.alerts.ListAlertsSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to build digest: %w", err)
	}

	digest := &notifications.Digest{
		GeneratedAt: time.Now().UTC(),
		Period:      period,
		TotalAlerts: len(alerts),
		ByPlatform:  make(map[string]int),
		Alerts:      alerts,
	}

	for _, alert := range alerts {
		digest.ByPlatform[alert.Platform]++
		switch alert.RiskLevel {
		case models.RiskHigh:
			digest.HighCount++
		case models.RiskMedium:
			digest.MediumCount++
		}
	}

	return digest, nil
}

// SendDigest builds and delivers the periodic digest email, best-effort
func (s *Service) SendDigest(ctx context.Context, since time.Time, period string) error {
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings for digest: %w", err)
	}

	digest, err := s.BuildDigest(ctx, since, period)
	if err != nil {
		return err
	}

	if digest.TotalAlerts == 0 {
		logrus.Info("No alerts in digest period, skipping digest email")
		return nil
	}

	return s.notifier.SendDigest(digest, settings)
}

func (s *Service) recordCycle(start time.Time, sourcesChecked, ingested, alertsRaised int, sourceCounts, riskBreakdown map[string]int, errorCount int) {
	s.metricsMu.Lock()
	defer s.metricsMu.Unlock()

	if sourceCounts == nil {
		sourceCounts = make(map[string]int)
	}
	if riskBreakdown == nil {
		riskBreakdown = make(map[string]int)
	}

	s.metrics.LastRun = time.Now().UTC()
	s.metrics.LastRunDuration = time.Since(start).String()
	s.metrics.SourcesChecked = sourcesChecked
	s.metrics.ItemsIngested = ingested
	s.metrics.AlertsRaised = alertsRaised
	s.metrics.SourceCounts = sourceCounts
	s.metrics.RiskBreakdown = riskBreakdown
	s.metrics.ErrorCount = errorCount
}

// MetricsJSON returns the latest cycle metrics as JSON
func (s *Service) MetricsJSON() string {
	s.metricsMu.RLock()
	defer s.metricsMu.RUnlock()

	data, _ := json.MarshalIndent(s.metrics, "", "  ")
	return string(data)
}
