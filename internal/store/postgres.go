package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blurahub/riskwatch/internal/models"
	"gorm.io/gorm"
)

// Store is the gorm-backed implementation of every pipeline store interface
type Store struct {
	db *gorm.DB
}

var (
	_ SettingsStore = (*Store)(nil)
	_ SourceStore   = (*Store)(nil)
	_ ContentStore  = (*Store)(nil)
	_ AnalysisStore = (*Store)(nil)
	_ AlertStore    = (*Store)(nil)
	_ KeywordStore  = (*Store)(nil)
)

// New creates a Store on top of an open gorm connection
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// GetSettings returns the global settings row, or defaults when operators
// have not saved anything yet.
func (s *Store) GetSettings(ctx context.Context) (models.Settings, error) {
	var settings models.Settings
	err := s.db.WithContext(ctx).First(&settings, "id = ?", models.SettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

// ListActiveSources returns all sources flagged for monitoring
func (s *Store) ListActiveSources(ctx context.Context) ([]models.Source, error) {
	var sources []models.Source
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("created_at").Find(&sources).Error; err != nil {
		return nil, fmt.Errorf("failed to list active sources: %w", err)
	}
	return sources, nil
}

// TouchLastChecked records that a poll was attempted for the source
func (s *Store) TouchLastChecked(ctx context.Context, sourceID string, checkedAt time.Time) error {
	err := s.db.WithContext(ctx).
		Model(&models.Source{}).
		Where("id = ?", sourceID).
		Update("last_checked", checkedAt).Error
	if err != nil {
		return fmt.Errorf("failed to update last_checked for source %s: %w", sourceID, err)
	}
	return nil
}

// ContentExists reports whether content with the platform-native id has
// already been ingested.
func (s *Store) ContentExists(ctx context.Context, platform, contentID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.ContentItem{}).
		Where("platform = ? AND content_id = ?", platform, contentID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check content existence: %w", err)
	}
	return count > 0, nil
}

// InsertContent persists a new ContentItem
func (s *Store) InsertContent(ctx context.Context, item *models.ContentItem) error {
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to insert content item %s/%s: %w", item.Platform, item.ContentID, err)
	}
	return nil
}

// InsertAnalysis persists a scoring result
func (s *Store) InsertAnalysis(ctx context.Context, analysis *models.Analysis) error {
	if err := s.db.WithContext(ctx).Create(analysis).Error; err != nil {
		return fmt.Errorf("failed to insert analysis for content %s: %w", analysis.ContentID, err)
	}
	return nil
}

// InsertAlert persists a new alert
func (s *Store) InsertAlert(ctx context.Context, alert *models.Alert) error {
	if err := s.db.WithContext(ctx).Create(alert).Error; err != nil {
		return fmt.Errorf("failed to insert alert for content %s: %w", alert.ContentID, err)
	}
	return nil
}

// ListAlertsSince returns alerts created at or after the given time, newest first
func (s *Store) ListAlertsSince(ctx context.Context, since time.Time) ([]models.Alert, error) {
	var alerts []models.Alert
	err := s.db.WithContext(ctx).
		Where("created_at >= ?", since).
		Order("created_at DESC").
		Find(&alerts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, nil
}

// ListKeywords returns every configured keyword entry
func (s *Store) ListKeywords(ctx context.Context) ([]models.Keyword, error) {
	var keywords []models.Keyword
	if err := s.db.WithContext(ctx).Find(&keywords).Error; err != nil {
		return nil, fmt.Errorf("failed to list keywords: %w", err)
	}
	return keywords, nil
}
