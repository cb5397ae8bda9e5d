// Package models contains the persisted data model for the risk monitoring pipeline
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Platform identifiers for monitored networks
const (
	PlatformYouTube = "youtube"
	PlatformX       = "x"
)

// Risk levels assigned by the classifier
const (
	RiskLow    = "LOW"
	RiskMedium = "MEDIUM"
	RiskHigh   = "HIGH"
)

// Alert lifecycle states. The pipeline only ever creates alerts in
// AlertStatusActive; the remaining transitions belong to the review API.
const (
	AlertStatusActive        = "active"
	AlertStatusAcknowledged  = "acknowledged"
	AlertStatusEscalated     = "escalated"
	AlertStatusFalsePositive = "false_positive"
)

// Keyword categories
const (
	CategoryViolence = "violence"
	CategoryThreat   = "threat"
	CategoryHate     = "hate"
)

// StringList is a string slice stored as a JSON column
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
}

// Engagement holds platform-specific engagement counters (views, likes, ...)
// stored as a JSON column.
type Engagement map[string]int64

func (e Engagement) Value() (driver.Value, error) {
	if e == nil {
		e = Engagement{}
	}
	return json.Marshal(e)
}

func (e *Engagement) Scan(value interface{}) error {
	if value == nil {
		*e = Engagement{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, e)
	case string:
		return json.Unmarshal([]byte(v), e)
	default:
		return fmt.Errorf("unsupported type for Engagement: %T", value)
	}
}

// Source is a monitored platform account or channel
type Source struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	Platform    string     `json:"platform" gorm:"not null;uniqueIndex:idx_sources_platform_identifier"`
	Identifier  string     `json:"identifier" gorm:"not null;uniqueIndex:idx_sources_platform_identifier"`
	DisplayName string     `json:"display_name"`
	Category    string     `json:"category" gorm:"default:unknown"`
	IsActive    bool       `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	LastChecked *time.Time `json:"last_checked"`
}

func (Source) TableName() string { return "sources" }

func (s *Source) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// ContentItem is one piece of fetched content normalized to a common shape.
// (Platform, ContentID) is the deduplication key across ingestion runs.
type ContentItem struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	SourceID     string     `json:"source_id" gorm:"not null;index"`
	Platform     string     `json:"platform" gorm:"not null;uniqueIndex:idx_content_platform_native"`
	ContentID    string     `json:"content_id" gorm:"not null;uniqueIndex:idx_content_platform_native"`
	ContentURL   string     `json:"content_url"`
	Text         string     `json:"text"`
	Author       string     `json:"author"`
	AuthorHandle string     `json:"author_handle"`
	PublishedAt  time.Time  `json:"published_at"`
	Engagement   Engagement `json:"engagement" gorm:"type:jsonb"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

func (ContentItem) TableName() string { return "content_items" }

func (c *ContentItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Analysis is the scoring result for one ContentItem, written exactly once
type Analysis struct {
	ID                string     `json:"id" gorm:"primaryKey"`
	ContentID         string     `json:"content_id" gorm:"not null;uniqueIndex"`
	ViolenceScore     int        `json:"violence_score"`
	ThreatScore       int        `json:"threat_score"`
	HateScore         int        `json:"hate_score"`
	Sentiment         string     `json:"sentiment"`
	RiskLevel         string     `json:"risk_level" gorm:"index"`
	TriggeredKeywords StringList `json:"triggered_keywords" gorm:"type:jsonb"`
	Explanation       string     `json:"explanation"`
	AnalyzedAt        time.Time  `json:"analyzed_at" gorm:"autoCreateTime"`
}

func (Analysis) TableName() string { return "analyses" }

func (a *Analysis) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Alert is an actionable record raised for MEDIUM or HIGH risk content
type Alert struct {
	ID             string     `json:"id" gorm:"primaryKey"`
	ContentID      string     `json:"content_id" gorm:"not null;index"`
	AnalysisID     string     `json:"analysis_id" gorm:"not null"`
	RiskLevel      string     `json:"risk_level" gorm:"not null;index"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	ContentURL     string     `json:"content_url"`
	Platform       string     `json:"platform"`
	Author         string     `json:"author"`
	Status         string     `json:"status" gorm:"default:active;index"`
	AcknowledgedBy string     `json:"acknowledged_by"`
	AcknowledgedAt *time.Time `json:"acknowledged_at"`
	Notes          string     `json:"notes"`
	CreatedAt      time.Time  `json:"created_at" gorm:"autoCreateTime;index"`
}

func (Alert) TableName() string { return "alerts" }

func (a *Alert) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Keyword is one weighted lexicon entry, managed through the admin API
type Keyword struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Category  string    `json:"category" gorm:"not null;index"`
	Keyword   string    `json:"keyword" gorm:"not null"`
	Weight    int       `json:"weight" gorm:"default:1"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Keyword) TableName() string { return "keywords" }

func (k *Keyword) BeforeCreate(tx *gorm.DB) error {
	if k.ID == "" {
		k.ID = uuid.NewString()
	}
	return nil
}

// SettingsID is the primary key of the single settings row
const SettingsID = "global_settings"

// Settings is the runtime configuration snapshot read once per monitoring cycle
type Settings struct {
	ID                        string    `json:"id" gorm:"primaryKey"`
	RiskThresholdHigh         int       `json:"risk_threshold_high" gorm:"default:70"`
	RiskThresholdMedium       int       `json:"risk_threshold_medium" gorm:"default:40"`
	AlertEmailAdmin           string    `json:"alert_email_admin"`
	AlertEmailPolice          string    `json:"alert_email_police"`
	SMTPHost                  string    `json:"smtp_host"`
	SMTPPort                  int       `json:"smtp_port" gorm:"default:587"`
	SMTPUsername              string    `json:"smtp_username"`
	SMTPPassword              string    `json:"smtp_password"`
	MonitoringIntervalMinutes int       `json:"monitoring_interval_minutes" gorm:"default:15"`
	YouTubeAPIKey             string    `json:"youtube_api_key"`
	XBearerToken              string    `json:"x_bearer_token"`
	UpdatedAt                 time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Settings) TableName() string { return "settings" }

// DefaultSettings returns the configuration used before operators have saved
// anything: default thresholds and interval, no credentials.
func DefaultSettings() Settings {
	return Settings{
		ID:                        SettingsID,
		RiskThresholdHigh:         70,
		RiskThresholdMedium:       40,
		SMTPPort:                  587,
		MonitoringIntervalMinutes: 15,
	}
}

// Recipients returns the configured alert recipients, skipping empty entries
func (s Settings) Recipients() []string {
	var recipients []string
	if s.AlertEmailAdmin != "" {
		recipients = append(recipients, s.AlertEmailAdmin)
	}
	if s.AlertEmailPolice != "" {
		recipients = append(recipients, s.AlertEmailPolice)
	}
	return recipients
}

// HasPlatformCredentials reports whether at least one platform API key is configured
func (s Settings) HasPlatformCredentials() bool {
	return s.YouTubeAPIKey != "" || s.XBearerToken != ""
}

// AllModels returns every model type for database migrations
func AllModels() []interface{} {
	return []interface{}{
		&Source{},
		&ContentItem{},
		&Analysis{},
		&Alert{},
		&Keyword{},
		&Settings{},
	}
}

// RawContent is a platform-native item as returned by a fetcher, before it is
// persisted as a ContentItem.
type RawContent struct {
	ContentID    string
	ContentURL   string
	Text         string
	Author       string
	AuthorHandle string
	PublishedAt  time.Time
	Engagement   Engagement
}
