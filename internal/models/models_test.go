package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettings_Recipients(t *testing.T) {
	tests := []struct {
		name     string
		admin    string
		police   string
		expected []string
	}{
		{"Both configured", "admin@example.com", "police@example.com", []string{"admin@example.com", "police@example.com"}},
		{"Admin only", "admin@example.com", "", []string{"admin@example.com"}},
		{"None configured", "", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Settings{AlertEmailAdmin: tt.admin, AlertEmailPolice: tt.police}
			assert.Equal(t, tt.expected, s.Recipients())
		})
	}
}

func TestSettings_HasPlatformCredentials(t *testing.T) {
	assert.False(t, DefaultSettings().HasPlatformCredentials())
	assert.True(t, Settings{YouTubeAPIKey: "key"}.HasPlatformCredentials())
	assert.True(t, Settings{XBearerToken: "token"}.HasPlatformCredentials())
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, SettingsID, s.ID)
	assert.Equal(t, 70, s.RiskThresholdHigh)
	assert.Equal(t, 40, s.RiskThresholdMedium)
	assert.Equal(t, 15, s.MonitoringIntervalMinutes)
}
