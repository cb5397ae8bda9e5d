package sources

import (
	"testing"

	"github.com/blurahub/riskwatch/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestYouTubeFetcher_Platform(t *testing.T) {
	fetcher := NewYouTubeFetcher("api-key")
	assert.Equal(t, models.PlatformYouTube, fetcher.Platform())
}

func TestYouTubeFetcher_Enabled(t *testing.T) {
	assert.True(t, NewYouTubeFetcher("api-key").Enabled())
	assert.False(t, NewYouTubeFetcher("").Enabled())
}

func TestXFetcher_Platform(t *testing.T) {
	fetcher := NewXFetcher("bearer-token")
	assert.Equal(t, models.PlatformX, fetcher.Platform())
}

func TestXFetcher_Enabled(t *testing.T) {
	assert.True(t, NewXFetcher("bearer-token").Enabled())
	assert.False(t, NewXFetcher("").Enabled())
}

func TestForSettings(t *testing.T) {
	tests := []struct {
		name           string
		settings       models.Settings
		youtubeEnabled bool
		xEnabled       bool
	}{
		{
			name:           "No credentials",
			settings:       models.Settings{},
			youtubeEnabled: false,
			xEnabled:       false,
		},
		{
			name:           "YouTube only",
			settings:       models.Settings{YouTubeAPIKey: "key"},
			youtubeEnabled: true,
			xEnabled:       false,
		},
		{
			name:           "Both platforms",
			settings:       models.Settings{YouTubeAPIKey: "key", XBearerToken: "token"},
			youtubeEnabled: true,
			xEnabled:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetchers := ForSettings(tt.settings)
			byPlatform := make(map[string]Fetcher)
			for _, f := range fetchers {
				byPlatform[f.Platform()] = f
			}

			assert.Equal(t, tt.youtubeEnabled, byPlatform[models.PlatformYouTube].Enabled())
			assert.Equal(t, tt.xEnabled, byPlatform[models.PlatformX].Enabled())
		})
	}
}

func TestParseCount(t *testing.T) {
	assert.Equal(t, int64(12345), parseCount("12345"))
	assert.Equal(t, int64(0), parseCount(""))
	assert.Equal(t, int64(0), parseCount("not-a-number"))
}
