package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/blurahub/riskwatch/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// YouTubeFetcher pulls the newest videos of a channel via the YouTube Data API
type YouTubeFetcher struct {
	apiKey string
	client *resty.Client
}

var _ Fetcher = (*YouTubeFetcher)(nil)

type youTubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

type youTubeVideosResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			ChannelTitle string `json:"channelTitle"`
			PublishedAt  string `json:"publishedAt"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// NewYouTubeFetcher creates a YouTube fetcher
func NewYouTubeFetcher(apiKey string) *YouTubeFetcher {
	return &YouTubeFetcher{
		apiKey: apiKey,
		client: resty.New().
			SetTimeout(30 * time.Second).
			SetHeader("User-Agent", "RiskWatch-Monitor/1.0"),
	}
}

func (y *YouTubeFetcher) Platform() string {
	return models.PlatformYouTube
}

func (y *YouTubeFetcher) Enabled() bool {
	return y.apiKey != ""
}

// FetchLatest returns the newest videos of the channel, newest first. The
// search call yields ids only; a second videos call fills in snippet and
// statistics.
func (y *YouTubeFetcher) FetchLatest(ctx context.Context, channelID string, maxItems int) ([]models.RawContent, error) {
	if !y.Enabled() {
		logrus.Debug("YouTube fetcher disabled - missing API key")
		return nil, nil
	}

	searchURL := "https://www.googleapis.com/youtube/v3/search"

	resp, err := y.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"part":       "snippet",
			"channelId":  channelID,
			"order":      "date",
			"type":       "video",
			"maxResults": strconv.Itoa(maxItems),
			"key":        y.apiKey,
		}).
		Get(searchURL)

	if err != nil {
		return nil, fmt.Errorf("youtube search request failed: %w", err)
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("youtube API returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var searchResp youTubeSearchResponse
	if err := json.Unmarshal(resp.Body(), &searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse YouTube search response: %w", err)
	}

	var items []models.RawContent

	for _, result := range searchResp.Items {
		videoID := result.ID.VideoID
		if videoID == "" {
			continue
		}

		video, err := y.videoDetails(ctx, videoID)
		if err != nil {
			logrus.Errorf("Failed to fetch YouTube video details for %s: %v", videoID, err)
			continue
		}
		if video != nil {
			items = append(items, *video)
		}
	}

	return items, nil
}

func (y *YouTubeFetcher) videoDetails(ctx context.Context, videoID string) (*models.RawContent, error) {
	resp, err := y.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"part": "snippet,statistics",
			"id":   videoID,
			"key":  y.apiKey,
		}).
		Get("https://www.googleapis.com/youtube/v3/videos")

	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("youtube videos API returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var videosResp youTubeVideosResponse
	if err := json.Unmarshal(resp.Body(), &videosResp); err != nil {
		return nil, fmt.Errorf("failed to parse YouTube videos response: %w", err)
	}

	if len(videosResp.Items) == 0 {
		return nil, nil
	}

	video := videosResp.Items[0]

	publishedAt, err := time.Parse(time.RFC3339, video.Snippet.PublishedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YouTube timestamp: %w", err)
	}

	return &models.RawContent{
		ContentID:   videoID,
		ContentURL:  fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID),
		Text:        video.Snippet.Title + " " + video.Snippet.Description,
		Author:      video.Snippet.ChannelTitle,
		PublishedAt: publishedAt,
		Engagement: models.Engagement{
			"views":    parseCount(video.Statistics.ViewCount),
			"likes":    parseCount(video.Statistics.LikeCount),
			"comments": parseCount(video.Statistics.CommentCount),
		},
	}, nil
}

// parseCount tolerates the string counters the YouTube API returns
func parseCount(value string) int64 {
	if value == "" {
		return 0
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
