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

// XFetcher pulls the newest posts of an account via the X API v2
type XFetcher struct {
	bearerToken string
	client      *resty.Client
}

var _ Fetcher = (*XFetcher)(nil)

type xUserResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

type xTimelineResponse struct {
	Data []struct {
		ID            string `json:"id"`
		Text          string `json:"text"`
		CreatedAt     string `json:"created_at"`
		PublicMetrics struct {
			RetweetCount    int64 `json:"retweet_count"`
			ReplyCount      int64 `json:"reply_count"`
			LikeCount       int64 `json:"like_count"`
			ImpressionCount int64 `json:"impression_count"`
		} `json:"public_metrics"`
	} `json:"data"`
}

// NewXFetcher creates an X fetcher
func NewXFetcher(bearerToken string) *XFetcher {
	return &XFetcher{
		bearerToken: bearerToken,
		client: resty.New().
			SetTimeout(30 * time.Second).
			SetHeader("User-Agent", "RiskWatch-Monitor/1.0"),
	}
}

func (x *XFetcher) Platform() string {
	return models.PlatformX
}

func (x *XFetcher) Enabled() bool {
	return x.bearerToken != ""
}

// FetchLatest resolves the username to a user id, then returns the account's
// newest original posts (retweets and replies excluded). A rate-limited
// response yields an empty result rather than an error so one throttled
// account does not count as a source failure.
func (x *XFetcher) FetchLatest(ctx context.Context, username string, maxItems int) ([]models.RawContent, error) {
	if !x.Enabled() {
		logrus.Debug("X fetcher disabled - missing bearer token")
		return nil, nil
	}

	userID, err := x.resolveUser(ctx, username)
	if err != nil {
		return nil, err
	}

	// The recent-tweets endpoint rejects max_results below 5
	if maxItems < 5 {
		maxItems = 5
	}

	timelineURL := fmt.Sprintf("https://api.twitter.com/2/users/%s/tweets", userID)

	resp, err := x.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+x.bearerToken).
		SetQueryParams(map[string]string{
			"max_results":  strconv.Itoa(maxItems),
			"tweet.fields": "created_at,public_metrics,text",
			"exclude":      "retweets,replies",
		}).
		Get(timelineURL)

	if err != nil {
		return nil, fmt.Errorf("x timeline request failed: %w", err)
	}

	if resp.StatusCode() == 429 {
		logrus.Warnf("X API rate limit hit for @%s - skipping this cycle", username)
		return nil, nil
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("x API returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var timeline xTimelineResponse
	if err := json.Unmarshal(resp.Body(), &timeline); err != nil {
		return nil, fmt.Errorf("failed to parse X timeline response: %w", err)
	}

	var items []models.RawContent

	for _, post := range timeline.Data {
		createdAt, err := time.Parse(time.RFC3339, post.CreatedAt)
		if err != nil {
			logrus.Errorf("Failed to parse X timestamp for post %s: %v", post.ID, err)
			continue
		}

		items = append(items, models.RawContent{
			ContentID:    post.ID,
			ContentURL:   fmt.Sprintf("https://x.com/%s/status/%s", username, post.ID),
			Text:         post.Text,
			AuthorHandle: username,
			PublishedAt:  createdAt,
			Engagement: models.Engagement{
				"likes":    post.PublicMetrics.LikeCount,
				"retweets": post.PublicMetrics.RetweetCount,
				"replies":  post.PublicMetrics.ReplyCount,
				"views":    post.PublicMetrics.ImpressionCount,
			},
		})
	}

	return items, nil
}

func (x *XFetcher) resolveUser(ctx context.Context, username string) (string, error) {
	resp, err := x.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+x.bearerToken).
		Get("https://api.twitter.com/2/users/by/username/" + username)

	if err != nil {
		return "", fmt.Errorf("x user lookup failed: %w", err)
	}

	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("x user lookup returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var user xUserResponse
	if err := json.Unmarshal(resp.Body(), &user); err != nil {
		return "", fmt.Errorf("failed to parse X user response: %w", err)
	}

	if user.Data.ID == "" {
		return "", fmt.Errorf("x user not found: %s", username)
	}

	return user.Data.ID, nil
}
