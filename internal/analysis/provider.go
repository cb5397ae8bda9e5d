package analysis

import (
	"context"

	"github.com/blurahub/riskwatch/internal/models"
	"github.com/sirupsen/logrus"
)

// KeywordLister supplies the configured keyword entries
type KeywordLister interface {
	ListKeywords(ctx context.Context) ([]models.Keyword, error)
}

// Provider builds lexicon snapshots from the configured keyword entries.
// Categories with no configured entries fall back to the built-in lists, and
// a store failure falls back entirely: scoring must keep working while the
// keyword admin API or its database is unavailable.
type Provider struct {
	keywords KeywordLister
}

// NewProvider creates a lexicon provider backed by the keyword store
func NewProvider(keywords KeywordLister) *Provider {
	return &Provider{keywords: keywords}
}

// Current returns a lexicon snapshot reflecting the latest configured
// entries. The monitoring loop calls this once per cycle so every item in a
// cycle is scored against the same snapshot.
func (p *Provider) Current(ctx context.Context) Lexicon {
	lexicon := DefaultLexicon()

	entries, err := p.keywords.ListKeywords(ctx)
	if err != nil {
		logrus.Errorf("Failed to load configured keywords, using defaults: %v", err)
		return lexicon
	}

	byCategory := make(map[string][]string)
	for _, entry := range entries {
		byCategory[entry.Category] = append(byCategory[entry.Category], entry.Keyword)
	}

	if violence := byCategory[models.CategoryViolence]; len(violence) > 0 {
		lexicon.Violence = violence
	}
	if threat := byCategory[models.CategoryThreat]; len(threat) > 0 {
		lexicon.Threat = threat
	}
	if hate := byCategory[models.CategoryHate]; len(hate) > 0 {
		lexicon.Hate = hate
	}

	return lexicon
}
