package analysis

import "github.com/blurahub/riskwatch/internal/models"

// ClassifyRisk maps category scores and configured thresholds to an ordinal
// risk level. Both threshold comparisons are inclusive, and HIGH is checked
// first so the result is still deterministic if operators configure
// medium > high.
func ClassifyRisk(violence, threat, hate, highThreshold, mediumThreshold int) string {
	max := violence
	if threat > max {
		max = threat
	}
	if hate > max {
		max = hate
	}

	switch {
	case max >= highThreshold:
		return models.RiskHigh
	case max >= mediumThreshold:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}
