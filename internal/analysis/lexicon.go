package analysis

// Lexicon holds the weighted keyword phrases driving the scorer, grouped by
// risk category. A Lexicon is an immutable snapshot; the provider hands out a
// fresh value per cycle so reloads never race with scoring.
type Lexicon struct {
	Violence []string
	Threat   []string
	Hate     []string
}

// Built-in keyword lists, used until operators configure their own entries.
var (
	defaultViolenceKeywords = []string{
		"attack", "kill", "murder", "bomb", "explosion", "weapon", "gun", "knife", "stab",
		"shoot", "shooting", "riot", "violence", "violent", "assault", "terror", "terrorist",
		"massacre", "bloodshed", "warfare", "combat", "strike", "raid", "siege",
	}

	defaultThreatKeywords = []string{
		"threat", "threaten", "danger", "dangerous", "harm", "hurt", "destroy", "destruction",
		"attack", "eliminate", "target", "revenge", "retaliate", "retaliation", "warning",
		"ultimatum", "demand", "hostage", "kidnap",
	}

	defaultHateKeywords = []string{
		"hate", "hatred", "racist", "racism", "fascist", "extremist", "supremacist",
		"genocide", "ethnic cleansing", "discrimination", "bigot", "prejudice",
		"radical", "militant", "jihad", "crusade",
	}
)

// Sentiment cue words. Presence, not occurrence count, is what matters.
var (
	positiveWords = []string{
		"good", "great", "excellent", "wonderful", "fantastic", "amazing", "positive",
		"love", "beautiful", "happy", "joy", "peace", "harmony", "hope", "success",
	}

	negativeWords = []string{
		"bad", "terrible", "awful", "horrible", "worst", "hate", "angry", "fear",
		"sad", "depressed", "negative", "crisis", "disaster", "failure", "death",
	}
)

// DefaultLexicon returns the built-in keyword lists
func DefaultLexicon() Lexicon {
	return Lexicon{
		Violence: append([]string(nil), defaultViolenceKeywords...),
		Threat:   append([]string(nil), defaultThreatKeywords...),
		Hate:     append([]string(nil), defaultHateKeywords...),
	}
}
