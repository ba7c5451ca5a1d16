package domain

import "strings"

// DefaultCategory is returned when no classifier rule matches.
const DefaultCategory = "General"

// CategoryRule assigns Label when Match reports true for a text.
type CategoryRule struct {
	Label string
	Match func(text string) bool
}

// Classifier derives a category label from free text using ordered rules.
// The first matching rule wins; Fallback is used when none match.
type Classifier struct {
	Rules    []CategoryRule
	Fallback string
}

// Classify returns the label for text.
func (c Classifier) Classify(text string) string {
	for _, rule := range c.Rules {
		if rule.Match(text) {
			return rule.Label
		}
	}

	if c.Fallback == "" {
		return DefaultCategory
	}

	return c.Fallback
}

// ContainsAny returns a case-insensitive substring predicate over keywords.
func ContainsAny(keywords ...string) func(string) bool {
	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(k)
	}

	return func(text string) bool {
		text = strings.ToLower(text)
		for _, k := range lowered {
			if strings.Contains(text, k) {
				return true
			}
		}

		return false
	}
}

// DefaultClassifier returns the rule set applied to remote quote bodies.
func DefaultClassifier() Classifier {
	return Classifier{
		Rules: []CategoryRule{
			{Label: "Programming", Match: ContainsAny("code", "program", "software", "computer", "bug")},
			{Label: "Motivation", Match: ContainsAny("motivat", "dream", "goal", "success", "begin")},
			{Label: "Mindset", Match: ContainsAny("mind", "think", "thought", "believe")},
			{Label: "Life", Match: ContainsAny("life", "live", "love")},
		},
		Fallback: DefaultCategory,
	}
}
