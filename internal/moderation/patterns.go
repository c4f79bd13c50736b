package moderation

import (
	"regexp"
	"strings"
)

// Fast pattern detectors. These always run alongside the AI content
// analysis: when the model falls back to neutral defaults the hard-coded
// patterns are the only spam/offense signal left, so they must not be
// short-circuited.

var spamPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)https?://\S+`),
	regexp.MustCompile(`(?i)\b(buy|cheap|discount|free)\s+(now|today|here)\b`),
	regexp.MustCompile(`(?i)\b(click here|subscribe to|visit my|check out my)\b`),
	regexp.MustCompile(`(?i)\b(promo ?code|limited offer|earn money|crypto)\b`),
	regexp.MustCompile(`[!?]{4,}`),
}

var offensivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(idiot|moron|stupid)\b.*\b(you|anyone who)\b`),
	regexp.MustCompile(`(?i)\b(kill yourself|kys)\b`),
	regexp.MustCompile(`(?i)\b(hate|despise)\s+(all|every)\s+\w+\s+(people|fans)\b`),
}

// DetectSpam reports whether the text trips any spam pattern.
func DetectSpam(content string) bool {
	for _, pattern := range spamPatterns {
		if pattern.MatchString(content) {
			return true
		}
	}
	return hasLongCharRun(content) || hasExcessiveRepetition(content)
}

// DetectOffensive reports whether the text trips any offensive pattern.
func DetectOffensive(content string) bool {
	for _, pattern := range offensivePatterns {
		if pattern.MatchString(content) {
			return true
		}
	}
	return false
}

// hasLongCharRun flags the same rune repeated ten or more times in a row.
// RE2 has no backreferences, so this is a plain scan instead of a pattern.
func hasLongCharRun(content string) bool {
	const runLimit = 10

	var prev rune
	run := 0
	for _, r := range content {
		if r == prev {
			run++
			if run >= runLimit {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}

// hasExcessiveRepetition flags text where a single word makes up more than
// half of a non-trivial body.
func hasExcessiveRepetition(content string) bool {
	words := strings.Fields(strings.ToLower(content))
	if len(words) <= 5 {
		return false
	}

	counts := make(map[string]int)
	for _, word := range words {
		counts[word]++
	}
	for _, count := range counts {
		if count > len(words)/2 {
			return true
		}
	}
	return false
}
