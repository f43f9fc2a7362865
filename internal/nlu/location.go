package nlu

import "strings"

const (
	relativeDates = `tonight|today|tomorrow|this weekend|next week`
	monthNames    = `january|february|march|april|may|june|july|august|september|october|november|december`
	// words that end a captured place phrase
	placeStop = `(?:\s(?:tonight|today|tomorrow|this weekend|next week|this summer|in \w+)|[.!?]|$)`
)

// Messages that only talk about time. A follow-up like "what about tomorrow?"
// must not be read as a place.
var timeOnlyPatterns = []string{
	`^(?:` + relativeDates + `)$`,
	`^what about (?:` + relativeDates + `)\??$`,
	`^show me (?:` + relativeDates + `)\??$`,
	`^(?:` + monthNames + `)\??$`,
	`^in (?:` + monthNames + `)\??$`,
	`^what about (?:` + monthNames + `)\??$`,
	`^what about later in (?:` + monthNames + `)\??$`,
}

var locationPatterns = []string{
	`in ([a-z\s,]+?)` + placeStop,
	`near ([a-z\s,]+?)` + placeStop,
	`around ([a-z\s,]+?)` + placeStop,
	`at ([a-z\s,]+?)` + placeStop,
	`for ([a-z\s,]+?)` + placeStop,
	`(?:^|\s)([a-z\s,]+?)\s(?:events|things|activities|concerts|shows)`,
	`(?:going to|visiting) ([a-z\s,]+)`,
}

// IsTimeOnly reports whether the whole message is a bare date follow-up.
func (p *Parser) IsTimeOnly(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	for _, re := range p.timeOnly {
		if re.MatchString(t) {
			return true
		}
	}
	return false
}

// ExtractLocation returns the gazetteer city named in text, title-cased.
// A direct whole-word hit wins (leftmost, then longest). Otherwise a phrase
// captured by a prepositional template is accepted when it contains a city.
func (p *Parser) ExtractLocation(text string) (string, bool) {
	if p.IsTimeOnly(text) {
		return "", false
	}
	lower := strings.ToLower(text)
	if city, ok := p.cities.FindWord(lower); ok {
		return city, true
	}
	for _, re := range p.prepositional {
		m := re.FindStringSubmatch(lower)
		if len(m) < 2 {
			continue
		}
		if city, ok := p.cities.FindSubstring(strings.TrimSpace(m[1])); ok {
			return city, true
		}
	}
	return "", false
}
