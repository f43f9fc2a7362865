package nlu

import (
	"regexp"
	"strings"
)

var interestNouns = []string{
	"art", "music", "sports", "food", "shows", "concerts", "events", "activities",
	"restaurant", "restaurants", "dining", "band", "bands", "festival", "festivals",
	"performance", "performances", "venue", "venues", "gallery", "galleries",
	"museum", "museums", "theater", "theatre", "cuisine",
	"entertainment", "nightlife", "bar", "bars", "club", "clubs",
}

var interestVerbs = []string{
	"like", "love", "enjoy", "interested", "want", "looking", "seeking",
	"searching", "find", "discover", "explore", "check", "see", "visit",
	"try", "experience", "attend", "go",
}

var foodPhrases = []string{
	"places to eat", "good food", "restaurants", "dining", "hungry",
	"food scene", "best restaurants", "local food", "cuisine",
}

var musicPhrases = []string{
	"live music", "concerts", "bands", "shows", "performances", "gigs",
	"music venue", "playing tonight", "performing", "music scene",
}

var affirmatives = []string{"yes", "yeah", "sure", "ok", "okay", "fine", "please"}

// Any of these alone marks the message as an event request.
var eventKeywords = []string{
	"event", "events", "happening", "concert", "concerts", "show", "shows",
	"bored", "things to do", "plans", "activities", "activity", "fun",
	"tonight", "weekend", "tomorrow", "festival", "party", "entertainment",
	"anything", "sure", "yes", "yeah", "ok", "okay", "fine", "please",
	"what", "whats", "what's", "tell",
}

const shortReplyWords = 3

type intentTables struct {
	nouns       map[string]bool
	verbs       map[string]bool
	affirmative map[string]bool
	phrases     *regexp.Regexp
	keywords    *regexp.Regexp
}

func newIntentTables() intentTables {
	return intentTables{
		nouns:       wordSet(interestNouns),
		verbs:       wordSet(interestVerbs),
		affirmative: wordSet(affirmatives),
		phrases:     wordsRegexp(append(append([]string{}, foodPhrases...), musicPhrases...)),
		keywords:    wordsRegexp(eventKeywords),
	}
}

func wordSet(words []string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

var tokenRe = regexp.MustCompile(`[a-z0-9']+`)

func tokenize(lower string) []string {
	return tokenRe.FindAllString(lower, -1)
}

// IsEventQuery decides whether text asks for events. It leans toward yes: a
// false positive only costs a "which city?" prompt, a false negative drops a
// real request into small talk.
func (p *Parser) IsEventQuery(text string) bool {
	lower := strings.ReplaceAll(strings.ToLower(text), "’", "'")
	tokens := tokenize(lower)

	var verb, noun bool
	for _, tok := range tokens {
		verb = verb || p.intent.verbs[tok]
		noun = noun || p.intent.nouns[tok]
	}
	if verb && noun {
		return true
	}
	if p.intent.phrases.MatchString(lower) {
		return true
	}
	if len(strings.Fields(lower)) <= shortReplyWords {
		for _, tok := range tokens {
			if p.intent.affirmative[tok] {
				return true
			}
		}
	}
	return p.intent.keywords.MatchString(lower)
}
