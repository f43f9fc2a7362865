package nlu

import (
	"regexp"
	"strings"
)

// Facets narrow an event search. Empty fields are unconstrained.
type Facets struct {
	Classification string `json:"classificationName,omitempty"`
	Genre          string `json:"genreName,omitempty"`
	FamilyFriendly bool   `json:"familyFriendly,omitempty"`
	Keyword        string `json:"keyword,omitempty"`
}

// Params returns the facets as discovery API query parameters.
func (f Facets) Params() map[string]string {
	out := map[string]string{}
	if f.Classification != "" {
		out["classificationName"] = f.Classification
	}
	if f.Genre != "" {
		out["genreName"] = f.Genre
	}
	if f.FamilyFriendly {
		out["familyFriendly"] = "yes"
	}
	if f.Keyword != "" {
		out["keyword"] = f.Keyword
	}
	return out
}

type facetEntry struct {
	name     string
	keywords []string
}

// Priority ordered: the first entry with any keyword present wins, even if a
// later entry matches more of the text.
var categoryTable = []facetEntry{
	{"music", []string{"music", "concert", "concerts", "band", "singer", "musical", "gig", "performance", "live music"}},
	{"sports", []string{"sports", "sport", "game", "match", "tournament", "competition", "athletic", "racing", "marathon"}},
	{"arts", []string{"art", "arts", "theatre", "theater", "dance", "ballet", "opera", "gallery", "exhibition", "museum", "painting", "sculpture"}},
	{"family", []string{"family", "kids", "children", "child", "parent", "toddler", "baby", "teen", "youth"}},
	{"comedy", []string{"comedy", "comedian", "stand-up", "standup", "improv", "funny", "humor"}},
	{"film", []string{"film", "movie", "cinema", "screening", "premiere", "documentary"}},
	{"food", []string{"food", "dining", "culinary", "cooking", "tasting", "wine", "beer", "festival", "restaurant", "chef"}},
	{"educational", []string{"learning", "workshop", "seminar", "class", "course", "lecture", "training", "education"}},
	{"business", []string{"networking", "conference", "meetup", "professional", "business", "entrepreneur", "startup"}},
	{"community", []string{"community", "neighborhood", "local", "charity", "volunteer", "social", "meetup"}},
	{"outdoor", []string{"outdoor", "nature", "hiking", "camping", "adventure", "park", "garden", "beach"}},
	{"wellness", []string{"wellness", "health", "fitness", "yoga", "meditation", "mindfulness", "spa"}},
	{"technology", []string{"tech", "technology", "digital", "gaming", "esports", "virtual", "computer"}},
	{"nightlife", []string{"club", "party", "dance", "dj", "nightclub", "bar", "pub"}},
	{"shopping", []string{"market", "fair", "bazaar", "shopping", "craft", "vintage", "antique", "pop-up"}},
}

var genreTable = []facetEntry{
	{"rock", []string{"rock", "alternative", "indie", "punk", "metal", "grunge"}},
	{"pop", []string{"pop", "popular", "top 40", "mainstream"}},
	{"hip-hop-rap", []string{"hip hop", "rap", "hip-hop", "r&b", "rhythm and blues"}},
	{"country", []string{"country", "folk", "americana", "bluegrass"}},
	{"jazz", []string{"jazz", "blues", "swing", "bebop", "fusion"}},
	{"classical", []string{"classical", "orchestra", "symphony", "chamber", "opera"}},
	{"electronic", []string{"electronic", "edm", "techno", "house", "trance", "dubstep"}},
	{"world", []string{"world", "international", "global", "ethnic", "traditional"}},
	{"latin", []string{"latin", "salsa", "reggaeton", "bachata", "merengue"}},
	{"reggae", []string{"reggae", "ska", "dub", "caribbean"}},
	{"experimental", []string{"experimental", "avant-garde", "contemporary", "modern"}},
}

var familyKeywords = []string{
	"family friendly", "kid friendly", "children", "family", "all ages",
	"kid", "kids", "child", "parent", "toddler", "baby", "teen", "youth",
}

// Words that introduce a performer or title: "concert by ...", "featuring ...".
var artistIndicators = []string{
	"by", "from", "see", "watch", "featuring", "feat", "with",
	"performing", "presents", "starring", "showcasing",
}

var keywordStopWords = map[string]bool{"in": true, "at": true, "on": true, "the": true}

const maxKeywordWords = 3

type facetRule struct {
	name string
	re   *regexp.Regexp
}

func compileFacetRules(table []facetEntry) []facetRule {
	out := make([]facetRule, 0, len(table))
	for _, e := range table {
		out = append(out, facetRule{name: e.name, re: wordsRegexp(e.keywords)})
	}
	return out
}

// wordsRegexp matches any of words as a whole word or phrase.
func wordsRegexp(words []string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(w))
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

func firstRule(rules []facetRule, text string) string {
	for _, r := range rules {
		if r.re.MatchString(text) {
			return r.name
		}
	}
	return ""
}

// ExtractFacets reads category, genre, family and keyword facets from text.
func (p *Parser) ExtractFacets(text string) Facets {
	lower := strings.ToLower(text)
	return Facets{
		Classification: firstRule(p.categories, lower),
		Genre:          firstRule(p.genres, lower),
		FamilyFriendly: p.family.MatchString(lower),
		Keyword:        extractKeyword(lower),
	}
}

// extractKeyword takes up to three words following the first artist
// indicator, e.g. "a concert by taylor swift" -> "taylor swift".
func extractKeyword(lower string) string {
	words := strings.Fields(lower)
	for i := range words {
		words[i] = trimPunct(words[i])
	}
	for _, ind := range artistIndicators {
		at := indexOf(words, ind)
		if at < 0 {
			continue
		}
		rest := words[at+1:]
		if next := indexOf(rest, ind); next >= 0 {
			rest = rest[:next]
		}
		rest = dropEmpty(rest)
		if len(rest) == 0 || keywordStopWords[rest[0]] {
			continue
		}
		if len(rest) > maxKeywordWords {
			rest = rest[:maxKeywordWords]
		}
		return strings.Join(rest, " ")
	}
	return ""
}

func indexOf(words []string, w string) int {
	for i, v := range words {
		if v == w {
			return i
		}
	}
	return -1
}

func dropEmpty(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

func trimPunct(w string) string {
	return strings.Trim(w, ".,!?;:\"()[]")
}
