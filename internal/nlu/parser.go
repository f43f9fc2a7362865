// Package nlu turns a raw chat message into slots: a city from the gazetteer,
// a date window, search facets, and whether the message asks for events.
// Everything is keyword and regex matching against tables compiled once in
// NewParser; a Parser is immutable and safe to share between requests.
package nlu

import (
	"regexp"
	"time"
)

type Parser struct {
	cities *Gazetteer
	now    func() time.Time

	timeOnly      []*regexp.Regexp
	prepositional []*regexp.Regexp

	categories []facetRule
	genres     []facetRule
	family     *regexp.Regexp

	intent intentTables
}

type Option func(*Parser)

// WithClock replaces time.Now for date resolution.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) { p.now = now }
}

// WithGazetteer replaces the built-in city list.
func WithGazetteer(g *Gazetteer) Option {
	return func(p *Parser) { p.cities = g }
}

func NewParser(opts ...Option) *Parser {
	p := &Parser{
		cities:        DefaultGazetteer(),
		now:           time.Now,
		timeOnly:      compileAll(timeOnlyPatterns),
		prepositional: compileAll(locationPatterns),
		categories:    compileFacetRules(categoryTable),
		genres:        compileFacetRules(genreTable),
		family:        wordsRegexp(familyKeywords),
		intent:        newIntentTables(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Gazetteer exposes the city list the parser validates against.
func (p *Parser) Gazetteer() *Gazetteer { return p.cities }

func compileAll(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, s := range patterns {
		out = append(out, regexp.MustCompile(s))
	}
	return out
}
