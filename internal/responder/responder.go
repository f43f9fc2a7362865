// Package responder produces conversational replies, from a generative-text
// endpoint when one is configured and from canned templates otherwise.
package responder

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Completer is the part of the OpenAI client the responder uses.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewOpenAIClient builds a client for OpenAI or any compatible endpoint.
func NewOpenAIClient(apiKey, baseURL string, httpClient *http.Client) *openai.Client {
	c := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		c.BaseURL = baseURL
	}
	if httpClient != nil {
		c.HTTPClient = httpClient
	}
	return openai.NewClientWithConfig(c)
}

type Source string

const (
	SourceGenerated Source = "generated"
	SourceTemplate  Source = "template"
)

// Reason says why a template was used. Empty for generated replies.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonNotConfigured Reason = "not_configured"
	ReasonError         Reason = "error"
	ReasonTooShort      Reason = "too_short"
)

// Reply is the tagged outcome of Respond and Introduce.
type Reply struct {
	Text   string
	Source Source
	Reason Reason
	Err    error
}

// Context is what the responder knows about the turn beyond the text.
type Context struct {
	Location   string
	NoEvents   bool
	EventCount int
	// When is a date qualifier such as " this weekend".
	When string
}

var (
	errEmpty    = errors.New("empty completion")
	errNoChoice = errors.New("no choices")
)

type pool struct {
	name    string
	re      *regexp.Regexp
	replies []string
}

type Responder struct {
	spec      Spec
	greetings []*regexp.Regexp
	moods     []pool
	interests []pool
	client    Completer
	model     string
	pick      func(n int) int
}

type Option func(*Responder)

// WithPicker replaces the random choice among canned replies.
func WithPicker(pick func(n int) int) Option {
	return func(r *Responder) { r.pick = pick }
}

// New builds a Responder. A nil client means templates only.
func New(spec Spec, client Completer, model string, opts ...Option) (*Responder, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}
	r := &Responder{spec: spec, client: client, model: model, pick: rand.Intn}
	for _, p := range spec.Greetings.Patterns {
		r.greetings = append(r.greetings, regexp.MustCompile(p))
	}
	r.moods = compilePools(spec.Moods)
	r.interests = compilePools(spec.Interests)
	for _, o := range opts {
		o(r)
	}
	return r, nil
}

func compilePools(in []Pool) []pool {
	out := make([]pool, 0, len(in))
	for _, p := range in {
		out = append(out, pool{name: p.Name, re: regexp.MustCompile(p.Pattern), replies: p.Replies})
	}
	return out
}

// Respond answers a conversational message. It always returns text.
func (r *Responder) Respond(ctx context.Context, text string, c Context) Reply {
	fallback := func() string {
		if c.NoEvents {
			return r.fill(r.choose(r.spec.NoEvents), c)
		}
		return r.template(text)
	}
	return r.generate(ctx, r.systemPrompt(c), text, fallback)
}

// Introduce writes the sentence shown above an event listing.
func (r *Responder) Introduce(ctx context.Context, location string, count int, when string) Reply {
	c := Context{Location: location, EventCount: count, When: when}
	prompt := "Introduce these " + strconv.Itoa(count) + " events in " + location + when
	return r.generate(ctx, r.systemPrompt(c), prompt, func() string {
		return r.fill(r.choose(r.spec.Intros), c)
	})
}

func (r *Responder) generate(ctx context.Context, system, user string, fallback func() string) Reply {
	if r.client == nil {
		return Reply{Text: fallback(), Source: SourceTemplate, Reason: ReasonNotConfigured}
	}
	out, err := r.complete(ctx, system, user)
	if err != nil {
		log.Printf("[responder] completion failed, using template: %v", err)
		return Reply{Text: fallback(), Source: SourceTemplate, Reason: ReasonError, Err: err}
	}
	if len([]rune(out)) < r.minLength() {
		log.Printf("[responder] completion too short (%q), using template", out)
		return Reply{Text: fallback(), Source: SourceTemplate, Reason: ReasonTooShort}
	}
	return Reply{Text: out, Source: SourceGenerated}
}

func (r *Responder) complete(ctx context.Context, system, user string) (string, error) {
	timeout := time.Duration(r.spec.Style.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxTok := r.spec.Style.MaxTokens
	if maxTok <= 0 {
		maxTok = 100
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		Temperature: r.spec.Style.Temperature,
		MaxTokens:   maxTok,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errNoChoice
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", errEmpty
	}
	return out, nil
}

func (r *Responder) minLength() int {
	if r.spec.Style.MinLength > 0 {
		return r.spec.Style.MinLength
	}
	return 10
}

func (r *Responder) systemPrompt(c Context) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(r.spec.System))
	if c.Location != "" {
		b.WriteString("\nUser's location: ")
		b.WriteString(c.Location)
	}
	if c.EventCount > 0 {
		b.WriteString("\nEvents found: ")
		b.WriteString(strconv.Itoa(c.EventCount))
	}
	if c.NoEvents {
		b.WriteString("\nNo events were found for this request. Explain that briefly and suggest other dates or a nearby city.")
	}
	return b.String()
}

// template picks a canned reply: greeting, then mood, then interest, then
// the generic ask-for-a-city pool.
func (r *Responder) template(text string) string {
	t := strings.ToLower(strings.ReplaceAll(text, "’", "'"))
	for _, re := range r.greetings {
		if re.MatchString(t) {
			return r.choose(r.spec.Greetings.Replies)
		}
	}
	for _, pools := range [][]pool{r.moods, r.interests} {
		for _, p := range pools {
			if p.re.MatchString(t) {
				return r.choose(p.replies)
			}
		}
	}
	return r.choose(r.spec.Defaults)
}

func (r *Responder) choose(replies []string) string {
	return replies[r.pick(len(replies))]
}

func (r *Responder) fill(s string, c Context) string {
	return strings.NewReplacer(
		"{count}", strconv.Itoa(c.EventCount),
		"{location}", c.Location,
		"{when}", c.When,
	).Replace(s)
}
