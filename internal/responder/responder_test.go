package responder

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	reply string
	err   error
	got   openai.ChatCompletionRequest
	calls int
}

func (f *fakeCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls++
	f.got = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Role: "assistant", Content: f.reply}}},
	}, nil
}

func first(int) int { return 0 }

func newTestResponder(t *testing.T, client Completer) *Responder {
	t.Helper()
	spec, err := DefaultSpec()
	require.NoError(t, err)
	r, err := New(spec, client, "test-model", WithPicker(first))
	require.NoError(t, err)
	return r
}

func TestDefaultSpec(t *testing.T) {
	spec, err := DefaultSpec()
	require.NoError(t, err)
	assert.InDelta(t, 0.7, spec.Style.Temperature, 1e-6)
	assert.Equal(t, 100, spec.Style.MaxTokens)
	assert.Equal(t, 10, spec.Style.MinLength)
	assert.NotEmpty(t, spec.System)
	assert.Len(t, spec.Moods, 7)
	assert.Len(t, spec.Interests, 5)
}

func TestTemplateFallbackOrder(t *testing.T) {
	r := newTestResponder(t, nil)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"greeting", "Hello there", "Hey there! 😊 How can I help make your day more exciting?"},
		{"greeting phrase", "good evening!", "Hey there! 😊 How can I help make your day more exciting?"},
		{"mood", "I'm so bored", "I can help you find something fun to do! What kind of activities interest you?"},
		{"mood outranks interest", "too tired for music", "Looking for something relaxing? There might be some nice low-key events nearby."},
		{"curly apostrophe", "I can’t wait", "That's great! Let's channel that energy into something fun! What are you in the mood for?"},
		{"interest", "I like museums", "Do you enjoy creating art or viewing it?"},
		{"no greeting inside words", "these are nice", "I'd love to help you discover something fun! What city should I look in?"},
		{"no interest inside words", "heart", "I'd love to help you discover something fun! What city should I look in?"},
		{"default", "blue", "I'd love to help you discover something fun! What city should I look in?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Respond(context.Background(), tt.text, Context{})
			assert.Equal(t, tt.want, got.Text)
			assert.Equal(t, SourceTemplate, got.Source)
			assert.Equal(t, ReasonNotConfigured, got.Reason)
		})
	}
}

func TestRespondGenerated(t *testing.T) {
	fc := &fakeCompleter{reply: "  Chicago has a lot going on this fall!  "}
	r := newTestResponder(t, fc)

	got := r.Respond(context.Background(), "what's fun?", Context{Location: "Chicago"})
	assert.Equal(t, Reply{Text: "Chicago has a lot going on this fall!", Source: SourceGenerated}, got)

	require.Equal(t, 1, fc.calls)
	assert.Equal(t, "test-model", fc.got.Model)
	assert.InDelta(t, 0.7, fc.got.Temperature, 1e-6)
	assert.Equal(t, 100, fc.got.MaxTokens)
	require.Len(t, fc.got.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, fc.got.Messages[0].Role)
	assert.Contains(t, fc.got.Messages[0].Content, "User's location: Chicago")
	assert.Equal(t, "what's fun?", fc.got.Messages[1].Content)
}

func TestRespondDegrades(t *testing.T) {
	boom := errors.New("upstream 503")

	tests := []struct {
		name       string
		fc         *fakeCompleter
		wantReason Reason
	}{
		{"error", &fakeCompleter{err: boom}, ReasonError},
		{"empty", &fakeCompleter{reply: "   "}, ReasonError},
		{"too short", &fakeCompleter{reply: "Sure!"}, ReasonTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResponder(t, tt.fc)
			got := r.Respond(context.Background(), "hey", Context{})
			assert.Equal(t, SourceTemplate, got.Source)
			assert.Equal(t, tt.wantReason, got.Reason)
			assert.Equal(t, "Hey there! 😊 How can I help make your day more exciting?", got.Text)
		})
	}
}

func TestRespondNoEvents(t *testing.T) {
	t.Run("template", func(t *testing.T) {
		r := newTestResponder(t, nil)
		got := r.Respond(context.Background(), "concerts in Boise", Context{Location: "Boise", NoEvents: true, When: " this weekend"})
		assert.Equal(t, "I couldn't find any events in Boise this weekend. Want to try different dates or another city?", got.Text)
	})

	t.Run("prompt says nothing was found", func(t *testing.T) {
		fc := &fakeCompleter{reply: "Nothing in Boise right now, sadly. Try next week?"}
		r := newTestResponder(t, fc)
		got := r.Respond(context.Background(), "concerts in Boise", Context{Location: "Boise", NoEvents: true})
		assert.Equal(t, SourceGenerated, got.Source)
		assert.Contains(t, fc.got.Messages[0].Content, "No events were found")
	})
}

func TestIntroduce(t *testing.T) {
	t.Run("template", func(t *testing.T) {
		r := newTestResponder(t, nil)
		got := r.Introduce(context.Background(), "Chicago", 5, " this weekend")
		assert.Equal(t, "Here are 5 events I found in Chicago this weekend!", got.Text)
		assert.Equal(t, SourceTemplate, got.Source)
	})

	t.Run("generated", func(t *testing.T) {
		fc := &fakeCompleter{reply: "Chicago is buzzing this weekend, take a look!"}
		r := newTestResponder(t, fc)
		got := r.Introduce(context.Background(), "Chicago", 5, " this weekend")
		assert.Equal(t, SourceGenerated, got.Source)
		assert.Equal(t, "Introduce these 5 events in Chicago this weekend", fc.got.Messages[1].Content)
		assert.Contains(t, fc.got.Messages[0].Content, "Events found: 5")
	})
}

func TestOpenAICompatibleEndpoint(t *testing.T) {
	type captured struct {
		path, auth string
		req        openai.ChatCompletionRequest
	}
	seen := make(chan captured, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := captured{path: r.URL.Path, auth: r.Header.Get("Authorization")}
		_ = json.NewDecoder(r.Body).Decode(&c.req)
		seen <- c
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Happy to help you find a show tonight!"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient("sk-test", srv.URL+"/v1", srv.Client())
	r := newTestResponder(t, client)

	got := r.Respond(context.Background(), "hi", Context{})
	require.Equal(t, SourceGenerated, got.Source, "err: %v", got.Err)
	assert.Equal(t, "Happy to help you find a show tonight!", got.Text)

	c := <-seen
	assert.Equal(t, "/v1/chat/completions", c.path)
	assert.Equal(t, "Bearer sk-test", c.auth)
	assert.Equal(t, "test-model", c.req.Model)
}

func TestLoadSpec(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
		return p
	}

	t.Run("valid", func(t *testing.T) {
		p := write("ok.yaml", `
system: be brief
defaults: ["Which city?"]
intros: ["{count} in {location}"]
no_events: ["none in {location}"]
moods:
  - name: calm
    pattern: '\bcalm\b'
    replies: ["Nice."]
`)
		spec, err := LoadSpec(p)
		require.NoError(t, err)
		r, err := New(spec, nil, "", WithPicker(first))
		require.NoError(t, err)
		assert.Equal(t, "Nice.", r.Respond(context.Background(), "so calm", Context{}).Text)
		assert.Equal(t, "Which city?", r.Respond(context.Background(), "hey", Context{}).Text)
	})

	t.Run("bad pattern", func(t *testing.T) {
		p := write("bad.yaml", `
defaults: ["a"]
intros: ["b"]
no_events: ["c"]
interests:
  - name: broken
    pattern: '(('
    replies: ["x"]
`)
		_, err := LoadSpec(p)
		assert.ErrorContains(t, err, "broken")
	})

	t.Run("missing defaults", func(t *testing.T) {
		_, err := LoadSpec(write("empty.yaml", "system: hi\n"))
		assert.ErrorContains(t, err, "defaults")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSpec(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})
}
