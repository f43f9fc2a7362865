package responder

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed prompts/default.yaml
var defaultSpec []byte

// Spec is the prompt and template configuration of a Responder.
type Spec struct {
	System string `yaml:"system"`
	Style  struct {
		Temperature    float32 `yaml:"temperature"`
		MaxTokens      int     `yaml:"max_tokens"`
		MinLength      int     `yaml:"min_length"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
	} `yaml:"style"`
	Greetings struct {
		Patterns []string `yaml:"patterns"`
		Replies  []string `yaml:"replies"`
	} `yaml:"greetings"`
	Moods     []Pool   `yaml:"moods"`
	Interests []Pool   `yaml:"interests"`
	Defaults  []string `yaml:"defaults"`
	Intros    []string `yaml:"intros"`
	NoEvents  []string `yaml:"no_events"`
}

// Pool is a set of canned replies chosen when Pattern matches.
type Pool struct {
	Name    string   `yaml:"name"`
	Pattern string   `yaml:"pattern"`
	Replies []string `yaml:"replies"`
}

// DefaultSpec returns the built-in spec.
func DefaultSpec() (Spec, error) {
	return parseSpec(defaultSpec)
}

// LoadSpec reads a spec from a YAML file.
func LoadSpec(path string) (Spec, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, err
	}
	spec, err := parseSpec(b)
	if err != nil {
		return Spec{}, fmt.Errorf("%s: %w", path, err)
	}
	return spec, nil
}

func parseSpec(b []byte) (Spec, error) {
	var spec Spec
	if err := yaml.Unmarshal(b, &spec); err != nil {
		return Spec{}, err
	}
	if err := spec.validate(); err != nil {
		return Spec{}, err
	}
	return spec, nil
}

func (s Spec) validate() error {
	if len(s.Defaults) == 0 {
		return errors.New("defaults: at least one reply required")
	}
	if len(s.Intros) == 0 {
		return errors.New("intros: at least one reply required")
	}
	if len(s.NoEvents) == 0 {
		return errors.New("no_events: at least one reply required")
	}
	for _, p := range s.Greetings.Patterns {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("greetings: %w", err)
		}
	}
	if len(s.Greetings.Patterns) > 0 && len(s.Greetings.Replies) == 0 {
		return errors.New("greetings: patterns without replies")
	}
	for _, pools := range [][]Pool{s.Moods, s.Interests} {
		for _, p := range pools {
			if _, err := regexp.Compile(p.Pattern); err != nil {
				return fmt.Errorf("%s: %w", p.Name, err)
			}
			if len(p.Replies) == 0 {
				return fmt.Errorf("%s: no replies", p.Name)
			}
		}
	}
	return nil
}
