package stubservice

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

// Fixture is one canned answer. It matches a question when any keyword
// occurs in the lower-cased question text.
type Fixture struct {
	Name     string        `yaml:"name"`
	Keywords []string      `yaml:"keywords"`
	Status   int           `yaml:"status"`
	Delay    time.Duration `yaml:"delay"`
	Response yaml.Node     `yaml:"response"`

	body []byte
}

// Body returns the fixture's response as JSON, keys in file order.
func (f *Fixture) Body() []byte {
	return f.body
}

// Matches reports whether question triggers f.
func (f *Fixture) Matches(question string) bool {
	q := strings.ToLower(question)
	for _, kw := range f.Keywords {
		if kw != "" && strings.Contains(q, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// FixtureSet is the ordered fixture list plus the fallback answer.
type FixtureSet struct {
	Fixtures []Fixture `yaml:"fixtures"`
	Default  Fixture   `yaml:"default"`
}

// Match returns the first fixture matching question, or the default.
func (s *FixtureSet) Match(question string) *Fixture {
	for i := range s.Fixtures {
		if s.Fixtures[i].Matches(question) {
			return &s.Fixtures[i]
		}
	}
	return &s.Default
}

// DefaultFixtures returns the built-in supply-chain fixtures.
func DefaultFixtures() (*FixtureSet, error) {
	return ParseFixtures(defaultFixtures)
}

// LoadFixtures reads a fixture file.
func LoadFixtures(path string) (*FixtureSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	set, err := ParseFixtures(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// ParseFixtures decodes a YAML fixture document and renders every
// response to JSON up front.
func ParseFixtures(data []byte) (*FixtureSet, error) {
	var set FixtureSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	for i := range set.Fixtures {
		f := &set.Fixtures[i]
		if len(f.Keywords) == 0 {
			return nil, fmt.Errorf("fixture %d (%s): no keywords", i, f.Name)
		}
		if err := f.compile(); err != nil {
			return nil, fmt.Errorf("fixture %d (%s): %w", i, f.Name, err)
		}
	}
	if err := set.Default.compile(); err != nil {
		return nil, fmt.Errorf("default fixture: %w", err)
	}
	return &set, nil
}

func (f *Fixture) compile() error {
	if f.Status == 0 {
		f.Status = 200
	}
	if f.Response.Kind == 0 {
		f.body = nil
		return nil
	}
	var buf bytes.Buffer
	if err := writeJSON(&buf, &f.Response); err != nil {
		return err
	}
	f.body = buf.Bytes()
	return nil
}

// writeJSON converts a YAML node to JSON. Mapping keys keep their
// document order, which encoding a decoded map would lose.
func writeJSON(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return writeJSON(buf, n.Content[0])
	case yaml.AliasNode:
		return writeJSON(buf, n.Alias)
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(n.Content[i].Value)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeJSON(buf, n.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, c := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, c); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case yaml.ScalarNode:
		return writeScalar(buf, n)
	default:
		return fmt.Errorf("line %d: unsupported YAML node", n.Line)
	}
}

func writeScalar(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.ShortTag() {
	case "!!int", "!!float":
		// Keep the literal so 100.50 stays 100.50.
		if json.Valid([]byte(n.Value)) {
			buf.WriteString(n.Value)
			return nil
		}
	case "!!null":
		buf.WriteString("null")
		return nil
	}
	var v interface{}
	if err := n.Decode(&v); err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	out, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	buf.Write(out)
	return nil
}
