package classify

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/toriana04/fraudintel/core"
)

// Rule maps a set of trigger phrases to a category label.
type Rule struct {
	Label       core.Category
	Triggers    []string
	Description string
}

// DefaultRules is the fixed, ordered rule list. Earlier rules win when a
// text matches several categories.
var DefaultRules = []Rule{
	{
		Label:       core.CategoryAI,
		Triggers:    []string{"ai", "artificial intelligence", "deepfake", "voice clon", "synthetic identit"},
		Description: "Fraud involving AI tools such as deepfakes, LLMs, voice cloning, or synthetic identities.",
	},
	{
		Label:       core.CategoryCheck,
		Triggers:    []string{"check fraud", "check washing", "mail theft"},
		Description: "Criminal alteration, theft, or forging of checks to illegally obtain funds.",
	},
	{
		Label:       core.CategoryElder,
		Triggers:    []string{"older adult", "senior", "elder"},
		Description: "Scams targeting older adults, often exploiting trust or confusion.",
	},
	{
		Label:       core.CategoryAccountTakeover,
		Triggers:    []string{"account takeover", "hacked", "takeover"},
		Description: "Unauthorized access to financial accounts, often using stolen credentials.",
	},
	{
		Label:       core.CategoryInvestment,
		Triggers:    []string{"crypto", "investment scam", "pump and dump"},
		Description: "False investment opportunities designed to steal funds.",
	},
	{
		Label:       core.CategoryDisaster,
		Triggers:    []string{"disaster", "relief scam"},
		Description: "Fraud schemes leveraging natural disasters or emergencies.",
	},
	{
		Label:       core.CategoryGeneral,
		Triggers:    []string{"fraud", "scam"},
		Description: "Fraud and scam activity that fits no narrower category.",
	},
}

// Classifier assigns exactly one category to a text.
type Classifier struct {
	rules     []Rule
	fallback  core.Category
	wordStart bool
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithWordStart only accepts triggers that begin at a word start, so "ai"
// matches "AI tools" but not "email". The trigger may still end inside a
// word. By default a trigger matches anywhere in the text.
func WithWordStart() Option {
	return func(c *Classifier) {
		c.wordStart = true
	}
}

// New creates a Classifier over rules, evaluated in order. Triggers are
// lower-cased once here. A nil or empty rule list classifies everything as
// the fallback label.
func New(rules []Rule, fallback core.Category, opts ...Option) *Classifier {
	normalized := make([]Rule, 0, len(rules))
	for _, r := range rules {
		triggers := make([]string, 0, len(r.Triggers))
		for _, t := range r.Triggers {
			t = strings.ToLower(strings.TrimSpace(t))
			if t != "" {
				triggers = append(triggers, t)
			}
		}
		normalized = append(normalized, Rule{Label: r.Label, Triggers: triggers, Description: r.Description})
	}
	c := &Classifier{rules: normalized, fallback: fallback}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewDefault creates a Classifier over DefaultRules falling back to General Fraud.
func NewDefault(opts ...Option) *Classifier {
	return New(DefaultRules, core.CategoryGeneral, opts...)
}

// Classify returns the label of the first rule with a trigger contained in
// text, ignoring case, or the fallback label when none match. It never fails.
func (c *Classifier) Classify(text string) core.Category {
	lower := strings.ToLower(text)
	for _, r := range c.rules {
		for _, t := range r.Triggers {
			if c.contains(lower, t) {
				return r.Label
			}
		}
	}
	return c.fallback
}

// Rules returns a copy of the ordered rule list.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Labels returns every label the classifier can produce, in priority order.
func (c *Classifier) Labels() []core.Category {
	labels := make([]core.Category, 0, len(c.rules)+1)
	seen := make(map[core.Category]bool, len(c.rules)+1)
	for _, r := range c.rules {
		if !seen[r.Label] {
			seen[r.Label] = true
			labels = append(labels, r.Label)
		}
	}
	if !seen[c.fallback] {
		labels = append(labels, c.fallback)
	}
	return labels
}

// Describe returns the description of label, or "" when unknown.
func (c *Classifier) Describe(label core.Category) string {
	for _, r := range c.rules {
		if r.Label == label {
			return r.Description
		}
	}
	return ""
}

func (c *Classifier) contains(text, trigger string) bool {
	if c.wordStart {
		return containsAtWordStart(text, trigger)
	}
	return strings.Contains(text, trigger)
}

// containsAtWordStart reports whether needle occurs in haystack starting at a
// word boundary. The match may end mid-word so "older adult" matches
// "older adults".
func containsAtWordStart(haystack, needle string) bool {
	offset := 0
	for {
		i := strings.Index(haystack[offset:], needle)
		if i < 0 {
			return false
		}
		pos := offset + i
		if pos == 0 {
			return true
		}
		if prev, _ := utf8.DecodeLastRuneInString(haystack[:pos]); !isWordRune(prev) {
			return true
		}
		offset = pos + 1
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
