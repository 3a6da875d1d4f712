// Package glossary defines fraud and finance terms that appear as article
// keywords.
package glossary

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed terms.yaml
var defaultTerms []byte

// Entry is one defined term.
type Entry struct {
	Term       string   `yaml:"term"`
	Aliases    []string `yaml:"aliases"`
	Definition string   `yaml:"definition"`
}

type document struct {
	Terms []Entry `yaml:"terms"`
}

// Glossary looks up definitions by term or alias. It is read-only after
// construction.
type Glossary struct {
	entries []Entry
	index   map[string]int
}

// Default returns the built-in glossary.
func Default() *Glossary {
	g, err := Parse(defaultTerms)
	if err != nil {
		panic(fmt.Sprintf("glossary: built-in terms are invalid: %v", err))
	}
	return g
}

// Parse reads a YAML document with a top-level "terms" list.
func Parse(data []byte) (*Glossary, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse glossary: %w", err)
	}

	g := &Glossary{index: make(map[string]int)}
	for _, e := range doc.Terms {
		e.Term = normalize(e.Term)
		e.Definition = strings.TrimSpace(e.Definition)
		if e.Term == "" || e.Definition == "" {
			return nil, fmt.Errorf("glossary entry %q needs a term and a definition", e.Term)
		}
		if _, dup := g.index[e.Term]; dup {
			return nil, fmt.Errorf("duplicate glossary term %q", e.Term)
		}
		i := len(g.entries)
		g.entries = append(g.entries, e)
		g.index[e.Term] = i
		for _, alias := range e.Aliases {
			if a := normalize(alias); a != "" {
				if _, taken := g.index[a]; !taken {
					g.index[a] = i
				}
			}
		}
	}
	return g, nil
}

func normalize(term string) string {
	return strings.Join(strings.Fields(strings.ToLower(term)), " ")
}

// Lookup finds term, an alias, or the singular of a plural form.
func (g *Glossary) Lookup(term string) (Entry, bool) {
	key := normalize(term)
	if key == "" {
		return Entry{}, false
	}
	if i, ok := g.index[key]; ok {
		return g.entries[i], true
	}
	if singular, ok := strings.CutSuffix(key, "s"); ok && singular != "" {
		if i, ok := g.index[singular]; ok {
			return g.entries[i], true
		}
	}
	return Entry{}, false
}

// Terms returns every defined term in alphabetical order.
func (g *Glossary) Terms() []string {
	terms := make([]string, len(g.entries))
	for i, e := range g.entries {
		terms[i] = e.Term
	}
	sort.Strings(terms)
	return terms
}

// Define returns the entries for those keywords that have one, in keyword
// order and without repeats.
func (g *Glossary) Define(keywords []string) []Entry {
	seen := make(map[string]bool)
	var out []Entry
	for _, k := range keywords {
		e, ok := g.Lookup(k)
		if !ok || seen[e.Term] {
			continue
		}
		seen[e.Term] = true
		out = append(out, e)
	}
	return out
}
