package persona

import (
	"fmt"
)

// Rule maps a situation key to the tree that handles it.
type Rule struct {
	Situation string `yaml:"situation"`
	Tree      string `yaml:"tree"`
}

// Persona is a named behavior profile: which stimulus it reacts to, which
// curves score it and which tree handles each situation.
type Persona struct {
	Name        string
	DefaultTree string
	Stimulus    string
	Curves      []Curve
	Rules       []Rule
	Switch      Config
}

// Resolve maps a situation key to a tree key. Unknown situations name a tree
// directly.
func (p Persona) Resolve(situation string) string {
	for _, r := range p.Rules {
		if r.Situation == situation && r.Tree != "" {
			return r.Tree
		}
	}
	return situation
}

// NewSwitcher builds a switcher over the persona's curves with targets
// resolved to tree keys. initial overrides DefaultTree when set.
func (p Persona) NewSwitcher(initial string) (*Switcher, error) {
	if initial == "" {
		initial = p.DefaultTree
	}
	if initial == "" {
		return nil, fmt.Errorf("persona: %q has no default tree", p.Name)
	}
	curves := make([]Curve, 0, len(p.Curves))
	for _, c := range p.Curves {
		c.Target = p.Resolve(c.Target)
		curves = append(curves, c)
	}
	return NewSwitcher(p.Switch, curves, initial)
}

// Trees lists every tree key the persona can switch to, default first.
func (p Persona) Trees() []string {
	seen := map[string]bool{}
	var out []string
	add := func(k string) {
		if k != "" && !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	add(p.DefaultTree)
	for _, c := range p.Curves {
		add(p.Resolve(c.Target))
	}
	for _, r := range p.Rules {
		add(r.Tree)
	}
	return out
}
