package profile

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/milk9111/npcbrain/prefabs"
)

var (
	ErrNotFound     = errors.New("profile: not found")
	ErrUnknownBlock = errors.New("profile: unknown profile block")
)

// Family names used as block keys in entity documents.
const (
	FamilyMovement  = "movement"
	FamilyRotation  = "rotation"
	FamilyTargeting = "targeting"
	FamilyTiming    = "timing"
	FamilyHealth    = "health"
	FamilyFear      = "fear"
	FamilyPersona   = "persona"
	FamilyCurve     = "curve"
)

// Dictionary maps profile names to values of one family.
type Dictionary[T any] struct {
	family  string
	entries map[string]T
}

func NewDictionary[T any](family string, entries map[string]T) Dictionary[T] {
	copied := make(map[string]T, len(entries))
	for k, v := range entries {
		copied[k] = v
	}
	return Dictionary[T]{family: family, entries: copied}
}

func (d Dictionary[T]) Family() string { return d.family }
func (d Dictionary[T]) Len() int       { return len(d.entries) }

// Lookup is the only way profiles are read. A missing key is an error that
// lists what is available.
func (d Dictionary[T]) Lookup(key string) (T, error) {
	if v, ok := d.entries[key]; ok {
		return v, nil
	}
	var zero T
	available := "none"
	if keys := d.Keys(); len(keys) > 0 {
		available = strings.Join(keys, ", ")
	}
	return zero, fmt.Errorf("%w: %s profile %q (available: %s)", ErrNotFound, d.family, key, available)
}

func (d Dictionary[T]) Has(key string) bool {
	_, ok := d.entries[key]
	return ok
}

func (d Dictionary[T]) Keys() []string {
	keys := make([]string, 0, len(d.entries))
	for k := range d.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set is every profile dictionary of one agent.
type Set struct {
	Movement  Dictionary[Movement]
	Rotation  Dictionary[Rotation]
	Targeting Dictionary[Targeting]
	Timing    Dictionary[Timing]
	Health    Dictionary[Health]
	Fear      Dictionary[Fear]
	Persona   Dictionary[Persona]
	Curve     Dictionary[CurveSet]
}

// NewSet returns a set of empty dictionaries.
func NewSet() *Set {
	return &Set{
		Movement:  NewDictionary[Movement](FamilyMovement, nil),
		Rotation:  NewDictionary[Rotation](FamilyRotation, nil),
		Targeting: NewDictionary[Targeting](FamilyTargeting, nil),
		Timing:    NewDictionary[Timing](FamilyTiming, nil),
		Health:    NewDictionary[Health](FamilyHealth, nil),
		Fear:      NewDictionary[Fear](FamilyFear, nil),
		Persona:   NewDictionary[Persona](FamilyPersona, nil),
		Curve:     NewDictionary[CurveSet](FamilyCurve, nil),
	}
}

// Parse decodes the profiles block of an entity document.
func Parse(blocks map[string]map[string]any) (*Set, error) {
	set := NewSet()
	names := make([]string, 0, len(blocks))
	for name := range blocks {
		names = append(names, name)
	}
	sort.Strings(names)

	var err error
	for _, name := range names {
		raw := blocks[name]
		switch name {
		case FamilyMovement:
			set.Movement, err = parseBlock[Movement](name, raw)
		case FamilyRotation:
			set.Rotation, err = parseBlock[Rotation](name, raw)
		case FamilyTargeting:
			set.Targeting, err = parseBlock[Targeting](name, raw)
		case FamilyTiming:
			set.Timing, err = parseBlock[Timing](name, raw)
		case FamilyHealth:
			set.Health, err = parseBlock[Health](name, raw)
		case FamilyFear:
			set.Fear, err = parseBlock[Fear](name, raw)
		case FamilyPersona:
			set.Persona, err = parseBlock[Persona](name, raw)
		case FamilyCurve:
			set.Curve, err = parseBlock[CurveSet](name, raw)
			if err == nil {
				err = validateCurves(set.Curve)
			}
		default:
			err = fmt.Errorf("%w %q", ErrUnknownBlock, name)
		}
		if err != nil {
			return nil, err
		}
	}
	return set, nil
}

func parseBlock[T any](family string, raw map[string]any) (Dictionary[T], error) {
	entries := make(map[string]T, len(raw))
	for key, v := range raw {
		decoded, err := prefabs.DecodeSpec[T](v)
		if err != nil {
			return Dictionary[T]{}, fmt.Errorf("profile: %s.%s: %w", family, key, err)
		}
		entries[key] = decoded
	}
	return NewDictionary(family, entries), nil
}

func validateCurves(d Dictionary[CurveSet]) error {
	for _, key := range d.Keys() {
		set, _ := d.Lookup(key)
		for _, c := range set {
			if err := c.Validate(); err != nil {
				return fmt.Errorf("profile: curve.%s: %w", key, err)
			}
		}
	}
	return nil
}
