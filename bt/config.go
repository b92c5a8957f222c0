package bt

import (
	"fmt"
	"strconv"
	"time"

	"github.com/milk9111/npcbrain/timer"
)

// Config reads a node's resolved config values. Accessors return def when
// the key is absent and an error when it holds the wrong type.
type Config map[string]any

func (c Config) Has(key string) bool {
	_, ok := c[key]
	return ok
}

func (c Config) Raw(key string) any { return c[key] }

func (c Config) Float(key string, def float64) (float64, error) {
	v, ok := c[key]
	if !ok || v == nil {
		return def, nil
	}
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, fmt.Errorf("bt: config %q: %w", key, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("bt: config %q: want number, got %T", key, v)
	}
}

func (c Config) Int(key string, def int) (int, error) {
	v, ok := c[key]
	if !ok || v == nil {
		return def, nil
	}
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		if t != float64(int(t)) {
			return 0, fmt.Errorf("bt: config %q: want integer, got %v", key, t)
		}
		return int(t), nil
	case string:
		i, err := strconv.Atoi(t)
		if err != nil {
			return 0, fmt.Errorf("bt: config %q: %w", key, err)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("bt: config %q: want integer, got %T", key, v)
	}
}

func (c Config) String(key string, def string) (string, error) {
	v, ok := c[key]
	if !ok || v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("bt: config %q: want string, got %T", key, v)
	}
	return s, nil
}

func (c Config) Bool(key string, def bool) (bool, error) {
	v, ok := c[key]
	if !ok || v == nil {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("bt: config %q: want bool, got %T", key, v)
	}
	return b, nil
}

// Seconds reads a number of seconds as a duration.
func (c Config) Seconds(key string, def time.Duration) (time.Duration, error) {
	if !c.Has(key) {
		return def, nil
	}
	f, err := c.Float(key, 0)
	if err != nil {
		return 0, err
	}
	if f < 0 {
		return 0, fmt.Errorf("bt: config %q: negative duration %v", key, f)
	}
	return timer.Seconds(f), nil
}

// Map reads a nested map.
func (c Config) Map(key string) (Config, error) {
	v, ok := c[key]
	if !ok || v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("bt: config %q: want map, got %T", key, v)
	}
	return Config(m), nil
}

// List reads a sequence.
func (c Config) List(key string) ([]any, error) {
	v, ok := c[key]
	if !ok || v == nil {
		return nil, nil
	}
	l, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("bt: config %q: want list, got %T", key, v)
	}
	return l, nil
}
