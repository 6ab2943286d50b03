package preset

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/CodexForgeBR/adapter-tools/internal/algo"
)

// Override is a per-module directive naming an adapter algorithm and its
// hyperparameter overrides. An empty Algo means "use the surrounding
// default"; the algorithm reference is resolved by name against the
// algo registry at validation time, never held directly.
type Override struct {
	// Algo is the algorithm name, or empty to inherit from context.
	Algo string

	// Options maps hyperparameter names to values. Values pass through
	// unchanged; no type coercion happens at construction time.
	Options map[string]any
}

// OverrideFromMap builds an Override from a raw nested mapping. The reserved
// key "algo" selects the algorithm; every other key becomes an option
// verbatim. The input is deep-copied, never aliased.
func OverrideFromMap(raw map[string]any) Override {
	options := make(map[string]any, len(raw))
	var algoName string
	for k, v := range raw {
		if k == "algo" {
			if s, ok := v.(string); ok {
				algoName = s
			}
			continue
		}
		options[k] = copyValue(v)
	}
	return Override{Algo: algoName, Options: options}
}

// ToMap is the inverse of OverrideFromMap: options plus, when set, the
// reserved "algo" key. The result is a deep copy; mutating it cannot reach
// the override's internal state.
func (o Override) ToMap() map[string]any {
	out := copyMap(o.Options)
	if out == nil {
		out = make(map[string]any)
	}
	if o.Algo != "" {
		out["algo"] = o.Algo
	}
	return out
}

// Validate checks the override against the algorithm registry. It is a
// no-op when Algo is empty (the algorithm is inherited from context, so
// option legality cannot be judged locally). All unsupported options are
// collected and reported together. Validate never mutates the override.
func (o Override) Validate() error {
	if o.Algo == "" {
		return nil
	}
	spec, err := algo.Describe(o.Algo)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPresetInvalid, err)
	}

	keys := make([]string, 0, len(o.Options))
	for k := range o.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, k := range keys {
		if !spec.Supports(k) {
			errs = append(errs, &UnsupportedOptionError{
				Algo:      strings.ToLower(o.Algo),
				Option:    k,
				Supported: spec.SupportedArgs,
			})
		}
	}
	return errors.Join(errs...)
}

// Merge returns a new Override combining o with a higher-precedence one.
// The merge is field-level: higher's algorithm replaces o's only when set,
// and options merge key-wise with higher winning on collisions.
func (o Override) Merge(higher Override) Override {
	out := Override{Algo: o.Algo, Options: copyMap(o.Options)}
	if out.Options == nil {
		out.Options = make(map[string]any)
	}
	if higher.Algo != "" {
		out.Algo = higher.Algo
	}
	for k, v := range higher.Options {
		out.Options[k] = copyValue(v)
	}
	return out
}

// Clone returns a deep copy of the override.
func (o Override) Clone() Override {
	return Override{Algo: o.Algo, Options: copyMap(o.Options)}
}
