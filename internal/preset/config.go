// Package preset defines the adapter preset configuration model: per-module
// algorithm overrides, the closed preset schema, the builtin preset catalog,
// and loading of preset files.
//
// A preset decides which submodules of a target model receive trainable
// adapter weights and with which algorithm and hyperparameters. Presets
// round-trip through a plain nested-mapping representation so they can be
// sourced from YAML or TOML files as well as literal data.
package preset

import (
	"errors"
	"fmt"
	"sort"
)

// ValidPresetKeys is the closed set of recognized top-level preset keys.
// Any other key in a raw preset mapping is a validation error.
var ValidPresetKeys = []string{
	"enable_conv",
	"target_module",
	"target_name",
	"module_algo_map",
	"name_algo_map",
	"lora_prefix",
	"use_fnmatch",
	"unet_target_module",
	"unet_target_name",
	"text_encoder_target_module",
	"text_encoder_target_name",
	"exclude_name",
}

// validKeySet is a precomputed lookup table for fast schema membership checks.
var validKeySet map[string]bool

func init() {
	validKeySet = make(map[string]bool, len(ValidPresetKeys))
	for _, k := range ValidPresetKeys {
		validKeySet[k] = true
	}
}

// Config is an aggregate preset configuration: global defaults, target
// lists, and per-module override maps.
//
// Tri-state fields (EnableConv, UseFnmatch, LoraPrefix) use pointers so
// that "unset, inherit the surrounding default" stays distinct from an
// explicit false or empty value. Nil target slices likewise mean "unset"
// while empty non-nil slices mean "explicitly none".
type Config struct {
	// EnableConv gates adapters on convolutional module kinds.
	EnableConv *bool

	// TargetModule and TargetName are architecture-agnostic inclusion
	// lists of module type names and module path names.
	TargetModule []string
	TargetName   []string

	// ModuleAlgoMap overrides the algorithm per module type name.
	// NameAlgoMap overrides per module path or pattern; name-based
	// overrides take precedence over type-based ones at resolution time.
	ModuleAlgoMap map[string]Override
	NameAlgoMap   map[string]Override

	// LoraPrefix, when set, prefixes generated adapter parameter names.
	LoraPrefix *string

	// UseFnmatch selects glob-style matching for name-based targeting
	// instead of exact comparison.
	UseFnmatch *bool

	// Scoped variants of the target lists for the two conventional
	// sub-trees of a composite model. The resolver merges them with the
	// generic lists; this entity only carries them.
	UNetTargetModule        []string
	UNetTargetName          []string
	TextEncoderTargetModule []string
	TextEncoderTargetName   []string

	// ExcludeName lists name patterns dropped after inclusion.
	// Exclusion always wins over inclusion.
	ExcludeName []string

	// Extra preserves keys a caller attaches programmatically for forward
	// compatibility. FromMap never populates it (unknown keys are rejected
	// instead); ToMap flattens its contents into the top level.
	Extra map[string]any
}

// FromMap builds a Config from a raw nested mapping. Every top-level key
// outside ValidPresetKeys is collected into a single
// *UnrecognizedPresetKeysError. Entries of the two algo-map keys are
// converted via OverrideFromMap; when strict is true each override is also
// validated against the algorithm registry, and all failures are collected
// and reported together. All ingested values are deep-copied.
func FromMap(raw map[string]any, strict bool) (*Config, error) {
	var unknown []string
	for k := range raw {
		if !validKeySet[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &UnrecognizedPresetKeysError{Keys: unknown}
	}

	cfg := &Config{}
	var errs []error

	for _, key := range ValidPresetKeys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		switch key {
		case "enable_conv", "use_fnmatch":
			b, ok := v.(bool)
			if !ok {
				errs = append(errs, typeError(key, "a boolean", v))
				continue
			}
			if key == "enable_conv" {
				cfg.EnableConv = boolPtr(b)
			} else {
				cfg.UseFnmatch = boolPtr(b)
			}
		case "lora_prefix":
			s, ok := v.(string)
			if !ok {
				errs = append(errs, typeError(key, "a string", v))
				continue
			}
			cfg.LoraPrefix = strPtr(s)
		case "module_algo_map", "name_algo_map":
			overrides, err := overridesFromRaw(key, v, strict)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if key == "module_algo_map" {
				cfg.ModuleAlgoMap = overrides
			} else {
				cfg.NameAlgoMap = overrides
			}
		default:
			list, err := stringList(key, v)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			switch key {
			case "target_module":
				cfg.TargetModule = list
			case "target_name":
				cfg.TargetName = list
			case "unet_target_module":
				cfg.UNetTargetModule = list
			case "unet_target_name":
				cfg.UNetTargetName = list
			case "text_encoder_target_module":
				cfg.TextEncoderTargetModule = list
			case "text_encoder_target_name":
				cfg.TextEncoderTargetName = list
			case "exclude_name":
				cfg.ExcludeName = list
			}
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// overridesFromRaw converts one algo-map value into typed overrides.
// Entry keys are visited in lexical order so collected validation errors
// come out deterministically.
func overridesFromRaw(key string, v any, strict bool) (map[string]Override, error) {
	raw, ok := copyValue(v).(map[string]any)
	if !ok {
		return nil, typeError(key, "a mapping", v)
	}

	entryKeys := make([]string, 0, len(raw))
	for k := range raw {
		entryKeys = append(entryKeys, k)
	}
	sort.Strings(entryKeys)

	overrides := make(map[string]Override, len(raw))
	var errs []error
	for _, entryKey := range entryKeys {
		entry, ok := raw[entryKey].(map[string]any)
		if !ok {
			if raw[entryKey] == nil {
				entry = map[string]any{}
			} else {
				errs = append(errs, typeError(fmt.Sprintf("%s[%q]", key, entryKey), "a mapping", raw[entryKey]))
				continue
			}
		}
		ov := OverrideFromMap(entry)
		if strict {
			if err := ov.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("%s[%q]: %w", key, entryKey, err))
				continue
			}
		}
		overrides[entryKey] = ov
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return overrides, nil
}

// stringList converts a raw list value to []string.
func stringList(key string, v any) ([]string, error) {
	switch val := v.(type) {
	case []string:
		return copyStrings(val), nil
	case []any:
		out := make([]string, 0, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, typeError(fmt.Sprintf("%s[%d]", key, i), "a string", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, typeError(key, "a list of strings", v)
	}
}

// typeError builds an ErrPresetInvalid-matching error for a schema type
// mismatch.
func typeError(key, want string, got any) error {
	return fmt.Errorf("%w: key %s: expected %s, got %T", ErrPresetInvalid, key, want, got)
}

// ToMap exports the config as a plain nested mapping. Unset optional fields
// are omitted entirely, distinguishing "unset" from "set to empty or false".
// Algo maps are emitted only when non-empty. Extra contents merge into the
// top level of the output. The result is a deep copy.
func (c *Config) ToMap() map[string]any {
	out := make(map[string]any)

	if c.EnableConv != nil {
		out["enable_conv"] = *c.EnableConv
	}
	if c.TargetModule != nil {
		out["target_module"] = copyStrings(c.TargetModule)
	}
	if c.TargetName != nil {
		out["target_name"] = copyStrings(c.TargetName)
	}
	if len(c.ModuleAlgoMap) > 0 {
		out["module_algo_map"] = overrideMapToRaw(c.ModuleAlgoMap)
	}
	if len(c.NameAlgoMap) > 0 {
		out["name_algo_map"] = overrideMapToRaw(c.NameAlgoMap)
	}
	if c.LoraPrefix != nil {
		out["lora_prefix"] = *c.LoraPrefix
	}
	if c.UseFnmatch != nil {
		out["use_fnmatch"] = *c.UseFnmatch
	}
	if c.UNetTargetModule != nil {
		out["unet_target_module"] = copyStrings(c.UNetTargetModule)
	}
	if c.UNetTargetName != nil {
		out["unet_target_name"] = copyStrings(c.UNetTargetName)
	}
	if c.TextEncoderTargetModule != nil {
		out["text_encoder_target_module"] = copyStrings(c.TextEncoderTargetModule)
	}
	if c.TextEncoderTargetName != nil {
		out["text_encoder_target_name"] = copyStrings(c.TextEncoderTargetName)
	}
	if c.ExcludeName != nil {
		out["exclude_name"] = copyStrings(c.ExcludeName)
	}

	for k, v := range c.Extra {
		out[k] = copyValue(v)
	}
	return out
}

func overrideMapToRaw(m map[string]Override) map[string]any {
	out := make(map[string]any, len(m))
	for k, ov := range m {
		out[k] = ov.ToMap()
	}
	return out
}

// Algorithms returns every non-empty algorithm name referenced by the
// override maps: module map entries first, then name map entries, each in
// lexical key order for determinism. Names are not deduplicated.
func (c *Config) Algorithms() []string {
	var out []string
	for _, m := range []map[string]Override{c.ModuleAlgoMap, c.NameAlgoMap} {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if a := m[k].Algo; a != "" {
				out = append(out, a)
			}
		}
	}
	return out
}

// Clone returns a deep copy of the config. Mutating the copy never reaches
// the original.
func (c *Config) Clone() *Config {
	out := &Config{
		TargetModule:            copyStrings(c.TargetModule),
		TargetName:              copyStrings(c.TargetName),
		UNetTargetModule:        copyStrings(c.UNetTargetModule),
		UNetTargetName:          copyStrings(c.UNetTargetName),
		TextEncoderTargetModule: copyStrings(c.TextEncoderTargetModule),
		TextEncoderTargetName:   copyStrings(c.TextEncoderTargetName),
		ExcludeName:             copyStrings(c.ExcludeName),
		Extra:                   copyMap(c.Extra),
	}
	if c.EnableConv != nil {
		out.EnableConv = boolPtr(*c.EnableConv)
	}
	if c.UseFnmatch != nil {
		out.UseFnmatch = boolPtr(*c.UseFnmatch)
	}
	if c.LoraPrefix != nil {
		out.LoraPrefix = strPtr(*c.LoraPrefix)
	}
	if c.ModuleAlgoMap != nil {
		out.ModuleAlgoMap = make(map[string]Override, len(c.ModuleAlgoMap))
		for k, ov := range c.ModuleAlgoMap {
			out.ModuleAlgoMap[k] = ov.Clone()
		}
	}
	if c.NameAlgoMap != nil {
		out.NameAlgoMap = make(map[string]Override, len(c.NameAlgoMap))
		for k, ov := range c.NameAlgoMap {
			out.NameAlgoMap[k] = ov.Clone()
		}
	}
	return out
}
