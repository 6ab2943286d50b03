package resolver

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/CodexForgeBR/adapter-tools/internal/preset"
)

// Scope selects which scoped target lists of the preset merge with the
// generic ones during resolution.
type Scope string

const (
	// ScopeGeneric uses only target_module / target_name.
	ScopeGeneric Scope = "generic"

	// ScopeUNet additionally merges the unet_ target lists.
	ScopeUNet Scope = "unet"

	// ScopeTextEncoder additionally merges the text_encoder_ target lists.
	ScopeTextEncoder Scope = "text_encoder"
)

// Options carries caller-supplied resolution defaults. They sit at the
// lowest precedence: preset override maps win field by field.
type Options struct {
	// Scope names the sub-tree being resolved.
	Scope Scope

	// DefaultAlgo and DefaultOptions apply to every candidate that no
	// override claims.
	DefaultAlgo    string
	DefaultOptions map[string]any

	// EnableConv is the inherited conv default used when the preset
	// leaves enable_conv unset. Nil means conv modules stay eligible.
	EnableConv *bool
}

// Assignment is one resolved adapter placement.
type Assignment struct {
	// Path is the module's dot-joined path in the tree.
	Path string

	// Algo is the effective algorithm, lowercased.
	Algo string

	// Options is the effective, merged hyperparameter set.
	Options map[string]any
}

// Resolve walks the module tree in depth-first pre-order and emits one
// Assignment per included module. Inclusion is by module type name or by
// path name match; exclude patterns always win; convolutional modules are
// dropped when the effective enable_conv is false. The effective algorithm
// and options merge, in increasing precedence: caller defaults, the
// module_algo_map entry for the type, the name_algo_map entry for the path.
// The merged result is validated against the algorithm registry; any
// failure aborts the whole resolution.
//
// Identical tree + identical config always yields the identical assignment
// sequence: output order is traversal order.
func Resolve(root *Node, cfg *preset.Config, opts Options) ([]Assignment, error) {
	if root == nil {
		return nil, nil
	}

	typeTargets, nameTargets := scopedTargets(cfg, opts.Scope)
	fnmatch := cfg.UseFnmatch != nil && *cfg.UseFnmatch

	enableConv := true
	if cfg.EnableConv != nil {
		enableConv = *cfg.EnableConv
	} else if opts.EnableConv != nil {
		enableConv = *opts.EnableConv
	}

	nameKeys := sortedKeys(cfg.NameAlgoMap)

	var out []Assignment
	var walk func(n *Node, p string) error
	walk = func(n *Node, p string) error {
		included := matchType(n.Type, typeTargets) || matchAnyName(p, nameTargets, fnmatch)

		if included && matchAnyName(p, cfg.ExcludeName, fnmatch) {
			included = false
		}
		if included && n.Kind == KindConv && !enableConv {
			included = false
		}

		if included {
			effective := preset.Override{
				Algo:    opts.DefaultAlgo,
				Options: opts.DefaultOptions,
			}
			if ov, ok := cfg.ModuleAlgoMap[n.Type]; ok {
				effective = effective.Merge(ov)
			} else {
				effective = effective.Clone()
			}
			if ov, ok := lookupNameOverride(cfg, nameKeys, p, fnmatch); ok {
				effective = effective.Merge(ov)
			}

			if effective.Algo == "" {
				return fmt.Errorf("%w: module %s: no algorithm resolved (no default and no override)",
					preset.ErrPresetInvalid, p)
			}
			if err := effective.Validate(); err != nil {
				return fmt.Errorf("module %s: %w", p, err)
			}
			out = append(out, Assignment{
				Path:    p,
				Algo:    strings.ToLower(effective.Algo),
				Options: effective.Options,
			})
		}

		for _, c := range n.Children {
			childPath := c.Name
			if p != "" {
				childPath = p + "." + c.Name
			}
			if err := walk(c, childPath); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(root, root.Name); err != nil {
		return nil, err
	}
	return out, nil
}

// scopedTargets merges the generic target lists with the scoped variants.
func scopedTargets(cfg *preset.Config, scope Scope) (typeTargets, nameTargets []string) {
	typeTargets = append(typeTargets, cfg.TargetModule...)
	nameTargets = append(nameTargets, cfg.TargetName...)
	switch scope {
	case ScopeUNet:
		typeTargets = append(typeTargets, cfg.UNetTargetModule...)
		nameTargets = append(nameTargets, cfg.UNetTargetName...)
	case ScopeTextEncoder:
		typeTargets = append(typeTargets, cfg.TextEncoderTargetModule...)
		nameTargets = append(nameTargets, cfg.TextEncoderTargetName...)
	}
	return typeTargets, nameTargets
}

// matchType checks module type names by exact comparison.
func matchType(typeName string, targets []string) bool {
	for _, t := range targets {
		if t == typeName {
			return true
		}
	}
	return false
}

// matchName checks a module path against one pattern. Exact mode matches
// the whole path or a dot-boundary suffix, so a preset naming "mlp.fc2"
// reaches "encoder.layers.0.mlp.fc2". Glob mode applies the pattern to the
// full path, and unanchored patterns also match as a suffix.
func matchName(modulePath, pattern string, fnmatch bool) bool {
	if fnmatch {
		if ok, err := path.Match(pattern, modulePath); err == nil && ok {
			return true
		}
		if ok, err := path.Match("*."+pattern, modulePath); err == nil && ok {
			return true
		}
		return false
	}
	return modulePath == pattern || strings.HasSuffix(modulePath, "."+pattern)
}

func matchAnyName(modulePath string, patterns []string, fnmatch bool) bool {
	for _, pat := range patterns {
		if matchName(modulePath, pat, fnmatch) {
			return true
		}
	}
	return false
}

// lookupNameOverride finds the name_algo_map entry for a path. An exact
// full-path key wins; otherwise the first matching pattern in lexical key
// order applies, keeping resolution deterministic.
func lookupNameOverride(cfg *preset.Config, sortedPatterns []string, modulePath string, fnmatch bool) (preset.Override, bool) {
	if ov, ok := cfg.NameAlgoMap[modulePath]; ok {
		return ov, true
	}
	for _, pat := range sortedPatterns {
		if matchName(modulePath, pat, fnmatch) {
			return cfg.NameAlgoMap[pat], true
		}
	}
	return preset.Override{}, false
}

func sortedKeys(m map[string]preset.Override) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParamPrefix returns the prefix applied to generated adapter parameter
// names: the preset's lora_prefix when set, otherwise the conventional
// per-scope default.
func ParamPrefix(cfg *preset.Config, scope Scope) string {
	if cfg.LoraPrefix != nil {
		return *cfg.LoraPrefix
	}
	switch scope {
	case ScopeUNet:
		return "lora_unet"
	case ScopeTextEncoder:
		return "lora_te"
	default:
		return "lora"
	}
}
