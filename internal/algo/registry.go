// Package algo defines the static catalog of known adapter algorithms.
//
// The registry is populated once at package init and never mutated, so it is
// safe for concurrent read-only access. Lookups are case-insensitive: names
// are normalized to lowercase before consulting the catalog.
package algo

import (
	"fmt"
	"sort"
	"strings"
)

// Spec describes one adapter algorithm: its canonical name, the closed set
// of hyperparameters it accepts, and free-text caveats.
type Spec struct {
	// Name is the stable lowercase identifier used in preset files.
	Name string

	// Description is a one-line human-readable summary.
	Description string

	// SupportedArgs is the ordered, duplicate-free set of hyperparameter
	// names the algorithm accepts. An empty set means the algorithm takes
	// no arguments.
	SupportedArgs []string

	// RequiredArgs lists arguments that must be present for the algorithm
	// to be usable. Subset of SupportedArgs.
	RequiredArgs []string

	// Notes carries stability or default-behavior caveats, if any.
	Notes string
}

// Supports reports whether arg is a recognized hyperparameter for the spec.
func (s Spec) Supports(arg string) bool {
	for _, a := range s.SupportedArgs {
		if a == arg {
			return true
		}
	}
	return false
}

// loraArgs is shared by the lora family (lora, locon).
var loraArgs = []string{
	"dim",
	"alpha",
	"dropout",
	"rank_dropout",
	"module_dropout",
	"use_tucker",
	"use_scalar",
	"weight_decompose",
	"wd_on_output",
	"bypass_mode",
}

// registry lists every known algorithm in declaration order. List and Names
// preserve this order.
var registry = []Spec{
	{
		Name:          "lora",
		Description:   "Standard LoRA / LoCon adapter.",
		SupportedArgs: loraArgs,
	},
	{
		Name:          "locon",
		Description:   "Alias of lora that enables convolution layers by default.",
		SupportedArgs: loraArgs,
	},
	{
		Name:        "loha",
		Description: "LoHa adapter that factorizes with Hadamard products.",
		SupportedArgs: []string{
			"dim",
			"alpha",
			"dropout",
			"rank_dropout",
			"module_dropout",
			"use_tucker",
			"use_scalar",
			"weight_decompose",
			"wd_on_output",
		},
		Notes: "High dimensions may require lower learning rates to remain stable.",
	},
	{
		Name:        "lokr",
		Description: "Kronecker-product based adapter (LoKr).",
		SupportedArgs: []string{
			"dim",
			"alpha",
			"factor",
			"dropout",
			"rank_dropout",
			"module_dropout",
			"use_scalar",
			"full_matrix",
			"weight_decompose",
			"wd_on_output",
			"unbalanced_factorization",
		},
		Notes: "Setting dim to a very large value triggers the full-matrix path.",
	},
	{
		Name:        "dylora",
		Description: "Dynamic LoRA that incrementally updates rank blocks.",
		SupportedArgs: []string{
			"dim",
			"alpha",
			"block_size",
			"dropout",
			"rank_dropout",
			"module_dropout",
		},
	},
	{
		Name:        "glora",
		Description: "Generalized LoRA adapter.",
		SupportedArgs: []string{
			"dim",
			"alpha",
			"dropout",
			"rank_dropout",
			"module_dropout",
		},
	},
	{
		Name:        "full",
		Description: "Native fine-tuning (full weight matrices).",
		SupportedArgs: []string{
			"dim",
			"alpha",
			"dropout",
			"rank_dropout",
			"module_dropout",
		},
		Notes: "Used for dreambooth-like full matrix training.",
	},
	{
		Name:          "diag-oft",
		Description:   "Diagonal Orthogonal Finetuning.",
		SupportedArgs: []string{"dim", "constraint", "rescaled"},
	},
	{
		Name:          "boft",
		Description:   "Butterfly Orthogonal Finetuning.",
		SupportedArgs: []string{"dim", "constraint", "rescaled"},
	},
	{
		Name:          "ia3",
		Description:   "Input-output scaling adapter (IA^3).",
		SupportedArgs: nil,
		Notes:         "Most training setups use preset 'ia3' with dedicated module selection.",
	},
}

// byName is a precomputed lookup table keyed by lowercase name.
var byName map[string]Spec

func init() {
	byName = make(map[string]Spec, len(registry))
	for _, s := range registry {
		byName[s.Name] = s
	}
}

// UnknownAlgorithmError reports a lookup for an algorithm the registry does
// not know about.
type UnknownAlgorithmError struct {
	// Name is the requested algorithm name as the caller supplied it.
	Name string
}

func (e *UnknownAlgorithmError) Error() string {
	return fmt.Sprintf("unknown algorithm %q; known algorithms: %s", e.Name, strings.Join(Names(), ", "))
}

// Describe returns the Spec for name. The lookup is case-insensitive.
// Unknown names fail with *UnknownAlgorithmError.
func Describe(name string) (Spec, error) {
	s, ok := byName[strings.ToLower(name)]
	if !ok {
		return Spec{}, &UnknownAlgorithmError{Name: name}
	}
	return cloneSpec(s), nil
}

// List returns every registered Spec in stable declaration order.
// The returned slice and its contents are copies; mutating them does not
// affect the registry.
func List() []Spec {
	out := make([]Spec, len(registry))
	for i, s := range registry {
		out[i] = cloneSpec(s)
	}
	return out
}

// Names returns every registered algorithm name in stable declaration order.
func Names() []string {
	out := make([]string, len(registry))
	for i, s := range registry {
		out[i] = s.Name
	}
	return out
}

// SortedNames returns every registered algorithm name in lexical order,
// for deterministic help and error text.
func SortedNames() []string {
	out := Names()
	sort.Strings(out)
	return out
}

func cloneSpec(s Spec) Spec {
	c := s
	c.SupportedArgs = append([]string(nil), s.SupportedArgs...)
	c.RequiredArgs = append([]string(nil), s.RequiredArgs...)
	return c
}
