package preset_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/adapter-tools/internal/algo"
	"github.com/CodexForgeBR/adapter-tools/internal/preset"
)

func TestOverrideFromMap_ExtractsAlgo(t *testing.T) {
	ov := preset.OverrideFromMap(map[string]any{
		"algo":  "loha",
		"dim":   8,
		"alpha": 4,
	})

	assert.Equal(t, "loha", ov.Algo)
	assert.Equal(t, map[string]any{"dim": 8, "alpha": 4}, ov.Options)
}

func TestOverrideFromMap_NoAlgo(t *testing.T) {
	ov := preset.OverrideFromMap(map[string]any{"train_on_input": true})

	assert.Empty(t, ov.Algo)
	assert.Equal(t, map[string]any{"train_on_input": true}, ov.Options)
}

func TestOverrideFromMap_DoesNotAliasInput(t *testing.T) {
	raw := map[string]any{
		"algo":    "lokr",
		"nested":  map[string]any{"a": 1},
		"factors": []any{1, 2},
	}
	ov := preset.OverrideFromMap(raw)

	raw["nested"].(map[string]any)["a"] = 99
	raw["factors"].([]any)[0] = 99

	assert.Equal(t, 1, ov.Options["nested"].(map[string]any)["a"])
	assert.Equal(t, 1, ov.Options["factors"].([]any)[0])
}

func TestOverrideToMap_RoundTrip(t *testing.T) {
	raw := map[string]any{"algo": "lokr", "factor": 8, "dim": 10000}
	ov := preset.OverrideFromMap(raw)
	assert.Equal(t, raw, ov.ToMap())
}

func TestOverrideToMap_OmitsUnsetAlgo(t *testing.T) {
	ov := preset.Override{Options: map[string]any{"dim": 4}}
	out := ov.ToMap()
	_, hasAlgo := out["algo"]
	assert.False(t, hasAlgo)
}

func TestOverrideToMap_ReturnsCopy(t *testing.T) {
	ov := preset.Override{
		Algo:    "lora",
		Options: map[string]any{"nested": map[string]any{"a": 1}},
	}
	out := ov.ToMap()
	out["nested"].(map[string]any)["a"] = 99
	out["extra"] = true

	assert.Equal(t, 1, ov.Options["nested"].(map[string]any)["a"])
	_, leaked := ov.Options["extra"]
	assert.False(t, leaked)
}

func TestOverrideValidate_NoAlgoIsNoop(t *testing.T) {
	ov := preset.Override{Options: map[string]any{"anything_at_all": 1}}
	assert.NoError(t, ov.Validate())
}

func TestOverrideValidate_UnknownAlgo(t *testing.T) {
	ov := preset.Override{Algo: "vera"}
	err := ov.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, preset.ErrPresetInvalid)

	var unknown *algo.UnknownAlgorithmError
	assert.ErrorAs(t, err, &unknown)
}

func TestOverrideValidate_CaseInsensitiveAlgo(t *testing.T) {
	ov := preset.Override{Algo: "LoKr", Options: map[string]any{"factor": 8}}
	assert.NoError(t, ov.Validate())
}

func TestOverrideValidate_UnsupportedOption(t *testing.T) {
	// ia3 accepts no arguments at all.
	ov := preset.Override{Algo: "ia3", Options: map[string]any{"dim": 4}}
	err := ov.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, preset.ErrPresetInvalid)

	var unsupported *preset.UnsupportedOptionError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "ia3", unsupported.Algo)
	assert.Equal(t, "dim", unsupported.Option)
	assert.Contains(t, err.Error(), "none")
}

func TestOverrideValidate_SupportedOptions(t *testing.T) {
	ov := preset.Override{Algo: "lokr", Options: map[string]any{"factor": 8, "dim": 10000}}
	assert.NoError(t, ov.Validate())
}

func TestOverrideValidate_CollectsAllBadOptions(t *testing.T) {
	ov := preset.Override{Algo: "glora", Options: map[string]any{
		"dim":        8,
		"constraint": 1,
		"rescaled":   true,
	}}
	err := ov.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "constraint")
	assert.Contains(t, err.Error(), "rescaled")
}

func TestOverrideMerge_FieldLevel(t *testing.T) {
	base := preset.Override{Algo: "lora", Options: map[string]any{"dim": 8, "alpha": 4}}
	higher := preset.Override{Options: map[string]any{"dim": 16}}

	merged := base.Merge(higher)

	assert.Equal(t, "lora", merged.Algo, "empty higher algo inherits")
	assert.Equal(t, map[string]any{"dim": 16, "alpha": 4}, merged.Options)
}

func TestOverrideMerge_AlgoReplacedWhenSet(t *testing.T) {
	base := preset.Override{Algo: "lora"}
	merged := base.Merge(preset.Override{Algo: "loha"})
	assert.Equal(t, "loha", merged.Algo)
}

func TestOverrideMerge_DoesNotMutateReceiver(t *testing.T) {
	base := preset.Override{Algo: "lora", Options: map[string]any{"dim": 8}}
	_ = base.Merge(preset.Override{Options: map[string]any{"dim": 16}})
	assert.Equal(t, 8, base.Options["dim"])
}

func TestErrPresetInvalid_Umbrella(t *testing.T) {
	errs := []error{
		preset.Override{Algo: "nope"}.Validate(),
		preset.Override{Algo: "ia3", Options: map[string]any{"x": 1}}.Validate(),
	}
	for _, err := range errs {
		require.Error(t, err)
		assert.True(t, errors.Is(err, preset.ErrPresetInvalid))
	}
}
