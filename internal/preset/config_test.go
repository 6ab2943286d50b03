package preset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/adapter-tools/internal/preset"
)

func TestFromMap_AllKeys(t *testing.T) {
	raw := map[string]any{
		"enable_conv":   true,
		"target_module": []any{"Attention"},
		"target_name":   []any{"proj_out"},
		"module_algo_map": map[string]any{
			"Attention": map[string]any{"algo": "loha", "dim": 8},
		},
		"name_algo_map": map[string]any{
			"proj_out": map[string]any{"algo": "lokr", "factor": 4},
		},
		"lora_prefix":                "lora_unet",
		"use_fnmatch":                false,
		"unet_target_module":         []any{"Transformer2DModel"},
		"unet_target_name":           []any{"conv_in"},
		"text_encoder_target_module": []any{"CLIPAttention"},
		"text_encoder_target_name":   []any{},
		"exclude_name":               []any{"time_embedding.*"},
	}

	cfg, err := preset.FromMap(raw, false)
	require.NoError(t, err)

	require.NotNil(t, cfg.EnableConv)
	assert.True(t, *cfg.EnableConv)
	assert.Equal(t, []string{"Attention"}, cfg.TargetModule)
	assert.Equal(t, []string{"proj_out"}, cfg.TargetName)
	assert.Equal(t, "loha", cfg.ModuleAlgoMap["Attention"].Algo)
	assert.Equal(t, map[string]any{"dim": 8}, cfg.ModuleAlgoMap["Attention"].Options)
	assert.Equal(t, "lokr", cfg.NameAlgoMap["proj_out"].Algo)
	require.NotNil(t, cfg.LoraPrefix)
	assert.Equal(t, "lora_unet", *cfg.LoraPrefix)
	require.NotNil(t, cfg.UseFnmatch)
	assert.False(t, *cfg.UseFnmatch)
	assert.Equal(t, []string{"Transformer2DModel"}, cfg.UNetTargetModule)
	assert.Equal(t, []string{"conv_in"}, cfg.UNetTargetName)
	assert.Equal(t, []string{"CLIPAttention"}, cfg.TextEncoderTargetModule)
	assert.NotNil(t, cfg.TextEncoderTargetName)
	assert.Empty(t, cfg.TextEncoderTargetName)
	assert.Equal(t, []string{"time_embedding.*"}, cfg.ExcludeName)
	assert.Empty(t, cfg.Extra, "FromMap never populates Extra")
}

func TestFromMap_UnknownKeysCollected(t *testing.T) {
	raw := map[string]any{
		"enable_conv": true,
		"zzz_last":    1,
		"aaa_first":   2,
	}
	_, err := preset.FromMap(raw, false)
	require.Error(t, err)

	var unknown *preset.UnrecognizedPresetKeysError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []string{"aaa_first", "zzz_last"}, unknown.Keys)
	assert.ErrorIs(t, err, preset.ErrPresetInvalid)
	assert.Contains(t, err.Error(), "valid keys")
}

func TestFromMap_StrictValidatesOverrides(t *testing.T) {
	raw := map[string]any{
		"module_algo_map": map[string]any{
			"Attention": map[string]any{"algo": "ia3", "dim": 4},
		},
	}

	_, err := preset.FromMap(raw, false)
	assert.NoError(t, err, "lenient mode skips override validation")

	_, err = preset.FromMap(raw, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, preset.ErrPresetInvalid)

	var unsupported *preset.UnsupportedOptionError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "dim", unsupported.Option)
	assert.Contains(t, err.Error(), `module_algo_map["Attention"]`)
}

func TestFromMap_StrictCollectsAllOverrideFailures(t *testing.T) {
	raw := map[string]any{
		"name_algo_map": map[string]any{
			"a": map[string]any{"algo": "ia3", "dim": 4},
			"b": map[string]any{"algo": "vera"},
		},
	}
	_, err := preset.FromMap(raw, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `name_algo_map["a"]`)
	assert.Contains(t, err.Error(), `name_algo_map["b"]`)
}

func TestFromMap_TypeMismatch(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"enable_conv not bool", map[string]any{"enable_conv": "yes"}},
		{"lora_prefix not string", map[string]any{"lora_prefix": 1}},
		{"target_module not list", map[string]any{"target_module": "Attention"}},
		{"target_module bad element", map[string]any{"target_module": []any{1}}},
		{"module_algo_map not mapping", map[string]any{"module_algo_map": []any{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := preset.FromMap(tt.raw, false)
			require.Error(t, err)
			assert.ErrorIs(t, err, preset.ErrPresetInvalid)
		})
	}
}

func TestFromMap_DoesNotAliasInput(t *testing.T) {
	modules := []any{"Attention"}
	raw := map[string]any{"target_module": modules}

	cfg, err := preset.FromMap(raw, false)
	require.NoError(t, err)

	modules[0] = "Mutated"
	assert.Equal(t, "Attention", cfg.TargetModule[0])
}

func TestToMap_OmitsUnsetFields(t *testing.T) {
	cfg := &preset.Config{}
	assert.Empty(t, cfg.ToMap())
}

func TestToMap_DistinguishesUnsetFromEmpty(t *testing.T) {
	cfg := &preset.Config{TargetModule: []string{}}
	out := cfg.ToMap()

	v, ok := out["target_module"]
	require.True(t, ok, "explicitly empty list must be emitted")
	assert.Empty(t, v)
	_, ok = out["target_name"]
	assert.False(t, ok, "unset list must be omitted")
}

func TestToMap_OmitsEmptyAlgoMaps(t *testing.T) {
	cfg := &preset.Config{ModuleAlgoMap: map[string]preset.Override{}}
	_, ok := cfg.ToMap()["module_algo_map"]
	assert.False(t, ok)
}

func TestRoundTrip_SemanticEquivalence(t *testing.T) {
	raw := map[string]any{
		"enable_conv":  false,
		"use_fnmatch":  true,
		"target_name":  []any{"to_q", "to_k"},
		"exclude_name": []any{"*.norm"},
		"name_algo_map": map[string]any{
			"to_q": map[string]any{"algo": "lokr", "factor": 8, "dim": 10000},
		},
	}

	cfg, err := preset.FromMap(raw, true)
	require.NoError(t, err)

	out := cfg.ToMap()
	assert.Equal(t, false, out["enable_conv"])
	assert.Equal(t, true, out["use_fnmatch"])
	assert.Equal(t, []string{"to_q", "to_k"}, out["target_name"])
	assert.Equal(t, []string{"*.norm"}, out["exclude_name"])
	assert.Equal(t,
		map[string]any{"to_q": map[string]any{"algo": "lokr", "factor": 8, "dim": 10000}},
		out["name_algo_map"])

	// A second pass over the emitted mapping parses to the same output.
	cfg2, err := preset.FromMap(out, true)
	require.NoError(t, err)
	assert.Equal(t, out, cfg2.ToMap())
}

func TestToMap_FlattensExtra(t *testing.T) {
	cfg := &preset.Config{
		EnableConv: ptr(true),
		Extra:      map[string]any{"future_key": 42},
	}
	out := cfg.ToMap()
	assert.Equal(t, 42, out["future_key"])
	_, nested := out["extra"]
	assert.False(t, nested, "extra merges into the top level, not under a key")
}

func TestAlgorithms_OrderAndDuplicates(t *testing.T) {
	cfg := &preset.Config{
		ModuleAlgoMap: map[string]preset.Override{
			"B": {Algo: "loha"},
			"A": {Algo: "lokr"},
			"C": {}, // no algo, skipped
		},
		NameAlgoMap: map[string]preset.Override{
			"x": {Algo: "lokr"},
		},
	}
	assert.Equal(t, []string{"lokr", "loha", "lokr"}, cfg.Algorithms())

	// Restartable: a second invocation yields the same sequence.
	assert.Equal(t, cfg.Algorithms(), cfg.Algorithms())
}

func TestClone_Independent(t *testing.T) {
	cfg := &preset.Config{
		EnableConv:   ptr(true),
		TargetModule: []string{"Attention"},
		NameAlgoMap: map[string]preset.Override{
			"x": {Algo: "ia3", Options: map[string]any{"train_on_input": true}},
		},
	}
	clone := cfg.Clone()

	*clone.EnableConv = false
	clone.TargetModule[0] = "Mutated"
	clone.NameAlgoMap["x"].Options["train_on_input"] = false

	assert.True(t, *cfg.EnableConv)
	assert.Equal(t, "Attention", cfg.TargetModule[0])
	assert.Equal(t, true, cfg.NameAlgoMap["x"].Options["train_on_input"])
}

func ptr(b bool) *bool {
	return &b
}
