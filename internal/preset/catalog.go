package preset

import "sort"

// fullUNetModules enumerates the block type names targeted by the "full"
// presets across the supported model families.
var fullUNetModules = []string{
	"Transformer2DModel",
	"ResnetBlock2D",
	"Downsample2D",
	"Upsample2D",
	"HunYuanDiTBlock",                      // HunYuanDiT
	"DoubleStreamBlock",                    // Flux
	"SingleStreamBlock",                    // Flux
	"SingleDiTBlock",                       // SD3.5
	"MMDoubleStreamBlock",                  // HunYuanVideo
	"MMSingleStreamBlock",                  // HunYuanVideo
	"WanAttentionBlock",                    // Wan
	"HunyuanVideoTransformerBlock",         // FramePack
	"HunyuanVideoSingleTransformerBlock",   // FramePack
	"JointTransformerBlock",                // lumina-image-2
	"FinalLayer",                           // lumina-image-2
	"QwenImageTransformerBlock",            // Qwen
}

var fullUNetNames = []string{
	"conv_in",
	"conv_out",
	"time_embedding.linear_1",
	"time_embedding.linear_2",
}

var fullTextEncoderModules = []string{
	"CLIPAttention",
	"CLIPSdpaAttention",
	"CLIPMLP",
	"MT5Block",
	"BertLayer",
	"Gemma2Attention",
	"Gemma2FlashAttention2",
	"Gemma2SdpaAttention",
	"Gemma2MLP",
}

// transformerUNetModules is fullUNetModules minus the pure-conv blocks,
// shared by the linear-only presets.
var transformerUNetModules = []string{
	"Transformer2DModel",
	"HunYuanDiTBlock",
	"DoubleStreamBlock",
	"SingleStreamBlock",
	"SingleDiTBlock",
	"MMDoubleStreamBlock",
	"MMSingleStreamBlock",
	"WanAttentionBlock",
	"HunyuanVideoTransformerBlock",
	"HunyuanVideoSingleTransformerBlock",
	"JointTransformerBlock",
	"FinalLayer",
	"QwenImageTransformerBlock",
}

// builtinPresets is the fixed catalog of named presets, built once at
// process start from literal data and never mutated afterward. Lookups
// hand out deep copies so callers cannot reach the catalog through a
// returned config.
var builtinPresets = map[string]*Config{
	"full": {
		EnableConv:              boolPtr(true),
		UNetTargetModule:        fullUNetModules,
		UNetTargetName:          fullUNetNames,
		TextEncoderTargetModule: fullTextEncoderModules,
		TextEncoderTargetName:   []string{},
	},
	"full-lin": {
		EnableConv: boolPtr(false),
		UNetTargetModule: append([]string{"Transformer2DModel", "ResnetBlock2D"},
			transformerUNetModules[1:]...),
		UNetTargetName: []string{
			"time_embedding.linear_1",
			"time_embedding.linear_2",
		},
		TextEncoderTargetModule: fullTextEncoderModules,
		TextEncoderTargetName:   []string{},
	},
	"attn-mlp": {
		EnableConv:              boolPtr(false),
		UNetTargetModule:        transformerUNetModules,
		UNetTargetName:          []string{},
		TextEncoderTargetModule: fullTextEncoderModules,
		TextEncoderTargetName:   []string{},
	},
	"attn-only": {
		EnableConv: boolPtr(false),
		UNetTargetModule: []string{
			"CrossAttention",
			"SelfAttention",
		},
		UNetTargetName: []string{},
		TextEncoderTargetModule: []string{
			"CLIPAttention",
			"CLIPSdpaAttention",
			"BertAttention",
			"MT5LayerSelfAttention",
			"Gemma2Attention",
			"Gemma2FlashAttention2",
			"Gemma2SdpaAttention",
		},
		TextEncoderTargetName: []string{},
	},
	"unet-only": {
		EnableConv:              boolPtr(true),
		UNetTargetModule:        fullUNetModules,
		UNetTargetName:          fullUNetNames,
		TextEncoderTargetModule: []string{},
		TextEncoderTargetName:   []string{},
	},
	"unet-transformer-only": {
		EnableConv:              boolPtr(false),
		UNetTargetModule:        transformerUNetModules,
		UNetTargetName:          []string{},
		TextEncoderTargetModule: []string{},
		TextEncoderTargetName:   []string{},
	},
	"unet-convblock-only": {
		EnableConv:       boolPtr(true),
		UNetTargetModule: []string{"ResnetBlock2D", "Downsample2D", "Upsample2D"},
		UNetTargetName: []string{
			"conv_in",
			"conv_out",
		},
		TextEncoderTargetModule: []string{},
		TextEncoderTargetName:   []string{},
	},
	"ia3": {
		EnableConv:              boolPtr(false),
		UNetTargetModule:        []string{},
		UNetTargetName:          []string{"to_k", "to_v", "ff.net.2"},
		TextEncoderTargetModule: []string{},
		TextEncoderTargetName:   []string{"k_proj", "v_proj", "mlp.fc2"},
		NameAlgoMap: map[string]Override{
			"mlp.fc2":  {Algo: "ia3", Options: map[string]any{"train_on_input": true}},
			"ff.net.2": {Algo: "ia3", Options: map[string]any{"train_on_input": true}},
		},
	},
}

// BuiltinPreset returns a deep copy of the named builtin preset, or false
// when no such preset exists.
func BuiltinPreset(name string) (*Config, bool) {
	cfg, ok := builtinPresets[name]
	if !ok {
		return nil, false
	}
	return cfg.Clone(), true
}

// BuiltinPresets returns the whole catalog as deep copies keyed by name.
func BuiltinPresets() map[string]*Config {
	out := make(map[string]*Config, len(builtinPresets))
	for name, cfg := range builtinPresets {
		out[name] = cfg.Clone()
	}
	return out
}

// BuiltinPresetNames returns the catalog's preset names in lexical order.
func BuiltinPresetNames() []string {
	names := make([]string, 0, len(builtinPresets))
	for name := range builtinPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetMaps exports every builtin preset in plain-mapping form, for
// consumers that work with the raw representation.
func PresetMaps() map[string]map[string]any {
	out := make(map[string]map[string]any, len(builtinPresets))
	for name, cfg := range builtinPresets {
		out[name] = cfg.ToMap()
	}
	return out
}
