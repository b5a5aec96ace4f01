package gguf

// ModelConfig is the flat view of the architecture-templated and tokenizer
// metadata a loader needs before touching tensor payloads. Zero values mean
// the corresponding optional key was absent from the file.
type ModelConfig struct {
	Architecture string
	ModelName    string

	ContextLength     uint64
	EmbeddingLength   uint64
	BlockCount        uint64
	FeedForwardLength uint64
	HeadCount         uint64
	HeadCountKV       uint64

	UseParallelResidual bool
	TensorDataLayout    string

	MaxAlibiBias    float64
	ClampKQV        float64
	LayerNormEps    float64
	LayerNormRMSEps float64

	RopeDimensionCount uint64
	RopeFreqBase       float64
	RopeScaleLinear    float64

	FileType            uint64
	QuantizationVersion uint64

	TokenizerModel string
	BOSTokenID     uint64
	EOSTokenID     uint64
	UnknownTokenID uint64
	SepTokenID     uint64
	PadTokenID     uint64
}

// ModelConfig resolves the recognized templated keys against the file's
// architecture and collects them into a ModelConfig. It fails only when
// general.architecture itself is missing; every other key is optional.
func (h *Header) ModelConfig() (*ModelConfig, error) {
	arch, err := h.Architecture()
	if err != nil {
		return nil, err
	}

	c := &ModelConfig{
		Architecture: arch,
		ModelName:    h.String(KeyGeneralName),

		FileType:            h.Uint(KeyGeneralFileType),
		QuantizationVersion: h.Uint(KeyGeneralQuantizationVersion),

		TokenizerModel: h.String(KeyTokenizerModel),
		BOSTokenID:     h.Uint(KeyTokenizerBOSID),
		EOSTokenID:     h.Uint(KeyTokenizerEOSID),
		UnknownTokenID: h.Uint(KeyTokenizerUnknownID),
		SepTokenID:     h.Uint(KeyTokenizerSepID),
		PadTokenID:     h.Uint(KeyTokenizerPadID),
	}

	for _, f := range []struct {
		template string
		set      func(Value)
	}{
		{KeyContextLength, func(v Value) { c.ContextLength = v.Uint() }},
		{KeyEmbeddingLength, func(v Value) { c.EmbeddingLength = v.Uint() }},
		{KeyBlockCount, func(v Value) { c.BlockCount = v.Uint() }},
		{KeyFeedForwardLength, func(v Value) { c.FeedForwardLength = v.Uint() }},
		{KeyAttentionHeadCount, func(v Value) { c.HeadCount = v.Uint() }},
		{KeyAttentionHeadCountKV, func(v Value) { c.HeadCountKV = v.Uint() }},
		{KeyUseParallelResidual, func(v Value) { c.UseParallelResidual = v.Bool() }},
		{KeyTensorDataLayout, func(v Value) { c.TensorDataLayout = v.String() }},
		{KeyAttentionMaxAlibiBias, func(v Value) { c.MaxAlibiBias = v.Float() }},
		{KeyAttentionClampKQV, func(v Value) { c.ClampKQV = v.Float() }},
		{KeyAttentionLayerNormEps, func(v Value) { c.LayerNormEps = v.Float() }},
		{KeyAttentionLayerNormRMS, func(v Value) { c.LayerNormRMSEps = v.Float() }},
		{KeyRopeDimensionCount, func(v Value) { c.RopeDimensionCount = v.Uint() }},
		{KeyRopeFreqBase, func(v Value) { c.RopeFreqBase = v.Float() }},
		{KeyRopeScaleLinear, func(v Value) { c.RopeScaleLinear = v.Float() }},
	} {
		v, ok, err := h.Lookup(f.template)
		if err != nil {
			return nil, err
		}
		if ok {
			f.set(v)
		}
	}

	return c, nil
}

// VocabSize returns the vocabulary size implied by tokenizer.ggml.tokens,
// or 0 when the file carries no token list.
func (h *Header) VocabSize() int {
	v, ok := h.KV[KeyTokenizerTokens]
	if !ok {
		return 0
	}
	return v.Len()
}
