package gguf

import (
	"errors"
	"testing"
)

func TestModelConfigExtraction(t *testing.T) {
	h := &Header{KV: map[string]Value{
		KeyGeneralArchitecture:                   StringValue("llama"),
		KeyGeneralName:                           StringValue("tinyllama-1.1b-chat"),
		KeyGeneralFileType:                       Uint32Value(2),
		"llama.context_length":                   Uint32Value(2048),
		"llama.embedding_length":                 Uint32Value(2048),
		"llama.block_count":                      Uint32Value(22),
		"llama.feed_forward_length":              Uint32Value(5632),
		"llama.attention.head_count":             Uint32Value(32),
		"llama.attention.head_count_kv":          Uint32Value(4),
		"llama.attention.layer_norm_rms_epsilon": Float32Value(1e-5),
		"llama.rope.dimension_count":             Uint32Value(64),
		"llama.rope.freq_base":                   Float32Value(10000),
		KeyTokenizerModel:                        StringValue("llama"),
		KeyTokenizerBOSID:                        Uint32Value(1),
		KeyTokenizerEOSID:                        Uint32Value(2),
		KeyTokenizerTokens: ArrayValue(TypeString, []Value{
			StringValue("<unk>"), StringValue("<s>"), StringValue("</s>"),
		}),
	}}

	c, err := h.ModelConfig()
	if err != nil {
		t.Fatalf("ModelConfig failed: %v", err)
	}

	if c.Architecture != "llama" || c.ModelName != "tinyllama-1.1b-chat" {
		t.Errorf("Unexpected identity: %+v", c)
	}
	if c.ContextLength != 2048 || c.BlockCount != 22 || c.FeedForwardLength != 5632 {
		t.Errorf("Unexpected dimensions: %+v", c)
	}
	if c.HeadCount != 32 || c.HeadCountKV != 4 {
		t.Errorf("Unexpected head counts: %+v", c)
	}
	if c.LayerNormRMSEps == 0 || c.RopeFreqBase != 10000 || c.RopeDimensionCount != 64 {
		t.Errorf("Unexpected attention/rope params: %+v", c)
	}
	if c.TokenizerModel != "llama" || c.BOSTokenID != 1 || c.EOSTokenID != 2 {
		t.Errorf("Unexpected tokenizer params: %+v", c)
	}
	// keys absent from the file stay zero
	if c.RopeScaleLinear != 0 || c.UseParallelResidual || c.MaxAlibiBias != 0 {
		t.Errorf("Expected absent keys to stay zero: %+v", c)
	}

	if got := h.VocabSize(); got != 3 {
		t.Errorf("Expected vocab size 3, got %d", got)
	}
}

func TestModelConfigMissingArchitecture(t *testing.T) {
	h := &Header{KV: map[string]Value{
		KeyGeneralName: StringValue("mystery model"),
	}}

	if _, err := h.ModelConfig(); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Expected ErrKeyNotFound, got %v", err)
	}
}

func TestVocabSizeWithoutTokens(t *testing.T) {
	h := &Header{KV: map[string]Value{}}
	if got := h.VocabSize(); got != 0 {
		t.Errorf("Expected 0, got %d", got)
	}
}
