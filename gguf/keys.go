package gguf

import (
	"fmt"
	"strings"
)

// Recognized metadata keys. Keys containing ArchPlaceholder are templates;
// resolve them against general.architecture with Header.Resolve before
// lookup. The table is read-only configuration, never mutated.
const (
	KeyGeneralArchitecture        = "general.architecture"
	KeyGeneralQuantizationVersion = "general.quantization_version"
	KeyGeneralAlignment           = "general.alignment"
	KeyGeneralName                = "general.name"
	KeyGeneralAuthor              = "general.author"
	KeyGeneralURL                 = "general.url"
	KeyGeneralDescription         = "general.description"
	KeyGeneralLicense             = "general.license"
	KeyGeneralSourceURL           = "general.source.url"
	KeyGeneralSourceHFRepo        = "general.source.hugginface.repository"
	KeyGeneralFileType            = "general.file_type"

	KeyContextLength       = "{arch}.context_length"
	KeyEmbeddingLength     = "{arch}.embedding_length"
	KeyBlockCount          = "{arch}.block_count"
	KeyFeedForwardLength   = "{arch}.feed_forward_length"
	KeyUseParallelResidual = "{arch}.use_parallel_residual"
	KeyTensorDataLayout    = "{arch}.tensor_data_layout"

	KeyAttentionHeadCount    = "{arch}.attention.head_count"
	KeyAttentionHeadCountKV  = "{arch}.attention.head_count_kv"
	KeyAttentionMaxAlibiBias = "{arch}.attention.max_alibi_bias"
	KeyAttentionClampKQV     = "{arch}.attention.clamp_kqv"
	KeyAttentionLayerNormEps = "{arch}.attention.layer_norm_epsilon"
	KeyAttentionLayerNormRMS = "{arch}.attention.layer_norm_rms_epsilon"

	KeyRopeDimensionCount = "{arch}.rope.dimension_count"
	KeyRopeFreqBase       = "{arch}.rope.freq_base"
	KeyRopeScaleLinear    = "{arch}.rope.scale_linear"

	KeyTokenizerModel     = "tokenizer.ggml.model"
	KeyTokenizerTokens    = "tokenizer.ggml.tokens"
	KeyTokenizerTokenType = "tokenizer.ggml.token_type"
	KeyTokenizerScores    = "tokenizer.ggml.scores"
	KeyTokenizerMerges    = "tokenizer.ggml.merges"
	KeyTokenizerBOSID     = "tokenizer.ggml.bos_token_id"
	KeyTokenizerEOSID     = "tokenizer.ggml.eos_token_id"
	KeyTokenizerUnknownID = "tokenizer.ggml.unknown_token_id"
	KeyTokenizerSepID     = "tokenizer.ggml.seperator_token_id"
	KeyTokenizerPadID     = "tokenizer.ggml.padding_token_id"
	KeyTokenizerHFJSON    = "tokenizer.huggingface.json"
	KeyTokenizerRWKV      = "tokenizer.rwkv.world"
)

// ArchPlaceholder is the substring replaced by the architecture name when
// resolving templated keys
const ArchPlaceholder = "{arch}"

// Architecture returns the architecture name stored under
// general.architecture. A file without it is malformed for any consumer that
// needs templated keys, so absence is reported as ErrKeyNotFound.
func (h *Header) Architecture() (string, error) {
	v, ok := h.KV[KeyGeneralArchitecture]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, KeyGeneralArchitecture)
	}
	return v.String(), nil
}

// Resolve substitutes the architecture name into a templated key. Keys
// without the placeholder are returned unchanged (and do not require the
// architecture key to be present).
func (h *Header) Resolve(template string) (string, error) {
	if !strings.Contains(template, ArchPlaceholder) {
		return template, nil
	}
	arch, err := h.Architecture()
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(template, ArchPlaceholder, arch), nil
}

// Lookup resolves a (possibly templated) key and fetches its value. A
// missing architecture key is a data error; a resolved key that is simply
// absent from the metadata is reported as ok == false with no error, so
// callers can tell a malformed file from an optional field.
func (h *Header) Lookup(template string) (Value, bool, error) {
	key, err := h.Resolve(template)
	if err != nil {
		return Value{}, false, err
	}
	v, ok := h.KV[key]
	return v, ok, nil
}
