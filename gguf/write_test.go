package gguf

import (
	"bytes"
	"testing"
)

func testKV() map[string]Value {
	return map[string]Value{
		KeyGeneralArchitecture:        StringValue("llama"),
		KeyGeneralName:                StringValue("tinyllama-1.1b"),
		"llama.context_length":        Uint32Value(2048),
		"llama.block_count":           Uint32Value(22),
		"llama.rope.freq_base":        Float32Value(10000),
		"llama.use_parallel_residual": BoolValue(false),
		KeyTokenizerBOSID:             Uint32Value(1),
		KeyTokenizerScores: ArrayValue(TypeFloat32, []Value{
			Float32Value(-1), Float32Value(0), Float32Value(2.5),
		}),
		KeyTokenizerTokens: ArrayValue(TypeString, []Value{
			StringValue("<s>"), StringValue("</s>"), StringValue("the"),
		}),
	}
}

func testTensors() []TensorDescriptor {
	return []TensorDescriptor{
		{Name: "token_embd.weight", Dims: []uint64{64, 128}, Type: 0, Offset: 0},
		{Name: "output_norm.weight", Dims: []uint64{64}, Type: 0, Offset: 32768},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, testKV(), testTensors()); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	f, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if f.TensorCount != 2 || len(f.Tensors) != 2 {
		t.Fatalf("Expected 2 tensors, got count=%d len=%d", f.TensorCount, len(f.Tensors))
	}
	if got, _ := f.Architecture(); got != "llama" {
		t.Errorf("Expected architecture llama, got %q", got)
	}
	if got := f.Uint("llama.context_length"); got != 2048 {
		t.Errorf("Expected context length 2048, got %d", got)
	}
	if f.Bool("llama.use_parallel_residual", true) {
		t.Errorf("Expected use_parallel_residual false")
	}

	scores := f.KV[KeyTokenizerScores].Floats()
	if len(scores) != 3 || scores[2] != 2.5 {
		t.Errorf("Unexpected scores round trip: %v", scores)
	}
	tokens := f.KV[KeyTokenizerTokens].Strings()
	if len(tokens) != 3 || tokens[0] != "<s>" {
		t.Errorf("Unexpected tokens round trip: %v", tokens)
	}

	if f.Tensors[1].Name != "output_norm.weight" || f.Tensors[1].Offset != 32768 {
		t.Errorf("Unexpected tensor round trip: %+v", f.Tensors[1])
	}
	if f.DataOffset%DefaultAlignment != 0 {
		t.Errorf("Expected aligned data offset, got %d", f.DataOffset)
	}
	// the decoder stops after the tensor table; what remains of the encoded
	// stream is only the padding up to the data section
	if buf.Len() >= int(DefaultAlignment) {
		t.Errorf("Expected only padding to remain, %d bytes left", buf.Len())
	}
}

func TestEncodeDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	if err := Encode(&a, testKV(), testTensors()); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if err := Encode(&b, testKV(), testTensors()); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Errorf("Expected identical encodings, got %d vs %d differing bytes", a.Len(), b.Len())
	}
}

func TestFingerprint(t *testing.T) {
	decode := func(kv map[string]Value) *File {
		var buf bytes.Buffer
		if err := Encode(&buf, kv, testTensors()); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		f, err := Decode(&buf)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		return f
	}

	a := decode(testKV())
	b := decode(testKV())
	if a.Fingerprint() != b.Fingerprint() {
		t.Errorf("Expected equal fingerprints for identical files")
	}

	kv := testKV()
	kv["llama.context_length"] = Uint32Value(4096)
	if decode(kv).Fingerprint() == a.Fingerprint() {
		t.Errorf("Expected fingerprint to change with metadata")
	}
}
