package gguf

import (
	"errors"
	"testing"
)

func headerWithArch(arch string) *Header {
	return &Header{
		Magic:   Magic,
		Version: Version,
		KV: map[string]Value{
			KeyGeneralArchitecture:         StringValue(arch),
			arch + ".context_length":       Uint32Value(4096),
			arch + ".attention.head_count": Uint32Value(32),
		},
	}
}

func TestResolveTemplatedKey(t *testing.T) {
	h := headerWithArch("llama")

	key, err := h.Resolve(KeyContextLength)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if key != "llama.context_length" {
		t.Errorf("Expected llama.context_length, got %q", key)
	}
}

func TestResolvePlainKeyWithoutArch(t *testing.T) {
	// non-templated keys resolve even when general.architecture is absent
	h := &Header{KV: map[string]Value{}}

	key, err := h.Resolve(KeyGeneralName)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if key != KeyGeneralName {
		t.Errorf("Expected %q, got %q", KeyGeneralName, key)
	}
}

func TestResolveMissingArchitecture(t *testing.T) {
	h := &Header{KV: map[string]Value{}}

	_, err := h.Resolve(KeyContextLength)
	if !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Expected ErrKeyNotFound, got %v", err)
	}
	// a missing architecture means a malformed file, so it classifies as
	// a data error, not as an absent optional field
	if !IsDataError(err) {
		t.Errorf("Expected key-not-found to be a data error")
	}
}

func TestLookupPresent(t *testing.T) {
	h := headerWithArch("llama")

	v, ok, err := h.Lookup(KeyContextLength)
	if err != nil || !ok {
		t.Fatalf("Lookup failed: ok=%v err=%v", ok, err)
	}
	if v.Uint() != 4096 {
		t.Errorf("Expected 4096, got %d", v.Uint())
	}
}

func TestLookupOptionalAbsent(t *testing.T) {
	h := headerWithArch("llama")

	// the rope key resolves fine but is not in the metadata: absent, not
	// an error
	_, ok, err := h.Lookup(KeyRopeFreqBase)
	if err != nil {
		t.Fatalf("Expected no error for absent optional key, got %v", err)
	}
	if ok {
		t.Errorf("Expected ok=false for absent key")
	}
}

func TestArchitecture(t *testing.T) {
	h := headerWithArch("gptneox")

	arch, err := h.Architecture()
	if err != nil {
		t.Fatalf("Architecture failed: %v", err)
	}
	if arch != "gptneox" {
		t.Errorf("Expected gptneox, got %q", arch)
	}
}
