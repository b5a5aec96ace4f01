// Benchmark for the sampler and the container decoder on synthetic data.
package main

import (
	"bytes"
	"fmt"
	"log"
	"math/rand"
	"time"

	"nano-gguf-go/gguf"
	"nano-gguf-go/sampler"
)

func main() {
	fmt.Println("Nano-GGUF-Go Benchmark")
	fmt.Println("======================")
	fmt.Println()

	vocabSize := 32000
	iterations := 10000

	fmt.Printf("Configuration:\n")
	fmt.Printf("  Vocabulary size: %d\n", vocabSize)
	fmt.Printf("  Iterations:      %d\n", iterations)
	fmt.Println()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	base := make([]float32, vocabSize)
	for i := range base {
		base[i] = rng.Float32()*10 - 5
	}

	benchSampler := func(name string, temperature, topP float32) {
		s := sampler.New(vocabSize, temperature, topP, sampler.WithRand(rng))
		logits := make([]float32, vocabSize)

		start := time.Now()
		for i := 0; i < iterations; i++ {
			copy(logits, base)
			if _, err := s.Sample(logits); err != nil {
				log.Fatalf("%s: sample failed: %v", name, err)
			}
		}
		elapsed := time.Since(start)
		fmt.Printf("  %-12s %8.0f samples/s (%.1fus per token)\n",
			name, float64(iterations)/elapsed.Seconds(),
			float64(elapsed.Microseconds())/float64(iterations))
	}

	fmt.Println("Sampler throughput:")
	benchSampler("greedy", 0, 0)
	benchSampler("multinomial", 0.8, 0)
	benchSampler("nucleus", 0.8, 0.9)
	fmt.Println()

	// synthetic container: a metadata block and a llama-sized tensor table
	kv := map[string]gguf.Value{
		gguf.KeyGeneralArchitecture: gguf.StringValue("llama"),
		gguf.KeyGeneralName:         gguf.StringValue("bench"),
		"llama.context_length":      gguf.Uint32Value(4096),
		"llama.block_count":         gguf.Uint32Value(32),
	}
	tensors := make([]gguf.TensorDescriptor, 0, 32*9)
	var offset uint64
	for i := 0; i < 32; i++ {
		for _, suffix := range []string{
			"attn_q.weight", "attn_k.weight", "attn_v.weight", "attn_output.weight",
			"ffn_gate.weight", "ffn_down.weight", "ffn_up.weight",
			"attn_norm.weight", "ffn_norm.weight",
		} {
			tensors = append(tensors, gguf.TensorDescriptor{
				Name:   fmt.Sprintf("blk.%d.%s", i, suffix),
				Dims:   []uint64{4096, 4096},
				Type:   0,
				Offset: offset,
			})
			offset += 4096 * 4096 * 4
		}
	}

	var buf bytes.Buffer
	if err := gguf.Encode(&buf, kv, tensors); err != nil {
		log.Fatalf("encode failed: %v", err)
	}
	raw := buf.Bytes()

	decodeIters := 1000
	start := time.Now()
	for i := 0; i < decodeIters; i++ {
		if _, err := gguf.Decode(bytes.NewReader(raw)); err != nil {
			log.Fatalf("decode failed: %v", err)
		}
	}
	elapsed := time.Since(start)

	fmt.Println("Decoder throughput:")
	fmt.Printf("  %d-tensor header (%d bytes): %8.0f decodes/s\n",
		len(tensors), len(raw), float64(decodeIters)/elapsed.Seconds())
}
