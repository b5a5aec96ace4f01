// gguf-inspect dumps the header, metadata, and tensor table of a GGUF file
// without touching tensor payloads.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"

	"nano-gguf-go/gguf"
)

func main() {
	fs := flag.NewFlagSet("gguf-inspect", flag.ExitOnError)
	showTensors := fs.Bool("tensors", false, "Print the tensor table")
	expandArrays := fs.Bool("arrays", false, "Print full array contents instead of summaries")
	showConfig := fs.Bool("config", false, "Print the resolved model configuration")
	maxElems := fs.Int("n", 8, "Max array elements to print without -arrays")
	quiet := fs.Bool("quiet", false, "Disable the progress bar")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: gguf-inspect [options] <model.gguf>\n\n")
		fs.PrintDefaults()
	}
	fs.Parse(os.Args[1:])

	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	path := fs.Arg(0)

	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		log.Fatalf("Failed to stat %s: %v", path, err)
	}

	src := newReader(f, info.Size(), *quiet)
	file, err := gguf.Decode(src)
	if err != nil {
		if gguf.IsDataError(err) {
			log.Fatalf("Malformed file: %v", err)
		}
		log.Fatalf("Read failed: %v", err)
	}

	fmt.Printf("File:        %s (%d bytes)\n", path, info.Size())
	fmt.Printf("Version:     %d\n", file.Version)
	fmt.Printf("Tensors:     %d\n", file.TensorCount)
	fmt.Printf("Metadata:    %d keys\n", len(file.KV))
	fmt.Printf("Alignment:   %d\n", file.Alignment())
	fmt.Printf("Data offset: %d\n", file.DataOffset)
	fmt.Printf("Fingerprint: %016x\n", file.Fingerprint())
	fmt.Println()

	for _, key := range file.Keys() {
		fmt.Printf("  %-48s %s\n", key, formatValue(file.KV[key], *expandArrays, *maxElems))
	}

	if *showConfig {
		printConfig(&file.Header)
	}

	if *showTensors {
		fmt.Println()
		fmt.Printf("  %-40s %-20s %-6s %s\n", "NAME", "DIMS", "TYPE", "OFFSET")
		for _, t := range file.Tensors {
			fmt.Printf("  %-40s %-20s %-6d %d\n", t.Name, formatDims(t.Dims), t.Type, t.Offset)
		}
	}
}

// newReader wraps f with a byte progress bar unless quiet is set
func newReader(f *os.File, size int64, quiet bool) *progressReader {
	var bar *progressbar.ProgressBar
	if !quiet {
		bar = progressbar.NewOptions64(size,
			progressbar.OptionSetDescription("Reading header"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)
	}
	return &progressReader{f: f, bar: bar}
}

type progressReader struct {
	f   *os.File
	bar *progressbar.ProgressBar
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.f.Read(p)
	if r.bar != nil && n > 0 {
		r.bar.Add(n)
	}
	return n, err
}

// formatValue renders a metadata value for display. Large arrays are
// summarized unless expansion was requested.
func formatValue(v gguf.Value, expand bool, maxElems int) string {
	switch v.Type() {
	case gguf.TypeString:
		return fmt.Sprintf("%q", v.String())
	case gguf.TypeBool:
		return fmt.Sprintf("%v", v.Bool())
	case gguf.TypeFloat32, gguf.TypeFloat64:
		return fmt.Sprintf("%g", v.Float())
	case gguf.TypeInt8, gguf.TypeInt16, gguf.TypeInt32, gguf.TypeInt64:
		return fmt.Sprintf("%d", v.Int())
	case gguf.TypeArray:
		n := v.Len()
		if !expand && n > maxElems {
			return fmt.Sprintf("array[%s] (%d elements)", v.Elem(), n)
		}
		elems := make([]string, n)
		for i := 0; i < n; i++ {
			elems[i] = formatValue(v.Index(i), expand, maxElems)
		}
		return fmt.Sprintf("array[%s] [%s]", v.Elem(), strings.Join(elems, ", "))
	}
	return fmt.Sprintf("%d", v.Uint())
}

func formatDims(dims []uint64) string {
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = fmt.Sprintf("%d", d)
	}
	return "[" + strings.Join(parts, " x ") + "]"
}

func printConfig(h *gguf.Header) {
	c, err := h.ModelConfig()
	if err != nil {
		log.Fatalf("Failed to resolve model config: %v", err)
	}

	fmt.Println()
	fmt.Println("Model configuration:")
	fmt.Printf("  Architecture:    %s\n", c.Architecture)
	fmt.Printf("  Name:            %s\n", c.ModelName)
	fmt.Printf("  Context length:  %d\n", c.ContextLength)
	fmt.Printf("  Embedding:       %d\n", c.EmbeddingLength)
	fmt.Printf("  Blocks:          %d\n", c.BlockCount)
	fmt.Printf("  Feed forward:    %d\n", c.FeedForwardLength)
	fmt.Printf("  Heads:           %d (kv %d)\n", c.HeadCount, c.HeadCountKV)
	fmt.Printf("  Rope dims:       %d (base %g, scale %g)\n", c.RopeDimensionCount, c.RopeFreqBase, c.RopeScaleLinear)
	fmt.Printf("  Tokenizer:       %s (vocab %d, bos %d, eos %d)\n", c.TokenizerModel, h.VocabSize(), c.BOSTokenID, c.EOSTokenID)
}
