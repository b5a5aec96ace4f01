// Package sampler selects one token index from a logits vector. It supports
// greedy decoding (temperature 0), multinomial sampling over the full
// softmax distribution, and nucleus (top-p) sampling over a truncated one.
package sampler

import (
	"errors"
	"math"
	"math/rand"
	"sort"
)

// ErrNoLogits is returned when Sample is called with an empty or
// wrong-length logits vector.
var ErrNoLogits = errors.New("sampler: logits length does not match vocabulary size")

// probIndex pairs a probability with the token index it came from, so the
// nucleus candidate subset can be sorted without losing identities.
type probIndex struct {
	prob  float32
	index int
}

// Sampler draws token indices from logits vectors of a fixed vocabulary
// size. It owns a scratch buffer sized to the vocabulary, reused across
// calls; a Sampler must not be used from multiple goroutines at once.
type Sampler struct {
	probBuf     []probIndex
	vocabSize   int
	temperature float32
	topP        float32
	coin        func() float32
}

// Option is a functional option for Sampler
type Option func(*Sampler)

// WithRand sets the entropy source used to flip the sampling coin. The
// default is the shared math/rand source.
func WithRand(r *rand.Rand) Option {
	return func(s *Sampler) {
		s.coin = r.Float32
	}
}

// New creates a Sampler for the given vocabulary size. Temperature 0 selects
// greedy decoding; with a positive temperature, topP in (0, 1) enables
// nucleus sampling and any other topP samples the full distribution.
func New(vocabSize int, temperature, topP float32, opts ...Option) *Sampler {
	s := &Sampler{
		probBuf:     make([]probIndex, vocabSize),
		vocabSize:   vocabSize,
		temperature: temperature,
		topP:        topP,
		coin:        rand.Float32,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.temperature < 0 {
		panic("sampler: negative temperature")
	}
	return s
}

// Sample returns the index of the chosen token. logits must have exactly the
// configured vocabulary length. With a positive temperature the vector is
// scaled and softmaxed in place, so after the call it holds the probability
// distribution that was sampled from, not the original logits.
func (s *Sampler) Sample(logits []float32) (int, error) {
	if len(logits) == 0 || len(logits) != s.vocabSize {
		return 0, ErrNoLogits
	}

	if s.temperature == 0 {
		return argmax(logits), nil
	}

	// lower temperature sharpens the distribution, higher flattens it
	for i := range logits {
		logits[i] /= s.temperature
	}
	softmax(logits)

	coin := s.coin()

	// The original reference computed the multinomial result and then fell
	// through to nucleus sampling unconditionally, discarding it. Here the
	// branches are mutually exclusive: a disabled top-p (outside (0,1))
	// means plain multinomial sampling.
	if s.topP <= 0 || s.topP >= 1 {
		return multinomial(logits, coin), nil
	}
	return topP(logits, s.topP, s.probBuf, coin), nil
}

// argmax returns the index of the maximum value. Ties go to the last index
// that attains the maximum, which keeps greedy decoding reproducible.
func argmax(logits []float32) int {
	best := 0
	for i, v := range logits {
		if v >= logits[best] {
			best = i
		}
	}
	return best
}

// softmax turns the vector into a probability distribution in place. The
// exponentials are shifted by the maximum, which changes nothing
// mathematically but keeps exp from overflowing on large logits.
func softmax(x []float32) {
	maxVal := x[0]
	for _, v := range x[1:] {
		if v > maxVal {
			maxVal = v
		}
	}

	var sum float32
	for i, v := range x {
		x[i] = float32(math.Exp(float64(v - maxVal)))
		sum += x[i]
	}
	for i := range x {
		x[i] /= sum
	}
}

// multinomial samples an index from a probability distribution summing to 1,
// with coin in [0, 1). If accumulated rounding error keeps the cumulative
// sum from ever exceeding coin, the last index is returned.
func multinomial(probs []float32, coin float32) int {
	var cdf float32
	for i, p := range probs {
		cdf += p
		if cdf > coin {
			return i
		}
	}
	return len(probs) - 1
}

// topP performs nucleus sampling: only tokens that together make up the
// top-p probability mass are candidates, so very unlikely tokens are never
// chosen. probBuf is the caller-owned scratch buffer, len(probs) large.
//
// Candidates at or above the cutoff (1-p)/(n-1) are collected in encounter
// order and sorted ascending by probability; the sort is unstable, so the
// order of exact-probability ties between candidates is unspecified. The
// sorted list is truncated where its cumulative mass first exceeds p (or
// not at all, if rounding keeps it below), and the coin is rescaled into
// the truncated mass before the final walk.
func topP(probs []float32, p float32, probBuf []probIndex, coin float32) int {
	cutoff := (1 - p) / float32(len(probs)-1)
	n0 := 0
	for i, prob := range probs {
		if prob >= cutoff {
			probBuf[n0] = probIndex{prob: prob, index: i}
			n0++
		}
	}
	if n0 == 0 {
		// a one-token vocabulary makes the cutoff +Inf; nothing qualifies,
		// so sample the distribution directly
		return multinomial(probs, coin)
	}

	candidates := probBuf[:n0]
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].prob < candidates[j].prob
	})

	// truncate where cumulative probability exceeds p; on rounding error
	// keep the whole subset
	var cumulative float32
	lastIdx := n0 - 1
	for i, c := range candidates {
		cumulative += c.prob
		if cumulative > p {
			lastIdx = i
			break
		}
	}

	// sample proportionally within the truncated mass
	r := coin * cumulative
	var cdf float32
	for _, c := range candidates[:lastIdx+1] {
		cdf += c.prob
		if cdf > r {
			return c.index
		}
	}
	return candidates[lastIdx].index
}
