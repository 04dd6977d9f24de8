package embedding

import (
	"context"
	"hash/fnv"
	"strings"
)

// FakeProvider is a deterministic, network-free EmbeddingProvider for tests
// and local development. It hashes each lowercase token into a bucket of a
// fixed-dimension bag-of-words vector, so texts sharing vocabulary land
// close under cosine similarity while unrelated texts do not.
type FakeProvider struct {
	Dim int
}

func NewFakeProvider(dim int) *FakeProvider {
	return &FakeProvider{Dim: dim}
}

func (f *FakeProvider) Generate(_ context.Context, text string, _ string) ([]float32, error) {
	vec := make([]float32, f.Dim)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.Trim(token, ".,;:!?\"'()[]")
		if token == "" {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(token))
		vec[int(h.Sum32())%f.Dim]++
	}
	return normalizeVector(vec), nil
}
