package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsIsMatchesKindSentinel(t *testing.T) {
	err := New(KindEmbedding, "provider returned status %d", 503)

	assert.True(t, errors.Is(err, ErrEmbedding))
	assert.False(t, errors.Is(err, ErrIndex))
	assert.False(t, errors.Is(err, ErrGeneration))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(KindIndex, cause, "search failed")

	assert.True(t, errors.Is(err, ErrIndex))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "search failed")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestKindSurvivesFurtherWrapping(t *testing.T) {
	inner := New(KindDimensionMismatch, "expected 768, got 384")
	outer := fmt.Errorf("ingesting doc.txt: %w", inner)

	assert.True(t, errors.Is(outer, ErrDimensionMismatch))
	assert.Equal(t, KindDimensionMismatch, KindOf(outer))
}

func TestKindOfUnknownErrorIsEmpty(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(fmt.Errorf("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
}
