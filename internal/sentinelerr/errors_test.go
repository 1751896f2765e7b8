package sentinelerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	err := InvalidInput("bad field")
	code, ok := CodeOf(err)
	assert.True(t, ok)
	assert.Equal(t, CodeInvalidInput, code)
}

func TestCodeOf_PlainErrorWithCopiedMessage(t *testing.T) {
	inner := RateLimited()
	wrapped := errors.New("context: " + inner.Error())
	_, ok := CodeOf(wrapped)
	assert.False(t, ok, "a plain errors.New should not resolve to a Code")
}

func TestInternal_UnwrapsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Internal(cause)
	assert.ErrorIs(t, err, cause)
}

func TestError_Is(t *testing.T) {
	a := NotInitialized()
	b := NotInitialized()
	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, RateLimited()))
}
