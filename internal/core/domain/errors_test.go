package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("connection refused")

	assert.Nil(t, KindOf(nil))
	assert.Nil(t, KindOf(cause))
	assert.Equal(t, ErrNotFound, KindOf(WrapError(ErrNotFound, "get notice", cause)))
	assert.Equal(t, ErrUpstream, KindOf(fmt.Errorf("assess: %w", WrapError(ErrUpstream, "engine", cause))))

	outage := WrapError(ErrTemporary, "engine", WrapError(ErrUpstream, "openai chat", cause))
	assert.Equal(t, ErrTemporary, KindOf(outage), "temporary outranks upstream")

	rejected := WrapError(ErrInvalidInput, "validate notice", WrapError(ErrTemporary, "x", cause))
	assert.Equal(t, ErrInvalidInput, KindOf(rejected))
}

func TestWrapErrorKeepsCause(t *testing.T) {
	cause := errors.New("no text layer")
	err := WrapError(ErrMalformedDocument, "parse pdf", cause)

	assert.True(t, IsKind(err, ErrMalformedDocument))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "parse pdf: malformed document: no text layer", err.Error())
	assert.NoError(t, WrapError(ErrUpstream, "noop", nil))
}
