package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseErrorWrapping(t *testing.T) {
	inner := fmt.Errorf("unexpected token")
	err := &ParseError{File: "button.tsx", Err: inner}

	assert.Contains(t, err.Error(), "button.tsx")
	assert.ErrorIs(t, err, inner)
}

func TestVerificationErrorMessage(t *testing.T) {
	err := &VerificationError{
		Mismatched: []string{"a.tsx"},
		Missing:    []string{"b.tsx", "c.tsx"},
		Extra:      []string{"d.tsx"},
	}

	msg := err.Error()
	assert.Contains(t, msg, "1 mismatched (a.tsx)")
	assert.Contains(t, msg, "2 missing (b.tsx, c.tsx)")
	assert.Contains(t, msg, "1 unexpected (d.tsx)")
}

func TestIsNotFound(t *testing.T) {
	notFound := &IOError{Op: "read", Path: "x.tsx", NotFound: true, Err: fmt.Errorf("no such file")}
	other := &IOError{Op: "read", Path: "x.tsx", Err: fmt.Errorf("permission denied")}

	assert.True(t, IsNotFound(notFound))
	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", notFound)))
	assert.False(t, IsNotFound(other))
	assert.False(t, IsNotFound(fmt.Errorf("plain")))
}

func TestIsVerification(t *testing.T) {
	verr := &VerificationError{Missing: []string{"a.tsx"}}

	assert.True(t, IsVerification(verr))
	assert.True(t, IsVerification(fmt.Errorf("gate: %w", verr)))
	assert.False(t, IsVerification(fmt.Errorf("other")))
}

func TestErrorCollector(t *testing.T) {
	c := NewErrorCollector()
	assert.False(t, c.HasErrors())
	assert.NoError(t, c.Err())

	c.Add(nil)
	assert.False(t, c.HasErrors(), "nil is ignored")

	first := fmt.Errorf("first")
	second := fmt.Errorf("second")
	c.Add(first)
	c.Add(second)

	assert.True(t, c.HasErrors())
	require.Len(t, c.Errors(), 2)
	joined := c.Err()
	assert.ErrorIs(t, joined, first)
	assert.ErrorIs(t, joined, second)
}
