package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	e1 := New("cause1")
	e2 := New("cause2").Wrap(e1)
	e := New("dummy").Wrap(e2)
	e3 := e.Unwrap()
	assert.True(t, Is(e, e1))
	assert.True(t, Is(e, e2))
	assert.True(t, e3 == e2)
}

func TestWrapKeepsSentinel(t *testing.T) {
	sentinel := New("not found")
	cause := fmt.Errorf("GET /nodes/x: 404")

	wrapped := sentinel.Wrap(cause)
	require.NotSame(t, sentinel, wrapped)
	assert.Nil(t, sentinel.Unwrap(), "the sentinel must not be mutated by Wrap")
	assert.True(t, Is(wrapped, sentinel))
	assert.True(t, Is(wrapped, cause))
	assert.Equal(t, "not found: GET /nodes/x: 404", wrapped.Error())

	rewrapped := wrapped.Wrapf("node %s", "y")
	assert.True(t, Is(rewrapped, sentinel))
	assert.False(t, Is(rewrapped, New("not found")), "sentinels compare by identity, not by message")

	outer := fmt.Errorf("read node: %w", rewrapped)
	var target *Error
	require.True(t, As(outer, &target))
	assert.Equal(t, "not found: node y", target.Error())
}
