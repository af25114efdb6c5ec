package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCause(t *testing.T) {
	cause := stderrors.New("cleanup failed")
	err := Wrap(cause)

	assert.True(t, Is(err, cause))
	assert.Equal(t, "cleanup failed", err.Error())
	assert.Contains(t, ErrorStack(err), "errors_test.go")
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil))
	assert.Equal(t, "", ErrorStack(nil))
}

func TestWrapDoesNotDoubleWrap(t *testing.T) {
	err := New("once")
	assert.Same(t, err, Wrap(err))
}

func TestErrorStackPlainError(t *testing.T) {
	assert.Equal(t, "plain", ErrorStack(stderrors.New("plain")))
}
