package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeUnavailable, "user directory unavailable")

	assert.ErrorIs(t, err, cause)
	assert.True(t, HasCode(err, CodeUnavailable))
	assert.Equal(t, "user directory unavailable: connection refused", err.Error())
}

func TestHasCodeThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("add customer: %w", New(CodeConflict, "customer already exists"))

	assert.True(t, HasCode(err, CodeConflict))
	assert.False(t, HasCode(err, CodeNotFound))
	assert.Equal(t, CodeConflict, CodeOf(err))
}

func TestCodeOfUncodedIsInternal(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))

	de, ok := As(New(CodeValidation, "bad file"))
	require.True(t, ok)
	assert.Equal(t, "bad file", de.Message)
}
