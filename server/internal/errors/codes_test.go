package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPipelineError(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := LLMUnavailable("model call failed", cause)

	require.Equal(t, "[LLM_UNAVAILABLE] model call failed: connection refused", err.Error())
	require.ErrorIs(t, err, cause)
	require.True(t, IsCode(err, ErrCodeLLMUnavailable))
	require.False(t, IsCode(err, ErrCodeTimeout))
	require.False(t, IsCode(cause, ErrCodeLLMUnavailable))
}

func TestCodeOf(t *testing.T) {
	require.Equal(t, ErrCodeNotReady, CodeOf(NotReady("not yet"), ErrCodeTimeout))
	require.Equal(t, ErrCodeTimeout, CodeOf(stderrors.New("plain"), ErrCodeTimeout))
}

func TestWithContext(t *testing.T) {
	err := InvalidArgument("bad input").WithContext("field", "message")
	require.Equal(t, "message", err.Context["field"])
}
