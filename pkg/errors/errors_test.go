package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppErrorFormatting(t *testing.T) {
	var nilErr *AppError
	require.Equal(t, "", nilErr.Error())

	plain := NewAppError(NotFoundErrorCode, NotFound, nil, false)
	require.Equal(t, "not_found (code: 404)", plain.Error())

	wrapped := NewAppError(InvalidDataCode, BadRequest, ErrInvalidChannelCount, true)
	require.Equal(t, "bad request (code: 400): expected 16 channel values", wrapped.Error())
	require.True(t, errors.Is(wrapped, ErrInvalidChannelCount))
}

func TestSentinelWrapping(t *testing.T) {
	err := fmt.Errorf("parse json: %w", ErrMalformedMessage)
	require.ErrorIs(t, err, ErrMalformedMessage)
	require.NotErrorIs(t, err, ErrStreamClosed)
}
