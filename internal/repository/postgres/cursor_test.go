package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/question-bank-api/internal/pkg/errors"
)

func TestPageCursor_RoundTrip(t *testing.T) {
	updatedAt := time.Date(2024, 11, 5, 12, 30, 45, 123456789, time.UTC)
	id := "q1:s1"

	cursor := encodePageCursor(updatedAt, id)
	require.NotEmpty(t, cursor)

	gotTime, gotID, err := decodePageCursor(cursor)
	require.NoError(t, err)

	assert.True(t, updatedAt.Equal(gotTime))
	assert.Equal(t, id, gotID)
}

func TestPageCursor_IDWithSeparator(t *testing.T) {
	// Составной ID привязки сам содержит ':', а '|' может встретиться
	// в произвольном skill_id — курсор обязан это переживать
	updatedAt := time.Now()
	id := "question|odd:skill"

	gotTime, gotID, err := decodePageCursor(encodePageCursor(updatedAt, id))
	require.NoError(t, err)
	assert.Equal(t, updatedAt.UnixNano(), gotTime.UnixNano())
	assert.Equal(t, id, gotID)
}

func TestPageCursor_DecodeInvalid(t *testing.T) {
	tests := []struct {
		name   string
		cursor string
	}{
		{name: "не base64", cursor: "%%%не-курсор%%%"},
		// "no-separator"
		{name: "нет разделителя", cursor: "bm8tc2VwYXJhdG9y"},
		// "abc|q1:s1"
		{name: "нечисловое время", cursor: "YWJjfHExOnMx"},
		// "1234|"
		{name: "пустой id", cursor: "MTIzNHw"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := decodePageCursor(tt.cursor)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}
