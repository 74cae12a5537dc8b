package model

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewContactSubmission_Valid(t *testing.T) {
	sub, err := NewContactSubmission("Ada", "ada@example.com", "Hi\nthere")
	require.NoError(t, err)
	require.Equal(t, "Ada", sub.Name)
	require.Equal(t, "ada@example.com", sub.Email)
	require.Equal(t, "Hi\nthere", sub.Message)
}

func TestNewContactSubmission_Boundaries(t *testing.T) {
	_, err := NewContactSubmission(strings.Repeat("n", MaxNameLength), "a@b.co", strings.Repeat("m", MaxMessageLength))
	require.NoError(t, err)

	// Limits count characters, not bytes.
	_, err = NewContactSubmission(strings.Repeat("é", MaxNameLength), "a@b.co", strings.Repeat("ü", MaxMessageLength))
	require.NoError(t, err)
}

func TestNewContactSubmission_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		in    [3]string
		field string
	}{
		{"empty name", [3]string{"", "a@b.co", "hi"}, "name"},
		{"long name", [3]string{strings.Repeat("n", MaxNameLength+1), "a@b.co", "hi"}, "name"},
		{"empty email", [3]string{"Ada", "", "hi"}, "email"},
		{"no at sign", [3]string{"Ada", "ada.example.com", "hi"}, "email"},
		{"no domain dot", [3]string{"Ada", "ada@localhost", "hi"}, "email"},
		{"display name", [3]string{"Ada", "Ada <ada@example.com>", "hi"}, "email"},
		{"trailing dot", [3]string{"Ada", "ada@example.", "hi"}, "email"},
		{"domain literal", [3]string{"Ada", "ada@[127.0.0.1]", "hi"}, "email"},
		{"empty message", [3]string{"Ada", "a@b.co", ""}, "message"},
		{"long message", [3]string{"Ada", "a@b.co", strings.Repeat("m", MaxMessageLength+1)}, "message"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewContactSubmission(tt.in[0], tt.in[1], tt.in[2])
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			require.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "abc", Truncate("abc", 5))
	require.Equal(t, "ab", Truncate("abc", 2))
	require.Equal(t, "⚠️", Truncate("⚠️xyz", 2))
}
