package commands

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogDomain "github.com/eduvault/eduvault/internal/catalog/domain"
	apperrors "github.com/eduvault/eduvault/internal/errors"
)

func TestParseResourceType(t *testing.T) {
	tests := []struct {
		input    string
		expected catalogDomain.ResourceType
		wantErr  bool
	}{
		{"video", catalogDomain.ResourceTypeVideo, false},
		{"audio", catalogDomain.ResourceTypeAudio, false},
		{"document", catalogDomain.ResourceTypeDocument, false},
		{"spreadsheet", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseResourceType(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseOptionalUUID(t *testing.T) {
	id, err := parseOptionalUUID("", "course-id")
	require.NoError(t, err)
	assert.Nil(t, id)

	want := uuid.Must(uuid.NewV7())
	id, err = parseOptionalUUID(want.String(), "course-id")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, want, *id)

	_, err = parseOptionalUUID("not-a-uuid", "course-id")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestParseRequiredUUID(t *testing.T) {
	_, err := parseRequiredUUID("", "resource-id")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = parseRequiredUUID("not-a-uuid", "resource-id")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	want := uuid.Must(uuid.NewV7())
	got, err := parseRequiredUUID(want.String(), "resource-id")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
