package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeReportsMistypedField(t *testing.T) {
	data := ResumeData{
		"personal_info": map[string]any{"name": "Jane Doe"},
		"experience":    "ten years of Go",
		"skills":        []any{"Go"},
	}

	rec, err := data.Decode()
	require.Error(t, err)
	assert.Equal(t, Text("Jane Doe"), rec.PersonalInfo.Name)
	assert.Equal(t, StringList{"Go"}, rec.Skills)
	assert.Empty(t, rec.Experience)

	// Record gives the same view and drops the error.
	assert.Equal(t, rec, data.Record())
}

func TestDecodeAcceptsWellTypedRecord(t *testing.T) {
	_, err := ResumeData{"summary": "Backend engineer", "skills": []any{"Go"}}.Decode()
	require.NoError(t, err)

	_, err = ResumeData{}.Decode()
	require.NoError(t, err)
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		data ResumeData
		want string
	}{
		{"missing name", ResumeData{"personal_info": map[string]any{"email": "x@y.io"}}, DefaultName},
		{"no personal info", ResumeData{}, DefaultName},
		{"empty name is kept", ResumeData{"personal_info": map[string]any{"name": ""}}, ""},
		{"given name", ResumeData{"personal_info": map[string]any{"name": "Jane"}}, "Jane"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.data.Record().PersonalInfo.DisplayName())
		})
	}
}
