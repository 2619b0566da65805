package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/saurabhbakolia/disaster-response-platform/internal/errors"
)

func TestParseClassification(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantDisaster bool
		wantAnalysis string
	}{
		{
			name:         "fenced json block",
			raw:          "```json\n{\"is_disaster\": true, \"analysis\": \"Visible structure fire.\"}\n```",
			wantDisaster: true,
			wantAnalysis: "Visible structure fire.",
		},
		{
			name:         "fenced block without language tag",
			raw:          "```\n{\"is_disaster\": false, \"analysis\": \"Stock photo of a sunset.\"}\n```",
			wantDisaster: false,
			wantAnalysis: "Stock photo of a sunset.",
		},
		{
			name:         "bare json object",
			raw:          `{"is_disaster": true, "analysis": "Flood waters on a residential street."}`,
			wantDisaster: true,
			wantAnalysis: "Flood waters on a residential street.",
		},
		{
			name:         "json wrapped in prose",
			raw:          "Sure! Here is my assessment:\n{\"is_disaster\": false, \"analysis\": \"No disaster visible.\"}\nLet me know if you need more.",
			wantDisaster: false,
			wantAnalysis: "No disaster visible.",
		},
		{
			name:         "fenced block surrounded by commentary",
			raw:          "Here you go:\n```json\n{\"is_disaster\": true, \"analysis\": \"Smoke plume over buildings.\"}\n```\nHope that helps.",
			wantDisaster: true,
			wantAnalysis: "Smoke plume over buildings.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseClassification(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDisaster, result.IsDisaster)
			assert.Equal(t, tt.wantAnalysis, result.Analysis)
		})
	}
}

func TestParseClassification_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"plain prose", "I cannot tell whether this is a disaster."},
		{"empty reply", ""},
		{"broken json", "```json\n{\"is_disaster\": tr\n```"},
		{"missing indicator", `{"analysis": "interesting photo"}`},
		{"indicator wrong type", `{"is_disaster": "yes", "analysis": "hmm"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseClassification(tt.raw)
			require.Error(t, err)

			structured, ok := apperrors.AsError(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.TypeMalformed, structured.Type)
		})
	}
}
