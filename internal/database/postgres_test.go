package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSSLMode(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"explicit require", "postgres://u:p@localhost:5432/db?sslmode=require", "require"},
		{"explicit disable", "postgres://u:p@localhost:5432/db?sslmode=disable", "disable"},
		{"uppercase normalized", "postgres://u:p@localhost:5432/db?sslmode=REQUIRE", "require"},
		{"absent", "postgres://u:p@localhost:5432/db", "prefer (default)"},
		{"unparseable", "://not-a-url", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractSSLMode(tt.url))
		})
	}
}
