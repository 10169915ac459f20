package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		name     string
		bytes    int64
		expected string
	}{
		{"zero", 0, "0 B"},
		{"bytes", 1023, "1023 B"},
		{"one kilobyte", 1024, "1.0 KB"},
		{"hotel receipt", 890000, "869.1 KB"},
		{"conference agenda", 1240000, "1.2 MB"},
		{"one megabyte", 1048576, "1.0 MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatFileSize(tt.bytes))
		})
	}
}
