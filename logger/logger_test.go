package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskSensitiveString(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		prefix int
		suffix int
		want   string
	}{
		{"empty", "", 2, 2, ""},
		{"short string fully masked", "abc", 2, 2, "***"},
		{"long string", "supersecretpassword", 3, 2, "sup...rd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskSensitiveString(tt.input, tt.prefix, tt.suffix))
		})
	}
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "", MaskEmail(""))
	assert.Equal(t, "jo...n@example.com", MaskEmail("johnson@example.com"))
	assert.Equal(t, "**@b.com", MaskEmail("ab@b.com"))
	assert.Equal(t, "no...il", MaskEmail("not-an-email"))
}

func TestGetLoggerReturnsSingleton(t *testing.T) {
	IsTest = true
	first := GetLogger()
	second := GetLogger()
	assert.NotNil(t, first)
	assert.Same(t, first, second)
}
