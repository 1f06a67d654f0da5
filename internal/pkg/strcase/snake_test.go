package strcase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToLowerSnake(t *testing.T) {
	tests := map[string]string{
		"":           "",
		"Identifier": "identifier",
		"DeviceInfo": "device_info",
		"UserID":     "user_id",
		"HTTPServer": "http_server",
		"Code2FA":    "code2_fa",
	}

	for in, want := range tests {
		assert.Equal(t, want, ToLowerSnake(in), in)
	}
}

func TestToLowerWords(t *testing.T) {
	assert.Equal(t, "device info", ToLowerWords("DeviceInfo"))
	assert.Equal(t, "identifier", ToLowerWords("Identifier"))
	assert.Empty(t, ToLowerWords(""))
}
