package feed

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numera-market/numera/internal/apperr"
)

func TestExtractUsername(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.instagram.com/numera.vip/", "numera.vip"},
		{"http://instagram.com/numera_vip?hl=en", "numera_vip"},
		{"instagram.com/numera", "numera"},
		{"https://m.instagram.com/numera/", "numera"},
		{"https://instagr.am/numera", "numera"},
		{"https://social.example.com/@lucky.numbers", "lucky.numbers"},
		{"@numera", "numera"},
		{"  numera.vip  ", "numera.vip"},
		{"@numéra", "numra"},
	}
	for _, tt := range tests {
		got, err := ExtractUsername(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestExtractUsernameRejects(t *testing.T) {
	for _, in := range []string{"", "   ", "https://www.instagram.com/p/Cx1/", "two words", "@ü"} {
		_, err := ExtractUsername(in)
		assert.ErrorIs(t, err, apperr.ErrValidation, in)
	}
}

func TestExtractUsernameDetailIsValidUTF8(t *testing.T) {
	long := "two words " + strings.Repeat("ü", 100)
	invalid := "bad \xff\xfe handle"

	for _, in := range []string{long, invalid} {
		_, err := ExtractUsername(in)
		require.ErrorIs(t, err, apperr.ErrValidation)
		msg := apperr.Message(err)
		assert.True(t, utf8.ValidString(msg), "%q", msg)
	}

	_, err := ExtractUsername(long)
	msg := apperr.Message(err)
	assert.True(t, strings.HasSuffix(msg, `..."`), msg)
	assert.Equal(t, 80, utf8.RuneCountInString(msg[strings.Index(msg, `"`)+1:len(msg)-len(`..."`)]))
}
