package localization

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefault_LoadsEmbeddedLocales(t *testing.T) {
	l, err := NewDefault()
	require.NoError(t, err)

	for _, lang := range []string{"en", "de", "fr"} {
		assert.Equal(t, lang, l.Language(lang))
		assert.NotEqual(t, "email.confirmation.subject", l.GetString(lang, "email.confirmation.subject"))
	}
}

func TestGetString_Fallbacks(t *testing.T) {
	fsys := fstest.MapFS{
		"loc/en.json": {Data: []byte(`{"greeting":"Hello","only_en":"English only"}`)},
		"loc/de.json": {Data: []byte(`{"greeting":"Hallo"}`)},
		"loc/README":  {Data: []byte("ignored")},
	}
	l, err := NewLocalizer(fsys, "loc")
	require.NoError(t, err)

	assert.Equal(t, "Hallo", l.GetString("de", "greeting"))
	assert.Equal(t, "English only", l.GetString("de", "only_en"))
	assert.Equal(t, "Hello", l.GetString("pt", "greeting"))
	assert.Equal(t, "missing.key", l.GetString("de", "missing.key"))
}

func TestLanguage(t *testing.T) {
	l, err := NewDefault()
	require.NoError(t, err)

	tests := map[string]string{
		"de-AT": "de",
		"FR":    "fr",
		" en ":  "en",
		"pt_BR": "en",
		"":      "en",
	}
	for in, want := range tests {
		assert.Equal(t, want, l.Language(in), in)
	}
}

func TestFormat(t *testing.T) {
	l, err := NewDefault()
	require.NoError(t, err)

	assert.Equal(t, "Your claim FC-1A2B3C4D has been received", l.Format("en", "email.confirmation.subject", "FC-1A2B3C4D"))
}

func TestNewLocalizer_BadJSON(t *testing.T) {
	fsys := fstest.MapFS{"loc/en.json": {Data: []byte(`{`)}}
	_, err := NewLocalizer(fsys, "loc")
	assert.Error(t, err)
}
