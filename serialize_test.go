package cookiekit

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeFragmentDefaults(t *testing.T) {
	t.Parallel()

	c := parseFragment(serializeFragment("sid", "abc", nil))
	assert.Equal(t, "sid", c.Name)
	assert.Equal(t, "abc", c.Value)
	assert.Equal(t, "/", c.Path)
}

func TestSerializeFragmentAttributes(t *testing.T) {
	t.Parallel()

	c := parseFragment(serializeFragment("sid", "abc", &Options{
		Domain:   "example.com",
		Path:     "/account",
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}))
	assert.Equal(t, "example.com", c.Domain)
	assert.Equal(t, "/account", c.Path)
	assert.True(t, c.Secure)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
}

func TestMaxAgeNormalization(t *testing.T) {
	t.Parallel()

	c := parseFragment(serializeFragment("sid", "abc", &Options{MaxAge: 60}))
	require.Equal(t, 60, c.MaxAge)
	assert.WithinDuration(t, time.Now().Add(60*time.Second), c.Expires, 5*time.Second)
	assert.Equal(t, "/", c.Path)
}

func TestExplicitExpiresWinsOverMaxAge(t *testing.T) {
	t.Parallel()

	at := time.Date(2030, time.June, 1, 12, 0, 0, 0, time.UTC)
	c := parseFragment(serializeFragment("sid", "abc", &Options{MaxAge: 60, Expires: at}))
	assert.True(t, c.Expires.Equal(at))
	assert.Equal(t, 60, c.MaxAge)
}

func TestStructuredValueTag(t *testing.T) {
	t.Parallel()

	c := parseFragment(serializeFragment("prefs", map[string]int{"n": 1}, nil))
	assert.Equal(t, `j:{"n":1}`, c.Value)

	c = parseFragment(serializeFragment("list", []string{"x", "y"}, nil))
	assert.Equal(t, `j:["x","y"]`, c.Value)
}

func TestValueEscaping(t *testing.T) {
	t.Parallel()

	// semicolons and spaces must not leak into the fragment grammar
	raw := serializeFragment("msg", "hello world; ok", nil)
	assert.NotContains(t, raw, "hello world")
	assert.Equal(t, "hello world; ok", parseFragment(raw).Value)
}

func TestEncodeValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", encodeValue(nil))
	assert.Equal(t, "plain", encodeValue("plain"))
	assert.Equal(t, "bytes", encodeValue([]byte("bytes")))
	assert.Equal(t, "42", encodeValue(42))
	assert.Equal(t, "true", encodeValue(true))
	assert.Equal(t, "3.5", encodeValue(3.5))
}

func TestLiteralPlusSurvivesDecode(t *testing.T) {
	t.Parallel()

	// base64-style values seeded from a foreign header were never
	// escaped by this scheme; "+" must not decode to a space
	assert.Equal(t, "UTC+2", parseFragment("tz=UTC+2").Value)
	assert.Equal(t, "abc+def=", parseFragment("sid=abc+def=").Value)

	// our own writes still round-trip
	assert.Equal(t, "UTC+2", parseFragment(serializeFragment("tz", "UTC+2", nil)).Value)
}

func TestSpacesEscapePercentStyle(t *testing.T) {
	t.Parallel()

	raw := serializeFragment("msg", "a b", nil)
	assert.Contains(t, raw, "msg=a%20b")
	assert.Equal(t, "a b", parseFragment(raw).Value)
}

func TestSerializeFragmentInvalidNameStaysTotal(t *testing.T) {
	t.Parallel()

	// names net/http's grammar rejects still produce a usable pair
	assert.Equal(t, "weird name=v", serializeFragment("weird name", "v", nil))
	assert.Equal(t, "weird name=x%20y", serializeFragment("weird name", "x y", nil))
}

func TestParseFragmentLenient(t *testing.T) {
	t.Parallel()

	// a name the strict grammar rejects still yields a usable pair
	c := parseFragment("weird name=v; Path=/")
	assert.Equal(t, "weird name", c.Name)
	assert.Equal(t, "v", c.Value)

	// foreign escaping stays as received when unescape fails
	c = parseFragment("raw=50%")
	assert.Equal(t, "50%", c.Value)
}
