package cookiekit

import (
	"encoding/json"
	"net/http"
	"net/textproto"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// StructuredValueTag prefixes JSON-encoded cookie values so they
// round-trip distinctly from plain strings.
const StructuredValueTag = "j:"

// CookieExpireDelete is the epoch-start expiration carried by expiry
// markers that instruct a client to remove a cookie.
var CookieExpireDelete = time.Unix(0, 0).UTC()

// Options carries the cookie attributes callers may supply on Set,
// Delete, and Clear. The zero value means "no attribute".
type Options struct {
	Domain   string
	Path     string
	Expires  time.Time
	MaxAge   int
	Secure   bool
	HttpOnly bool
	SameSite http.SameSite
}

// serializeFragment composes one "name=value; Attr=Val; ..." fragment.
// Path defaults to "/". A non-zero MaxAge is additionally normalized
// into an absolute Expires timestamp so both attributes coexist in the
// fragment, with Expires winning for cache-busting. The value is
// URL-escaped so structured payloads survive the cookie-octet grammar.
func serializeFragment(name string, value any, opts *Options) string {
	var o Options
	if opts != nil {
		o = *opts
	}
	if o.Path == "" {
		o.Path = "/"
	}
	if o.MaxAge != 0 && o.Expires.IsZero() {
		o.Expires = time.Now().Add(time.Duration(o.MaxAge) * time.Second)
	}
	c := http.Cookie{
		Name:     name,
		Value:    escapeValue(encodeValue(value)),
		Domain:   o.Domain,
		Path:     o.Path,
		Expires:  o.Expires,
		MaxAge:   o.MaxAge,
		Secure:   o.Secure,
		HttpOnly: o.HttpOnly,
		SameSite: o.SameSite,
	}
	if s := c.String(); s != "" {
		return s
	}
	// net/http rejects names outside the token grammar; emit the bare
	// pair so Set stays total, the same way parseFragment tolerates
	// such names on the read side.
	return c.Name + "=" + c.Value
}

// parseFragment is the inverse of serializeFragment. It never fails:
// fragments the strict grammar rejects degrade to a bare name/value
// pair, and values that are not our escaping stay as received.
func parseFragment(fragment string) *http.Cookie {
	c, err := http.ParseSetCookie(fragment)
	if err != nil {
		pair, _, _ := strings.Cut(fragment, ";")
		name, value, _ := strings.Cut(pair, "=")
		c = &http.Cookie{
			Name:  textproto.TrimString(name),
			Value: textproto.TrimString(value),
		}
	}
	if v, err := url.PathUnescape(c.Value); err == nil {
		c.Value = v
	}
	return c
}

// escapeValue percent-escapes a cookie value. Spaces become %20 rather
// than "+": externally seeded values were never escaped by this scheme,
// so decoding must leave a literal "+" alone, and that only round-trips
// when the writer never produces one.
func escapeValue(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}

// encodeValue stringifies a cookie value. Strings pass through, scalars
// coerce loosely, and structured values are JSON-encoded behind the
// "j:" tag.
func encodeValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	}
	switch reflect.ValueOf(value).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer:
		if raw, err := json.Marshal(value); err == nil {
			return StructuredValueTag + string(raw)
		}
	}
	return cast.ToString(value)
}
