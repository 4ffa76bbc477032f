package cookiekit

import (
	"net/http"

	"github.com/pkg/errors"
)

// ResponseCookies binds a Jar to a live header carrier. Every mutation
// updates the jar and re-derives the carrier's Set-Cookie header in one
// step, so no inconsistent intermediate state is observable. Fragments
// for names never touched through this jar are preserved verbatim.
//
// The carrier outlives the wrapper and may already hold Set-Cookie
// values written by unrelated code; those survive unrelated mutations.
type ResponseCookies struct {
	headers HeaderCarrier
	jar     *Jar
}

// NewResponseCookies seeds a jar from the carrier's Cookie header
// (never from Set-Cookie) and binds it to the carrier.
func NewResponseCookies(h HeaderCarrier) *ResponseCookies {
	return &ResponseCookies{headers: h, jar: NewJar(h.Get(headerCookie))}
}

// Get returns the decoded value for name.
func (rc *ResponseCookies) Get(name string) (string, bool) {
	c, ok := rc.GetWithOptions(name)
	if !ok {
		return "", false
	}
	return c.Value, true
}

// GetWithOptions re-parses the stored fragment for name into a
// structured record. The deliberate serialize-then-reparse round trip
// guarantees the observable value and attributes match exactly what
// goes on the wire, including serializer normalization such as the
// default path.
func (rc *ResponseCookies) GetWithOptions(name string) (*http.Cookie, bool) {
	fragment, ok := rc.jar.Get(name)
	if !ok {
		return nil, false
	}
	return parseFragment(fragment), true
}

// GetAll returns a record for every cookie in the jar, in jar order.
func (rc *ResponseCookies) GetAll() []*http.Cookie {
	all := make([]*http.Cookie, 0, rc.jar.Len())
	for _, fragment := range rc.jar.Entries() {
		all = append(all, parseFragment(fragment))
	}
	return all
}

// Set stores name=value with opts in the jar and splices the fresh
// fragment into the outgoing Set-Cookie header. When a stale fragment
// for name exists (jar-owned or externally set) the header is rewritten
// without it; otherwise the fragment is appended as an additional
// occurrence, preserving the header's native multi-value shape. Returns
// the wrapper for chaining.
func (rc *ResponseCookies) Set(name string, value any, opts *Options) *ResponseCookies {
	known := rc.jar.Has(name)
	rc.jar.Set(name, value, opts)
	fragment, ok := rc.jar.Get(name)
	if !ok {
		// Set is total, so a missing fragment right after it means the
		// jar broke its own contract.
		panic(errors.Errorf("cookiekit: fragment for %q missing after set", name))
	}

	existing := splitSetCookies(rc.headers.Get(headerSetCookie))
	others := stripFragments(existing, name)
	if known || len(others) != len(existing) {
		rc.headers.Set(headerSetCookie, joinFragments(append([]string{fragment}, others...)))
	} else {
		rc.headers.Append(headerSetCookie, fragment)
	}
	return rc
}

// Delete removes name from the jar, strips its header fragment, and
// writes an expiry marker instructing the client to drop the cookie.
// Reports whether a removal occurred; when name is absent the header is
// left untouched.
func (rc *ResponseCookies) Delete(name string, opts *Options) bool {
	if !rc.jar.Delete(name) {
		return false
	}
	others := stripFragments(splitSetCookies(rc.headers.Get(headerSetCookie)), name)
	marker := expireFragment(name, opts)
	rc.headers.Set(headerSetCookie, joinFragments(append([]string{marker}, others...)))
	return true
}

// Clear writes an expiry marker for every cookie in the jar as the
// complete outgoing header, then empties the jar. Clearing is an
// unconditional reset of every locally-tracked cookie; externally-set
// fragments are not merged back. An already-empty jar writes nothing.
func (rc *ResponseCookies) Clear(opts *Options) {
	names := rc.jar.Keys()
	if len(names) > 0 {
		markers := make([]string, len(names))
		for i, name := range names {
			markers[i] = expireFragment(name, opts)
		}
		rc.headers.Set(headerSetCookie, joinFragments(markers))
	}
	rc.jar.Clear()
}

// expireFragment builds the expiry marker for name: empty value,
// epoch-start expiration, caller options merged on top.
func expireFragment(name string, opts *Options) string {
	var o Options
	if opts != nil {
		o = *opts
	}
	if o.Expires.IsZero() {
		o.Expires = CookieExpireDelete
	}
	return serializeFragment(name, "", &o)
}
