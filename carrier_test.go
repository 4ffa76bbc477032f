package cookiekit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func TestBindHTTP(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Cookie", "sid=abc")
	w := httptest.NewRecorder()

	rc := BindHTTP(w, r)

	v, ok := rc.Get("sid")
	require.True(t, ok)
	assert.Equal(t, "abc", v)

	rc.Set("sid", "def", nil)
	require.Len(t, w.Header().Values("Set-Cookie"), 1)

	rc.Set("theme", "dark", nil)
	assert.Len(t, w.Header().Values("Set-Cookie"), 2)

	rc.Set("sid", "ghi", nil)
	frags := splitSetCookies(rc.headers.Get("set-cookie"))
	require.Len(t, frags, 2)
	assert.Equal(t, "ghi", parseFragment(frags[0]).Value)
}

func TestBindHTTPNilRequest(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	rc := BindHTTP(w, nil)
	assert.Empty(t, rc.GetAll())

	rc.Set("sid", "abc", nil)
	assert.Len(t, w.Header().Values("Set-Cookie"), 1)
}

func TestBindFastHTTP(t *testing.T) {
	t.Parallel()

	var req fasthttp.RequestHeader
	req.SetCookie("sid", "abc")
	var resp fasthttp.ResponseHeader

	rc := BindFastHTTP(&req, &resp)

	v, ok := rc.Get("sid")
	require.True(t, ok)
	assert.Equal(t, "abc", v)

	rc.Set("sid", "def", nil)
	assert.Equal(t, 1, countResponseCookies(&resp))

	rc.Set("theme", "dark", nil)
	assert.Equal(t, 2, countResponseCookies(&resp))

	// still exactly one fragment per name after a collision
	rc.Set("sid", "ghi", nil)
	assert.Equal(t, 2, countResponseCookies(&resp))

	frags := splitSetCookies(rc.headers.Get(headerSetCookie))
	require.Len(t, frags, 2)
	assert.Equal(t, "ghi", parseFragment(frags[0]).Value)
}

func TestBindFastHTTPDelete(t *testing.T) {
	t.Parallel()

	var req fasthttp.RequestHeader
	req.SetCookie("sid", "abc")
	var resp fasthttp.ResponseHeader

	rc := BindFastHTTP(&req, &resp)
	require.True(t, rc.Delete("sid", nil))

	frags := splitSetCookies(rc.headers.Get(headerSetCookie))
	require.Len(t, frags, 1)
	marker := parseFragment(frags[0])
	assert.Equal(t, "sid", marker.Name)
	assert.Equal(t, "", marker.Value)
	assert.EqualValues(t, 0, marker.Expires.Unix())
}

func TestBindFastHTTPNilRequest(t *testing.T) {
	t.Parallel()

	var resp fasthttp.ResponseHeader
	rc := BindFastHTTP(nil, &resp)
	assert.Empty(t, rc.GetAll())

	rc.Set("sid", "abc", nil)
	assert.Equal(t, 1, countResponseCookies(&resp))
}

func countResponseCookies(h *fasthttp.ResponseHeader) int {
	var n int
	h.VisitAllCookie(func(_, _ []byte) { n++ })
	return n
}
