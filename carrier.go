package cookiekit

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
)

// httpCarrier adapts a net/http exchange: Cookie reads come from the
// request, everything else goes to the response header.
type httpCarrier struct {
	request  http.Header
	response http.Header
}

// BindHTTP binds a ResponseCookies to a net/http response writer,
// seeding the jar from the request's Cookie header. r may be nil when
// no incoming cookies exist.
func BindHTTP(w http.ResponseWriter, r *http.Request) *ResponseCookies {
	c := httpCarrier{response: w.Header()}
	if r != nil {
		c.request = r.Header
	}
	return NewResponseCookies(c)
}

func (c httpCarrier) Get(name string) string {
	if strings.EqualFold(name, headerCookie) {
		// multiple Cookie headers fold with "; " per the request grammar
		return strings.Join(c.request.Values("Cookie"), "; ")
	}
	return strings.Join(c.response.Values(name), fragmentSeparator)
}

func (c httpCarrier) Set(name, value string) {
	c.response.Set(name, value)
}

func (c httpCarrier) Append(name, value string) {
	c.response.Add(name, value)
}

// fasthttpCarrier adapts a fasthttp request/response header pair.
// Response cookies live in fasthttp's structured cookie store, so
// fragments written through this carrier are re-serialized by fasthttp;
// attribute casing may differ from the input while staying equivalent.
type fasthttpCarrier struct {
	request  *fasthttp.RequestHeader
	response *fasthttp.ResponseHeader
}

// BindFastHTTP binds a ResponseCookies to a fasthttp header pair, for
// example ctx.Request.Header and ctx.Response.Header inside a handler.
// req may be nil when no incoming cookies exist.
func BindFastHTTP(req *fasthttp.RequestHeader, resp *fasthttp.ResponseHeader) *ResponseCookies {
	return NewResponseCookies(fasthttpCarrier{request: req, response: resp})
}

func (c fasthttpCarrier) Get(name string) string {
	switch {
	case strings.EqualFold(name, headerCookie):
		if c.request == nil {
			return ""
		}
		return string(c.request.Peek(fasthttp.HeaderCookie))
	case strings.EqualFold(name, headerSetCookie):
		var fragments []string
		c.response.VisitAllCookie(func(_, value []byte) {
			fragments = append(fragments, string(value))
		})
		return joinFragments(fragments)
	}
	return string(c.response.Peek(name))
}

func (c fasthttpCarrier) Set(name, value string) {
	if strings.EqualFold(name, headerSetCookie) {
		c.response.DelAllCookies()
		for _, fragment := range splitSetCookies(value) {
			c.storeCookie(fragment)
		}
		return
	}
	c.response.Set(name, value)
}

func (c fasthttpCarrier) Append(name, value string) {
	if strings.EqualFold(name, headerSetCookie) {
		c.storeCookie(value)
		return
	}
	c.response.Add(name, value)
}

func (c fasthttpCarrier) storeCookie(fragment string) {
	ck := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(ck)
	if err := ck.Parse(fragment); err != nil {
		log.Warn().Err(err).Msg("cookiekit: dropping unparsable set-cookie fragment")
		return
	}
	c.response.SetCookie(ck)
}
