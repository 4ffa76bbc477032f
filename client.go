package cookiekit

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/dgrr/http2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
)

var (
	MethodGet     = fasthttp.MethodGet
	MethodHead    = fasthttp.MethodHead
	MethodPost    = fasthttp.MethodPost
	MethodPut     = fasthttp.MethodPut
	MethodPatch   = fasthttp.MethodPatch
	MethodDelete  = fasthttp.MethodDelete
	MethodConnect = fasthttp.MethodConnect
	MethodOptions = fasthttp.MethodOptions
	MethodTrace   = fasthttp.MethodTrace
)

const defaultTimeout = 60 * time.Second

// Client is a chainable HTTP client that carries cookie jar state into
// outgoing requests and exposes received Set-Cookie state on the
// exchange it returns.
type Client struct {
	c       *fasthttp.Client
	h2c     *fasthttp.HostClient // http2
	usedH2  bool
	req     *fasthttp.Request
	resp    *fasthttp.Response
	uri     *fasthttp.URI
	qs      map[string][]string
	jar     *Jar
	method  string
	timeout time.Duration
}

func New(method string) *Client {
	cl := &Client{}
	cl.c = &fasthttp.Client{}
	cl.uri = fasthttp.AcquireURI()
	cl.req = fasthttp.AcquireRequest()
	cl.resp = fasthttp.AcquireResponse()
	cl.method = method
	cl.qs = make(map[string][]string)
	return cl
}

// NewH2 builds an HTTP/2 client.
// host must include the port and only 443 (https) is supported.
func NewH2(method, host string) *Client {
	cl := &Client{}
	cl.h2c = &fasthttp.HostClient{
		Addr: host,
	}
	if err := http2.ConfigureClient(cl.h2c, http2.ClientOpts{}); err != nil {
		panic(errors.Wrap(err, "http2 configuration failed"))
	}
	cl.usedH2 = true
	cl.uri = fasthttp.AcquireURI()
	cl.req = fasthttp.AcquireRequest()
	cl.resp = fasthttp.AcquireResponse()
	cl.method = method
	cl.qs = make(map[string][]string)
	return cl
}

func (cl *Client) Url(rawUrl string) *Client {
	if err := cl.uri.Parse(nil, []byte(rawUrl)); err != nil {
		log.Warn().Err(err).Str("url", rawUrl).Msg("cookiekit: invalid raw url")
	}
	return cl
}

func (cl *Client) Scheme(scheme string) *Client {
	cl.uri.SetScheme(scheme)
	return cl
}

func (cl *Client) Header(k, v string) *Client {
	cl.req.Header.Add(k, v)
	return cl
}

// Cookie sets a single request cookie.
func (cl *Client) Cookie(k, v string) *Client {
	cl.req.Header.SetCookie(k, v)
	return cl
}

// CookieHeader parses a raw "a=1; b=2" Cookie header and sets each pair
// on the request.
func (cl *Client) CookieHeader(kvs string) *Client {
	for _, c := range readCookies(kvs) {
		cl.req.Header.SetCookie(c.Name, c.Value)
	}
	return cl
}

// WithJar attaches a Jar whose entries are written into the outgoing
// Cookie header at send time. Fragment attributes are dropped; only the
// name and serialized value travel on a request.
func (cl *Client) WithJar(jar *Jar) *Client {
	cl.jar = jar
	return cl
}

func (cl *Client) applyJar() {
	if cl.jar == nil {
		return
	}
	for name, fragment := range cl.jar.Entries() {
		pair, _, _ := strings.Cut(fragment, ";")
		if _, value, ok := strings.Cut(pair, "="); ok {
			cl.req.Header.SetCookie(name, textproto.TrimString(value))
		}
	}
}

func (cl *Client) Param(k, v string) *Client {
	cl.qs[k] = append(cl.qs[k], v)
	return cl
}

func (cl *Client) buildQueryString() string {
	var buf bytes.Buffer
	buf.Write(cl.uri.QueryString())
	for k, vs := range cl.qs {
		for _, v := range vs {
			if buf.Len() > 0 {
				buf.WriteByte('&')
			}
			buf.WriteString(url.QueryEscape(k))
			buf.WriteByte('=')
			buf.WriteString(url.QueryEscape(v))
		}
	}
	return buf.String()
}

func (cl *Client) Body(body any) *Client {
	switch t := body.(type) {
	case string:
		cl.req.SetBodyString(t)
		cl.req.Header.SetContentLength(len(t))
	case []byte:
		cl.req.SetBody(t)
		cl.req.Header.SetContentLength(len(t))
	default:
		log.Warn().Type("body", body).Msg("cookiekit: unsupported body data type")
	}
	return cl
}

func (cl *Client) JsonBody(body any) (*Client, error) {
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return cl, errors.Wrap(err, "obj could not be converted to JSON body")
		}
		cl.req.SetBody(b)
		cl.req.Header.SetContentLength(len(b))
		cl.req.Header.SetContentType("application/json")
	}
	return cl, nil
}

func (cl *Client) ContentType(ct string) *Client {
	cl.req.Header.SetContentType(ct)
	return cl
}

func (cl *Client) SetTimeout(dur time.Duration) *Client {
	cl.timeout = dur
	return cl
}

func (cl *Client) do() error {
	cl.uri.SetQueryString(cl.buildQueryString())
	cl.req.SetURI(cl.uri)
	cl.req.Header.SetMethod(cl.method)
	cl.applyJar()
	if cl.timeout <= 0 {
		cl.timeout = defaultTimeout
	}
	log.Debug().
		Str("method", cl.method).
		Str("uri", cl.uri.String()).
		Bool("h2", cl.usedH2).
		Msg("cookiekit: sending request")
	if cl.usedH2 {
		return cl.h2c.DoTimeout(cl.req, cl.resp, cl.timeout)
	}
	return cl.c.DoTimeout(cl.req, cl.resp, cl.timeout)
}

// Do performs the request and returns the completed exchange. The
// client's request and response buffers are released; the exchange owns
// detached copies.
func (cl *Client) Do() (*Exchange, error) {
	if err := cl.do(); err != nil {
		return nil, err
	}
	defer func() {
		fasthttp.ReleaseResponse(cl.resp)
		fasthttp.ReleaseRequest(cl.req)
	}()
	ex := &Exchange{}
	cl.resp.CopyTo(&ex.resp)
	cl.req.Header.CopyTo(&ex.reqHeader)
	ex.cookies = BindFastHTTP(&ex.reqHeader, &ex.resp.Header)
	return ex, nil
}

func (cl *Client) String() (string, error) {
	ex, err := cl.Do()
	if err != nil {
		return "", err
	}
	return string(ex.Body()), nil
}

func (cl *Client) Bytes() ([]byte, error) {
	ex, err := cl.Do()
	if err != nil {
		return nil, err
	}
	return ex.Body(), nil
}

// Exchange is a completed request/response pair with its cookie state
// bound for inspection and further mutation.
type Exchange struct {
	reqHeader fasthttp.RequestHeader
	resp      fasthttp.Response
	cookies   *ResponseCookies
}

func (e *Exchange) Response() *fasthttp.Response { return &e.resp }

func (e *Exchange) StatusCode() int { return e.resp.StatusCode() }

func (e *Exchange) Body() []byte { return e.resp.Body() }

// Cookies returns the exchange's cookie state: a jar seeded from the
// Cookie header that was sent, synced against the response's Set-Cookie
// header.
func (e *Exchange) Cookies() *ResponseCookies { return e.cookies }

// ReceivedCookies parses every Set-Cookie fragment the server sent.
func (e *Exchange) ReceivedCookies() []*http.Cookie {
	var out []*http.Cookie
	e.resp.Header.VisitAllCookie(func(_, value []byte) {
		out = append(out, parseFragment(string(value)))
	})
	return out
}

// Get Sample Get
func Get(url string) *Client {
	return New(MethodGet).Url(url)
}

// Post Sample Post
func Post(url string) *Client {
	return New(MethodPost).Url(url)
}

// GetH2 Sample Http2 Get
// host must include the port and only 443 (https) is supported.
func GetH2(url, host string) *Client {
	return NewH2(MethodGet, host).Url(url)
}

// PostH2 Sample Http2 Post
// host must include the port and only 443 (https) is supported.
func PostH2(url, host string) *Client {
	return NewH2(MethodPost, host).Url(url)
}
