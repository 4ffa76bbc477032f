package cookiekit

import (
	"maps"
	"slices"
	"strings"
)

// HeaderCarrier is the response-like boundary ResponseCookies binds to:
// standard multi-value header semantics where Set replaces every
// occurrence and Append adds another one. Get returns all occurrences
// of a name joined with ", ", or "" when absent.
type HeaderCarrier interface {
	Get(name string) string
	Set(name, value string)
	Append(name, value string)
}

// Headers is a multi-value header collection with lowercase-normalized
// names. It implements HeaderCarrier and is the in-memory stand-in for
// a live request/response object.
type Headers map[string][]string

func NewHeaders() Headers { return make(Headers) }

func (h Headers) Get(name string) string {
	if values := h[normalizeHeaderName(name)]; len(values) > 0 {
		return strings.Join(values, ", ")
	}
	return ""
}

// Values returns every occurrence of name.
func (h Headers) Values(name string) []string {
	return slices.Clone(h[normalizeHeaderName(name)])
}

func (h Headers) Set(name, value string) {
	h[normalizeHeaderName(name)] = []string{normalizeHeaderValue(value)}
}

func (h Headers) Append(name, value string) {
	name = normalizeHeaderName(name)
	h[name] = append(h[name], normalizeHeaderValue(value))
}

func (h Headers) Has(name string) bool {
	_, ok := h[normalizeHeaderName(name)]
	return ok
}

func (h Headers) Del(name string) {
	delete(h, normalizeHeaderName(name))
}

// Keys returns the header names, sorted for deterministic iteration.
func (h Headers) Keys() []string {
	return slices.Sorted(maps.Keys(h))
}

func normalizeHeaderName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// normalizeHeaderValue strips LF(0x0A) CR(0x0D) TAB(0x09) SPACE(0x20)
func normalizeHeaderValue(value string) string {
	return strings.TrimFunc(value, func(r rune) bool {
		switch r {
		case 0x0A, 0x0D, 0x09, 0x20:
			return true
		default:
			return false
		}
	})
}
