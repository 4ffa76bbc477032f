package cookiekit

import (
	"net/textproto"
	"strings"

	"github.com/valyala/bytebufferpool"
)

const (
	headerCookie    = "cookie"
	headerSetCookie = "set-cookie"
)

// fragmentSeparator joins multiple Set-Cookie fragments when the header
// is reconciled into a single value. The wire format conventionally
// keeps separate header occurrences; this separator is internal
// bookkeeping and splitSetCookies understands it.
const fragmentSeparator = ", "

type Cookie struct {
	Name  string
	Value string
}

// readCookies parses a raw Cookie request header into name/value pairs.
// Pairs without an "=" are dropped; malformed input degrades to however
// many pairs parse cleanly.
func readCookies(line string) []Cookie {
	if len(line) == 0 {
		return nil
	}
	cookies := make([]Cookie, 0, 1+strings.Count(line, ";"))
	line = textproto.TrimString(line)

	var part string
	for len(line) > 0 { // continue since we have rest
		part, line, _ = strings.Cut(line, ";")
		part = textproto.TrimString(part)
		if part == "" {
			continue
		}
		name, val, ok := strings.Cut(part, "=")
		if !ok || name == "" {
			continue
		}
		cookies = append(cookies, Cookie{Name: name, Value: val})
	}
	return cookies
}

// splitSetCookies splits a reconciled Set-Cookie value back into its
// fragments. A comma is a boundary only when what follows it reads as a
// new "name=" pair before any ";", so commas inside Expires dates
// ("Thu, 01 Jan 1970 ...") never split.
func splitSetCookies(raw string) []string {
	if raw == "" {
		return nil
	}
	var fragments []string
	start, pos := 0, 0
	for pos < len(raw) {
		i := strings.IndexByte(raw[pos:], ',')
		if i < 0 {
			break
		}
		i += pos
		j := i + 1
		for j < len(raw) && (raw[j] == ' ' || raw[j] == '\t') {
			j++
		}
		k := j
		for k < len(raw) && raw[k] != ';' && raw[k] != ',' && raw[k] != '=' {
			k++
		}
		if k > j && k < len(raw) && raw[k] == '=' {
			if frag := strings.TrimSpace(raw[start:i]); frag != "" {
				fragments = append(fragments, frag)
			}
			start, pos = j, j
		} else {
			pos = i + 1
		}
	}
	if frag := strings.TrimSpace(raw[start:]); frag != "" {
		fragments = append(fragments, frag)
	}
	return fragments
}

// stripFragments drops every fragment belonging to name, leaving
// unrelated cookies untouched.
func stripFragments(fragments []string, name string) []string {
	prefix := name + "="
	kept := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if !strings.HasPrefix(f, prefix) {
			kept = append(kept, f)
		}
	}
	return kept
}

func joinFragments(fragments []string) string {
	if len(fragments) == 0 {
		return ""
	}
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	for i, f := range fragments {
		if i > 0 {
			_, _ = buf.WriteString(fragmentSeparator)
		}
		_, _ = buf.WriteString(f)
	}
	return buf.String()
}
