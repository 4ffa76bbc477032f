package cookiekit

import (
	"iter"
	"slices"
)

// Jar is an insertion-ordered mapping from cookie name to its
// serialized Set-Cookie fragment. At most one fragment exists per name;
// it always reflects the last Set for that name.
//
// A Jar lives for exactly one request/response exchange and is not safe
// for concurrent mutation.
type Jar struct {
	names     []string
	fragments map[string]string
}

// NewJar parses a raw Cookie request header into a jar. Absent or
// malformed input yields an empty jar; parsing never fails.
func NewJar(rawCookieHeader string) *Jar {
	j := &Jar{fragments: make(map[string]string)}
	for _, c := range readCookies(rawCookieHeader) {
		j.store(c.Name, c.Name+"="+c.Value)
	}
	return j
}

func (j *Jar) store(name, fragment string) {
	if _, ok := j.fragments[name]; !ok {
		j.names = append(j.names, name)
	}
	j.fragments[name] = fragment
}

// Get returns the stored fragment for name.
func (j *Jar) Get(name string) (string, bool) {
	fragment, ok := j.fragments[name]
	return fragment, ok
}

// Set serializes value and opts into a fragment and stores it under
// name, keeping the name's original insertion position on update.
// Returns the jar for chaining; serialization is total.
func (j *Jar) Set(name string, value any, opts *Options) *Jar {
	j.store(name, serializeFragment(name, value, opts))
	return j
}

// Has reports whether a fragment exists for name.
func (j *Jar) Has(name string) bool {
	_, ok := j.fragments[name]
	return ok
}

// Delete removes the fragment for name and reports whether it existed.
func (j *Jar) Delete(name string) bool {
	if _, ok := j.fragments[name]; !ok {
		return false
	}
	delete(j.fragments, name)
	j.names = slices.DeleteFunc(j.names, func(n string) bool { return n == name })
	return true
}

// Clear removes every fragment.
func (j *Jar) Clear() {
	j.names = j.names[:0]
	clear(j.fragments)
}

// Len returns the number of stored fragments.
func (j *Jar) Len() int { return len(j.fragments) }

// Keys returns the cookie names in insertion order.
func (j *Jar) Keys() []string { return slices.Clone(j.names) }

// Entries iterates name/fragment pairs in insertion order.
func (j *Jar) Entries() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, name := range j.names {
			if !yield(name, j.fragments[name]) {
				return
			}
		}
	}
}
