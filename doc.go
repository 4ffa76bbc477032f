// Package cookiekit manages HTTP cookie state attached to a single
// request/response exchange: it parses an incoming Cookie header into an
// ordered, queryable jar and keeps the outgoing Set-Cookie header in sync
// as callers add, update, delete, or clear cookies.
//
// The core pieces:
//
//   - Jar: insertion-ordered mapping from cookie name to its serialized
//     Set-Cookie fragment, seeded from a raw Cookie header.
//   - ResponseCookies: a Jar bound to a response-like header carrier;
//     every mutation updates both the jar and the carrier's Set-Cookie
//     header, preserving fragments set by unrelated code.
//   - Headers: a multi-value header collection implementing the carrier
//     boundary, plus adapters for net/http and fasthttp.
//   - Client: a chainable fasthttp/HTTP2 client that writes jar state
//     into outgoing Cookie headers and exposes received Set-Cookie state.
//
// Non-string cookie values are JSON-encoded behind a "j:" prefix so they
// round-trip distinctly from plain strings.
//
// A ResponseCookies instance belongs to exactly one request/response
// lifecycle; concurrent mutation from multiple goroutines is the
// caller's responsibility to prevent.
package cookiekit
