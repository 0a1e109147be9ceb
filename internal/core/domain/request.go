// Package domain holds the immutable value types the request engine
// operates on: Request, Response, RequestOptions, connection and DNS
// records, and the event/error taxonomy that ties them together.
package domain

import (
	"net/textproto"
	"net/url"
)

// Method is one of the HTTP verbs the engine accepts.
type Method string

const (
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodOptions Method = "OPTIONS"
)

// Header is a case-insensitive multimap preserving duplicate values, the
// same shape net/textproto.MIMEHeader uses.
type Header map[string][]string

// Get returns the first value for key, or "" if absent.
func (h Header) Get(key string) string {
	if h == nil {
		return ""
	}
	values := h[textproto.CanonicalMIMEHeaderKey(key)]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Values returns all values for key.
func (h Header) Values(key string) []string {
	if h == nil {
		return nil
	}
	return h[textproto.CanonicalMIMEHeaderKey(key)]
}

// Clone returns a deep copy so the original Header remains valid after
// mutation, preserving the Request's immutability guarantee.
func (h Header) Clone() Header {
	if h == nil {
		return nil
	}
	out := make(Header, len(h))
	for k, v := range h {
		cp := make([]string, len(v))
		copy(cp, v)
		out[textproto.CanonicalMIMEHeaderKey(k)] = cp
	}
	return out
}

func (h Header) set(key string, values ...string) Header {
	out := h.Clone()
	if out == nil {
		out = make(Header, 1)
	}
	out[textproto.CanonicalMIMEHeaderKey(key)] = values
	return out
}

func (h Header) add(key, value string) Header {
	out := h.Clone()
	if out == nil {
		out = make(Header, 1)
	}
	ck := textproto.CanonicalMIMEHeaderKey(key)
	out[ck] = append(out[ck], value)
	return out
}

// BodyKind identifies how a Body's payload was produced.
type BodyKind int

const (
	BodyNone BodyKind = iota
	BodyRaw
	BodyForm
	BodyMultipart
	BodyJSON
)

// MultipartPart is one field of a multipart/form-data body.
type MultipartPart struct {
	Headers  Header
	Name     string
	Filename string
	Contents []byte
}

// Body is the immutable payload of a Request. Exactly one of Raw, Form,
// Parts is meaningful, selected by Kind.
type Body struct {
	Kind  BodyKind
	Raw   []byte
	Form  FormPairs
	Parts []MultipartPart
}

// FormPairs is an ordered list of application/x-www-form-urlencoded pairs;
// a slice (not a map) so repeated keys and ordering survive round-tripping.
type FormPairs []FormPair

type FormPair struct {
	Key, Value string
}

// Encode renders the pairs as a query-string-style body.
func (f FormPairs) Encode() string {
	v := url.Values{}
	for _, p := range f {
		v.Add(p.Key, p.Value)
	}
	return v.Encode()
}

// Request is an immutable HTTP request value. Every mutator method
// (WithHeader, WithBody, ...) returns a new Request; the receiver and any
// other outstanding reference remain valid and unchanged.
type Request struct {
	Method   Method
	URI      string
	Headers  Header
	Body     Body
	ProtoHint string // e.g. "HTTP/2", "" means "let the transport decide"
}

// NewRequest constructs a Request with no headers or body.
func NewRequest(method Method, uri string) Request {
	return Request{Method: method, URI: uri}
}

// WithHeader returns a copy of r with key set to values (replacing any
// existing values for that key).
func (r Request) WithHeader(key string, values ...string) Request {
	r.Headers = r.Headers.set(key, values...)
	return r
}

// WithAddedHeader returns a copy of r with value appended to key's values.
func (r Request) WithAddedHeader(key, value string) Request {
	r.Headers = r.Headers.add(key, value)
	return r
}

// WithBody returns a copy of r carrying the given Body.
func (r Request) WithBody(b Body) Request {
	r.Body = b
	return r
}

// WithURI returns a copy of r targeting a different URI.
func (r Request) WithURI(uri string) Request {
	r.URI = uri
	return r
}

// RawBody returns b as a raw-bytes Body, synthesising no Content-Type.
func RawBody(b []byte) Body {
	return Body{Kind: BodyRaw, Raw: b}
}

// FormBody returns pairs as an application/x-www-form-urlencoded Body.
func FormBody(pairs FormPairs) Body {
	return Body{Kind: BodyForm, Form: pairs}
}

// MultipartBody returns parts as a multipart/form-data Body.
func MultipartBody(parts []MultipartPart) Body {
	return Body{Kind: BodyMultipart, Parts: parts}
}
