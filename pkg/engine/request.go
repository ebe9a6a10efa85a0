package engine

// Attribute is a single named context value on a Request.
type Attribute struct {
	Name  string
	Value Value
}

// Request is the subject of one evaluation call: the fixed identity triple
// (principal, action, resource) plus a flat context of primitive attributes.
//
// A Request is built fresh per evaluation and owned solely by the caller; the
// engine never retains it. Context bounds (attribute count, string lengths)
// are checked lazily at Evaluate time since the request is supplied afresh on
// every call.
type Request struct {
	// Principal is the identity performing the action.
	Principal string

	// Action is the operation being attempted.
	Action string

	// Resource is the object the action applies to.
	Resource string

	attrs []Attribute
}

// NewRequest creates a Request with the given identity triple and an empty
// context.
func NewRequest(principal, action, resource string) *Request {
	return &Request{
		Principal: principal,
		Action:    action,
		Resource:  resource,
	}
}

// WithAttribute sets a context attribute and returns the request for
// chaining. Setting an existing name replaces its value; insertion order of
// distinct names is preserved but has no semantic effect.
func (r *Request) WithAttribute(name string, value Value) *Request {
	for i := range r.attrs {
		if r.attrs[i].Name == name {
			r.attrs[i].Value = value
			return r
		}
	}
	r.attrs = append(r.attrs, Attribute{Name: name, Value: value})
	return r
}

// WithString sets a string context attribute.
func (r *Request) WithString(name, value string) *Request {
	return r.WithAttribute(name, StringValue(value))
}

// WithInt sets an integer context attribute.
func (r *Request) WithInt(name string, value int64) *Request {
	return r.WithAttribute(name, IntValue(value))
}

// WithBool sets a boolean context attribute.
func (r *Request) WithBool(name string, value bool) *Request {
	return r.WithAttribute(name, BoolValue(value))
}

// Attribute looks up a context attribute by exact name.
func (r *Request) Attribute(name string) (Value, bool) {
	for i := range r.attrs {
		if r.attrs[i].Name == name {
			return r.attrs[i].Value, true
		}
	}
	return Value{}, false
}

// ContextLen returns the number of context attributes set on the request.
func (r *Request) ContextLen() int {
	return len(r.attrs)
}

// Attributes returns a copy of the context attributes, preserving insertion
// order. Intended for callers that record or display requests; the engine
// itself reads the context only by name.
func (r *Request) Attributes() []Attribute {
	out := make([]Attribute, len(r.attrs))
	copy(out, r.attrs)
	return out
}
