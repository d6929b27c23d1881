package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FlexibleKind identifies the JSON shape held by a Flexible value.
type FlexibleKind int

// Flexible value kinds.
const (
	// FlexibleAbsent means the field was missing from the document.
	FlexibleAbsent FlexibleKind = iota
	FlexibleNull
	FlexibleString
	FlexibleNumber
	FlexibleBool
	FlexibleObject
	FlexibleArray
)

// String returns a human-readable kind name.
func (k FlexibleKind) String() string {
	switch k {
	case FlexibleAbsent:
		return "absent"
	case FlexibleNull:
		return "null"
	case FlexibleString:
		return "string"
	case FlexibleNumber:
		return "number"
	case FlexibleBool:
		return "bool"
	case FlexibleObject:
		return "object"
	case FlexibleArray:
		return "array"
	default:
		return "unknown"
	}
}

// Flexible holds a provider field whose shape is not regular: the Gelato
// API returns weight and dimensions sometimes as structured sub-objects
// and sometimes as bare scalars or strings. The raw JSON is preserved
// verbatim so values round-trip without coercion; callers branch on
// Kind() and use the typed accessors to read a specific shape.
//
// Rejecting a non-object shape here would be a correctness bug, not a
// validation success.
type Flexible struct {
	raw json.RawMessage
}

// NewFlexible builds a Flexible from any JSON-marshalable value.
// Intended for tests and fixtures; production values come from decoding.
func NewFlexible(v any) Flexible {
	raw, err := json.Marshal(v)
	if err != nil {
		return Flexible{}
	}

	return Flexible{raw: raw}
}

// UnmarshalJSON stores the raw document bytes without interpreting them.
func (f *Flexible) UnmarshalJSON(data []byte) error {
	f.raw = bytes.TrimSpace(append([]byte(nil), data...))
	return nil
}

// MarshalJSON emits the original bytes verbatim.
func (f Flexible) MarshalJSON() ([]byte, error) {
	if len(f.raw) == 0 {
		return []byte("null"), nil
	}

	return f.raw, nil
}

// IsZero reports whether the field was absent, for use with omitzero.
func (f Flexible) IsZero() bool {
	return len(f.raw) == 0
}

// Raw returns the preserved JSON bytes, nil if absent.
func (f Flexible) Raw() json.RawMessage {
	return f.raw
}

// Kind inspects the preserved bytes and reports the JSON shape.
func (f Flexible) Kind() FlexibleKind {
	if len(f.raw) == 0 {
		return FlexibleAbsent
	}

	switch f.raw[0] {
	case '{':
		return FlexibleObject
	case '[':
		return FlexibleArray
	case '"':
		return FlexibleString
	case 't', 'f':
		return FlexibleBool
	case 'n':
		return FlexibleNull
	default:
		return FlexibleNumber
	}
}

// AsString returns the value as a string if it holds one.
func (f Flexible) AsString() (string, bool) {
	if f.Kind() != FlexibleString {
		return "", false
	}

	var s string
	if err := json.Unmarshal(f.raw, &s); err != nil {
		return "", false
	}

	return s, true
}

// AsNumber returns the value as a float64 if it holds a number.
func (f Flexible) AsNumber() (float64, bool) {
	if f.Kind() != FlexibleNumber {
		return 0, false
	}

	n, err := strconv.ParseFloat(string(f.raw), 64)
	if err != nil {
		return 0, false
	}

	return n, true
}

// AsObject returns the value's members if it holds an object. Member
// values are themselves Flexible, since nested shapes are just as
// irregular as top-level ones.
func (f Flexible) AsObject() (map[string]Flexible, bool) {
	if f.Kind() != FlexibleObject {
		return nil, false
	}

	var m map[string]Flexible
	if err := json.Unmarshal(f.raw, &m); err != nil {
		return nil, false
	}

	return m, true
}

// Equal reports whether two values hold the same JSON document.
func (f Flexible) Equal(other Flexible) bool {
	return bytes.Equal(f.raw, other.raw)
}
