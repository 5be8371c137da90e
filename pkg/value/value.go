// Package value provides the format-independent tree value shared by
// the codecs, the route model, and the synthesizer. A Value is one of
// Null, Bool, Number, String, Sequence, or Mapping. Numbers are kept as
// decimal strings (json.Number) so integers and floats survive a
// decode/re-encode round-trip through any codec without precision loss.
package value

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Value is a tagged union over the six supported kinds.
// The zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	num  json.Number
	str  string
	seq  []Value
	m    map[string]Value
}

// Null returns the null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Number returns a numeric value from its decimal representation.
func Number(n json.Number) Value {
	return Value{kind: KindNumber, num: n}
}

// Int returns a numeric value from an int64.
func Int(n int64) Value {
	return Number(json.Number(strconv.FormatInt(n, 10)))
}

// Float returns a numeric value from a float64.
func Float(f float64) Value {
	return Number(json.Number(strconv.FormatFloat(f, 'f', -1, 64)))
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Sequence returns a sequence value holding the given elements.
func Sequence(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: KindSequence, seq: elems}
}

// Mapping returns a mapping value holding the given entries.
// Keys are unique by construction (map semantics).
func Mapping(entries map[string]Value) Value {
	if entries == nil {
		entries = map[string]Value{}
	}
	return Value{kind: KindMapping, m: entries}
}

// Kind returns the variant held by the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsNumber returns the numeric payload as a decimal string.
func (v Value) AsNumber() (json.Number, bool) {
	if v.kind != KindNumber {
		return "", false
	}
	return v.num, true
}

// AsInt returns the numeric payload as an int64 when it is integral.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	n, err := v.num.Int64()
	if err != nil {
		return 0, false
	}
	return n, true
}

// AsString returns the string payload.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// AsSequence returns the sequence payload.
func (v Value) AsSequence() ([]Value, bool) {
	if v.kind != KindSequence {
		return nil, false
	}
	return v.seq, true
}

// AsMapping returns the mapping payload.
func (v Value) AsMapping() (map[string]Value, bool) {
	if v.kind != KindMapping {
		return nil, false
	}
	return v.m, true
}

// Get returns the mapping entry for key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Null(), false
	}
	child, ok := v.m[key]
	return child, ok
}

// Len returns the number of elements for sequences and mappings, 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.seq)
	case KindMapping:
		return len(v.m)
	default:
		return 0
	}
}

// Keys returns the mapping keys in sorted order, for deterministic encoding.
func (v Value) Keys() []string {
	if v.kind != KindMapping {
		return nil
	}
	keys := make([]string, 0, len(v.m))
	for k := range v.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports deep equality between two values.
// Numbers compare by their decimal representation.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.num == other.num
	case KindString:
		return v.str == other.str
	case KindSequence:
		if len(v.seq) != len(other.seq) {
			return false
		}
		for i := range v.seq {
			if !v.seq[i].Equal(other.seq[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(v.m) != len(other.m) {
			return false
		}
		for k, child := range v.m {
			otherChild, ok := other.m[k]
			if !ok || !child.Equal(otherChild) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String renders the value as a human-readable scalar or literal tree.
// Scalars render bare (a string renders without quotes); containers render
// in a JSON-like notation. Used for diagnostics and directive interpolation.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return v.num.String()
	case KindString:
		return v.str
	case KindSequence:
		parts := make([]string, len(v.seq))
		for i, e := range v.seq {
			parts[i] = e.literal()
		}
		return "[" + strings.Join(parts, ",") + "]"
	case KindMapping:
		parts := make([]string, 0, len(v.m))
		for _, k := range v.Keys() {
			parts = append(parts, fmt.Sprintf("%q:%s", k, v.m[k].literal()))
		}
		return "{" + strings.Join(parts, ",") + "}"
	default:
		return ""
	}
}

// literal renders the value with strings quoted, for container rendering.
func (v Value) literal() string {
	if v.kind == KindString {
		return strconv.Quote(v.str)
	}
	return v.String()
}

// FromAny converts a decoded interface tree (as produced by encoding/json
// with UseNumber, or by the YAML/TOML decoders) into a Value.
func FromAny(raw any) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t), nil
	case int:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint64:
		return Number(json.Number(strconv.FormatUint(t, 10))), nil
	case float64:
		return Float(t), nil
	case string:
		return String(t), nil
	case []any:
		elems := make([]Value, len(t))
		for i, e := range t {
			child, err := FromAny(e)
			if err != nil {
				return Null(), err
			}
			elems[i] = child
		}
		return Sequence(elems...), nil
	case map[string]any:
		entries := make(map[string]Value, len(t))
		for k, e := range t {
			child, err := FromAny(e)
			if err != nil {
				return Null(), err
			}
			entries[k] = child
		}
		return Mapping(entries), nil
	case map[any]any:
		entries := make(map[string]Value, len(t))
		for k, e := range t {
			key, ok := k.(string)
			if !ok {
				return Null(), fmt.Errorf("mapping key %v is not a string", k)
			}
			child, err := FromAny(e)
			if err != nil {
				return Null(), err
			}
			entries[key] = child
		}
		return Mapping(entries), nil
	default:
		return Null(), fmt.Errorf("unsupported value type %T", raw)
	}
}

// ToAny converts a Value back to an interface tree suitable for any encoder.
// Numbers stay json.Number so encoders can emit them losslessly.
func (v Value) ToAny() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindSequence:
		out := make([]any, len(v.seq))
		for i, e := range v.seq {
			out[i] = e.ToAny()
		}
		return out
	case KindMapping:
		out := make(map[string]any, len(v.m))
		for k, e := range v.m {
			out[k] = e.ToAny()
		}
		return out
	default:
		return nil
	}
}
