//go:build !mocker_notoml

package codec

import (
	"errors"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/welschmorgan/mocker/pkg/value"
)

func init() {
	Register(tomlCodec{})
}

// ErrTOMLNull is returned when encoding a null value: TOML has no null.
var ErrTOMLNull = errors.New("null values do not exist in toml")

// ErrTOMLTopLevel is returned when the encoded document is not a table.
var ErrTOMLTopLevel = errors.New("toml documents must be a mapping at the top level")

type tomlCodec struct{}

func (tomlCodec) Name() string         { return "toml" }
func (tomlCodec) Extensions() []string { return []string{"toml"} }
func (tomlCodec) ContentType() string  { return "application/toml" }

func (tomlCodec) Encode(v value.Value) ([]byte, error) {
	if v.Kind() != value.KindMapping {
		return nil, &Error{Format: "toml", Op: "encode", Err: ErrTOMLTopLevel}
	}
	native, err := tomlNative(v)
	if err != nil {
		return nil, &Error{Format: "toml", Op: "encode", Err: err}
	}
	data, err := toml.Marshal(native)
	if err != nil {
		return nil, &Error{Format: "toml", Op: "encode", Err: err}
	}
	return data, nil
}

func (tomlCodec) Decode(data []byte) (value.Value, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return value.Null(), &Error{Format: "toml", Op: "decode", Err: err}
	}
	v, err := value.FromAny(normalizeTOML(raw))
	if err != nil {
		return value.Null(), &Error{Format: "toml", Op: "decode", Err: err}
	}
	return v, nil
}

// normalizeTOML rewrites TOML-specific decoded types into the neutral
// interface shapes FromAny understands. Datetimes become RFC 3339 strings,
// matching how the other codecs see them.
func normalizeTOML(raw any) any {
	switch t := raw.(type) {
	case time.Time:
		return t.Format(time.RFC3339)
	case toml.LocalDate:
		return t.String()
	case toml.LocalTime:
		return t.String()
	case toml.LocalDateTime:
		return t.String()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeTOML(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalizeTOML(e)
		}
		return out
	default:
		return raw
	}
}

// tomlNative converts a Value to native Go types for the TOML marshaler.
// json.Number cannot be handed to toml.Marshal (it would serialize as a
// string), so numbers are lowered to int64 or float64 here.
func tomlNative(v value.Value) (any, error) {
	switch v.Kind() {
	case value.KindNull:
		return nil, ErrTOMLNull
	case value.KindBool:
		b, _ := v.AsBool()
		return b, nil
	case value.KindNumber:
		n, _ := v.AsNumber()
		if !strings.ContainsAny(n.String(), ".eE") {
			if i, err := n.Int64(); err == nil {
				return i, nil
			}
		}
		f, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return nil, err
		}
		return f, nil
	case value.KindString:
		s, _ := v.AsString()
		return s, nil
	case value.KindSequence:
		elems, _ := v.AsSequence()
		out := make([]any, len(elems))
		for i, e := range elems {
			native, err := tomlNative(e)
			if err != nil {
				return nil, err
			}
			out[i] = native
		}
		return out, nil
	case value.KindMapping:
		out := make(map[string]any, v.Len())
		for _, k := range v.Keys() {
			child, _ := v.Get(k)
			native, err := tomlNative(child)
			if err != nil {
				return nil, err
			}
			out[k] = native
		}
		return out, nil
	default:
		return nil, errors.New("unsupported value kind")
	}
}
