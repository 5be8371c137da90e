package codec

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/welschmorgan/mocker/pkg/value"
)

func init() {
	Register(jsonCodec{})
}

// jsonCodec is the mandatory JSON codec. Both directions go through
// encoding/json with json.Number, so a number's decimal literal survives
// a decode/encode round-trip unchanged: "1.10" stays "1.10" and integers
// beyond float64 precision keep every digit.
type jsonCodec struct{}

func (jsonCodec) Name() string         { return "json" }
func (jsonCodec) Extensions() []string { return []string{"json"} }
func (jsonCodec) ContentType() string  { return "application/json" }

func (jsonCodec) Encode(v value.Value) ([]byte, error) {
	data, err := json.Marshal(v.ToAny())
	if err != nil {
		return nil, &Error{Format: "json", Op: "encode", Err: err}
	}
	return data, nil
}

func (jsonCodec) Decode(data []byte) (value.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return value.Null(), &Error{Format: "json", Op: "decode", Err: err}
	}
	if dec.More() {
		return value.Null(), &Error{Format: "json", Op: "decode", Err: errors.New("trailing data after document")}
	}
	v, err := value.FromAny(raw)
	if err != nil {
		return value.Null(), &Error{Format: "json", Op: "decode", Err: err}
	}
	return v, nil
}
