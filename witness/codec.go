package witness

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/netrixframework/cexsimplify/util"
	"gopkg.in/yaml.v3"
)

// ErrBadDocument is returned when an encoded witness is malformed
var ErrBadDocument = errors.New("malformed witness document")

// Decode reads a witness from a JSON or YAML mapping of names to values.
// Booleans map to BoolSort, numbers and numeric strings ("3/4", "0.1",
// "1.4142?") to RealSort read from their text without float rounding, and
// {"int": "3"} or {"real": "1/2"} set the sort explicitly.
func Decode(data []byte) (*Model, error) {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error decoding witness: %w", err)
	}
	values := make(map[string]Value, len(raw))
	for name, node := range raw {
		node := node
		v, err := decodeValue(&node)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %s", ErrBadDocument, name, err)
		}
		values[name] = v
	}
	return &Model{values: values}, nil
}

func decodeValue(node *yaml.Node) (Value, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.ShortTag() == "!!bool" {
			var b bool
			if err := node.Decode(&b); err != nil {
				return Value{}, err
			}
			return Bool(b), nil
		}
		r, err := util.ParseRat(node.Value)
		if err != nil {
			return Value{}, err
		}
		return Value{sort: RealSort, num: r}, nil
	case yaml.MappingNode:
		var typed map[string]yaml.Node
		if err := node.Decode(&typed); err != nil {
			return Value{}, err
		}
		if len(typed) != 1 {
			return Value{}, errors.New("typed value must have exactly one of int, real, bool")
		}
		for sort, inner := range typed {
			inner := inner
			v, err := decodeValue(&inner)
			if err != nil {
				return Value{}, err
			}
			switch sort {
			case "int":
				if v.IsBool() {
					return Value{}, errors.New("int expected")
				}
				return IntRat(v.num)
			case "real":
				if v.IsBool() {
					return Value{}, errors.New("real expected")
				}
				return v, nil
			case "bool":
				if !v.IsBool() {
					return Value{}, errors.New("bool expected")
				}
				return v, nil
			default:
				return Value{}, fmt.Errorf("unknown sort %q", sort)
			}
		}
	}
	return Value{}, fmt.Errorf("unexpected node at line %d", node.Line)
}

func (v Value) encoded() interface{} {
	switch v.sort {
	case BoolSort:
		return v.truth
	case IntSort:
		return map[string]string{"int": v.num.RatString()}
	default:
		return v.num.RatString()
	}
}

// MarshalJSON implements json.Marshaler. Rationals are written as strings so
// they survive the round trip exactly.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.encoded())
}

// MarshalJSON implements json.Marshaler
func (m *Model) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(m.values))
	for k, v := range m.values {
		out[k] = v.encoded()
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler
func (m *Model) UnmarshalJSON(b []byte) error {
	decoded, err := Decode(b)
	if err != nil {
		return err
	}
	m.values = decoded.values
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (m *Model) MarshalYAML() (interface{}, error) {
	out := make(map[string]interface{}, len(m.values))
	for k, v := range m.values {
		out[k] = v.encoded()
	}
	return out, nil
}
