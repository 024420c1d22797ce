package witness

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/netrixframework/cexsimplify/util"
)

// ErrUnknownVariable is returned when a name is absent from a model
var ErrUnknownVariable = errors.New("unknown variable")

// Sort is the type of a value in a model
type Sort int

const (
	BoolSort Sort = iota
	IntSort
	RealSort
)

func (s Sort) String() string {
	switch s {
	case BoolSort:
		return "bool"
	case IntSort:
		return "int"
	case RealSort:
		return "real"
	}
	return "unknown"
}

// Value is a boolean or an exact rational. Values are immutable; accessors
// return copies of the underlying rational.
type Value struct {
	sort  Sort
	truth bool
	num   *big.Rat
}

// Bool creates a boolean value
func Bool(b bool) Value {
	return Value{sort: BoolSort, truth: b}
}

// Real creates a rational value. r is copied.
func Real(r *big.Rat) Value {
	return Value{sort: RealSort, num: new(big.Rat).Set(r)}
}

// Int creates an integer valued rational
func Int(v int64) Value {
	return Value{sort: IntSort, num: new(big.Rat).SetInt64(v)}
}

// IntRat creates an integer value from r, which must be integral
func IntRat(r *big.Rat) (Value, error) {
	if !r.IsInt() {
		return Value{}, fmt.Errorf("integer value expected, got %s", r.RatString())
	}
	return Value{sort: IntSort, num: new(big.Rat).Set(r)}, nil
}

// Sort returns the sort of the value
func (v Value) Sort() Sort {
	return v.sort
}

// IsBool reports whether v is a truth value
func (v Value) IsBool() bool {
	return v.sort == BoolSort
}

// IsNumeric reports whether v is an int or real
func (v Value) IsNumeric() bool {
	return v.sort != BoolSort
}

// Bool returns the truth value; false for numeric values
func (v Value) Bool() bool {
	return v.truth
}

// Rat returns a copy of the rational value; nil for booleans
func (v Value) Rat() *big.Rat {
	if v.num == nil {
		return nil
	}
	return new(big.Rat).Set(v.num)
}

// Float returns the value as a float64. This is the only place where a
// witness loses exactness and it is used at the optimizer boundary.
func (v Value) Float() float64 {
	if v.num == nil {
		if v.truth {
			return 1
		}
		return 0
	}
	f, _ := v.num.Float64()
	return f
}

// Cmp compares two numeric values
func (v Value) Cmp(o Value) int {
	return v.num.Cmp(o.num)
}

// Equal reports whether both values have the same sort and content
func (v Value) Equal(o Value) bool {
	if v.sort != o.sort {
		return false
	}
	if v.sort == BoolSort {
		return v.truth == o.truth
	}
	return v.num.Cmp(o.num) == 0
}

func (v Value) String() string {
	if v.sort == BoolSort {
		if v.truth {
			return "true"
		}
		return "false"
	}
	return v.num.RatString()
}

// Model is an immutable assignment of values to variable names.
type Model struct {
	values map[string]Value
}

// NewModel creates a model holding a copy of values
func NewModel(values map[string]Value) *Model {
	m := &Model{values: make(map[string]Value, len(values))}
	for k, v := range values {
		m.values[k] = v
	}
	return m
}

// Lookup returns the value of name or ErrUnknownVariable
func (m *Model) Lookup(name string) (Value, error) {
	v, ok := m.values[name]
	if !ok {
		return Value{}, fmt.Errorf("%w: %s", ErrUnknownVariable, name)
	}
	return v, nil
}

// Get returns the value of name if present
func (m *Model) Get(name string) (Value, bool) {
	v, ok := m.values[name]
	return v, ok
}

// Len returns the number of assignments
func (m *Model) Len() int {
	return len(m.values)
}

// Names returns the assigned names in ascending order
func (m *Model) Names() []string {
	return util.SortedKeys(m.values)
}

// Assignments returns a copy of all the assignments in the model
func (m *Model) Assignments() map[string]Value {
	res := make(map[string]Value, len(m.values))
	for k, v := range m.values {
		res[k] = v
	}
	return res
}

// With returns a copy of m where the given names are overwritten. Names not
// already in m are rejected so the key set never changes.
func (m *Model) With(updates map[string]Value) (*Model, error) {
	res := NewModel(m.values)
	for k, v := range updates {
		if _, ok := m.values[k]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownVariable, k)
		}
		res.values[k] = v
	}
	return res, nil
}

// Equal reports whether both models assign equal values to the same names
func (m *Model) Equal(o *Model) bool {
	if len(m.values) != len(o.values) {
		return false
	}
	for k, v := range m.values {
		ov, ok := o.values[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// String returns a human-friendly string version of the model, one
// assignment per line in name order.
func (m *Model) String() string {
	var b strings.Builder
	for _, name := range m.Names() {
		fmt.Fprintf(&b, "%s = %s\n", name, m.values[name])
	}
	return b.String()
}
