package expr

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrBadDocument is returned when an encoded expression is malformed
var ErrBadDocument = errors.New("malformed expression document")

// document is the wire shape of a node. Exactly one of Var, Const, Bool or
// Op is set:
//
//	{"op": "and", "args": [{"op": "<", "args": [{"var": "x"}, {"const": "5"}]}]}
type document struct {
	Op    string  `json:"op,omitempty" yaml:"op,omitempty"`
	Args  []*Expr `json:"args,omitempty" yaml:"args,omitempty"`
	Var   string  `json:"var,omitempty" yaml:"var,omitempty"`
	Const numeral `json:"const,omitempty" yaml:"const,omitempty"`
	Bool  *bool   `json:"bool,omitempty" yaml:"bool,omitempty"`
}

// numeral holds the text of a constant. In JSON it may be written as a
// number or a string; numbers are kept as their decimal text so no float
// rounding happens.
type numeral string

func (n *numeral) UnmarshalJSON(b []byte) error {
	text := strings.TrimSpace(string(b))
	if strings.HasPrefix(text, `"`) {
		s, err := strconv.Unquote(text)
		if err != nil {
			return err
		}
		text = s
	}
	*n = numeral(text)
	return nil
}

var opNames = map[string]func(args []*Expr) (*Expr, error){
	"not":      unary(Not),
	"and":      func(args []*Expr) (*Expr, error) { return And(args...), nil },
	"or":       func(args []*Expr) (*Expr, error) { return Or(args...), nil },
	"implies":  binary(Implies),
	"=>":       binary(Implies),
	"ite":      ite,
	"if":       ite,
	"<":        compare(Lt),
	"lt":       compare(Lt),
	"<=":       compare(Le),
	"le":       compare(Le),
	">":        compare(Gt),
	"gt":       compare(Gt),
	">=":       compare(Ge),
	"ge":       compare(Ge),
	"=":        compare(Eq),
	"==":       compare(Eq),
	"eq":       compare(Eq),
	"distinct": compare(Distinct),
	"!=":       compare(Distinct),
	"+":        arith(Add),
	"add":      arith(Add),
	"-":        minus,
	"sub":      arith(Sub),
	"neg":      unary(func(a *Expr) *Expr { return Arith(Neg, a) }),
	"*":        arith(Mul),
	"mul":      arith(Mul),
	"/":        arith(Div),
	"div":      arith(Div),
}

func unary(f func(*Expr) *Expr) func([]*Expr) (*Expr, error) {
	return func(args []*Expr) (*Expr, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: expected 1 argument, got %d", ErrBadDocument, len(args))
		}
		return f(args[0]), nil
	}
}

func binary(f func(a, b *Expr) *Expr) func([]*Expr) (*Expr, error) {
	return func(args []*Expr) (*Expr, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("%w: expected 2 arguments, got %d", ErrBadDocument, len(args))
		}
		return f(args[0], args[1]), nil
	}
}

func compare(op CompareOp) func([]*Expr) (*Expr, error) {
	return binary(func(a, b *Expr) *Expr { return Compare(op, a, b) })
}

func arith(op ArithOp) func([]*Expr) (*Expr, error) {
	return func(args []*Expr) (*Expr, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("%w: %s without arguments", ErrBadDocument, op)
		}
		return Arith(op, args...), nil
	}
}

func minus(args []*Expr) (*Expr, error) {
	if len(args) == 1 {
		return Arith(Neg, args[0]), nil
	}
	return arith(Sub)(args)
}

func ite(args []*Expr) (*Expr, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("%w: ite expects 3 arguments, got %d", ErrBadDocument, len(args))
	}
	return If(args[0], args[1], args[2]), nil
}

func (d *document) build() (*Expr, error) {
	set := 0
	if d.Op != "" {
		set++
	}
	if d.Var != "" {
		set++
	}
	if d.Const != "" {
		set++
	}
	if d.Bool != nil {
		set++
	}
	if set != 1 {
		return nil, fmt.Errorf("%w: node must have exactly one of op, var, const, bool", ErrBadDocument)
	}
	switch {
	case d.Var != "":
		return Var(d.Var), nil
	case d.Const != "":
		return Number(string(d.Const))
	case d.Bool != nil:
		return Bool(*d.Bool), nil
	}
	mk, ok := opNames[strings.ToLower(d.Op)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown operator %q", ErrBadDocument, d.Op)
	}
	for _, a := range d.Args {
		if a == nil {
			return nil, fmt.Errorf("%w: null argument to %q", ErrBadDocument, d.Op)
		}
	}
	return mk(d.Args)
}

func (e *Expr) document() document {
	switch e.kind {
	case ConstantKind:
		return document{Const: numeral(formatRat(e.value))}
	case VariableKind:
		return document{Var: e.name}
	case BoolKind:
		t := e.truth
		return document{Bool: &t}
	}
	var op string
	switch e.kind {
	case NotKind:
		op = "not"
	case AndKind:
		op = "and"
	case OrKind:
		op = "or"
	case ImpliesKind:
		op = "=>"
	case ConditionalKind:
		op = "ite"
	case CompareKind:
		op = e.cmp.String()
	case ArithKind:
		op = e.arith.String()
		if e.arith == Neg {
			op = "neg"
		}
	}
	return document{Op: op, Args: e.args}
}

// MarshalJSON implements json.Marshaler
func (e *Expr) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.document())
}

// UnmarshalJSON implements json.Unmarshaler
func (e *Expr) UnmarshalJSON(b []byte) error {
	var d document
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	built, err := d.build()
	if err != nil {
		return err
	}
	*e = *built
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (e *Expr) MarshalYAML() (interface{}, error) {
	return e.document(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (e *Expr) UnmarshalYAML(value *yaml.Node) error {
	var d document
	if err := value.Decode(&d); err != nil {
		return err
	}
	built, err := d.build()
	if err != nil {
		return err
	}
	*e = *built
	return nil
}

// Decode reads an expression document. YAML is a superset of JSON, so both
// encodings are accepted.
func Decode(data []byte) (*Expr, error) {
	e := new(Expr)
	if err := yaml.Unmarshal(data, e); err != nil {
		return nil, fmt.Errorf("error decoding expression: %w", err)
	}
	return e, nil
}
