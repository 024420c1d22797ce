package expr

import (
	"math/big"
	"strings"

	"github.com/netrixframework/cexsimplify/util"
)

// Kind identifies the variant of an expression node. The set of kinds is
// closed: every switch over Kind in this module is exhaustive.
type Kind int

const (
	ConstantKind Kind = iota
	VariableKind
	BoolKind
	NotKind
	AndKind
	OrKind
	ImpliesKind
	CompareKind
	ArithKind
	ConditionalKind
)

func (k Kind) String() string {
	switch k {
	case ConstantKind:
		return "constant"
	case VariableKind:
		return "variable"
	case BoolKind:
		return "bool"
	case NotKind:
		return "not"
	case AndKind:
		return "and"
	case OrKind:
		return "or"
	case ImpliesKind:
		return "implies"
	case CompareKind:
		return "compare"
	case ArithKind:
		return "arith"
	case ConditionalKind:
		return "ite"
	}
	return "unknown"
}

// CompareOp is the relation of a Compare node
type CompareOp int

const (
	Lt CompareOp = iota
	Le
	Gt
	Ge
	Eq
	Distinct
)

func (op CompareOp) String() string {
	switch op {
	case Lt:
		return "<"
	case Le:
		return "<="
	case Gt:
		return ">"
	case Ge:
		return ">="
	case Eq:
		return "="
	case Distinct:
		return "distinct"
	}
	return "?"
}

// Negate returns the relation holding exactly when op does not. Eq and
// Distinct are each other's negation.
func (op CompareOp) Negate() CompareOp {
	switch op {
	case Lt:
		return Ge
	case Le:
		return Gt
	case Gt:
		return Le
	case Ge:
		return Lt
	case Eq:
		return Distinct
	default:
		return Eq
	}
}

// Strict reports whether op excludes equality of its sides
func (op CompareOp) Strict() bool {
	return op == Lt || op == Gt || op == Distinct
}

// ArithOp is the operator of an Arith node
type ArithOp int

const (
	Add ArithOp = iota
	Sub
	Neg
	Mul
	Div
)

func (op ArithOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub, Neg:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	}
	return "?"
}

// Expr is an immutable formula or term. Nodes are created through the
// constructors of this package and never change afterwards, so they can be
// shared freely between goroutines.
type Expr struct {
	kind  Kind
	name  string
	value *big.Rat
	truth bool
	cmp   CompareOp
	arith ArithOp
	args  []*Expr
}

// Kind returns the variant of the node
func (e *Expr) Kind() Kind {
	return e.kind
}

// Name returns the name of a Variable node
func (e *Expr) Name() string {
	return e.name
}

// Value returns a copy of the literal of a Constant node
func (e *Expr) Value() *big.Rat {
	if e.value == nil {
		return nil
	}
	return new(big.Rat).Set(e.value)
}

// Truth returns the literal of a BoolLiteral node
func (e *Expr) Truth() bool {
	return e.truth
}

// CompareOp returns the relation of a Compare node
func (e *Expr) CompareOp() CompareOp {
	return e.cmp
}

// ArithOp returns the operator of an Arith node
func (e *Expr) ArithOp() ArithOp {
	return e.arith
}

// NumArgs returns the number of children
func (e *Expr) NumArgs() int {
	return len(e.args)
}

// Arg returns the i-th child
func (e *Expr) Arg(i int) *Expr {
	return e.args[i]
}

// Args returns a copy of the children
func (e *Expr) Args() []*Expr {
	return append([]*Expr(nil), e.args...)
}

// String returns an s-expression rendering of the node, e.g. "(< x 5)".
func (e *Expr) String() string {
	var b strings.Builder
	e.write(&b)
	return b.String()
}

func (e *Expr) write(b *strings.Builder) {
	switch e.kind {
	case ConstantKind:
		b.WriteString(formatRat(e.value))
		return
	case VariableKind:
		b.WriteString(e.name)
		return
	case BoolKind:
		if e.truth {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
		return
	}
	b.WriteByte('(')
	switch e.kind {
	case NotKind:
		b.WriteString("not")
	case AndKind:
		b.WriteString("and")
	case OrKind:
		b.WriteString("or")
	case ImpliesKind:
		b.WriteString("=>")
	case CompareKind:
		b.WriteString(e.cmp.String())
	case ArithKind:
		b.WriteString(e.arith.String())
	case ConditionalKind:
		b.WriteString("ite")
	}
	for _, a := range e.args {
		b.WriteByte(' ')
		a.write(b)
	}
	b.WriteByte(')')
}

func formatRat(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	return r.String()
}

//-------------------------------------------------------------------
// Var, Literal Creation
//-------------------------------------------------------------------

// Var declares a variable. Whether it is numeric or boolean is decided by
// the witness it is evaluated under.
func Var(name string) *Expr {
	return &Expr{kind: VariableKind, name: name}
}

// Const creates a rational constant. v is copied.
func Const(v *big.Rat) *Expr {
	return &Expr{kind: ConstantKind, value: new(big.Rat).Set(v)}
}

// Int creates an integer constant.
func Int(v int64) *Expr {
	return &Expr{kind: ConstantKind, value: new(big.Rat).SetInt64(v)}
}

// Real creates the constant num/den.
func Real(num, den int64) *Expr {
	return &Expr{kind: ConstantKind, value: big.NewRat(num, den)}
}

// Number parses a constant with util.ParseRat.
func Number(text string) (*Expr, error) {
	r, err := util.ParseRat(text)
	if err != nil {
		return nil, err
	}
	return &Expr{kind: ConstantKind, value: r}, nil
}

// Bool creates a boolean literal.
func Bool(v bool) *Expr {
	return &Expr{kind: BoolKind, truth: v}
}

// True creates the value "true".
func True() *Expr {
	return Bool(true)
}

// False creates the value "false".
func False() *Expr {
	return Bool(false)
}

//-------------------------------------------------------------------
// Connectives
//-------------------------------------------------------------------

// Not negates a formula.
func Not(a *Expr) *Expr {
	return &Expr{kind: NotKind, args: []*Expr{a}}
}

// And creates a conjunction. An empty conjunction is true.
func And(args ...*Expr) *Expr {
	return &Expr{kind: AndKind, args: append([]*Expr(nil), args...)}
}

// Or creates a disjunction. An empty disjunction is false.
func Or(args ...*Expr) *Expr {
	return &Expr{kind: OrKind, args: append([]*Expr(nil), args...)}
}

// Implies creates p => q.
func Implies(p, q *Expr) *Expr {
	return &Expr{kind: ImpliesKind, args: []*Expr{p, q}}
}

// If creates a conditional selecting then or els depending on cond.
func If(cond, then, els *Expr) *Expr {
	return &Expr{kind: ConditionalKind, args: []*Expr{cond, then, els}}
}

// Compare creates the comparison "a op b".
func Compare(op CompareOp, a, b *Expr) *Expr {
	return &Expr{kind: CompareKind, cmp: op, args: []*Expr{a, b}}
}

// Arith creates an arithmetic node over the given operands.
func Arith(op ArithOp, args ...*Expr) *Expr {
	return &Expr{kind: ArithKind, arith: op, args: append([]*Expr(nil), args...)}
}
