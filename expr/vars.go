package expr

import "github.com/netrixframework/cexsimplify/util"

// Walk visits e and its descendants in pre-order. Returning false from visit
// skips the children of the visited node.
func Walk(e *Expr, visit func(*Expr) bool) {
	if !visit(e) {
		return
	}
	for _, a := range e.args {
		Walk(a, visit)
	}
}

// Vars returns the sorted names of the variables occurring in the given
// expressions.
func Vars(es ...*Expr) []string {
	seen := make(map[string]struct{})
	for _, e := range es {
		Walk(e, func(n *Expr) bool {
			if n.kind == VariableKind {
				seen[n.name] = struct{}{}
			}
			return true
		})
	}
	return util.SortedKeys(seen)
}

// Equal reports whether a and b are structurally identical.
func Equal(a, b *Expr) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.kind != b.kind || len(a.args) != len(b.args) {
		return false
	}
	switch a.kind {
	case ConstantKind:
		return a.value.Cmp(b.value) == 0
	case VariableKind:
		return a.name == b.name
	case BoolKind:
		return a.truth == b.truth
	case CompareKind:
		if a.cmp != b.cmp {
			return false
		}
	case ArithKind:
		if a.arith != b.arith {
			return false
		}
	}
	for i := range a.args {
		if !Equal(a.args[i], b.args[i]) {
			return false
		}
	}
	return true
}
