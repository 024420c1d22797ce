package expr

// Add creates an AST node representing adding.
func (a *Expr) Add(args ...*Expr) *Expr {
	return Arith(Add, append([]*Expr{a}, args...)...)
}

// Sub creates an AST node representing subtraction.
func (a *Expr) Sub(other *Expr) *Expr {
	return Arith(Sub, a, other)
}

// Neg creates an AST node representing negation.
func (a *Expr) Neg() *Expr {
	return Arith(Neg, a)
}

// Mul creates an AST node representing multiplication.
func (a *Expr) Mul(args ...*Expr) *Expr {
	return Arith(Mul, append([]*Expr{a}, args...)...)
}

// Div creates an AST node representing division.
func (a *Expr) Div(other *Expr) *Expr {
	return Arith(Div, a, other)
}

// Lt creates a "less than" comparison.
func (a *Expr) Lt(a2 *Expr) *Expr {
	return Compare(Lt, a, a2)
}

// Le creates a "less than or equal" comparison.
func (a *Expr) Le(a2 *Expr) *Expr {
	return Compare(Le, a, a2)
}

// Gt creates a "greater than" comparison.
func (a *Expr) Gt(a2 *Expr) *Expr {
	return Compare(Gt, a, a2)
}

// Ge creates a "greater than or equal" comparison.
func (a *Expr) Ge(a2 *Expr) *Expr {
	return Compare(Ge, a, a2)
}

// Eq creates an equality.
func (a *Expr) Eq(a2 *Expr) *Expr {
	return Compare(Eq, a, a2)
}

// Distinct creates a disequality.
func (a *Expr) Distinct(a2 *Expr) *Expr {
	return Compare(Distinct, a, a2)
}
