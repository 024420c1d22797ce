package simplify

import (
	"math/big"

	"github.com/netrixframework/cexsimplify/linear"
	"github.com/netrixframework/cexsimplify/util"
	"github.com/netrixframework/cexsimplify/witness"
)

// Objective is minimized by the Minimizer: the sum of the absolute values
// of its terms.
type Objective struct {
	Terms []linear.Form
}

// SeriesObjective penalizes the change between consecutive entries of each
// series: Σ |s[t] - s[t-1]|.
func SeriesObjective(series ...[]string) Objective {
	var obj Objective
	for _, s := range series {
		for t := 1; t < len(s); t++ {
			obj.Terms = append(obj.Terms, linear.VarForm(s[t]).Sub(linear.VarForm(s[t-1])))
		}
	}
	return obj
}

// AbsObjective minimizes Σ |v| over the given variables.
func AbsObjective(names ...string) Objective {
	var obj Objective
	for _, n := range names {
		obj.Terms = append(obj.Terms, linear.VarForm(n))
	}
	return obj
}

// FamilyObjective builds a SeriesObjective from the time-indexed families
// found in m, one series per entity of every family.
func FamilyObjective(m *witness.Model, families ...string) Objective {
	var series [][]string
	for _, f := range families {
		for _, s := range witness.FindSeries(m, f) {
			series = append(series, s.Names)
		}
	}
	return SeriesObjective(series...)
}

// Plus returns an objective holding the terms of both
func (o Objective) Plus(other Objective) Objective {
	terms := make([]linear.Form, 0, len(o.Terms)+len(other.Terms))
	terms = append(terms, o.Terms...)
	terms = append(terms, other.Terms...)
	return Objective{Terms: terms}
}

// Empty reports whether the objective has nothing to minimize
func (o Objective) Empty() bool {
	for _, t := range o.Terms {
		if !t.IsConstant() {
			return false
		}
	}
	return true
}

// Vars returns the sorted variables the objective depends on
func (o Objective) Vars() []string {
	seen := make(map[string]struct{})
	for _, t := range o.Terms {
		for _, v := range t.Vars() {
			seen[v] = struct{}{}
		}
	}
	return util.SortedKeys(seen)
}

// Value computes the objective exactly at the given point
func (o Objective) Value(values map[string]*big.Rat) *big.Rat {
	res := new(big.Rat)
	for _, t := range o.Terms {
		res.Add(res, new(big.Rat).Abs(t.Eval(values)))
	}
	return res
}
