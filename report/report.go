// Package report renders witnesses and constraint sets as text tables.
package report

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/netrixframework/cexsimplify/expr"
	"github.com/netrixframework/cexsimplify/witness"
	"golang.org/x/exp/slices"
)

func newWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 4, 4, 2, ' ', 0)
}

// Constraints writes one numbered line per constraint
func Constraints(w io.Writer, constraints []*expr.Expr) error {
	wrt := newWriter(w)
	for i, c := range constraints {
		fmt.Fprintf(wrt, "%d\t%s\n", i, c)
	}
	return wrt.Flush()
}

// Table writes the time-indexed entries of m as a table with one row per
// step and one column per family and entity, followed by the remaining
// entries. With no families given every family found in m is shown.
func Table(w io.Writer, m *witness.Model, families ...string) error {
	if len(families) == 0 {
		families = witness.Families(m)
	}
	var columns []witness.Series
	for _, f := range families {
		columns = append(columns, witness.FindSeries(m, f)...)
	}

	shown := make(map[string]bool)
	cells := make([]map[int]string, len(columns))
	var steps []int
	for i, s := range columns {
		cells[i] = make(map[int]string, len(s.Names))
		for _, name := range s.Names {
			k, _ := witness.ParseKey(name)
			v, _ := m.Get(name)
			cells[i][k.Step] = v.String()
			shown[name] = true
			if !slices.Contains(steps, k.Step) {
				steps = append(steps, k.Step)
			}
		}
	}
	slices.Sort(steps)

	wrt := newWriter(w)
	if len(columns) > 0 {
		fmt.Fprint(wrt, "t")
		for _, s := range columns {
			fmt.Fprintf(wrt, "\t%s", s.Label())
		}
		fmt.Fprintln(wrt)
		for _, t := range steps {
			fmt.Fprint(wrt, strconv.Itoa(t))
			for i := range columns {
				cell, ok := cells[i][t]
				if !ok {
					cell = "-"
				}
				fmt.Fprintf(wrt, "\t%s", cell)
			}
			fmt.Fprintln(wrt)
		}
	}
	if err := wrt.Flush(); err != nil {
		return err
	}

	var rest []string
	for _, name := range m.Names() {
		if !shown[name] {
			rest = append(rest, name)
		}
	}
	if len(rest) == 0 {
		return nil
	}
	if len(columns) > 0 {
		fmt.Fprintln(w)
	}
	wrt = newWriter(w)
	for _, name := range rest {
		v, _ := m.Get(name)
		fmt.Fprintf(wrt, "%s\t%s\n", name, v)
	}
	return wrt.Flush()
}

// Diff writes the entries whose values differ between before and after
func Diff(w io.Writer, before, after *witness.Model) error {
	wrt := newWriter(w)
	fmt.Fprintln(wrt, "name\tbefore\tafter")
	for _, name := range before.Names() {
		b, _ := before.Get(name)
		a, ok := after.Get(name)
		if !ok || b.Equal(a) {
			continue
		}
		fmt.Fprintf(wrt, "%s\t%s\t%s\n", name, b, a)
	}
	return wrt.Flush()
}
