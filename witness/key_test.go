package witness

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKey(t *testing.T) {
	cases := []struct {
		name string
		key  Key
		ok   bool
	}{
		{"tot_inp_3", Key{Family: "tot_inp", Entity: -1, Step: 3}, true},
		{"cwnd_0,12", Key{Family: "cwnd", Entity: 0, Step: 12}, true},
		{"x_1", Key{Family: "x", Entity: -1, Step: 1}, true},
		{"c", Key{}, false},
		{"alpha_beta", Key{}, false},
		{"_3", Key{}, false},
	}
	for _, c := range cases {
		k, ok := ParseKey(c.name)
		assert.Equal(t, c.ok, ok, c.name)
		if ok {
			assert.Equal(t, c.key, k, c.name)
			assert.Equal(t, c.name, k.String())
		}
	}
}

func TestFindSeries(t *testing.T) {
	m := NewModel(map[string]Value{
		"tot_inp_10": Int(3),
		"tot_inp_2":  Int(2),
		"tot_inp_0":  Int(1),
		"cwnd_1,0":   Int(1),
		"cwnd_0,1":   Int(1),
		"cwnd_0,0":   Int(1),
		"loss_0":     Bool(false),
		"c":          Int(1),
	})

	s := FindSeries(m, "tot_inp")
	if assert.Len(t, s, 1) {
		assert.Equal(t, []string{"tot_inp_0", "tot_inp_2", "tot_inp_10"}, s[0].Names)
		assert.Equal(t, "tot_inp", s[0].Label())
	}

	s = FindSeries(m, "cwnd")
	if assert.Len(t, s, 2) {
		assert.Equal(t, []string{"cwnd_0,0", "cwnd_0,1"}, s[0].Names)
		assert.Equal(t, "cwnd_0", s[0].Label())
		assert.Equal(t, []string{"cwnd_1,0"}, s[1].Names)
	}

	assert.Empty(t, FindSeries(m, "loss"))
	assert.Empty(t, FindSeries(m, "missing"))
	assert.Equal(t, []string{"cwnd", "loss", "tot_inp"}, Families(m))
}
