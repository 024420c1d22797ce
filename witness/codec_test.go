package witness

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	m, err := Decode([]byte(`{
		"x": 0.1,
		"y": "3/4",
		"z": "1.4142?",
		"n": {"int": 3},
		"p": true
	}`))
	require.NoError(t, err)

	expect := map[string]struct {
		sort Sort
		text string
	}{
		"x": {RealSort, "1/10"},
		"y": {RealSort, "3/4"},
		"z": {RealSort, "7071/5000"},
		"n": {IntSort, "3"},
		"p": {BoolSort, "true"},
	}
	for name, e := range expect {
		v, err := m.Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, e.sort, v.Sort(), name)
		assert.Equal(t, e.text, v.String(), name)
	}
}

func TestDecodeYAML(t *testing.T) {
	m, err := Decode([]byte("x: 2.5\np: false\nn:\n  int: 4\n"))
	require.NoError(t, err)
	v, _ := m.Get("x")
	assert.Equal(t, "5/2", v.String())
	v, _ = m.Get("p")
	assert.True(t, v.IsBool())
	v, _ = m.Get("n")
	assert.Equal(t, IntSort, v.Sort())
}

func TestDecodeErrors(t *testing.T) {
	for _, doc := range []string{
		`{"x": "abc"}`,
		`{"x": {"int": "1/2"}}`,
		`{"x": {"bool": 1}}`,
		`{"x": {"int": 1, "real": 2}}`,
		`{"x": [1, 2]}`,
	} {
		_, err := Decode([]byte(doc))
		assert.True(t, errors.Is(err, ErrBadDocument), "%s: %v", doc, err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	m, err := Decode([]byte(`{"x": "1/3", "n": {"int": -2}, "p": true}`))
	require.NoError(t, err)

	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"x": "1/3", "n": {"int": "-2"}, "p": true}`, string(b))

	back := new(Model)
	require.NoError(t, json.Unmarshal(b, back))
	assert.True(t, m.Equal(back))
}
