package callflag

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallFlagHas(t *testing.T) {
	assert.True(t, AllowCall.Has(AllowCall))
	assert.True(t, (AllowCall | AllowNotify).Has(AllowCall))
	assert.False(t, (AllowCall).Has(AllowCall|AllowNotify))
	assert.True(t, All.Has(ReadOnly))
}

func TestCallFlagString(t *testing.T) {
	cases := map[CallFlag]string{
		NoneFlag:               "None",
		All:                    "All",
		ReadStates:             "ReadStates",
		States:                 "States",
		ReadOnly:               "ReadOnly",
		States | AllowCall:     "ReadOnly, WriteStates",
		ReadOnly | AllowNotify: "ReadOnly, AllowNotify",
		States | AllowNotify:   "States, AllowNotify",
	}
	for f, want := range cases {
		assert.Equal(t, want, f.String())
	}
}

func TestFromString(t *testing.T) {
	cases := map[string]struct {
		flag CallFlag
		err  bool
	}{
		"None":                   {NoneFlag, false},
		"All":                    {All, false},
		"ReadStates":             {ReadStates, false},
		"States":                 {States, false},
		"ReadOnly":               {ReadOnly, false},
		"ReadOnly, WriteStates":  {States | AllowCall, false},
		"States, AllowCall":      {States | AllowCall, false},
		"AllowCall, States":      {States | AllowCall, false},
		"States, ReadOnly":       {States | AllowCall, false},
		" AllowCall,AllowNotify": {AllowNotify | AllowCall, false},
		"BlahBlah":               {NoneFlag, true},
		"States, All":            {NoneFlag, true},
		"ReadStates,,AllowCall":  {NoneFlag, true},
		"ReadStates;AllowCall":   {NoneFlag, true},
		"readstates":             {NoneFlag, true},
		"  All":                  {NoneFlag, true},
		"None, All":              {NoneFlag, true},
	}
	for s, want := range cases {
		f, err := FromString(s)
		if want.err {
			assert.Error(t, err, "input %q", s)
		} else {
			require.NoError(t, err, "input %q", s)
			assert.Equal(t, want.flag, f, "input %q", s)
		}
	}
}

func TestCallFlagJSONRoundTrip(t *testing.T) {
	for _, f := range []CallFlag{States, States | AllowNotify} {
		data, err := json.Marshal(f)
		require.NoError(t, err)
		var got CallFlag
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, f, got)
	}

	var f CallFlag
	assert.Error(t, f.UnmarshalJSON([]byte("42")))
	assert.Error(t, f.UnmarshalJSON([]byte(`"State"`)))
}
