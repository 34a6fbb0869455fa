package data

import (
	"testing"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandSubstitutions(t *testing.T) {
	expectedValues := `[
  { "abc": { "key_for_abc": 1 } },
  { "def": { "key_for_def": "on" } }
]`

	for _, params := range []struct {
		desc  string
		input string
	}{
		{
			"JSON",
			`{
  "parameters": [
    { "THING_NAME": "abc", "THING_VALUE": 1 },
    { "THING_NAME": "def", "THING_VALUE": "on" }
  ],
  "values": {
    "<THING_NAME>": {
      "key_for_<THING_NAME>": "<THING_VALUE>"
    }
  }
}`,
		},
		{
			"YAML",
			`---
parameters:
  - THING_NAME: abc
    THING_VALUE: 1
  - THING_NAME: def
    THING_VALUE: "on"
values:
  "<THING_NAME>":
    key_for_<THING_NAME>: "<THING_VALUE>"
`,
		},
	} {
		t.Run(params.desc, func(t *testing.T) {
			expanded, err := expandSubstitutions([]byte(params.input))
			require.NoError(t, err)
			valuesList := ldvalue.ArrayBuild()
			for _, exp := range expanded {
				var s testValuesStruct
				require.NoError(t, ParseJSONOrYAML(exp.data, &s))
				valuesList.Add(s.Values)
			}
			assert.JSONEq(t, expectedValues, valuesList.Build().JSONString())
		})
	}
}

func TestExpandSubstitutionsWithConstantsOnly(t *testing.T) {
	expanded, err := expandSubstitutions([]byte(`{"constants": {"X": "y"}, "values": {"a": "<X>-<X>"}}`))
	require.NoError(t, err)
	require.Len(t, expanded, 1)
	assert.Len(t, expanded[0].params, 0)

	var s testValuesStruct
	require.NoError(t, ParseJSONOrYAML(expanded[0].data, &s))
	assert.Equal(t, "y-y", s.Values.GetByKey("a").StringValue())
}

func TestExpandSubstitutionsWithoutSubstitutions(t *testing.T) {
	for _, input := range []string{`{"values": 1}`, `[{"name": "a"}]`, "- name: a\n"} {
		expanded, err := expandSubstitutions([]byte(input))
		require.NoError(t, err)
		require.Len(t, expanded, 1)
		assert.Equal(t, input, string(expanded[0].data))
	}
}

func TestExpandSubstitutionsWithPermutations(t *testing.T) {
	input := `---
parameters:
  -
    - A: 10
    - A: 11
  -
    - B: 20
    - B: 21
    - B: 22
  -
    - C: 30
    - C: 31

values:
  abc: "<A>,<B>,<C>"
`
	expectedValues := []string{
		"10,20,30", "11,20,30",
		"10,21,30", "11,21,30",
		"10,22,30", "11,22,30",
		"10,20,31", "11,20,31",
		"10,21,31", "11,21,31",
		"10,22,31", "11,22,31",
	}

	expanded, err := expandSubstitutions([]byte(input))
	require.NoError(t, err)
	var actualValues []string
	for _, exp := range expanded {
		var s testValuesStruct
		require.NoError(t, ParseJSONOrYAML(exp.data, &s))
		actualValues = append(actualValues, s.Values.GetByKey("abc").StringValue())
	}
	assert.Equal(t, expectedValues, actualValues)
}

func TestExpandSubstitutionsRejectsBadParameters(t *testing.T) {
	for _, input := range []string{
		`{"parameters": [1, 2]}`,
		`{"parameters": [[{"A": 1}], []]}`,
	} {
		_, err := expandSubstitutions([]byte(input))
		assert.Error(t, err, input)
	}
}

func TestParamsString(t *testing.T) {
	assert.Equal(t, "", Params{}.String())
	assert.Equal(t, "(A=1,B=x)", Params{"B": ldvalue.String("x"), "A": ldvalue.Int(1)}.String())
	assert.Equal(t, `(L=["x"],N=null)`, Params{"L": ldvalue.ArrayOf(ldvalue.String("x")), "N": ldvalue.Null()}.String())
}
