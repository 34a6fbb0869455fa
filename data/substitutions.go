package data

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Params is one set of parameter values that a case file was expanded with.
type Params map[string]ldvalue.Value

// String returns the parameters as "(A=1,B=x)", in name order, or "" if there are none.
func (p Params) String() string {
	if len(p) == 0 {
		return ""
	}
	names := maps.Keys(p)
	slices.Sort(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		value := p[name]
		if value.IsString() {
			parts = append(parts, name+"="+value.StringValue())
		} else {
			parts = append(parts, name+"="+value.JSONString())
		}
	}
	return "(" + strings.Join(parts, ",") + ")"
}

type expansion struct {
	data   []byte
	params Params
}

// expandSubstitutions returns one copy of the file content per parameter set, with constants and
// parameters replaced. A file with no parameters produces one copy.
func expandSubstitutions(originalData []byte) ([]expansion, error) {
	var substs struct {
		Constants  Params            `json:"constants"`
		Parameters []json.RawMessage `json:"parameters"`
	}
	if err := ParseJSONOrYAML(originalData, &substs); err != nil {
		// a bare list of cases has nowhere to declare substitutions
		return []expansion{{data: originalData}}, nil //nolint:nilerr
	}
	if len(substs.Constants) == 0 && len(substs.Parameters) == 0 {
		return []expansion{{data: originalData}}, nil
	}
	parameterSets, err := makeParameterPermutations(substs.Parameters)
	if err != nil {
		return nil, err
	}
	if len(parameterSets) == 0 {
		return []expansion{{data: replaceVariables(originalData, substs.Constants)}}, nil
	}
	ret := make([]expansion, 0, len(parameterSets))
	for _, paramsSet := range parameterSets {
		// constants can refer to parameters and vice versa
		transformed := replaceVariables(originalData, substs.Constants)
		transformed = replaceVariables(transformed, paramsSet)
		transformed = replaceVariables(transformed, substs.Constants)
		ret = append(ret, expansion{data: transformed, params: paramsSet})
	}
	return ret, nil
}

func makeParameterPermutations(paramsData []json.RawMessage) ([]Params, error) {
	if len(paramsData) == 0 {
		return nil, nil
	}
	allData, _ := json.Marshal(paramsData)
	switch ldvalue.Parse(paramsData[0]).Type() {
	case ldvalue.ObjectType:
		var list []Params
		if err := json.Unmarshal(allData, &list); err != nil {
			return nil, err
		}
		return list, nil
	case ldvalue.ArrayType:
	default:
		return nil, errors.New("unable to parse parameters - must be an array of objects or an array of arrays")
	}
	var lists [][]Params
	if err := json.Unmarshal(allData, &lists); err != nil {
		return nil, err
	}
	for _, list := range lists {
		if len(list) == 0 {
			return nil, errors.New("unable to parse parameters - a list of parameter sets cannot be empty")
		}
	}

	// Odometer order: the first list varies fastest.
	indices := make([]int, len(lists))
	var result []Params
	for {
		merged := make(Params)
		for i, list := range lists {
			for k, v := range list[indices[i]] {
				merged[k] = v
			}
		}
		result = append(result, merged)
		pos := 0
		for pos < len(lists) {
			indices[pos]++
			if indices[pos] < len(lists[pos]) {
				break
			}
			indices[pos] = 0
			pos++
		}
		if pos == len(lists) {
			return result, nil
		}
	}
}

func replaceVariables(originalData []byte, substs Params) []byte {
	str := string(originalData)
	str = strings.ReplaceAll(str, `\u003c`, "<") // json.Marshal escapes these
	str = strings.ReplaceAll(str, `\u003e`, ">")
	for name, value := range substs {
		typedValueStr := value.JSONString()
		str = strings.ReplaceAll(str, `"<`+name+`>"`, typedValueStr)
		interpolatedValueStr := typedValueStr
		if value.IsString() {
			interpolatedValueStr = value.StringValue()
		}
		str = strings.ReplaceAll(str, "<"+name+">", interpolatedValueStr)
	}
	return []byte(str)
}
