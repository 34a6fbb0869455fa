package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/launchdarkly/go-expectations/expectations"
)

var caseFileExtensions = []string{".json", ".yaml", ".yml"} //nolint:gochecknoglobals

// CaseData is one case as it appears in a case file. A case has either a single Input or a list
// of Inputs, or neither if the function takes no parameters.
type CaseData struct {
	Name   string          `json:"name"`
	Input  json.RawMessage `json:"input,omitempty"`
	Inputs []ldvalue.Value `json:"inputs,omitempty"`
	Skip   bool            `json:"skip,omitempty"`
	Only   bool            `json:"only,omitempty"`
}

// CaseFile is the parsed and expanded content of a case file.
type CaseFile struct {
	Path  string
	Key   string
	Cases []CaseData
}

type caseFileContent struct {
	Key   string     `json:"key"`
	Cases []CaseData `json:"cases"`
}

func parseCaseFileContent(data []byte) (caseFileContent, error) {
	var content caseFileContent
	if err := ParseJSONOrYAML(data, &content); err == nil {
		return content, nil
	}
	var list []CaseData
	if err := ParseJSONOrYAML(data, &list); err != nil {
		return caseFileContent{}, err
	}
	return caseFileContent{Cases: list}, nil
}

// LoadCaseFile reads a JSON or YAML case file, expanding any constants and parameters.
func LoadCaseFile(path string) (CaseFile, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return CaseFile{}, fmt.Errorf("failed to read %q: %w", path, err)
	}
	// Placeholders for non-string values can make the unexpanded content unparseable; in that
	// case the names are assumed to contain placeholders.
	raw, _ := parseCaseFileContent(data)
	expansions, err := expandSubstitutions(data)
	if err != nil {
		return CaseFile{}, fmt.Errorf("error reading %q: %w", path, err)
	}

	ret := CaseFile{Path: path}
	seen := make(map[string]bool)
	for i, exp := range expansions {
		content, err := parseCaseFileContent(exp.data)
		if err != nil {
			return CaseFile{}, fmt.Errorf("error parsing %q %s: %w", path, exp.params, err)
		}
		if i == 0 {
			ret.Key = content.Key
		} else if content.Key != ret.Key {
			return CaseFile{}, fmt.Errorf("error reading %q: key must not vary between parameter sets", path)
		}
		for j, c := range content.Cases {
			if c.Name == "" {
				return CaseFile{}, fmt.Errorf("error reading %q: case %d has no name", path, j)
			}
			if len(c.Input) != 0 && len(c.Inputs) != 0 {
				return CaseFile{}, fmt.Errorf("error reading %q: case %q has both input and inputs", path, c.Name)
			}
			// A name with no placeholders would be the same for every parameter set.
			if len(exp.params) != 0 && j < len(raw.Cases) && raw.Cases[j].Name == c.Name {
				c.Name += " " + exp.params.String()
			}
			if seen[c.Name] {
				return CaseFile{}, fmt.Errorf("error reading %q: duplicate case name %q", path, c.Name)
			}
			seen[c.Name] = true
			ret.Cases = append(ret.Cases, c)
		}
	}
	return ret, nil
}

// LoadCaseDir reads every file in dir with a .json, .yaml, or .yml extension as a case file, in
// name order. Subdirectories are not searched.
func LoadCaseDir(dir string) ([]CaseFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var ret []CaseFile
	for _, entry := range entries {
		if entry.IsDir() || !hasCaseFileExtension(entry.Name()) {
			continue
		}
		f, err := LoadCaseFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		ret = append(ret, f)
	}
	return ret, nil
}

func hasCaseFileExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range caseFileExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// RunnerCases converts the file's cases for use with the expectations case runners. Inputs are passed
// as ldvalue.Value, which the runners decode into the function's parameter types.
func (f CaseFile) RunnerCases() []expectations.Case {
	ret := make([]expectations.Case, 0, len(f.Cases))
	for _, c := range f.Cases {
		var inputs []interface{}
		if len(c.Input) != 0 {
			inputs = []interface{}{ldvalue.Parse(c.Input)}
		} else {
			inputs = make([]interface{}, 0, len(c.Inputs))
			for _, v := range c.Inputs {
				inputs = append(inputs, v)
			}
		}
		ret = append(ret, expectations.Case{Name: c.Name, Inputs: inputs, Skip: c.Skip, Only: c.Only})
	}
	return ret
}

// Options returns the case runner options implied by the file, which is just its key if it has
// one.
func (f CaseFile) Options() []expectations.CasesOption {
	if f.Key == "" {
		return nil
	}
	return []expectations.CasesOption{expectations.TestKey(f.Key)}
}

// RunCaseFile loads a case file and runs its cases against fn with expectations.RunCases. Any
// options given here are applied after the file's own, so they can override its key.
func RunCaseFile[S expectations.Scope[S]](t S, fn interface{}, path string, options ...expectations.CasesOption) error {
	t.Helper()
	f, err := LoadCaseFile(path)
	if err != nil {
		return err
	}
	return expectations.RunCases(t, fn, f.RunnerCases(), append(f.Options(), options...)...)
}
