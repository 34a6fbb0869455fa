package expectations

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"runtime"
	"strings"

	"github.com/launchdarkly/go-expectations/framework/opt"
)

const (
	topKeyPart = "topKey"
	subKeyPart = "subKey"

	tagString   = "string"
	tagFunction = "function"
	tagDescribe = "describe"
	tagContext  = "context"
)

// Closures are named "func1", "func2", and so on by the compiler, and closures nested in them
// get plain numeric suffixes.
var anonymousFunctionName = regexp.MustCompile(`^(func)?[0-9]+$`)

// TopKey describes the first-level key of an expectation. It is either a plain string (see Key)
// or exactly one of the tags Function, Describe, or Context. A TopKey with no tags, or with
// more than one, fails to resolve.
type TopKey struct {
	literal      opt.Maybe[string]
	functionName string

	// Function resolves to the name of the function, as reported by the Go runtime. Anonymous
	// functions are rejected because their generated names are not stable.
	Function interface{} `json:"-"`

	// Describe resolves to its own value; it is meant for the name of a group of tests.
	Describe opt.Maybe[string] `json:"describe"`

	// Context resolves to its own value.
	Context opt.Maybe[string] `json:"context"`
}

// Key returns a TopKey that resolves to the given string.
func Key(name string) TopKey {
	return TopKey{literal: opt.Some(name)}
}

// FunctionKey returns a TopKey that resolves to the name of fn.
func FunctionKey(fn interface{}) TopKey {
	return TopKey{Function: fn}
}

// NamedFunctionKey is like FunctionKey, but uses an explicit name instead of asking the runtime.
// This is the way to key an anonymous function.
func NamedFunctionKey(name string, fn interface{}) TopKey {
	return TopKey{Function: fn, functionName: name}
}

// DescribeKey returns a TopKey with the Describe tag.
func DescribeKey(name string) TopKey {
	return TopKey{Describe: opt.Some(name)}
}

// ContextKey returns a TopKey with the Context tag.
func ContextKey(name string) TopKey {
	return TopKey{Context: opt.Some(name)}
}

// IsZero returns true if no form of key was specified at all.
func (k TopKey) IsZero() bool {
	return len(k.tags()) == 0
}

func (k TopKey) tags() []string {
	var tags []string
	if k.literal.IsDefined() {
		tags = append(tags, tagString)
	}
	if k.Function != nil {
		tags = append(tags, tagFunction)
	}
	if k.Describe.IsDefined() {
		tags = append(tags, tagDescribe)
	}
	if k.Context.IsDefined() {
		tags = append(tags, tagContext)
	}
	return tags
}

// Resolve returns the string that this TopKey stands for. It does not check for emptiness; see
// Keys.Resolve.
func (k TopKey) Resolve() (string, error) {
	tags := k.tags()
	if len(tags) == 0 {
		return "", &InvalidKeyError{Part: topKeyPart, Reason: "expectation top key needs a valid key type property"}
	}
	if len(tags) > 1 {
		return "", &InvalidKeyError{
			Part:   topKeyPart,
			Reason: fmt.Sprintf("expectation top key can only have one key but got %d: %s", len(tags), strings.Join(tags, ", ")),
		}
	}
	switch tags[0] {
	case tagFunction:
		return k.resolveFunction()
	case tagDescribe:
		return k.Describe.Value(), nil
	case tagContext:
		return k.Context.Value(), nil
	default:
		return k.literal.Value(), nil
	}
}

func (k TopKey) resolveFunction() (string, error) {
	v := reflect.ValueOf(k.Function)
	if v.Kind() != reflect.Func || v.IsNil() {
		return "", &InvalidKeyError{
			Part:   topKeyPart,
			Reason: fmt.Sprintf("expectation function top key must be a non-nil function but got %T", k.Function),
		}
	}
	if k.functionName != "" {
		return k.functionName, nil
	}
	name := FunctionName(k.Function)
	if name == "" {
		return "", &InvalidKeyError{
			Part: topKeyPart,
			Reason: fmt.Sprintf("got expectation key function that doesn't have a name (%s); the function key"+
				" cannot use anonymous functions, they must be named", runtimeFunctionName(v)),
		}
	}
	return name, nil
}

func (k TopKey) String() string {
	if name, err := k.Resolve(); err == nil {
		return name
	}
	return fmt.Sprintf("[%s]", strings.Join(k.tags(), ","))
}

// MarshalJSON writes a plain-string key as a JSON string and a tagged key as an object. A
// Function tag is written as its resolved name, since functions have no JSON form. A key with
// more than one tag has no faithful JSON form and fails with the same error as Resolve.
func (k TopKey) MarshalJSON() ([]byte, error) {
	if len(k.tags()) > 1 {
		_, err := k.Resolve()
		return nil, err
	}
	if name, ok := k.literal.Get(); ok {
		return json.Marshal(name)
	}
	obj := make(map[string]interface{})
	if k.Function != nil {
		name, _ := k.resolveFunction()
		obj[tagFunction] = name
	}
	if k.Describe.IsDefined() {
		obj[tagDescribe] = k.Describe
	}
	if k.Context.IsDefined() {
		obj[tagContext] = k.Context
	}
	return json.Marshal(obj)
}

// UnmarshalJSON accepts either a JSON string, which becomes a plain key, or an object with a
// "describe" or "context" property.
func (k *TopKey) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '"' {
		var name string
		if err := json.Unmarshal(trimmed, &name); err != nil {
			return err
		}
		*k = Key(name)
		return nil
	}
	var fields struct {
		Describe opt.Maybe[string] `json:"describe"`
		Context  opt.Maybe[string] `json:"context"`
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*k = TopKey{Describe: fields.Describe, Context: fields.Context}
	return nil
}

// FunctionName returns the unqualified name of a named function or method, or "" if fn is not a
// function or is anonymous.
func FunctionName(fn interface{}) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	name := runtimeFunctionName(v)
	name = strings.TrimSuffix(name, "-fm") // method values
	if lastSlash := strings.LastIndex(name, "/"); lastSlash >= 0 {
		name = name[lastSlash+1:]
	}
	name = strings.ReplaceAll(name, "[...]", "") // generic instantiations
	parts := strings.Split(name, ".")
	if len(parts) < 2 {
		return ""
	}
	last := parts[len(parts)-1]
	if last == "" || anonymousFunctionName.MatchString(last) {
		return ""
	}
	return last
}

func runtimeFunctionName(v reflect.Value) string {
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return ""
	}
	return f.Name()
}

// Keys identifies one recorded expectation.
type Keys struct {
	TopKey TopKey `json:"topKey"`
	SubKey string `json:"subKey"`
}

// Resolve turns the key descriptors into plain strings, failing if either comes out empty.
func (k Keys) Resolve() (ResolvedKeys, error) {
	topKey, err := k.TopKey.Resolve()
	if err != nil {
		return ResolvedKeys{}, err
	}
	if topKey == "" {
		return ResolvedKeys{}, &InvalidKeyError{Part: topKeyPart, Reason: "got an empty topKey from expectation keys"}
	}
	if k.SubKey == "" {
		return ResolvedKeys{}, &InvalidKeyError{Part: subKeyPart, Reason: "got an empty subKey from expectation keys"}
	}
	return ResolvedKeys{TopKey: topKey, SubKey: k.SubKey}, nil
}

// ResolvedKeys is the plain-string form of Keys.
type ResolvedKeys struct {
	TopKey string
	SubKey string
}

func (r ResolvedKeys) String() string {
	return fmt.Sprintf("'%s' => '%s'", r.TopKey, r.SubKey)
}
