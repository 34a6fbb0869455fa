package expectations

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/launchdarkly/go-expectations/framework/helpers"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem() //nolint:gochecknoglobals

// CaptureOutput calls fn with inputs and returns what it produced, in the form that gets compared
// against an expectation.
//
// Each input is passed as-is if it is assignable to the parameter type. An ldvalue.Value or
// json.RawMessage input is decoded into the parameter type, so inputs that were read from a data
// file can be used with functions that take ordinary Go types; numbers are converted between
// numeric types, and nil becomes the zero value. Variadic functions take any number of trailing
// inputs.
//
// If fn returns a non-nil error as its last result, or panics, the output is the string
// "<error type>: <message>", so that failures can be recorded like any other output. Otherwise
// the output is the single non-error result, or a slice if there are several, or nil if there
// are none.
//
// An error is returned only if fn cannot be called with these inputs.
func CaptureOutput(fn interface{}, inputs ...interface{}) (output interface{}, err error) {
	fnValue := reflect.ValueOf(fn)
	if fnValue.Kind() != reflect.Func || fnValue.IsNil() {
		return nil, &InvalidConfigError{Reason: fmt.Sprintf("expected a function to call but got %T", fn)}
	}
	args, err := buildArgs(fnValue.Type(), inputs)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				output = describeError(e)
			} else {
				output = fmt.Sprintf("panic: %v", r)
			}
			err = nil
		}
	}()
	return outputFromResults(fnValue.Type(), fnValue.Call(args)), nil
}

func buildArgs(fnType reflect.Type, inputs []interface{}) ([]reflect.Value, error) {
	numIn := fnType.NumIn()
	fixed := numIn
	if fnType.IsVariadic() {
		fixed--
		if len(inputs) < fixed {
			return nil, arityError(fnType, len(inputs))
		}
	} else if len(inputs) != numIn {
		return nil, arityError(fnType, len(inputs))
	}
	args := make([]reflect.Value, 0, len(inputs))
	for i, input := range inputs {
		var paramType reflect.Type
		if i < fixed {
			paramType = fnType.In(i)
		} else {
			paramType = fnType.In(numIn - 1).Elem()
		}
		arg, err := convertInput(input, paramType)
		if err != nil {
			return nil, &InvalidConfigError{Reason: fmt.Sprintf("cannot use input %d as %s: %s", i, paramType, err)}
		}
		args = append(args, arg)
	}
	return args, nil
}

func arityError(fnType reflect.Type, got int) error {
	return &InvalidConfigError{
		Reason: fmt.Sprintf("function of type %s cannot be called with %d input(s)", fnType, got),
	}
}

func convertInput(input interface{}, paramType reflect.Type) (reflect.Value, error) {
	if input == nil {
		return reflect.Zero(paramType), nil
	}
	inputValue := reflect.ValueOf(input)
	if inputValue.Type().AssignableTo(paramType) {
		return inputValue, nil
	}
	switch v := input.(type) {
	case ldvalue.Value:
		return decodeInto([]byte(v.JSONString()), paramType)
	case json.RawMessage:
		return decodeInto(v, paramType)
	}
	if isNumeric(inputValue.Kind()) && isNumeric(paramType.Kind()) {
		return inputValue.Convert(paramType), nil
	}
	return reflect.Value{}, fmt.Errorf("value of type %T is not assignable", input)
}

func decodeInto(data []byte, paramType reflect.Type) (reflect.Value, error) {
	target := reflect.New(paramType)
	if err := json.Unmarshal(data, target.Interface()); err != nil {
		return reflect.Value{}, err
	}
	return target.Elem(), nil
}

func isNumeric(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func outputFromResults(fnType reflect.Type, results []reflect.Value) interface{} {
	if n := len(results); n > 0 && fnType.Out(n-1) == errorType {
		if errValue := results[n-1]; !errValue.IsNil() {
			return describeError(errValue.Interface().(error))
		}
		results = results[:n-1]
	}
	switch len(results) {
	case 0:
		return nil
	case 1:
		return results[0].Interface()
	default:
		values := make([]interface{}, 0, len(results))
		for _, r := range results {
			values = append(values, r.Interface())
		}
		return values
	}
}

func describeError(err error) string {
	return fmt.Sprintf("%s: %s", strings.TrimPrefix(fmt.Sprintf("%T", err), "*"), err)
}

// CompareOutput calls fn with inputs, as described for CaptureOutput, and compares the output
// against the expectation under keys as described for CompareExpectation. If keys.TopKey was
// not specified, it is FunctionKey(fn).
func CompareOutput(keys Keys, fn interface{}, inputs []interface{}, options ...Option) error {
	o, err := buildCompareOptions(options)
	if err != nil {
		return err
	}
	return compareOutputWithOptions(keys, fn, inputs, o)
}

func compareOutputWithOptions(keys Keys, fn interface{}, inputs []interface{}, o CompareOptions) error {
	if keys.TopKey.IsZero() {
		keys.TopKey = FunctionKey(fn)
	}
	output, err := CaptureOutput(fn, inputs...)
	if err != nil {
		return err
	}
	return compareWithOptions(keys, output, o)
}

// AssertOutput is CompareOutput for use in a test: any error is reported with t.Errorf, and the
// return value is true if there was none.
func AssertOutput(t helpers.TestContext, keys Keys, fn interface{}, inputs []interface{}, options ...Option) bool {
	helpers.MarkHelper(t)
	if err := CompareOutput(keys, fn, inputs, options...); err != nil {
		t.Errorf("%s", err)
		return false
	}
	return true
}
