package helpers

import (
	"bytes"
	"encoding/json"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"golang.org/x/exp/slices"
)

// AsJSON is just a shortcut for calling json.Marshal and taking only the first result.
func AsJSON(value interface{}) []byte {
	ret, _ := json.Marshal(value)
	return ret
}

// AsJSONString calls json.Marshal and returns the result as a string.
func AsJSONString(value interface{}) string { return string(AsJSON(value)) }

// CanonicalJSON serializes a JSON value so that object properties are alphabetized at every
// level. Two values that are Equal always produce identical output.
func CanonicalJSON(value ldvalue.Value) []byte {
	w := jwriter.NewWriter()
	writeCanonical(&w, value)
	return w.Bytes()
}

// CanonicalizedJSONString is CanonicalJSON returned as a string, which makes it easier for a
// human reader to find a property.
func CanonicalizedJSONString(value ldvalue.Value) string {
	return string(CanonicalJSON(value))
}

// IndentedCanonicalJSON is CanonicalJSON reformatted with the given indent and a trailing
// newline, which is the layout used for files that are checked into source control.
func IndentedCanonicalJSON(value ldvalue.Value, indent string) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, CanonicalJSON(value), "", indent); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func writeCanonical(w *jwriter.Writer, value ldvalue.Value) {
	switch value.Type() {
	case ldvalue.ObjectType:
		keys := value.Keys(nil)
		slices.Sort(keys)
		obj := w.Object()
		for _, k := range keys {
			writeCanonical(obj.Name(k), value.GetByKey(k))
		}
		obj.End()
	case ldvalue.ArrayType:
		arr := w.Array()
		for i := 0; i < value.Count(); i++ {
			writeCanonical(w, value.GetByIndex(i))
		}
		arr.End()
	default:
		value.WriteToJSONWriter(w)
	}
}
