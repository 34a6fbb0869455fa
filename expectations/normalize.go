package expectations

import (
	"encoding/json"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// Normalize converts a result into the JSON value it will have once it has been written to and
// read back from the expectation file. Both sides of every comparison go through this, so for
// instance a time.Time compares equal to the RFC 3339 string that was recorded for it, and
// fields omitted by their JSON tags never take part in a comparison.
//
// Values with no JSON representation (NaN, infinities, channels, functions) are rejected with an
// UnserializableResultError rather than being silently converted.
func Normalize(result interface{}) (ldvalue.Value, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return ldvalue.Null(), &UnserializableResultError{Err: err}
	}
	var value ldvalue.Value
	if err := json.Unmarshal(data, &value); err != nil {
		return ldvalue.Null(), &UnserializableResultError{Err: err}
	}
	return value, nil
}
