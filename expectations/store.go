package expectations

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/launchdarkly/go-expectations/framework/jsonfile"
	"github.com/launchdarkly/go-expectations/framework/opt"
)

// Group holds the recorded values under one top key, by sub key.
type Group map[string]ldvalue.Value

// Document is the parsed content of an expectation file, by top key.
type Document map[string]Group

// LoadDocument reads and validates the expectation file at path. A missing or empty file, or one
// that contains only a JSON null, is an empty document.
func LoadDocument(path string) (Document, error) {
	value, err := jsonfile.Read(path)
	if err != nil {
		return nil, err
	}
	return ValidateDocument(path, value.OrElse(ldvalue.Null()))
}

// ValidateDocument checks that root has the shape of an expectation document and converts it.
// The path is only used in error messages.
func ValidateDocument(path string, root ldvalue.Value) (Document, error) {
	switch root.Type() {
	case ldvalue.NullType:
		return Document{}, nil
	case ldvalue.ObjectType:
	default:
		return nil, &MalformedStoreError{Path: path}
	}
	topKeys := root.Keys(nil)
	slices.Sort(topKeys)
	doc := make(Document, len(topKeys))
	for _, topKey := range topKeys {
		groupValue := root.GetByKey(topKey)
		if groupValue.Type() != ldvalue.ObjectType {
			return nil, &MalformedStoreError{Path: path, TopKey: opt.Some(topKey)}
		}
		subKeys := groupValue.Keys(nil)
		group := make(Group, len(subKeys))
		for _, subKey := range subKeys {
			group[subKey] = groupValue.GetByKey(subKey)
		}
		doc[topKey] = group
	}
	return doc, nil
}

// Lookup returns the value recorded under keys, or None if there is none. A recorded JSON null
// is Some(ldvalue.Null()).
func (d Document) Lookup(keys ResolvedKeys) opt.Maybe[ldvalue.Value] {
	group, ok := d[keys.TopKey]
	if !ok {
		return opt.None[ldvalue.Value]()
	}
	value, ok := group[keys.SubKey]
	return opt.FromOK(value, ok)
}

// Upsert returns a partial document containing only keys.TopKey, whose group is the existing
// group with value set at keys.SubKey. The receiver is not modified.
func (d Document) Upsert(keys ResolvedKeys, value ldvalue.Value) Document {
	existing := d[keys.TopKey]
	group := make(Group, len(existing)+1)
	for subKey, v := range existing {
		group[subKey] = v
	}
	group[keys.SubKey] = value
	return Document{keys.TopKey: group}
}

// Merge writes every group of d into the expectation file at path, replacing those top keys
// wholesale and leaving all other top keys in the file as they were.
func (d Document) Merge(path string) error {
	properties := make(map[string]ldvalue.Value, len(d))
	for topKey, group := range d {
		properties[topKey] = group.AsValue()
	}
	return jsonfile.MergeTopLevel(path, properties)
}

// TopKeys returns the top keys in sorted order.
func (d Document) TopKeys() []string {
	keys := maps.Keys(d)
	slices.Sort(keys)
	return keys
}

// SubKeys returns the sub keys in sorted order.
func (g Group) SubKeys() []string {
	keys := maps.Keys(g)
	slices.Sort(keys)
	return keys
}

// AsValue converts the group to a JSON object value.
func (g Group) AsValue() ldvalue.Value {
	builder := ldvalue.ObjectBuild()
	for subKey, value := range g {
		builder.Set(subKey, value)
	}
	return builder.Build()
}
