package expectations

import (
	"path/filepath"
	"testing"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	m "github.com/launchdarkly/go-test-helpers/v2/matchers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDocument(t *testing.T) {
	t.Run("missing file is empty", func(t *testing.T) {
		doc, err := LoadDocument(filepath.Join(t.TempDir(), "missing.json"))
		require.NoError(t, err)
		assert.Len(t, doc, 0)
	})

	t.Run("empty file is empty", func(t *testing.T) {
		doc, err := LoadDocument(filepath.Join("testdata", "empty.json"))
		require.NoError(t, err)
		assert.Len(t, doc, 0)
	})

	t.Run("full file", func(t *testing.T) {
		doc, err := LoadDocument(filepath.Join("testdata", "full.json"))
		require.NoError(t, err)
		assert.Equal(t, []string{"topKey"}, doc.TopKeys())
		assert.Equal(t, []string{"subKey"}, doc["topKey"].SubKeys())
		assert.Equal(t, `"result"`, doc["topKey"]["subKey"].JSONString())
	})

	t.Run("root is a string", func(t *testing.T) {
		_, err := LoadDocument(filepath.Join("testdata", "non-object.json"))
		var storeErr *MalformedStoreError
		require.ErrorAs(t, err, &storeErr)
		assert.False(t, storeErr.TopKey.IsDefined())
		assert.Contains(t, err.Error(), "should contain an object")
	})

	t.Run("root is an array", func(t *testing.T) {
		_, err := LoadDocument(filepath.Join("testdata", "non-object-array.json"))
		var storeErr *MalformedStoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Contains(t, err.Error(), "should contain an object")
	})

	t.Run("group is not an object", func(t *testing.T) {
		_, err := LoadDocument(filepath.Join("testdata", "non-object-child.json"))
		var storeErr *MalformedStoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "bad", storeErr.TopKey.Value())
		assert.Contains(t, err.Error(), "'bad'")
		assert.Equal(t, MalformedStore, storeErr.Code())
	})
}

func TestValidateDocumentNull(t *testing.T) {
	doc, err := ValidateDocument("x.json", ldvalue.Null())
	require.NoError(t, err)
	assert.Len(t, doc, 0)
}

func TestDocumentLookup(t *testing.T) {
	doc := Document{
		"a": Group{
			"value": ldvalue.Int(1),
			"null":  ldvalue.Null(),
		},
	}

	value, ok := doc.Lookup(ResolvedKeys{TopKey: "a", SubKey: "value"}).Get()
	assert.True(t, ok)
	assert.Equal(t, 1, value.IntValue())

	stored := doc.Lookup(ResolvedKeys{TopKey: "a", SubKey: "null"})
	assert.True(t, stored.IsDefined())
	assert.True(t, stored.Value().IsNull())

	assert.False(t, doc.Lookup(ResolvedKeys{TopKey: "a", SubKey: "missing"}).IsDefined())
	assert.False(t, doc.Lookup(ResolvedKeys{TopKey: "missing", SubKey: "value"}).IsDefined())
}

func TestDocumentUpsertDoesNotModifyReceiver(t *testing.T) {
	doc := Document{
		"a": Group{"x": ldvalue.Int(1)},
		"b": Group{"y": ldvalue.Int(2)},
	}

	partial := doc.Upsert(ResolvedKeys{TopKey: "a", SubKey: "z"}, ldvalue.String("new"))

	assert.Equal(t, []string{"a"}, partial.TopKeys())
	assert.Equal(t, []string{"x", "z"}, partial["a"].SubKeys())
	assert.Equal(t, []string{"x"}, doc["a"].SubKeys())
}

func TestDocumentMergeLeavesOtherKeysAlone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	original := Document{
		"a": Group{"x": ldvalue.Int(1), "y": ldvalue.Bool(true)},
		"b": Group{"y": ldvalue.ArrayOf(ldvalue.Int(2))},
	}
	require.NoError(t, original.Merge(path))

	doc, err := LoadDocument(path)
	require.NoError(t, err)
	require.NoError(t, doc.Upsert(ResolvedKeys{TopKey: "a", SubKey: "z"}, ldvalue.String("new")).Merge(path))

	m.In(t).Assert(readFile(t, path), m.Equal(`{
    "a": {
        "x": 1,
        "y": true,
        "z": "new"
    },
    "b": {
        "y": [
            2
        ]
    }
}
`))
}

func TestGroupAsValue(t *testing.T) {
	g := Group{"b": ldvalue.Int(2), "a": ldvalue.Null()}
	assert.JSONEq(t, `{"a": null, "b": 2}`, g.AsValue().JSONString())
}
