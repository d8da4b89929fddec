package gitana

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnhance(t *testing.T) {
	raw := Object{
		"_doc":  "abc",
		"_type": "my:item",
		"_paths": map[string]interface{}{
			"r2": "/b/path",
			"r1": "/a/path",
		},
	}
	enhanced := Enhance(raw)
	assert.Equal(t, "abc", enhanced["_id"])
	assert.Equal(t, "/a/path", enhanced["_filePath"])
	assert.Equal(t, "my:item", enhanced["_typeQName"])
	assert.NotContains(t, raw, "_id", "the raw record must be left untouched")

	raw["_filePath"] = "/explicit"
	assert.Equal(t, "/explicit", Enhance(raw)["_filePath"])

	bare := Enhance(Object{"title": "x"})
	assert.Equal(t, Object{"title": "x"}, bare)

	js, err := MarshalIndent(Object{"_doc": "abc"})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"_doc\": \"abc\"\n}", js)
}

func TestMarshalNestedObject(t *testing.T) {
	node := Enhance(Object{
		"_doc":   "a",
		"title":  "x",
		"_paths": map[string]interface{}{"r1": "/a"},
		"tags":   []interface{}{"one", map[string]interface{}{"k": "v"}},
	})
	js, err := MarshalIndent(node)
	require.NoError(t, err)
	assert.Contains(t, js, `"_filePath": "/a"`)
	assert.Contains(t, js, `"k": "v"`)

	var back Object
	require.NoError(t, json.UnmarshalFromString(js, &back))
	assert.Equal(t, "a", back.ID())
	assert.Equal(t, []string{"/a"}, back.Paths())
}
