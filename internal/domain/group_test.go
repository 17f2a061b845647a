package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGroup = `
{
	"file_length" : 1318934,
	"file_paths" : [
		"/data/Photos/ny/00097.jpg",
		"/data/Photos/concerts/00097.jpg"
	],
	"full_hash" : 306482972711412640985380379178329462852,
	"partial_hash" : 119482817874600850350240560092010233366
}`

func TestDuplicateGroup_Decode(t *testing.T) {
	var g DuplicateGroup
	require.NoError(t, json.Unmarshal([]byte(sampleGroup), &g))

	assert.Equal(t, uint64(1318934), g.Length)
	assert.Equal(t, []string{"/data/Photos/ny/00097.jpg", "/data/Photos/concerts/00097.jpg"}, g.Paths)
	require.NotNil(t, g.FullHash)
	require.NotNil(t, g.PartialHash)
	assert.Equal(t, "306482972711412640985380379178329462852", g.FullHash.String())
	assert.Equal(t, "119482817874600850350240560092010233366", g.PartialHash.String())
	assert.True(t, g.Eligible())
}

func TestDuplicateGroup_DecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"missing paths", `{"file_length": 1}`},
		{"missing length", `{"file_paths": ["a", "b"]}`},
		{"paths wrong type", `{"file_length": 1, "file_paths": "a"}`},
		{"negative length", `{"file_length": -1, "file_paths": []}`},
		{"hash as string", `{"file_length": 1, "file_paths": [], "full_hash": "12"}`},
		{"hash negative", `{"file_length": 1, "file_paths": [], "full_hash": -12}`},
		{"hash fraction", `{"file_length": 1, "file_paths": [], "full_hash": 1.5}`},
		{"hash overflow", `{"file_length": 1, "file_paths": [], "full_hash": 340282366920938463463374607431768211456}`},
		{"not an object", `"field1"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var g DuplicateGroup
			assert.Error(t, json.Unmarshal([]byte(tt.json), &g))
		})
	}
}

func TestDuplicateGroup_NullHashes(t *testing.T) {
	var g DuplicateGroup
	require.NoError(t, json.Unmarshal([]byte(`{"file_length": 3, "file_paths": ["a", "b"], "full_hash": null}`), &g))
	assert.Nil(t, g.FullHash)
	assert.Nil(t, g.PartialHash)
	assert.False(t, g.HasHash())
}

func TestHash128_Bounds(t *testing.T) {
	max, err := ParseHash128("340282366920938463463374607431768211455")
	require.NoError(t, err)
	assert.Equal(t, Hash128{Hi: ^uint64(0), Lo: ^uint64(0)}, max)

	small, err := ParseHash128("42")
	require.NoError(t, err)
	assert.Equal(t, Hash128{Lo: 42}, small)

	b, err := json.Marshal(max)
	require.NoError(t, err)
	assert.Equal(t, "340282366920938463463374607431768211455", string(b))
}

func TestDuplicateGroup_Eligibility(t *testing.T) {
	h := &Hash128{Lo: 1}
	tests := []struct {
		name   string
		group  DuplicateGroup
		ok     bool
		reason string
	}{
		{"two paths full hash", DuplicateGroup{Paths: []string{"a", "b"}, FullHash: h}, true, ""},
		{"two paths partial hash", DuplicateGroup{Paths: []string{"a", "b"}, PartialHash: h}, true, ""},
		{"single path", DuplicateGroup{Paths: []string{"a"}, FullHash: h}, false, SkipSinglePath},
		{"no paths", DuplicateGroup{FullHash: h}, false, SkipSinglePath},
		{"no hash", DuplicateGroup{Paths: []string{"a", "b"}}, false, SkipNoHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := tt.group.Eligibility()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}
