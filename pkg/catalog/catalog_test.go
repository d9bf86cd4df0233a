package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	cat, err := LoadFile(filepath.Join("testdata", "species.json"))
	require.NoError(t, err)

	assert.Equal(t, 3, cat.Len())

	sp := cat.Get(1)
	require.NotNil(t, sp)
	assert.Equal(t, "Sproutle", sp.Name)
	assert.Equal(t, []string{"Grass"}, sp.Types)
	require.Len(t, sp.EvolvesTo, 1)
	assert.Equal(t, 2, sp.EvolvesTo[0].ID)
	assert.Equal(t, "Level 16", sp.EvolvesTo[0].Condition)
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join("testdata", "does-not-exist.json"))
	require.Error(t, err)
}

func TestLoadFile_MalformedJSON(t *testing.T) {
	_, err := LoadFile(filepath.Join("testdata", "malformed.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestCatalog_GetUnknownID(t *testing.T) {
	cat := New([]Species{{ID: 1, Name: "a"}})

	assert.Nil(t, cat.Get(999))
}

func TestCatalog_AllPreservesOrder(t *testing.T) {
	cat := New([]Species{{ID: 5}, {ID: 1}, {ID: 3}})

	ids := make([]int, 0, cat.Len())
	for _, sp := range cat.All() {
		ids = append(ids, sp.ID)
	}
	assert.Equal(t, []int{5, 1, 3}, ids)
}

func TestCatalog_DuplicateIDKeepsLast(t *testing.T) {
	cat := New([]Species{{ID: 1, Name: "first"}, {ID: 1, Name: "second"}})

	require.NotNil(t, cat.Get(1))
	assert.Equal(t, "second", cat.Get(1).Name)
}
