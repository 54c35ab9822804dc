package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedRecords(t *testing.T) {
	t.Run("Fixed Users", func(t *testing.T) {
		records := SeedRecords()
		require.Len(t, records, 3)

		assert.Equal(t, Record{FirstName: "Syed", LastName: "Rayhan"}, records[0])
		assert.Equal(t, Record{FirstName: "Sameer", LastName: "Akmal"}, records[1])
		assert.Equal(t, Record{FirstName: "Hassan", LastName: "Khan"}, records[2])
	})

	t.Run("Fresh Slice Per Call", func(t *testing.T) {
		first := SeedRecords()
		first[0].FirstName = "changed"

		second := SeedRecords()
		assert.Equal(t, "Syed", second[0].FirstName)
	})

	t.Run("Both Fields Present", func(t *testing.T) {
		for _, r := range SeedRecords() {
			assert.NotEmpty(t, r.FirstName)
			assert.NotEmpty(t, r.LastName)
		}
	})
}

func TestRecordFieldNames(t *testing.T) {
	data, err := json.Marshal(Record{FirstName: "Syed", LastName: "Rayhan"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"firstName":"Syed","lastName":"Rayhan"}`, string(data))
}

func TestDocuments(t *testing.T) {
	records := SeedRecords()
	docs := Documents(records)

	require.Len(t, docs, len(records))
	for i, doc := range docs {
		rec, ok := doc.(Record)
		require.True(t, ok)
		assert.Equal(t, records[i], rec)
	}

	assert.Empty(t, Documents(nil))
}
