package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agriverify/internal/domain"
)

func TestSnapshot_IndexLookups(t *testing.T) {
	snap := registry()

	f, ok := snap.ByAccount("12345678901234")
	require.True(t, ok)
	assert.Equal(t, "F001", f.ID)

	f, ok = snap.ByAadhaar("123456789012")
	require.True(t, ok)
	assert.Equal(t, "F001", f.ID)

	f, ok = snap.ByPhone("8765432109")
	require.True(t, ok)
	assert.Equal(t, "F002", f.ID)

	_, ok = snap.ByAccount("0000000000")
	assert.False(t, ok)
}

func TestSnapshot_DuplicateIdentifierKeepsLast(t *testing.T) {
	snap := NewSnapshot([]*domain.Farmer{
		{ID: "F001", AccountNumber: "1111122222"},
		{ID: "F002", AccountNumber: "1111122222"},
	})

	f, ok := snap.ByAccount("1111122222")
	require.True(t, ok)
	assert.Equal(t, "F002", f.ID)
}

func TestSnapshot_EmptyIdentifiersNotIndexed(t *testing.T) {
	snap := NewSnapshot([]*domain.Farmer{{ID: "F001"}})

	_, ok := snap.ByAccount("")
	assert.False(t, ok)
	_, ok = snap.ByAadhaar("")
	assert.False(t, ok)
	_, ok = snap.ByPhone("")
	assert.False(t, ok)
	assert.Equal(t, 1, snap.Size())
}

func TestSnapshot_SimilarFarmers(t *testing.T) {
	snap := NewSnapshot([]*domain.Farmer{
		{ID: "F001", Name: "राजेश कुमार पाटिल", NameEN: "Rajesh Kumar Patil"},
		{ID: "F002", Name: "Sunita Devi"},
		{ID: "F003", Name: "Ramesh Kumar"},
	})

	results := snap.SimilarFarmers("Rajesh Kumar Patil", 5)

	require.NotEmpty(t, results)
	assert.Equal(t, "F001", results[0].Farmer.ID)
	assert.Equal(t, 100, results[0].Similarity)

	// Each farmer listed once even though F001 has two names.
	seen := map[string]int{}
	for _, r := range results {
		seen[r.Farmer.ID]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "farmer %s listed %d times", id, n)
	}
}

func TestSnapshot_SimilarFarmersLimit(t *testing.T) {
	snap := NewSnapshot([]*domain.Farmer{
		{ID: "F001", Name: "Ramesh Kumar"},
		{ID: "F002", Name: "Ramesh Kumari"},
		{ID: "F003", Name: "Ramesh Kuma"},
	})

	results := snap.SimilarFarmers("Ramesh Kumar", 2)

	assert.Len(t, results, 2)
	assert.Equal(t, "F001", results[0].Farmer.ID)
}

func TestHolder_SwapIsVisible(t *testing.T) {
	h := NewHolder()
	assert.Equal(t, 0, h.Load().Size())

	h.Store(NewSnapshot([]*domain.Farmer{{ID: "F001"}}))

	assert.Equal(t, 1, h.Load().Size())
}
