package match

import (
	"sort"
	"sync/atomic"

	"agriverify/internal/domain"
)

// Snapshot is an immutable view of the farmer registry with lookup indices
// on unique identifiers. Matching always runs against one snapshot, so a
// concurrent refresh never changes results mid-request.
type Snapshot struct {
	farmers      []*domain.Farmer
	accountIndex map[string]*domain.Farmer
	aadhaarIndex map[string]*domain.Farmer
	phoneIndex   map[string]*domain.Farmer
}

// NewSnapshot builds a snapshot and its indices from a list of farmers.
// Duplicate identifiers keep the last record seen.
func NewSnapshot(farmers []*domain.Farmer) *Snapshot {
	s := &Snapshot{
		farmers:      farmers,
		accountIndex: make(map[string]*domain.Farmer),
		aadhaarIndex: make(map[string]*domain.Farmer),
		phoneIndex:   make(map[string]*domain.Farmer),
	}
	for _, f := range farmers {
		if f.AccountNumber != "" {
			s.accountIndex[f.AccountNumber] = f
		}
		if f.Aadhaar != "" {
			s.aadhaarIndex[f.Aadhaar] = f
		}
		if f.Phone != "" {
			s.phoneIndex[f.Phone] = f
		}
	}
	return s
}

// Farmers returns the records in this snapshot.
func (s *Snapshot) Farmers() []*domain.Farmer {
	return s.farmers
}

// Size returns the number of farmer records.
func (s *Snapshot) Size() int {
	return len(s.farmers)
}

// ByAccount looks up a farmer by exact account number.
func (s *Snapshot) ByAccount(acc string) (*domain.Farmer, bool) {
	f, ok := s.accountIndex[acc]
	return f, ok
}

// ByAadhaar looks up a farmer by exact Aadhaar number.
func (s *Snapshot) ByAadhaar(aadhaar string) (*domain.Farmer, bool) {
	f, ok := s.aadhaarIndex[aadhaar]
	return f, ok
}

// ByPhone looks up a farmer by exact phone number.
func (s *Snapshot) ByPhone(phone string) (*domain.Farmer, bool) {
	f, ok := s.phoneIndex[phone]
	return f, ok
}

// SimilarFarmer pairs a registry record with its name similarity score.
type SimilarFarmer struct {
	Farmer     *domain.Farmer `json:"farmer"`
	Similarity int            `json:"similarity"`
}

// SimilarFarmers returns up to limit farmers whose native or transliterated
// name is closest to the query, best first. Each farmer appears once even
// when both of its names rank.
func (s *Snapshot) SimilarFarmers(name string, limit int) []SimilarFarmer {
	type candidate struct {
		score  int
		farmer *domain.Farmer
	}
	var scored []candidate
	for _, f := range s.farmers {
		if f.Name != "" {
			scored = append(scored, candidate{TokenSortRatio(name, f.Name), f})
		}
		if f.NameEN != "" {
			scored = append(scored, candidate{TokenSortRatio(name, f.NameEN), f})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	var results []SimilarFarmer
	seen := make(map[string]struct{})
	for _, c := range scored {
		if len(results) >= limit {
			break
		}
		if _, dup := seen[c.farmer.ID]; dup {
			continue
		}
		seen[c.farmer.ID] = struct{}{}
		results = append(results, SimilarFarmer{Farmer: c.farmer, Similarity: c.score})
	}
	return results
}

// Holder publishes the current registry snapshot. Readers get a consistent
// snapshot with a single atomic load; refresh swaps in a new one without
// blocking readers.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// NewHolder creates a holder seeded with an empty snapshot.
func NewHolder() *Holder {
	h := &Holder{}
	h.current.Store(NewSnapshot(nil))
	return h
}

// Load returns the current snapshot.
func (h *Holder) Load() *Snapshot {
	return h.current.Load()
}

// Store replaces the current snapshot.
func (h *Holder) Store(s *Snapshot) {
	h.current.Store(s)
}
