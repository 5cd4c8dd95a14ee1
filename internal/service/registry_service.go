package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"agriverify/internal/domain"
	"agriverify/internal/match"
	"agriverify/internal/port"
)

// RegistryService owns the in-memory matching snapshot of the farmer
// registry. Reads are lock-free; Refresh rebuilds the snapshot from the
// database and swaps it in atomically.
type RegistryService interface {
	Snapshot() *match.Snapshot
	Refresh(ctx context.Context) (int, error)
}

type registryService struct {
	farmerRepo port.FarmerRepository
	holder     *match.Holder
}

// NewRegistryService creates a RegistryService with an empty snapshot.
// Call Refresh before serving traffic.
func NewRegistryService(farmerRepo port.FarmerRepository) RegistryService {
	return &registryService{
		farmerRepo: farmerRepo,
		holder:     match.NewHolder(),
	}
}

func (s *registryService) Snapshot() *match.Snapshot {
	return s.holder.Load()
}

func (s *registryService) Refresh(ctx context.Context) (int, error) {
	farmers, err := s.farmerRepo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("registryService.Refresh: %w", err)
	}

	snapshot := match.NewSnapshot(toPointers(farmers))
	s.holder.Store(snapshot)
	log.Printf("registryService.Refresh: loaded %d farmers", snapshot.Size())
	return snapshot.Size(), nil
}

func toPointers(farmers []domain.Farmer) []*domain.Farmer {
	out := make([]*domain.Farmer, len(farmers))
	for i := range farmers {
		out[i] = &farmers[i]
	}
	return out
}

// RegistryRefresher periodically refreshes the registry snapshot so new
// enrollments become matchable without a restart.
type RegistryRefresher struct {
	registry RegistryService
	interval time.Duration
}

// NewRegistryRefresher creates a refresher with the given interval.
func NewRegistryRefresher(registry RegistryService, interval time.Duration) *RegistryRefresher {
	return &RegistryRefresher{registry: registry, interval: interval}
}

// Start runs the refresh loop until ctx is canceled.
func (r *RegistryRefresher) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	log.Printf("registryRefresher: started (interval=%s)", r.interval)

	for {
		select {
		case <-ctx.Done():
			log.Printf("registryRefresher: shutdown complete")
			return
		case <-ticker.C:
			if _, err := r.registry.Refresh(ctx); err != nil {
				if ctx.Err() != nil {
					continue
				}
				log.Printf("registryRefresher: refresh error: %v", err)
			}
		}
	}
}
