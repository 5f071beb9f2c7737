package visit

import (
	"context"
	"sync"
	"testing"
	"time"

	"renthome/internal/domain/listing"
)

// memRepo mirrors the guarded-update semantics of the SQL repository behind
// a single mutex, so the engine's interleavings can be driven from plain
// goroutines without fighting sqlite's writer lock.
type memRepo struct {
	mu     sync.Mutex
	nextID int64
	visits map[int64]*Visit
}

func newMemRepo() *memRepo {
	return &memRepo{nextID: 1, visits: make(map[int64]*Visit)}
}

func (m *memRepo) Create(_ context.Context, v *Visit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v.ID = m.nextID
	m.nextID++
	cp := *v
	m.visits[v.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id int64) (*Visit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.visits[id]
	if !ok {
		return nil, ErrVisitNotFound
	}
	cp := *v
	return &cp, nil
}

func (m *memRepo) ListByUser(_ context.Context, userID int64) ([]*Visit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Visit
	for _, v := range m.visits {
		if v.TenantID == userID || v.OwnerID == userID {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memRepo) SetDecision(_ context.Context, visitID int64, party Party, decision Decision, notes string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.visits[visitID]
	if !ok {
		return false, nil
	}
	if v.MatchedAt != nil || v.Status == StatusCancelled {
		return false, nil
	}
	if party == PartyTenant {
		if v.TenantDecision == decision {
			return false, nil
		}
		v.TenantDecision, v.TenantDecisionAt, v.TenantNotes = decision, &at, notes
	} else {
		if v.OwnerDecision == decision {
			return false, nil
		}
		v.OwnerDecision, v.OwnerDecisionAt, v.OwnerNotes = decision, &at, notes
	}
	return true, nil
}

func (m *memRepo) ClaimMatch(_ context.Context, visitID int64, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.visits[visitID]
	if !ok || v.MatchedAt != nil {
		return false, nil
	}
	if v.TenantDecision != DecisionInterested || v.OwnerDecision != DecisionInterested {
		return false, nil
	}
	v.MatchedAt = &at
	return true, nil
}

func (m *memRepo) UpdateStatus(_ context.Context, visitID int64, status Status) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.visits[visitID]
	if !ok || v.Status != StatusScheduled {
		return false, nil
	}
	v.Status = status
	return true, nil
}

// Both parties submit "interested" at the same instant, over and over. No
// interleaving may produce more than one match pair or occupancy flip, and
// every round must produce exactly one.
func TestConcurrentMutualInterestMatchesOnce(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		repo := newMemRepo()
		listings := &fakeListings{items: map[int64]*listing.Listing{
			1: {ID: 1, OwnerID: ownerID, IsActive: true},
		}}
		notifier := &fakeNotifier{}
		e := NewEngine(repo, listings, notifier)

		v, err := e.Schedule(ctx, tenantID, 1, time.Now())
		if err != nil {
			t.Fatalf("Schedule returned error: %v", err)
		}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := e.SubmitDecision(ctx, v.ID, tenantID, "tenant", "", DecisionInterested, ""); err != nil {
				t.Errorf("tenant submission returned error: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := e.SubmitDecision(ctx, v.ID, ownerID, "owner", "", DecisionInterested, ""); err != nil {
				t.Errorf("owner submission returned error: %v", err)
			}
		}()
		wg.Wait()

		final, err := repo.GetByID(ctx, v.ID)
		if err != nil {
			t.Fatalf("GetByID returned error: %v", err)
		}
		if final.MatchedAt == nil {
			t.Fatalf("round %d: mutual interest did not produce a match", i)
		}
		if n := notifier.matchCount(); n != 2 {
			t.Fatalf("round %d: expected exactly one match pair (2 notifications), got %d", i, n)
		}
		if n := listings.occupiedCount(); n != 1 {
			t.Fatalf("round %d: expected exactly one occupancy flip, got %d", i, n)
		}
	}
}
