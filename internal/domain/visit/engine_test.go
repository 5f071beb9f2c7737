package visit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"renthome/internal/domain/listing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// Registers the pure-Go "sqlite" database/sql driver used below.
	_ "modernc.org/sqlite"
)

type fakeListings struct {
	mu       sync.Mutex
	items    map[int64]*listing.Listing
	occupied []int64
	failFlip bool
}

func (f *fakeListings) GetByID(_ context.Context, id int64) (*listing.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.items[id]
	if !ok {
		return nil, listing.ErrListingNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeListings) MarkOccupied(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFlip {
		return errors.New("listing store unavailable")
	}
	f.occupied = append(f.occupied, id)
	if l, ok := f.items[id]; ok {
		l.IsActive = false
	}
	return nil
}

func (f *fakeListings) occupiedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.occupied)
}

type fakeNotifier struct {
	mu            sync.Mutex
	tenantPrompts []int64 // owner ids prompted with "tenant interested"
	ownerPrompts  []int64 // tenant ids prompted with "owner interested"
	matches       []int64 // user ids notified of a match
}

func (f *fakeNotifier) NotifyTenantInterested(_ context.Context, ownerID, _ int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tenantPrompts = append(f.tenantPrompts, ownerID)
	return nil
}

func (f *fakeNotifier) NotifyOwnerInterested(_ context.Context, tenantID, _ int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ownerPrompts = append(f.ownerPrompts, tenantID)
	return nil
}

func (f *fakeNotifier) NotifyVisitMatch(_ context.Context, userID, _ int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.matches = append(f.matches, userID)
	return nil
}

func (f *fakeNotifier) matchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.matches)
}

const (
	tenantID = int64(101)
	ownerID  = int64(202)
)

func setupEngine(t *testing.T) (*Engine, *fakeListings, *fakeNotifier) {
	t.Helper()
	dsn := fmt.Sprintf("file:visit_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := db.AutoMigrate(&Visit{}); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}

	listings := &fakeListings{items: map[int64]*listing.Listing{
		1: {ID: 1, OwnerID: ownerID, Title: "Sunny 2-room", IsActive: true},
	}}
	notifier := &fakeNotifier{}
	return NewEngine(NewRepository(db), listings, notifier), listings, notifier
}

func scheduleVisit(t *testing.T, e *Engine) *Visit {
	t.Helper()
	v, err := e.Schedule(context.Background(), tenantID, 1, time.Now().Add(24*time.Hour))
	if err != nil {
		t.Fatalf("Schedule returned error: %v", err)
	}
	if v.Status != StatusScheduled {
		t.Fatalf("expected status scheduled, got %s", v.Status)
	}
	return v
}

func TestScheduleRejectsInactiveListing(t *testing.T) {
	e, listings, _ := setupEngine(t)
	listings.items[1].IsActive = false

	_, err := e.Schedule(context.Background(), tenantID, 1, time.Now())
	if !errors.Is(err, ErrListingInactive) {
		t.Fatalf("expected ErrListingInactive, got %v", err)
	}
}

func TestTenantInterestedPromptsOwnerExactlyOnce(t *testing.T) {
	e, listings, notifier := setupEngine(t)
	v := scheduleVisit(t, e)
	ctx := context.Background()

	got, err := e.SubmitDecision(ctx, v.ID, tenantID, "tenant", "", DecisionInterested, "great place")
	if err != nil {
		t.Fatalf("SubmitDecision returned error: %v", err)
	}
	if got.TenantDecision != DecisionInterested {
		t.Fatalf("expected tenant decision interested, got %s", got.TenantDecision)
	}
	if got.TenantDecisionAt == nil {
		t.Fatal("expected tenant decision timestamp to be set")
	}

	// Same decision again: no second prompt
	if _, err := e.SubmitDecision(ctx, v.ID, tenantID, "tenant", "", DecisionInterested, "still great"); err != nil {
		t.Fatalf("re-submission returned error: %v", err)
	}

	if len(notifier.tenantPrompts) != 1 || notifier.tenantPrompts[0] != ownerID {
		t.Fatalf("expected exactly one prompt to owner, got %v", notifier.tenantPrompts)
	}
	if notifier.matchCount() != 0 {
		t.Fatalf("no match expected, got %d match notifications", notifier.matchCount())
	}
	if listings.occupiedCount() != 0 {
		t.Fatal("listing must not be occupied before a match")
	}
}

func TestOwnerInterestedPromptsTenant(t *testing.T) {
	e, _, notifier := setupEngine(t)
	v := scheduleVisit(t, e)

	if _, err := e.SubmitDecision(context.Background(), v.ID, ownerID, "owner", "", DecisionInterested, ""); err != nil {
		t.Fatalf("SubmitDecision returned error: %v", err)
	}

	if len(notifier.ownerPrompts) != 1 || notifier.ownerPrompts[0] != tenantID {
		t.Fatalf("expected exactly one prompt to tenant, got %v", notifier.ownerPrompts)
	}
}

func TestMutualInterestMatchesExactlyOnce(t *testing.T) {
	e, listings, notifier := setupEngine(t)
	v := scheduleVisit(t, e)
	ctx := context.Background()

	if _, err := e.SubmitDecision(ctx, v.ID, tenantID, "tenant", "", DecisionInterested, ""); err != nil {
		t.Fatalf("tenant decision returned error: %v", err)
	}
	got, err := e.SubmitDecision(ctx, v.ID, ownerID, "owner", "", DecisionInterested, "")
	if err != nil {
		t.Fatalf("owner decision returned error: %v", err)
	}

	if got.MatchedAt == nil {
		t.Fatal("expected matched_at to be set")
	}
	if notifier.matchCount() != 2 {
		t.Fatalf("expected exactly one match pair (2 notifications), got %d", notifier.matchCount())
	}
	if listings.occupiedCount() != 1 {
		t.Fatalf("expected exactly one occupancy flip, got %d", listings.occupiedCount())
	}
	if listings.items[1].IsActive {
		t.Fatal("expected listing inactive after match")
	}

	// Decisions are frozen after a finalized match
	if _, err := e.SubmitDecision(ctx, v.ID, tenantID, "tenant", "", DecisionNotInterested, ""); err != nil {
		t.Fatalf("post-match submission returned error: %v", err)
	}
	final, err := e.Get(ctx, v.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if final.TenantDecision != DecisionInterested {
		t.Fatalf("post-match submission must not overwrite decisions, got %s", final.TenantDecision)
	}
	if notifier.matchCount() != 2 || listings.occupiedCount() != 1 {
		t.Fatal("post-match submission re-fired match side effects")
	}
}

func TestNotInterestedProducesNoPromptAndNoMatch(t *testing.T) {
	e, listings, notifier := setupEngine(t)
	v := scheduleVisit(t, e)
	ctx := context.Background()

	if _, err := e.SubmitDecision(ctx, v.ID, tenantID, "tenant", "", DecisionNotInterested, "too small"); err != nil {
		t.Fatalf("SubmitDecision returned error: %v", err)
	}
	if len(notifier.tenantPrompts) != 0 {
		t.Fatalf("not_interested must not prompt the owner, got %v", notifier.tenantPrompts)
	}

	// A later owner "interested" can never produce a match on this visit
	if _, err := e.SubmitDecision(ctx, v.ID, ownerID, "owner", "", DecisionInterested, ""); err != nil {
		t.Fatalf("owner decision returned error: %v", err)
	}
	if notifier.matchCount() != 0 {
		t.Fatalf("no match expected, got %d notifications", notifier.matchCount())
	}
	if listings.occupiedCount() != 0 {
		t.Fatal("listing must not be occupied without a match")
	}
}

func TestChangeOfMindBeforeMatch(t *testing.T) {
	e, _, notifier := setupEngine(t)
	v := scheduleVisit(t, e)
	ctx := context.Background()

	if _, err := e.SubmitDecision(ctx, v.ID, tenantID, "tenant", "", DecisionNotInterested, ""); err != nil {
		t.Fatalf("SubmitDecision returned error: %v", err)
	}
	got, err := e.SubmitDecision(ctx, v.ID, tenantID, "tenant", "", DecisionInterested, "reconsidered")
	if err != nil {
		t.Fatalf("SubmitDecision returned error: %v", err)
	}
	if got.TenantDecision != DecisionInterested {
		t.Fatalf("expected overwrite to interested, got %s", got.TenantDecision)
	}
	if len(notifier.tenantPrompts) != 1 {
		t.Fatalf("expected one prompt after change of mind, got %d", len(notifier.tenantPrompts))
	}
}

func TestCancelledVisitRejectsDecisions(t *testing.T) {
	e, _, _ := setupEngine(t)
	v := scheduleVisit(t, e)
	ctx := context.Background()

	if _, err := e.Cancel(ctx, v.ID); err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	_, err := e.SubmitDecision(ctx, v.ID, tenantID, "tenant", "", DecisionInterested, "")
	if !errors.Is(err, ErrVisitCancelled) {
		t.Fatalf("expected ErrVisitCancelled, got %v", err)
	}
}

func TestOutsiderCannotSubmitDecision(t *testing.T) {
	e, _, _ := setupEngine(t)
	v := scheduleVisit(t, e)

	_, err := e.SubmitDecision(context.Background(), v.ID, 999, "tenant", "", DecisionInterested, "")
	if !errors.Is(err, ErrNotVisitParty) {
		t.Fatalf("expected ErrNotVisitParty, got %v", err)
	}
}

func TestStaffOverrideWritesNamedParty(t *testing.T) {
	e, _, _ := setupEngine(t)
	v := scheduleVisit(t, e)
	ctx := context.Background()

	got, err := e.SubmitDecision(ctx, v.ID, 555, "staff", PartyOwner, DecisionInterested, "phoned in")
	if err != nil {
		t.Fatalf("staff override returned error: %v", err)
	}
	if got.OwnerDecision != DecisionInterested {
		t.Fatalf("expected owner decision written, got %s", got.OwnerDecision)
	}

	if _, err := e.SubmitDecision(ctx, v.ID, 555, "staff", "", DecisionInterested, ""); !errors.Is(err, ErrInvalidParty) {
		t.Fatalf("staff override without party should fail, got %v", err)
	}
}

func TestMatchStandsWhenOccupancyFlipFails(t *testing.T) {
	e, listings, notifier := setupEngine(t)
	v := scheduleVisit(t, e)
	ctx := context.Background()
	listings.failFlip = true

	if _, err := e.SubmitDecision(ctx, v.ID, tenantID, "tenant", "", DecisionInterested, ""); err != nil {
		t.Fatalf("tenant decision returned error: %v", err)
	}
	got, err := e.SubmitDecision(ctx, v.ID, ownerID, "owner", "", DecisionInterested, "")
	if err != nil {
		t.Fatalf("owner decision returned error: %v", err)
	}

	if got.MatchedAt == nil {
		t.Fatal("flip failure must not unwind the match")
	}
	if notifier.matchCount() != 2 {
		t.Fatalf("flip failure must not suppress match notifications, got %d", notifier.matchCount())
	}
}
