package item

import (
	"context"
	"errors"
	"testing"

	"homestock/internal/core/apperror"
	"homestock/internal/core/id"
	"homestock/internal/domain/product"
)

// --- in-memory fakes ---
//
// The store fakes share one state struct; the fake transaction manager
// snapshots it before running the unit of work and restores it on error,
// so atomicity violations in the coordinator show up as assertions on
// post-failure state.

type fakeState struct {
	items   map[id.ID]*Item
	shelves map[id.ID][]id.ID // shelf id -> membership set
}

func newFakeState() *fakeState {
	return &fakeState{
		items:   make(map[id.ID]*Item),
		shelves: make(map[id.ID][]id.ID),
	}
}

func (s *fakeState) clone() *fakeState {
	c := newFakeState()
	for k, v := range s.items {
		copied := *v
		c.items[k] = &copied
	}
	for k, v := range s.shelves {
		c.shelves[k] = append([]id.ID(nil), v...)
	}
	return c
}

func (s *fakeState) restore(from *fakeState) {
	s.items = from.items
	s.shelves = from.shelves
}

type fakeTxManager struct {
	state *fakeState
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := m.state.clone()
	if err := fn(ctx); err != nil {
		m.state.restore(snapshot)
		return err
	}
	return nil
}

type fakeItemRepo struct {
	state     *fakeState
	insertErr error
}

func (r *fakeItemRepo) Insert(ctx context.Context, it *Item) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	copied := *it
	r.state.items[it.ID] = &copied
	return nil
}

func (r *fakeItemRepo) GetByID(ctx context.Context, itemID id.ID) (*Item, error) {
	it, ok := r.state.items[itemID]
	if !ok {
		return nil, apperror.NewNotFound("item", itemID.String())
	}
	copied := *it
	return &copied, nil
}

func (r *fakeItemRepo) GetForUpdate(ctx context.Context, itemID id.ID) (*Item, error) {
	return r.GetByID(ctx, itemID)
}

func (r *fakeItemRepo) Update(ctx context.Context, it *Item) error {
	if _, ok := r.state.items[it.ID]; !ok {
		return apperror.NewNotFound("item", it.ID.String())
	}
	copied := *it
	r.state.items[it.ID] = &copied
	return nil
}

func (r *fakeItemRepo) UpdateShelf(ctx context.Context, itemID, shelfID id.ID) error {
	it, ok := r.state.items[itemID]
	if !ok {
		return apperror.NewNotFound("item", itemID.String())
	}
	it.ShelfID = shelfID
	return nil
}

func (r *fakeItemRepo) UpdateAmount(ctx context.Context, itemID id.ID, amount int) error {
	it, ok := r.state.items[itemID]
	if !ok {
		return apperror.NewNotFound("item", itemID.String())
	}
	it.Amount = amount
	return nil
}

func (r *fakeItemRepo) Delete(ctx context.Context, itemID id.ID) error {
	if _, ok := r.state.items[itemID]; !ok {
		return apperror.NewNotFound("item", itemID.String())
	}
	delete(r.state.items, itemID)
	return nil
}

func (r *fakeItemRepo) List(ctx context.Context, sort []SortField) ([]*Item, error) {
	out := make([]*Item, 0, len(r.state.items))
	for _, it := range r.state.items {
		copied := *it
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeItemRepo) Search(ctx context.Context, term string, sort []SortField) ([]*Item, error) {
	var out []*Item
	for _, it := range r.state.items {
		if it.Name == term {
			copied := *it
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) ListByShelf(ctx context.Context, shelfID id.ID) ([]*Item, error) {
	var out []*Item
	for _, it := range r.state.items {
		if it.ShelfID == shelfID {
			copied := *it
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeShelfStore struct {
	state *fakeState
}

func (s *fakeShelfStore) AddItem(ctx context.Context, shelfID, itemID id.ID) error {
	members, ok := s.state.shelves[shelfID]
	if !ok {
		return apperror.NewNotFound("shelf", shelfID.String())
	}
	s.state.shelves[shelfID] = append(members, itemID)
	return nil
}

func (s *fakeShelfStore) RemoveItem(ctx context.Context, shelfID, itemID id.ID) error {
	members, ok := s.state.shelves[shelfID]
	if !ok {
		return apperror.NewNotFound("shelf", shelfID.String())
	}
	kept := members[:0]
	for _, m := range members {
		if m != itemID {
			kept = append(kept, m)
		}
	}
	s.state.shelves[shelfID] = kept
	return nil
}

type fakeLookup struct {
	product *product.Product
	err     error
	calls   int
}

func (l *fakeLookup) ByBarcode(ctx context.Context, barcode string) (*product.Product, error) {
	l.calls++
	return l.product, l.err
}

func (l *fakeLookup) Search(ctx context.Context, term string) ([]product.Product, error) {
	return nil, nil
}

type fakePhotoStore struct {
	deleted []string
}

func (p *fakePhotoStore) Delete(ctx context.Context, key string) error {
	p.deleted = append(p.deleted, key)
	return nil
}

type fakeRecorder struct {
	actions []string
}

func (r *fakeRecorder) Record(ctx context.Context, action string, itemID id.ID, changes any) error {
	r.actions = append(r.actions, action)
	return nil
}

// --- test harness ---

type harness struct {
	state    *fakeState
	repo     *fakeItemRepo
	shelves  *fakeShelfStore
	lookup   *fakeLookup
	photos   *fakePhotoStore
	recorder *fakeRecorder
	service  *Service
}

func newHarness() *harness {
	state := newFakeState()
	h := &harness{
		state:    state,
		repo:     &fakeItemRepo{state: state},
		shelves:  &fakeShelfStore{state: state},
		lookup:   &fakeLookup{},
		photos:   &fakePhotoStore{},
		recorder: &fakeRecorder{},
	}
	h.service = NewService(h.repo, h.shelves, &fakeTxManager{state: state}, h.lookup, h.photos, h.recorder)
	return h
}

func (h *harness) addShelf() id.ID {
	shelfID := id.New()
	h.state.shelves[shelfID] = []id.ID{}
	return shelfID
}

func (h *harness) shelfContains(shelfID, itemID id.ID) bool {
	for _, m := range h.state.shelves[shelfID] {
		if m == itemID {
			return true
		}
	}
	return false
}

// checkConsistency verifies the bidirectional item/shelf references
// agree in both directions.
func (h *harness) checkConsistency(t *testing.T) {
	t.Helper()
	for itemID, it := range h.state.items {
		if !h.shelfContains(it.ShelfID, itemID) {
			t.Errorf("item %s references shelf %s but shelf membership misses it", itemID, it.ShelfID)
		}
	}
	for shelfID, members := range h.state.shelves {
		for _, itemID := range members {
			it, ok := h.state.items[itemID]
			if !ok {
				t.Errorf("shelf %s holds deleted item %s", shelfID, itemID)
				continue
			}
			if it.ShelfID != shelfID {
				t.Errorf("shelf %s holds item %s which references shelf %s", shelfID, itemID, it.ShelfID)
			}
		}
	}
}

// --- tests ---

func TestCreate(t *testing.T) {
	h := newHarness()
	shelfID := h.addShelf()

	it, err := h.service.Create(context.Background(), CreateInput{
		Name:    "Milk",
		Amount:  2,
		ShelfID: shelfID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if it.Name != "Milk" || it.Amount != 2 || it.ShelfID != shelfID {
		t.Errorf("unexpected item: %+v", it)
	}
	if _, ok := h.state.items[it.ID]; !ok {
		t.Error("item not persisted")
	}
	if !h.shelfContains(shelfID, it.ID) {
		t.Error("item missing from shelf membership")
	}
	h.checkConsistency(t)

	if len(h.recorder.actions) != 1 || h.recorder.actions[0] != ActionCreate {
		t.Errorf("expected one %q change record, got %v", ActionCreate, h.recorder.actions)
	}
}

func TestCreate_DefaultsAmountToOne(t *testing.T) {
	h := newHarness()
	shelfID := h.addShelf()

	it, err := h.service.Create(context.Background(), CreateInput{Name: "Milk", ShelfID: shelfID})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if it.Amount != 1 {
		t.Errorf("Amount = %d, want 1", it.Amount)
	}
}

func TestCreate_MissingShelfRollsBackItem(t *testing.T) {
	h := newHarness()
	missingShelf := id.New()
	photoKey := "photo-key-1"

	_, err := h.service.Create(context.Background(), CreateInput{
		Name:    "Milk",
		Image:   &photoKey,
		ShelfID: missingShelf,
	})
	if err == nil {
		t.Fatal("expected error for missing shelf")
	}
	if !apperror.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}

	if len(h.state.items) != 0 {
		t.Error("item survived a rolled-back create")
	}
	if len(h.photos.deleted) != 1 || h.photos.deleted[0] != photoKey {
		t.Errorf("expected orphaned photo %q deleted, got %v", photoKey, h.photos.deleted)
	}
	if len(h.recorder.actions) != 0 {
		t.Errorf("no change record expected, got %v", h.recorder.actions)
	}
}

func TestCreate_NameFallsBackToCatalogName(t *testing.T) {
	h := newHarness()
	shelfID := h.addShelf()
	barcode := "4311501043646"
	h.lookup.product = &product.Product{Code: barcode, Name: "Whole Milk 3.5%"}

	it, err := h.service.Create(context.Background(), CreateInput{
		Barcode: &barcode,
		ShelfID: shelfID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if it.Name != "Whole Milk 3.5%" {
		t.Errorf("Name = %q, want catalog product name", it.Name)
	}
	if it.ProductData == nil {
		t.Error("expected enrichment data on created item")
	}
}

func TestCreate_LookupFailureFallsBackToBarcode(t *testing.T) {
	h := newHarness()
	shelfID := h.addShelf()
	barcode := "4311501043646"
	h.lookup.err = errors.New("catalog unreachable")

	it, err := h.service.Create(context.Background(), CreateInput{
		Barcode: &barcode,
		ShelfID: shelfID,
	})
	if err != nil {
		t.Fatalf("Create must not fail on a catalog error: %v", err)
	}
	if it.Name != barcode {
		t.Errorf("Name = %q, want barcode fallback %q", it.Name, barcode)
	}
	if it.ProductData != nil {
		t.Error("no enrichment data expected after a failed lookup")
	}
}

func TestCreate_ExplicitNameSkipsFallback(t *testing.T) {
	h := newHarness()
	shelfID := h.addShelf()
	barcode := "4311501043646"
	h.lookup.product = &product.Product{Code: barcode, Name: "Whole Milk 3.5%"}

	it, err := h.service.Create(context.Background(), CreateInput{
		Name:    "Oat Milk",
		Barcode: &barcode,
		ShelfID: shelfID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if it.Name != "Oat Milk" {
		t.Errorf("Name = %q, want explicit name", it.Name)
	}
}

func TestMove(t *testing.T) {
	h := newHarness()
	source := h.addShelf()
	dest := h.addShelf()

	it, err := h.service.Create(context.Background(), CreateInput{Name: "Milk", ShelfID: source})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	moved, err := h.service.Move(context.Background(), it.ID, dest, nil)
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	if moved.ShelfID != dest {
		t.Errorf("ShelfID = %s, want %s", moved.ShelfID, dest)
	}
	if h.shelfContains(source, it.ID) {
		t.Error("item still on source shelf")
	}
	if !h.shelfContains(dest, it.ID) {
		t.Error("item missing from destination shelf")
	}
	h.checkConsistency(t)
}

func TestMove_SameShelfIsConflict(t *testing.T) {
	h := newHarness()
	shelfID := h.addShelf()

	it, err := h.service.Create(context.Background(), CreateInput{Name: "Milk", ShelfID: shelfID})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err = h.service.Move(context.Background(), it.ID, shelfID, nil)
	if err == nil {
		t.Fatal("expected conflict for same-shelf move")
	}
	if !apperror.IsConflict(err) {
		t.Errorf("expected conflict error, got %v", err)
	}
	if apperror.GetHTTPStatus(err) != 400 {
		t.Errorf("HTTP status = %d, want 400", apperror.GetHTTPStatus(err))
	}

	// Membership must not have been touched.
	if len(h.state.shelves[shelfID]) != 1 {
		t.Errorf("shelf membership changed on a no-op move: %v", h.state.shelves[shelfID])
	}
	h.checkConsistency(t)
}

func TestMove_MissingDestinationRollsBack(t *testing.T) {
	h := newHarness()
	source := h.addShelf()
	missingDest := id.New()

	it, err := h.service.Create(context.Background(), CreateInput{Name: "Milk", ShelfID: source})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err = h.service.Move(context.Background(), it.ID, missingDest, nil)
	if err == nil {
		t.Fatal("expected error for missing destination shelf")
	}

	// The item must still be fully on its source shelf.
	if h.state.items[it.ID].ShelfID != source {
		t.Error("item shelf reference changed despite rollback")
	}
	if !h.shelfContains(source, it.ID) {
		t.Error("item lost from source shelf despite rollback")
	}
	h.checkConsistency(t)
}

func TestMove_PartialAmountSplitsItem(t *testing.T) {
	h := newHarness()
	source := h.addShelf()
	dest := h.addShelf()

	it, err := h.service.Create(context.Background(), CreateInput{Name: "Milk", Amount: 5, ShelfID: source})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	amount := 2
	split, err := h.service.Move(context.Background(), it.ID, dest, &amount)
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	if split.ID == it.ID {
		t.Error("split item must get a new id")
	}
	if split.Amount != 2 || split.ShelfID != dest {
		t.Errorf("unexpected split item: %+v", split)
	}
	if remaining := h.state.items[it.ID]; remaining.Amount != 3 || remaining.ShelfID != source {
		t.Errorf("unexpected source item after split: %+v", remaining)
	}
	if !h.shelfContains(dest, split.ID) {
		t.Error("split item missing from destination shelf")
	}
	h.checkConsistency(t)
}

func TestMove_FullAmountMovesWithoutSplit(t *testing.T) {
	h := newHarness()
	source := h.addShelf()
	dest := h.addShelf()

	it, err := h.service.Create(context.Background(), CreateInput{Name: "Milk", Amount: 5, ShelfID: source})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	amount := 5
	moved, err := h.service.Move(context.Background(), it.ID, dest, &amount)
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	if moved.ID != it.ID {
		t.Error("full-amount move must keep the item identity")
	}
	if len(h.state.items) != 1 {
		t.Errorf("item count = %d, want 1", len(h.state.items))
	}
	h.checkConsistency(t)
}

func TestMove_AmountOutOfRange(t *testing.T) {
	h := newHarness()
	source := h.addShelf()
	dest := h.addShelf()

	it, err := h.service.Create(context.Background(), CreateInput{Name: "Milk", Amount: 5, ShelfID: source})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for _, amount := range []int{0, -1, 6} {
		if _, err := h.service.Move(context.Background(), it.ID, dest, &amount); err == nil {
			t.Errorf("amount %d: expected validation error", amount)
		}
	}
	if h.state.items[it.ID].Amount != 5 {
		t.Error("source amount changed despite rejected move")
	}
	h.checkConsistency(t)
}

func TestDelete(t *testing.T) {
	h := newHarness()
	shelfID := h.addShelf()
	photoKey := "photo-key-2"

	it, err := h.service.Create(context.Background(), CreateInput{
		Name:    "Milk",
		Image:   &photoKey,
		ShelfID: shelfID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := h.service.Delete(context.Background(), it.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, ok := h.state.items[it.ID]; ok {
		t.Error("item still persisted after delete")
	}
	if h.shelfContains(shelfID, it.ID) {
		t.Error("deleted item still on shelf")
	}
	if len(h.photos.deleted) != 1 || h.photos.deleted[0] != photoKey {
		t.Errorf("expected photo %q deleted, got %v", photoKey, h.photos.deleted)
	}
	h.checkConsistency(t)
}

func TestDelete_MissingItem(t *testing.T) {
	h := newHarness()

	err := h.service.Delete(context.Background(), id.New())
	if !apperror.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	h := newHarness()
	shelfID := h.addShelf()

	it, err := h.service.Create(context.Background(), CreateInput{Name: "Milk", ShelfID: shelfID})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	owner := "anna"
	updated, err := h.service.Update(context.Background(), it.ID, UpdateInput{
		Name:   "Oat Milk",
		Amount: 3,
		Owner:  &owner,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.Name != "Oat Milk" || updated.Amount != 3 || updated.Owner == nil || *updated.Owner != owner {
		t.Errorf("unexpected item after update: %+v", updated)
	}
	if updated.ShelfID != shelfID {
		t.Error("Update must not change the shelf reference")
	}
}

func TestSearch_EmptyResultIsNotFound(t *testing.T) {
	h := newHarness()

	_, err := h.service.Search(context.Background(), "nothing-matches", "")
	if !apperror.IsNotFound(err) {
		t.Errorf("expected not-found for empty search result, got %v", err)
	}
}

func TestService_OptionalCollaboratorsNil(t *testing.T) {
	state := newFakeState()
	svc := NewService(&fakeItemRepo{state: state}, &fakeShelfStore{state: state},
		&fakeTxManager{state: state}, nil, nil, nil)

	shelfID := id.New()
	state.shelves[shelfID] = []id.ID{}
	photoKey := "photo-key-3"

	it, err := svc.Create(context.Background(), CreateInput{
		Name:    "Milk",
		Image:   &photoKey,
		ShelfID: shelfID,
	})
	if err != nil {
		t.Fatalf("Create failed with nil collaborators: %v", err)
	}
	if err := svc.Delete(context.Background(), it.ID); err != nil {
		t.Fatalf("Delete failed with nil collaborators: %v", err)
	}
}
