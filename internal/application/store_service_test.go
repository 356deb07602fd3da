package application

import (
	"context"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/quickfit/quickfit-server/internal/domain"
	"github.com/quickfit/quickfit-server/internal/domain/entity"
)

// In-memory repositories for service tests. failNext makes the next write
// fail, to verify the in-memory state never runs ahead of persistence.

type memWardrobe struct {
	items    []entity.ClothingItem
	failNext bool
}

func (m *memWardrobe) All() ([]entity.ClothingItem, error) {
	return append([]entity.ClothingItem(nil), m.items...), nil
}

func (m *memWardrobe) Replace(items []entity.ClothingItem) error {
	if m.failNext {
		m.failNext = false
		return fmt.Errorf("%w: simulated write failure", domain.ErrStorageFailure)
	}
	m.items = append([]entity.ClothingItem(nil), items...)
	return nil
}

type memCollections struct {
	outfits []entity.OutfitCollection
}

func (m *memCollections) All() ([]entity.OutfitCollection, error) {
	return append([]entity.OutfitCollection(nil), m.outfits...), nil
}

func (m *memCollections) Replace(outfits []entity.OutfitCollection) error {
	m.outfits = append([]entity.OutfitCollection(nil), outfits...)
	return nil
}

type memProfile struct {
	profile entity.UserProfile
}

func (m *memProfile) Get() (entity.UserProfile, error) { return m.profile, nil }

func (m *memProfile) Put(p entity.UserProfile) error {
	m.profile = p
	return nil
}

func newMemStore(t *testing.T) (*StoreService, *memWardrobe) {
	t.Helper()
	w := &memWardrobe{}
	logger := logrus.New()
	s, err := NewStoreService(w, &memCollections{}, &memProfile{}, logger)
	require.NoError(t, err)
	return s, w
}

func TestAddClothingItemAppends(t *testing.T) {
	s, _ := newMemStore(t)

	a := entity.NewClothingItem("tee", entity.CategoryTops, nil, nil)
	b := entity.NewClothingItem("jeans", entity.CategoryBottoms, nil, nil)
	require.NoError(t, s.AddClothingItem(a))
	require.NoError(t, s.AddClothingItem(b))

	items := s.Items()
	require.Len(t, items, 2)
	require.Equal(t, a.ID, items[0].ID)
	require.Equal(t, b.ID, items[1].ID)
}

func TestAddClothingItemDuplicateIDRejected(t *testing.T) {
	s, _ := newMemStore(t)

	a := entity.NewClothingItem("tee", entity.CategoryTops, nil, nil)
	require.NoError(t, s.AddClothingItem(a))

	dup := a
	dup.Name = "other"
	err := s.AddClothingItem(dup)
	require.ErrorIs(t, err, domain.ErrInvariantViolation)
	require.Len(t, s.Items(), 1)
	require.Equal(t, "tee", s.Items()[0].Name)
}

func TestItemsByCategoryPreservesOrder(t *testing.T) {
	s, _ := newMemStore(t)

	a := entity.NewClothingItem("first top", entity.CategoryTops, nil, nil)
	b := entity.NewClothingItem("jeans", entity.CategoryBottoms, nil, nil)
	c := entity.NewClothingItem("second top", entity.CategoryTops, nil, nil)
	require.NoError(t, s.AddClothingItem(a))
	require.NoError(t, s.AddClothingItem(b))
	require.NoError(t, s.AddClothingItem(c))

	tops := s.ItemsByCategory(entity.CategoryTops)
	require.Len(t, tops, 2)
	require.Equal(t, "first top", tops[0].Name)
	require.Equal(t, "second top", tops[1].Name)
	require.Empty(t, s.ItemsByCategory(entity.CategoryShoes))
}

func TestRemoveClothingItemAbsentIsNoop(t *testing.T) {
	s, _ := newMemStore(t)
	require.NoError(t, s.RemoveClothingItem("no-such-id"))
}

func TestUpdateClothingItemMissing(t *testing.T) {
	s, _ := newMemStore(t)
	err := s.UpdateClothingItem(entity.NewClothingItem("ghost", entity.CategoryTops, nil, nil))
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWriteFailureLeavesStateUnchanged(t *testing.T) {
	s, w := newMemStore(t)

	a := entity.NewClothingItem("tee", entity.CategoryTops, nil, nil)
	require.NoError(t, s.AddClothingItem(a))

	w.failNext = true
	b := entity.NewClothingItem("jeans", entity.CategoryBottoms, nil, nil)
	err := s.AddClothingItem(b)
	require.ErrorIs(t, err, domain.ErrStorageFailure)
	require.Len(t, s.Items(), 1)
}

func TestAddOutfitCollectionPrepends(t *testing.T) {
	s, _ := newMemStore(t)

	first := entity.NewOutfitCollection("first", nil, []string{"a"}, nil)
	second := entity.NewOutfitCollection("second", nil, []string{"b"}, nil)
	require.NoError(t, s.AddOutfitCollection(first))
	require.NoError(t, s.AddOutfitCollection(second))

	cols := s.Collections()
	require.Len(t, cols, 2)
	require.Equal(t, "second", cols[0].Name)
	require.Equal(t, "first", cols[1].Name)
	require.True(t, cols[0].IsFavorite)
}

func TestRemoveOutfitCollectionIdempotent(t *testing.T) {
	s, _ := newMemStore(t)

	oc := entity.NewOutfitCollection("look", nil, nil, nil)
	require.NoError(t, s.AddOutfitCollection(oc))
	require.NoError(t, s.RemoveOutfitCollection(oc.ID))
	require.NoError(t, s.RemoveOutfitCollection(oc.ID))
	require.Empty(t, s.Collections())
}

func TestCollectionsKeepDanglingItemReferences(t *testing.T) {
	s, _ := newMemStore(t)

	item := entity.NewClothingItem("tee", entity.CategoryTops, nil, nil)
	require.NoError(t, s.AddClothingItem(item))
	oc := entity.NewOutfitCollection("look", nil, []string{item.ID}, nil)
	require.NoError(t, s.AddOutfitCollection(oc))

	require.NoError(t, s.RemoveClothingItem(item.ID))

	got, ok := s.Collection(oc.ID)
	require.True(t, ok)
	require.Equal(t, []string{item.ID}, got.ClothingItems)
	_, ok = s.Item(item.ID)
	require.False(t, ok)
}

func TestSetFullBodyImagePreservesOtherFields(t *testing.T) {
	s, _ := newMemStore(t)

	g := entity.GenderMale
	h := 180.0
	require.NoError(t, s.UpdateProfile(entity.UserProfile{Gender: &g, Height: &h}))
	require.NoError(t, s.SetFullBodyImage([]byte{1, 2, 3}))

	p := s.Profile()
	require.True(t, p.HasFullBodyImage())
	require.NotNil(t, p.Gender)
	require.Equal(t, entity.GenderMale, *p.Gender)
	require.Equal(t, 180.0, *p.Height)

	require.NoError(t, s.ClearFullBodyImage())
	p = s.Profile()
	require.False(t, p.HasFullBodyImage())
	require.NotNil(t, p.Gender)
}

func TestResetProfileClearsEverything(t *testing.T) {
	s, _ := newMemStore(t)

	g := entity.GenderFemale
	require.NoError(t, s.UpdateProfile(entity.UserProfile{Gender: &g, FullBodyImageData: []byte{9}}))
	require.NoError(t, s.ResetProfile())

	p := s.Profile()
	require.False(t, p.HasFullBodyImage())
	require.Nil(t, p.Gender)
	require.Nil(t, p.Height)
}

func TestSubscribersSeeCommittedMutations(t *testing.T) {
	s, _ := newMemStore(t)

	var got []ChangeEvent
	s.Subscribe(func(ev ChangeEvent) { got = append(got, ev) })

	item := entity.NewClothingItem("tee", entity.CategoryTops, nil, nil)
	require.NoError(t, s.AddClothingItem(item))
	require.NoError(t, s.RemoveClothingItem(item.ID))

	require.Len(t, got, 2)
	require.Equal(t, ChangeEvent{Entity: "clothing_item", Op: "added", ID: item.ID}, got[0])
	require.Equal(t, ChangeEvent{Entity: "clothing_item", Op: "removed", ID: item.ID}, got[1])
}

func TestSubscriberMayCallBackIntoStore(t *testing.T) {
	s, _ := newMemStore(t)

	s.Subscribe(func(ev ChangeEvent) {
		if ev.Entity == "clothing_item" && ev.Op == "added" {
			_ = s.Items() // must not deadlock
		}
	})
	require.NoError(t, s.AddClothingItem(entity.NewClothingItem("tee", entity.CategoryTops, nil, nil)))
}

func TestSearchItemsWithoutElasticsearch(t *testing.T) {
	s, _ := newMemStore(t)
	hits, err := s.SearchItems(context.Background(), "denim", 10)
	require.NoError(t, err)
	require.Empty(t, hits)
}
