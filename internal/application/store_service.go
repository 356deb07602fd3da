package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/quickfit/quickfit-server/internal/domain"
	"github.com/quickfit/quickfit-server/internal/domain/entity"
	"github.com/quickfit/quickfit-server/internal/domain/repository"
	"github.com/quickfit/quickfit-server/pkg/events"
)

// ChangeEvent describes one committed store mutation for subscribers.
type ChangeEvent struct {
	Entity string // "clothing_item", "outfit_collection", "profile"
	Op     string // "added", "updated", "removed"
	ID     string
}

// Subscriber receives change events after the mutation is durable.
// Subscribers run outside the store mutex, so they may call back into the
// store.
type Subscriber func(ChangeEvent)

// StoreService is the sole owner of wardrobe items, outfit collections and
// the user profile. State lives in memory; every mutation re-serializes the
// affected collection through its repository before it becomes visible, and
// all access is serialized by one mutex (the single-writer discipline the
// backing files require).
type StoreService struct {
	mu sync.Mutex

	wardrobe    repository.WardrobeRepository
	collections repository.CollectionRepository
	profiles    repository.ProfileRepository

	items   []entity.ClothingItem
	outfits []entity.OutfitCollection
	profile entity.UserProfile

	subs []Subscriber

	Logger    *logrus.Logger
	ES        *elasticsearch.Client
	ESIndex   string
	Publisher *events.Publisher
}

// NewStoreService loads all three collections. Missing backing files yield
// empty state; corrupt ones follow the repository's strict/degrade policy.
func NewStoreService(w repository.WardrobeRepository, c repository.CollectionRepository, p repository.ProfileRepository, logger *logrus.Logger) (*StoreService, error) {
	items, err := w.All()
	if err != nil {
		return nil, err
	}
	outfits, err := c.All()
	if err != nil {
		return nil, err
	}
	profile, err := p.Get()
	if err != nil {
		return nil, err
	}
	return &StoreService{
		wardrobe:    w,
		collections: c,
		profiles:    p,
		items:       items,
		outfits:     outfits,
		profile:     profile,
		Logger:      logger,
	}, nil
}

// Subscribe registers a change listener.
func (s *StoreService) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// subscribers snapshots the listener list; callers invoke them after
// releasing the mutex.
func (s *StoreService) subscribers() []Subscriber {
	return append([]Subscriber(nil), s.subs...)
}

func notify(subs []Subscriber, ev ChangeEvent) {
	for _, fn := range subs {
		fn(ev)
	}
}

func (s *StoreService) publishActivity(kind, id string, data map[string]any) {
	if s.Publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Publisher.Publish(ctx, events.Activity{Kind: kind, EntityID: id, Data: data}); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("kind", kind).Warn("activity publish failed")
	}
}

// ---- wardrobe ----

// Items returns the wardrobe in insertion order.
func (s *StoreService) Items() []entity.ClothingItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.ClothingItem, len(s.items))
	copy(out, s.items)
	return out
}

// ItemsByCategory returns the order-preserving subset with the given
// category. Pure read.
func (s *StoreService) ItemsByCategory(cat entity.ClothingCategory) []entity.ClothingItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []entity.ClothingItem{}
	for _, it := range s.items {
		if it.Category == cat {
			out = append(out, it)
		}
	}
	return out
}

// Item resolves a weak reference by id; ok is false on a dangling id.
func (s *StoreService) Item(id string) (entity.ClothingItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return entity.ClothingItem{}, false
}

// FindItemByImage looks a garment up by exact image bytes, used to detect
// whether an uploaded image already lives in the wardrobe.
func (s *StoreService) FindItemByImage(img []byte) (entity.ClothingItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if len(it.ImageData) == len(img) && string(it.ImageData) == string(img) {
			return it, true
		}
	}
	return entity.ClothingItem{}, false
}

// AddClothingItem appends and persists. The caller supplies a fresh id; a
// colliding id is an invariant violation and the store is left untouched.
func (s *StoreService) AddClothingItem(item entity.ClothingItem) error {
	s.mu.Lock()
	for _, it := range s.items {
		if it.ID == item.ID {
			s.mu.Unlock()
			return fmt.Errorf("%w: duplicate clothing item id %s", domain.ErrInvariantViolation, item.ID)
		}
	}
	next := make([]entity.ClothingItem, 0, len(s.items)+1)
	next = append(next, s.items...)
	next = append(next, item)
	if err := s.wardrobe.Replace(next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.items = next
	subs := s.subscribers()
	s.mu.Unlock()

	notify(subs, ChangeEvent{Entity: "clothing_item", Op: "added", ID: item.ID})
	s.publishActivity(events.KindItemAdded, item.ID, map[string]any{"category": string(item.Category)})
	s.indexItem(item)
	return nil
}

// RemoveClothingItem removes by id. Absent id is a no-op, not an error.
// Collections referencing the id keep their dangling reference.
func (s *StoreService) RemoveClothingItem(id string) error {
	s.mu.Lock()
	idx := -1
	for i, it := range s.items {
		if it.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	next := make([]entity.ClothingItem, 0, len(s.items)-1)
	next = append(next, s.items[:idx]...)
	next = append(next, s.items[idx+1:]...)
	if err := s.wardrobe.Replace(next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.items = next
	subs := s.subscribers()
	s.mu.Unlock()

	notify(subs, ChangeEvent{Entity: "clothing_item", Op: "removed", ID: id})
	s.publishActivity(events.KindItemRemoved, id, nil)
	s.deindexItem(id)
	return nil
}

// UpdateClothingItem replaces the entry with a matching id.
func (s *StoreService) UpdateClothingItem(item entity.ClothingItem) error {
	s.mu.Lock()
	idx := -1
	for i, it := range s.items {
		if it.ID == item.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: clothing item %s", domain.ErrNotFound, item.ID)
	}
	next := make([]entity.ClothingItem, len(s.items))
	copy(next, s.items)
	next[idx] = item
	if err := s.wardrobe.Replace(next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.items = next
	subs := s.subscribers()
	s.mu.Unlock()

	notify(subs, ChangeEvent{Entity: "clothing_item", Op: "updated", ID: item.ID})
	s.publishActivity(events.KindItemUpdated, item.ID, nil)
	s.indexItem(item)
	return nil
}

// ---- collections ----

// Collections returns saved outfits, most recent favorite first.
func (s *StoreService) Collections() []entity.OutfitCollection {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.OutfitCollection, len(s.outfits))
	copy(out, s.outfits)
	return out
}

// Collection resolves one saved outfit by id.
func (s *StoreService) Collection(id string) (entity.OutfitCollection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, oc := range s.outfits {
		if oc.ID == id {
			return oc, true
		}
	}
	return entity.OutfitCollection{}, false
}

// AddOutfitCollection inserts at the front and persists.
func (s *StoreService) AddOutfitCollection(outfit entity.OutfitCollection) error {
	s.mu.Lock()
	for _, oc := range s.outfits {
		if oc.ID == outfit.ID {
			s.mu.Unlock()
			return fmt.Errorf("%w: duplicate collection id %s", domain.ErrInvariantViolation, outfit.ID)
		}
	}
	next := make([]entity.OutfitCollection, 0, len(s.outfits)+1)
	next = append(next, outfit)
	next = append(next, s.outfits...)
	if err := s.collections.Replace(next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.outfits = next
	subs := s.subscribers()
	s.mu.Unlock()

	notify(subs, ChangeEvent{Entity: "outfit_collection", Op: "added", ID: outfit.ID})
	s.publishActivity(events.KindFavorited, outfit.ID, map[string]any{"items": len(outfit.ClothingItems)})
	return nil
}

// RemoveOutfitCollection removes by id; idempotent.
func (s *StoreService) RemoveOutfitCollection(id string) error {
	s.mu.Lock()
	idx := -1
	for i, oc := range s.outfits {
		if oc.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	next := make([]entity.OutfitCollection, 0, len(s.outfits)-1)
	next = append(next, s.outfits[:idx]...)
	next = append(next, s.outfits[idx+1:]...)
	if err := s.collections.Replace(next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.outfits = next
	subs := s.subscribers()
	s.mu.Unlock()

	notify(subs, ChangeEvent{Entity: "outfit_collection", Op: "removed", ID: id})
	s.publishActivity(events.KindUnfavorited, id, nil)
	return nil
}

// UpdateOutfitCollection replaces by id.
func (s *StoreService) UpdateOutfitCollection(outfit entity.OutfitCollection) error {
	s.mu.Lock()
	idx := -1
	for i, oc := range s.outfits {
		if oc.ID == outfit.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: collection %s", domain.ErrNotFound, outfit.ID)
	}
	next := make([]entity.OutfitCollection, len(s.outfits))
	copy(next, s.outfits)
	next[idx] = outfit
	if err := s.collections.Replace(next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.outfits = next
	subs := s.subscribers()
	s.mu.Unlock()

	notify(subs, ChangeEvent{Entity: "outfit_collection", Op: "updated", ID: outfit.ID})
	s.publishActivity(events.KindCollectionSaved, outfit.ID, nil)
	return nil
}

// ---- profile ----

func (s *StoreService) Profile() entity.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// UpdateProfile replaces the whole record.
func (s *StoreService) UpdateProfile(profile entity.UserProfile) error {
	s.mu.Lock()
	if err := s.profiles.Put(profile); err != nil {
		s.mu.Unlock()
		return err
	}
	s.profile = profile
	subs := s.subscribers()
	s.mu.Unlock()

	notify(subs, ChangeEvent{Entity: "profile", Op: "updated"})
	s.publishActivity(events.KindProfileUpdated, "", nil)
	return nil
}

// SetFullBodyImage touches only the image field, re-persisting the whole
// record.
func (s *StoreService) SetFullBodyImage(img []byte) error {
	s.mu.Lock()
	next := s.profile
	next.FullBodyImageData = img
	if err := s.profiles.Put(next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.profile = next
	subs := s.subscribers()
	s.mu.Unlock()

	notify(subs, ChangeEvent{Entity: "profile", Op: "updated"})
	return nil
}

// ClearFullBodyImage removes the image, keeping every other field.
func (s *StoreService) ClearFullBodyImage() error {
	return s.SetFullBodyImage(nil)
}

// ResetProfile restores empty defaults; the record itself is never deleted.
func (s *StoreService) ResetProfile() error {
	return s.UpdateProfile(entity.UserProfile{})
}

// ---- elasticsearch ----

func (s *StoreService) indexItem(item entity.ClothingItem) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         item.ID,
		"name":       item.Name,
		"category":   string(item.Category),
		"tags":       item.Tags,
		"created_at": item.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: item.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	res, err := req.Do(ctx, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("item_id", item.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("item_id", item.ID).Warn("es index response error")
	}
}

func (s *StoreService) deindexItem(id string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: id}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	res, err := req.Do(ctx, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("item_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// SearchItems performs a multi_match query over name and tags. Returns an
// empty result when Elasticsearch is not configured.
func (s *StoreService) SearchItems(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "tags"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
