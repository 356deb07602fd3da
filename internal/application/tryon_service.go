package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/quickfit/quickfit-server/internal/domain"
	"github.com/quickfit/quickfit-server/internal/domain/entity"
	"github.com/quickfit/quickfit-server/pkg/events"
	"github.com/quickfit/quickfit-server/pkg/imageproc"
	"github.com/quickfit/quickfit-server/pkg/tryon"
)

// MaxGarments caps the active try-on selection.
const MaxGarments = 3

// ErrUploadsPending is returned by Favorite when the selection still holds
// ad-hoc uploads that have no wardrobe identity. The caller must collect a
// name and category for each and retry through FavoriteWithNewItems.
var ErrUploadsPending = errors.New("selection has uploads that need a name and category")

// ErrStaleGeneration marks a generation result that arrived after the
// selection changed; the result was discarded.
var ErrStaleGeneration = errors.New("generation superseded by a selection change")

// Garment is one entry in the active selection. Wardrobe garments carry
// their item id and category; ad-hoc uploads carry only image bytes.
type Garment struct {
	ItemID   string
	Category entity.ClothingCategory
	Image    []byte
}

// Upload resolves an ad-hoc upload into a wardrobe identity during the
// deferred-favorite flow.
type Upload struct {
	Name     string
	Category entity.ClothingCategory
}

// GarmentInfo is the read-only view of one selected garment.
type GarmentInfo struct {
	ItemID   string `json:"item_id,omitempty"`
	Category string `json:"category,omitempty"`
	Uploaded bool   `json:"uploaded"`
}

// State is a consistent snapshot of the try-on session.
type State struct {
	Garments    []GarmentInfo `json:"garments"`
	CanGenerate bool          `json:"can_generate"`
	HasResult   bool          `json:"has_result"`
	Favorited   bool          `json:"favorited"`
	OutfitID    string        `json:"outfit_id,omitempty"`
	LastError   string        `json:"last_error,omitempty"`
}

// TryOnService holds the mutable try-on session: the garment selection, the
// latest generated result and its favorite link. Selection rules:
//
//   - picking a wardrobe garment whose category is already selected replaces
//     that garment in place;
//   - ad-hoc uploads are exempt from category exclusivity but count toward
//     the cap;
//   - at most MaxGarments garments; a rejected add leaves the selection
//     unchanged;
//   - any selection change (and any person-image change) invalidates the
//     current result and detaches the favorite link.
type TryOnService struct {
	mu sync.Mutex

	store  *StoreService
	gen    tryon.Generator
	logger *logrus.Logger

	maxDim    int
	byteLimit int

	garments  []Garment
	result    []byte
	favorited bool
	outfitID  string
	lastError string
	epoch     uint64
}

// NewTryOnService wires the session to the store. Profile changes and
// wardrobe deletions invalidate the session through the store's change feed.
func NewTryOnService(store *StoreService, gen tryon.Generator, logger *logrus.Logger, maxDim, byteLimit int) *TryOnService {
	if maxDim <= 0 {
		maxDim = imageproc.DefaultMaxDim
	}
	if byteLimit <= 0 {
		byteLimit = imageproc.DefaultMaxSize
	}
	s := &TryOnService{
		store:     store,
		gen:       gen,
		logger:    logger,
		maxDim:    maxDim,
		byteLimit: byteLimit,
	}
	store.Subscribe(func(ev ChangeEvent) {
		switch {
		case ev.Entity == "profile":
			s.mu.Lock()
			s.invalidateLocked()
			s.mu.Unlock()
		case ev.Entity == "clothing_item" && ev.Op == "removed":
			s.mu.Lock()
			s.dropItemLocked(ev.ID)
			s.mu.Unlock()
		}
	})
	return s
}

// invalidateLocked advances the epoch so in-flight generations land stale,
// drops the result and detaches (without deleting) any favorite link.
func (s *TryOnService) invalidateLocked() {
	s.epoch++
	s.result = nil
	s.favorited = false
	s.outfitID = ""
}

// dropItemLocked removes a deleted wardrobe item from the selection.
func (s *TryOnService) dropItemLocked(id string) {
	for i, g := range s.garments {
		if g.ItemID != "" && g.ItemID == id {
			s.garments = append(s.garments[:i], s.garments[i+1:]...)
			s.invalidateLocked()
			return
		}
	}
}

// SelectItem adds a wardrobe garment to the selection. A garment of the same
// category already in the selection is replaced in place; otherwise the
// garment is appended, subject to the cap.
func (s *TryOnService) SelectItem(id string) error {
	item, ok := s.store.Item(id)
	if !ok {
		s.setError("clothing item not found")
		return fmt.Errorf("%w: clothing item %s", domain.ErrNotFound, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = ""
	return s.placeItemLocked(item)
}

func (s *TryOnService) placeItemLocked(item entity.ClothingItem) error {
	g := Garment{ItemID: item.ID, Category: item.Category, Image: item.ImageData}
	for i, cur := range s.garments {
		if cur.ItemID != "" && cur.Category == item.Category {
			if cur.ItemID == item.ID {
				return nil // already selected
			}
			s.garments[i] = g
			s.invalidateLocked()
			return nil
		}
	}
	if len(s.garments) >= MaxGarments {
		s.lastError = fmt.Sprintf("at most %d garments per try-on", MaxGarments)
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, s.lastError)
	}
	s.garments = append(s.garments, g)
	s.invalidateLocked()
	return nil
}

// AddUpload adds an ad-hoc garment image. If the exact image already lives
// in the wardrobe the upload is treated as selecting that item, category
// rules included.
func (s *TryOnService) AddUpload(img []byte) error {
	if _, err := imageproc.Decode(img); err != nil {
		s.setError("uploaded garment is not a valid image")
		return err
	}
	if item, ok := s.store.FindItemByImage(img); ok {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.lastError = ""
		return s.placeItemLocked(item)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = ""
	if len(s.garments) >= MaxGarments {
		s.lastError = fmt.Sprintf("at most %d garments per try-on", MaxGarments)
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, s.lastError)
	}
	s.garments = append(s.garments, Garment{Image: img})
	s.invalidateLocked()
	return nil
}

// RemoveGarment drops the garment at index.
func (s *TryOnService) RemoveGarment(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = ""
	if index < 0 || index >= len(s.garments) {
		return fmt.Errorf("%w: garment index %d out of range", domain.ErrInvalidInput, index)
	}
	s.garments = append(s.garments[:index], s.garments[index+1:]...)
	s.invalidateLocked()
	return nil
}

// ClearSelection empties the selection.
func (s *TryOnService) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = ""
	if len(s.garments) == 0 {
		return
	}
	s.garments = nil
	s.invalidateLocked()
}

// CanGenerate reports whether a generation may start: a full-body profile
// image plus one to MaxGarments garments.
func (s *TryOnService) CanGenerate() bool {
	profile := s.store.Profile()
	s.mu.Lock()
	defer s.mu.Unlock()
	return profile.HasFullBodyImage() && len(s.garments) >= 1 && len(s.garments) <= MaxGarments
}

// Generate runs one try-on round trip. The selection snapshot is taken under
// the lock, the pipeline and network call run outside it, and the result is
// applied only if the selection has not changed in the meantime.
func (s *TryOnService) Generate(ctx context.Context) ([]byte, error) {
	profile := s.store.Profile()

	s.mu.Lock()
	s.lastError = ""
	if !profile.HasFullBodyImage() {
		s.lastError = "set a full-body photo before generating"
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, s.lastError)
	}
	if len(s.garments) == 0 {
		s.lastError = "select at least one garment"
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, s.lastError)
	}
	epoch := s.epoch
	garments := make([][]byte, len(s.garments))
	for i, g := range s.garments {
		garments[i] = g.Image
	}
	s.mu.Unlock()

	person, err := imageproc.PrepareForUpload(profile.FullBodyImageData, s.maxDim, s.byteLimit)
	if err != nil {
		s.setError("full-body photo could not be processed")
		return nil, err
	}
	for i, img := range garments {
		prepared, err := imageproc.PrepareForUpload(img, s.maxDim, s.byteLimit)
		if err != nil {
			s.setError("a selected garment image could not be processed")
			return nil, err
		}
		garments[i] = prepared
	}

	out, err := s.gen.Generate(ctx, tryon.Request{
		PersonImage:     person,
		ClothingImages:  garments,
		BodyDescription: profile.BodyDescription(),
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		if s.logger != nil {
			s.logger.Debug("discarding stale try-on result")
		}
		return nil, ErrStaleGeneration
	}
	if err != nil {
		s.lastError = "try-on generation failed"
		return nil, err
	}
	s.result = out
	s.favorited = false
	s.outfitID = ""
	s.store.publishActivity(events.KindTryOnGenerated, "", map[string]any{"garments": len(garments)})
	return out, nil
}

// Result returns the current generated image, nil when none.
func (s *TryOnService) Result() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Favorite toggles the favorite link for the current result. Favoriting
// creates a collection referencing the selected wardrobe items by id;
// unfavoriting removes that collection. When the selection still contains
// ad-hoc uploads, ErrUploadsPending asks the caller to resolve them first.
func (s *TryOnService) Favorite(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = ""

	if s.favorited && s.outfitID != "" {
		id := s.outfitID
		s.favorited = false
		s.outfitID = ""
		return s.store.RemoveOutfitCollection(id)
	}
	if s.result == nil {
		s.lastError = "generate a try-on before favoriting"
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, s.lastError)
	}
	for _, g := range s.garments {
		if g.ItemID == "" {
			return ErrUploadsPending
		}
	}
	return s.favoriteLocked(name)
}

func (s *TryOnService) favoriteLocked(name string) error {
	ids := make([]string, len(s.garments))
	for i, g := range s.garments {
		ids[i] = g.ItemID
	}
	person := s.store.Profile().FullBodyImageData
	oc := entity.NewOutfitCollection(name, person, ids, s.result)
	if err := s.store.AddOutfitCollection(oc); err != nil {
		return err
	}
	s.favorited = true
	s.outfitID = oc.ID
	return nil
}

// FavoriteWithNewItems completes the deferred-favorite flow: each pending
// upload gets a name and category, becomes a wardrobe item, and the
// collection is created over the now fully-identified selection. Resolving
// uploads this way does not invalidate the result.
func (s *TryOnService) FavoriteWithNewItems(name string, uploads []Upload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = ""

	if s.result == nil {
		s.lastError = "generate a try-on before favoriting"
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, s.lastError)
	}
	pending := 0
	for _, g := range s.garments {
		if g.ItemID == "" {
			pending++
		}
	}
	if pending != len(uploads) {
		return fmt.Errorf("%w: %d uploads pending, %d details given", domain.ErrInvalidInput, pending, len(uploads))
	}
	for _, u := range uploads {
		if u.Name == "" || !u.Category.Valid() {
			return fmt.Errorf("%w: each upload needs a name and a valid category", domain.ErrInvalidInput)
		}
	}

	next := 0
	for i, g := range s.garments {
		if g.ItemID != "" {
			continue
		}
		u := uploads[next]
		next++
		item := entity.NewClothingItem(u.Name, u.Category, g.Image, nil)
		if err := s.store.AddClothingItem(item); err != nil {
			return err
		}
		s.garments[i] = Garment{ItemID: item.ID, Category: item.Category, Image: item.ImageData}
	}
	return s.favoriteLocked(name)
}

// IsFavorited reports whether the current result is linked to a collection.
func (s *TryOnService) IsFavorited() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favorited
}

// LastError returns the single current user-facing error message.
func (s *TryOnService) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

func (s *TryOnService) setError(msg string) {
	s.mu.Lock()
	s.lastError = msg
	s.mu.Unlock()
}

// Snapshot returns the session state for the API.
func (s *TryOnService) Snapshot() State {
	canGen := s.CanGenerate()
	s.mu.Lock()
	defer s.mu.Unlock()
	infos := make([]GarmentInfo, len(s.garments))
	for i, g := range s.garments {
		infos[i] = GarmentInfo{ItemID: g.ItemID, Category: string(g.Category), Uploaded: g.ItemID == ""}
	}
	return State{
		Garments:    infos,
		CanGenerate: canGen,
		HasResult:   s.result != nil,
		Favorited:   s.favorited,
		OutfitID:    s.outfitID,
		LastError:   s.lastError,
	}
}
