package file

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/quickfit/quickfit-server/internal/domain"
	"github.com/quickfit/quickfit-server/internal/domain/entity"
)

func newTestStore(t *testing.T, strict bool) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	s, err := NewStore(dir, Options{Strict: strict, Logger: logger})
	require.NoError(t, err)
	return s, dir
}

func TestWardrobeRoundTripAcrossRestart(t *testing.T) {
	s, dir := newTestStore(t, false)

	items := []entity.ClothingItem{
		entity.NewClothingItem("denim jacket", entity.CategoryOuterwear, []byte{0xff, 0xd8, 0xff}, []string{"casual"}),
		entity.NewClothingItem("white tee", entity.CategoryTops, []byte{0x89, 0x50}, nil),
	}
	require.NoError(t, s.Wardrobe().Replace(items))

	// a fresh store over the same directory simulates a restart
	s2, err := NewStore(dir, Options{})
	require.NoError(t, err)
	loaded, err := s2.Wardrobe().All()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	require.Equal(t, items[0].ID, loaded[0].ID)
	require.Equal(t, items[0].ImageData, loaded[0].ImageData)
	require.Equal(t, []string{}, loaded[1].Tags)
}

func TestMissingFilesYieldEmptyState(t *testing.T) {
	s, _ := newTestStore(t, false)

	items, err := s.Wardrobe().All()
	require.NoError(t, err)
	require.Empty(t, items)

	cols, err := s.Collections().All()
	require.NoError(t, err)
	require.Empty(t, cols)

	profile, err := s.Profile().Get()
	require.NoError(t, err)
	require.False(t, profile.HasFullBodyImage())
}

func TestCorruptFileDegradesToEmpty(t *testing.T) {
	s, dir := newTestStore(t, false)
	require.NoError(t, os.WriteFile(filepath.Join(dir, wardrobeFile), []byte("{not json"), 0o644))

	items, err := s.Wardrobe().All()
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestTypeMismatchedFileDegradesToEmpty(t *testing.T) {
	s, dir := newTestStore(t, false)

	// well-formed JSON whose second element has the wrong type for "id";
	// unmarshal fills the slice as far as it gets before failing, and none
	// of that partial state may leak out
	keep := entity.NewClothingItem("keep-me tee", entity.CategoryTops, []byte{0xff}, nil)
	raw, err := json.Marshal([]any{keep, map[string]any{"id": 5}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, wardrobeFile), raw, 0o644))

	items, err := s.Wardrobe().All()
	require.NoError(t, err)
	require.Empty(t, items)

	require.NoError(t, os.WriteFile(filepath.Join(dir, profileFile), []byte(`{"height":"tall"}`), 0o644))
	profile, err := s.Profile().Get()
	require.NoError(t, err)
	require.Equal(t, entity.UserProfile{}, profile)
}

func TestTypeMismatchedFileFailsInStrictMode(t *testing.T) {
	s, dir := newTestStore(t, true)
	require.NoError(t, os.WriteFile(filepath.Join(dir, wardrobeFile), []byte(`[{"id":5}]`), 0o644))

	_, err := s.Wardrobe().All()
	require.ErrorIs(t, err, domain.ErrStorageFailure)
}

func TestCorruptFileFailsInStrictMode(t *testing.T) {
	s, dir := newTestStore(t, true)
	require.NoError(t, os.WriteFile(filepath.Join(dir, wardrobeFile), []byte("{not json"), 0o644))

	_, err := s.Wardrobe().All()
	require.ErrorIs(t, err, domain.ErrStorageFailure)
}

func TestReplaceOverwritesWholeDocument(t *testing.T) {
	s, _ := newTestStore(t, false)

	a := entity.NewClothingItem("a", entity.CategoryTops, nil, nil)
	b := entity.NewClothingItem("b", entity.CategoryShoes, nil, nil)
	require.NoError(t, s.Wardrobe().Replace([]entity.ClothingItem{a, b}))
	require.NoError(t, s.Wardrobe().Replace([]entity.ClothingItem{b}))

	loaded, err := s.Wardrobe().All()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Equal(t, b.ID, loaded[0].ID)
}

func TestProfileRoundTrip(t *testing.T) {
	s, dir := newTestStore(t, false)

	g := entity.GenderFemale
	h := 168.0
	p := entity.UserProfile{
		FullBodyImageData: []byte{1, 2, 3},
		Gender:            &g,
		Height:            &h,
	}
	require.NoError(t, s.Profile().Put(p))

	s2, err := NewStore(dir, Options{})
	require.NoError(t, err)
	loaded, err := s2.Profile().Get()
	require.NoError(t, err)
	require.True(t, loaded.HasFullBodyImage())
	require.NotNil(t, loaded.Gender)
	require.Equal(t, entity.GenderFemale, *loaded.Gender)
	require.NotNil(t, loaded.Height)
	require.Equal(t, 168.0, *loaded.Height)
	require.Nil(t, loaded.Weight)
}

func TestNoTempFilesLeftBehind(t *testing.T) {
	s, dir := newTestStore(t, false)
	require.NoError(t, s.Wardrobe().Replace([]entity.ClothingItem{
		entity.NewClothingItem("x", entity.CategoryTops, nil, nil),
	}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		require.NotContains(t, e.Name(), ".tmp-")
	}
}
