package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestBodyDescriptionEmptyProfile(t *testing.T) {
	require.Equal(t, "", UserProfile{}.BodyDescription())
}

func TestBodyDescriptionComposesFragments(t *testing.T) {
	g := GenderFemale
	p := UserProfile{
		Gender: &g,
		Height: f(167.8),
		Weight: f(55.2),
		Measurements: BodyMeasurements{
			Bust:  f(88),
			Waist: f(64),
			Hips:  f(92),
		},
	}
	require.Equal(t, "female, height 167cm, weight 55kg, bust 88cm, waist 64cm, hips 92cm", p.BodyDescription())
}

func TestBodyDescriptionPartial(t *testing.T) {
	p := UserProfile{Height: f(180)}
	require.Equal(t, "height 180cm", p.BodyDescription())
	require.True(t, p.HasBasicInfo())
	require.False(t, p.HasMeasurements())
}

func TestCategoryValid(t *testing.T) {
	require.True(t, CategoryTops.Valid())
	require.True(t, CategoryAccessories.Valid())
	require.False(t, ClothingCategory("hats").Valid())
	require.Len(t, Categories(), 6)
}

func TestNewClothingItemDefaults(t *testing.T) {
	it := NewClothingItem("tee", CategoryTops, nil, nil)
	require.NotEmpty(t, it.ID)
	require.NotNil(t, it.Tags)
	require.Empty(t, it.Tags)
	require.False(t, it.CreatedAt.IsZero())
}
