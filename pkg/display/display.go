// Package display maps domain enum tags to localized display strings. The
// domain layer never stores or compares these; they exist only for API
// responses that want a human label.
package display

import "github.com/quickfit/quickfit-server/internal/domain/entity"

type Locale string

const (
	LocaleEN Locale = "en"
	LocaleZH Locale = "zh"
)

var categoryNames = map[Locale]map[entity.ClothingCategory]string{
	LocaleEN: {
		entity.CategoryTops:        "Tops",
		entity.CategoryBottoms:     "Bottoms",
		entity.CategoryDresses:     "Dresses",
		entity.CategoryOuterwear:   "Outerwear",
		entity.CategoryShoes:       "Shoes",
		entity.CategoryAccessories: "Accessories",
	},
	LocaleZH: {
		entity.CategoryTops:        "上衣",
		entity.CategoryBottoms:     "裤子",
		entity.CategoryDresses:     "连衣裙",
		entity.CategoryOuterwear:   "外套",
		entity.CategoryShoes:       "鞋子",
		entity.CategoryAccessories: "配饰",
	},
}

var genderNames = map[Locale]map[entity.Gender]string{
	LocaleEN: {
		entity.GenderMale:   "Male",
		entity.GenderFemale: "Female",
		entity.GenderOther:  "Other",
	},
	LocaleZH: {
		entity.GenderMale:   "男",
		entity.GenderFemale: "女",
		entity.GenderOther:  "其他",
	},
}

// CategoryName returns the localized label, falling back to English and
// finally to the raw tag for unknown pairs.
func CategoryName(c entity.ClothingCategory, loc Locale) string {
	if names, ok := categoryNames[loc]; ok {
		if n, ok := names[c]; ok {
			return n
		}
	}
	if n, ok := categoryNames[LocaleEN][c]; ok {
		return n
	}
	return string(c)
}

// GenderName returns the localized label with the same fallback rules.
func GenderName(g entity.Gender, loc Locale) string {
	if names, ok := genderNames[loc]; ok {
		if n, ok := names[g]; ok {
			return n
		}
	}
	if n, ok := genderNames[LocaleEN][g]; ok {
		return n
	}
	return string(g)
}
