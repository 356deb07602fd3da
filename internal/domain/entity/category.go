package entity

// ClothingCategory is the closed set of garment categories. The domain only
// ever stores and compares the tag; display names live in pkg/display.
type ClothingCategory string

const (
	CategoryTops        ClothingCategory = "tops"
	CategoryBottoms     ClothingCategory = "bottoms"
	CategoryDresses     ClothingCategory = "dresses"
	CategoryOuterwear   ClothingCategory = "outerwear"
	CategoryShoes       ClothingCategory = "shoes"
	CategoryAccessories ClothingCategory = "accessories"
)

// Categories lists all categories in display order.
func Categories() []ClothingCategory {
	return []ClothingCategory{
		CategoryTops,
		CategoryBottoms,
		CategoryDresses,
		CategoryOuterwear,
		CategoryShoes,
		CategoryAccessories,
	}
}

func (c ClothingCategory) Valid() bool {
	switch c {
	case CategoryTops, CategoryBottoms, CategoryDresses, CategoryOuterwear, CategoryShoes, CategoryAccessories:
		return true
	}
	return false
}

// Gender is the optional profile gender tag.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}
