package session

import "strings"

// MaxConcerns caps PrioritizedConcerns.
const MaxConcerns = 5

// Concern is one selectable health concern.
type Concern struct {
	ID   int
	Name string
}

// DietOption is one selectable diet. Info backs the info popup on the diet screen.
type DietOption struct {
	ID   int
	Name string
	Info string
}

// Allergen is one allergy suggestion.
type Allergen struct {
	ID   int
	Name string
}

var concernCatalog = []Concern{
	{ID: 1, Name: "Sleep"},
	{ID: 2, Name: "Immunity"},
	{ID: 3, Name: "Stress"},
	{ID: 4, Name: "Joint Support"},
	{ID: 5, Name: "Digestion"},
	{ID: 6, Name: "Mood"},
	{ID: 7, Name: "Energy"},
	{ID: 8, Name: "Hair, Nail, Skin"},
	{ID: 9, Name: "Weight Loss"},
	{ID: 10, Name: "Fitness"},
}

var dietCatalog = []DietOption{
	{ID: 1, Name: "Vegan", Info: "No animal products at all, including dairy, eggs and honey."},
	{ID: 2, Name: "Vegetarian", Info: "No meat or fish. Dairy and eggs are fine."},
	{ID: 3, Name: "Plant Based", Info: "Mostly whole plant foods, with occasional animal products."},
	{ID: 4, Name: "Pescatarian", Info: "Vegetarian plus fish and seafood."},
	{ID: 5, Name: "Strict Paleo", Info: "Meat, fish, vegetables, fruit and nuts. No grains, legumes or dairy."},
	{ID: 6, Name: "Ketogenic", Info: "Very low carbohydrate, high fat."},
}

var allergenCatalog = []Allergen{
	{ID: 1, Name: "Milk"},
	{ID: 2, Name: "Meat"},
	{ID: 3, Name: "Wheat"},
	{ID: 4, Name: "Nasacort"},
	{ID: 5, Name: "Nasalide"},
	{ID: 6, Name: "Nasonex"},
}

// Concerns returns a copy of the concern catalog in display order.
func Concerns() []Concern { return append([]Concern(nil), concernCatalog...) }

// Diets returns a copy of the diet catalog in display order.
func Diets() []DietOption { return append([]DietOption(nil), dietCatalog...) }

// Allergens returns a copy of the allergy suggestion catalog.
func Allergens() []Allergen { return append([]Allergen(nil), allergenCatalog...) }

// IsConcern reports whether name is in the concern catalog.
func IsConcern(name string) bool {
	for _, c := range concernCatalog {
		if c.Name == name {
			return true
		}
	}
	return false
}

// DietByID looks up a diet option.
func DietByID(id int) (DietOption, bool) {
	for _, d := range dietCatalog {
		if d.ID == id {
			return d, true
		}
	}
	return DietOption{}, false
}

// DietByName looks up a diet option by its exact name.
func DietByName(name string) (DietOption, bool) {
	for _, d := range dietCatalog {
		if d.Name == name {
			return d, true
		}
	}
	return DietOption{}, false
}

// AllergenByName matches case-insensitively and returns the catalog spelling.
func AllergenByName(name string) (Allergen, bool) {
	for _, a := range allergenCatalog {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return Allergen{}, false
}
