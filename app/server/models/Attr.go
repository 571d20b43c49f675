package models

// RecipeAttr is the set of per-user labels that can be attached to a recipe.
type RecipeAttr interface {
	Tag | Ingredient
	GetID() uint
	GetName() string
}

func NewTag(userID uint, name string) Tag {
	return Tag{UserID: userID, Name: name}
}

func NewIngredient(userID uint, name string) Ingredient {
	return Ingredient{UserID: userID, Name: name}
}

func (t Tag) GetID() uint            { return t.ID }
func (t Tag) GetName() string        { return t.Name }
func (i Ingredient) GetID() uint     { return i.ID }
func (i Ingredient) GetName() string { return i.Name }
