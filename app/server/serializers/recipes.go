package serializers

import (
	"github.com/shopspring/decimal"
	"recipe-app-api/app/server/errs"
	"recipe-app-api/app/server/models"
	"recipe-app-api/app/server/store"
)

type AttrInput struct {
	Name string `json:"name" validate:"required,notblank,max=255"`
}

type AttrOutput struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func NewAttrOutput[M models.RecipeAttr](attr M) AttrOutput {
	return AttrOutput{
		ID:   attr.GetID(),
		Name: attr.GetName(),
	}
}

func NewAttrOutputs[M models.RecipeAttr](attrs []M) []AttrOutput {
	res := make([]AttrOutput, 0, len(attrs))
	for _, attr := range attrs {
		res = append(res, NewAttrOutput(attr))
	}
	return res
}

// RecipeInput uses pointers so a partial update can tell missing fields from zero values.
// id, image and the owner are read-only and not accepted here.
type RecipeInput struct {
	Title       *string          `json:"title" validate:"omitnil,required,notblank,max=255"`
	TimeMinutes *int             `json:"time_minutes" validate:"omitnil,gte=0"`
	Price       *decimal.Decimal `json:"price" validate:"omitnil,nonnegative,max_digits=5,max_whole_digits=3,decimal_places=2"`
	Description *string          `json:"description"`
	Link        *string          `json:"link" validate:"omitnil,max=255"`
	Tags        *[]AttrInput     `json:"tags" validate:"omitnil,dive"`
	Ingredients *[]AttrInput     `json:"ingredients" validate:"omitnil,dive"`
}

// Complete reports the fields a create or full update must carry.
func (in *RecipeInput) Complete() error {
	verr := &errs.ValidationError{}
	if in.Title == nil {
		verr.Add("title", "This field is required.")
	}
	if in.TimeMinutes == nil {
		verr.Add("time_minutes", "This field is required.")
	}
	if in.Price == nil {
		verr.Add("price", "This field is required.")
	}
	return verr.OrNil()
}

func attrNames(in *[]AttrInput) *[]string {
	if in == nil {
		return nil
	}
	names := make([]string, 0, len(*in))
	for _, attr := range *in {
		names = append(names, attr.Name)
	}
	return &names
}

// Recipe builds a new recipe for ownerID with the tag and ingredient names to attach.
func (in *RecipeInput) Recipe(ownerID uint) (recipe *models.Recipe, tags []string, ingredients []string) {
	recipe = &models.Recipe{UserID: ownerID}
	if in.Title != nil {
		recipe.Title = *in.Title
	}
	if in.TimeMinutes != nil {
		recipe.TimeMinutes = *in.TimeMinutes
	}
	if in.Price != nil {
		recipe.Price = *in.Price
	}
	if in.Description != nil {
		recipe.Description = *in.Description
	}
	if in.Link != nil {
		recipe.Link = *in.Link
	}

	if names := attrNames(in.Tags); names != nil {
		tags = *names
	}
	if names := attrNames(in.Ingredients); names != nil {
		ingredients = *names
	}
	return recipe, tags, ingredients
}

// Changes lists only the fields present in the request.
func (in *RecipeInput) Changes() store.RecipeChanges {
	columns := make(map[string]any)
	if in.Title != nil {
		columns["title"] = *in.Title
	}
	if in.TimeMinutes != nil {
		columns["time_minutes"] = *in.TimeMinutes
	}
	if in.Price != nil {
		columns["price"] = *in.Price
	}
	if in.Description != nil {
		columns["description"] = *in.Description
	}
	if in.Link != nil {
		columns["link"] = *in.Link
	}

	return store.RecipeChanges{
		Columns:     columns,
		Tags:        attrNames(in.Tags),
		Ingredients: attrNames(in.Ingredients),
	}
}

type RecipeOutput struct {
	ID          uint         `json:"id"`
	Title       string       `json:"title"`
	TimeMinutes int          `json:"time_minutes"`
	Price       string       `json:"price"`
	Link        string       `json:"link"`
	Tags        []AttrOutput `json:"tags"`
	Ingredients []AttrOutput `json:"ingredients"`
}

func NewRecipeOutput(recipe *models.Recipe) RecipeOutput {
	return RecipeOutput{
		ID:          recipe.ID,
		Title:       recipe.Title,
		TimeMinutes: recipe.TimeMinutes,
		Price:       recipe.Price.StringFixed(2),
		Link:        recipe.Link,
		Tags:        NewAttrOutputs(recipe.Tags),
		Ingredients: NewAttrOutputs(recipe.Ingredients),
	}
}

func NewRecipeOutputs(recipes []models.Recipe) []RecipeOutput {
	res := make([]RecipeOutput, 0, len(recipes))
	for i := range recipes {
		res = append(res, NewRecipeOutput(&recipes[i]))
	}
	return res
}

type RecipeDetailOutput struct {
	RecipeOutput
	Description string  `json:"description"`
	Image       *string `json:"image"`
}

// NewRecipeDetailOutput renders the stored image key through url.
func NewRecipeDetailOutput(recipe *models.Recipe, url func(key string) string) *RecipeDetailOutput {
	return &RecipeDetailOutput{
		RecipeOutput: NewRecipeOutput(recipe),
		Description:  recipe.Description,
		Image:        imageURL(recipe, url),
	}
}

type RecipeImageOutput struct {
	ID    uint    `json:"id"`
	Image *string `json:"image"`
}

func NewRecipeImageOutput(recipe *models.Recipe, url func(key string) string) *RecipeImageOutput {
	return &RecipeImageOutput{
		ID:    recipe.ID,
		Image: imageURL(recipe, url),
	}
}

func imageURL(recipe *models.Recipe, url func(key string) string) *string {
	if recipe.Image == nil || *recipe.Image == "" {
		return nil
	}
	u := url(*recipe.Image)
	return &u
}

type AttrUpdateInput struct {
	Name *string `json:"name" validate:"omitnil,required,notblank,max=255"`
}

// Complete reports the fields a full update (PUT) must carry.
func (in *AttrUpdateInput) Complete() error {
	if in.Name == nil {
		return errs.Invalid("name", "This field is required.")
	}
	return nil
}
