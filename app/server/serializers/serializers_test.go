package serializers

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"recipe-app-api/app/server/errs"
	"recipe-app-api/app/server/models"
	"recipe-app-api/app/server/utils"
)

func fields(t *testing.T, err error) map[string][]string {
	t.Helper()

	var verr *errs.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Fields
}

func TestValidateUserCreate(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(&UserCreateInput{Email: "test@example.com", Password: "testpass123", Name: "Test"}))

	f := fields(t, v.Validate(&UserCreateInput{Email: "test@example.com", Password: "pw"}))
	assert.Equal(t, []string{"Ensure this field has at least 5 characters."}, f["password"])

	f = fields(t, v.Validate(&UserCreateInput{Email: "not-an-email", Password: "testpass123"}))
	assert.Equal(t, []string{"Enter a valid email address."}, f["email"])

	f = fields(t, v.Validate(&UserCreateInput{}))
	assert.Contains(t, f, "email")
	assert.Contains(t, f, "password")
}

func TestValidateUserUpdate(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(&UserUpdateInput{Name: utils.P("Only name")}))

	f := fields(t, v.Validate(&UserUpdateInput{Password: utils.P("")}))
	assert.Equal(t, []string{"This field is required."}, f["password"])

	in := &UserUpdateInput{Name: utils.P("x")}
	f = fields(t, in.Complete())
	assert.Contains(t, f, "email")
	assert.Contains(t, f, "password")
}

func TestNormalizeTrimsPasswords(t *testing.T) {
	create := &UserCreateInput{Email: "test@example.com", Password: "  testpass123 "}
	create.Normalize()
	assert.Equal(t, "testpass123", create.Password)

	token := &TokenInput{Email: "test@example.com", Password: "\ttestpass123\n"}
	token.Normalize()
	assert.Equal(t, "testpass123", token.Password)

	update := &UserUpdateInput{Password: utils.P(" newpass123 ")}
	update.Normalize()
	assert.Equal(t, "newpass123", *update.Password)

	empty := &UserUpdateInput{}
	empty.Normalize()
	assert.Nil(t, empty.Password)

	// 只有空白的密码在修剪后视为缺失
	blank := &TokenInput{Email: "test@example.com", Password: "   "}
	blank.Normalize()
	assert.Contains(t, fields(t, NewValidator().Validate(blank)), "password")
}

func TestValidateRecipePrice(t *testing.T) {
	v := NewValidator()

	cases := []struct {
		price string
		field string
		ok    bool
	}{
		{"5.25", "", true},
		{"999.99", "", true},
		{"0", "", true},
		{"1.50", "", true},
		{"1000", "Ensure that there are no more than 3 digits before the decimal point.", false},
		{"1.234", "Ensure that there are no more than 2 decimal places.", false},
		{"-1", "Ensure this value is greater than or equal to 0.", false},
	}

	for _, tc := range cases {
		price := decimal.RequireFromString(tc.price)
		err := v.Validate(&RecipeInput{Price: &price})
		if tc.ok {
			assert.NoError(t, err, tc.price)
			continue
		}
		assert.Contains(t, fields(t, err)["price"], tc.field, tc.price)
	}
}

func TestValidateRecipeFields(t *testing.T) {
	v := NewValidator()

	in := &RecipeInput{
		Title:       utils.P(""),
		TimeMinutes: utils.P(-1),
		Tags:        &[]AttrInput{{Name: "ok"}, {Name: ""}},
	}
	f := fields(t, v.Validate(in))
	assert.Equal(t, []string{"This field is required."}, f["title"])
	assert.Equal(t, []string{"Ensure this value is greater than or equal to 0."}, f["time_minutes"])
	assert.Equal(t, []string{"This field is required."}, f["tags[1].name"])

	f = fields(t, (&RecipeInput{Title: utils.P("Only title")}).Complete())
	assert.NotContains(t, f, "title")
	assert.Contains(t, f, "time_minutes")
	assert.Contains(t, f, "price")
}

func TestValidateBlankNames(t *testing.T) {
	v := NewValidator()

	f := fields(t, v.Validate(&RecipeInput{Title: utils.P("   ")}))
	assert.Equal(t, []string{"This field may not be blank."}, f["title"])

	f = fields(t, v.Validate(&RecipeInput{Ingredients: &[]AttrInput{{Name: "\t "}}}))
	assert.Equal(t, []string{"This field may not be blank."}, f["ingredients[0].name"])

	f = fields(t, v.Validate(&AttrUpdateInput{Name: utils.P(" ")}))
	assert.Contains(t, f, "name")
}

func TestRecipeInputRoundTrip(t *testing.T) {
	body := `{"title":"Chocolate cheesecake","time_minutes":30,"price":"5.00","link":"https://example.com/cake",
		"tags":[{"name":"Dessert"}],"ingredients":[{"name":"Cheese"},{"name":"Chocolate"}]}`

	var in RecipeInput
	require.NoError(t, json.Unmarshal([]byte(body), &in))
	require.NoError(t, NewValidator().Validate(&in))
	require.NoError(t, in.Complete())

	recipe, tags, ingredients := in.Recipe(7)
	assert.Equal(t, uint(7), recipe.UserID)
	assert.Equal(t, []string{"Dessert"}, tags)
	assert.Equal(t, []string{"Cheese", "Chocolate"}, ingredients)

	out := NewRecipeOutput(recipe)
	assert.Equal(t, "Chocolate cheesecake", out.Title)
	assert.Equal(t, 30, out.TimeMinutes)
	assert.Equal(t, "5.00", out.Price)
	assert.Equal(t, "https://example.com/cake", out.Link)

	// 输出再作为输入仍然得到同样的值
	encoded, err := json.Marshal(out)
	require.NoError(t, err)
	var again RecipeInput
	require.NoError(t, json.Unmarshal(encoded, &again))
	assert.Equal(t, *in.Title, *again.Title)
	assert.Equal(t, *in.TimeMinutes, *again.TimeMinutes)
	assert.True(t, in.Price.Equal(*again.Price))
	assert.Equal(t, *in.Link, *again.Link)
}

func TestRecipeInputNumericPrice(t *testing.T) {
	var in RecipeInput
	require.NoError(t, json.Unmarshal([]byte(`{"price": 12.5}`), &in))
	assert.Equal(t, "12.50", in.Price.StringFixed(2))
}

func TestRecipeChangesOnlyPresentFields(t *testing.T) {
	in := &RecipeInput{Title: utils.P("New title"), Tags: &[]AttrInput{}}
	changes := in.Changes()

	assert.Equal(t, map[string]any{"title": "New title"}, changes.Columns)
	require.NotNil(t, changes.Tags)
	assert.Empty(t, *changes.Tags)
	assert.Nil(t, changes.Ingredients)
}

func TestRecipeDetailOutputImage(t *testing.T) {
	url := func(key string) string { return "/static/media/" + key }
	recipe := &models.Recipe{ID: 3, Price: decimal.RequireFromString("2.5")}

	out := NewRecipeDetailOutput(recipe, url)
	assert.Nil(t, out.Image)
	assert.Equal(t, "2.50", out.Price)
	assert.NotNil(t, out.Tags)

	recipe.Image = utils.P("uploads/recipe/a.png")
	out = NewRecipeDetailOutput(recipe, url)
	require.NotNil(t, out.Image)
	assert.Equal(t, "/static/media/uploads/recipe/a.png", *out.Image)

	encoded, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"description":""`)
	assert.Contains(t, string(encoded), `"id":3`)
}
