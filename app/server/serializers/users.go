package serializers

import (
	"recipe-app-api/app/server/accounts"
	"recipe-app-api/app/server/errs"
	"recipe-app-api/app/server/models"
	"recipe-app-api/app/server/utils"
	"strings"
	"time"
)

type UserCreateInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=5"` // 只写
	Name     string `json:"name" validate:"max=255"`
}

// Normalize trims surrounding whitespace from the password before validation.
func (in *UserCreateInput) Normalize() {
	in.Password = strings.TrimSpace(in.Password)
}

type UserUpdateInput struct {
	Email    *string `json:"email" validate:"omitnil,required,email,max=255"`
	Password *string `json:"password" validate:"omitnil,required,min=5"`
	Name     *string `json:"name" validate:"omitnil,max=255"`
}

// Normalize trims surrounding whitespace from the password, as on signup and login.
func (in *UserUpdateInput) Normalize() {
	if in.Password != nil {
		in.Password = utils.P(strings.TrimSpace(*in.Password))
	}
}

// Complete reports the fields a full update (PUT) must carry.
func (in *UserUpdateInput) Complete() error {
	verr := &errs.ValidationError{}
	if in.Email == nil {
		verr.Add("email", "This field is required.")
	}
	if in.Password == nil {
		verr.Add("password", "This field is required.")
	}
	return verr.OrNil()
}

func (in *UserUpdateInput) Changes() accounts.ProfileChanges {
	return accounts.ProfileChanges{
		Email:    in.Email,
		Password: in.Password,
		Name:     in.Name,
	}
}

type UserOutput struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func NewUserOutput(user *models.User) *UserOutput {
	return &UserOutput{
		Email: user.Email,
		Name:  user.Name,
	}
}

type TokenInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (in *TokenInput) Normalize() {
	in.Password = strings.TrimSpace(in.Password)
}

type TokenOutput struct {
	Token string `json:"token"`
}

type AdminUserOutput struct {
	ID          uint      `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	IsActive    bool      `json:"is_active"`
	IsStaff     bool      `json:"is_staff"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewAdminUserOutput(user *models.User) AdminUserOutput {
	return AdminUserOutput{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		IsActive:    user.IsActive,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
		CreatedAt:   user.CreatedAt,
	}
}

type AdminUserListResponse struct {
	Limit   int               `json:"limit"`
	PageMax int64             `json:"page_max"`
	List    []AdminUserOutput `json:"list"`
}
