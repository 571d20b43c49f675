// Package accounts owns user identity: email normalization, password hashing and credential checks.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"github.com/alexedwards/argon2id"
	"recipe-app-api/app/server/errs"
	"recipe-app-api/app/server/models"
	"recipe-app-api/app/server/store"
	"strings"
)

// dummyHash is checked against when the email is unknown so both paths cost one hash.
var dummyHash string

func init() {
	var err error
	if dummyHash, err = argon2id.CreateHash("recipe-app-api-dummy", argon2id.DefaultParams); err != nil {
		panic(fmt.Errorf("create dummy hash: %w", err))
	}
}

type Manager struct {
	users  store.UserRepository
	params *argon2id.Params
}

func NewManager(users store.UserRepository) *Manager {
	return &Manager{users: users, params: argon2id.DefaultParams}
}

// NormalizeEmail lower-cases the domain part and keeps the local part as written.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

func (m *Manager) hash(password string) (string, error) {
	hash, err := argon2id.CreateHash(password, m.params)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

func (m *Manager) CreateUser(ctx context.Context, email string, password string, name string) (*models.User, error) {
	return m.create(ctx, &models.User{Email: email, Name: name, IsActive: true}, password)
}

func (m *Manager) CreateSuperuser(ctx context.Context, email string, password string) (*models.User, error) {
	return m.create(ctx, &models.User{Email: email, IsActive: true, IsStaff: true, IsSuperuser: true}, password)
}

func (m *Manager) create(ctx context.Context, user *models.User, password string) (*models.User, error) {
	user.Email = NormalizeEmail(user.Email)
	if user.Email == "" {
		return nil, errs.Invalid("email", "This field is required.")
	}

	var err error
	if user.Password, err = m.hash(password); err != nil {
		return nil, err
	}

	if err = m.users.Create(ctx, user); err != nil {
		return nil, duplicateEmail(err)
	}
	return user, nil
}

// VerifyCredentials returns errs.ErrInvalidCredentials for unknown emails, wrong passwords and inactive users alike.
func (m *Manager) VerifyCredentials(ctx context.Context, email string, password string) (*models.User, error) {
	user, err := m.users.GetByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, errs.ErrNotFound) {
		_, _, _ = argon2id.CheckHash(password, dummyHash)
		return nil, errs.ErrInvalidCredentials
	} else if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	match, _, err := argon2id.CheckHash(password, user.Password)
	if err != nil {
		return nil, fmt.Errorf("check password: %w", err)
	}
	if !match || !user.IsActive {
		return nil, errs.ErrInvalidCredentials
	}
	return user, nil
}

func (m *Manager) SetPassword(ctx context.Context, user *models.User, password string) error {
	hash, err := m.hash(password)
	if err != nil {
		return err
	}
	user.Password = hash
	return m.users.Update(ctx, user, "password")
}

type ProfileChanges struct {
	Email    *string
	Password *string
	Name     *string
}

// UpdateProfile applies the non-nil changes in a single write.
func (m *Manager) UpdateProfile(ctx context.Context, user *models.User, changes ProfileChanges) error {
	var columns []string

	if changes.Email != nil {
		email := NormalizeEmail(*changes.Email)
		if email == "" {
			return errs.Invalid("email", "This field may not be blank.")
		}
		user.Email = email
		columns = append(columns, "email")
	}
	if changes.Name != nil {
		user.Name = *changes.Name
		columns = append(columns, "name")
	}
	if changes.Password != nil {
		hash, err := m.hash(*changes.Password)
		if err != nil {
			return err
		}
		user.Password = hash
		columns = append(columns, "password")
	}

	if err := m.users.Update(ctx, user, columns...); err != nil {
		return duplicateEmail(err)
	}
	return nil
}

// DeleteUser removes the user with everything it owns and returns the image keys left in storage.
func (m *Manager) DeleteUser(ctx context.Context, id uint) ([]string, error) {
	return m.users.Delete(ctx, id)
}

func duplicateEmail(err error) error {
	if errors.Is(err, errs.ErrDuplicate) {
		return errs.Duplicate("email", "user with this email already exists.")
	}
	return err
}
