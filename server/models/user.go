package models

import (
	"errors"
	"fmt"

	"github.com/Daskott/rolodex/server/auth"
	"gorm.io/gorm"
)

var (
	ErrDuplicateEmail = errors.New("an account with this email already exists")

	allFieldsExceptPassword = []string{"id",
		"first_name",
		"last_name",
		"email",
		"created_at",
		"updated_at",
	}

	searchableUserFields = map[string]bool{"id": true, "email": true}
)

type User struct {
	BaseModel
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email" gorm:"not null;unique"`
	Password  string `json:"password,omitempty" validate:"required,password" gorm:"not null"`
}

func (user *User) FullName() string {
	return user.FirstName + " " + user.LastName
}

// FindUserBy looks a user up by 'id' or 'email'. The password is never loaded.
func (store *Store) FindUserBy(field string, value interface{}) (*User, error) {
	if !searchableUserFields[field] {
		return nil, fmt.Errorf("FindUserBy: unsupported field %q", field)
	}

	user := User{}
	err := store.db.Select(allFieldsExceptPassword).First(&user, fmt.Sprintf("%v = ?", field), value).Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (store *Store) FindUserPassword(email string) (string, error) {
	user := &User{}
	err := store.db.Select("Password").First(user, "email = ?", email).Error

	if err != nil {
		return "", err
	}
	return user.Password, nil
}

// CreateUser hashes the user's password & saves the user
func (store *Store) CreateUser(user *User) error {
	err := store.db.Select("id").First(&User{}, "email = ?", user.Email).Error
	if err == nil {
		return ErrDuplicateEmail
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	passwordHash, err := auth.HashPassword(user.Password)
	if err != nil {
		return err
	}
	user.Password = passwordHash

	return store.db.Create(user).Error
}
