package models

import (
	"errors"
	"testing"

	"github.com/Daskott/rolodex/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateUser(t *testing.T) {
	store := InitializeTestStore(t)

	user := &User{FirstName: "tony", LastName: "stark", Email: "stark@avengers.com", Password: "very-secure"}
	require.Nil(t, store.CreateUser(user))
	assert.NotEqual(t, "very-secure", user.Password, "Password should be hashed")

	err := store.CreateUser(&User{FirstName: "fake", LastName: "tony", Email: "stark@avengers.com", Password: "secure"})
	assert.True(t, errors.Is(err, ErrDuplicateEmail))

	hash, err := store.FindUserPassword("stark@avengers.com")
	assert.Nil(t, err)
	assert.True(t, auth.CheckPasswordHash("very-secure", hash))

	found, err := store.FindUserBy("email", "stark@avengers.com")
	assert.Nil(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Empty(t, found.Password, "Password should not be loaded")
	assert.Equal(t, "tony stark", found.FullName())

	_, err = store.FindUserBy("id", user.ID+100)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	_, err = store.FindUserBy("password", "x")
	assert.NotNil(t, err)
}
