package models

import (
	"os"
	"testing"

	"github.com/Daskott/rolodex/server/auth"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	auth.PasswordHashCost = bcrypt.MinCost
	os.Exit(m.Run())
}
