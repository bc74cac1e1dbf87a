package auth

import (
	"fmt"

	"github.com/Daskott/rolodex/server/auth/key"
	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHashCost is the bcrypt cost used for new passwords
var PasswordHashCost = 14

// SignedURLClaims ties a signature to a session & to the exact
// path + query it was issued for.
type SignedURLClaims struct {
	SessionKey string `json:"sk"`
	Digest     string `json:"dg"`
	jwt.StandardClaims
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func EncodeJWT(claims SignedURLClaims, keyPair *key.KeyPair) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = keyPair.Kid

	tokenString, err := token.SignedString(keyPair.PrivateKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func DecodeJWT(tokenString string, keyPair *key.KeyPair) (*SignedURLClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SignedURLClaims{}, func(token *jwt.Token) (interface{}, error) {
		// validate the alg is what you expect:
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		if kid, _ := token.Header["kid"].(string); kid != keyPair.Kid {
			return nil, fmt.Errorf("unknown key id: %v", token.Header["kid"])
		}

		return keyPair.PublicKey, nil
	})

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid jwt: %v", err)
	}

	tokenClaims, ok := token.Claims.(*SignedURLClaims)
	if !ok {
		return nil, fmt.Errorf("unable to assert token.Claims to SignedURLClaims")
	}

	return tokenClaims, nil
}
