package authentication

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrEmptySecret = errors.New("jwt secret must not be empty")

// Claims carries the user a token was issued to.
type Claims struct {
	UserID string `json:"id,omitempty"`
	Phone  string `json:"phone,omitempty"`
	jwt.RegisteredClaims
}

type JWT struct {
	secret []byte
}

func NewJWT(key string) (*JWT, error) {
	if key == "" {
		return nil, ErrEmptySecret
	}
	return &JWT{
		secret: []byte(key),
	}, nil
}

// GenerateKey returns a random base64 encoded key of length bytes.
func GenerateKey(length int) (string, error) {
	key := make([]byte, length)
	_, err := rand.Read(key)
	if err != nil {
		return "", errors.Join(errors.New("err when generating secret key"), err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

// NewToken signs a HS256 token for the user which expires after d.
func (j *JWT) NewToken(userID, phone string, d time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Phone:  phone,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	result, err := token.SignedString(j.secret)
	if err != nil {
		return "", errors.Join(errors.New("err when signing the token"), err)
	}
	return result, nil
}

func (j *JWT) Parse(input string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(input, &Claims{}, func(t *jwt.Token) (any, error) {
		return j.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, errors.Join(errors.New("err when parsing token"), err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid claim")
	}
	return claims, nil
}
