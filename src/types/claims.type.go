package types

import "github.com/golang-jwt/jwt/v4"

type Claims struct {
	Username string `json:"username"`
	Customer string `json:"customer,omitempty"`
	jwt.RegisteredClaims
}
