package transfer

import "github.com/golang-jwt/jwt/v5"

type CustomClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}
