package utils

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rajivgeraev/skillswap-api/internal/apperrors"
)

// JWTService отвечает за создание и валидацию JWT токенов
type JWTService struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewJWTService создаёт новый экземпляр JWTService
func NewJWTService(secretKey string, ttlMinutes int) *JWTService {
	return &JWTService{
		secretKey: secretKey,
		tokenTTL:  time.Duration(ttlMinutes) * time.Minute,
	}
}

// GenerateToken создаёт JWT токен с идентификатором пользователя в sub
func (s *JWTService) GenerateToken(userID int64) (string, error) {
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"exp": time.Now().Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secretKey))
}

// ExtractUserID проверяет токен и извлекает идентификатор пользователя
func (s *JWTService) ExtractUserID(tokenString string) (int64, error) {
	if tokenString == "" {
		return 0, apperrors.ErrMissingToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrInvalidToken
		}
		return []byte(s.secretKey), nil
	})
	if err != nil || !token.Valid {
		return 0, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, apperrors.ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return 0, apperrors.ErrInvalidToken
	}

	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, apperrors.ErrInvalidToken
	}

	return userID, nil
}
