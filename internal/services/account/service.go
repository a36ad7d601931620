// File: internal/services/account/service.go

// Package account manages local and cloud sessions. Cloud accounts live in
// the same database as the remote store and authenticate with bcrypt
// password hashes and short-lived JWT session tokens.
package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ampersand-labs/homework/internal/domain"
)

// Account is a stored cloud account.
type Account struct {
	ID           string `gorm:"primarykey"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
}

type Service struct {
	db        *gorm.DB
	jwtSecret []byte
}

func NewService(db *gorm.DB, jwtSecret string) *Service {
	return &Service{db: db, jwtSecret: []byte(jwtSecret)}
}

// Migrate creates or updates the account table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Account{})
}

// Register creates a cloud account and returns its user identity.
func (s *Service) Register(ctx context.Context, email, password string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, ErrInvalidEmail
	}
	if len(password) < 8 {
		return domain.User{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	acct := Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.db.WithContext(ctx).Create(&acct).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE") {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}
	return cloudUser(acct), nil
}

// SignIn validates credentials and returns the user plus a session token.
// A failed sign-in never touches any existing session.
func (s *Service) SignIn(ctx context.Context, email, password string) (domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var acct Account
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&acct).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, "", ErrInvalidCredentials
		}
		return domain.User{}, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
		return domain.User{}, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(acct.ID)
	if err != nil {
		return domain.User{}, "", err
	}
	return cloudUser(acct), token, nil
}

// ValidateToken checks a session token and returns the account id it was
// issued for.
func (s *Service) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}

func (s *Service) issueToken(accountID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": accountID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func cloudUser(acct Account) domain.User {
	name := acct.Email
	if at := strings.Index(name, "@"); at > 0 {
		name = name[:at]
	}
	return domain.User{
		ID:      acct.ID,
		Name:    name,
		Email:   acct.Email,
		IsCloud: true,
	}
}
