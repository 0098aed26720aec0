package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/Felixnganga-max/kamson/internal/apperr"
	"github.com/Felixnganga-max/kamson/internal/models"
	"github.com/Felixnganga-max/kamson/internal/repository"
)

type UserRepository interface {
	Insert(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

type DuplicateKeyChecker func(error) bool

type AuthService struct {
	repo        UserRepository
	secret      []byte
	ttl         time.Duration
	isDuplicate DuplicateKeyChecker
	now         func() time.Time
}

func NewAuthService(repo UserRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		repo:        repo,
		secret:      []byte(secret),
		ttl:         ttl,
		isDuplicate: repository.IsDuplicateKey,
		now:         time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, apperr.BadRequest("email and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("Internal server error", err)
	}
	u := &models.User{Name: name, Email: email, PasswordHash: string(hash)}
	if err := s.repo.Insert(ctx, u); err != nil {
		if s.isDuplicate(err) {
			return nil, apperr.Conflict("Email already registered")
		}
		return nil, apperr.Internal("Internal server error", err)
	}
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	if email == "" || password == "" {
		return "", nil, apperr.BadRequest("email and password are required")
	}
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if err == repository.ErrNotFound {
			return "", nil, apperr.Unauthorized("Invalid credentials")
		}
		return "", nil, apperr.Internal("Internal server error", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperr.Unauthorized("Invalid credentials")
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   u.ID.Hex(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, apperr.Internal("Internal server error", err)
	}
	return token, u, nil
}

// VerifyToken returns the user id carried by a valid token.
func (s *AuthService) VerifyToken(token string) (string, error) {
	t, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !t.Valid {
		return "", apperr.Unauthorized("invalid token")
	}
	claims, ok := t.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", apperr.Unauthorized("invalid token")
	}
	return claims.Subject, nil
}
