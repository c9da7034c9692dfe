package libs

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/RayaSatriatama/dicoding-genai-backend/model"
)

// UserStore is the persistence contract for accounts.
type UserStore interface {
	Create(ctx context.Context, email, hashedPassword string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// Auth is the identity boundary: it issues and verifies tokens, and the
// rest of the service trusts the userId it extracts.
type Auth struct {
	store  UserStore
	secret []byte
}

func NewAuth(store UserStore, secret string) *Auth {
	return &Auth{store: store, secret: []byte(secret)}
}

func (a *Auth) Register(ctx context.Context, email, password string) (*model.User, error) {
	if _, err := a.store.FindByEmail(ctx, email); err == nil {
		return nil, model.ErrEmailTaken
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return a.store.Create(ctx, email, string(hashed))
}

// Login verifies credentials and returns the user plus a signed token.
// Wrong email and wrong password are indistinguishable to the caller.
func (a *Auth) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := a.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", model.ErrUserNotFound
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, "", model.ErrUserNotFound
	}

	token, err := a.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (a *Auth) Profile(ctx context.Context, id string) (*model.User, error) {
	return a.store.FindByID(ctx, id)
}

// GenerateToken creates a signed HS256 token carrying the user id.
func (a *Auth) GenerateToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses a token and returns the userId claim.
func (a *Auth) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return "", jwt.ErrTokenSignatureInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["userId"] == nil {
		return "", jwt.ErrTokenInvalidClaims
	}
	userID, ok := claims["userId"].(string)
	if !ok || userID == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return userID, nil
}
