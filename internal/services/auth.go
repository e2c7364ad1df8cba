package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"pomo-backend/internal/apperr"
	"pomo-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenExpireDays = 30

// IdentityStore is the user storage contract the auth flow depends on
type IdentityStore interface {
	GetByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, id uuid.UUID, name, picture *string) error
}

// GoogleProfile is the subset of the provider userinfo response we consume
type GoogleProfile struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// AuthService verifies identity-provider tokens, maintains the user records
// they map to and issues the API's own access tokens
type AuthService struct {
	users       IdentityStore
	jwtSecret   string
	userinfoURL string
	client      *http.Client
}

// NewAuthService creates a new auth service
func NewAuthService(users IdentityStore, jwtSecret, userinfoURL string) *AuthService {
	return &AuthService{
		users:       users,
		jwtSecret:   jwtSecret,
		userinfoURL: userinfoURL,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// VerifyGoogleToken checks a provider access token against the userinfo
// endpoint and returns the profile it belongs to
func (s *AuthService) VerifyGoogleToken(ctx context.Context, accessToken string) (*GoogleProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userinfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call userinfo endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("invalid google token: %w", apperr.ErrUnauthorized)
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo response: %w", err)
	}
	if profile.Sub == "" || profile.Email == "" {
		return nil, fmt.Errorf("incomplete userinfo response: %w", apperr.ErrUnauthorized)
	}
	return &profile, nil
}

// Login verifies the provider token, gets or creates the matching user and
// returns a signed access token for them. The friend subsystem never
// creates users; this is the sole creation path.
func (s *AuthService) Login(ctx context.Context, googleToken string) (string, *models.User, error) {
	profile, err := s.VerifyGoogleToken(ctx, googleToken)
	if err != nil {
		return "", nil, err
	}

	user, err := s.getOrCreateUser(ctx, profile)
	if err != nil {
		return "", nil, err
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) getOrCreateUser(ctx context.Context, profile *GoogleProfile) (*models.User, error) {
	name := optional(profile.Name)
	picture := optional(profile.Picture)

	user, err := s.users.GetByGoogleID(ctx, profile.Sub)
	if err == nil {
		// Refresh profile fields on re-login
		if !equalOptional(user.Name, name) || !equalOptional(user.Picture, picture) {
			if err := s.users.UpdateProfile(ctx, user.ID, name, picture); err != nil {
				return nil, err
			}
			user.Name = name
			user.Picture = picture
		}
		return user, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	user = &models.User{
		ID:        uuid.New(),
		GoogleID:  profile.Sub,
		Email:     profile.Email,
		Name:      name,
		Picture:   picture,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// IssueToken signs an access token carrying the user's id and email
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"exp":   now.AddDate(0, 0, tokenExpireDays).Unix(),
		"iat":   now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken validates an access token and returns the user id it carries
func (s *AuthService) ValidateToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse token: %w", apperr.ErrUnauthorized)
	}
	if !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid token: %w", apperr.ErrUnauthorized)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, fmt.Errorf("invalid token claims: %w", apperr.ErrUnauthorized)
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("sub not found in token: %w", apperr.ErrUnauthorized)
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid sub in token: %w", apperr.ErrUnauthorized)
	}
	return userID, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, apperr.ErrNotFound)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func equalOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
