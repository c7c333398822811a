package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
	"unicode"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"thinkink-backend/internal/middleware"
	"thinkink-backend/internal/models"
	"thinkink-backend/internal/repository"
)

type AuthService struct {
	userRepo       *repository.UserRepo
	historyRepo    *repository.HistoryRepo
	jwt            *middleware.JWTAuth
	identity       *resty.Client
	identityAPIKey string
}

func NewAuthService(userRepo *repository.UserRepo, historyRepo *repository.HistoryRepo, jwt *middleware.JWTAuth, identityAPIKey string) *AuthService {
	identity := resty.New().
		SetBaseURL("https://identitytoolkit.googleapis.com/v1").
		SetTimeout(10 * time.Second)

	return &AuthService{
		userRepo:       userRepo,
		historyRepo:    historyRepo,
		jwt:            jwt,
		identity:       identity,
		identityAPIKey: identityAPIKey,
	}
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, *models.AuthTokens, error) {
	// Validate all fields at once
	fieldErrors := make(map[string]string)

	if req.Name == "" {
		fieldErrors["name"] = "Name is required"
	}
	if !emailRegex.MatchString(req.Email) {
		fieldErrors["email"] = "Invalid email format"
	}
	if err := validatePassword(req.Password); err != nil {
		fieldErrors["password"] = err.Error()
	}

	if len(fieldErrors) > 0 {
		return nil, nil, &ValidationError{Fields: fieldErrors}
	}

	// Check uniqueness
	_, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, nil, &ConflictError{Message: "Email already in use"}
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, err
	}

	// Hash password (bcrypt cost 12)
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	hashStr := string(hash)
	user := &models.User{
		Email:        req.Email,
		PasswordHash: &hashStr,
		Name:         req.Name,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthTokens, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &UnauthorizedError{Message: "Invalid email or password"}
		}
		return nil, err
	}

	if user.PasswordHash == nil {
		// Provider-only account, no password set.
		return nil, &UnauthorizedError{Message: "Invalid email or password"}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, &UnauthorizedError{Message: "Invalid email or password"}
	}

	return s.issueTokens(user)
}

type identityLookupResponse struct {
	Users []struct {
		LocalID     string `json:"localId"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
	} `json:"users"`
}

// ExchangeToken verifies an identity-provider ID token, gets or creates the
// matching local user, and issues a local access token. From here on only
// the internal user id identifies the caller.
func (s *AuthService) ExchangeToken(ctx context.Context, req models.TokenExchangeRequest) (*models.User, *models.AuthTokens, error) {
	if req.IDToken == "" {
		return nil, nil, &ValidationError{Fields: map[string]string{"id_token": "ID token is required"}}
	}
	if s.identityAPIKey == "" {
		return nil, nil, &UnauthorizedError{Message: "Provider sign-in is not configured"}
	}

	var lookup identityLookupResponse
	resp, err := s.identity.R().
		SetContext(ctx).
		SetQueryParam("key", s.identityAPIKey).
		SetBody(map[string]string{"idToken": req.IDToken}).
		SetResult(&lookup).
		Post("/accounts:lookup")
	if err != nil {
		return nil, nil, fmt.Errorf("identity provider lookup failed: %w", err)
	}
	if resp.IsError() || len(lookup.Users) == 0 {
		return nil, nil, &UnauthorizedError{Message: "Invalid or expired ID token"}
	}

	account := lookup.Users[0]

	user, err := s.userRepo.GetByProviderUID(ctx, account.LocalID)
	if errors.Is(err, pgx.ErrNoRows) {
		name := account.DisplayName
		if name == "" {
			name = account.Email
		}
		user = &models.User{
			Email:       account.Email,
			ProviderUID: &account.LocalID,
			Name:        name,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, nil, err
		}
	} else if err != nil {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

func (s *AuthService) GetMe(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "User not found"}
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req models.UpdateProfileRequest) (*models.User, error) {
	if req.Name == "" {
		return nil, &ValidationError{Fields: map[string]string{"name": "Name is required"}}
	}
	if err := s.userRepo.UpdateName(ctx, userID, req.Name); err != nil {
		return nil, err
	}
	return s.GetMe(ctx, userID)
}

// DeleteAccount removes the user and all their history.
func (s *AuthService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.historyRepo.DeleteByUser(ctx, userID, ""); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, userID)
}

func (s *AuthService) issueTokens(user *models.User) (*models.AuthTokens, error) {
	accessToken, err := s.jwt.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &models.AuthTokens{
		AccessToken: accessToken,
		ExpiresIn:   int(middleware.AccessTokenTTL.Seconds()),
	}, nil
}

func validatePassword(pw string) error {
	if len(pw) < 8 {
		return fmt.Errorf("Password must be at least 8 characters")
	}
	hasNumber := false
	for _, ch := range pw {
		if unicode.IsDigit(ch) {
			hasNumber = true
			break
		}
	}
	if !hasNumber {
		return fmt.Errorf("Password must contain at least one number")
	}
	return nil
}
