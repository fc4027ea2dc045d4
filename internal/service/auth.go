package service

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sjyoon/taskhub-api/internal/cognito"
	"github.com/sjyoon/taskhub-api/internal/model"
	"github.com/sjyoon/taskhub-api/internal/repository"
)

// AuthService orchestrates the Cognito client and the local user table.
type AuthService struct {
	cognitoClient cognito.Client
	userRepo      repository.UserRepository
}

func NewAuthService(cognitoClient cognito.Client, userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		cognitoClient: cognitoClient,
		userRepo:      userRepo,
	}
}

// --- Input/Output types ---

type SignUpInput struct {
	Email    string
	Password string
	FullName string
}

type SignUpOutput struct {
	UserSub      string `json:"user_sub"`
	Confirmed    bool   `json:"confirmed"`
	CodeDelivery string `json:"code_delivery"`
}

type ConfirmSignUpInput struct {
	Email string
	Code  string
}

type ResendCodeInput struct {
	Email string
}

type SignInInput struct {
	Email    string
	Password string
}

type SignInOutput struct {
	IDToken      string     `json:"id_token"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	ExpiresIn    int32      `json:"expires_in"`
	TokenType    string     `json:"token_type"`
	User         model.User `json:"user"`
}

type RefreshInput struct {
	Email        string
	RefreshToken string
}

type RefreshOutput struct {
	IDToken     string `json:"id_token"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int32  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

type SignOutInput struct {
	AccessToken string
}

// --- Service methods ---

func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (SignUpOutput, error) {
	if input.Email == "" {
		return SignUpOutput{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if input.Password == "" {
		return SignUpOutput{}, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	out, err := s.cognitoClient.SignUp(ctx, cognito.SignUpInput{
		Email:    input.Email,
		Password: input.Password,
		FullName: input.FullName,
	})
	if err != nil {
		return SignUpOutput{}, err
	}

	return SignUpOutput{
		UserSub:      out.UserSub,
		Confirmed:    out.Confirmed,
		CodeDelivery: out.CodeDelivery,
	}, nil
}

func (s *AuthService) ConfirmSignUp(ctx context.Context, input ConfirmSignUpInput) error {
	if input.Email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if input.Code == "" {
		return fmt.Errorf("%w: code is required", ErrInvalidInput)
	}

	return s.cognitoClient.ConfirmSignUp(ctx, cognito.ConfirmSignUpInput{
		Email: input.Email,
		Code:  input.Code,
	})
}

func (s *AuthService) ResendCode(ctx context.Context, input ResendCodeInput) error {
	if input.Email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	return s.cognitoClient.ResendConfirmationCode(ctx, cognito.ResendCodeInput{
		Email: input.Email,
	})
}

// SignIn authenticates against Cognito and upserts the local user row so
// that owner-scoped queries have a stable user id.
func (s *AuthService) SignIn(ctx context.Context, input SignInInput) (SignInOutput, error) {
	if input.Email == "" {
		return SignInOutput{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if input.Password == "" {
		return SignInOutput{}, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	authOut, err := s.cognitoClient.Login(ctx, cognito.LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		return SignInOutput{}, err
	}

	// The ID token was just issued by Cognito, so no signature check is
	// needed to read its claims here.
	sub, name, err := extractIdentity(authOut.IDToken)
	if err != nil {
		return SignInOutput{}, fmt.Errorf("failed to read id token: %w", err)
	}

	user, err := s.userRepo.GetOrCreate(ctx, sub, input.Email, name)
	if err != nil {
		return SignInOutput{}, fmt.Errorf("failed to get or create user: %w", err)
	}

	return SignInOutput{
		IDToken:      authOut.IDToken,
		AccessToken:  authOut.AccessToken,
		RefreshToken: authOut.RefreshToken,
		ExpiresIn:    authOut.ExpiresIn,
		TokenType:    authOut.TokenType,
		User:         user,
	}, nil
}

func (s *AuthService) Refresh(ctx context.Context, input RefreshInput) (RefreshOutput, error) {
	if input.Email == "" {
		return RefreshOutput{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if input.RefreshToken == "" {
		return RefreshOutput{}, fmt.Errorf("%w: refresh_token is required", ErrInvalidInput)
	}

	authOut, err := s.cognitoClient.RefreshTokens(ctx, cognito.RefreshInput{
		Email:        input.Email,
		RefreshToken: input.RefreshToken,
	})
	if err != nil {
		return RefreshOutput{}, err
	}

	return RefreshOutput{
		IDToken:     authOut.IDToken,
		AccessToken: authOut.AccessToken,
		ExpiresIn:   authOut.ExpiresIn,
		TokenType:   authOut.TokenType,
	}, nil
}

// CurrentUser resolves an access token to the local user record.
func (s *AuthService) CurrentUser(ctx context.Context, accessToken string) (model.User, error) {
	if accessToken == "" {
		return model.User{}, fmt.Errorf("%w: access_token is required", ErrInvalidInput)
	}

	ident, err := s.cognitoClient.GetUser(ctx, cognito.GetUserInput{AccessToken: accessToken})
	if err != nil {
		return model.User{}, err
	}

	user, err := s.userRepo.GetByCognitoSub(ctx, ident.Sub)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to resolve user: %w", err)
	}
	return user, nil
}

func (s *AuthService) SignOut(ctx context.Context, input SignOutInput) error {
	if input.AccessToken == "" {
		return fmt.Errorf("%w: access_token is required", ErrInvalidInput)
	}

	return s.cognitoClient.GlobalSignOut(ctx, cognito.GlobalSignOutInput{
		AccessToken: input.AccessToken,
	})
}

// extractIdentity decodes the JWT payload (without verifying the signature)
// and extracts the "sub" and "name" claims.
func extractIdentity(idToken string) (sub, name string, err error) {
	parts := strings.Split(idToken, ".")
	if len(parts) != 3 {
		return "", "", fmt.Errorf("invalid JWT format")
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", "", fmt.Errorf("failed to decode JWT payload: %w", err)
	}

	var claims struct {
		Sub  string `json:"sub"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return "", "", fmt.Errorf("failed to parse JWT claims: %w", err)
	}
	if claims.Sub == "" {
		return "", "", fmt.Errorf("sub claim not found in JWT")
	}

	return claims.Sub, claims.Name, nil
}
