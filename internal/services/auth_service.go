package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/models"
	"github.com/adanyl0v/go-task-tracker/internal/storage"
)

type authServiceImpl struct {
	logger             zerolog.Logger
	users              UserRepository
	sessions           SessionRepository
	jwtIssuer          string
	jwtSigningKey      []byte
	jwtAccessTokenTTL  time.Duration
	jwtRefreshTokenTTL time.Duration
	hashParams         *argon2id.Params
}

type AuthServiceOptions struct {
	JWTIssuer          string
	JWTSigningKey      []byte
	JWTAccessTokenTTL  time.Duration
	JWTRefreshTokenTTL time.Duration
	// HashParams defaults to argon2id.DefaultParams.
	HashParams *argon2id.Params
}

func NewAuthService(
	logger zerolog.Logger,
	users UserRepository,
	sessions SessionRepository,
	opts AuthServiceOptions,
) AuthService {
	hashParams := opts.HashParams
	if hashParams == nil {
		hashParams = argon2id.DefaultParams
	}

	return &authServiceImpl{
		logger:             logger,
		users:              users,
		sessions:           sessions,
		jwtIssuer:          opts.JWTIssuer,
		jwtSigningKey:      opts.JWTSigningKey,
		jwtAccessTokenTTL:  opts.JWTAccessTokenTTL,
		jwtRefreshTokenTTL: opts.JWTRefreshTokenTTL,
		hashParams:         hashParams,
	}
}

func (s *authServiceImpl) Signup(ctx context.Context, params SignupParams) (*AuthResult, error) {
	params.Name = strings.TrimSpace(params.Name)
	params.Username = strings.TrimSpace(params.Username)
	params.Email = strings.TrimSpace(params.Email)
	err := validateParams(params)
	if err != nil {
		return nil, err
	}

	taken, err := s.users.EmailExists(ctx, params.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		s.logger.Info().
			Str("email", params.Email).
			Msg("email already taken")
		return nil, &TakenError{Field: "email", Value: params.Email}
	}

	taken, err = s.users.UsernameExists(ctx, params.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		s.logger.Info().
			Str("username", params.Username).
			Msg("username already taken")
		return nil, &TakenError{Field: "username", Value: params.Username}
	}

	now := time.Now()
	user := &models.User{
		Username:  params.Username,
		Email:     params.Email,
		Name:      params.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	userUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate user uuid")
		return nil, err
	}
	user.ID = userUUID.String()

	passwordHash, err := argon2id.CreateHash(params.Password, s.hashParams)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return nil, err
	}
	user.PasswordHash = passwordHash

	err = s.users.InsertUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	result, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("session_id", result.SessionID).
		Msg("signed up user")
	return result, nil
}

func (s *authServiceImpl) Login(ctx context.Context, params LoginParams) (*AuthResult, error) {
	params.Login = strings.TrimSpace(params.Login)
	err := validateParams(params)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByLogin(ctx, params.Login)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Info().
				Str("login", params.Login).
				Msg("user not found")
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	match, err := argon2id.ComparePasswordAndHash(params.Password, user.PasswordHash)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to compare password")
		return nil, err
	} else if !match {
		s.logger.Info().
			Str("user_id", user.ID).
			Msg("passwords do not match")
		return nil, ErrUserPasswordMismatch
	}

	result, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("session_id", result.SessionID).
		Msg("logged in")
	return result, nil
}

// openSession replaces the user's sessions with a new one and issues its
// token pair.
func (s *authServiceImpl) openSession(ctx context.Context, user *models.User) (*AuthResult, error) {
	now := time.Now()
	session := &models.Session{
		UserID:    user.ID,
		ExpiresAt: now.Add(s.jwtRefreshTokenTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}

	sessionUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate session uuid")
		return nil, err
	}
	session.ID = sessionUUID.String()

	refreshToken, err := s.generateRefreshToken()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate refresh token")
		return nil, err
	}
	session.RefreshToken = refreshToken

	err = s.sessions.ReplaceSessions(ctx, session)
	if err != nil {
		return nil, err
	}

	accessToken, accessTokenExpiresAt, err := s.generateAccessToken(session.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate access token")
		return nil, err
	}

	return &AuthResult{
		User:                  user,
		SessionID:             session.ID,
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessTokenExpiresAt,
		RefreshToken:          session.RefreshToken,
		RefreshTokenExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *authServiceImpl) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, ErrSessionNotFound
	}

	session, err := s.sessions.GetSessionByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Info().Msg("session not found")
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	now := time.Now()
	if session.Expired(now) {
		s.logger.Info().
			Str("session_id", session.ID).
			Time("expires_at", session.ExpiresAt).
			Msg("session expired")
		return nil, ErrSessionExpired
	}

	user, err := s.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	newRefreshToken, err := s.generateRefreshToken()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate refresh token")
		return nil, err
	}
	session.RefreshToken = newRefreshToken
	session.ExpiresAt = now.Add(s.jwtRefreshTokenTTL)
	session.UpdatedAt = now

	err = s.sessions.RotateSession(ctx, session.ID, session.RefreshToken, session.ExpiresAt, session.UpdatedAt)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	accessToken, accessTokenExpiresAt, err := s.generateAccessToken(session.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate access token")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", session.UserID).
		Str("session_id", session.ID).
		Msg("refreshed session")
	return &AuthResult{
		User:                  user,
		SessionID:             session.ID,
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessTokenExpiresAt,
		RefreshToken:          session.RefreshToken,
		RefreshTokenExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *authServiceImpl) Logout(ctx context.Context, userID string) error {
	err := s.sessions.DeleteSessionsByUserID(ctx, userID)
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("user_id", userID).
		Msg("logged out")
	return nil
}

func (s *authServiceImpl) ParseAccessToken(token string) (*jwt.RegisteredClaims, error) {
	t, err := jwt.ParseWithClaims(
		token,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.jwtSigningKey, nil
		},
		jwt.WithIssuer(s.jwtIssuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("token is expired: %w", err)
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := t.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return nil, errors.New("failed to parse token: missing subject")
	}
	return claims, nil
}

func (s *authServiceImpl) generateRefreshToken() (string, error) {
	const length = 32
	bytes := make([]byte, length)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

func (s *authServiceImpl) generateAccessToken(sessionID string) (string, time.Time, error) {
	tokenUUID, err := uuid.NewRandom()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate id: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(s.jwtAccessTokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        tokenUUID.String(),
		Issuer:    s.jwtIssuer,
		Subject:   sessionID,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	})

	signed, err := token.SignedString(s.jwtSigningKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}
