package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"KidFlex/internal/model"
	"KidFlex/internal/model/dto"
	"KidFlex/internal/repository"
	pkgerrors "KidFlex/pkg/errors"
	"KidFlex/pkg/token"
	"KidFlex/storage/database"
)

// AuthService exchanges a verified parent identity for a token pair,
// creating the profile document on first sign-in.
type AuthService struct {
	users UserStore
	now   func() time.Time
}

func NewAuthService(users UserStore, now func() time.Time) *AuthService {
	if now == nil {
		now = time.Now
	}
	return &AuthService{users: users, now: now}
}

var (
	authOnce sync.Once
	authSvc  *AuthService
)

func Auth() *AuthService {
	authOnce.Do(func() {
		authSvc = NewAuthService(
			repository.NewUserRepository(database.DB()),
			time.Now,
		)
	})
	return authSvc
}

func (s *AuthService) Exchange(ctx context.Context, req *dto.ExchangeRequest) (*dto.TokenPairResponse, error) {
	uid := strings.TrimSpace(req.UID)
	email := strings.TrimSpace(req.Email)
	if uid == "" || email == "" {
		return nil, pkgerrors.InvalidRequest
	}

	profile := &model.UserProfile{
		UID:   uid,
		Email: email,
		Name:  strings.TrimSpace(req.Name),
	}
	if err := s.users.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	access, refresh, expiresIn, err := token.GenerateTokenPair(uid)
	if err != nil {
		return nil, err
	}

	return &dto.TokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(expiresIn),
	}, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairResponse, error) {
	uid, err := token.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, pkgerrors.InvalidToken
	}

	user, err := s.users.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, pkgerrors.Unauthorized
	}

	access, refresh, expiresIn, err := token.GenerateTokenPair(uid)
	if err != nil {
		return nil, err
	}

	return &dto.TokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(expiresIn),
	}, nil
}

func (s *AuthService) Profile(ctx context.Context, uid string) (*model.UserProfile, error) {
	user, err := s.users.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, pkgerrors.Unauthorized
	}
	return user, nil
}
