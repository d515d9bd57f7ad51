package service

import (
	"context"
	"fmt"
	"venue-crm/core/cache"
	"venue-crm/core/constants"
	"venue-crm/core/errors"
	"venue-crm/core/logger"
	"venue-crm/core/utils"
	"venue-crm/modules/auth/dto"
	"venue-crm/modules/auth/entity"
	"venue-crm/modules/auth/repository"

	"github.com/google/uuid"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, requestData *dto.RegisterRequest) (*dto.LoginResponse, *errors.AppError)
	Login(ctx context.Context, requestData *dto.LoginRequest) (*dto.LoginResponse, *errors.AppError)
	RefreshToken(ctx context.Context, token string) (*dto.RefreshTokenResponse, *errors.AppError)
	Logout(ctx context.Context, token string) *errors.AppError
	GetUserByID(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError)
}

type AuthService struct {
	repo  repository.AuthRepositoryInterface
	cache cache.Cache
}

func NewAuthService(repo repository.AuthRepositoryInterface, cache cache.Cache) *AuthService {
	return &AuthService{repo: repo, cache: cache}
}

func (service *AuthService) Register(ctx context.Context, requestData *dto.RegisterRequest) (*dto.LoginResponse, *errors.AppError) {
	existing, err := service.repo.GetUserByEmail(ctx, requestData.Email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to check existing user", err)
	}
	if existing != nil {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "user with email already exists", nil)
	}

	hashedPassword, err := utils.HashPassword(requestData.Password)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to hash password", err)
	}

	userEntity := &entity.User{
		Email:    requestData.Email,
		Password: hashedPassword,
		FullName: requestData.FullName,
		Role:     entity.RoleRep,
		IsActive: true,
	}

	createdUser, err := service.repo.CreateUser(ctx, userEntity)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create user", err)
	}

	return service.issueTokens(createdUser)
}

// Login authenticates a user with email and password. It implements login
// attempt blocking to prevent brute force attacks.
func (service *AuthService) Login(ctx context.Context, requestData *dto.LoginRequest) (*dto.LoginResponse, *errors.AppError) {
	loginKey := fmt.Sprintf("login:%s", requestData.Email)

	blocked, err := service.cache.IsLoginBlocked(ctx, loginKey)
	if err != nil {
		logger.Error("AuthService:Login:IsLoginBlocked:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get login attempt", err)
	}
	if blocked {
		errExpire := service.cache.Expire(ctx, loginKey, constants.BlockDuration)
		if errExpire != nil {
			logger.Error("AuthService:Login:Expire:Error", "error", errExpire)
		}
		return nil, errors.NewAppError(errors.ErrUnauthorized, "too many failed attempts, account locked for 15 minutes", nil)
	}

	user, err := service.repo.GetUserByEmail(ctx, requestData.Email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "user not found", nil)
	}

	if !user.IsActive {
		if errIncr := service.cache.IncrementLoginAttempt(ctx, loginKey); errIncr != nil {
			logger.Error("AuthService:Login:IncrementLoginAttempt:Error", "error", errIncr)
		}
		return nil, errors.NewAppError(errors.ErrUnauthorized, "user not active", nil)
	}

	if !utils.ComparePassword(user.Password, requestData.Password) {
		if errIncr := service.cache.IncrementLoginAttempt(ctx, loginKey); errIncr != nil {
			logger.Error("AuthService:Login:IncrementLoginAttempt:Error", "error", errIncr)
		}
		return nil, errors.NewAppError(errors.ErrUnauthorized, "incorrect password", nil)
	}

	if errDel := service.cache.Del(ctx, loginKey); errDel != nil {
		logger.Error("AuthService:Login:Del:Error", "error", errDel)
	}

	if errTouch := service.repo.TouchLastLogin(ctx, user.ID); errTouch != nil {
		logger.Error("AuthService:Login:TouchLastLogin:Error", "error", errTouch)
	}

	return service.issueTokens(user)
}

func (service *AuthService) RefreshToken(ctx context.Context, token string) (*dto.RefreshTokenResponse, *errors.AppError) {
	isBlacklisted, errCheck := service.cache.IsTokenBlacklisted(ctx, token)
	if errCheck != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to check token", errCheck)
	}
	if isBlacklisted {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "token is blacklisted", nil)
	}

	tokenData, err := utils.ValidateAndParseToken(token)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "failed to parse token", nil)
	}
	if tokenData.Scope != constants.ScopeTokenRefresh {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "token is not a refresh token", nil)
	}

	user, err := service.repo.GetUserByID(ctx, tokenData.UserID)
	if err != nil || user == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "user not found", err)
	}

	// Old refresh token is single use.
	if errAdd := service.cache.AddToTokenBlacklist(ctx, token); errAdd != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to blacklist refresh token", errAdd)
	}

	tokens, appErr := service.issueTokens(user)
	if appErr != nil {
		return nil, appErr
	}
	return &dto.RefreshTokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

func (service *AuthService) Logout(ctx context.Context, token string) *errors.AppError {
	err := service.cache.AddToTokenBlacklist(ctx, token)
	if err != nil {
		logger.Error("AuthService:Logout:AddToBlacklist:Error", "error", err)
		return errors.NewAppError(errors.ErrInternalServer, "failed to add token to blacklist", err)
	}
	return nil
}

func (service *AuthService) GetUserByID(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError) {
	user, err := service.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "user not found", nil)
	}

	return &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      string(user.Role),
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (service *AuthService) issueTokens(user *entity.User) (*dto.LoginResponse, *errors.AppError) {
	accessToken, err := utils.GenerateToken(user.ID, &user.Email, constants.ScopeTokenAccess)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate access token", err)
	}

	refreshToken, err := utils.GenerateToken(user.ID, &user.Email, constants.ScopeTokenRefresh)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate refresh token", err)
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
