package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dsnmoura/thrg-flow/internal/models"
	"github.com/dsnmoura/thrg-flow/internal/repository"
	"github.com/dsnmoura/thrg-flow/pkg/utils"
)

const maxAPIKeysPerUser = 5

type APIKeyService interface {
	Create(ctx context.Context, userID int64) error
	List(ctx context.Context, userID int64) ([]*models.APIKey, error)
	GetUserID(ctx context.Context, key string) (int64, error)
	Remove(ctx context.Context, userID, keyID int64) error
}

type apiKeyService struct {
	k repository.APIKeyRepository
}

func NewAPIKeyService(k repository.APIKeyRepository) APIKeyService {
	return &apiKeyService{k: k}
}

func (s *apiKeyService) Create(ctx context.Context, userID int64) error {
	keys, err := s.k.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if len(keys) >= maxAPIKeysPerUser {
		err = fmt.Errorf("at most %d API keys can be created", maxAPIKeysPerUser)
		slog.Info(err.Error())
		return err
	}

	key, err := utils.GenerateRandomKey(16)
	if err != nil {
		slog.Info(err.Error())
		return errors.New("error generating API key")
	}

	if _, err := s.k.Create(ctx, &models.APIKey{UserID: userID, Key: key}); err != nil {
		return errors.New("error saving API key")
	}
	return nil
}

func (s *apiKeyService) GetUserID(ctx context.Context, key string) (int64, error) {
	userID, exists, err := s.k.GetByKey(ctx, key)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, errors.New("key doesn't exist")
	}
	return userID, nil
}

func (s *apiKeyService) List(ctx context.Context, userID int64) ([]*models.APIKey, error) {
	keys, err := s.k.GetByUserID(ctx, userID)
	if err != nil {
		return nil, errors.New("error getting API keys")
	}
	return keys, nil
}

func (s *apiKeyService) Remove(ctx context.Context, userID, keyID int64) error {
	if userID == 0 || keyID == 0 {
		return errors.New("invalid key reference")
	}

	valid, err := s.k.CheckByUserID(ctx, keyID, userID)
	if err != nil {
		return err
	}
	if !valid {
		err = errors.New("key doesn't exist")
		slog.Info(err.Error())
		return err
	}
	return s.k.Remove(ctx, keyID)
}
