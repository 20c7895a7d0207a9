package store

import (
	"context"

	"github.com/Fortune-Adekogbe/InterstellarInformant/internal/domain"
)

// Repo defines storage operations for user settings.
type Repo interface {
	UpsertUser(ctx context.Context, u *domain.UserSettings) error
	GetUser(ctx context.Context, chatID int64) (*domain.UserSettings, error)
	ListUsers(ctx context.Context) ([]domain.UserSettings, error)
	SetUseLLM(ctx context.Context, chatID int64, on bool) error
	Close() error
}
