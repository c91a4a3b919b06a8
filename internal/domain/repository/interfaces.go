package repository

import (
	"context"
	"time"

	"agri-advisor/internal/domain/entity"
)

// CompletionProvider is the external text-generation collaborator.
type CompletionProvider interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (*entity.Completion, error)
}

type Embedder interface {
	CreateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// HistoryStore keeps per-user chat turns. Recent returns at most limit turns
// in chronological order.
type HistoryStore interface {
	Recent(ctx context.Context, userID string, limit int) ([]entity.ChatTurn, error)
	Append(ctx context.Context, userID string, turns ...entity.ChatTurn) error
	Clear(ctx context.Context, userID string) error
}

type UsageMeter interface {
	Increment(ctx context.Context, userID string, tokens int) error
	Usage(ctx context.Context, userID string) (int64, error)
}

type ChatArchive interface {
	Search(ctx context.Context, vector []float32, userID string, limit int, since time.Time) ([]entity.ArchivedTurn, error)
	Save(ctx context.Context, turn entity.ArchivedTurn, vector []float32) error
}

type UserRepo interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id string) error
}

type LandRepo interface {
	Create(ctx context.Context, l *entity.Land) error
	GetByID(ctx context.Context, id string) (*entity.Land, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Land, error)
	Update(ctx context.Context, l *entity.Land) error
	Delete(ctx context.Context, id string) error
}

type OrderRepo interface {
	Create(ctx context.Context, o *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Order, error)
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}
