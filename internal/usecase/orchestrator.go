package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"agri-advisor/internal/domain/entity"
	"agri-advisor/internal/domain/repository"
)

const (
	defaultHistoryListLimit = 50
	defaultSearchLimit      = 5
	maxSearchLimit          = 20
	archiveTimeout          = 30 * time.Second
)

type Orchestrator struct {
	history   repository.HistoryStore
	usage     repository.UsageMeter
	assembler *Assembler
	logger    *zap.Logger

	archive   repository.ChatArchive
	embedder  repository.Embedder
	retention time.Duration

	historyLimit int
	now          func() time.Time
	bg           sync.WaitGroup
}

type OrchestratorOption func(*Orchestrator)

// WithArchive enables semantic archiving of chat exchanges. A zero retention
// searches the whole archive.
func WithArchive(archive repository.ChatArchive, embedder repository.Embedder, retention time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		o.archive = archive
		o.embedder = embedder
		o.retention = retention
	}
}

// WithHistoryLimit sets how many stored turns are loaded for a prompt. Values
// above HistoryWindow are clamped.
func WithHistoryLimit(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		if n > 0 && n <= HistoryWindow {
			o.historyLimit = n
		}
	}
}

func NewOrchestrator(history repository.HistoryStore, usage repository.UsageMeter, assembler *Assembler, logger *zap.Logger, opts ...OrchestratorOption) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := &Orchestrator{
		history:      history,
		usage:        usage,
		assembler:    assembler,
		logger:       logger,
		historyLimit: HistoryWindow,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (u *Orchestrator) Chat(ctx context.Context, req entity.ChatRequest) (*entity.ChatReply, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", entity.ErrInvalidRequest)
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("%w: message is required", entity.ErrInvalidRequest)
	}

	// 1. Recent history, oldest first
	history, err := u.history.Recent(ctx, userID, u.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("loading chat history: %w", err)
	}

	// 2. Command table or completion; never fails
	answer := u.assembler.Respond(ctx, history, req.Message)

	// 3. Persist both sides of the exchange
	now := u.now().UTC()
	err = u.history.Append(ctx, userID,
		entity.ChatTurn{Role: entity.RoleUser, Content: req.Message, CreatedAt: now},
		entity.ChatTurn{Role: entity.RoleAssistant, Content: answer.Text, CreatedAt: now},
	)
	if err != nil {
		return nil, fmt.Errorf("saving chat history: %w", err)
	}

	// 4. Usage accounting only counts real completions
	if answer.Source == entity.SourceAI && u.usage != nil {
		if err := u.usage.Increment(ctx, userID, answer.Tokens); err != nil {
			u.logger.Warn("usage increment failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	// 5. Archive in the background; the request context may already be gone
	if u.archive != nil && u.embedder != nil {
		u.archiveAsync(entity.ArchivedTurn{
			UserID:    userID,
			Message:   req.Message,
			Reply:     answer.Text,
			CreatedAt: now,
		})
	}

	return &entity.ChatReply{Reply: answer.Text, Source: answer.Source}, nil
}

func (u *Orchestrator) archiveAsync(turn entity.ArchivedTurn) {
	u.bg.Add(1)
	go func() {
		defer u.bg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()

		vector, err := u.embedder.CreateEmbedding(ctx, turn.Message)
		if err != nil {
			u.logger.Warn("archive embedding failed", zap.String("user_id", turn.UserID), zap.Error(err))
			return
		}
		if err := u.archive.Save(ctx, turn, vector); err != nil {
			u.logger.Warn("archive save failed", zap.String("user_id", turn.UserID), zap.Error(err))
		}
	}()
}

// Drain waits for background archive writes or until ctx is done.
func (u *Orchestrator) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		u.bg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (u *Orchestrator) History(ctx context.Context, userID string) ([]entity.ChatTurn, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", entity.ErrInvalidRequest)
	}
	turns, err := u.history.Recent(ctx, userID, defaultHistoryListLimit)
	if err != nil {
		return nil, fmt.Errorf("loading chat history: %w", err)
	}
	return turns, nil
}

func (u *Orchestrator) ClearHistory(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user id is required", entity.ErrInvalidRequest)
	}
	if err := u.history.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clearing chat history: %w", err)
	}
	return nil
}

// SearchArchive finds the user's past exchanges closest to query.
func (u *Orchestrator) SearchArchive(ctx context.Context, userID, query string, limit int) ([]entity.ArchivedTurn, error) {
	if u.archive == nil || u.embedder == nil {
		return nil, entity.ErrArchiveDisabled
	}
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: user id and query are required", entity.ErrInvalidRequest)
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	vector, err := u.embedder.CreateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}
	var since time.Time
	if u.retention > 0 {
		since = u.now().Add(-u.retention)
	}
	hits, err := u.archive.Search(ctx, vector, userID, limit, since)
	if err != nil {
		return nil, fmt.Errorf("archive search failed: %w", err)
	}
	return hits, nil
}

func (u *Orchestrator) Usage(ctx context.Context, userID string) (*entity.UsageReport, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", entity.ErrInvalidRequest)
	}
	if u.usage == nil {
		return &entity.UsageReport{UserID: userID}, nil
	}
	tokens, err := u.usage.Usage(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reading usage: %w", err)
	}
	return &entity.UsageReport{UserID: userID, Tokens: tokens}, nil
}
