package usecase

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"agri-advisor/internal/domain/entity"
	"agri-advisor/internal/domain/repository"
)

const (
	ChatFallback      = "AI failed to respond"
	RecommendFallback = "AI failed to provide a recommendation."

	// HistoryWindow is the hard cap on prior turns rendered into a chat prompt.
	HistoryWindow = 5

	defaultChatMaxTokens      = 100
	defaultRecommendMaxTokens = 250
)

// Answer is the outcome of one assembler call. Tokens is zero unless the
// completion collaborator answered.
type Answer struct {
	Text   string
	Source entity.ReplySource
	Tokens int
}

type Assembler struct {
	commands           *CommandTable
	provider           repository.CompletionProvider
	logger             *zap.Logger
	chatMaxTokens      int
	recommendMaxTokens int
}

type AssemblerOption func(*Assembler)

func WithChatMaxTokens(n int) AssemblerOption {
	return func(a *Assembler) {
		if n > 0 {
			a.chatMaxTokens = n
		}
	}
}

func WithRecommendMaxTokens(n int) AssemblerOption {
	return func(a *Assembler) {
		if n > 0 {
			a.recommendMaxTokens = n
		}
	}
}

func NewAssembler(commands *CommandTable, provider repository.CompletionProvider, logger *zap.Logger, opts ...AssemblerOption) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Assembler{
		commands:           commands,
		provider:           provider,
		logger:             logger,
		chatMaxTokens:      defaultChatMaxTokens,
		recommendMaxTokens: defaultRecommendMaxTokens,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Respond answers a chat message. Command table hits never reach the
// completion collaborator; any completion failure yields ChatFallback.
func (a *Assembler) Respond(ctx context.Context, history []entity.ChatTurn, message string) Answer {
	if reply, ok := a.commands.Lookup(message); ok {
		return Answer{Text: reply, Source: entity.SourceCommand}
	}

	prompt := buildChatPrompt(lastTurns(history, HistoryWindow), message)
	text, tokens, err := a.complete(ctx, prompt, a.chatMaxTokens)
	if err != nil {
		a.logger.Warn("chat completion failed", zap.Error(err))
		return Answer{Text: ChatFallback, Source: entity.SourceFallback}
	}
	return Answer{Text: text, Source: entity.SourceAI, Tokens: tokens}
}

// Recommend asks for a one-shot crop recommendation. There is no history and
// no command lookup; failures yield RecommendFallback.
func (a *Assembler) Recommend(ctx context.Context, r entity.SoilReading, desiredCrop string) Answer {
	text, tokens, err := a.complete(ctx, buildRecommendPrompt(r, desiredCrop), a.recommendMaxTokens)
	if err != nil {
		a.logger.Warn("recommendation completion failed", zap.Error(err))
		return Answer{Text: RecommendFallback, Source: entity.SourceFallback}
	}
	return Answer{Text: text, Source: entity.SourceAI, Tokens: tokens}
}

func (a *Assembler) complete(ctx context.Context, prompt string, maxTokens int) (string, int, error) {
	if a.provider == nil {
		return "", 0, errors.New("no completion provider configured")
	}
	resp, err := a.provider.Complete(ctx, prompt, maxTokens)
	if err != nil {
		return "", 0, err
	}
	if resp == nil {
		return "", 0, entity.ErrEmptyCompletion
	}
	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return "", 0, entity.ErrEmptyCompletion
	}
	return text, resp.TokenCount, nil
}
