package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agri-advisor/internal/domain/entity"
)

type memHistory struct {
	mu        sync.Mutex
	turns     map[string][]entity.ChatTurn
	lastLimit int
	recentErr error
	appendErr error
}

func newMemHistory() *memHistory {
	return &memHistory{turns: map[string][]entity.ChatTurn{}}
}

func (h *memHistory) Recent(_ context.Context, userID string, limit int) ([]entity.ChatTurn, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastLimit = limit
	if h.recentErr != nil {
		return nil, h.recentErr
	}
	all := h.turns[userID]
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return append([]entity.ChatTurn(nil), all...), nil
}

func (h *memHistory) Append(_ context.Context, userID string, turns ...entity.ChatTurn) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.appendErr != nil {
		return h.appendErr
	}
	h.turns[userID] = append(h.turns[userID], turns...)
	return nil
}

func (h *memHistory) Clear(_ context.Context, userID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.turns, userID)
	return nil
}

type memUsage struct {
	mu     sync.Mutex
	tokens map[string]int64
	err    error
}

func newMemUsage() *memUsage {
	return &memUsage{tokens: map[string]int64{}}
}

func (u *memUsage) Increment(_ context.Context, userID string, tokens int) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.err != nil {
		return u.err
	}
	u.tokens[userID] += int64(tokens)
	return nil
}

func (u *memUsage) Usage(_ context.Context, userID string) (int64, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.tokens[userID], u.err
}

type memArchive struct {
	mu          sync.Mutex
	saved       []entity.ArchivedTurn
	hits        []entity.ArchivedTurn
	searchLimit int
	searchSince time.Time
	searchUser  string
}

func (a *memArchive) Search(_ context.Context, _ []float32, userID string, limit int, since time.Time) ([]entity.ArchivedTurn, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.searchUser, a.searchLimit, a.searchSince = userID, limit, since
	return a.hits, nil
}

func (a *memArchive) Save(_ context.Context, turn entity.ArchivedTurn, _ []float32) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.saved = append(a.saved, turn)
	return nil
}

func (a *memArchive) savedTurns() []entity.ArchivedTurn {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]entity.ArchivedTurn(nil), a.saved...)
}

type fakeEmbedder struct {
	err   error
	block chan struct{}
}

func (e *fakeEmbedder) CreateEmbedding(ctx context.Context, _ string) ([]float32, error) {
	if e.block != nil {
		select {
		case <-e.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if e.err != nil {
		return nil, e.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func newTestOrchestrator(p *fakeProvider, opts ...OrchestratorOption) (*Orchestrator, *memHistory, *memUsage) {
	history := newMemHistory()
	usage := newMemUsage()
	a := NewAssembler(NewCommandTable(DefaultCommands), p, nil)
	return NewOrchestrator(history, usage, a, nil, opts...), history, usage
}

func TestChat_AIReplyIsPersistedAndMetered(t *testing.T) {
	p := answering("Sow after the first monsoon rain.")
	o, history, usage := newTestOrchestrator(p)

	reply, err := o.Chat(context.Background(), entity.ChatRequest{UserID: "u1", Message: "When to sow cotton?"})
	require.NoError(t, err)
	assert.Equal(t, &entity.ChatReply{Reply: "Sow after the first monsoon rain.", Source: entity.SourceAI}, reply)

	stored := history.turns["u1"]
	require.Len(t, stored, 2)
	assert.Equal(t, entity.RoleUser, stored[0].Role)
	assert.Equal(t, "When to sow cotton?", stored[0].Content)
	assert.Equal(t, entity.RoleAssistant, stored[1].Role)
	assert.Equal(t, "Sow after the first monsoon rain.", stored[1].Content)
	assert.Equal(t, int64(12), usage.tokens["u1"])
}

func TestChat_PromptUsesLastFiveTurns(t *testing.T) {
	p := answering("ok")
	o, history, _ := newTestOrchestrator(p)
	history.turns["u1"] = turns(8)

	_, err := o.Chat(context.Background(), entity.ChatRequest{UserID: "u1", Message: "next?"})
	require.NoError(t, err)

	assert.Equal(t, HistoryWindow, history.lastLimit)
	assert.NotContains(t, p.prompt, "turn-3")
	for i := 4; i <= 8; i++ {
		assert.Contains(t, p.prompt, fmt.Sprintf("turn-%d", i))
	}
	assert.True(t, strings.Index(p.prompt, "turn-8") < strings.Index(p.prompt, "User: next?"))
}

func TestChat_HistoryLimitOption(t *testing.T) {
	o, history, _ := newTestOrchestrator(answering("ok"), WithHistoryLimit(3))
	_, err := o.Chat(context.Background(), entity.ChatRequest{UserID: "u1", Message: "hey there"})
	require.NoError(t, err)
	assert.Equal(t, 3, history.lastLimit)

	o, history, _ = newTestOrchestrator(answering("ok"), WithHistoryLimit(9))
	_, err = o.Chat(context.Background(), entity.ChatRequest{UserID: "u1", Message: "hey there"})
	require.NoError(t, err)
	assert.Equal(t, HistoryWindow, history.lastLimit)
}

func TestChat_CommandIsStoredButNotMetered(t *testing.T) {
	p := answering("unused")
	o, history, usage := newTestOrchestrator(p)

	reply, err := o.Chat(context.Background(), entity.ChatRequest{UserID: "u1", Message: " Thanks "})
	require.NoError(t, err)
	assert.Equal(t, entity.SourceCommand, reply.Source)
	assert.Zero(t, p.calls)
	assert.Len(t, history.turns["u1"], 2)
	assert.Zero(t, usage.tokens["u1"])
}

func TestChat_FallbackIsStoredButNotMetered(t *testing.T) {
	p := &fakeProvider{err: errors.New("connection reset")}
	o, history, usage := newTestOrchestrator(p)

	reply, err := o.Chat(context.Background(), entity.ChatRequest{UserID: "u1", Message: "Is it going to rain?"})
	require.NoError(t, err)
	assert.Equal(t, ChatFallback, reply.Reply)
	assert.Equal(t, entity.SourceFallback, reply.Source)
	require.Len(t, history.turns["u1"], 2)
	assert.Equal(t, ChatFallback, history.turns["u1"][1].Content)
	assert.Zero(t, usage.tokens["u1"])
}

func TestChat_Validation(t *testing.T) {
	p := answering("unused")
	o, history, _ := newTestOrchestrator(p)

	for _, req := range []entity.ChatRequest{
		{UserID: "", Message: "hello"},
		{UserID: "u1", Message: "   "},
	} {
		_, err := o.Chat(context.Background(), req)
		assert.ErrorIs(t, err, entity.ErrInvalidRequest)
	}
	assert.Zero(t, p.calls)
	assert.Empty(t, history.turns)
}

func TestChat_HistoryStoreFailures(t *testing.T) {
	t.Run("load", func(t *testing.T) {
		p := answering("unused")
		o, history, _ := newTestOrchestrator(p)
		history.recentErr = errors.New("redis down")

		_, err := o.Chat(context.Background(), entity.ChatRequest{UserID: "u1", Message: "hello there"})
		assert.ErrorContains(t, err, "loading chat history")
		assert.Zero(t, p.calls)
	})

	t.Run("save", func(t *testing.T) {
		o, history, usage := newTestOrchestrator(answering("ok"))
		history.appendErr = errors.New("redis down")

		_, err := o.Chat(context.Background(), entity.ChatRequest{UserID: "u1", Message: "hello there"})
		assert.ErrorContains(t, err, "saving chat history")
		assert.Zero(t, usage.tokens["u1"])
	})
}

func TestChat_UsageFailureDoesNotFailReply(t *testing.T) {
	o, _, usage := newTestOrchestrator(answering("ok"))
	usage.err = errors.New("redis down")

	reply, err := o.Chat(context.Background(), entity.ChatRequest{UserID: "u1", Message: "hello there"})
	require.NoError(t, err)
	assert.Equal(t, "ok", reply.Reply)
}

func TestChat_ArchivesInBackground(t *testing.T) {
	archive := &memArchive{}
	o, _, _ := newTestOrchestrator(answering("Use drip lines."), WithArchive(archive, &fakeEmbedder{}, time.Hour))

	_, err := o.Chat(context.Background(), entity.ChatRequest{UserID: "u1", Message: "Save water?"})
	require.NoError(t, err)
	require.NoError(t, o.Drain(context.Background()))

	saved := archive.savedTurns()
	require.Len(t, saved, 1)
	assert.Equal(t, "u1", saved[0].UserID)
	assert.Equal(t, "Save water?", saved[0].Message)
	assert.Equal(t, "Use drip lines.", saved[0].Reply)
	assert.False(t, saved[0].CreatedAt.IsZero())
}

func TestChat_ArchiveFailureIsSilent(t *testing.T) {
	archive := &memArchive{}
	o, _, _ := newTestOrchestrator(answering("ok"), WithArchive(archive, &fakeEmbedder{err: errors.New("quota")}, 0))

	reply, err := o.Chat(context.Background(), entity.ChatRequest{UserID: "u1", Message: "hello there"})
	require.NoError(t, err)
	assert.Equal(t, "ok", reply.Reply)
	require.NoError(t, o.Drain(context.Background()))
	assert.Empty(t, archive.savedTurns())
}

func TestDrain_RespectsContext(t *testing.T) {
	embedder := &fakeEmbedder{block: make(chan struct{})}
	o, _, _ := newTestOrchestrator(answering("ok"), WithArchive(&memArchive{}, embedder, 0))

	_, err := o.Chat(context.Background(), entity.ChatRequest{UserID: "u1", Message: "hello there"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, o.Drain(ctx), context.DeadlineExceeded)

	close(embedder.block)
	require.NoError(t, o.Drain(context.Background()))
}

func TestHistoryAndClear(t *testing.T) {
	o, history, _ := newTestOrchestrator(answering("ok"))
	history.turns["u1"] = turns(3)

	got, err := o.History(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, defaultHistoryListLimit, history.lastLimit)

	require.NoError(t, o.ClearHistory(context.Background(), "u1"))
	got, err = o.History(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = o.History(context.Background(), " ")
	assert.ErrorIs(t, err, entity.ErrInvalidRequest)
	assert.ErrorIs(t, o.ClearHistory(context.Background(), ""), entity.ErrInvalidRequest)
}

func TestSearchArchive(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	hit := entity.ArchivedTurn{UserID: "u1", Message: "aphids on mustard", Reply: "Spray neem oil.", Score: 0.8}

	t.Run("disabled", func(t *testing.T) {
		o, _, _ := newTestOrchestrator(answering("ok"))
		_, err := o.SearchArchive(context.Background(), "u1", "aphids", 5)
		assert.ErrorIs(t, err, entity.ErrArchiveDisabled)
	})

	t.Run("scoped and windowed", func(t *testing.T) {
		archive := &memArchive{hits: []entity.ArchivedTurn{hit}}
		o, _, _ := newTestOrchestrator(answering("ok"), WithArchive(archive, &fakeEmbedder{}, 24*time.Hour))
		o.now = func() time.Time { return now }

		got, err := o.SearchArchive(context.Background(), "u1", "aphids", 0)
		require.NoError(t, err)
		assert.Equal(t, []entity.ArchivedTurn{hit}, got)
		assert.Equal(t, "u1", archive.searchUser)
		assert.Equal(t, defaultSearchLimit, archive.searchLimit)
		assert.Equal(t, now.Add(-24*time.Hour), archive.searchSince)
	})

	t.Run("limit clamped and no retention", func(t *testing.T) {
		archive := &memArchive{}
		o, _, _ := newTestOrchestrator(answering("ok"), WithArchive(archive, &fakeEmbedder{}, 0))

		_, err := o.SearchArchive(context.Background(), "u1", "aphids", 500)
		require.NoError(t, err)
		assert.Equal(t, maxSearchLimit, archive.searchLimit)
		assert.True(t, archive.searchSince.IsZero())
	})

	t.Run("empty query", func(t *testing.T) {
		o, _, _ := newTestOrchestrator(answering("ok"), WithArchive(&memArchive{}, &fakeEmbedder{}, 0))
		_, err := o.SearchArchive(context.Background(), "u1", " ", 5)
		assert.ErrorIs(t, err, entity.ErrInvalidRequest)
	})

	t.Run("embedding failure", func(t *testing.T) {
		o, _, _ := newTestOrchestrator(answering("ok"), WithArchive(&memArchive{}, &fakeEmbedder{err: errors.New("quota")}, 0))
		_, err := o.SearchArchive(context.Background(), "u1", "aphids", 5)
		assert.ErrorContains(t, err, "embedding generation failed")
	})
}

func TestUsage(t *testing.T) {
	o, _, usage := newTestOrchestrator(answering("ok"))
	usage.tokens["u1"] = 99

	report, err := o.Usage(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, &entity.UsageReport{UserID: "u1", Tokens: 99}, report)

	_, err = o.Usage(context.Background(), "  ")
	assert.ErrorIs(t, err, entity.ErrInvalidRequest)

	noMeter := NewOrchestrator(newMemHistory(), nil, NewAssembler(nil, nil, nil), nil)
	report, err = noMeter.Usage(context.Background(), "u1")
	require.NoError(t, err)
	assert.Zero(t, report.Tokens)
}
