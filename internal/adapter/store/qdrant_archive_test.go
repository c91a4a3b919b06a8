package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"agri-advisor/internal/domain/entity"
)

type fakeQdrant struct {
	infoErr   error
	created   *qdrant.CreateCollection
	indexes   []string
	indexErr  error
	query     *qdrant.QueryPoints
	queryResp []*qdrant.ScoredPoint
	queryErr  error
	upserts   []*qdrant.UpsertPoints
}

func (f *fakeQdrant) GetCollectionInfo(context.Context, string) (*qdrant.CollectionInfo, error) {
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	return &qdrant.CollectionInfo{}, nil
}

func (f *fakeQdrant) CreateCollection(_ context.Context, req *qdrant.CreateCollection) error {
	f.created = req
	return nil
}

func (f *fakeQdrant) CreateFieldIndex(_ context.Context, req *qdrant.CreateFieldIndexCollection) (*qdrant.UpdateResult, error) {
	f.indexes = append(f.indexes, req.GetFieldName())
	return &qdrant.UpdateResult{}, f.indexErr
}

func (f *fakeQdrant) Query(_ context.Context, req *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error) {
	f.query = req
	return f.queryResp, f.queryErr
}

func (f *fakeQdrant) Upsert(_ context.Context, req *qdrant.UpsertPoints) (*qdrant.UpdateResult, error) {
	f.upserts = append(f.upserts, req)
	return &qdrant.UpdateResult{}, nil
}

func TestQdrantArchive_InitCollection(t *testing.T) {
	ctx := context.Background()

	t.Run("creates missing collection", func(t *testing.T) {
		fake := &fakeQdrant{infoErr: status.Error(codes.NotFound, "missing")}
		a := newQdrantArchive(fake, "chat_archive", nil)

		require.NoError(t, a.InitCollection(ctx, 768))
		require.NotNil(t, fake.created)
		assert.Equal(t, "chat_archive", fake.created.GetCollectionName())
		assert.Equal(t, []string{"user_id", "created_at"}, fake.indexes)
	})

	t.Run("existing collection", func(t *testing.T) {
		fake := &fakeQdrant{indexErr: errors.New("index exists")}
		a := newQdrantArchive(fake, "chat_archive", nil)

		require.NoError(t, a.InitCollection(ctx, 768))
		assert.Nil(t, fake.created)
		assert.Len(t, fake.indexes, 2)
	})

	t.Run("unreachable", func(t *testing.T) {
		fake := &fakeQdrant{infoErr: status.Error(codes.Unavailable, "down")}
		a := newQdrantArchive(fake, "chat_archive", nil)

		assert.Error(t, a.InitCollection(ctx, 768))
		assert.Nil(t, fake.created)
	})
}

func TestQdrantArchive_Save(t *testing.T) {
	fake := &fakeQdrant{}
	a := newQdrantArchive(fake, "chat_archive", nil)

	err := a.Save(context.Background(), entity.ArchivedTurn{
		UserID:    "u1",
		Message:   "when to sow wheat",
		Reply:     "November",
		CreatedAt: fixedTime,
	}, []float32{0.1, 0.2})
	require.NoError(t, err)

	require.Len(t, fake.upserts, 1)
	points := fake.upserts[0].GetPoints()
	require.Len(t, points, 1)
	payload := points[0].GetPayload()
	assert.Equal(t, "u1", payload["user_id"].GetStringValue())
	assert.Equal(t, "when to sow wheat", payload["message"].GetStringValue())
	assert.Equal(t, "November", payload["reply"].GetStringValue())
	assert.Equal(t, fixedTime.Unix(), payload["created_at"].GetIntegerValue())
}

func TestQdrantArchive_Search(t *testing.T) {
	fake := &fakeQdrant{queryResp: []*qdrant.ScoredPoint{{
		Score: 0.91,
		Payload: qdrant.NewValueMap(map[string]any{
			"user_id":    "u1",
			"message":    "when to sow wheat",
			"reply":      "November",
			"created_at": fixedTime.Unix(),
		}),
	}}}
	a := newQdrantArchive(fake, "chat_archive", nil)

	since := fixedTime.Add(-time.Hour)
	got, err := a.Search(context.Background(), []float32{0.1}, "u1", 3, since)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, entity.ArchivedTurn{
		UserID:    "u1",
		Message:   "when to sow wheat",
		Reply:     "November",
		Score:     0.91,
		CreatedAt: fixedTime,
	}, got[0])

	require.NotNil(t, fake.query)
	assert.Equal(t, uint64(3), fake.query.GetLimit())
	must := fake.query.GetFilter().GetMust()
	require.Len(t, must, 2)
	assert.Equal(t, "user_id", must[0].GetField().GetKey())
	assert.Equal(t, "u1", must[0].GetField().GetMatch().GetKeyword())
	assert.Equal(t, "created_at", must[1].GetField().GetKey())
	assert.Equal(t, float64(since.Unix()), must[1].GetField().GetRange().GetGte())
}

func TestQdrantArchive_SearchWithoutRetention(t *testing.T) {
	fake := &fakeQdrant{}
	a := newQdrantArchive(fake, "chat_archive", nil)

	got, err := a.Search(context.Background(), []float32{0.1}, "u1", 5, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Len(t, fake.query.GetFilter().GetMust(), 1)
}
