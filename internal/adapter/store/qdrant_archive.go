package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"agri-advisor/internal/domain/entity"
)

// qdrantAPI is the subset of *qdrant.Client the archive needs.
type qdrantAPI interface {
	GetCollectionInfo(ctx context.Context, collectionName string) (*qdrant.CollectionInfo, error)
	CreateCollection(ctx context.Context, request *qdrant.CreateCollection) error
	CreateFieldIndex(ctx context.Context, request *qdrant.CreateFieldIndexCollection) (*qdrant.UpdateResult, error)
	Query(ctx context.Context, request *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
	Upsert(ctx context.Context, request *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
}

// QdrantArchive keeps past chat exchanges as vectors so a user can search
// them by meaning.
type QdrantArchive struct {
	client         qdrantAPI
	collectionName string
	logger         *zap.Logger
}

func NewQdrantArchive(client *qdrant.Client, collectionName string, logger *zap.Logger) *QdrantArchive {
	return newQdrantArchive(client, collectionName, logger)
}

func newQdrantArchive(client qdrantAPI, collectionName string, logger *zap.Logger) *QdrantArchive {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QdrantArchive{client: client, collectionName: collectionName, logger: logger}
}

// InitCollection creates the collection when missing and indexes the payload
// fields every search filters on.
func (s *QdrantArchive) InitCollection(ctx context.Context, dim uint64) error {
	_, err := s.client.GetCollectionInfo(ctx, s.collectionName)
	if err != nil {
		st, ok := status.FromError(err)
		if !ok || st.Code() != codes.NotFound {
			return err
		}
		err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: s.collectionName,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     dim,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
	}

	indexes := []struct {
		field string
		typ   qdrant.FieldType
	}{
		{"user_id", qdrant.FieldType_FieldTypeKeyword},
		{"created_at", qdrant.FieldType_FieldTypeInteger},
	}
	for _, idx := range indexes {
		_, err = s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: s.collectionName,
			FieldName:      idx.field,
			FieldType:      idx.typ.Enum(),
			Wait:           qdrant.PtrOf(true),
		})
		if err != nil {
			// Usually means the index already exists.
			s.logger.Warn("qdrant field index not created", zap.String("field", idx.field), zap.Error(err))
		}
	}
	return nil
}

// Search returns the user's closest exchanges, skipping anything older than
// since unless since is zero.
func (s *QdrantArchive) Search(ctx context.Context, vector []float32, userID string, limit int, since time.Time) ([]entity.ArchivedTurn, error) {
	must := []*qdrant.Condition{qdrant.NewMatch("user_id", userID)}
	if !since.IsZero() {
		must = append(must, &qdrant.Condition{
			ConditionOneOf: &qdrant.Condition_Field{
				Field: &qdrant.FieldCondition{
					Key: "created_at",
					Range: &qdrant.Range{
						Gte: qdrant.PtrOf(float64(since.Unix())),
					},
				},
			},
		})
	}

	res, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collectionName,
		Query:          qdrant.NewQuery(vector...),
		Filter:         &qdrant.Filter{Must: must},
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, err
	}

	turns := make([]entity.ArchivedTurn, 0, len(res))
	for _, hit := range res {
		payload := hit.GetPayload()
		turns = append(turns, entity.ArchivedTurn{
			UserID:    payload["user_id"].GetStringValue(),
			Message:   payload["message"].GetStringValue(),
			Reply:     payload["reply"].GetStringValue(),
			Score:     hit.GetScore(),
			CreatedAt: time.Unix(payload["created_at"].GetIntegerValue(), 0).UTC(),
		})
	}
	return turns, nil
}

func (s *QdrantArchive) Save(ctx context.Context, turn entity.ArchivedTurn, vector []float32) error {
	createdAt := turn.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	payload := map[string]any{
		"user_id":    turn.UserID,
		"message":    turn.Message,
		"reply":      turn.Reply,
		"created_at": createdAt.Unix(),
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collectionName,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewIDUUID(uuid.NewString()),
				Vectors: qdrant.NewVectors(vector...),
				Payload: qdrant.NewValueMap(payload),
			},
		},
	})
	return err
}
