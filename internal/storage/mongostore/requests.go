package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/yourusername/rrmms-api/internal/model"
	"github.com/yourusername/rrmms-api/internal/storage"
)

// ListRequests は requests の全レコードを返します。順序は保証しません。
func (s *Store) ListRequests(ctx context.Context) ([]model.Document, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return findMany[model.Document](ctx, s.requests, bson.D{})
}

// UpdateRequestStatus は Request_ID が一致するレコードの Status を更新し、
// 更新後のレコードを返します。
func (s *Store) UpdateRequestStatus(ctx context.Context, requestID string, status any) (model.Document, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	filter := bson.D{{Key: model.FieldRequestID, Value: requestID}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: model.FieldStatus, Value: status}}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated model.Document
	err := s.requests.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}
		return nil, wrapError(err)
	}
	return updated, nil
}
