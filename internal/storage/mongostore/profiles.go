package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/yourusername/rrmms-api/internal/model"
)

func (s *Store) CreateProfile(ctx context.Context, profile *model.Profile) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	res, err := insertOne(ctx, s.profiles, profile)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		profile.ID = id
	}
	return nil
}

// ListProfiles は usermanagements1 の全レコードをそのまま返します。
// 他のクライアントが書いた __v などの項目も落としません。
func (s *Store) ListProfiles(ctx context.Context) ([]model.Document, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return findMany[model.Document](ctx, s.profiles, bson.D{})
}
