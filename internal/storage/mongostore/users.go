package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/yourusername/rrmms-api/internal/model"
)

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	_, err := insertOne(ctx, s.users, user)
	return err
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return findOne[model.User](ctx, s.users, bson.D{{Key: "username", Value: username}})
}
