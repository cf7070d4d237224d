// Package mongostore は MongoDB を使って storage.Store を実装します。
//
// mongo-go-driver v2 のクライアント（コネクションプール）をプロセスで1つだけ保持し、
// 各リクエストはそのプールを借りて操作します。
package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/yourusername/rrmms-api/internal/storage"
)

// Collection 名称
const (
	ColRequests = "requests"
	ColUsers    = "custom_users_collection"
	ColProfiles = "usermanagements1"
)

// Options は接続先と各コレクションの所属DBを指定します。
type Options struct {
	URI        string
	RequestsDB string
	UsersDB    string
	// Timeout は1回の操作に許す最大時間です。0 の場合は制限しません。
	Timeout time.Duration
}

// Store は storage.Store の MongoDB 実装です。
type Store struct {
	client   *mongo.Client
	requests *mongo.Collection
	users    *mongo.Collection
	profiles *mongo.Collection
	timeout  time.Duration
}

var _ storage.Store = (*Store)(nil)

// NewStore は MongoDB に接続し、必要なインデックスを作成します。
func NewStore(opts Options) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(opts.URI).
		// ネストしたドキュメントも map として JSON 化できるようにする
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect failed: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ping failed: %w", err)
	}

	usersDB := client.Database(opts.UsersDB)
	s := &Store{
		client:   client,
		requests: client.Database(opts.RequestsDB).Collection(ColRequests),
		users:    usersDB.Collection(ColUsers),
		profiles: usersDB.Collection(ColProfiles),
		timeout:  opts.Timeout,
	}

	if err := s.ensureIndexes(ctx); err != nil {
		// 既存データに重複があると作成できないが、起動は継続する
		log.Warn().Err(err).Msg("mongostore: ensure indexes failed")
	}

	log.Info().
		Str("requests_db", opts.RequestsDB).
		Str("users_db", opts.UsersDB).
		Msg("mongostore: connected")
	return s, nil
}

// Close は接続プールを閉じます。
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Ping は MongoDB への疎通を確認します。
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.client.Ping(ctx, nil)
}

// ensureIndexes は username の一意インデックスを作成します。
// 同時登録の競合はこのインデックスで解決します。
func (s *Store) ensureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.users.Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("create index on %s: %w", ColUsers, err)
	}

	model = mongo.IndexModel{Keys: bson.D{{Key: "Request_ID", Value: 1}}}
	if _, err := s.requests.Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("create index on %s: %w", ColRequests, err)
	}
	return nil
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
