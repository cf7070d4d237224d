// Package config は環境変数から設定を読み込み、アプリケーション全体で使用する設定を提供します。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverMongo  = "mongo"
	StoreDriverMemory = "memory"

	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// Config はアプリケーションの設定を保持する構造体です。
type Config struct {
	// サーバー設定
	Port     string // APIサーバーのポート番号
	GinMode  string // Ginの実行モード (debug, release, test)
	LogLevel string // zerolog のログレベル

	// CORS設定
	CORSAllowedOrigins string // CORS許可オリジン（カンマ区切り、"*" で全許可）

	// データベース設定
	StoreDriver string        // mongo または memory
	MongoURI    string        // MongoDB 接続文字列
	RequestsDB  string        // requests コレクションを持つDB名
	UsersDB     string        // ユーザー関連コレクションを持つDB名
	DBTimeout   time.Duration // 1回のDB操作に許す最大時間
	PublicDir   string        // 静的ファイルとページの配信ディレクトリ（任意）

	// 認証・セッション設定
	SessionSecret      string        // セッションCookie署名用の秘密鍵
	SessionBackend     string        // memory または redis
	SessionRedisURL    string        // redis バックエンド用の接続URL
	SessionMaxLifetime time.Duration // セッションの最大有効期間（0で無制限）
	SessionIdleTimeout time.Duration // 無操作タイムアウト（0で無効）
	BcryptCost         int           // パスワードハッシュのコスト
	LoginMaxAttempts   int           // ロックまでのログイン失敗回数（0で無効）
}

// Load は環境変数から設定を読み込みます。
// .env と .env.local が存在する場合はそこから読み込みます。
func Load() (*Config, error) {
	loadEnvFiles()

	config := &Config{
		Port:     getEnv("PORT", "3000"),
		GinMode:  getEnv("GIN_MODE", "debug"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverMongo)),
		MongoURI:    getEnv("MONGODB_URI", ""),
		RequestsDB:  getEnv("REQUESTS_DB", "RRMMS"),
		UsersDB:     getEnv("USERS_DB", "users1"),
		DBTimeout:   getEnvAsDuration("DB_TIMEOUT", 5*time.Second),
		PublicDir:   getEnv("PUBLIC_DIR", ""),

		SessionSecret:      getEnv("SESSION_SECRET", "secret"),
		SessionBackend:     strings.ToLower(getEnv("SESSION_BACKEND", SessionBackendMemory)),
		SessionRedisURL:    getEnv("SESSION_REDIS_URL", ""),
		SessionMaxLifetime: getEnvAsDuration("SESSION_MAX_LIFETIME", 12*time.Hour),
		SessionIdleTimeout: getEnvAsDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),
		BcryptCost:         getEnvAsInt("BCRYPT_COST", 10),
		LoginMaxAttempts:   getEnvAsInt("LOGIN_MAX_ATTEMPTS", 5),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func loadEnvFiles() {
	// 先に読み込んだ値が優先されるため .env.local を先に読む
	for _, name := range []string{".env.local", ".env"} {
		_ = godotenv.Load(name)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return
	}
	parent := filepath.Dir(cwd)
	if parent == "" || parent == cwd {
		return
	}
	_ = godotenv.Load(filepath.Join(parent, ".env.local"))
}

// Validate は設定の妥当性を検証します。
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGODB_URI is required when STORE_DRIVER=%s", StoreDriverMongo)
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.SessionBackend {
	case SessionBackendMemory:
	case SessionBackendRedis:
		if c.SessionRedisURL == "" {
			return fmt.Errorf("SESSION_REDIS_URL is required when SESSION_BACKEND=%s", SessionBackendRedis)
		}
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend)
	}

	if c.DBTimeout <= 0 {
		return fmt.Errorf("DB_TIMEOUT must be positive")
	}
	if c.SessionMaxLifetime < 0 || c.SessionIdleTimeout < 0 {
		return fmt.Errorf("session timeouts must not be negative")
	}

	// 本番環境では既定の署名鍵を許さない
	if c.GinMode == "release" && (c.SessionSecret == "" || c.SessionSecret == "secret") {
		return fmt.Errorf("SESSION_SECRET is required in release mode")
	}

	return nil
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します。
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt は環境変数を整数として取得します。
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration は "30m" のような文字列、または秒数を期間として取得します。
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
