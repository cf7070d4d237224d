package auth

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/rrmms-api/internal/metrics"
	"github.com/yourusername/rrmms-api/internal/session"
)

const (
	SessionCookieName = "rrmms_session"
	sessionKeyToken   = "token"
)

// ContextUserKey は、ハンドラー間でログイン済みユーザーを共有するためのキーです。
const ContextUserKey = "auth.user"

// 応答本文。どの項目が誤っていたかは返しません。
const (
	msgRegistered         = "Registration successful"
	msgRegisterFailed     = "Error registering user."
	msgLoggedIn           = "Login successful"
	msgInvalidCredentials = "Invalid username or password."
	msgLogoutFailed       = "Error logging out."
	msgTooManyAttempts    = "Too many failed login attempts. Try again later."
	msgInternal           = "Internal server error"
)

// CookieConfig はセッションCookieの設定です。
type CookieConfig struct {
	Secret      string
	MaxLifetime time.Duration // 0 の場合はブラウザセッションCookie
	Secure      bool
}

// NewCookieStore はトークンを運ぶ署名付きCookieストアを作成します。
// Cookie に入るのはトークンだけで、ユーザー情報はサーバー側に保持します。
func NewCookieStore(cfg CookieConfig) sessions.Store {
	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.MaxLifetime.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}

// Manager は認証処理と状態をまとめた構造体です。
type Manager struct {
	credentials *Credentials
	sessions    *session.Manager
	throttle    *throttle
	metrics     *metrics.Metrics
}

// Options は Manager の任意設定です。
type Options struct {
	// LoginMaxAttempts は IP をロックするまでのログイン失敗回数です。0 で無効。
	LoginMaxAttempts int
	Metrics          *metrics.Metrics
}

// NewManager は認証マネージャーを作成します。
func NewManager(credentials *Credentials, sessions *session.Manager, opts Options) *Manager {
	return &Manager{
		credentials: credentials,
		sessions:    sessions,
		throttle:    newThrottle(opts.LoginMaxAttempts),
		metrics:     opts.Metrics,
	}
}

// startSession はセッションを発行してCookieに保存します。
// 既存のトークンがあれば先に破棄し、1つのセッションが複数ユーザーを指さないようにします。
func (m *Manager) startSession(c *gin.Context, userID, username string) error {
	if old := currentToken(c); old != "" {
		if err := m.sessions.Destroy(c.Request.Context(), old); err != nil {
			return err
		}
	}

	token, err := m.sessions.Create(c.Request.Context(), userID, username)
	if err != nil {
		return err
	}
	cookieSession := sessions.Default(c)
	cookieSession.Set(sessionKeyToken, token)
	return cookieSession.Save()
}

// currentSession はCookieのトークンからセッションを解決します。
// 未ログインの場合は (nil, nil) です。
func (m *Manager) currentSession(c *gin.Context) (*session.Session, error) {
	return m.sessions.Resolve(c.Request.Context(), currentToken(c))
}

func currentToken(c *gin.Context) string {
	token, _ := sessions.Default(c).Get(sessionKeyToken).(string)
	return token
}

// clearCookie はクライアントのセッションCookieを削除します。
func clearCookie(c *gin.Context) error {
	cookieSession := sessions.Default(c)
	cookieSession.Clear()
	cookieSession.Options(sessions.Options{Path: "/", MaxAge: -1})
	return cookieSession.Save()
}
