package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/rrmms-api/internal/logger"
	"github.com/yourusername/rrmms-api/internal/session"
)

// LoginPath は未ログイン時のリダイレクト先です。
const LoginPath = "/"

// RequireLogin はセッションを検証し、未ログインならログイン画面へリダイレクトします。
// セッションストアの障害も未ログインとして扱います。
func (m *Manager) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := m.currentSession(c)
		if err != nil {
			logger.FromContext(c).Error().Err(err).Msg("resolve session failed")
		}
		if s == nil {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Set(ContextUserKey, s)
		c.Next()
	}
}

// RedirectIfLoggedIn はログイン済みであれば target へリダイレクトします。
// 未ログインの場合は後続のハンドラー（ログイン画面）に処理を渡します。
func (m *Manager) RedirectIfLoggedIn(target string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := m.currentSession(c)
		if err != nil {
			logger.FromContext(c).Error().Err(err).Msg("resolve session failed")
		}
		if s != nil {
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser は RequireLogin が設定したセッションを返します。
func CurrentUser(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*session.Session)
	return s, ok
}
