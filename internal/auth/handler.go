package auth

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/rrmms-api/internal/logger"
)

// credentialsRequest の Password は、欠落 (nil) と空文字を区別するためポインターです。
type credentialsRequest struct {
	Username string  `json:"username" form:"username"`
	Password *string `json:"password" form:"password"`
}

// Register は POST /register のハンドラーです。
// 重複・入力不備・ストア障害のいずれも同じ汎用メッセージで 400 を返します。
func (m *Manager) Register(c *gin.Context) {
	log := logger.FromContext(c)

	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil || req.Password == nil {
		m.metrics.AuthEvent("register", "invalid")
		c.String(http.StatusBadRequest, msgRegisterFailed)
		return
	}

	user, err := m.credentials.Register(c.Request.Context(), req.Username, *req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateUsername):
			m.metrics.AuthEvent("register", "duplicate")
			log.Info().Str("username", req.Username).Msg("register rejected: duplicate username")
		case errors.Is(err, ErrValidation):
			m.metrics.AuthEvent("register", "invalid")
			log.Info().Err(err).Msg("register rejected")
		default:
			m.metrics.AuthEvent("register", "error")
			log.Error().Err(err).Msg("register failed")
		}
		c.String(http.StatusBadRequest, msgRegisterFailed)
		return
	}

	if err := m.startSession(c, user.ID, user.Username); err != nil {
		m.metrics.AuthEvent("register", "error")
		log.Error().Err(err).Msg("register: session start failed")
		c.String(http.StatusInternalServerError, msgInternal)
		return
	}

	m.metrics.AuthEvent("register", "success")
	c.String(http.StatusOK, msgRegistered)
}

// Login は POST /login のハンドラーです。
func (m *Manager) Login(c *gin.Context) {
	log := logger.FromContext(c)

	ip := c.ClientIP()
	if retryAfter := m.throttle.checkLock(ip); retryAfter > 0 {
		m.metrics.AuthEvent("login", "locked")
		c.Header("Retry-After", strconv.FormatInt(int64(retryAfter.Seconds())+1, 10))
		c.String(http.StatusTooManyRequests, msgTooManyAttempts)
		return
	}

	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil || req.Password == nil {
		m.throttle.recordFailure(ip)
		m.metrics.AuthEvent("login", "failure")
		c.String(http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	user, err := m.credentials.Verify(c.Request.Context(), req.Username, *req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			remaining := m.throttle.recordFailure(ip)
			m.metrics.AuthEvent("login", "failure")
			log.Info().Str("client_ip", ip).Int("remaining_attempts", remaining).Msg("login rejected")
			c.String(http.StatusBadRequest, msgInvalidCredentials)
			return
		}
		m.metrics.AuthEvent("login", "error")
		log.Error().Err(err).Msg("login failed")
		c.String(http.StatusInternalServerError, msgInternal)
		return
	}

	m.throttle.reset(ip)

	if err := m.startSession(c, user.ID, user.Username); err != nil {
		m.metrics.AuthEvent("login", "error")
		log.Error().Err(err).Msg("login: session start failed")
		c.String(http.StatusInternalServerError, msgInternal)
		return
	}

	m.metrics.AuthEvent("login", "success")
	c.String(http.StatusOK, msgLoggedIn)
}

// Logout は GET /logout のハンドラーです。
// セッションが無い、または既に無効な場合もログアウト済みとして / へリダイレクトします。
func (m *Manager) Logout(c *gin.Context) {
	log := logger.FromContext(c)

	token := currentToken(c)
	if err := m.sessions.Destroy(c.Request.Context(), token); err != nil {
		m.metrics.AuthEvent("logout", "error")
		log.Error().Err(err).Msg("logout: destroy session failed")
		c.String(http.StatusBadRequest, msgLogoutFailed)
		return
	}

	if err := clearCookie(c); err != nil {
		log.Warn().Err(err).Msg("logout: clear cookie failed")
	}

	m.metrics.AuthEvent("logout", "success")
	c.Redirect(http.StatusFound, "/")
}
