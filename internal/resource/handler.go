// Package resource は requests と usermanagements1 の CRUD エンドポイントを提供します。
package resource

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/rrmms-api/internal/logger"
	"github.com/yourusername/rrmms-api/internal/storage"
	"github.com/yourusername/rrmms-api/internal/validate"
)

// 応答本文。内部の詳細はクライアントに返さず、ログにだけ残します。
const (
	msgFetchFailed    = "Error fetching data"
	msgStatusRequired = "Status field is required"
	msgNotFound       = "Request not found"
	msgUpdateFailed   = "Error updating status"
	msgProfileCreated = "User added successfully"
	msgProfileFailed  = "Failed to add user"
)

// Handler は各コレクションへのハンドラーをまとめたものです。
type Handler struct {
	requests storage.RequestStore
	profiles storage.ProfileStore
}

// NewHandler は Handler を作成します。
func NewHandler(requests storage.RequestStore, profiles storage.ProfileStore) *Handler {
	return &Handler{requests: requests, profiles: profiles}
}

// ListRequests は GET /data のハンドラーです。
func (h *Handler) ListRequests(c *gin.Context) {
	docs, err := h.requests.ListRequests(c.Request.Context())
	if err != nil {
		logger.FromContext(c).Error().Err(err).Msg("list requests failed")
		c.String(http.StatusInternalServerError, msgFetchFailed)
		return
	}
	c.JSON(http.StatusOK, docs)
}

// UpdateRequestStatus は PATCH /data/:id/status のハンドラーです。
func (h *Handler) UpdateRequestStatus(c *gin.Context) {
	requestID := c.Param("id")

	body, err := bindBody(c)
	if err != nil {
		c.String(http.StatusBadRequest, msgStatusRequired)
		return
	}
	status, res := validate.Status(body)
	if !res.Valid {
		c.String(http.StatusBadRequest, msgStatusRequired)
		return
	}

	updated, err := h.requests.UpdateRequestStatus(c.Request.Context(), requestID, status)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.String(http.StatusNotFound, msgNotFound)
			return
		}
		logger.FromContext(c).Error().Err(err).Str("request_id", requestID).Msg("update status failed")
		c.String(http.StatusInternalServerError, msgUpdateFailed)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// CreateProfile は POST /api/users のハンドラーです。
func (h *Handler) CreateProfile(c *gin.Context) {
	log := logger.FromContext(c)

	body, err := bindBody(c)
	if err != nil {
		c.String(http.StatusBadRequest, msgProfileFailed)
		return
	}
	profile, res := validate.Profile(body)
	if !res.Valid {
		log.Info().Str("reason", res.Error()).Msg("profile rejected")
		c.String(http.StatusBadRequest, msgProfileFailed)
		return
	}

	if err := h.profiles.CreateProfile(c.Request.Context(), profile); err != nil {
		log.Error().Err(err).Msg("create profile failed")
		c.String(http.StatusBadRequest, msgProfileFailed)
		return
	}
	c.String(http.StatusCreated, msgProfileCreated)
}

// ListProfiles は GET /usermanagements1 のハンドラーです。
func (h *Handler) ListProfiles(c *gin.Context) {
	profiles, err := h.profiles.ListProfiles(c.Request.Context())
	if err != nil {
		logger.FromContext(c).Error().Err(err).Msg("list profiles failed")
		c.String(http.StatusInternalServerError, msgFetchFailed)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

// bindBody は JSON またはフォーム形式の本文を map として読み取ります。
// 本文が空の場合は空の map を返します。
func bindBody(c *gin.Context) (map[string]any, error) {
	if c.ContentType() == gin.MIMEPOSTForm {
		if err := c.Request.ParseForm(); err != nil {
			return nil, err
		}
		body := make(map[string]any, len(c.Request.PostForm))
		for key, values := range c.Request.PostForm {
			if len(values) > 0 {
				body[key] = values[0]
			}
		}
		return body, nil
	}

	body := map[string]any{}
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return body, nil
	}
	dec := json.NewDecoder(c.Request.Body)
	if err := dec.Decode(&body); err != nil {
		return nil, err
	}
	return body, nil
}
