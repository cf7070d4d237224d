package resource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/rrmms-api/internal/model"
	"github.com/yourusername/rrmms-api/internal/storage/memstore"
)

type failingStore struct{ err error }

func (s failingStore) ListRequests(context.Context) ([]model.Document, error) { return nil, s.err }
func (s failingStore) UpdateRequestStatus(context.Context, string, any) (model.Document, error) {
	return nil, s.err
}
func (s failingStore) CreateProfile(context.Context, *model.Profile) error    { return s.err }
func (s failingStore) ListProfiles(context.Context) ([]model.Document, error) { return nil, s.err }

func newRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/data", h.ListRequests)
	router.PATCH("/data/:id/status", h.UpdateRequestStatus)
	router.POST("/api/users", h.CreateProfile)
	router.GET("/usermanagements1", h.ListProfiles)
	return router
}

func send(router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func seededStore() *memstore.Store {
	store := memstore.New()
	store.SeedRequests(
		model.Document{"Request_ID": "R-1", "Status": "Pending", "Description": "Pothole on Elm St"},
		model.Document{"Request_ID": "R-2", "Status": "Open"},
	)
	return store
}

func TestListRequests(t *testing.T) {
	router := newRouter(NewHandler(seededStore(), memstore.New()))

	rec := send(router, http.MethodGet, "/data", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var docs []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &docs))
	require.Len(t, docs, 2)
	ids := []any{docs[0]["Request_ID"], docs[1]["Request_ID"]}
	assert.ElementsMatch(t, []any{"R-1", "R-2"}, ids)
	for _, doc := range docs {
		assert.NotEmpty(t, doc["_id"])
	}
}

func TestListRequestsEmptyIsArray(t *testing.T) {
	router := newRouter(NewHandler(memstore.New(), memstore.New()))
	rec := send(router, http.MethodGet, "/data", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestUpdateRequestStatus(t *testing.T) {
	store := seededStore()
	router := newRouter(NewHandler(store, memstore.New()))

	rec := send(router, http.MethodPatch, "/data/R-1/status", `{"status":"Resolved"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Resolved", updated["Status"])
	assert.Equal(t, "R-1", updated["Request_ID"])
	assert.Equal(t, "Pothole on Elm St", updated["Description"])
}

func TestUpdateRequestStatusUnknownID(t *testing.T) {
	store := seededStore()
	router := newRouter(NewHandler(store, memstore.New()))
	before, err := store.ListRequests(context.Background())
	require.NoError(t, err)

	rec := send(router, http.MethodPatch, "/data/R-404/status", `{"status":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, msgNotFound, rec.Body.String())

	after, err := store.ListRequests(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdateRequestStatusMissingStatus(t *testing.T) {
	store := seededStore()
	router := newRouter(NewHandler(store, memstore.New()))

	for _, body := range []string{"", `{}`, `{"status":""}`, `{"status":null}`, `not json`} {
		rec := send(router, http.MethodPatch, "/data/R-1/status", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
		assert.Equal(t, msgStatusRequired, rec.Body.String())
	}

	docs, err := store.ListRequests(context.Background())
	require.NoError(t, err)
	for _, doc := range docs {
		if doc["Request_ID"] == "R-1" {
			assert.Equal(t, "Pending", doc["Status"])
		}
	}
}

func TestUpdateRequestStatusFormBody(t *testing.T) {
	router := newRouter(NewHandler(seededStore(), memstore.New()))
	req := httptest.NewRequest(http.MethodPatch, "/data/R-2/status",
		strings.NewReader(url.Values{"status": {"Closed"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Status":"Closed"`)
}

func TestStoreFailuresReturnGenericErrors(t *testing.T) {
	broken := failingStore{err: errors.New("server selection timeout: mongodb://10.0.0.5")}
	router := newRouter(NewHandler(broken, broken))

	rec := send(router, http.MethodGet, "/data", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, msgFetchFailed, rec.Body.String())

	rec = send(router, http.MethodPatch, "/data/R-1/status", `{"status":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, msgUpdateFailed, rec.Body.String())

	rec = send(router, http.MethodPost, "/api/users", `{"firstName":"Bob"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgProfileFailed, rec.Body.String())

	rec = send(router, http.MethodGet, "/usermanagements1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "mongodb")
}

func TestCreateAndListProfiles(t *testing.T) {
	router := newRouter(NewHandler(memstore.New(), memstore.New()))

	body := `{"userType":"resident","firstName":"Bob","email":"b@x.com","phoneNumber":"123","address":"Elm St","colony":"C1","terms":true}`
	rec := send(router, http.MethodPost, "/api/users", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, msgProfileCreated, rec.Body.String())

	rec = send(router, http.MethodGet, "/usermanagements1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var profiles []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profiles))
	require.Len(t, profiles, 1)
	got := profiles[0]
	assert.NotEmpty(t, got["_id"])
	delete(got, "_id")
	assert.Equal(t, map[string]any{
		"userType":    "resident",
		"firstName":   "Bob",
		"email":       "b@x.com",
		"phoneNumber": "123",
		"address":     "Elm St",
		"colony":      "C1",
		"terms":       true,
	}, got)
}

func TestCreateProfileRejectsInvalidBody(t *testing.T) {
	store := memstore.New()
	router := newRouter(NewHandler(memstore.New(), store))

	for _, body := range []string{`{"email":{"$gt":""}}`, `{"terms":"sometimes"}`, `[1,2]`} {
		rec := send(router, http.MethodPost, "/api/users", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}

	list, err := store.ListProfiles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateProfileKeepsEmptyStrings(t *testing.T) {
	router := newRouter(NewHandler(memstore.New(), memstore.New()))

	rec := send(router, http.MethodPost, "/api/users", `{"userType":"resident","firstName":"","email":"b@x.com","terms":false}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = send(router, http.MethodGet, "/usermanagements1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var profiles []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profiles))
	require.Len(t, profiles, 1)
	delete(profiles[0], "_id")
	assert.Equal(t, map[string]any{
		"userType":  "resident",
		"firstName": "",
		"email":     "b@x.com",
		"terms":     false,
	}, profiles[0])
}

func TestListProfilesReturnsStoredRecordsAsIs(t *testing.T) {
	store := memstore.New()
	store.SeedProfiles(model.Document{"firstName": "Ann", "__v": int32(0), "nickname": "A"})
	router := newRouter(NewHandler(memstore.New(), store))

	rec := send(router, http.MethodGet, "/usermanagements1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var profiles []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profiles))
	require.Len(t, profiles, 1)
	assert.Equal(t, "Ann", profiles[0]["firstName"])
	assert.Equal(t, float64(0), profiles[0]["__v"])
	assert.Equal(t, "A", profiles[0]["nickname"])
}
