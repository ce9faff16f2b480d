package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/greenbasket/storefront/internal/domain"
	"github.com/greenbasket/storefront/internal/repository"
)

type memoryKeyRepo struct {
	keys map[string]*domain.IdempotencyKey
}

func (r *memoryKeyRepo) GetByKey(_ context.Context, key string) (*domain.IdempotencyKey, error) {
	return r.keys[key], nil
}

func (r *memoryKeyRepo) Create(_ context.Context, record *domain.IdempotencyKey) error {
	r.keys[record.Key] = record
	return nil
}

func idempotencyTestRouter(repo repository.IdempotencyKeyRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	repos := &repository.Repositories{IdempotencyKey: repo}
	router.POST("/checkout", IdempotencyMiddleware(repos, zap.NewNop()), func(c *gin.Context) {
		key, hash, existingID, isExisting := GetIdempotencyInfo(c)
		c.JSON(http.StatusOK, gin.H{
			"key":         key,
			"hash":        hash,
			"existing_id": existingID,
			"is_existing": isExisting,
		})
	})
	return router
}

func TestIdempotency_NewKeyPassedToHandler(t *testing.T) {
	repo := &memoryKeyRepo{keys: map[string]*domain.IdempotencyKey{}}
	router := idempotencyTestRouter(repo)

	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{"a":1}`))
	req.Header.Set(IdempotencyKeyHeader, "key-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"key":"key-1"`)
	assert.Contains(t, w.Body.String(), `"is_existing":false`)
}

func TestIdempotency_ReplaySameBody(t *testing.T) {
	repo := &memoryKeyRepo{keys: map[string]*domain.IdempotencyKey{}}
	router := idempotencyTestRouter(repo)

	// First request records the key, as the checkout handler would
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{"a":1}`))
	req.Header.Set(IdempotencyKeyHeader, "key-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	hash := extractJSONField(w.Body.String(), "hash")
	repo.keys["key-1"] = &domain.IdempotencyKey{Key: "key-1", OrderID: "order-9", RequestHash: hash}

	// Replay with the same body returns the original order id
	req = httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{"a":1}`))
	req.Header.Set(IdempotencyKeyHeader, "key-1")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"existing_id":"order-9"`)
	assert.Contains(t, w.Body.String(), `"is_existing":true`)
}

func TestIdempotency_SameKeyDifferentBodyConflicts(t *testing.T) {
	repo := &memoryKeyRepo{keys: map[string]*domain.IdempotencyKey{
		"key-1": {Key: "key-1", OrderID: "order-9", RequestHash: "different-hash"},
	}}
	router := idempotencyTestRouter(repo)

	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{"a":2}`))
	req.Header.Set(IdempotencyKeyHeader, "key-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestIdempotency_NoHeaderSkips(t *testing.T) {
	repo := &memoryKeyRepo{keys: map[string]*domain.IdempotencyKey{}}
	router := idempotencyTestRouter(repo)

	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"key":""`)
}

// extractJSONField pulls a string field out of a flat JSON body.
func extractJSONField(body, field string) string {
	marker := `"` + field + `":"`
	i := strings.Index(body, marker)
	if i < 0 {
		return ""
	}
	rest := body[i+len(marker):]
	j := strings.Index(rest, `"`)
	if j < 0 {
		return ""
	}
	return rest[:j]
}
