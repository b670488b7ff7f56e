package adminhttp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"peercore/internal/core/domain"
)

type fakeDumper struct {
	result any
	ok     bool
}

func (f fakeDumper) DumpPeer(domain.PeerID) (any, bool) {
	return f.result, f.ok
}

func newRouter(d PeerDumper) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandlerMiddleware(zap.NewNop()))
	NewHandler(d).SetupRoutes(router)
	return router
}

func TestDumpPeer_Found(t *testing.T) {
	router := newRouter(fakeDumper{result: map[string]any{"id": 5}, ok: true})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/peers/5/dump", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, float64(5), body["peerId"])
}

func TestDumpPeer_NotFound(t *testing.T) {
	router := newRouter(fakeDumper{ok: false})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/peers/9/dump", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDumpPeer_InvalidID(t *testing.T) {
	router := newRouter(fakeDumper{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/peers/not-a-number/dump", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
