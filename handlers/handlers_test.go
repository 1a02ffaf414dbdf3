package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/beaconhr/onboard-api/config"
	"github.com/beaconhr/onboard-api/middleware"
	"github.com/beaconhr/onboard-api/utils"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:     testSecret,
		SessionTTL:    time.Hour,
		InvitationTTL: 180 * time.Second,
		FrontendURL:   "http://localhost:3000",
		FromEmail:     "noreply@test.local",
	}
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// q anchors an expectation to the literal SQL fragment.
func q(fragment string) string {
	return regexp.QuoteMeta(fragment)
}

func errNoRows() error {
	return sql.ErrNoRows
}

func sessionFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := utils.GenerateSessionToken(testSecret, userID, time.Hour)
	require.NoError(t, err)
	return token
}

// deferredRouter mounts routes behind the deferred-failure gate the way the
// command surface does in main.
func deferredRouter(register func(rg *gin.RouterGroup)) *gin.Engine {
	r := gin.New()
	v1 := r.Group("/api/v1")
	v1.Use(middleware.AuthContext(testSecret))
	register(v1)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func expectHRRole(mock sqlmock.Sqlmock, userID, role string) {
	mock.ExpectQuery(q(`SELECT role FROM users WHERE id = $1`)).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow(role))
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "body: %s", w.Body.String())
}
