package devserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-adp-console/internal/schema"
)

func newTestServer(t *testing.T) (*Server, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv, err := New(Options{
		JWTSecret: "test_secret",
		TokenTTL:  time.Hour,
		SeedEmail: "admin@sma.sch.id",
		SeedPass:  "admin123",
		SeedName:  "Administrator",
	}, nil)
	require.NoError(t, err)
	return srv, srv.Router("/api/v1")
}

func loginToken(t *testing.T, router *gin.Engine) string {
	t.Helper()
	body := bytes.NewBufferString(`{"email":"admin@sma.sch.id","password":"admin123"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data tokenResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.AccessToken)
	return resp.Data.AccessToken
}

func doJSON(router *gin.Engine, method, path, token string, payload any) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		encoded, _ := json.Marshal(payload)
		body = bytes.NewBuffer(encoded)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLoginWithWrongPassword(t *testing.T) {
	_, router := newTestServer(t)
	w := doJSON(router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "admin@sma.sch.id", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireBearerToken(t *testing.T) {
	_, router := newTestServer(t)

	w := doJSON(router, http.MethodGet, "/api/v1/students", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "AUTH_EXPIRED", resp.Error.Code)
}

func TestStudentCRUDCycle(t *testing.T) {
	_, router := newTestServer(t)
	token := loginToken(t, router)

	created := doJSON(router, http.MethodPost, "/api/v1/students", token, schema.Entity{
		"nis": "2024001", "full_name": "Ahmad Fauzi", "gender": "M", "birth_date": "2008-03-14",
	})
	require.Equal(t, http.StatusCreated, created.Code)

	var entity schema.Entity
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &entity))
	id := entity.ID()
	require.NotEmpty(t, id)

	listed := doJSON(router, http.MethodGet, "/api/v1/students?page=0&size=20", token, nil)
	require.Equal(t, http.StatusOK, listed.Code)
	var page struct {
		Content       []schema.Entity `json:"content"`
		TotalElements int             `json:"totalElements"`
		TotalPages    int             `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(listed.Body.Bytes(), &page))
	assert.Equal(t, 1, page.TotalElements)
	assert.Equal(t, 1, page.TotalPages)

	updated := doJSON(router, http.MethodPut, "/api/v1/students/"+id, token, schema.Entity{
		"nis": "2024001", "full_name": "Ahmad F.", "gender": "M", "birth_date": "2008-03-14",
	})
	require.Equal(t, http.StatusOK, updated.Code)

	fetched := doJSON(router, http.MethodGet, "/api/v1/students/"+id, token, nil)
	require.Equal(t, http.StatusOK, fetched.Code)
	var got schema.Entity
	require.NoError(t, json.Unmarshal(fetched.Body.Bytes(), &got))
	assert.Equal(t, "Ahmad F.", got.String("full_name"))

	deleted := doJSON(router, http.MethodDelete, "/api/v1/students/"+id, token, nil)
	require.Equal(t, http.StatusNoContent, deleted.Code)

	missing := doJSON(router, http.MethodGet, "/api/v1/students/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestCreateRejectsMissingRequiredField(t *testing.T) {
	_, router := newTestServer(t)
	token := loginToken(t, router)

	w := doJSON(router, http.MethodPost, "/api/v1/students", token, schema.Entity{"full_name": "No NIS"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPaginates(t *testing.T) {
	srv, router := newTestServer(t)
	token := loginToken(t, router)

	for i := 0; i < 25; i++ {
		srv.Store().Create("subjects", schema.Entity{"code": "S", "name": "Subject", "credit_hours": float64(2)})
	}

	w := doJSON(router, http.MethodGet, "/api/v1/subjects?page=1&size=10", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Content       []schema.Entity `json:"content"`
		TotalElements int             `json:"totalElements"`
		TotalPages    int             `json:"totalPages"`
		Number        int             `json:"number"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Content, 10)
	assert.Equal(t, 25, page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.Number)
}

func TestUpdateUnknownIDReturns404(t *testing.T) {
	_, router := newTestServer(t)
	token := loginToken(t, router)

	w := doJSON(router, http.MethodPut, "/api/v1/students/nope", token, schema.Entity{
		"nis": "1", "full_name": "A", "gender": "M", "birth_date": "2008-01-01",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDashboardSummaryCountsTasks(t *testing.T) {
	srv, router := newTestServer(t)
	token := loginToken(t, router)
	srv.SeedFixtures()

	w := doJSON(router, http.MethodGet, "/api/v1/dashboard/summary", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Students        int     `json:"students"`
			TasksInProgress int     `json:"tasks_in_progress"`
			TasksCompleted  int     `json:"tasks_completed"`
			AverageProgress float64 `json:"average_progress"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Data.Students)
	assert.Equal(t, 1, resp.Data.TasksInProgress)
	assert.Equal(t, 1, resp.Data.TasksCompleted)
	assert.Equal(t, float64(80), resp.Data.AverageProgress)
}
