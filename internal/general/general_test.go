package general

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/middleware"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/utils"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "general-test-secret"

type fakeRepo struct {
	summary *Summary
	err     error
}

func (f *fakeRepo) Summary(ctx context.Context) (*Summary, error) {
	return f.summary, f.err
}

func newRouter(repo Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.Nop()

	router := gin.New()
	router.Use(middleware.ErrorHandler(log))
	h := NewHandler(NewService(repo, []string{"movie", "series"}, []string{"user", "admin"}, log))
	h.RegisterRoutes(&router.RouterGroup, middleware.NewChain(testSecret, nil, nil))
	return router
}

func bearer(t *testing.T, role string) string {
	token, err := utils.GenerateToken(testSecret, time.Hour, utils.AuthUser{ID: uuid.New(), Name: "Ada", Role: role})
	require.NoError(t, err)
	return "Bearer " + token
}

func TestService_Options(t *testing.T) {
	svc := NewService(&fakeRepo{}, []string{"movie", "series"}, []string{"user", "admin"}, logger.Nop())

	assert.Equal(t, []Option{{Value: "movie", Label: "Movie"}, {Value: "series", Label: "Series"}}, svc.MovieTypes())
	assert.Equal(t, []Option{{Value: "user", Label: "User"}, {Value: "admin", Label: "Admin"}}, svc.Roles())
}

func TestService_GetSummary(t *testing.T) {
	expected := &Summary{TotalMovies: 3, TotalGenres: 2, TotalUsers: 5, TotalAdmins: 1, FeaturedMovies: 1, TotalRatings: 7, TotalViews: 42}
	svc := NewService(&fakeRepo{summary: expected}, nil, nil, logger.Nop())

	summary, err := svc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, expected, summary)

	svc = NewService(&fakeRepo{err: errors.New("db down")}, nil, nil, logger.Nop())
	_, err = svc.GetSummary(context.Background())
	assert.Error(t, err)
}

func TestHandler_Summary(t *testing.T) {
	router := newRouter(&fakeRepo{summary: &Summary{TotalMovies: 3, TotalViews: 42}})

	testCases := []struct {
		name   string
		auth   string
		status int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"regular user", bearer(t, "user"), http.StatusForbidden},
		{"admin", bearer(t, "admin"), http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/general/summary", nil)
			if tc.auth != "" {
				req.Header.Set("Authorization", tc.auth)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/general/summary", nil)
	req.Header.Set("Authorization", bearer(t, "admin"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body struct {
		Success bool    `json:"success"`
		Data    Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, int64(3), body.Data.TotalMovies)
	assert.Equal(t, int64(42), body.Data.TotalViews)
}

func TestHandler_Utility(t *testing.T) {
	router := newRouter(&fakeRepo{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/utility/movie-types", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []Option `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data, 2)
	assert.Equal(t, "series", body.Data[1].Value)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/utility/roles", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"admin"`)
}
