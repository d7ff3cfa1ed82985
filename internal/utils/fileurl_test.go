package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseURL(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request, _ = http.NewRequest(http.MethodGet, "/movies", nil)
	c.Request.Host = "localhost:8080"
	assert.Equal(t, "http://localhost:8080", BaseURL(c))

	c.Request.Header.Set("X-Forwarded-Proto", "https, http")
	c.Request.Header.Set("X-Forwarded-Host", "api.moviehub.dev")
	assert.Equal(t, "https://api.moviehub.dev", BaseURL(c))
}

func TestFileURL(t *testing.T) {
	assert.Nil(t, FileURL("http://localhost:8080", ""))
	assert.Nil(t, FileURL("http://localhost:8080", "   "))

	url := FileURL("http://localhost:8080/", "uploads/cover-1.png")
	require.NotNil(t, url)
	assert.Equal(t, "http://localhost:8080/uploads/cover-1.png", *url)

	url = FileURL("http://localhost:8080", "/uploads\\cover-2.png")
	require.NotNil(t, url)
	assert.Equal(t, "http://localhost:8080/uploads/cover-2.png", *url)

	url = FileURL("http://localhost:8080", "https://cdn.example.com/x.png")
	require.NotNil(t, url)
	assert.Equal(t, "https://cdn.example.com/x.png", *url)
}

func TestParseIDParam(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Params = gin.Params{{Key: "id", Value: "nope"}}

	_, err := ParseIDParam(c, "id", "movie")
	require.Error(t, err)
	assert.Equal(t, "Invalid movie id", err.Error())
}
