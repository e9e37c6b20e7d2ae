package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/v1/bookings/create", "v1"},
		{"/v2/users/login", "v2"},
		{"/v10/rooms/available", "v10"},
		{"/bookings/create", "v1"},
		{"/", "v1"},
		{"/vx/bookings", "v1"},
		{"/av1/bookings", "v1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, VersionFromPath(tt.path), tt.path)
	}
}

func TestStripVersion(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/v1/bookings/create", "/bookings/create"},
		{"/v2/users/login", "/users/login"},
		{"/bookings/create", "/bookings/create"},
		{"/vx/bookings", "/vx/bookings"},
		{"/", "/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripVersion(tt.path), tt.path)
	}
}

func TestAPIVersion_Header(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(APIVersion())

	var seen string
	handler := func(c *gin.Context) {
		seen = c.GetString("api_version")
		c.Status(http.StatusOK)
	}
	r.GET("/v2/ping", handler)
	r.GET("/ping", handler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v2/ping", nil))
	assert.Equal(t, "v2", w.Header().Get(APIVersionHeader))
	assert.Equal(t, "v2", seen)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, "v1", w.Header().Get(APIVersionHeader))
	assert.Equal(t, "v1", seen)
}

func TestMirror(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	Mirror(r, func(g gin.IRouter) {
		g.GET("/rooms/available", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
	})

	for _, path := range []string{"/rooms/available", "/v1/rooms/available"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code, path)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v2/rooms/available", nil))
	assert.Equal(t, http.StatusNotFound, w.Code, "only the default version is mirrored")
}
