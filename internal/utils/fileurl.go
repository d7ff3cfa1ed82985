package utils

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// BaseURL derives "<proto>://<host>" from the inbound request.
func BaseURL(c *gin.Context) string {
	proto := "http"
	if c.Request.TLS != nil {
		proto = "https"
	}
	if forwarded := c.GetHeader("X-Forwarded-Proto"); forwarded != "" {
		proto = strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}

	host := c.Request.Host
	if forwardedHost := c.GetHeader("X-Forwarded-Host"); forwardedHost != "" {
		host = strings.TrimSpace(strings.Split(forwardedHost, ",")[0])
	}

	return proto + "://" + host
}

// FileURL turns a stored relative path into an absolute URL.
// Empty paths yield nil so they serialize as JSON null; absolute URLs pass through.
func FileURL(baseURL, path string) *string {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return &path
	}

	url := strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(strings.ReplaceAll(path, "\\", "/"), "/")
	return &url
}
