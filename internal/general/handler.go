package general

import (
	"net/http"

	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/middleware"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/utils"
	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for summary and lookup operations
type Handler struct {
	service Service
}

// NewHandler creates a new general handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetSummary(c *gin.Context) {
	summary, err := h.service.GetSummary(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.Success(c, http.StatusOK, "", summary)
}

func (h *Handler) GetMovieTypes(c *gin.Context) {
	utils.Success(c, http.StatusOK, "", h.service.MovieTypes())
}

func (h *Handler) GetRoles(c *gin.Context) {
	utils.Success(c, http.StatusOK, "", h.service.Roles())
}

// RegisterRoutes registers the summary and utility routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, mw *middleware.Chain) {
	router.GET("/general/summary", mw.Auth, mw.AdminOnly, h.GetSummary)

	utility := router.Group("/utility")
	{
		utility.GET("/movie-types", h.GetMovieTypes)
		utility.GET("/roles", h.GetRoles)
	}
}
