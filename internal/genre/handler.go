package genre

import (
	"net/http"

	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/middleware"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/utils"
	"github.com/gin-gonic/gin"
)

// ImageStore persists an optional uploaded file and returns its stored path
type ImageStore interface {
	SaveFormFile(c *gin.Context, field string) (string, error)
}

// Handler handles HTTP requests for genre operations
type Handler struct {
	service Service
	images  ImageStore
}

// NewHandler creates a new genre handler
func NewHandler(service Service, images ImageStore) *Handler {
	return &Handler{
		service: service,
		images:  images,
	}
}

// GetGenres lists genres alphabetically
func (h *Handler) GetGenres(c *gin.Context) {
	genres, err := h.service.GetGenres(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.Success(c, http.StatusOK, "", ToResponses(genres, utils.BaseURL(c)))
}

// GetGenre returns a single genre
func (h *Handler) GetGenre(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id", "genre")
	if err != nil {
		_ = c.Error(err)
		return
	}

	genre, err := h.service.GetGenreByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.Success(c, http.StatusOK, "", genre.ToResponse(utils.BaseURL(c)))
}

// CreateGenre handles multipart genre creation with an optional image
func (h *Handler) CreateGenre(c *gin.Context) {
	var input GenreInput
	if err := c.ShouldBind(&input); err != nil {
		_ = c.Error(err)
		return
	}

	imagePath, err := h.images.SaveFormFile(c, "image")
	if err != nil {
		_ = c.Error(err)
		return
	}

	genre, err := h.service.CreateGenre(c.Request.Context(), &input, imagePath)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.Success(c, http.StatusCreated, "Genre created successfully", genre.ToResponse(utils.BaseURL(c)))
}

// UpdateGenre replaces the name and, when a file is sent, the image
func (h *Handler) UpdateGenre(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id", "genre")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var input GenreInput
	if err := c.ShouldBind(&input); err != nil {
		_ = c.Error(err)
		return
	}

	imagePath, err := h.images.SaveFormFile(c, "image")
	if err != nil {
		_ = c.Error(err)
		return
	}

	genre, err := h.service.UpdateGenre(c.Request.Context(), id, &input, imagePath)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.Success(c, http.StatusOK, "Genre updated successfully", genre.ToResponse(utils.BaseURL(c)))
}

// DeleteGenre removes a genre that no movie references
func (h *Handler) DeleteGenre(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id", "genre")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.service.DeleteGenre(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	utils.Success(c, http.StatusOK, "Genre deleted successfully", nil)
}

// RegisterRoutes registers all genre routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, mw *middleware.Chain) {
	genres := router.Group("/genres")
	{
		genres.GET("", mw.Cache, h.GetGenres)
		genres.GET("/:id", mw.Cache, h.GetGenre)

		admin := genres.Group("")
		admin.Use(mw.Auth, mw.AdminOnly)
		{
			admin.POST("", h.CreateGenre)
			admin.PUT("/:id", h.UpdateGenre)
			admin.DELETE("/:id", h.DeleteGenre)
		}
	}
}
