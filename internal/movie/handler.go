package movie

import (
	"net/http"
	"strings"

	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/apperr"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/middleware"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ImageStore persists an optional uploaded file and returns its stored path
type ImageStore interface {
	SaveFormFile(c *gin.Context, field string) (string, error)
}

// Handler handles HTTP requests for movie operations
type Handler struct {
	service Service
	images  ImageStore
}

// NewHandler creates a new movie handler
func NewHandler(service Service, images ImageStore) *Handler {
	return &Handler{
		service: service,
		images:  images,
	}
}

// GetMovies lists movies, optionally filtered by ?genreId=
func (h *Handler) GetMovies(c *gin.Context) {
	var genreID *uuid.UUID
	if raw := strings.TrimSpace(c.Query("genreId")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			_ = c.Error(apperr.Validation("genreId", "Invalid genre id"))
			return
		}
		genreID = &id
	}

	movies, err := h.service.GetMovies(c.Request.Context(), genreID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.Success(c, http.StatusOK, "", ToResponses(movies, utils.BaseURL(c)))
}

// GetMovie returns a movie with genre and cast
func (h *Handler) GetMovie(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id", "movie")
	if err != nil {
		_ = c.Error(err)
		return
	}

	movie, err := h.service.GetMovieByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.Success(c, http.StatusOK, "", movie.ToResponse(utils.BaseURL(c)))
}

// GetMovieDetail returns ratings and, for signed-in users, their favourite flag and rating
func (h *Handler) GetMovieDetail(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id", "movie")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var viewerID *uuid.UUID
	if user, ok := utils.GetAuthUser(c); ok {
		viewerID = &user.ID
	}

	detail, err := h.service.GetMovieDetail(c.Request.Context(), id, viewerID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.Success(c, http.StatusOK, "", detail.ToResponse(utils.BaseURL(c)))
}

// CreateMovie handles multipart movie creation with an optional cover image
func (h *Handler) CreateMovie(c *gin.Context) {
	var input MovieInput
	if err := c.ShouldBind(&input); err != nil {
		_ = c.Error(err)
		return
	}

	coverPath, err := h.images.SaveFormFile(c, "coverImage")
	if err != nil {
		_ = c.Error(err)
		return
	}

	movie, err := h.service.CreateMovie(c.Request.Context(), &input, coverPath)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.Success(c, http.StatusCreated, "Movie created successfully", movie.ToResponse(utils.BaseURL(c)))
}

// UpdateMovie replaces the movie fields and, when a file is sent, the cover image
func (h *Handler) UpdateMovie(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id", "movie")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var input MovieInput
	if err := c.ShouldBind(&input); err != nil {
		_ = c.Error(err)
		return
	}

	coverPath, err := h.images.SaveFormFile(c, "coverImage")
	if err != nil {
		_ = c.Error(err)
		return
	}

	movie, err := h.service.UpdateMovie(c.Request.Context(), id, &input, coverPath)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.Success(c, http.StatusOK, "Movie updated successfully", movie.ToResponse(utils.BaseURL(c)))
}

func (h *Handler) DeleteMovie(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id", "movie")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.service.DeleteMovie(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	utils.Success(c, http.StatusOK, "Movie deleted successfully", nil)
}

// RateMovie records the caller's rating
func (h *Handler) RateMovie(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id", "movie")
	if err != nil {
		_ = c.Error(err)
		return
	}
	userID, err := utils.GetUserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var input RatingInput
	if err := c.ShouldBind(&input); err != nil {
		_ = c.Error(err)
		return
	}

	movie, err := h.service.AddRating(c.Request.Context(), id, userID, &input)
	if err != nil {
		_ = c.Error(err)
		return
	}

	detail := &Detail{Movie: movie}
	utils.Success(c, http.StatusOK, "Rating added successfully", detail.ToResponse(utils.BaseURL(c)))
}

// ViewMovie counts the caller's first view
func (h *Handler) ViewMovie(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id", "movie")
	if err != nil {
		_ = c.Error(err)
		return
	}
	userID, err := utils.GetUserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	movie, err := h.service.IncrementMovieView(c.Request.Context(), id, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.Success(c, http.StatusOK, "View recorded", gin.H{"views": movie.Views})
}

func (h *Handler) GetFeaturedMovies(c *gin.Context) {
	movies, err := h.service.GetFeaturedMovies(c.Request.Context())
	h.respondList(c, movies, err)
}

func (h *Handler) GetRecentMovies(c *gin.Context) {
	movies, err := h.service.GetRecentMovies(c.Request.Context(), utils.ParseLimit(c, DefaultListLimit))
	h.respondList(c, movies, err)
}

func (h *Handler) GetTopRatedMovies(c *gin.Context) {
	movies, err := h.service.GetTopRatedMovies(c.Request.Context(), utils.ParseLimit(c, DefaultListLimit))
	h.respondList(c, movies, err)
}

func (h *Handler) GetMostViewedMovies(c *gin.Context) {
	movies, err := h.service.GetMostViewedMovies(c.Request.Context(), utils.ParseLimit(c, DefaultListLimit))
	h.respondList(c, movies, err)
}

func (h *Handler) GetSoonReleasingMovies(c *gin.Context) {
	movies, err := h.service.GetSoonReleasingMovies(c.Request.Context(), utils.ParseLimit(c, DefaultListLimit))
	h.respondList(c, movies, err)
}

func (h *Handler) GetMoviesByGenre(c *gin.Context) {
	genreID, err := utils.ParseIDParam(c, "genreId", "genre")
	if err != nil {
		_ = c.Error(err)
		return
	}

	movies, err := h.service.GetMoviesByGenre(c.Request.Context(), genreID)
	h.respondList(c, movies, err)
}

// SearchMovies filters by text and genre; without sortBy results are sorted by title ascending
func (h *Handler) SearchMovies(c *gin.Context) {
	var query SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		_ = c.Error(err)
		return
	}

	movies, err := h.service.AdvancedSearchMovies(c.Request.Context(), query)
	h.respondList(c, movies, err)
}

// ToggleFeatured flips the featured flag
func (h *Handler) ToggleFeatured(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id", "movie")
	if err != nil {
		_ = c.Error(err)
		return
	}

	movie, err := h.service.ToggleFeaturedStatus(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.Success(c, http.StatusOK, "Featured status updated", movie.ToResponse(utils.BaseURL(c)))
}

func (h *Handler) respondList(c *gin.Context, movies []*Movie, err error) {
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.Success(c, http.StatusOK, "", ToResponses(movies, utils.BaseURL(c)))
}

// RegisterRoutes registers all movie routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, mw *middleware.Chain) {
	movies := router.Group("/movies")
	{
		movies.GET("", mw.Cache, h.GetMovies)
		movies.GET("/search", mw.Cache, h.SearchMovies)
		movies.GET("/featured-movies", mw.Cache, h.GetFeaturedMovies)
		movies.GET("/recent", mw.Cache, h.GetRecentMovies)
		movies.GET("/top-viewed", mw.Cache, h.GetMostViewedMovies)
		movies.GET("/top-rated", mw.Cache, h.GetTopRatedMovies)
		movies.GET("/soon-releasing", mw.Cache, h.GetSoonReleasingMovies)
		movies.GET("/genre/:genreId", mw.Cache, h.GetMoviesByGenre)
		movies.GET("/:id", mw.Cache, h.GetMovie)
		movies.GET("/:id/detail", mw.OptionalAuth, mw.Cache, h.GetMovieDetail)

		authed := movies.Group("")
		authed.Use(mw.Auth)
		{
			authed.POST("/:id/rate", h.RateMovie)
			authed.POST("/:id/view", h.ViewMovie)
		}

		admin := movies.Group("")
		admin.Use(mw.Auth, mw.AdminOnly)
		{
			admin.POST("", h.CreateMovie)
			admin.PUT("/:id", h.UpdateMovie)
			admin.DELETE("/:id", h.DeleteMovie)
			admin.PATCH("/:id/featured", h.ToggleFeatured)
		}
	}
}
