package user

import (
	"context"
	"net/http"

	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/middleware"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ImageStore persists an optional uploaded file and returns its stored path
type ImageStore interface {
	SaveFormFile(c *gin.Context, field string) (string, error)
}

// Handler handles HTTP requests for auth, profile and admin operations
type Handler struct {
	service Service
	images  ImageStore
}

// NewHandler creates a new user handler
func NewHandler(service Service, images ImageStore) *Handler {
	return &Handler{
		service: service,
		images:  images,
	}
}

// Register handles user registration
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.service.RegisterUser(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.Success(c, http.StatusCreated, "User registered successfully", user.ToResponse(utils.BaseURL(c)))
}

// Login handles user authentication
func (h *Handler) Login(c *gin.Context) {
	h.login(c, h.service.LoginUser)
}

// AdminLogin authenticates admins only
func (h *Handler) AdminLogin(c *gin.Context) {
	h.login(c, h.service.LoginAdmin)
}

func (h *Handler) login(c *gin.Context, authenticate func(ctx context.Context, req *LoginRequest) (*AuthResult, error)) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		_ = c.Error(err)
		return
	}

	result, err := authenticate(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.Success(c, http.StatusOK, "Login successful", result.ToResponse(utils.BaseURL(c)))
}

// ChangePassword verifies the old password and stores the new one
func (h *Handler) ChangePassword(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		_ = c.Error(err)
		return
	}

	utils.Success(c, http.StatusOK, "Password changed successfully", nil)
}

// GetMe returns current user information
func (h *Handler) GetMe(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.Success(c, http.StatusOK, "", user.ToResponse(utils.BaseURL(c)))
}

// UpdateProfile handles multipart name/email/profile image updates
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		_ = c.Error(err)
		return
	}

	imagePath, err := h.images.SaveFormFile(c, "profileImage")
	if err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), userID, &req, imagePath)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.Success(c, http.StatusOK, "Profile updated successfully", user.ToResponse(utils.BaseURL(c)))
}

func (h *Handler) GetFavorites(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	movies, err := h.service.GetFavorites(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.Success(c, http.StatusOK, "", MovieResponses(movies, utils.BaseURL(c)))
}

func (h *Handler) AddFavorite(c *gin.Context) {
	h.changeFavorite(c, h.service.AddToFavorites, "Movie added to favorites")
}

func (h *Handler) RemoveFavorite(c *gin.Context) {
	h.changeFavorite(c, h.service.RemoveFromFavorites, "Movie removed from favorites")
}

func (h *Handler) changeFavorite(c *gin.Context, apply func(ctx context.Context, userID, movieID uuid.UUID) error, message string) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	movieID, err := utils.ParseIDParam(c, "id", "movie")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := apply(c.Request.Context(), userID, movieID); err != nil {
		_ = c.Error(err)
		return
	}

	utils.Success(c, http.StatusOK, message, nil)
}

// ToggleFavorite adds or removes the movie from the caller's favourites
func (h *Handler) ToggleFavorite(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	movieID, err := utils.ParseIDParam(c, "id", "movie")
	if err != nil {
		_ = c.Error(err)
		return
	}

	favourite, err := h.service.ToggleFavorite(c.Request.Context(), userID, movieID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	message := "Movie removed from favorites"
	if favourite {
		message = "Movie added to favorites"
	}
	utils.Success(c, http.StatusOK, message, gin.H{"isFavourite": favourite})
}

func (h *Handler) GetStats(c *gin.Context) {
	userID, err := utils.GetUserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	stats, err := h.service.GetUserStats(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.Success(c, http.StatusOK, "", stats.ToResponse(utils.BaseURL(c)))
}

// AddAdmin creates another admin account
func (h *Handler) AddAdmin(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		_ = c.Error(err)
		return
	}

	admin, err := h.service.AddAdmin(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.Success(c, http.StatusCreated, "Admin added successfully", admin.ToResponse(utils.BaseURL(c)))
}

func (h *Handler) ListAdmins(c *gin.Context) {
	admins, err := h.service.ListAdmins(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.Success(c, http.StatusOK, "", ToResponses(admins, utils.BaseURL(c)))
}

func (h *Handler) UpdateAdmin(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id", "admin")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		_ = c.Error(err)
		return
	}

	admin, err := h.service.UpdateAdmin(c.Request.Context(), id, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.Success(c, http.StatusOK, "Admin updated successfully", admin.ToResponse(utils.BaseURL(c)))
}

func (h *Handler) DeleteAdmin(c *gin.Context) {
	actorID, err := utils.GetUserID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	id, err := utils.ParseIDParam(c, "id", "admin")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.service.DeleteAdmin(c.Request.Context(), actorID, id); err != nil {
		_ = c.Error(err)
		return
	}

	utils.Success(c, http.StatusOK, "Admin deleted successfully", nil)
}

// ListUsers returns one page of every account
func (h *Handler) ListUsers(c *gin.Context) {
	page, limit := utils.ParsePagination(c)

	users, total, err := h.service.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.Paginated(c, http.StatusOK, ToResponses(users, utils.BaseURL(c)), utils.CalculatePagination(total, page, limit))
}

// RegisterRoutes registers auth, favourite and admin routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, mw *middleware.Chain) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", mw.RateLimit, h.Register)
		auth.POST("/login", mw.RateLimit, h.Login)
		auth.POST("/admin/login", mw.RateLimit, h.AdminLogin)

		protected := auth.Group("")
		protected.Use(mw.Auth)
		{
			protected.POST("/change-password", h.ChangePassword)
			protected.GET("/me", h.GetMe)
			protected.PUT("/update-profile", h.UpdateProfile)
			protected.GET("/favorites", h.GetFavorites)
			protected.POST("/favorites/:id", h.AddFavorite)
			protected.DELETE("/favorites/:id", h.RemoveFavorite)
			protected.GET("/stats", h.GetStats)
			protected.POST("/add-admin", mw.AdminOnly, h.AddAdmin)
		}
	}

	router.POST("/movies/:id/toggle-favorites", mw.Auth, h.ToggleFavorite)

	admin := router.Group("/admin")
	admin.Use(mw.Auth, mw.AdminOnly)
	{
		admin.GET("/list", h.ListAdmins)
		admin.GET("/all-users", h.ListUsers)
		admin.PATCH("/:id", h.UpdateAdmin)
		admin.DELETE("/:id", h.DeleteAdmin)
	}
}
