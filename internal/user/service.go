package user

import (
	"context"
	"errors"
	"strings"

	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/config"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/apperr"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/internal/utils"
	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/pkg/logger"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minNameLength     = 2
	minPasswordLength = 6

	invalidCredentials = "Invalid email or password"
)

// service implements the Service interface
type service struct {
	repo     Repository
	movies   MovieLookup
	tokens   utils.TokenSettings
	hashCost int
	logger   *logger.Logger
}

// NewService creates a user service issuing tokens with the given settings
func NewService(tokens utils.TokenSettings, repo Repository, movies MovieLookup, log *logger.Logger) Service {
	return &service{
		repo:     repo,
		movies:   movies,
		tokens:   tokens,
		hashCost: bcrypt.DefaultCost,
		logger:   log.WithComponent("user-service"),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateRegistration checks name, email and password, collecting every failure
func ValidateRegistration(req *RegisterRequest) error {
	if req == nil {
		return apperr.Validation("", "Name, email and password are required")
	}
	return apperr.NewValidator().
		MinLen("name", req.Name, minNameLength, "Name must be at least 2 characters long").
		Email("email", req.Email).
		Check("password", len(req.Password) < minPasswordLength, "Password must be at least 6 characters long").
		Err()
}

func (s *service) RegisterUser(ctx context.Context, req *RegisterRequest) (*User, error) {
	return s.createAccount(ctx, req, RoleUser)
}

func (s *service) AddAdmin(ctx context.Context, req *RegisterRequest) (*User, error) {
	return s.createAccount(ctx, req, RoleAdmin)
}

func (s *service) createAccount(ctx context.Context, req *RegisterRequest, role string) (*User, error) {
	if err := ValidateRegistration(req); err != nil {
		return nil, err
	}
	email := normalizeEmail(req.Email)

	s.logger.Info("Registration attempt for email: " + email + " (role: " + role + ")")

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.logger.Info("Registration failed - email already in use: " + email)
		return nil, apperr.Conflict("User with this email already exists")
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user " + email + ": " + err.Error())
		return nil, err
	}

	s.logger.Info("User created successfully: " + email + " (ID: " + user.ID.String() + ")")
	return user, nil
}

func (s *service) LoginUser(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	return s.login(ctx, req, false)
}

// LoginAdmin rejects non-admin accounts with the same message as a bad password
func (s *service) LoginAdmin(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	return s.login(ctx, req, true)
}

func (s *service) login(ctx context.Context, req *LoginRequest, adminOnly bool) (*AuthResult, error) {
	if req == nil || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, apperr.Validation("", "Email and password are required")
	}
	email := normalizeEmail(req.Email)

	s.logger.Info("Login attempt for email: " + email)

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.logger.Info("Login failed - user not found: " + email)
		return nil, apperr.Validation("", invalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Info("Login failed - invalid password for " + email + " (ID: " + user.ID.String() + ")")
		return nil, apperr.Validation("", invalidCredentials)
	}

	if adminOnly && user.Role != RoleAdmin {
		s.logger.Warn("Admin login rejected for non-admin " + email + " (ID: " + user.ID.String() + ")")
		return nil, apperr.Validation("", invalidCredentials)
	}

	token, err := utils.GenerateToken(s.tokens.Secret, s.tokens.Expiry, utils.AuthUser{
		ID:   user.ID,
		Name: user.Name,
		Role: user.Role,
	})
	if err != nil {
		s.logger.Error("Failed to generate JWT token for " + email + " (ID: " + user.ID.String() + "): " + err.Error())
		return nil, apperr.Server("failed to generate token", err)
	}

	s.logger.Info("User logged in successfully: " + email + " (ID: " + user.ID.String() + ")")
	return &AuthResult{Token: token, User: user}, nil
}

func (s *service) ChangePassword(ctx context.Context, userID uuid.UUID, req *ChangePasswordRequest) error {
	if req == nil || req.OldPassword == "" {
		return apperr.Validation("oldPassword", "Current password is required")
	}
	if len(req.NewPassword) < minPasswordLength {
		return apperr.Validation("newPassword", "New password must be at least 6 characters long")
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return apperr.Validation("oldPassword", "Current password is incorrect")
	}

	hash, err := s.hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if _, err := s.repo.UpdateByID(ctx, userID, map[string]any{"password_hash": hash}); err != nil {
		return err
	}

	s.logger.Info("Password changed for user " + userID.String())
	return nil
}

func (s *service) GetProfile(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User", id.String())
	}
	return user, nil
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, req *UpdateProfileRequest, imagePath string) (*User, error) {
	if _, err := s.GetProfile(ctx, id); err != nil {
		return nil, err
	}

	updates, err := s.profileUpdates(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if imagePath != "" {
		updates["profile_image"] = imagePath
	}
	if len(updates) == 0 {
		return s.GetProfile(ctx, id)
	}

	user, err := s.repo.UpdateByID(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User", id.String())
	}

	s.logger.Info("Profile updated for user " + id.String())
	return user, nil
}

// profileUpdates validates the non-empty fields; email stays unique excluding the user itself
func (s *service) profileUpdates(ctx context.Context, id uuid.UUID, req *UpdateProfileRequest) (map[string]any, error) {
	updates := map[string]any{}
	if req == nil {
		return updates, nil
	}

	v := apperr.NewValidator()
	name := strings.TrimSpace(req.Name)
	if name != "" {
		v.MinLen("name", name, minNameLength, "Name must be at least 2 characters long")
		updates["name"] = name
	}
	email := normalizeEmail(req.Email)
	if email != "" {
		v.Email("email", email)
		updates["email"] = email
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if email != "" {
		taken, err := s.repo.FindByEmailExcludingID(ctx, email, id)
		if err != nil {
			return nil, err
		}
		if taken != nil {
			return nil, apperr.Conflict("User with this email already exists")
		}
	}
	return updates, nil
}

func (s *service) GetFavorites(ctx context.Context, userID uuid.UUID) ([]*Movie, error) {
	user, err := s.repo.GetUserWithFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User", userID.String())
	}

	movies := make([]*Movie, 0, len(user.Favourites))
	for _, f := range user.Favourites {
		if f.Movie != nil {
			movies = append(movies, f.Movie)
		}
	}
	return movies, nil
}

func (s *service) AddToFavorites(ctx context.Context, userID, movieID uuid.UUID) error {
	if _, err := s.GetProfile(ctx, userID); err != nil {
		return err
	}
	if err := s.ensureMovie(ctx, movieID); err != nil {
		return err
	}
	return s.repo.AddToFavorites(ctx, userID, movieID)
}

func (s *service) RemoveFromFavorites(ctx context.Context, userID, movieID uuid.UUID) error {
	if _, err := s.GetProfile(ctx, userID); err != nil {
		return err
	}
	return s.repo.RemoveFromFavorites(ctx, userID, movieID)
}

// ToggleFavorite reports whether the movie is a favourite afterwards
func (s *service) ToggleFavorite(ctx context.Context, userID, movieID uuid.UUID) (bool, error) {
	if _, err := s.GetProfile(ctx, userID); err != nil {
		return false, err
	}
	if err := s.ensureMovie(ctx, movieID); err != nil {
		return false, err
	}

	favourite, err := s.repo.IsFavorite(ctx, userID, movieID)
	if err != nil {
		return false, err
	}
	if favourite {
		return false, s.repo.RemoveFromFavorites(ctx, userID, movieID)
	}
	return true, s.repo.AddToFavorites(ctx, userID, movieID)
}

func (s *service) GetUserStats(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	if _, err := s.GetProfile(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.GetUserStats(ctx, userID)
}

func (s *service) ListAdmins(ctx context.Context) ([]*User, error) {
	return s.repo.FindByRole(ctx, RoleAdmin)
}

func (s *service) UpdateAdmin(ctx context.Context, id uuid.UUID, req *UpdateProfileRequest) (*User, error) {
	if _, err := s.findAdmin(ctx, id); err != nil {
		return nil, err
	}
	return s.UpdateProfile(ctx, id, req, "")
}

func (s *service) DeleteAdmin(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return apperr.Forbidden("You cannot delete your own account")
	}
	if _, err := s.findAdmin(ctx, id); err != nil {
		return err
	}

	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if deleted == nil {
		return apperr.NotFound("Admin", id.String())
	}

	s.logger.Info("Admin " + deleted.Email + " deleted by " + actorID.String())
	return nil
}

func (s *service) ListUsers(ctx context.Context, page, limit int) ([]*User, int64, error) {
	return s.repo.FindPage(ctx, utils.Offset(page, limit), limit)
}

// EnsureAdmin creates the configured admin account, or promotes it when it exists
func (s *service) EnsureAdmin(ctx context.Context, cfg *config.AdminConfig) error {
	if cfg == nil || strings.TrimSpace(cfg.Email) == "" {
		s.logger.Debug("No bootstrap admin configured")
		return nil
	}
	email := normalizeEmail(cfg.Email)

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.Role == RoleAdmin {
			return nil
		}
		if _, err := s.repo.UpdateByID(ctx, existing.ID, map[string]any{"role": RoleAdmin}); err != nil {
			return err
		}
		s.logger.Info("Promoted bootstrap admin " + email)
		return nil
	}

	name := cfg.Name
	if strings.TrimSpace(name) == "" {
		name = "Administrator"
	}
	if _, err := s.AddAdmin(ctx, &RegisterRequest{Name: name, Email: email, Password: cfg.Password}); err != nil {
		return err
	}
	s.logger.Info("Created bootstrap admin " + email)
	return nil
}

func (s *service) findAdmin(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Role != RoleAdmin {
		return nil, apperr.NotFound("Admin", id.String())
	}
	return user, nil
}

func (s *service) ensureMovie(ctx context.Context, id uuid.UUID) error {
	exists, err := s.movies.MovieExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Movie", id.String())
	}
	return nil
}

func (s *service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperr.Validation("password", "Password is too long")
		}
		s.logger.Error("Failed to hash password: " + err.Error())
		return "", apperr.Server("failed to hash password", err)
	}
	return string(hash), nil
}
