package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/eaglebank/user-accounts/shared/apperror"
	"github.com/eaglebank/user-accounts/shared/cqrs"
	"github.com/eaglebank/user-accounts/shared/middleware"
	"github.com/eaglebank/user-accounts/shared/models"
	"github.com/gin-gonic/gin"
)

// UserCommander defines the write-side operations used by UserHandler.
type UserCommander interface {
	CreateUser(context.Context, cqrs.CreateUserCommand) cqrs.CommandResult
	UpdateUser(context.Context, cqrs.UpdateUserCommand) cqrs.CommandResult
	DeleteUser(context.Context, cqrs.DeleteUserCommand) cqrs.CommandResult
	ChangePassword(context.Context, cqrs.ChangePasswordCommand) (cqrs.CommandResult, error)
}

// UserQuerier defines the read-side operations used by UserHandler.
type UserQuerier interface {
	ListUsers(context.Context) ([]models.UserView, error)
	GetUser(context.Context, cqrs.GetUserQuery) (*models.UserView, bool, error)
	IsEmailTaken(context.Context, cqrs.EmailTakenQuery) (bool, error)
}

// UserHandler routes requests to the command or query service as appropriate.
type UserHandler struct {
	commands UserCommander
	queries  UserQuerier
}

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type UpdateUserRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type ChangePasswordRequest struct {
	OldPassword     string `json:"oldPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=NewPassword"`
}

type EmailAvailabilityRequest struct {
	Email string `form:"email" validate:"required"`
}

func NewUserHandler(commands UserCommander, queries UserQuerier) *UserHandler {
	return &UserHandler{commands: commands, queries: queries}
}

// RegisterRoutes mounts the user routes. Everything under /v1/users except
// registration requires auth.
func RegisterRoutes(r gin.IRouter, h *UserHandler, auth gin.HandlerFunc) {
	users := r.Group("/v1/users")
	{
		users.POST("", h.CreateUser)
		users.GET("", auth, h.ListUsers)
		users.GET("/:userId", auth, h.GetUser)
		users.PATCH("/:userId", auth, h.UpdateUser)
		users.DELETE("/:userId", auth, h.DeleteUser)
		users.POST("/:userId/password", auth, h.ChangePassword)
	}
	r.GET("/v1/email-availability", h.EmailAvailability)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	ctx := c.Request.Context()
	taken, err := h.queries.IsEmailTaken(ctx, cqrs.EmailTakenQuery{Email: req.Email})
	if err != nil {
		slog.ErrorContext(ctx, "email check failed", "error", err)
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}
	if taken {
		respondWithKind(c, http.StatusConflict, apperror.KindDuplicateEmail, "Email already taken")
		return
	}

	result := h.commands.CreateUser(ctx, cqrs.CreateUserCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if !result.OK() {
		respondWithFailure(c, result.Err, "Failed to create user")
		return
	}

	h.respondWithStoredUser(c, http.StatusCreated, result.ID)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	views, err := h.queries.ListUsers(c.Request.Context())
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "list users failed", "error", err)
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list users")
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": views})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	view, found, err := h.queries.GetUser(c.Request.Context(), cqrs.GetUserQuery{UserID: c.Param("userId")})
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "get user failed", "error", err)
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to get user")
		return
	}
	if !found {
		middleware.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID := c.Param("userId")

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	result := h.commands.UpdateUser(c.Request.Context(), cqrs.UpdateUserCommand{
		UserID: userID,
		Name:   req.Name,
		Email:  req.Email,
	})
	switch {
	case result.NotFound():
		middleware.RespondWithError(c, http.StatusNotFound, "User not found")
	case !result.OK():
		respondWithFailure(c, result.Err, "Failed to update user")
	default:
		h.respondWithStoredUser(c, http.StatusOK, userID)
	}
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	result := h.commands.DeleteUser(c.Request.Context(), cqrs.DeleteUserCommand{UserID: c.Param("userId")})
	switch {
	case result.NotFound():
		middleware.RespondWithError(c, http.StatusNotFound, "User not found")
	case !result.OK():
		respondWithFailure(c, result.Err, "Failed to delete user")
	default:
		c.Status(http.StatusNoContent)
	}
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	result, err := h.commands.ChangePassword(c.Request.Context(), cqrs.ChangePasswordCommand{
		UserID:      c.Param("userId"),
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		respondWithFailure(c, err, "Failed to change password")
		return
	}
	switch {
	case result.NotFound():
		middleware.RespondWithError(c, http.StatusNotFound, "User not found")
	case !result.OK():
		respondWithFailure(c, result.Err, "Failed to change password")
	default:
		c.JSON(http.StatusOK, gin.H{"id": result.ID})
	}
}

func (h *UserHandler) EmailAvailability(c *gin.Context) {
	var req EmailAvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid query")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	taken, err := h.queries.IsEmailTaken(c.Request.Context(), cqrs.EmailTakenQuery{Email: req.Email})
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "email check failed", "error", err)
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to check email")
		return
	}

	c.JSON(http.StatusOK, gin.H{"email": req.Email, "taken": taken})
}

// respondWithStoredUser re-reads the record so the body reflects what is
// stored, not what was requested.
func (h *UserHandler) respondWithStoredUser(c *gin.Context, code int, userID string) {
	view, found, err := h.queries.GetUser(c.Request.Context(), cqrs.GetUserQuery{UserID: userID})
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "reload user failed", "user_id", userID, "error", err)
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to load user")
		return
	}
	if !found {
		middleware.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(code, view)
}

// statusForKind maps service error kinds onto HTTP status codes.
func statusForKind(kind apperror.Kind) int {
	switch kind {
	case apperror.KindInvalidCredentials:
		return http.StatusForbidden
	case apperror.KindDuplicateEmail:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondWithFailure writes a kind-tagged error. Only the message of an
// *apperror.Error reaches the client, never its cause.
func respondWithFailure(c *gin.Context, err error, fallback string) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		middleware.RespondWithError(c, http.StatusInternalServerError, fallback)
		return
	}
	respondWithKind(c, statusForKind(appErr.Kind), appErr.Kind, appErr.Message)
}

func respondWithKind(c *gin.Context, code int, kind apperror.Kind, message string) {
	c.JSON(code, gin.H{
		"message": message,
		"error":   kind,
	})
}
