package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rim-zghida/plagiasm-detector/internal/middleware"
	"github.com/rim-zghida/plagiasm-detector/internal/service"
)

type AdminHandler interface {
	ListUsers(c *gin.Context)
	CreateUser(c *gin.Context)
	UpdateUserRole(c *gin.Context)
	DeactivateUser(c *gin.Context)
	Stats(c *gin.Context)
}

type adminHandler struct {
	adminService service.AdminService
	log          *logrus.Logger
}

func NewAdminHandler(adminService service.AdminService, log *logrus.Logger) AdminHandler {
	return &adminHandler{adminService: adminService, log: log}
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h *adminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminService.ListUsers()
	if err != nil {
		h.log.Errorf("Failed to list users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": users})
}

func (h *adminHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.adminService.CreateUser(req.Email, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role. Valid roles: user, moderator, admin"})
		case errors.Is(err, service.ErrUserAlreadyExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": "User with this email already exists"})
		default:
			h.log.Errorf("Failed to create user: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *adminHandler) UpdateUserRole(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID := c.MustGet(middleware.CtxUserID).(uuid.UUID)
	user, err := h.adminService.UpdateRole(actorID, targetID, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role. Valid roles: user, moderator, admin"})
		case errors.Is(err, service.ErrSelfRoleChange):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Admin cannot change their own role"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			h.log.Errorf("Failed to update user role: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *adminHandler) DeactivateUser(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	actorID := c.MustGet(middleware.CtxUserID).(uuid.UUID)
	user, err := h.adminService.DeactivateUser(actorID, targetID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfDeactivate):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Admin cannot delete themselves"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			h.log.Errorf("Failed to deactivate user: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate user"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User " + user.Email + " deactivated successfully"})
}

func (h *adminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats()
	if err != nil {
		h.log.Errorf("Failed to compute stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
