package http

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"user-sandbox/internal/service"
)

const (
	internalErrorMessage = "internal server error"
	invalidBodyMessage   = "invalid request body"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

var _ Pinger = (*sql.DB)(nil)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users  service.UserService
	db     Pinger
	auth   AuthConfig
	logger logrus.FieldLogger
}

func NewHandler(users service.UserService, db Pinger, auth AuthConfig, logger logrus.FieldLogger) *Handler {
	return &Handler{
		users:  users,
		db:     db,
		auth:   auth,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestIDMiddleware(), requestLogger(h.logger), corsMiddleware())

	api := router.Group("/api")
	{
		api.GET("/users/:id", h.getUser)
		api.GET("/health", h.health)

		write := api.Group("", authMiddleware(h.auth))
		write.POST("/users", h.createUser)
		write.PUT("/users/:id", h.updateUser)
	}
}

type createUserRequest struct {
	Name        string `json:"name"`
	Position    string `json:"position"`
	MailAddress string `json:"mail_address"`
}

type updateUserRequest struct {
	Name        string `json:"name"`
	Position    string `json:"position"`
	MailAddress string `json:"mail_address"`
}

type UserResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Position    string `json:"position"`
	MailAddress string `json:"mail_address"`
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) getUser(c *gin.Context) {
	user, err := h.users.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch e := err.(type) {
		case *service.InvalidIDError:
			c.JSON(http.StatusBadRequest, gin.H{"error": e.Message})
		case *service.NotFoundError:
			c.JSON(http.StatusNotFound, gin.H{"error": e.Message})
		case *service.FaultError:
			internalError(c)
		}
		return
	}

	c.JSON(http.StatusOK, userToResponse(user))
}

func (h *Handler) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidBodyMessage})
		return
	}

	user, err := h.users.Create(c.Request.Context(), service.CreateUserRequest{
		Name:        req.Name,
		Position:    req.Position,
		MailAddress: req.MailAddress,
	})
	if err != nil {
		switch e := err.(type) {
		case *service.EnumConvertError:
			c.JSON(http.StatusBadRequest, gin.H{"error": e.Message})
		case *service.InvalidMailAddressError:
			c.JSON(http.StatusBadRequest, gin.H{"error": e.Error()})
		case *service.InvalidNameError:
			c.JSON(http.StatusBadRequest, gin.H{"error": e.Message})
		case *service.FaultError:
			internalError(c)
		}
		return
	}

	c.JSON(http.StatusCreated, userToResponse(user))
}

func (h *Handler) updateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidBodyMessage})
		return
	}

	n, err := h.users.Update(c.Request.Context(), c.Param("id"), service.UpdateUserRequest{
		Name:        req.Name,
		Position:    req.Position,
		MailAddress: req.MailAddress,
	})
	if err != nil {
		switch e := err.(type) {
		case *service.InvalidIDError:
			c.JSON(http.StatusBadRequest, gin.H{"error": e.Message})
		case *service.NotFoundError:
			c.JSON(http.StatusNotFound, gin.H{"error": e.Message})
		case *service.EnumConvertError:
			c.JSON(http.StatusBadRequest, gin.H{"error": e.Message})
		case *service.InvalidMailAddressError:
			c.JSON(http.StatusBadRequest, gin.H{"error": e.Error()})
		case *service.InvalidNameError:
			c.JSON(http.StatusBadRequest, gin.H{"error": e.Message})
		case *service.FaultError:
			internalError(c)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": n})
}

func (h *Handler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.WithError(err).Warn("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// internalError hides the fault from the client. The service has already
// logged it and requestLogger records the failed request.
func internalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
}

func userToResponse(user service.UserResponse) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Name:        user.Name,
		Position:    user.Position,
		MailAddress: user.MailAddress,
	}
}
