package http

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"contact-keeper/internal/auth"
	"contact-keeper/internal/domain"
	"contact-keeper/internal/service"
)

const userIDKey = "userID"

// Handler wires HTTP routes to domain services.
type Handler struct {
	users    service.UserService
	contacts service.ContactService
	tokens   *auth.TokenIssuer
	logger   *logrus.Logger
}

func NewHandler(users service.UserService, contacts service.ContactService, tokens *auth.TokenIssuer, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		users:    users,
		contacts: contacts,
		tokens:   tokens,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		api.POST("/users", h.register)
		api.POST("/auth", h.login)
		api.GET("/auth", h.authRequired, h.currentUser)

		contacts := api.Group("/contacts", h.authRequired)
		{
			contacts.GET("", h.listContacts)
			contacts.POST("", h.createContact)
			contacts.PUT("/:id", h.updateContact)
			contacts.DELETE("/:id", h.deleteContact)
			contacts.POST("/export", h.exportContacts)
			contacts.GET("/snapshots", h.listSnapshots)
			contacts.DELETE("/snapshots", h.deleteSnapshots)
		}

		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, x-auth-token")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// authRequired verifies the x-auth-token header and stores the resolved user
// id on the request context.
func (h *Handler) authRequired(c *gin.Context) {
	token := c.GetHeader("x-auth-token")
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": domain.ErrNoToken.Error()})
		return
	}

	userID, err := h.tokens.Verify(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": domain.ErrInvalidToken.Error()})
		return
	}

	c.Set(userIDKey, userID)
	c.Next()
}

func currentUserID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request body"})
		return
	}
	if err := req.Validate(); err != nil {
		h.writeError(c, err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.issueToken(c, user.ID)
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request body"})
		return
	}
	if err := req.Validate(); err != nil {
		h.writeError(c, err)
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.issueToken(c, user.ID)
}

func (h *Handler) issueToken(c *gin.Context, userID int64) {
	token, err := h.tokens.Issue(userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *Handler) currentUser(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(user))
}

func (h *Handler) listContacts(c *gin.Context) {
	contacts, err := h.contacts.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]ContactResponse, len(contacts))
	for i := range contacts {
		resp[i] = contactToResponse(contacts[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) createContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request body"})
		return
	}
	if err := req.Validate(); err != nil {
		h.writeError(c, err)
		return
	}

	contact, err := h.contacts.Create(c.Request.Context(), currentUserID(c), req.fields())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contactToResponse(*contact))
}

func (h *Handler) updateContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request body"})
		return
	}
	if err := req.Validate(); err != nil {
		h.writeError(c, err)
		return
	}

	contact, err := h.contacts.Update(c.Request.Context(), currentUserID(c), c.Param("id"), req.fields())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contactToResponse(*contact))
}

func (h *Handler) deleteContact(c *gin.Context) {
	if err := h.contacts.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "contact removed"})
}

func (h *Handler) exportContacts(c *gin.Context) {
	location, err := h.contacts.Export(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"location": location})
}

func (h *Handler) listSnapshots(c *gin.Context) {
	snapshots, err := h.contacts.ListSnapshots(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]SnapshotResponse, len(snapshots))
	for i, s := range snapshots {
		resp[i] = SnapshotResponse{Key: s.Key, Size: s.Size}
		if s.LastModified != nil {
			resp[i].LastModified = s.LastModified.Format(time.RFC3339)
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) deleteSnapshots(c *gin.Context) {
	if err := h.contacts.DeleteSnapshots(c.Request.Context(), currentUserID(c)); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "snapshots removed"})
}

// writeError maps domain errors to HTTP statuses. Anything unrecognized is
// logged and reported as an opaque 500.
func (h *Handler) writeError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		fields := append([]domain.FieldError(nil), validationErr.Fields...)
		sort.Slice(fields, func(i, j int) bool { return fields[i].Param < fields[j].Param })
		c.JSON(http.StatusBadRequest, gin.H{"errors": fields})
	case errors.Is(err, domain.ErrUserExists):
		c.JSON(http.StatusBadRequest, gin.H{"msg": domain.ErrUserExists.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"msg": domain.ErrInvalidCredentials.Error()})
	case errors.Is(err, domain.ErrNoToken):
		c.JSON(http.StatusUnauthorized, gin.H{"msg": domain.ErrNoToken.Error()})
	case errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"msg": domain.ErrInvalidToken.Error()})
	case errors.Is(err, domain.ErrNotOwner):
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Not Authorized"})
	case errors.Is(err, domain.ErrContactNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": "Contact is not found"})
	default:
		h.logger.WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server Error"})
	}
}

// UserResponse is the public shape of a user record; it never carries the
// password hash.
type UserResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// SnapshotResponse describes one stored contact snapshot object.
type SnapshotResponse struct {
	Key          string `json:"key"`
	Size         int64  `json:"size"`
	LastModified string `json:"last_modified,omitempty"`
}

type ContactResponse struct {
	ID    string `json:"id"`
	User  int64  `json:"user"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Type  string `json:"type"`
	Date  string `json:"date"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

func contactToResponse(contact domain.Contact) ContactResponse {
	return ContactResponse{
		ID:    contact.ID,
		User:  contact.UserID,
		Name:  contact.Name,
		Email: contact.Email,
		Phone: contact.Phone,
		Type:  string(contact.Type),
		Date:  contact.CreatedAt.Format(time.RFC3339),
	}
}
