package v1

import (
	"errors"
	"net/http"

	"github.com/duynhne/directory-service/config"
	"github.com/duynhne/directory-service/internal/core/domain"
	logicv1 "github.com/duynhne/directory-service/internal/logic/v1"
	"github.com/duynhne/directory-service/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ProfileHandler handles HTTP requests for profile listings
type ProfileHandler struct {
	service *logicv1.ProfileService
	cfg     config.ListingConfig
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(service *logicv1.ProfileService, cfg config.ListingConfig) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		cfg:     cfg,
	}
}

// Mount registers the canonical /api/v1 routes and the legacy /api/users mirror.
func (h *ProfileHandler) Mount(r gin.IRouter) {
	api := r.Group("/api/v1")
	h.Register(api, "/profiles")
	api.GET("/directory", h.ListDirectory)
	api.GET("/work-types", h.WorkTypes)

	h.Register(r.Group("/api"), "/users")
}

// Register mounts the profile CRUD, upload and template routes under
// g/profiles.
func (h *ProfileHandler) Register(g *gin.RouterGroup, profiles string) {
	r := g.Group(profiles)
	r.GET("", h.ListProfiles)
	r.POST("", h.CreateProfile)
	r.GET("/template", h.DownloadTemplate)
	r.POST("/bulk-upload", h.BulkUpload)
	r.GET("/:id", h.GetProfile)
	r.PUT("/:id", h.UpdateProfile)
	r.DELETE("/:id", h.DeleteProfile)
}

// startSpan opens the request span and rebinds the request context to it.
func startSpan(c *gin.Context) trace.Span {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("route", c.FullPath()),
	))
	c.Request = c.Request.WithContext(ctx)
	return span
}

// fail maps a service error to a status code and writes the error envelope.
func fail(c *gin.Context, logger *zap.Logger, msg string, err error) {
	middleware.RecordError(c.Request.Context(), err)

	var fieldErr *domain.FieldError
	status, public := http.StatusInternalServerError, msg
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		status, public = http.StatusNotFound, "Profile not found"
	case errors.Is(err, domain.ErrEmailTaken):
		status, public = http.StatusConflict, "Email already exists"
	case errors.Is(err, domain.ErrInvalidEmail):
		status, public = http.StatusBadRequest, "Invalid email format"
	case errors.As(err, &fieldErr):
		status, public = http.StatusBadRequest, fieldErr.Error()
	case errors.Is(err, domain.ErrMalformedCSV):
		status, public = http.StatusBadRequest, "Error parsing CSV file"
	}

	if status >= http.StatusInternalServerError {
		logger.Error(msg, zap.Error(err))
	} else {
		logger.Warn(msg, zap.Int("status", status), zap.Error(err))
	}
	c.JSON(status, gin.H{"success": false, "error": public})
}

func listParams(c *gin.Context, public bool) logicv1.ListParams {
	work := c.Query("work")
	if work == "" {
		work = c.Query("skills")
	}
	return logicv1.ListParams{
		Search: c.Query("search"),
		Work:   work,
		Page:   c.Query("page"),
		Limit:  c.Query("limit"),
		Public: public,
	}
}

func (h *ProfileHandler) list(c *gin.Context, public bool) {
	span := startSpan(c)
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	res, err := h.service.ListProfiles(c.Request.Context(), listParams(c, public))
	if err != nil {
		fail(c, logger, "Failed to fetch profiles", err)
		return
	}

	profiles := res.Profiles
	if profiles == nil {
		profiles = []domain.Profile{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   profiles,
		"total":   res.Total,
		"page":    res.Page,
		"limit":   res.Limit,
		"pages":   res.Pages(),
	})
}

// ListProfiles handles the admin listing (client-chosen page size)
func (h *ProfileHandler) ListProfiles(c *gin.Context) { h.list(c, false) }

// ListDirectory handles the public listing (fixed page size)
func (h *ProfileHandler) ListDirectory(c *gin.Context) { h.list(c, true) }

// GetProfile handles GET /profiles/:id
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	span := startSpan(c)
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	id := c.Param("id")
	span.SetAttributes(attribute.String("profile.id", id))

	p, err := h.service.GetProfile(c.Request.Context(), id)
	if err != nil {
		fail(c, logger, "Failed to fetch profile", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": p})
}

// CreateProfile handles POST /profiles
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	span := startSpan(c)
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	var in domain.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		logger.Warn("Invalid request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": sanitizeValidationError(err)})
		return
	}

	p, err := h.service.CreateProfile(c.Request.Context(), in)
	if err != nil {
		fail(c, logger, "Failed to create profile", err)
		return
	}

	logger.Info("Profile created", zap.String("profile_id", p.ID))
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Profile created successfully",
		"user":    p,
	})
}

// UpdateProfile handles PUT /profiles/:id
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	span := startSpan(c)
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	id := c.Param("id")
	span.SetAttributes(attribute.String("profile.id", id))

	var in domain.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		logger.Warn("Invalid request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": sanitizeValidationError(err)})
		return
	}

	p, err := h.service.UpdateProfile(c.Request.Context(), id, in)
	if err != nil {
		fail(c, logger, "Failed to update profile", err)
		return
	}

	logger.Info("Profile updated", zap.String("profile_id", id))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"user":    p,
	})
}

// DeleteProfile handles DELETE /profiles/:id
func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	span := startSpan(c)
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	id := c.Param("id")
	span.SetAttributes(attribute.String("profile.id", id))

	if err := h.service.DeleteProfile(c.Request.Context(), id); err != nil {
		fail(c, logger, "Failed to delete profile", err)
		return
	}

	logger.Info("Profile deleted", zap.String("profile_id", id))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile deleted successfully"})
}

// WorkTypes handles GET /work-types
func (h *ProfileHandler) WorkTypes(c *gin.Context) {
	span := startSpan(c)
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	types, err := h.service.WorkTypes(c.Request.Context())
	if err != nil {
		fail(c, logger, "Failed to fetch work types", err)
		return
	}
	if types == nil {
		types = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "work": types, "total": len(types)})
}
