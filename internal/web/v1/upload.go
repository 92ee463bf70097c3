package v1

import (
	"errors"
	"fmt"
	"net/http"

	logicv1 "github.com/duynhne/directory-service/internal/logic/v1"
	"github.com/duynhne/directory-service/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// uploadField is the multipart form field carrying the CSV document.
const uploadField = "file"

// BulkUpload handles POST /profiles/bulk-upload
func (h *ProfileHandler) BulkUpload(c *gin.Context) {
	span := startSpan(c)
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	if h.cfg.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxUploadBytes)
	}

	fh, err := c.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"success": false, "error": "File too large"})
			return
		}
		logger.Warn("Bulk upload without file", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No file uploaded"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		fail(c, logger, "Failed to process bulk upload", err)
		return
	}
	defer f.Close()

	rows, err := logicv1.ParseCSV(f)
	if err != nil {
		fail(c, logger, "Failed to process bulk upload", err)
		return
	}
	middleware.AddSpanAttributes(c.Request.Context(),
		attribute.String("upload.filename", fh.Filename),
		attribute.Int("upload.rows", len(rows)),
	)

	report, err := h.service.ImportProfiles(c.Request.Context(), rows)
	if err != nil {
		middleware.RecordError(c.Request.Context(), err)
		logger.Error("Bulk upload aborted", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":       false,
			"error":         "Failed to process bulk upload",
			"message":       fmt.Sprintf("Bulk upload aborted. Inserted: %d, Errors: %d", report.Inserted, report.Rejected),
			"inserted":      report.Inserted,
			"count":         len(rows),
			"errors":        report.Rejected,
			"error_details": report.Errors,
		})
		return
	}

	logger.Info("Bulk upload completed",
		zap.String("filename", fh.Filename),
		zap.Int("inserted", report.Inserted),
		zap.Int("rejected", report.Rejected),
	)
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       fmt.Sprintf("Bulk upload completed. Inserted: %d, Errors: %d", report.Inserted, report.Rejected),
		"inserted":      report.Inserted,
		"count":         len(rows),
		"errors":        report.Rejected,
		"error_details": report.Errors,
	})
}

// DownloadTemplate handles GET /profiles/template
func (h *ProfileHandler) DownloadTemplate(c *gin.Context) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", logicv1.TemplateFilename))
	c.Data(http.StatusOK, "text/csv", logicv1.TemplateCSV())
}
