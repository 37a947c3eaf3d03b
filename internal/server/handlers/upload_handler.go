package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/oreka/backend/internal/domain/models"
	"github.com/oreka/backend/internal/service/ingest"
)

// maxUploadBytes bounds the multipart file size before it is read into
// memory.
const maxUploadBytes = 20 << 20

// UploadHandler handles POST /api/upload.
type UploadHandler struct {
	svc    ingest.Ingestor
	logger *zap.Logger
}

// NewUploadHandler constructs the HTTP handler adapter.
func NewUploadHandler(svc ingest.Ingestor, logger *zap.Logger) *UploadHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadHandler{svc: svc, logger: logger}
}

// uploadResponse is the ingestion result body. The frontend only checks
// for a 2xx status, but API consumers get the full outcome.
type uploadResponse struct {
	FileName    string `json:"file_name"`
	FileType    string `json:"file_type"`
	Status      string `json:"status"`
	RecordCount int    `json:"record_count"`
	SkippedRows int    `json:"skipped_rows"`
}

// Upload reads the multipart "file" field and runs it through the
// ingestion pipeline.
func (h *UploadHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		h.logger.Warn("missing upload file", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return
	}
	if header.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	file, err := header.Open()
	if err != nil {
		h.logger.Error("failed opening upload", zap.String("file_name", header.Filename), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to read upload"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		h.logger.Error("failed reading upload", zap.String("file_name", header.Filename), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to read upload"})
		return
	}

	result, err := h.svc.Ingest(c.Request.Context(), models.Upload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		h.respondIngestError(c, header.Filename, result, err)
		return
	}

	c.JSON(http.StatusOK, uploadResponse{
		FileName:    result.File.FileName,
		FileType:    string(result.File.FileType),
		Status:      string(result.File.Status),
		RecordCount: result.File.RecordCount,
		SkippedRows: result.Skipped,
	})
}

// respondIngestError maps the ingestion error taxonomy onto HTTP
// statuses. Extraction failures still carry the recorded file outcome:
// the attempt is visible in history even though the upload failed.
func (h *UploadHandler) respondIngestError(c *gin.Context, fileName string, result ingest.Result, err error) {
	switch {
	case errors.Is(err, models.ErrUnsupportedFileType):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "only CSV and PDF files are supported"})
	case errors.Is(err, models.ErrNoUsableData):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     "no usable data found in file",
			"file_name": fileName,
			"status":    string(result.File.Status),
		})
	case errors.Is(err, models.ErrStoreUnavailable):
		h.logger.Error("store rejected append", zap.String("file_name", fileName), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage unavailable, retry the upload"})
	default:
		h.logger.Error("ingestion failed", zap.String("file_name", fileName), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process upload"})
	}
}
