package analyses

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"screener-backend/internal/shared/server/middleware"
	"screener-backend/internal/shared/server/respond"
	"screener-backend/internal/shared/util"
)

const (
	// maxUploadBytes caps resume uploads at 10 MiB.
	maxUploadBytes = 10 << 20

	// maxJobDescriptionChars caps the pasted job description.
	maxJobDescriptionChars = 5000
)

// Handler wires HTTP handlers to the screening service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches screening routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses", h.createAnalysis)
	rg.GET("/sessions/:id", h.getSession)
	rg.DELETE("/sessions/:id", h.deleteSession)
}

func (h *Handler) createAnalysis(c *gin.Context) {
	jobDescription := strings.TrimSpace(c.PostForm("job_description"))
	if jobDescription == "" {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "job_description is required", nil)
		return
	}
	if len(jobDescription) > maxJobDescriptionChars {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "job_description is too long", []map[string]string{
			{"field": "job_description", "issue": "too_long"},
		})
		return
	}

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "resume file is required", nil)
		return
	}
	if fileHeader.Size > maxUploadBytes {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "resume file is too large", []map[string]string{
			{"field": "resume", "issue": "too_large"},
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "resume file could not be read", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "resume file could not be read", nil)
		return
	}
	if len(data) == 0 {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "resume file is empty", nil)
		return
	}

	fileName := util.CleanFileName(fileHeader.Filename)
	sessionID := strings.TrimSpace(c.PostForm("session_id"))

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	session, err := h.Svc.Analyze(ctx, AnalyzeRequest{
		SessionID:      sessionID,
		FileName:       fileName,
		MimeType:       fileHeader.Header.Get("Content-Type"),
		Data:           data,
		JobDescription: jobDescription,
	})
	if err != nil {
		h.respondAnalyzeError(c, err)
		return
	}

	// Surface session identifiers to the request logger.
	c.Set("sessionId", session.ID)
	c.Set("resumeFileName", session.FileName)

	respond.JSON(c, http.StatusOK, gin.H{
		"sessionId":      session.ID,
		"fileName":       session.FileName,
		"excerptPreview": session.ExcerptPreview(),
		"result":         session.Result,
	})
}

// respondAnalyzeError maps pipeline failures onto the error envelope. Remote
// call failures include the exact prompt so clients can show debug info.
func (h *Handler) respondAnalyzeError(c *gin.Context, err error) {
	status, code := classifyFailure(err)

	var extractionErr *ExtractionError
	if errors.As(err, &extractionErr) {
		respond.Error(c, status, code, "could not extract text from the resume", gin.H{
			"fileName": extractionErr.FileName,
			"reason":   sanitizeError(extractionErr.Err),
		})
		return
	}

	var configErr *ConfigurationError
	if errors.As(err, &configErr) {
		respond.Error(c, status, code, "LLM provider is not configured", gin.H{
			"provider": configErr.Provider,
		})
		return
	}

	var remoteErr *RemoteCallError
	if errors.As(err, &remoteErr) {
		respond.Error(c, status, code, "LLM request failed", gin.H{
			"reason": sanitizeError(remoteErr.Err),
			"prompt": remoteErr.Prompt,
		})
		return
	}

	respond.Error(c, status, ErrorCodeInternal, "analysis failed", nil)
}

func (h *Handler) getSession(c *gin.Context) {
	sessionID := c.Param("id")

	session, err := h.Svc.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "session not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to fetch session", nil)
		return
	}

	c.Set("sessionId", session.ID)

	respond.JSON(c, http.StatusOK, gin.H{
		"sessionId":      session.ID,
		"analysisDone":   session.AnalysisDone,
		"fileName":       session.FileName,
		"excerptPreview": session.ExcerptPreview(),
		"result":         session.Result,
		"updatedAt":      session.UpdatedAt,
	})
}

func (h *Handler) deleteSession(c *gin.Context) {
	sessionID := c.Param("id")

	if err := h.Svc.ResetSession(c.Request.Context(), sessionID); err != nil {
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to reset session", nil)
		return
	}

	c.Set("sessionId", sessionID)
	respond.NoContent(c)
}
