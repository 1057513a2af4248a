package analyses

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"screener-backend/internal/extract"
	"screener-backend/internal/llm"
	"screener-backend/internal/shared/metrics"
	"screener-backend/internal/shared/telemetry"
	"screener-backend/internal/shared/util"
)

// Service runs the screening pipeline for uploaded resumes.
type Service struct {
	Sessions        *SessionStore
	LLM             llm.Client
	Provider        string
	Model           string
	MaxExcerptChars int
}

// AnalyzeRequest carries one resume upload and its job description.
type AnalyzeRequest struct {
	SessionID      string
	FileName       string
	MimeType       string
	Data           []byte
	JobDescription string
}

// Analyze extracts the resume excerpt, queries the model once, parses the
// reply, and stores the outcome under the session. The provider is called
// exactly once per request; a failed call is returned, never retried.
func (s *Service) Analyze(ctx context.Context, req AnalyzeRequest) (Session, error) {
	startedAt := time.Now().UTC()
	metrics.IncAnalysisStarted()

	pages, err := extract.Pages(req.Data, req.MimeType, req.FileName)
	if err != nil {
		wrapped := &ExtractionError{FileName: req.FileName, Err: err}
		s.failAnalysis(ctx, req, startedAt, wrapped)
		return Session{}, wrapped
	}

	excerpt := extract.Excerpt(pages, s.MaxExcerptChars)
	prompt := llm.BuildPrompt(req.JobDescription, excerpt)

	telemetry.Info("analysis.started", map[string]any{
		"request_id":  requestIDFromContext(ctx),
		"session_id":  req.SessionID,
		"file_name":   req.FileName,
		"provider":    s.Provider,
		"model":       s.Model,
		"prompt_hash": util.PromptHash(prompt),
		"pages":       len(pages),
	})

	if s.LLM == nil {
		wrapped := &ConfigurationError{Provider: s.Provider}
		s.failAnalysis(ctx, req, startedAt, wrapped)
		return Session{}, wrapped
	}

	raw, err := s.LLM.Complete(ctx, prompt)
	if err != nil {
		wrapped := s.wrapCompleteError(prompt, err)
		s.failAnalysis(ctx, req, startedAt, wrapped)
		return Session{}, wrapped
	}

	result := Parse(raw)
	s.recordDegradations(ctx, req, result)

	session, err := s.storeSession(ctx, req, excerpt, result)
	if err != nil {
		s.failAnalysis(ctx, req, startedAt, err)
		return Session{}, err
	}

	completedAt := time.Now().UTC()
	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(durationMs(startedAt, completedAt))
	telemetry.Info("analysis.completed", map[string]any{
		"request_id":  requestIDFromContext(ctx),
		"session_id":  session.ID,
		"file_name":   session.FileName,
		"score":       result.Score,
		"duration_ms": durationMs(startedAt, completedAt),
	})
	return session, nil
}

// GetSession returns the stored state for a session ID.
func (s *Service) GetSession(ctx context.Context, sessionID string) (Session, error) {
	return s.Sessions.Get(ctx, sessionID)
}

// ResetSession drops the stored state for a session ID.
func (s *Service) ResetSession(ctx context.Context, sessionID string) error {
	return s.Sessions.Delete(ctx, sessionID)
}

func (s *Service) wrapCompleteError(prompt string, err error) error {
	if errors.Is(err, llm.ErrNotConfigured) {
		return &ConfigurationError{Provider: s.Provider}
	}
	return &RemoteCallError{Prompt: prompt, Err: err}
}

// storeSession writes the analysis under the request's session, creating a
// new session when none was supplied. A reused session keeps its CreatedAt.
func (s *Service) storeSession(ctx context.Context, req AnalyzeRequest, excerpt string, result AnalysisResult) (Session, error) {
	now := time.Now().UTC()
	sessionID := strings.TrimSpace(req.SessionID)
	createdAt := now
	if sessionID == "" {
		sessionID = uuid.NewString()
	} else if existing, err := s.Sessions.Get(ctx, sessionID); err == nil {
		createdAt = existing.CreatedAt
	}

	session := Session{
		ID:             sessionID,
		AnalysisDone:   true,
		FileName:       req.FileName,
		JobDescription: req.JobDescription,
		Excerpt:        excerpt,
		Result:         result,
		Provider:       s.Provider,
		Model:          s.Model,
		CreatedAt:      createdAt,
		UpdatedAt:      now,
	}
	if err := s.Sessions.Put(ctx, session); err != nil {
		return Session{}, err
	}
	return session, nil
}

// recordDegradations counts result fields that fell back to their sentinel.
// A degraded parse is not a failure; the analysis still completes.
func (s *Service) recordDegradations(ctx context.Context, req AnalyzeRequest, result AnalysisResult) {
	degraded := make([]string, 0, 3)
	if result.Score == ScoreNotAvailable {
		metrics.IncParseScoreFallback()
		degraded = append(degraded, "score")
	}
	if len(result.MissingSkills) == 1 && result.MissingSkills[0] == SkillsNotSpecified {
		metrics.IncParseSkillsFallback()
		degraded = append(degraded, "missing_skills")
	}
	if len(result.Suggestions) == 1 && result.Suggestions[0] == NoSuggestionsFound {
		metrics.IncParseSuggestionsFallback()
		degraded = append(degraded, "suggestions")
	}
	if len(degraded) == 0 {
		return
	}
	telemetry.Warn("analysis.parse_fallback", map[string]any{
		"request_id": requestIDFromContext(ctx),
		"session_id": req.SessionID,
		"file_name":  req.FileName,
		"fields":     strings.Join(degraded, ","),
	})
}

func (s *Service) failAnalysis(ctx context.Context, req AnalyzeRequest, startedAt time.Time, err error) {
	completedAt := time.Now().UTC()
	metrics.IncAnalysisFailed()
	metrics.ObserveAnalysisDurationMs(durationMs(startedAt, completedAt))
	telemetry.Error("analysis.failed", map[string]any{
		"request_id":  requestIDFromContext(ctx),
		"session_id":  req.SessionID,
		"file_name":   req.FileName,
		"provider":    s.Provider,
		"model":       s.Model,
		"error":       sanitizeError(err),
		"duration_ms": durationMs(startedAt, completedAt),
	})
}

func durationMs(startedAt, completedAt time.Time) float64 {
	return float64(completedAt.Sub(startedAt).Microseconds()) / 1000.0
}
