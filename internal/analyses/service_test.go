package analyses

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"screener-backend/internal/llm"
)

// staticLLM returns a canned reply or error and records every prompt it saw.
type staticLLM struct {
	reply   string
	err     error
	prompts []string
}

func (s *staticLLM) Complete(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

const cannedReply = `Score: 82/100
Missing Skills: Python, SQL, and Kubernetes
Suggestions:
- Add measurable outcomes to each role.
- List the cloud platforms you have used.
`

func newTestService(client llm.Client) *Service {
	return &Service{
		Sessions:        NewSessionStore(),
		LLM:             client,
		Provider:        "openrouter",
		Model:           "openai/gpt-3.5-turbo",
		MaxExcerptChars: 1000,
	}
}

func TestAnalyzeHappyPath(t *testing.T) {
	fake := &staticLLM{reply: cannedReply}
	svc := newTestService(fake)

	session, err := svc.Analyze(context.Background(), AnalyzeRequest{
		FileName:       "resume.txt",
		MimeType:       "text/plain",
		Data:           []byte("Experience with Go services and Postgres at Acme."),
		JobDescription: "Backend engineer with Python and SQL.",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if session.ID == "" {
		t.Fatal("expected a generated session id")
	}
	if !session.AnalysisDone {
		t.Fatal("expected analysisDone to be set")
	}
	if session.Result.Score != "82" {
		t.Fatalf("score = %q, want 82", session.Result.Score)
	}
	if len(session.Result.MissingSkills) != 3 {
		t.Fatalf("missing skills = %#v", session.Result.MissingSkills)
	}
	if len(session.Result.Suggestions) != 2 {
		t.Fatalf("suggestions = %#v", session.Result.Suggestions)
	}
	if session.Provider != "openrouter" || session.Model != "openai/gpt-3.5-turbo" {
		t.Fatalf("provider/model = %q/%q", session.Provider, session.Model)
	}

	stored, err := svc.GetSession(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if stored.Result.Score != "82" {
		t.Fatalf("stored score = %q", stored.Result.Score)
	}

	if len(fake.prompts) != 1 {
		t.Fatalf("expected exactly one provider call, got %d", len(fake.prompts))
	}
	if !strings.Contains(fake.prompts[0], "Backend engineer with Python and SQL.") {
		t.Fatal("prompt missing job description")
	}
	if !strings.Contains(fake.prompts[0], "Experience with Go services") {
		t.Fatal("prompt missing resume excerpt")
	}
}

func TestAnalyzeWindowedExcerptReachesPrompt(t *testing.T) {
	fake := &staticLLM{reply: cannedReply}
	svc := newTestService(fake)

	// Text well past the excerpt limit; the skills line sits deep in the
	// middle and only survives through its keyword window.
	part1 := strings.Repeat("Intro paragraph without anchors. ", 20)
	part2 := strings.Repeat("Filler about past roles. ", 20) + "Skills: React, Node. " + strings.Repeat("More filler. ", 10)
	part3 := strings.Repeat("Closing remarks. ", 20)
	data := []byte(part1 + "\n" + part2 + "\n" + part3)

	session, err := svc.Analyze(context.Background(), AnalyzeRequest{
		FileName:       "resume.txt",
		MimeType:       "text/plain",
		Data:           data,
		JobDescription: "Frontend role",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(fake.prompts) != 1 {
		t.Fatalf("expected one provider call, got %d", len(fake.prompts))
	}
	if !strings.Contains(fake.prompts[0], "Skills: React, Node") {
		t.Fatal("excerpt window around the skills anchor missing from prompt")
	}
	if want := Parse(cannedReply); !reflect.DeepEqual(session.Result, want) {
		t.Fatalf("result = %#v, want parser output %#v", session.Result, want)
	}
}

func TestAnalyzeRemoteFailureSingleAttempt(t *testing.T) {
	fake := &staticLLM{err: errors.New("openrouter http status 500: upstream unavailable")}
	svc := newTestService(fake)

	_, err := svc.Analyze(context.Background(), AnalyzeRequest{
		FileName:       "resume.txt",
		MimeType:       "text/plain",
		Data:           []byte("resume text"),
		JobDescription: "any role",
	})

	var remoteErr *RemoteCallError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected RemoteCallError, got %v", err)
	}
	if len(fake.prompts) != 1 {
		t.Fatalf("expected a single attempt, got %d", len(fake.prompts))
	}
	if remoteErr.Prompt != fake.prompts[0] {
		t.Fatal("error should carry the exact prompt that was sent")
	}
	if svc.Sessions.Len() != 0 {
		t.Fatal("failed analysis must not store a session")
	}
}

func TestAnalyzeNotConfigured(t *testing.T) {
	svc := newTestService(llm.PlaceholderClient{})

	_, err := svc.Analyze(context.Background(), AnalyzeRequest{
		FileName:       "resume.txt",
		MimeType:       "text/plain",
		Data:           []byte("resume text"),
		JobDescription: "any role",
	})

	var configErr *ConfigurationError
	if !errors.As(err, &configErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if configErr.Provider != "openrouter" {
		t.Fatalf("provider = %q", configErr.Provider)
	}
	if svc.Sessions.Len() != 0 {
		t.Fatal("failed analysis must not store a session")
	}
}

func TestAnalyzeExtractionFailure(t *testing.T) {
	fake := &staticLLM{reply: cannedReply}
	svc := newTestService(fake)

	_, err := svc.Analyze(context.Background(), AnalyzeRequest{
		FileName:       "resume.pdf",
		MimeType:       "application/pdf",
		Data:           []byte("not a pdf at all"),
		JobDescription: "any role",
	})

	var extractionErr *ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
	if extractionErr.FileName != "resume.pdf" {
		t.Fatalf("fileName = %q", extractionErr.FileName)
	}
	if len(fake.prompts) != 0 {
		t.Fatal("provider must not be called when extraction fails")
	}
}

func TestAnalyzeReusesSession(t *testing.T) {
	fake := &staticLLM{reply: cannedReply}
	svc := newTestService(fake)

	first, err := svc.Analyze(context.Background(), AnalyzeRequest{
		FileName:       "first.txt",
		MimeType:       "text/plain",
		Data:           []byte("first resume"),
		JobDescription: "role one",
	})
	if err != nil {
		t.Fatalf("first Analyze: %v", err)
	}

	second, err := svc.Analyze(context.Background(), AnalyzeRequest{
		SessionID:      first.ID,
		FileName:       "second.txt",
		MimeType:       "text/plain",
		Data:           []byte("second resume"),
		JobDescription: "role two",
	})
	if err != nil {
		t.Fatalf("second Analyze: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("expected reused session id %q, got %q", first.ID, second.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatal("reused session should keep its CreatedAt")
	}
	if second.UpdatedAt.Before(first.UpdatedAt) {
		t.Fatal("UpdatedAt went backwards")
	}
	if svc.Sessions.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", svc.Sessions.Len())
	}

	stored, err := svc.GetSession(context.Background(), first.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if stored.FileName != "second.txt" || stored.JobDescription != "role two" {
		t.Fatalf("session not replaced: %#v", stored)
	}
}

func TestAnalyzeKeepsProvidedSessionID(t *testing.T) {
	fake := &staticLLM{reply: cannedReply}
	svc := newTestService(fake)

	session, err := svc.Analyze(context.Background(), AnalyzeRequest{
		SessionID:      "client-chosen",
		FileName:       "resume.txt",
		MimeType:       "text/plain",
		Data:           []byte("resume text"),
		JobDescription: "any role",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if session.ID != "client-chosen" {
		t.Fatalf("session id = %q", session.ID)
	}
}

func TestResetSession(t *testing.T) {
	fake := &staticLLM{reply: cannedReply}
	svc := newTestService(fake)

	session, err := svc.Analyze(context.Background(), AnalyzeRequest{
		FileName:       "resume.txt",
		MimeType:       "text/plain",
		Data:           []byte("resume text"),
		JobDescription: "any role",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if err := svc.ResetSession(context.Background(), session.ID); err != nil {
		t.Fatalf("ResetSession: %v", err)
	}
	if _, err := svc.GetSession(context.Background(), session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "extraction",
			err:        &ExtractionError{FileName: "r.pdf", Err: errors.New("read pdf: bad xref")},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   ErrorCodeExtraction,
		},
		{
			name:       "configuration",
			err:        &ConfigurationError{Provider: "openrouter"},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   ErrorCodeConfiguration,
		},
		{
			name:       "remote call",
			err:        &RemoteCallError{Prompt: "p", Err: errors.New("openrouter http status 500: boom")},
			wantStatus: http.StatusBadGateway,
			wantCode:   ErrorCodeRemoteCall,
		},
		{
			name:       "remote timeout",
			err:        &RemoteCallError{Prompt: "p", Err: context.DeadlineExceeded},
			wantStatus: http.StatusBadGateway,
			wantCode:   ErrorCodeLLMTimeout,
		},
		{
			name:       "remote timeout by message",
			err:        &RemoteCallError{Prompt: "p", Err: errors.New("openrouter request timeout: Client.Timeout exceeded")},
			wantStatus: http.StatusBadGateway,
			wantCode:   ErrorCodeLLMTimeout,
		},
		{
			name:       "unknown",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   ErrorCodeInternal,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			status, code := classifyFailure(tt.err)
			if status != tt.wantStatus || code != tt.wantCode {
				t.Fatalf("got %d %s, want %d %s", status, code, tt.wantStatus, tt.wantCode)
			}
		})
	}
}

func TestSanitizeError(t *testing.T) {
	err := errors.New("line one\nline two\r\nline three")
	got := sanitizeError(err)
	if strings.ContainsAny(got, "\n\r") {
		t.Fatalf("sanitized message still has newlines: %q", got)
	}

	long := errors.New(strings.Repeat("x", 600))
	if len(sanitizeError(long)) != 500 {
		t.Fatalf("expected 500 char cap, got %d", len(sanitizeError(long)))
	}
}
