package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestPlaceholderClientNotConfigured(t *testing.T) {
	_, err := PlaceholderClient{}.Complete(context.Background(), "any prompt")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestBuildPromptSubstitutesInputs(t *testing.T) {
	prompt := BuildPrompt("Senior Go engineer, Kubernetes required.", "Built Go services at Acme.")

	if !strings.Contains(prompt, "You are a resume screening assistant.") {
		t.Fatal("prompt missing preamble")
	}
	if !strings.Contains(prompt, "Senior Go engineer, Kubernetes required.") {
		t.Fatal("prompt missing job description")
	}
	if !strings.Contains(prompt, "Built Go services at Acme.") {
		t.Fatal("prompt missing resume excerpt")
	}
	if strings.Contains(prompt, "{{") {
		t.Fatalf("prompt has unexpanded placeholders:\n%s", prompt)
	}
}

func TestBuildPromptAsksForScoreBeforeSkills(t *testing.T) {
	prompt := BuildPrompt("jd", "resume")

	scoreIdx := strings.Index(prompt, "Score:")
	skillsIdx := strings.Index(prompt, "Missing Skills:")
	suggestionsIdx := strings.Index(prompt, "Suggestions:")
	if scoreIdx == -1 || skillsIdx == -1 || suggestionsIdx == -1 {
		t.Fatalf("prompt missing layout headers:\n%s", prompt)
	}
	if !(scoreIdx < skillsIdx && skillsIdx < suggestionsIdx) {
		t.Fatal("layout headers out of order")
	}
}
