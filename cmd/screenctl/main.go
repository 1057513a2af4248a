package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"screener-backend/internal/analyses"
	"screener-backend/internal/extract"
	"screener-backend/internal/llm"
	"screener-backend/internal/llm/gemini"
	"screener-backend/internal/llm/openrouter"
	"screener-backend/internal/shared/config"
)

// screenctl runs one screening from the command line: extract, prompt,
// provider call, parse. Useful for trying prompt changes without the server.
func main() {
	cfg := config.Load()

	resumePath := flag.String("resume", "", "Path to resume file (pdf, docx or txt)")
	jdText := flag.String("jd", "", "Job description text")
	jdPath := flag.String("jd-file", "", "Path to job description file (overrides -jd)")
	provider := flag.String("provider", cfg.LLMProvider, "LLM provider (openrouter or gemini)")
	model := flag.String("model", cfg.LLMModel, "LLM model")
	outPath := flag.String("out", "", "Path to write JSON output (optional)")
	flag.Parse()

	if strings.TrimSpace(*resumePath) == "" {
		exitErr("resume path is required")
	}

	jobDescription := strings.TrimSpace(*jdText)
	if strings.TrimSpace(*jdPath) != "" {
		jdBytes, err := os.ReadFile(*jdPath)
		if err != nil {
			exitErr(fmt.Sprintf("read job description: %v", err))
		}
		jobDescription = strings.TrimSpace(string(jdBytes))
	}
	if jobDescription == "" {
		exitErr("job description is required (use -jd or -jd-file)")
	}

	mimeType, err := extract.MimeFromName(*resumePath)
	if err != nil {
		exitErr(err.Error())
	}

	resumeBytes, err := os.ReadFile(*resumePath)
	if err != nil {
		exitErr(fmt.Sprintf("read resume: %v", err))
	}
	fileName := filepath.Base(*resumePath)

	pages, err := extract.Pages(resumeBytes, mimeType, fileName)
	if err != nil {
		exitErr(fmt.Sprintf("extract resume text: %v", err))
	}
	excerpt := extract.Excerpt(pages, cfg.MaxExcerptChars)

	client, err := buildClient(*provider, *model, cfg.LLMTimeoutSeconds)
	if err != nil {
		exitErr(err.Error())
	}

	prompt := llm.BuildPrompt(jobDescription, excerpt)

	reply, err := client.Complete(context.Background(), prompt)
	if err != nil {
		exitErr(fmt.Sprintf("llm call: %v", err))
	}

	result := analyses.Parse(reply)

	raw, err := json.Marshal(map[string]any{
		"fileName": fileName,
		"provider": strings.TrimSpace(*provider),
		"model":    strings.TrimSpace(*model),
		"result":   result,
	})
	if err != nil {
		exitErr(fmt.Sprintf("encode result: %v", err))
	}

	pretty, err := prettyJSON(raw)
	if err != nil {
		exitErr(fmt.Sprintf("format json: %v", err))
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, pretty, 0o644); err != nil {
			exitErr(fmt.Sprintf("write output: %v", err))
		}
	}

	if _, err := os.Stdout.Write(pretty); err != nil {
		exitErr(fmt.Sprintf("write stdout: %v", err))
	}
	if len(pretty) == 0 || pretty[len(pretty)-1] != '\n' {
		_, _ = os.Stdout.Write([]byte("\n"))
	}
}

// buildClient requires a real API key: unlike the server, a CLI run with no
// provider configured has nothing useful to do.
func buildClient(provider, model string, timeoutSeconds int) (llm.Client, error) {
	timeout := time.Duration(timeoutSeconds) * time.Second
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", "openrouter":
		apiKey := strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY"))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENROUTER_API_KEY is not set")
		}
		return openrouter.NewClient(apiKey, model, timeout)
	case "gemini":
		apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
		if apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is not set")
		}
		return gemini.NewClient(context.Background(), apiKey, model, timeout)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func prettyJSON(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
