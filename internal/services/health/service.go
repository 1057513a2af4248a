package health

// Service reports process liveness and the wired provider.
type Service struct {
	Provider string
	Model    string
}

// NewService constructs a health service for the configured provider.
func NewService(provider, model string) *Service {
	return &Service{Provider: provider, Model: model}
}

// Status returns the health payload. API keys never appear here.
func (s *Service) Status() map[string]any {
	return map[string]any{
		"ok":       true,
		"provider": s.Provider,
		"model":    s.Model,
	}
}
