package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"job-wizard-be/internal/pkg/logger"
	"job-wizard-be/internal/repository/memory"
	"job-wizard-be/pkg/llm"
)

const maxSuggestions = 8

const suggestionPrompt = `You are a job search assistant. The user describes the job they are looking for in free text. Respond with a JSON array of at most %d short search keywords (job titles, skills, technologies) that would find matching vacancies. Respond with the JSON array only, no prose.

User description: %s`

type ISuggestionService interface {
	Suggest(ctx context.Context, freeText string) ([]string, error)
}

type suggestionService struct {
	provider llm.LLMProvider
	cache    *memory.SuggestionCache
	logger   logger.ILogger
}

func NewSuggestionService(provider llm.LLMProvider, cache *memory.SuggestionCache, log logger.ILogger) ISuggestionService {
	return &suggestionService{
		provider: provider,
		cache:    cache,
		logger:   log,
	}
}

// Suggest asks the model for search keywords matching the free text.
// Repeated queries for the same normalized text hit the memo cache.
func (s *suggestionService) Suggest(ctx context.Context, freeText string) ([]string, error) {
	freeText = strings.TrimSpace(freeText)
	if freeText == "" {
		return nil, nil
	}

	if cached, found := s.cache.Get(freeText); found {
		return cached, nil
	}

	prompt := fmt.Sprintf(suggestionPrompt, maxSuggestions, freeText)
	raw, err := s.provider.Generate(ctx, prompt, llm.WithTemperature(0.2), llm.WithMaxTokens(256))
	if err != nil {
		return nil, err
	}

	keywords := parseSuggestions(raw)
	if len(keywords) == 0 {
		s.logger.Warn("SuggestionService", "Model returned no parseable keywords", map[string]interface{}{
			"raw": raw,
		})
		return nil, nil
	}

	s.cache.Save(freeText, keywords)
	return keywords, nil
}

// parseSuggestions extracts the JSON array from the model output. Models
// occasionally wrap the array in code fences or prose; we cut to the
// outermost brackets before unmarshalling.
func parseSuggestions(raw string) []string {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return nil
	}

	var items []string
	if err := json.Unmarshal([]byte(raw[start:end+1]), &items); err != nil {
		return nil
	}

	out := make([]string, 0, maxSuggestions)
	seen := make(map[string]bool)
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
