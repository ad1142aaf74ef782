package service

import (
	"context"
	"errors"
	"strings"

	"job-wizard-be/internal/pkg/logger"
	"job-wizard-be/internal/repository/memory"
	"job-wizard-be/pkg/hh"
	"job-wizard-be/pkg/wizard"

	"github.com/gofiber/fiber/v2"
)

const searchPageSize = 20

type IVacancyService interface {
	Search(ctx context.Context, state wizard.State, page int) (*hh.SearchResult, bool, error)
}

type vacancyService struct {
	client *hh.Client
	cache  *memory.QueryCache
	logger logger.ILogger
}

func NewVacancyService(client *hh.Client, cache *memory.QueryCache, log logger.ILogger) IVacancyService {
	return &vacancyService{
		client: client,
		cache:  cache,
		logger: log,
	}
}

// Search fetches one page of listings for the session's current search
// signature. The second return reports a cache hit.
func (s *vacancyService) Search(ctx context.Context, state wizard.State, page int) (*hh.SearchResult, bool, error) {
	sigHash := wizard.SignatureHash(state.SearchSignature)

	if cached, found := s.cache.Get(sigHash, page); found {
		return cached, true, nil
	}

	query := buildQuery(state, page)
	result, err := s.client.Search(ctx, query)
	if err != nil {
		var upstream *hh.UpstreamError
		if errors.As(err, &upstream) {
			s.logger.Warn("VacancyService", "Upstream search failed", map[string]interface{}{
				"status":    upstream.StatusCode,
				"transient": upstream.Transient(),
			})
			status := fiber.StatusBadGateway
			if upstream.StatusCode == fiber.StatusTooManyRequests {
				status = fiber.StatusTooManyRequests
			}
			return nil, false, fiber.NewError(status, "job board search failed, try again")
		}
		return nil, false, err
	}

	s.cache.Save(sigHash, page, result)
	return result, false, nil
}

// buildQuery maps the canonical keywords and filter config onto the
// upstream query params. Disabled dimensions are omitted entirely.
func buildQuery(state wizard.State, page int) hh.SearchQuery {
	text := strings.Join(state.CanonicalKeywords, " OR ")
	if state.Filters.ExactPhrase && len(state.CanonicalKeywords) == 1 {
		text = "\"" + state.CanonicalKeywords[0] + "\""
	}
	if state.Filters.SearchInTitle && text != "" {
		text = "NAME:(" + text + ")"
	}

	q := hh.SearchQuery{
		Text:    text,
		Page:    page,
		PerPage: searchPageSize,
	}

	f := state.Filters
	if f.Location.Enabled {
		q.Area = f.Location.Value
	}
	if f.Experience.Enabled {
		q.Experience = f.Experience.Value
	}
	if f.Employment.Enabled {
		q.Employment = f.Employment.Values
	}
	if f.Schedule.Enabled {
		q.Schedule = f.Schedule.Values
	}
	if f.Salary.Enabled {
		q.Salary = f.Salary.Amount
		q.OnlyWithSalary = f.Salary.OnlyWithSalary
	}
	if f.Metro.Enabled {
		q.Metro = f.Metro.Value
	}
	if f.Labels.Enabled {
		q.Labels = f.Labels.Values
	}
	if f.Education.Enabled {
		q.Education = f.Education.Value
	}
	if f.WorkFormat.Enabled {
		q.WorkFormat = f.WorkFormat.Values
	}
	if f.Ordering.Enabled && f.Ordering.Value != "relevance" {
		q.OrderBy = f.Ordering.Value
	}
	return q
}

// ToVacancies projects upstream items into the wizard's persisted shape.
func ToVacancies(items []hh.VacancyItem) []wizard.Vacancy {
	out := make([]wizard.Vacancy, len(items))
	for i, item := range items {
		out[i] = wizard.Vacancy{
			ID:          item.ID,
			Title:       item.Name,
			Employer:    item.Employer.Name,
			Area:        item.Area.Name,
			Salary:      item.SalaryString(),
			URL:         item.AlternateURL,
			PublishedAt: item.PublishedAt,
		}
	}
	return out
}
