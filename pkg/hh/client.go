package hh

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks to the HeadHunter-compatible vacancy API. Search errors are
// classified so the service layer can tell retryable upstream conditions
// from hard failures.
type Client struct {
	BaseURL   string
	UserAgent string
	HTTP      *http.Client
}

func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		UserAgent: userAgent,
		HTTP:      &http.Client{Timeout: timeout},
	}
}

// UpstreamError is a non-2xx answer from the job board. Transient reports
// whether the caller may retry (rate limiting, upstream 5xx).
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("job board error: status %d, body: %s", e.StatusCode, e.Body)
}

func (e *UpstreamError) Transient() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// SearchQuery is the subset of vacancy search parameters the wizard uses.
type SearchQuery struct {
	Text           string
	Area           string
	Experience     string
	Employment     []string
	Schedule       []string
	Salary         int
	OnlyWithSalary bool
	Metro          string
	Labels         []string
	Education      string
	WorkFormat     []string
	OrderBy        string
	Page           int
	PerPage        int
}

// --- Response structs (wire format) ---

type searchResponse struct {
	Items   []VacancyItem `json:"items"`
	Found   int           `json:"found"`
	Pages   int           `json:"pages"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
}

type VacancyItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Employer struct {
		Name string `json:"name"`
	} `json:"employer"`
	Area struct {
		Name string `json:"name"`
	} `json:"area"`
	Salary *struct {
		From     *int   `json:"from"`
		To       *int   `json:"to"`
		Currency string `json:"currency"`
	} `json:"salary"`
	AlternateURL string `json:"alternate_url"`
	PublishedAt  string `json:"published_at"`
}

// SalaryString flattens the salary block for display and persistence.
func (v VacancyItem) SalaryString() string {
	if v.Salary == nil {
		return ""
	}
	var parts []string
	if v.Salary.From != nil {
		parts = append(parts, "from "+strconv.Itoa(*v.Salary.From))
	}
	if v.Salary.To != nil {
		parts = append(parts, "to "+strconv.Itoa(*v.Salary.To))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " ") + " " + v.Salary.Currency
}

// SearchResult is the parsed answer of a vacancy search.
type SearchResult struct {
	Items []VacancyItem
	Found int
	Pages int
	Page  int
}

// Search runs a vacancy search against the upstream board.
func (c *Client) Search(ctx context.Context, q SearchQuery) (*SearchResult, error) {
	params := url.Values{}
	params.Set("text", q.Text)
	if q.Area != "" {
		params.Set("area", q.Area)
	}
	if q.Experience != "" {
		params.Set("experience", q.Experience)
	}
	for _, e := range q.Employment {
		params.Add("employment", e)
	}
	for _, s := range q.Schedule {
		params.Add("schedule", s)
	}
	if q.Salary > 0 {
		params.Set("salary", strconv.Itoa(q.Salary))
		if q.OnlyWithSalary {
			params.Set("only_with_salary", "true")
		}
	}
	if q.Metro != "" {
		params.Set("metro", q.Metro)
	}
	for _, l := range q.Labels {
		params.Add("label", l)
	}
	if q.Education != "" {
		params.Set("education", q.Education)
	}
	for _, w := range q.WorkFormat {
		params.Add("work_format", w)
	}
	if q.OrderBy != "" {
		params.Set("order_by", q.OrderBy)
	}
	params.Set("page", strconv.Itoa(q.Page))
	perPage := q.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	params.Set("per_page", strconv.Itoa(perPage))

	body, err := c.get(ctx, "/vacancies?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal search response: %w", err)
	}

	return &SearchResult{
		Items: parsed.Items,
		Found: parsed.Found,
		Pages: parsed.Pages,
		Page:  parsed.Page,
	}, nil
}

// Dictionaries fetches the upstream reference data (experience levels,
// employment types, etc). The wizard uses it to validate filter values.
func (c *Client) Dictionaries(ctx context.Context) (map[string]json.RawMessage, error) {
	body, err := c.get(ctx, "/dictionaries")
	if err != nil {
		return nil, err
	}

	var dicts map[string]json.RawMessage
	if err := json.Unmarshal(body, &dicts); err != nil {
		return nil, fmt.Errorf("unmarshal dictionaries: %w", err)
	}
	return dicts, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("job board request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
