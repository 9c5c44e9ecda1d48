// Package jobsearch queries the Adzuna job board for postings.
package jobsearch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/hyperjump/talentmatch/internal/keyword"
	"github.com/hyperjump/talentmatch/internal/models"
	"github.com/hyperjump/talentmatch/pkg/utils"
)

// ErrNotConfigured is returned when the client has no credentials.
var ErrNotConfigured = errors.New("job search credentials not configured")

// APIError is a non-2xx response from the job board.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("adzuna: status %d: %s", e.Status, e.Body)
}

// Example is one job returned by a search.
type Example struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
	Location    string `json:"location"`
	Company     string `json:"company,omitempty"`
}

// Posting converts the example for matching. The summary is the title followed
// by the description.
func (e Example) Posting() models.JobPosting {
	return models.JobPosting{
		ID:       e.ID,
		Title:    e.Title,
		Summary:  utils.JoinNonEmpty(". ", e.Title, e.Description),
		Location: e.Location,
		Company:  e.Company,
		URL:      e.URL,
	}
}

// Result is the outcome of a search. Count is the board's total hit count,
// which may exceed len(Examples).
type Result struct {
	Count    int       `json:"count"`
	Examples []Example `json:"examples"`
}

// Postings converts every example.
func (r *Result) Postings() []models.JobPosting {
	out := make([]models.JobPosting, len(r.Examples))
	for i, e := range r.Examples {
		out[i] = e.Posting()
	}
	return out
}

// Config holds client settings.
type Config struct {
	BaseURL        string
	AppID          string
	AppKey         string
	Country        string
	ResultsPerPage int
	MaxKeywords    int
	Timeout        time.Duration
	MaxRetries     int
}

// Client is an Adzuna search API client.
type Client struct {
	http *resty.Client
	cfg  Config
}

// NewClient creates a client. Missing values take the public API defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.adzuna.com"
	}
	if cfg.Country == "" {
		cfg.Country = "us"
	}
	if cfg.ResultsPerPage <= 0 {
		cfg.ResultsPerPage = 20
	}
	if cfg.MaxKeywords <= 0 {
		cfg.MaxKeywords = 10
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)
	client.AddRetryCondition(retryCondition)
	return &Client{http: client, cfg: cfg}
}

func retryCondition(resp *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	code := resp.StatusCode()
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// Configured reports whether credentials are set.
func (c *Client) Configured() bool {
	return c.cfg.AppID != "" && c.cfg.AppKey != ""
}

// QueryJobs searches for jobs matching keywords near location. keywords is
// cleaned to at most MaxKeywords words. maxResults <= 0 uses ResultsPerPage.
func (c *Client) QueryJobs(ctx context.Context, keywords, location string, maxResults int) (*Result, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if maxResults <= 0 {
		maxResults = c.cfg.ResultsPerPage
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("country", c.cfg.Country).
		SetQueryParams(map[string]string{
			"app_id":           c.cfg.AppID,
			"app_key":          c.cfg.AppKey,
			"what":             keyword.CleanSearchKeywords(keywords, c.cfg.MaxKeywords),
			"where":            strings.TrimSpace(location),
			"results_per_page": strconv.Itoa(maxResults),
			"content-type":     "application/json",
		}).
		Get("/v1/api/jobs/{country}/search/1")
	if err != nil {
		return nil, fmt.Errorf("adzuna request: %w", err)
	}
	if resp.IsError() {
		body := resp.String()
		if len(body) > 200 {
			body = body[:200]
		}
		return nil, &APIError{Status: resp.StatusCode(), Body: body}
	}
	return parseResult(resp.Body())
}

func parseResult(body []byte) (*Result, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("adzuna: invalid JSON response")
	}
	doc := gjson.ParseBytes(body)
	res := &Result{Count: int(doc.Get("count").Int())}
	doc.Get("results").ForEach(func(_, job gjson.Result) bool {
		res.Examples = append(res.Examples, Example{
			ID:          job.Get("id").String(),
			Title:       strings.TrimSpace(job.Get("title").String()),
			Description: strings.TrimSpace(job.Get("description").String()),
			URL:         job.Get("redirect_url").String(),
			Location:    job.Get("location.display_name").String(),
			Company:     job.Get("company.display_name").String(),
		})
		return true
	})
	return res, nil
}
