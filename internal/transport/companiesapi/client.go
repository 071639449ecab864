// Package companiesapi is the HTTP client of the company search API.
package companiesapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/compdex/internal/domain"
	"github.com/kailas-cloud/compdex/internal/domain/company"
	"github.com/kailas-cloud/compdex/internal/domain/search/request"
	"github.com/kailas-cloud/compdex/internal/domain/search/result"
	"github.com/kailas-cloud/compdex/internal/metrics"
)

// DefaultBaseURL is the public companies search endpoint.
const DefaultBaseURL = "https://api.thecompaniesapi.com/v1/companies"

// maxErrorBody caps how much of a failed response is read for logging.
const maxErrorBody = 4 << 10

// Config holds the API client settings.
type Config struct {
	BaseURL string
	// Timeout bounds one call; zero leaves the call unbounded.
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client fetches one page of companies per call. It never retries.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates an API client.
func NewClient(cfg *Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{baseURL: baseURL, http: hc, logger: logger}
}

// wire mirrors the JSON body of a successful response.
type wire struct {
	Meta struct {
		Total int `json:"total"`
	} `json:"meta"`
	Companies []company.Record `json:"companies"`
}

// Fetch issues GET baseURL?query=..&size=..&page=.. with a Basic token.
// Any non-2xx status, network failure or undecodable body is a *domain.TransportError.
// An empty page is returned as is; classification belongs to the caller.
func (c *Client) Fetch(ctx context.Context, token string, req request.Request) (result.Page, error) {
	u, err := c.buildURL(req)
	if err != nil {
		return result.Page{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return result.Page{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Basic "+token)
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.observe("error", "network", start)
		return result.Page{}, &domain.TransportError{Reason: networkReason(err)}
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.observe("error", "http_status", start)
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("Company API returned an error status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return result.Page{}, &domain.TransportError{StatusCode: resp.StatusCode, Reason: reason(resp)}
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var w wire
	if err := dec.Decode(&w); err != nil {
		c.observe("error", "decode", start)
		return result.Page{}, &domain.TransportError{
			StatusCode: resp.StatusCode,
			Reason:     "malformed response body: " + err.Error(),
		}
	}

	c.observe("success", "", start)
	c.logger.Debug("Company API page fetched",
		zap.Int("total", w.Meta.Total),
		zap.Int("returned", len(w.Companies)),
		zap.Int("page", req.Page()),
		zap.Duration("duration", time.Since(start)),
	)

	return result.Page{Total: w.Meta.Total, Companies: w.Companies}, nil
}

func (c *Client) buildURL(req request.Request) (string, error) {
	q, err := req.Query()
	if err != nil {
		return "", fmt.Errorf("encode query: %w", err)
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}

	values := u.Query()
	params := []struct {
		name  string
		value any
	}{
		{"query", q},
		{"size", req.Size()},
		{"page", req.Page()},
	}
	for _, p := range params {
		frag, err := runtime.StyleParamWithLocation("form", true, p.name, runtime.ParamLocationQuery, p.value)
		if err != nil {
			return "", fmt.Errorf("invalid format for parameter %s: %w", p.name, err)
		}
		parsed, err := url.ParseQuery(frag)
		if err != nil {
			return "", fmt.Errorf("parse parameter %s: %w", p.name, err)
		}
		for k, vs := range parsed {
			for _, v := range vs {
				values.Add(k, v)
			}
		}
	}
	u.RawQuery = values.Encode()
	return u.String(), nil
}

func (c *Client) observe(status, errType string, start time.Time) {
	metrics.APIRequestsTotal.WithLabelValues(status).Inc()
	metrics.APIRequestDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	if errType != "" {
		metrics.APIErrorsTotal.WithLabelValues(errType).Inc()
	}
}

// reason returns the status phrase of resp, e.g. "Not Found".
func reason(resp *http.Response) string {
	code := strconv.Itoa(resp.StatusCode)
	if phrase := strings.TrimSpace(strings.TrimPrefix(resp.Status, code)); phrase != "" {
		return phrase
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return "unknown status"
}

func networkReason(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out"
	}
	if errors.Is(err, context.Canceled) {
		return "request canceled"
	}
	return err.Error()
}
