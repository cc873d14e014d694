package oura

import (
	"context"
	"fmt"
	"time"

	"HealthPull/internal/domain/models"
	drepo "HealthPull/internal/domain/repository"
	"HealthPull/internal/service/ratelimit"
	xhttp "HealthPull/pkg/http"
)

const defaultBaseURL = "https://api.ouraring.com/v2"

// Client implements a HealthSource backed by the Oura API v2.
type Client struct {
	baseURL      string
	accessToken  string
	http         *xhttp.Client
	limiter      *ratelimit.Limiter
	perMinute    float64
	retryBackoff time.Duration
}

type Option func(*Client)

// WithBaseURL overrides the API base URL (tests, proxies).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = xhttp.NewClient(xhttp.WithTimeout(d))
		}
	}
}

// WithRateLimit caps requests per minute across all endpoints.
func WithRateLimit(perMinute int) Option {
	return func(c *Client) {
		if perMinute > 0 {
			c.perMinute = float64(perMinute)
		}
	}
}

// New creates an Oura HealthSource with a personal access token.
func New(accessToken string, opts ...Option) drepo.HealthSource {
	c := &Client{
		baseURL:      defaultBaseURL,
		accessToken:  accessToken,
		http:         xhttp.NewClient(xhttp.WithTimeout(30 * time.Second)),
		limiter:      ratelimit.New(),
		perMinute:    300,
		retryBackoff: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// wait blocks until a token is available for the endpoint or ctx ends.
func (c *Client) wait(ctx context.Context, endpoint string) error {
	for {
		if c.limiter.Allow("oura:"+endpoint, c.perMinute, c.perMinute/60.0) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryBackoff):
		}
	}
}

func (c *Client) get(ctx context.Context, path string, params map[string][]string, dest interface{}) error {
	if err := c.wait(ctx, path); err != nil {
		return err
	}
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + path,
		Headers: map[string]string{
			"Authorization": "Bearer " + c.accessToken,
		},
		QueryParams: params,
	}, dest)
	if err != nil {
		return fmt.Errorf("oura %s: %w", path, err)
	}
	return nil
}

func dateParams(start, end time.Time) map[string][]string {
	return map[string][]string{
		"start_date": {start.Format("2006-01-02")},
		"end_date":   {end.Format("2006-01-02")},
	}
}

// FetchSleep loads daily sleep summaries and enriches them with the main
// nightly session from the detailed sleep endpoint.
func (c *Client) FetchSleep(ctx context.Context, start, end time.Time) ([]models.SleepRecord, error) {
	var daily envelope[dailySleepDTO]
	if err := c.get(ctx, "/usercollection/daily_sleep", dateParams(start, end), &daily); err != nil {
		return nil, err
	}
	var sessions envelope[sleepSessionDTO]
	if err := c.get(ctx, "/usercollection/sleep", dateParams(start, end), &sessions); err != nil {
		return nil, err
	}
	return mergeSleep(daily.Data, sessions.Data), nil
}

func (c *Client) FetchReadiness(ctx context.Context, start, end time.Time) ([]models.ReadinessRecord, error) {
	var resp envelope[dailyReadinessDTO]
	if err := c.get(ctx, "/usercollection/daily_readiness", dateParams(start, end), &resp); err != nil {
		return nil, err
	}
	return toReadiness(resp.Data), nil
}

func (c *Client) FetchActivity(ctx context.Context, start, end time.Time) ([]models.ActivityRecord, error) {
	var resp envelope[dailyActivityDTO]
	if err := c.get(ctx, "/usercollection/daily_activity", dateParams(start, end), &resp); err != nil {
		return nil, err
	}
	return toActivity(resp.Data), nil
}

// PersonalInfo is the only endpoint without the {"data":[...]} envelope.
func (c *Client) PersonalInfo(ctx context.Context) (models.PersonalInfo, error) {
	var dto personalInfoDTO
	if err := c.get(ctx, "/usercollection/personal_info", nil, &dto); err != nil {
		return models.PersonalInfo{}, err
	}
	return models.PersonalInfo{
		Age:           dto.Age,
		WeightKg:      dto.Weight,
		HeightM:       dto.Height,
		BiologicalSex: dto.BiologicalSex,
		Email:         dto.Email,
	}, nil
}
