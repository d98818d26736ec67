package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/mkarimz/deduction-gateway/internal/model"
)

var ErrNotFound = errors.New("resource not found")

type Config struct {
	// BaseURL is the API root without the /api path, e.g. http://localhost:8080.
	BaseURL  string
	Timeout  time.Duration
	MaxConns int
}

// Client is the REST client the workflow and dashboard use against the
// gateway API. List reads go through the view cache when one is attached.
type Client struct {
	baseURL string
	timeout time.Duration
	client  *fasthttp.Client
	cache   *ViewCache
}

func New(config Config, cache *ViewCache) *Client {
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	return &Client{
		baseURL: config.BaseURL,
		timeout: config.Timeout,
		cache:   cache,
		client: &fasthttp.Client{
			MaxConnsPerHost:     config.MaxConns,
			ReadTimeout:         config.Timeout,
			WriteTimeout:        config.Timeout,
			MaxIdleConnDuration: 60 * time.Second,
		},
	}
}

func (c *Client) CreateDeduction(ctx context.Context, req model.DeductionCreateRequest) (*model.ScheduledDeduction, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	out, err := c.doRequest(ctx, fasthttp.MethodPost, "/api/deductions", body)
	if err != nil {
		return nil, err
	}
	var ded model.ScheduledDeduction
	if err := json.Unmarshal(out, &ded); err != nil {
		return nil, fmt.Errorf("decode deduction: %w", err)
	}
	return &ded, nil
}

func (c *Client) UpdateDeduction(ctx context.Context, id int64, patch model.DeductionPatch) (*model.ScheduledDeduction, error) {
	body, err := json.Marshal(patch)
	if err != nil {
		return nil, err
	}
	out, err := c.doRequest(ctx, fasthttp.MethodPatch, fmt.Sprintf("/api/deductions/%d", id), body)
	if err != nil {
		return nil, err
	}
	var ded model.ScheduledDeduction
	if err := json.Unmarshal(out, &ded); err != nil {
		return nil, fmt.Errorf("decode deduction: %w", err)
	}
	return &ded, nil
}

func (c *Client) DeleteDeduction(ctx context.Context, id int64) error {
	_, err := c.doRequest(ctx, fasthttp.MethodDelete, fmt.Sprintf("/api/deductions/%d", id), nil)
	return err
}

func (c *Client) CreateTransaction(ctx context.Context, req model.TransactionCreateRequest) (*model.Transaction, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	out, err := c.doRequest(ctx, fasthttp.MethodPost, "/api/transactions", body)
	if err != nil {
		return nil, err
	}
	var tx model.Transaction
	if err := json.Unmarshal(out, &tx); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	return &tx, nil
}

// ListDeductions reads the wallet's deductions, serving from the view cache
// when possible and populating it on a miss.
func (c *Client) ListDeductions(ctx context.Context, walletAddress string) ([]*model.ScheduledDeduction, error) {
	if c.cache != nil {
		if body := c.cache.GetDeductions(walletAddress); body != nil {
			var out []*model.ScheduledDeduction
			if err := json.Unmarshal(body, &out); err == nil {
				return out, nil
			}
		}
	}

	body, err := c.doRequest(ctx, fasthttp.MethodGet, "/api/deductions/"+walletAddress, nil)
	if err != nil {
		return nil, err
	}
	var out []*model.ScheduledDeduction
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode deductions: %w", err)
	}
	if c.cache != nil {
		c.cache.SetDeductions(walletAddress, body)
	}
	return out, nil
}

func (c *Client) ListTransactions(ctx context.Context, walletAddress string) ([]*model.Transaction, error) {
	if c.cache != nil {
		if body := c.cache.GetTransactions(walletAddress); body != nil {
			var out []*model.Transaction
			if err := json.Unmarshal(body, &out); err == nil {
				return out, nil
			}
		}
	}

	body, err := c.doRequest(ctx, fasthttp.MethodGet, "/api/transactions/"+walletAddress, nil)
	if err != nil {
		return nil, err
	}
	var out []*model.Transaction
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	if c.cache != nil {
		c.cache.SetTransactions(walletAddress, body)
	}
	return out, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.SetContentType("application/json")
	if body != nil {
		req.SetBody(body)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}

	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("api request failed: %w", err)
	}

	statusCode := resp.StatusCode()
	switch {
	case statusCode == fasthttp.StatusNotFound:
		return nil, ErrNotFound
	case statusCode < 200 || statusCode > 299:
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", statusCode, resp.Body())
	}

	result := make([]byte, len(resp.Body()))
	copy(result, resp.Body())
	return result, nil
}
