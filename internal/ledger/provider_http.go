package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/valyala/fasthttp"
)

// HTTPProvider speaks to a wallet-provider node (cmd/walletnode in
// development) over plain JSON.
type HTTPProvider struct {
	baseURL string
	client  *fasthttp.Client
	timeout time.Duration
}

type HTTPProviderConfig struct {
	URL             string
	Timeout         time.Duration
	MaxConns        int
	ReadBufferSize  int
	WriteBufferSize int
}

func NewHTTPProvider(config HTTPProviderConfig) *HTTPProvider {
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Second
	}
	return &HTTPProvider{
		baseURL: config.URL,
		timeout: config.Timeout,
		client: &fasthttp.Client{
			MaxConnsPerHost:     config.MaxConns,
			ReadTimeout:         config.Timeout,
			WriteTimeout:        config.Timeout,
			MaxIdleConnDuration: 60 * time.Second,
			ReadBufferSize:      config.ReadBufferSize,
			WriteBufferSize:     config.WriteBufferSize,
		},
	}
}

func (p *HTTPProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	var resp struct {
		Accounts []string `json:"accounts"`
	}
	if err := p.get(ctx, "/api/v1/accounts", &resp); err != nil {
		return nil, err
	}
	return resp.Accounts, nil
}

func (p *HTTPProvider) ChainID(ctx context.Context) (uint64, error) {
	var resp struct {
		ChainID uint64 `json:"chain_id"`
	}
	if err := p.get(ctx, "/api/v1/chain", &resp); err != nil {
		return 0, err
	}
	return resp.ChainID, nil
}

func (p *HTTPProvider) NativeBalance(ctx context.Context, account string) (*big.Int, error) {
	return p.balance(ctx, fmt.Sprintf("/api/v1/balance/%s", account))
}

func (p *HTTPProvider) TokenBalance(ctx context.Context, token, account string) (*big.Int, error) {
	return p.balance(ctx, fmt.Sprintf("/api/v1/token/%s/balance/%s", token, account))
}

func (p *HTTPProvider) TokenDecimals(ctx context.Context, token string) (uint8, error) {
	meta, err := p.tokenMeta(ctx, token)
	if err != nil {
		return 0, err
	}
	return meta.Decimals, nil
}

func (p *HTTPProvider) TokenSymbol(ctx context.Context, token string) (string, error) {
	meta, err := p.tokenMeta(ctx, token)
	if err != nil {
		return "", err
	}
	return meta.Symbol, nil
}

func (p *HTTPProvider) TokenName(ctx context.Context, token string) (string, error) {
	meta, err := p.tokenMeta(ctx, token)
	if err != nil {
		return "", err
	}
	return meta.Name, nil
}

type tokenMetaResponse struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
}

func (p *HTTPProvider) tokenMeta(ctx context.Context, token string) (*tokenMetaResponse, error) {
	var resp tokenMetaResponse
	if err := p.get(ctx, fmt.Sprintf("/api/v1/token/%s/meta", token), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (p *HTTPProvider) balance(ctx context.Context, path string) (*big.Int, error) {
	var resp struct {
		Balance string `json:"balance"`
	}
	if err := p.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	v, ok := new(big.Int).SetString(resp.Balance, 10)
	if !ok {
		return nil, fmt.Errorf("malformed balance %q", resp.Balance)
	}
	return v, nil
}

func (p *HTTPProvider) get(ctx context.Context, path string, dst any) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(p.baseURL + path)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetContentType("application/json")

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(p.timeout)
	}

	if err := p.client.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("provider request failed: %w", err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return fmt.Errorf("provider returned status %d: %s", resp.StatusCode(), resp.Body())
	}

	return json.Unmarshal(resp.Body(), dst)
}
