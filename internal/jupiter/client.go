// Package jupiter is a client for the Jupiter v6 aggregator API: quote
// lookup and swap transaction building.
package jupiter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"solana-swap-engine/internal/domain"
)

// DefaultBaseURL is the public Jupiter v6 quote API.
const DefaultBaseURL = "https://quote-api.jup.ag/v6"

const defaultTimeout = 15 * time.Second

// Client talks to the Jupiter aggregator.
type Client struct {
	baseURL string
	client  *http.Client
}

// Option configures Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// NewClient creates a Jupiter API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// quoteResponse is the subset of the v6 quote payload the engine reads.
// The full raw body is carried along because the swap endpoint wants it
// back verbatim.
type quoteResponse struct {
	InputMint      string          `json:"inputMint"`
	InAmount       string          `json:"inAmount"`
	OutputMint     string          `json:"outputMint"`
	OutAmount      string          `json:"outAmount"`
	PriceImpactPct string          `json:"priceImpactPct"`
	RoutePlan      json.RawMessage `json:"routePlan"`
}

// apiError is the error shape Jupiter returns with non-200 statuses.
type apiError struct {
	Error     string `json:"error"`
	ErrorCode string `json:"errorCode"`
}

// Quote asks for the best route swapping amount of inputMint into
// outputMint. A missing route maps to domain.ErrNoLiquidity.
func (c *Client) Quote(ctx context.Context, inputMint, outputMint string, amount uint64, slippageBps int) (*domain.Quote, error) {
	q := url.Values{}
	q.Set("inputMint", inputMint)
	q.Set("outputMint", outputMint)
	q.Set("amount", strconv.FormatUint(amount, 10))
	q.Set("slippageBps", strconv.Itoa(slippageBps))

	endpoint := c.baseURL + "/quote?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create quote request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote request: %v: %w", err, domain.ErrNetwork)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read quote response: %v: %w", err, domain.ErrNetwork)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && isNoRouteCode(apiErr.ErrorCode) {
			return nil, fmt.Errorf("no route %s -> %s: %w", inputMint, outputMint, domain.ErrNoLiquidity)
		}
		return nil, fmt.Errorf("quote status %d: %s: %w", resp.StatusCode, string(body), domain.ErrNetwork)
	}

	var qr quoteResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return nil, fmt.Errorf("unmarshal quote: %w", err)
	}
	if len(qr.RoutePlan) == 0 || string(qr.RoutePlan) == "null" || string(qr.RoutePlan) == "[]" {
		return nil, fmt.Errorf("empty route %s -> %s: %w", inputMint, outputMint, domain.ErrNoLiquidity)
	}

	inAmount, err := strconv.ParseUint(qr.InAmount, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse inAmount %q: %w", qr.InAmount, err)
	}
	outAmount, err := strconv.ParseUint(qr.OutAmount, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse outAmount %q: %w", qr.OutAmount, err)
	}

	// Jupiter reports impact as a fraction, e.g. "0.0153" for 1.53%.
	impact := 0.0
	if qr.PriceImpactPct != "" {
		impact, err = strconv.ParseFloat(qr.PriceImpactPct, 64)
		if err != nil {
			return nil, fmt.Errorf("parse priceImpactPct %q: %w", qr.PriceImpactPct, err)
		}
	}

	return &domain.Quote{
		InputMint:   qr.InputMint,
		OutputMint:  qr.OutputMint,
		InAmount:    inAmount,
		OutAmount:   outAmount,
		PriceImpact: impact,
		Raw:         json.RawMessage(body),
	}, nil
}

func isNoRouteCode(code string) bool {
	switch code {
	case "COULD_NOT_FIND_ANY_ROUTE", "TOKEN_NOT_TRADABLE", "ROUTE_PLAN_DOES_NOT_CONSUME_ALL_THE_AMOUNT":
		return true
	}
	return false
}

// swapRequest is the v6 /swap payload.
type swapRequest struct {
	QuoteResponse             json.RawMessage `json:"quoteResponse"`
	UserPublicKey             string          `json:"userPublicKey"`
	WrapAndUnwrapSol          bool            `json:"wrapAndUnwrapSol"`
	DynamicComputeUnitLimit   bool            `json:"dynamicComputeUnitLimit"`
	PrioritizationFeeLamports uint64          `json:"prioritizationFeeLamports"`
}

type swapResponse struct {
	SwapTransaction string `json:"swapTransaction"`
}

// BuildSwap turns a quote into an unsigned base64 transaction for
// userPublicKey. The quote's raw body is sent back to Jupiter exactly
// as received, so a quote can only build the swap it priced.
func (c *Client) BuildSwap(ctx context.Context, quote *domain.Quote, userPublicKey string, priorityFeeLamports uint64) (string, error) {
	if quote == nil || len(quote.Raw) == 0 {
		return "", fmt.Errorf("quote has no raw route: %w", domain.ErrValidation)
	}

	payload, err := json.Marshal(swapRequest{
		QuoteResponse:             quote.Raw,
		UserPublicKey:             userPublicKey,
		WrapAndUnwrapSol:          true,
		DynamicComputeUnitLimit:   true,
		PrioritizationFeeLamports: priorityFeeLamports,
	})
	if err != nil {
		return "", fmt.Errorf("marshal swap request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/swap", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create swap request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("swap request: %v: %w", err, domain.ErrNetwork)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read swap response: %v: %w", err, domain.ErrNetwork)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("swap status %d: %s: %w", resp.StatusCode, string(body), domain.ErrNetwork)
	}

	var sr swapResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return "", fmt.Errorf("unmarshal swap response: %w", err)
	}
	if sr.SwapTransaction == "" {
		return "", fmt.Errorf("swap response missing transaction: %w", domain.ErrNetwork)
	}
	return sr.SwapTransaction, nil
}
