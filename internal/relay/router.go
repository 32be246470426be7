// Package relay routes signed transactions to the chain: either
// straight to an RPC node or through MEV-protected relay endpoints
// with the direct path as fallback.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"solana-swap-engine/internal/domain"
	"solana-swap-engine/internal/solana"
)

// DefaultEndpoints are the block-engine relay endpoints, tried in order.
var DefaultEndpoints = []string{
	"https://mainnet.block-engine.jito.wtf/api/v1/transactions",
	"https://amsterdam.mainnet.block-engine.jito.wtf/api/v1/transactions",
	"https://frankfurt.mainnet.block-engine.jito.wtf/api/v1/transactions",
	"https://ny.mainnet.block-engine.jito.wtf/api/v1/transactions",
	"https://tokyo.mainnet.block-engine.jito.wtf/api/v1/transactions",
}

const (
	// DefaultSendMaxRetries is the node-side resend budget for direct sends.
	DefaultSendMaxRetries = 3

	defaultEndpointTimeout = 5 * time.Second
)

// Submission reports where a transaction ended up.
type Submission struct {
	Signature string
	Route     string // domain.RouteDirect or domain.RouteRelay
}

// Metrics is the router's optional metrics hook.
type Metrics interface {
	RecordSubmission(route string, fellBack bool)
}

// Router submits signed transactions. The protected path walks the
// relay endpoints in order and falls back to the direct path when none
// of them accepts the transaction; callers always get a usable
// signature or an error, never a partial state.
type Router struct {
	rpc             solana.RPCClient
	endpoints       []string
	client          *http.Client
	endpointTimeout time.Duration
	log             logrus.FieldLogger
	metrics         Metrics
}

// Option configures Router.
type Option func(*Router)

// WithEndpoints replaces the relay endpoint list.
func WithEndpoints(endpoints []string) Option {
	return func(r *Router) {
		r.endpoints = endpoints
	}
}

// WithHTTPClient sets a custom http.Client for relay requests.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Router) {
		r.client = client
	}
}

// WithEndpointTimeout bounds each relay endpoint attempt.
func WithEndpointTimeout(d time.Duration) Option {
	return func(r *Router) {
		r.endpointTimeout = d
	}
}

// WithLogger sets the router's logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Router) {
		r.log = log
	}
}

// WithMetrics sets the router's metrics hook.
func WithMetrics(m Metrics) Option {
	return func(r *Router) {
		r.metrics = m
	}
}

// NewRouter creates a Router submitting through rpc on the direct path.
func NewRouter(rpc solana.RPCClient, opts ...Option) *Router {
	r := &Router{
		rpc:             rpc,
		endpoints:       DefaultEndpoints,
		client:          &http.Client{},
		endpointTimeout: defaultEndpointTimeout,
		log:             logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Submit sends a base64-encoded signed transaction. With protected set,
// relay endpoints are tried first; relay failures are not surfaced to
// the caller beyond the route marker on the result.
func (r *Router) Submit(ctx context.Context, txBase64 string, protected bool) (*Submission, error) {
	if protected {
		if sig, ok := r.submitProtected(ctx, txBase64); ok {
			r.record(domain.RouteRelay, false)
			return &Submission{Signature: sig, Route: domain.RouteRelay}, nil
		}
		r.log.Debug("all relay endpoints declined, falling back to direct send")
	}

	sig, err := r.rpc.SendTransaction(ctx, txBase64, &solana.SendOpts{
		SkipPreflight: true,
		MaxRetries:    DefaultSendMaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("direct send: %v: %w", err, domain.ErrSubmission)
	}
	r.record(domain.RouteDirect, protected)
	return &Submission{Signature: sig, Route: domain.RouteDirect}, nil
}

func (r *Router) record(route string, fellBack bool) {
	if r.metrics != nil {
		r.metrics.RecordSubmission(route, fellBack)
	}
}

func (r *Router) submitProtected(ctx context.Context, txBase64 string) (string, bool) {
	for _, endpoint := range r.endpoints {
		if ctx.Err() != nil {
			return "", false
		}

		sig, err := r.sendViaRelay(ctx, endpoint, txBase64)
		if err != nil {
			r.log.WithFields(logrus.Fields{
				"endpoint": endpoint,
				"error":    err,
			}).Debug("relay endpoint failed")
			continue
		}
		return sig, true
	}
	return "", false
}

// relayRequest is the JSON-RPC sendTransaction envelope relays accept.
type relayRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type relayResponse struct {
	Result string `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (r *Router) sendViaRelay(ctx context.Context, endpoint, txBase64 string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.endpointTimeout)
	defer cancel()

	body, err := json.Marshal(relayRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "sendTransaction",
		Params: []interface{}{
			txBase64,
			map[string]interface{}{"encoding": "base64"},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal relay request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("relay request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read relay response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("relay status %d: %s", resp.StatusCode, string(respBody))
	}

	var rr relayResponse
	if err := json.Unmarshal(respBody, &rr); err != nil {
		return "", fmt.Errorf("unmarshal relay response: %w", err)
	}
	if rr.Error != nil {
		return "", fmt.Errorf("relay error %d: %s", rr.Error.Code, rr.Error.Message)
	}
	if rr.Result == "" {
		return "", fmt.Errorf("relay returned no signature")
	}
	return rr.Result, nil
}
