package subscription

import (
	"bytes"
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

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/stellarwallet/relay/internal/signature"
)

const subscriptionPath = "/api/subscription"

var ErrUnexpectedStatus = errors.New("notifier: unexpected status")

type ClientConfig struct {
	BaseURL     string
	ReactionURL string
	Timeout     time.Duration
}

type response struct {
	status int
	body   []byte
}

// Client talks to the notifier subscription API. All calls share one
// circuit breaker; 5xx answers and transport errors count as failures.
type Client struct {
	base     string
	reaction string
	http     *http.Client
	signer   *signature.Signer
	breaker  *gobreaker.CircuitBreaker[response]
}

func NewClient(cfg ClientConfig, signer *signature.Signer, hc *http.Client) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if hc == nil {
		hc = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if signer == nil {
		signer, _ = signature.NewSigner("")
	}
	cb := gobreaker.NewCircuitBreaker[response](gobreaker.Settings{
		Name:        "notifier",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})
	return &Client{
		base:     strings.TrimRight(cfg.BaseURL, "/"),
		reaction: cfg.ReactionURL,
		http:     hc,
		signer:   signer,
		breaker:  cb,
	}
}

type subscribeBody struct {
	ReactionURL string `json:"reaction_url"`
	Account     string `json:"account"`
	Nonce       int64  `json:"nonce"`
}

// Subscribe registers account with the notifier. 200 and 201 are success.
func (c *Client) Subscribe(ctx context.Context, account string) error {
	body := subscribeBody{ReactionURL: c.reaction, Account: account, Nonce: c.signer.Nonce()}
	_, headers := c.signer.SignRequest([]signature.Param{
		{Key: "reaction_url", Value: body.ReactionURL},
		{Key: "account", Value: body.Account},
		{Key: "nonce", Value: body.Nonce},
	})
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal subscribe: %w", err)
	}

	resp, err := c.do(ctx, "subscribe", http.MethodPost, c.base+subscriptionPath, raw, headers)
	if err != nil {
		return err
	}
	if resp.status != http.StatusOK && resp.status != http.StatusCreated {
		return fmt.Errorf("%w: subscribe %s: %d %s", ErrUnexpectedStatus, account, resp.status, snippet(resp.body))
	}
	return nil
}

// ListSubscriptions returns the resource ids the notifier watches for us.
func (c *Client) ListSubscriptions(ctx context.Context) ([]string, error) {
	nonce := c.signer.Nonce()
	_, headers := c.signer.SignRequest([]signature.Param{{Key: "nonce", Value: nonce}})
	q := url.Values{"nonce": {strconv.FormatInt(nonce, 10)}}

	resp, err := c.do(ctx, "list", http.MethodGet, c.base+subscriptionPath+"?"+q.Encode(), nil, headers)
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusOK {
		return nil, fmt.Errorf("%w: list: %d %s", ErrUnexpectedStatus, resp.status, snippet(resp.body))
	}
	return parseSubscriptions(resp.body)
}

func (c *Client) do(ctx context.Context, op, method, target string, body []byte, headers http.Header) (response, error) {
	resp, err := c.breaker.Execute(func() (response, error) {
		var rd io.Reader
		if body != nil {
			rd = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, target, rd)
		if err != nil {
			return response{}, err
		}
		for k, v := range headers {
			req.Header[k] = v
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		r, err := c.http.Do(req)
		if err != nil {
			return response{}, err
		}
		defer r.Body.Close()
		b, err := io.ReadAll(io.LimitReader(r.Body, 4<<20))
		if err != nil {
			return response{}, err
		}
		out := response{status: r.StatusCode, body: b}
		if r.StatusCode >= 500 {
			return out, fmt.Errorf("%w: %d", ErrUnexpectedStatus, r.StatusCode)
		}
		return out, nil
	})
	status := "error"
	if resp.status != 0 {
		status = strconv.Itoa(resp.status)
	} else if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		status = "breaker_open"
	}
	mNotifierRequests.WithLabelValues(op, status).Inc()
	if err != nil {
		return resp, fmt.Errorf("notifier %s: %w", op, err)
	}
	return resp, nil
}

type subscriptionItem struct {
	ResourceID string `json:"resource_id"`
}

// parseSubscriptions accepts a bare list or one wrapped under results/data.
func parseSubscriptions(body []byte) ([]string, error) {
	var items []subscriptionItem
	if err := json.Unmarshal(body, &items); err != nil {
		var wrapped struct {
			Results []subscriptionItem `json:"results"`
			Data    []subscriptionItem `json:"data"`
		}
		if err2 := json.Unmarshal(body, &wrapped); err2 != nil {
			return nil, fmt.Errorf("decode subscriptions: %w", err)
		}
		items = wrapped.Results
		if items == nil {
			items = wrapped.Data
		}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it.ResourceID != "" {
			out = append(out, it.ResourceID)
		}
	}
	return out, nil
}

func snippet(b []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(b))
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
