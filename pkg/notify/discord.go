package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
	"golang.org/x/time/rate"

	"github.com/umputun/espiscope/pkg/domain"
)

// discord limits message content to 2000 characters
const discordMaxContent = 2000

// Discord posts messages to a channel with bot token, pins and unpins them
type Discord struct {
	client    *http.Client
	apiURL    string
	token     string
	channelID string
	limiter   *rate.Limiter
	baseDelay time.Duration
}

// DiscordParams defines discord notifier parameters
type DiscordParams struct {
	APIURL    string
	Token     string
	ChannelID string
	Timeout   time.Duration
	Rate      float64 // requests per second
}

// APIError is a non-retryable discord response
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("discord api error %d: %s", e.StatusCode, e.Message)
}

// retryableError is 429 or 5xx response, repeated by call
type retryableError struct {
	statusCode int
	retryAfter time.Duration
	err        error
}

func (e *retryableError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("discord api request: %v", e.err)
	}
	return fmt.Sprintf("discord api status %d, retry after %v", e.statusCode, e.retryAfter)
}

// NewDiscord makes discord notifier
func NewDiscord(p DiscordParams) *Discord {
	if p.Timeout <= 0 {
		p.Timeout = 10 * time.Second
	}
	if p.Rate <= 0 {
		p.Rate = 1
	}
	return &Discord{
		client:    &http.Client{Timeout: p.Timeout},
		apiURL:    strings.TrimSuffix(p.APIURL, "/"),
		token:     p.Token,
		channelID: p.ChannelID,
		limiter:   rate.NewLimiter(rate.Limit(p.Rate), 1),
		baseDelay: 500 * time.Millisecond,
	}
}

// Send posts message and pins it if requested. Failed pin is logged and reported with Pinned=false,
// the message itself is delivered at this point.
func (d *Discord) Send(ctx context.Context, msg Message) (domain.MessageRef, error) {
	var created struct {
		ID string `json:"id"`
	}
	body := map[string]any{"content": truncateRunes(msg.Text, discordMaxContent)}
	if err := d.call(ctx, http.MethodPost, "/channels/"+d.channelID+"/messages", body, &created); err != nil {
		return domain.MessageRef{}, fmt.Errorf("%w: post message: %w", domain.ErrDeliveryFailed, err)
	}

	ref := domain.MessageRef{Content: msg.Text, ID: domain.MessageID(created.ID)}
	if !msg.Pin {
		return ref, nil
	}
	if err := d.call(ctx, http.MethodPut, "/channels/"+d.channelID+"/pins/"+created.ID, nil, nil); err != nil {
		lgr.Printf("[WARN] can't pin discord message %s: %v", created.ID, err)
		return ref, nil
	}
	ref.Pinned = true
	return ref, nil
}

// Unpin removes pin from the message, unknown message is not an error
func (d *Discord) Unpin(ctx context.Context, ref domain.MessageRef) error {
	err := d.call(ctx, http.MethodDelete, "/channels/"+d.channelID+"/pins/"+string(ref.ID), nil, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("unpin message %s: %w", ref.ID, err)
	}
	return nil
}

// String for logs
func (d *Discord) String() string { return "discord channel " + d.channelID }

// call makes rate-limited api request, retrying on 429 and 5xx responses
func (d *Discord) call(ctx context.Context, method, path string, in, out any) error {
	var permanent error
	retrier := repeater.NewBackoff(3, d.baseDelay, repeater.WithMaxDelay(10*time.Second))
	err := retrier.Do(ctx, func() error {
		err := d.do(ctx, method, path, in, out)
		var re *retryableError
		if errors.As(err, &re) {
			if re.retryAfter > 0 {
				select {
				case <-time.After(re.retryAfter):
				case <-ctx.Done():
					permanent = ctx.Err()
					return nil
				}
			}
			return err
		}
		permanent = err // nil or non-retryable, stop repeating
		return nil
	})
	if permanent != nil {
		return permanent
	}
	return err
}

func (d *Discord) do(ctx context.Context, method, path string, in, out any) error {
	if err := d.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var body io.Reader = http.NoBody
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, d.apiURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+d.token)
	req.Header.Set("User-Agent", "DiscordBot (https://github.com/umputun/espiscope, 1.0)")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return &retryableError{err: err}
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &retryableError{statusCode: resp.StatusCode, retryAfter: retryAfter(resp, respBody)}
	case resp.StatusCode >= 500:
		return &retryableError{statusCode: resp.StatusCode}
	case resp.StatusCode >= 300:
		var apiErr struct {
			Message string `json:"message"`
		}
		msg := strings.TrimSpace(string(respBody))
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			msg = apiErr.Message
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// retryAfter reads delay from json body or Retry-After header, capped to keep the poll loop moving
func retryAfter(resp *http.Response, body []byte) time.Duration {
	const maxWait = 30 * time.Second
	var rl struct {
		RetryAfter float64 `json:"retry_after"`
	}
	d := time.Duration(0)
	if json.Unmarshal(body, &rl) == nil && rl.RetryAfter > 0 {
		d = time.Duration(rl.RetryAfter * float64(time.Second))
	} else if secs, err := strconv.ParseFloat(resp.Header.Get("Retry-After"), 64); err == nil && secs > 0 {
		d = time.Duration(secs * float64(time.Second))
	}
	return min(d, maxWait)
}
