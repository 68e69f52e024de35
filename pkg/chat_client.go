package pkg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/VSO-Labs/Daddy-John-Backend/logger"
)

// FallbackText is the deterministic assistant reply used when the chat
// backend is unreachable after all retry attempts. The send flow must
// always be able to persist some assistant message.
const FallbackText = "Sorry, I couldn't process your request. Please try again later."

// EstimateTokens approximates a token count as one token per four
// characters, rounded up. Used for user messages, fallback replies, and
// backend responses that omit a token count.
func EstimateTokens(text string) int {
	return (utf8.RuneCountInString(text) + 3) / 4
}

// HistoryEntry is one prior message sent to the chat backend for context.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Photo carries an uploaded image for the multipart variant.
type Photo struct {
	Name        string
	ContentType string
	Data        []byte
}

type chatRequest struct {
	UserInput     string         `json:"user_input"`
	History       []HistoryEntry `json:"history"`
	LatestSummary interface{}    `json:"latest_summary"`
}

type chatResponse struct {
	Response   string `json:"response"`
	TokenCount int    `json:"token_count"`
}

// ChatClient calls the external chat completion backend with bounded
// retries. It never persists anything itself.
type ChatClient struct {
	client     *http.Client
	url        string
	maxRetries int
	retryBase  time.Duration
	log        *logger.Logger
}

func NewChatClient(url string, connectTimeout, responseTimeout time.Duration, maxRetries int, retryBase time.Duration, baseLog *logger.Logger) *ChatClient {
	return &ChatClient{
		client: &http.Client{
			Timeout: responseTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
			},
		},
		url:        url,
		maxRetries: maxRetries,
		retryBase:  retryBase,
		log:        baseLog.With("client", "ChatClient"),
	}
}

// Complete sends the user input with its history window and returns the
// assistant text and a token estimate. All backend failures are absorbed
// into the fallback reply; the only error ever returned is the caller's
// context error, so no reply is fabricated after cancellation.
func (c *ChatClient) Complete(ctx context.Context, input string, history []HistoryEntry) (string, int, error) {
	return c.completeWithRetries(ctx, func(ctx context.Context) (*chatResponse, error) {
		return c.postJSON(ctx, input, history)
	})
}

// CompleteWithPhotos is the multipart variant: metadata as one JSON part,
// each photo as a binary part.
func (c *ChatClient) CompleteWithPhotos(ctx context.Context, input string, history []HistoryEntry, photos []Photo) (string, int, error) {
	return c.completeWithRetries(ctx, func(ctx context.Context) (*chatResponse, error) {
		return c.postMultipart(ctx, input, history, photos)
	})
}

func (c *ChatClient) completeWithRetries(ctx context.Context, call func(context.Context) (*chatResponse, error)) (string, int, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return "", 0, ctx.Err()
		}

		resp, err := call(ctx)
		if err == nil {
			tokens := resp.TokenCount
			if tokens <= 0 {
				tokens = EstimateTokens(resp.Response)
			}
			return resp.Response, tokens, nil
		}
		if ctx.Err() != nil {
			return "", 0, ctx.Err()
		}
		lastErr = err

		if attempt == c.maxRetries {
			break
		}
		delay := c.retryBase * time.Duration(attempt)
		c.log.Warn("chat backend request failed, retrying",
			"attempt", attempt,
			"max_retries", c.maxRetries,
			"delay", delay.String(),
			"error", err.Error(),
		)
		select {
		case <-ctx.Done():
			return "", 0, ctx.Err()
		case <-time.After(delay):
		}
	}

	c.log.Error("chat backend unreachable, using fallback response", "error", lastErr)
	return FallbackText, EstimateTokens(FallbackText), nil
}

func (c *ChatClient) postJSON(ctx context.Context, input string, history []HistoryEntry) (*chatResponse, error) {
	if history == nil {
		history = []HistoryEntry{}
	}
	body, err := json.Marshal(chatRequest{UserInput: input, History: history, LatestSummary: nil})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.do(req)
}

func (c *ChatClient) postMultipart(ctx context.Context, input string, history []HistoryEntry, photos []Photo) (*chatResponse, error) {
	if history == nil {
		history = []HistoryEntry{}
	}
	meta, err := json.Marshal(chatRequest{UserInput: input, History: history, LatestSummary: nil})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Disposition", `form-data; name="metadata"`)
	metaHeader.Set("Content-Type", "application/json")
	metaPart, err := w.CreatePart(metaHeader)
	if err != nil {
		return nil, err
	}
	if _, err := metaPart.Write(meta); err != nil {
		return nil, err
	}

	for _, photo := range photos {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photos"; filename="%s"`, escapeQuotes(photo.Name)))
		h.Set("Content-Type", photo.ContentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(photo.Data); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.do(req)
}

func (c *ChatClient) do(req *http.Request) (*chatResponse, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(raw))
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &out, nil
}

func escapeQuotes(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
