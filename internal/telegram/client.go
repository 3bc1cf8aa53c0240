package telegram

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
)

// APIError is a Bot API level failure: the HTTP exchange worked but the
// method call was rejected.
type APIError struct {
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram api error %d: %s", e.Code, e.Description)
}

// IsParseError reports whether the failure is an entity-parsing rejection of
// the message markup, the signal to retry the send as plain text.
func IsParseError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return strings.Contains(strings.ToLower(apiErr.Description), "can't parse entities")
}

// Client is a minimal Bot API client over plain HTTP. The base URL already
// carries the bot token ("https://api.telegram.org/bot<token>").
type Client struct {
	http    *http.Client
	baseURL string
}

type envelope struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
	Description string          `json:"description,omitempty"`
}

// GetUpdates long-polls for new updates with the given offset. The HTTP
// client must have a timeout above timeoutSec.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeoutSec int) ([]Update, error) {
	params := url.Values{}
	params.Set("offset", strconv.FormatInt(offset, 10))
	params.Set("timeout", strconv.Itoa(timeoutSec))
	params.Set("allowed_updates", `["message","callback_query"]`)

	raw, err := c.call(ctx, "getUpdates", params, nil)
	if err != nil {
		return nil, err
	}

	var updates []Update
	if err = json.Unmarshal(raw, &updates); err != nil {
		return nil, fmt.Errorf("failed to decode updates: %w", err)
	}
	return updates, nil
}

func (c *Client) SendMessage(ctx context.Context, msg SendMessage) error {
	_, err := c.call(ctx, "sendMessage", nil, msg)
	return err
}

// GetChatMember looks up the user's membership in a chat; chat is a channel
// username like "@some_channel".
func (c *Client) GetChatMember(ctx context.Context, chat string, userID int64) (ChatMember, error) {
	params := url.Values{}
	params.Set("chat_id", chat)
	params.Set("user_id", strconv.FormatInt(userID, 10))

	raw, err := c.call(ctx, "getChatMember", params, nil)
	if err != nil {
		return ChatMember{}, err
	}

	var member ChatMember
	if err = json.Unmarshal(raw, &member); err != nil {
		return ChatMember{}, fmt.Errorf("failed to decode chat member: %w", err)
	}
	return member, nil
}

func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID string) error {
	params := url.Values{}
	params.Set("callback_query_id", callbackID)
	_, err := c.call(ctx, "answerCallbackQuery", params, nil)
	return err
}

func (c *Client) call(ctx context.Context, method string, params url.Values, body any) (json.RawMessage, error) {
	endpoint := strings.TrimSuffix(c.baseURL, "/") + "/" + method
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var payload io.Reader
	httpMethod := http.MethodGet
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s payload: %w", method, err)
		}
		payload = bytes.NewReader(encoded)
		httpMethod = http.MethodPost
	}

	req, err := http.NewRequestWithContext(ctx, httpMethod, endpoint, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", method, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute %s request: %w", method, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err = json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if !env.OK {
		return nil, &APIError{Code: env.ErrorCode, Description: env.Description}
	}
	return env.Result, nil
}

// IsMember reports whether a chat member status counts as channel membership.
func IsMember(status string) bool {
	switch status {
	case "member", "administrator", "creator":
		return true
	default:
		return false
	}
}

func NewClient(httpClient *http.Client, apiBaseURL, token string) *Client {
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimSuffix(apiBaseURL, "/") + "/bot" + token,
	}
}
