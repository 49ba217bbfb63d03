package client

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	errors "github.com/frahmantamala/workforce-admin/internal"
)

// Subscribe follows GET /requests/events until ctx is cancelled or the
// stream ends. onEvent receives the event name of every dispatched frame;
// comments and heartbeats are skipped.
func (c *Client) Subscribe(ctx context.Context, onEvent func(event string)) error {
	stream := resty.New().
		SetBaseURL(c.cfg.BaseURL).
		SetDoNotParseResponse(true)

	req := stream.R().
		SetContext(ctx).
		SetHeader("Accept", "text/event-stream").
		SetHeader("Cache-Control", "no-cache")
	if token := c.bearer(); token != "" {
		req.SetAuthToken(token)
	}

	resp, err := req.Get("/requests/events")
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.NewTransportError("open event stream", err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		appErr := errors.NewTransportError(fmt.Sprintf("open event stream: unexpected status %d", resp.StatusCode()), nil)
		appErr.Code = errors.ErrCodeUnexpectedResponse
		return appErr
	}

	c.logger.Info("subscribed to request events", "base_url", c.cfg.BaseURL)

	scanner := bufio.NewScanner(body)
	event := ""
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if event != "" {
				onEvent(event)
			}
			event = ""
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		}
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err := scanner.Err(); err != nil {
		return errors.NewTransportError("read event stream", err)
	}
	return nil
}
