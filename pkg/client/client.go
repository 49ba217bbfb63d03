// Package client talks to the workforce admin API. It is the consumer side
// of the service: it loads collections, performs mutations and follows the
// requests.changed push channel.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	errors "github.com/frahmantamala/workforce-admin/internal"
	"github.com/frahmantamala/workforce-admin/internal/employee"
	"github.com/frahmantamala/workforce-admin/internal/progress"
	"github.com/frahmantamala/workforce-admin/internal/project"
	"github.com/frahmantamala/workforce-admin/internal/request"
	"github.com/frahmantamala/workforce-admin/internal/task"
)

const defaultTimeout = 10 * time.Second

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	cfg    Config
	http   *resty.Client
	logger *slog.Logger

	mu    sync.RWMutex
	token string
}

func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		logger: logger,
		http: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetTimeout(cfg.Timeout).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
	}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Login authenticates and keeps the access token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var out loginResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return err
	}
	c.SetToken(out.AccessToken)
	return nil
}

// do executes one call. Network failures become TransportErrors; error
// responses are decoded back into the server's AppError.
func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	req := c.http.R().
		SetContext(ctx).
		SetError(&errors.Response{})
	if token := c.bearer(); token != "" {
		req.SetAuthToken(token)
	}
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.Warn("api call failed", "method", method, "path", path, "error", err)
		return errors.NewTransportError(fmt.Sprintf("%s %s failed", method, path), err)
	}
	if !resp.IsError() {
		return nil
	}

	if envelope, ok := resp.Error().(*errors.Response); ok && envelope.Error != nil && envelope.Error.Code != "" {
		appErr := envelope.Error
		appErr.StatusCode = resp.StatusCode()
		return appErr
	}
	appErr := errors.NewTransportError(fmt.Sprintf("%s %s: unexpected status %d", method, path, resp.StatusCode()), nil)
	appErr.Code = errors.ErrCodeUnexpectedResponse
	return appErr
}

func (c *Client) Me(ctx context.Context) (*employee.Employee, error) {
	var out employee.Employee
	if err := c.do(ctx, http.MethodGet, "/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Projects(ctx context.Context) ([]*project.Overview, error) {
	var out project.ProjectsResponse
	if err := c.do(ctx, http.MethodGet, "/projects", nil, &out); err != nil {
		return nil, err
	}
	return out.Projects, nil
}

func (c *Client) MyTasks(ctx context.Context) ([]*task.Task, error) {
	var out task.TasksResponse
	if err := c.do(ctx, http.MethodGet, "/tasks/mine", nil, &out); err != nil {
		return nil, err
	}
	return out.Tasks, nil
}

func (c *Client) Progress(ctx context.Context, projectID int64, assignee *int64) (progress.Summary, error) {
	path := "/projects/" + strconv.FormatInt(projectID, 10) + "/progress"
	if assignee != nil {
		path += "?assignee=" + strconv.FormatInt(*assignee, 10)
	}
	var out progress.Summary
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) Requests(ctx context.Context) ([]*request.Request, error) {
	var out request.RequestsResponse
	if err := c.do(ctx, http.MethodGet, "/requests", nil, &out); err != nil {
		return nil, err
	}
	return out.Requests, nil
}

func (c *Client) SubmitRequest(ctx context.Context, dto request.SubmitRequestDTO) (*request.Request, error) {
	var out request.Request
	if err := c.do(ctx, http.MethodPost, "/requests", dto, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RespondToRequest approves or rejects a pending request.
func (c *Client) RespondToRequest(ctx context.Context, id int64, decision string) (*request.Request, error) {
	var out request.Request
	path := "/requests/" + strconv.FormatInt(id, 10) + "/status"
	if err := c.do(ctx, http.MethodPatch, path, request.RespondDTO{Status: decision}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteRequest(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/requests/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *Client) Employees(ctx context.Context) ([]*employee.Employee, error) {
	var out employee.EmployeesResponse
	if err := c.do(ctx, http.MethodGet, "/employees", nil, &out); err != nil {
		return nil, err
	}
	return out.Employees, nil
}
