package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"jobboard-admin/internal/domain/job"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	Token string `json:"token"`
}

// SignIn exchanges credentials for a bearer token.
func (c *Client) SignIn(ctx context.Context, email, password string) (string, error) {
	var out signInResponse
	err := c.do(ctx, request{
		method:    http.MethodPost,
		path:      "/auth/sign_in",
		route:     "/auth/sign_in",
		body:      credentials{Email: strings.TrimSpace(email), Password: password},
		out:       &out,
		anonymous: true,
	})
	if err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *Client) SignUp(ctx context.Context, email, password string) error {
	return c.do(ctx, request{
		method:    http.MethodPost,
		path:      "/auth/sign_up",
		route:     "/auth/sign_up",
		body:      credentials{Email: strings.TrimSpace(email), Password: password},
		anonymous: true,
	})
}

func (c *Client) ListJobs(ctx context.Context) ([]job.Job, error) {
	var out []job.Job
	if err := c.do(ctx, request{method: http.MethodGet, path: "/jobs", route: "/jobs", out: &out}); err != nil {
		return nil, err
	}
	if out == nil {
		out = []job.Job{}
	}
	return out, nil
}

func (c *Client) CreateJob(ctx context.Context, d job.Draft) (job.Job, error) {
	var out job.Job
	err := c.do(ctx, request{method: http.MethodPost, path: "/jobs", route: "/jobs", body: d, out: &out})
	return out, err
}

func (c *Client) UpdateJob(ctx context.Context, id string, d job.Draft) (job.Job, error) {
	var out job.Job
	err := c.do(ctx, request{
		method: http.MethodPut,
		path:   "/jobs/" + url.PathEscape(id),
		route:  "/jobs/:id",
		body:   d,
		out:    &out,
	})
	return out, err
}

func (c *Client) DeleteJob(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/jobs/" + url.PathEscape(id), route: "/jobs/:id"})
}
