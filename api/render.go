package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Ping checks that the render worker is reachable.
func (c *Client) Ping(ctx context.Context) error {
	body, err := c.do(ctx, http.MethodGet, PingPath, nil)
	if err != nil {
		return err
	}
	if strings.TrimSpace(string(body)) != "pong" {
		return fmt.Errorf("unexpected ping response: %q", body)
	}
	return nil
}

// Render renders one document remotely.
func (c *Client) Render(ctx context.Context, req *RenderRequest) (*RenderResponse, error) {
	var resp RenderResponse
	if err := c.post(ctx, RenderPath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RenderBatch renders several documents remotely.
func (c *Client) RenderBatch(ctx context.Context, req *BatchRequest) (*BatchResponse, error) {
	var resp BatchResponse
	if err := c.post(ctx, RenderBatchPath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
