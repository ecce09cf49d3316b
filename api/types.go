// Package api provides the request and response types of the render worker
// and an HTTP client for it.
package api

import (
	"fmt"

	"github.com/open-cli-collective/wikitext-cli/pkg/wikitext"
)

// Routes served by the render worker.
const (
	PingPath        = "/ping"
	RenderPath      = "/v1/render"
	RenderBatchPath = "/v1/render/batch"
)

// RenderRequest asks for one document to be rendered.
type RenderRequest struct {
	Input string            `json:"input"`
	Page  wikitext.PageInfo `json:"page"`

	// Mode overrides the worker's configured mode when set. Names are
	// matched without regard to case.
	Mode string `json:"mode,omitempty"`
}

// RenderResponse is the output of one render.
type RenderResponse struct {
	wikitext.Output
	Cached bool `json:"cached"`
}

// BatchDocument is one entry of a batch request.
type BatchDocument struct {
	ID    string            `json:"id" binding:"required"`
	Input string            `json:"input"`
	Page  wikitext.PageInfo `json:"page"`
}

// BatchRequest asks for several independent documents to be rendered.
type BatchRequest struct {
	Documents []BatchDocument `json:"documents" binding:"required,min=1,dive"`
	Mode      string          `json:"mode,omitempty"`
}

// BatchResult is the outcome of one batch document. Exactly one of Output
// and Error is set.
type BatchResult struct {
	ID     string           `json:"id"`
	Output *wikitext.Output `json:"output,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// BatchResponse lists results in request order.
type BatchResponse struct {
	Results []BatchResult `json:"results"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
}

// NewErrorResponse wraps err for a JSON error body.
func NewErrorResponse(err error) ErrorResponse {
	return ErrorResponse{Message: err.Error()}
}

func (e *ErrorResponse) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error (status %d)", e.StatusCode)
	}
	return e.Message
}

// PingPage is the page info used for connectivity checks.
func PingPage() wikitext.PageInfo {
	return wikitext.PageInfo{Slug: "wtr-ping", Locale: "C", Title: "Ping", Language: "default"}
}
