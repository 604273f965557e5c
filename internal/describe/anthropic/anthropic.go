// Package anthropic implements describe.Engine on the Anthropic Messages API.
package anthropic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dwellr/internal/describe"
	"dwellr/internal/models"
	"dwellr/internal/observability"

	anthropicsdk "github.com/liushuangls/go-anthropic/v2"
)

const maxTokens = 1024

// Engine calls Claude with the listing schema prompt and parses the JSON
// response strictly into PostMetadata.
type Engine struct {
	client  *anthropicsdk.Client
	model   anthropicsdk.Model
	timeout time.Duration
}

// Option configures the Engine.
type Option func(*options)

type options struct {
	baseURL string
	timeout time.Duration
}

// WithBaseURL overrides the API endpoint. Used by tests.
func WithBaseURL(url string) Option {
	return func(o *options) { o.baseURL = url }
}

// WithTimeout bounds each generation call. The default is 60s, matching the
// round trip observed for long transcripts.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func NewEngine(apiKey, model string, opts ...Option) *Engine {
	o := options{timeout: 60 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}

	var clientOpts []anthropicsdk.ClientOption
	if o.baseURL != "" {
		clientOpts = append(clientOpts, anthropicsdk.WithBaseURL(o.baseURL))
	}

	return &Engine{
		client:  anthropicsdk.NewClient(apiKey, clientOpts...),
		model:   anthropicsdk.Model(model),
		timeout: o.timeout,
	}
}

// Generate is all-or-nothing: an upstream failure or unparsable response
// fails the whole call; no partial metadata is ever returned. An empty
// transcript short-circuits to all-absent metadata without a billable call.
func (e *Engine) Generate(ctx context.Context, transcript string) (*models.PostMetadata, error) {
	if strings.TrimSpace(transcript) == "" {
		return &models.PostMetadata{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	resp, err := e.client.CreateMessages(ctx, anthropicsdk.MessagesRequest{
		Model:     e.model,
		MaxTokens: maxTokens,
		System:    describe.SchemaPrompt,
		Messages: []anthropicsdk.Message{
			anthropicsdk.NewUserTextMessage(transcript),
		},
	})
	observability.DescribeLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		observability.DescribeRequests.WithLabelValues("upstream_error").Inc()
		return nil, fmt.Errorf("generation call failed: %w", err)
	}

	meta, err := describe.ParseMetadata(resp.GetFirstContentText())
	if err != nil {
		observability.DescribeRequests.WithLabelValues("unparsable").Inc()
		return nil, fmt.Errorf("unparsable generation response: %w", err)
	}

	observability.DescribeRequests.WithLabelValues("ok").Inc()
	return meta, nil
}

var _ describe.Engine = (*Engine)(nil)
