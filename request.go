package viewkit

import (
	"context"
	"strings"

	"github.com/goliatone/go-viewkit/pkg/form"
)

// RenderOption adjusts a single render.
type RenderOption func(*request)

type request struct {
	posted form.PostedData
	locale string
	layout string
	action string
}

type requestKey struct{}

// WithPosted supplies submitted values that take precedence over record
// values in form fields.
func WithPosted(posted form.PostedData) RenderOption {
	return func(r *request) {
		r.posted = posted
	}
}

// WithLocale overrides the configured locale.
func WithLocale(locale string) RenderOption {
	return func(r *request) {
		if locale = strings.TrimSpace(locale); locale != "" {
			r.locale = locale
		}
	}
}

// WithLayout overrides the configured layout. An empty name renders without
// a layout.
func WithLayout(name string) RenderOption {
	return func(r *request) {
		r.layout = strings.TrimSpace(name)
	}
}

// WithAction sets the default form action, usually the request URL.
func WithAction(action string) RenderOption {
	return func(r *request) {
		r.action = action
	}
}

func withRequest(ctx context.Context, req request) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestKey{}, req)
}

func requestFrom(ctx context.Context) request {
	if ctx == nil {
		return request{}
	}
	req, _ := ctx.Value(requestKey{}).(request)
	return req
}
