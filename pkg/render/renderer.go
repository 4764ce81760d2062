// pkg/render/renderer.go
// Package render presents engine snapshots: to a terminal, to a recording,
// or nowhere. Renderers only ever see snapshots, never the live world.
package render

import (
	"context"
	"errors"

	"github.com/opd-ai/go-arena/pkg/engine"
	"github.com/opd-ai/go-arena/pkg/logging"
)

// Renderer consumes one snapshot per frame.
type Renderer interface {
	Render(snap *engine.Snapshot) error
	Close() error
}

// NullRenderer draws nothing and logs each frame at debug level.
type NullRenderer struct {
	logger *logging.Logger
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &NullRenderer{logger: logger}
}

// Render implements Renderer.
func (d *NullRenderer) Render(snap *engine.Snapshot) error {
	ctx := context.Background()
	if snap == nil {
		d.logger.Debug(ctx, "Render called with nil snapshot")
		return nil
	}
	d.logger.Debug(ctx, "Render called",
		"tick", snap.Tick,
		"entities", len(snap.Entities),
	)
	return nil
}

// Close implements Renderer.
func (d *NullRenderer) Close() error {
	return nil
}

// Multi fans every frame out to several renderers.
type Multi []Renderer

// Render implements Renderer. Every renderer sees the frame even when an
// earlier one fails.
func (m Multi) Render(snap *engine.Snapshot) error {
	var errs []error
	for _, r := range m {
		if err := r.Render(snap); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close implements Renderer.
func (m Multi) Close() error {
	var errs []error
	for _, r := range m {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
