// Package activity routes user activity records to the configured sink.
package activity

import (
	"context"
	"log/slog"

	"github.com/hluleko/smart-travel-planner/internal/domain"
	"github.com/hluleko/smart-travel-planner/internal/observability"
)

// Recorder accepts activity records.
type Recorder interface {
	RecordActivity(ctx context.Context, activity domain.Activity) error
}

// Metered counts each record sent to a sink by outcome.
type Metered struct {
	sink    string
	inner   Recorder
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewMetered wraps inner, labelling its metrics with sink.
func NewMetered(sink string, inner Recorder, metrics *observability.Metrics, logger *slog.Logger) *Metered {
	return &Metered{sink: sink, inner: inner, metrics: metrics, logger: logger}
}

func (m *Metered) RecordActivity(ctx context.Context, activity domain.Activity) error {
	if err := m.inner.RecordActivity(ctx, activity); err != nil {
		m.metrics.ActivityRecorded.WithLabelValues(m.sink, "error").Inc()
		m.logger.Debug("activity not recorded", "sink", m.sink, "action", activity.Action, "error", err)
		return err
	}
	m.metrics.ActivityRecorded.WithLabelValues(m.sink, "success").Inc()
	return nil
}
