package metrics

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/drama/pkg/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector_Hooks(t *testing.T) {
	c := New()
	hooks := c.Hooks()
	ctx := context.Background()

	hooks.OnBuild(ctx, &domain.BuildEvent{
		EventBase:  domain.EventBase{Type: domain.EventBuild, Graph: "guide"},
		Rows:       12,
		Violations: 2,
		Warnings: []domain.Warning{
			{Kind: domain.WarningOrphanStep, Step: "x"},
			{Kind: domain.WarningOrphanStep, Step: "y"},
			{Kind: domain.WarningUndefinedTarget, Target: "z"},
		},
	})
	hooks.OnWrite(ctx, &domain.WriteEvent{Sink: "file"})
	hooks.OnWrite(ctx, &domain.WriteEvent{Sink: "redis", Err: errors.New("down")})
	hooks.OnWrite(ctx, &domain.WriteEvent{Sink: "file", Skipped: true})

	assert.Equal(t, 1.0, testutil.ToFloat64(c.builds.WithLabelValues("guide")))
	assert.Equal(t, 12.0, testutil.ToFloat64(c.rows.WithLabelValues("guide")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.warnings.WithLabelValues("guide", string(domain.WarningOrphanStep))))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.warnings.WithLabelValues("guide", string(domain.WarningUndefinedTarget))))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.violations.WithLabelValues("guide")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.writes.WithLabelValues("redis", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.writes.WithLabelValues("file", "unchanged")))
}

func TestCollector_Handler(t *testing.T) {
	c := New()
	c.Hooks().OnWrite(context.Background(), &domain.WriteEvent{Sink: "memory"})

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `drama_sink_writes_total{sink="memory",status="ok"} 1`))
}
