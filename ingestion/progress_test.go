package ingestion

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressTracker(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressTracker(slog.New(slog.NewTextHandler(&buf, nil)), 5, 2)
	require.NotNil(t, p)

	for range 5 {
		p.increment()
	}
	p.finish()

	assert.Equal(t, 3, strings.Count(buf.String(), "validating records"))
	assert.Contains(t, buf.String(), "done=2")
	assert.Contains(t, buf.String(), "done=4")
	assert.Contains(t, buf.String(), "done=5 total=5")
}

func TestProgressTracker_FinishAfterReport(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressTracker(slog.New(slog.NewTextHandler(&buf, nil)), 4, 2)

	for range 4 {
		p.increment()
	}
	p.finish()

	assert.Equal(t, 2, strings.Count(buf.String(), "validating records"))
}

func TestProgressTracker_Disabled(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		interval int
	}{
		{"zero interval", 10, 0},
		{"negative interval", 10, -1},
		{"fewer records than interval", 3, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProgressTracker(slog.Default(), tt.total, tt.interval)
			assert.Nil(t, p)
			// nil trackers are no-ops
			p.increment()
			p.finish()
		})
	}
}

func TestImporter_Validate_LogsProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	imp, _, _ := setupTestImporter(t, WithLogger(logger), WithReportInterval(10), WithPoolSize(4))

	require.NoError(t, imp.Validate(context.Background(), testRecords(50)))

	out := buf.String()
	assert.Equal(t, 5, strings.Count(out, "validating records"))
	assert.Contains(t, out, "done=50 total=50")
}
