// pkg/job/metrics.go
package job

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// StageMetrics tracks one run stage
type StageMetrics struct {
	Name      string        `json:"name"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration_ns"`
	Rows      int64         `json:"rows"`
	Failed    bool          `json:"failed,omitempty"`
}

// Metrics tracks timing and volume of a run
type Metrics struct {
	mu           sync.Mutex
	logger       *zap.Logger
	StartTime    time.Time
	EndTime      time.Time
	Stages       []StageMetrics
	RowsRead     int64
	RowsCleaned  int64
	CatalogRows  int64
	AuditRows    int64
	BytesWritten int64
	ErrorCounts  map[ErrorCategory]int
}

// NewMetrics creates a new Metrics instance
func NewMetrics(logger *zap.Logger) *Metrics {
	return &Metrics{
		logger:      logger,
		StartTime:   time.Now(),
		Stages:      make([]StageMetrics, 0),
		ErrorCounts: make(map[ErrorCategory]int),
	}
}

// StartStage begins timing a stage. The returned function ends it with the
// number of rows the stage produced and its error, if any.
func (m *Metrics) StartStage(name string) func(rows int64, err error) {
	start := time.Now()
	return func(rows int64, err error) {
		m.mu.Lock()
		defer m.mu.Unlock()

		sm := StageMetrics{
			Name:      name,
			StartTime: start,
			Duration:  time.Since(start),
			Rows:      rows,
			Failed:    err != nil,
		}
		m.Stages = append(m.Stages, sm)
		if err != nil {
			m.ErrorCounts[CategorizeError(err)]++
		}

		if m.logger != nil {
			m.logger.Debug("Stage completed",
				zap.String("stage", name),
				zap.Int64("rows", rows),
				zap.Duration("duration", sm.Duration),
				zap.Bool("failed", sm.Failed))
		}
	}
}

// Stage returns the recorded metrics of a stage
func (m *Metrics) Stage(name string) (StageMetrics, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.Stages {
		if s.Name == name {
			return s, true
		}
	}
	return StageMetrics{}, false
}

// Complete marks the run as complete
func (m *Metrics) Complete() {
	m.mu.Lock()
	m.EndTime = time.Now()
	m.mu.Unlock()

	if m.logger != nil {
		m.logger.Info("Run metrics",
			zap.Duration("totalDuration", m.Duration()),
			zap.Int64("rowsRead", m.RowsRead),
			zap.Int64("rowsCleaned", m.RowsCleaned),
			zap.Int64("catalogRows", m.CatalogRows),
			zap.String("bytesWritten", formatBytes(m.BytesWritten)),
			zap.Float64("throughput", m.CalculateThroughput()))
	}
}

// CalculateThroughput calculates the input rows/second throughput
func (m *Metrics) CalculateThroughput() float64 {
	duration := m.Duration().Seconds()
	if duration <= 0 {
		return 0
	}
	return float64(m.RowsRead) / duration
}

// Duration returns the total duration of the run
func (m *Metrics) Duration() time.Duration {
	if m.EndTime.IsZero() {
		return time.Since(m.StartTime)
	}
	return m.EndTime.Sub(m.StartTime)
}

// formatBytes converts bytes to a human-readable string
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// formatDuration formats a duration to a human-readable string
func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// GenerateMetricsReport creates a plain text metrics summary
func (m *Metrics) GenerateMetricsReport() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, `
Cleaning Run Metrics
====================
Duration:            %s
Rows Read:           %d
Rows Cleaned:        %d
Rows Dropped:        %d
Catalog Rows:        %d
Audit Rows:          %d
Bytes Written:       %s
Average Throughput:  %.2f rows/sec
`,
		formatDuration(m.Duration()),
		m.RowsRead,
		m.RowsCleaned,
		m.RowsRead-m.RowsCleaned,
		m.CatalogRows,
		m.AuditRows,
		formatBytes(m.BytesWritten),
		m.CalculateThroughput(),
	)

	b.WriteString("\nStages\n------\n")
	for _, s := range m.Stages {
		status := "ok"
		if s.Failed {
			status = "failed"
		}
		fmt.Fprintf(&b, "- %s: %s, %d rows, %s\n", s.Name, formatDuration(s.Duration), s.Rows, status)
	}

	if len(m.ErrorCounts) > 0 {
		categories := make([]ErrorCategory, 0, len(m.ErrorCounts))
		for c := range m.ErrorCounts {
			categories = append(categories, c)
		}
		sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

		b.WriteString("\nErrors\n------\n")
		for _, c := range categories {
			fmt.Fprintf(&b, "- %s: %d\n", c, m.ErrorCounts[c])
		}
	}

	return b.String()
}

// MarshalJSON serializes metrics to JSON
func (m *Metrics) MarshalJSON() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return json.Marshal(struct {
		Duration     string                `json:"duration"`
		RowsRead     int64                 `json:"rows_read"`
		RowsCleaned  int64                 `json:"rows_cleaned"`
		CatalogRows  int64                 `json:"catalog_rows"`
		AuditRows    int64                 `json:"audit_rows"`
		BytesWritten int64                 `json:"bytes_written"`
		Throughput   float64               `json:"throughput"`
		Stages       []StageMetrics        `json:"stages"`
		Errors       map[ErrorCategory]int `json:"errors,omitempty"`
	}{
		Duration:     formatDuration(m.Duration()),
		RowsRead:     m.RowsRead,
		RowsCleaned:  m.RowsCleaned,
		CatalogRows:  m.CatalogRows,
		AuditRows:    m.AuditRows,
		BytesWritten: m.BytesWritten,
		Throughput:   m.CalculateThroughput(),
		Stages:       m.Stages,
		Errors:       m.ErrorCounts,
	})
}
