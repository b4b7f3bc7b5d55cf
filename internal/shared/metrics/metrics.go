// Package metrics keeps process-local counters and serves them in Prometheus text format.
package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	exportsTotal      = newLabeledCounter("format", "outcome")
	generationsTotal  = newLabeledCounter("source")
	atsScoresTotal    atomic.Uint64
	saveWarningsTotal atomic.Uint64
	workerEventsTotal = newLabeledCounter("type", "outcome")
	rateLimitedTotal  = newLabeledCounter("group")

	exportDuration = newHistogram([]float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000})
)

// IncExport counts one export attempt. outcome is "ok", "saved_with_warning", "busy" or "failed".
func IncExport(format, outcome string) {
	exportsTotal.Inc(format, outcome)
}

// IncGeneration counts a generated text by the backend that produced it.
func IncGeneration(source string) {
	generationsTotal.Inc(source)
}

func IncATSScore() {
	atsScoresTotal.Add(1)
}

// IncSaveWarning counts exports whose follow-up save failed.
func IncSaveWarning() {
	saveWarningsTotal.Add(1)
}

// IncWorkerEvent counts a consumed event. outcome is "completed", "failed", "discarded" or
// "skipped".
func IncWorkerEvent(eventType, outcome string) {
	if eventType == "" {
		eventType = "unknown"
	}
	workerEventsTotal.Inc(eventType, outcome)
}

// IncRateLimited counts a request rejected by the rate limiter.
func IncRateLimited(group string) {
	rateLimitedTotal.Inc(group)
}

// ObserveExportDurationMs records how long an export took.
func ObserveExportDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	exportDuration.Observe(value)
}

// Since returns the milliseconds elapsed since start.
func Since(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}

func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render writes every metric in Prometheus text exposition format.
func Render() string {
	var buf bytes.Buffer
	writeLabeled(&buf, "resume_exports_total", "Resume exports by format and outcome", exportsTotal)
	writeLabeled(&buf, "resume_generations_total", "AI text generations by source", generationsTotal)
	writeCounter(&buf, "resume_ats_scores_total", "ATS scores computed", atsScoresTotal.Load())
	writeCounter(&buf, "resume_export_save_warnings_total", "Exports whose snapshot save failed", saveWarningsTotal.Load())
	writeLabeled(&buf, "resume_worker_events_total", "Consumed events by type and outcome", workerEventsTotal)
	writeLabeled(&buf, "resume_rate_limited_total", "Requests rejected by rate limit group", rateLimitedTotal)
	writeHistogram(&buf, "resume_export_duration_ms", "Export duration in milliseconds", exportDuration.Snapshot())
	return buf.String()
}

type labeledCounter struct {
	labels []string
	mu     sync.Mutex
	values map[string]uint64
	keys   map[string][]string
}

func newLabeledCounter(labels ...string) *labeledCounter {
	return &labeledCounter{
		labels: labels,
		values: make(map[string]uint64),
		keys:   make(map[string][]string),
	}
}

func (l *labeledCounter) Inc(values ...string) {
	key := fmt.Sprint(values)
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.keys[key]; !ok {
		l.keys[key] = append([]string(nil), values...)
	}
	l.values[key]++
}

type labeledSample struct {
	labels string
	value  uint64
}

func (l *labeledCounter) snapshot() []labeledSample {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]labeledSample, 0, len(l.values))
	for key, v := range l.values {
		var b bytes.Buffer
		for i, name := range l.labels {
			if i > 0 {
				b.WriteByte(',')
			}
			val := ""
			if i < len(l.keys[key]) {
				val = l.keys[key][i]
			}
			fmt.Fprintf(&b, "%s=%q", name, val)
		}
		out = append(out, labeledSample{labels: b.String(), value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].labels < out[j].labels })
	return out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe adds value to the first bucket that holds it; Snapshot readers accumulate.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeLabeled(buf *bytes.Buffer, name, help string, counter *labeledCounter) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	for _, sample := range counter.snapshot() {
		fmt.Fprintf(buf, "%s{%s} %d\n", name, sample.labels, sample.value)
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
