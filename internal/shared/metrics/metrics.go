package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	resumeSavesTotal       atomic.Uint64
	resumeSaveFailedTotal  atomic.Uint64
	resumeVersionConflicts atomic.Uint64
	aiGenerationsTotal     atomic.Uint64
	aiGenerationFailed     atomic.Uint64

	saveDuration       = newHistogram([]float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500})
	generationDuration = newHistogram([]float64{250, 500, 1000, 2000, 5000, 10000, 30000})

	gatesMu     sync.Mutex
	gateDenials = map[string]uint64{}
)

// IncResumeSaved counts a persisted resume save.
func IncResumeSaved() { resumeSavesTotal.Add(1) }

// IncResumeSaveFailed counts a save that returned an error.
func IncResumeSaveFailed() { resumeSaveFailedTotal.Add(1) }

// IncVersionConflict counts a save rejected for a stale version.
func IncVersionConflict() { resumeVersionConflicts.Add(1) }

// IncAIGeneration counts a completed AI generation.
func IncAIGeneration() { aiGenerationsTotal.Add(1) }

// IncAIGenerationFailed counts a failed AI generation.
func IncAIGenerationFailed() { aiGenerationFailed.Add(1) }

// IncGateDenied counts a capability check that refused the caller.
func IncGateDenied(capability string) {
	gatesMu.Lock()
	gateDenials[capability]++
	gatesMu.Unlock()
}

// ObserveSaveDurationMs records a save duration in milliseconds.
func ObserveSaveDurationMs(value float64) {
	saveDuration.Observe(clamp(value))
}

// ObserveGenerationDurationMs records an AI generation duration in milliseconds.
func ObserveGenerationDurationMs(value float64) {
	generationDuration.Observe(clamp(value))
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "resume_saves_total", "Resume saves persisted", resumeSavesTotal.Load())
	writeCounter(&buf, "resume_save_failed_total", "Resume saves that failed", resumeSaveFailedTotal.Load())
	writeCounter(&buf, "resume_version_conflicts_total", "Resume saves rejected as stale", resumeVersionConflicts.Load())
	writeCounter(&buf, "ai_generations_total", "AI generations completed", aiGenerationsTotal.Load())
	writeCounter(&buf, "ai_generation_failed_total", "AI generations failed", aiGenerationFailed.Load())
	writeGateDenials(&buf)
	writeHistogram(&buf, "resume_save_duration_ms", "Resume save duration in milliseconds", saveDuration.Snapshot())
	writeHistogram(&buf, "ai_generation_duration_ms", "AI generation duration in milliseconds", generationDuration.Snapshot())
	return buf.String()
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

// Observe increments only the first matching bucket; rendering accumulates.
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

func writeGateDenials(buf *bytes.Buffer) {
	gatesMu.Lock()
	keys := make([]string, 0, len(gateDenials))
	for k := range gateDenials {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values := make([]uint64, len(keys))
	for i, k := range keys {
		values[i] = gateDenials[k]
	}
	gatesMu.Unlock()

	fmt.Fprintf(buf, "# HELP capability_denied_total Capability checks that refused the caller\n")
	fmt.Fprintf(buf, "# TYPE capability_denied_total counter\n")
	for i, k := range keys {
		fmt.Fprintf(buf, "capability_denied_total{capability=%q} %d\n", k, values[i])
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
