package performance

import (
	"runtime"
	"strings"
	"sync"
	"time"
)

// Observer receives every completed marker, typically to feed metrics.
type Observer func(operation string, duration time.Duration, success bool)

// Tracker keeps recent markers and raises alerts for slow operations
type Tracker struct {
	markers    []*Marker
	alerts     []*Alert
	thresholds *AlertThresholds
	observer   Observer
	mu         sync.RWMutex
	started    time.Time
	config     *TrackerConfig
}

// TrackerConfig contains configuration options for the performance tracker
type TrackerConfig struct {
	MaxMarkers   int
	MaxAlerts    int
	Retention    time.Duration
	EnableAlerts bool
}

// DefaultTrackerConfig returns a sensible default configuration
func DefaultTrackerConfig() *TrackerConfig {
	return &TrackerConfig{
		MaxMarkers:   2000,
		MaxAlerts:    200,
		Retention:    time.Hour,
		EnableAlerts: true,
	}
}

// AlertThresholds defines performance thresholds for generating alerts
type AlertThresholds struct {
	SlowResponseThreshold     time.Duration
	CriticalResponseThreshold time.Duration
	CMSQueryThreshold         time.Duration
	PageRenderThreshold       time.Duration
	DeliveryThreshold         time.Duration
}

// DefaultAlertThresholds returns sensible default alert thresholds
func DefaultAlertThresholds() *AlertThresholds {
	return &AlertThresholds{
		SlowResponseThreshold:     2 * time.Second,
		CriticalResponseThreshold: 5 * time.Second,
		CMSQueryThreshold:         800 * time.Millisecond,
		PageRenderThreshold:       300 * time.Millisecond,
		DeliveryThreshold:         3 * time.Second,
	}
}

// NewTracker creates a new performance tracker with the given configuration
func NewTracker(config *TrackerConfig) *Tracker {
	if config == nil {
		config = DefaultTrackerConfig()
	}
	return &Tracker{
		thresholds: DefaultAlertThresholds(),
		started:    time.Now(),
		config:     config,
	}
}

// SetObserver installs an observer for completed markers.
func (t *Tracker) SetObserver(observer Observer) {
	t.mu.Lock()
	t.observer = observer
	t.mu.Unlock()
}

// StartOperation creates and tracks a new performance marker for an operation
func (t *Tracker) StartOperation(operation string) *Marker {
	marker := &Marker{
		Operation: operation,
		StartTime: time.Now(),
		Metadata:  make(map[string]any),
		Success:   true,
	}

	t.mu.Lock()
	t.markers = append(t.markers, marker)
	if len(t.markers) > t.config.MaxMarkers {
		t.markers = t.markers[len(t.markers)-t.config.MaxMarkers:]
	}
	t.mu.Unlock()

	return marker
}

// CompleteOperation completes marker, notifies the observer and checks for alerts
func (t *Tracker) CompleteOperation(marker *Marker) {
	if marker == nil {
		return
	}

	t.mu.Lock()
	if marker.Completed {
		t.mu.Unlock()
		return
	}
	marker.Complete()
	observer := t.observer
	t.mu.Unlock()
	if observer != nil {
		observer(marker.Operation, marker.Duration, marker.Success)
	}

	if t.config.EnableAlerts {
		t.checkForAlerts(marker)
	}
}

func (t *Tracker) checkForAlerts(marker *Marker) {
	alerts := t.evaluateThresholds(marker)
	if len(alerts) == 0 {
		return
	}

	t.mu.Lock()
	t.alerts = append(t.alerts, alerts...)
	if len(t.alerts) > t.config.MaxAlerts {
		t.alerts = t.alerts[len(t.alerts)-t.config.MaxAlerts:]
	}
	t.mu.Unlock()
}

// evaluateThresholds checks a marker against all relevant thresholds
func (t *Tracker) evaluateThresholds(marker *Marker) []*Alert {
	var alerts []*Alert

	if marker.Duration > t.thresholds.CriticalResponseThreshold {
		alerts = append(alerts, newAlert(marker, AlertCritical, "Operation exceeded critical response time threshold"))
	} else if marker.Duration > t.thresholds.SlowResponseThreshold {
		alerts = append(alerts, newAlert(marker, AlertWarning, "Operation exceeded slow response time threshold"))
	}

	switch {
	case strings.HasPrefix(marker.Operation, "cms:"):
		if marker.Duration > t.thresholds.CMSQueryThreshold {
			alerts = append(alerts, newAlert(marker, AlertWarning, "CMS query exceeded threshold"))
		}
	case strings.HasPrefix(marker.Operation, "page:"):
		if marker.Duration > t.thresholds.PageRenderThreshold {
			alerts = append(alerts, newAlert(marker, AlertWarning, "Page render exceeded threshold"))
		}
	case strings.HasPrefix(marker.Operation, "contact:"), strings.HasPrefix(marker.Operation, "subscribe:"):
		if marker.Duration > t.thresholds.DeliveryThreshold {
			alerts = append(alerts, newAlert(marker, AlertWarning, "Outbound delivery exceeded threshold"))
		}
	}

	return alerts
}

func newAlert(marker *Marker, severity AlertSeverity, message string) *Alert {
	return &Alert{
		Timestamp: time.Now(),
		Severity:  severity,
		Operation: marker.Operation,
		Actual:    marker.Duration,
		Message:   message,
	}
}

// GetAlerts returns a copy of the retained alerts
func (t *Tracker) GetAlerts() []Alert {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Alert, 0, len(t.alerts))
	for _, a := range t.alerts {
		out = append(out, *a)
	}
	return out
}

// Health derives an overall status from operations completed within window
func (t *Tracker) Health(window time.Duration) HealthStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()

	cutoff := time.Now().Add(-window)
	total, critical, warning := 0, 0, 0
	for _, m := range t.markers {
		if !m.Completed || m.EndTime.Before(cutoff) {
			continue
		}
		total++
		switch {
		case !m.Success || m.Duration > t.thresholds.CriticalResponseThreshold:
			critical++
		case m.Duration > t.thresholds.SlowResponseThreshold:
			warning++
		}
	}

	if total == 0 {
		return HealthUnknown
	}
	criticalRatio := float64(critical) / float64(total)
	warningRatio := float64(warning) / float64(total)
	switch {
	case criticalRatio > 0.1:
		return HealthUnhealthy
	case criticalRatio > 0.05 || warningRatio > 0.2:
		return HealthDegraded
	default:
		return HealthHealthy
	}
}

// Cleanup drops completed markers older than the retention window
func (t *Tracker) Cleanup() {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := time.Now().Add(-t.config.Retention)
	kept := t.markers[:0]
	for _, m := range t.markers {
		if m.Completed && m.EndTime.Before(cutoff) {
			continue
		}
		kept = append(kept, m)
	}
	t.markers = kept
}

// GetOverallStats returns overall tracker statistics
func (t *Tracker) GetOverallStats() map[string]any {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	active, completed := 0, 0
	hits, misses := 0, 0
	for _, m := range t.markers {
		if m.Completed {
			completed++
			hits += m.CacheHits
			misses += m.CacheMisses
		} else {
			active++
		}
	}

	return map[string]any{
		"trackerUptime":       time.Since(t.started).String(),
		"activeOperations":    active,
		"completedOperations": completed,
		"totalAlerts":         len(t.alerts),
		"cacheHits":           hits,
		"cacheMisses":         misses,
		"memoryUsageMB":       memStats.Alloc / (1024 * 1024),
	}
}
