// Package trip provides the error taxonomy for the cadence animation engine.
//
// The trip package keeps the stumbling metaphor: a runner that hits a bad
// configuration falls before the first stride, a phase that escapes [0,1) is
// a trip the engine reports upward, and a host clock that runs backwards is
// only a stumble the host can step over.
package trip

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Error categories.
const (
	// TypeConfiguration marks keyframe tables or tempo constants that can
	// never produce a valid animation. Detected at initialization.
	TypeConfiguration = "configuration"

	// TypeOutOfRange marks a phase, duration or elapsed time outside its
	// contractual domain. Indicates an engine or caller bug upstream.
	TypeOutOfRange = "out_of_range"

	// TypeTiming marks host-side clock anomalies the host recovered from.
	TypeTiming = "timing"
)

// Sentinels for errors.Is. A *Trip matches the sentinel of its Type.
var (
	ErrConfiguration = errors.New("cadence: configuration error")
	ErrOutOfRange    = errors.New("cadence: value out of range")
	ErrTiming        = errors.New("cadence: timing anomaly")
)

// Trip represents an engine failure with rich context.
//
// Example usage:
//
//	err := trip.OutOfRange("phase outside [0,1)",
//	    trip.Context{"phase": 1.25})
//
//	if errors.Is(err, trip.ErrOutOfRange) {
//	    // the cycle clock failed to wrap
//	}
type Trip struct {
	Type      string    // Error category for systematic handling
	Message   string    // Human-readable description
	Context   Context   // Additional debugging information
	Timestamp time.Time // When the error occurred
	Severity  Severity  // How serious this error is
}

// Context provides structured debugging information for trips.
type Context map[string]interface{}

// Severity indicates how serious a trip is and how it should be handled.
type Severity int

const (
	// Stumble indicates a minor issue the host already recovered from.
	// Examples: a frame timestamp earlier than the previous one
	Stumble Severity = iota

	// Error indicates a contract violation that invalidates the current frame.
	// Examples: phase outside [0,1) reaching the interpolator
	Error

	// Fall indicates the engine cannot run at all.
	// Examples: open keyframe loop, non-positive cycle duration
	Fall
)

func (s Severity) String() string {
	switch s {
	case Stumble:
		return "stumble"
	case Error:
		return "error"
	case Fall:
		return "fall"
	default:
		return "unknown"
	}
}

// NewTrip creates a new trip with the current timestamp.
func NewTrip(errorType, message string, context Context) *Trip {
	return &Trip{
		Type:      errorType,
		Message:   message,
		Context:   context,
		Timestamp: time.Now(),
		Severity:  Error, // Default severity
	}
}

// Configuration creates a fatal configuration trip.
func Configuration(message string, context Context) *Trip {
	return NewTrip(TypeConfiguration, message, context).WithSeverity(Fall)
}

// Configurationf is Configuration with a formatted message and no context.
func Configurationf(format string, args ...interface{}) *Trip {
	return Configuration(fmt.Sprintf(format, args...), nil)
}

// OutOfRange creates an out-of-range trip.
func OutOfRange(message string, context Context) *Trip {
	return NewTrip(TypeOutOfRange, message, context)
}

// Timing creates a recoverable timing stumble.
func Timing(message string, context Context) *Trip {
	return NewTrip(TypeTiming, message, context).WithSeverity(Stumble)
}

// WithSeverity sets the severity level for this error.
func (t *Trip) WithSeverity(severity Severity) *Trip {
	t.Severity = severity
	return t
}

// Error implements the error interface.
func (t *Trip) Error() string {
	return fmt.Sprintf("[%s:%s] %s", t.Type, t.Severity, t.Message)
}

// Is reports whether target is the sentinel for this trip's type.
func (t *Trip) Is(target error) bool {
	switch target {
	case ErrConfiguration:
		return t.Type == TypeConfiguration
	case ErrOutOfRange:
		return t.Type == TypeOutOfRange
	case ErrTiming:
		return t.Type == TypeTiming
	}
	return false
}

// CanRecover returns true if the animation can continue despite this error.
func (t *Trip) CanRecover() bool {
	return t.Severity == Stumble
}

// IsFall returns true if this error should immediately stop the animation.
func (t *Trip) IsFall() bool {
	return t.Severity == Fall
}

// GetContext returns a specific context value if it exists.
func (t *Trip) GetContext(key string) (interface{}, bool) {
	if t.Context == nil {
		return nil, false
	}
	val, exists := t.Context[key]
	return val, exists
}

// DetailedString returns a comprehensive error description with context.
// Context keys are sorted so reports are stable.
func (t *Trip) DetailedString() string {
	var details strings.Builder

	details.WriteString(fmt.Sprintf("[%s:%s] %s", t.Type, t.Severity, t.Message))
	details.WriteString(fmt.Sprintf("\n  Time: %s", t.Timestamp.Format("15:04:05.000")))

	if len(t.Context) > 0 {
		keys := make([]string, 0, len(t.Context))
		for key := range t.Context {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		details.WriteString("\n  Context:")
		for _, key := range keys {
			details.WriteString(fmt.Sprintf("\n    %s: %v", key, t.Context[key]))
		}
	}

	return details.String()
}

// IsConfiguration reports whether err is (or wraps) a configuration trip.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsOutOfRange reports whether err is (or wraps) an out-of-range trip.
func IsOutOfRange(err error) bool {
	return errors.Is(err, ErrOutOfRange)
}

// As extracts the *Trip from err, if any.
func As(err error) (*Trip, bool) {
	var t *Trip
	if errors.As(err, &t) {
		return t, true
	}
	return nil, false
}

// Handler collects trips raised while a host drives the engine.
//
// Stumbles are kept apart from real trips so a long session with a jittery
// clock does not drown out the one out-of-range frame that matters.
type Handler struct {
	component string  // Component name (e.g., "stage", "film")
	trips     []*Trip // Collected errors in chronological order
	stumbles  []*Trip // Collected minor issues in chronological order
	policy    *Policy // How to handle different error types
}

// Policy defines how different severities of errors should be handled.
type Policy struct {
	// StopOnFall determines if the host should stop immediately on fall errors
	StopOnFall bool

	// StopOnError determines if the host should stop on any non-stumble trip
	StopOnError bool

	// MaxStumbles sets a limit on accumulated stumbles before stopping
	MaxStumbles int
}

// DefaultPolicy returns the default error handling policy: stop on any
// contract violation, tolerate a bounded number of clock stumbles.
func DefaultPolicy() *Policy {
	return &Policy{
		StopOnFall:  true,
		StopOnError: true,
		MaxStumbles: 100,
	}
}

// NewHandler creates a new error handler for a specific component.
func NewHandler(component string, policy *Policy) *Handler {
	if policy == nil {
		policy = DefaultPolicy()
	}

	return &Handler{
		component: component,
		trips:     make([]*Trip, 0),
		stumbles:  make([]*Trip, 0),
		policy:    policy,
	}
}

// Record adds an error to the handler's collection. Errors that are not
// trips are recorded as generic out-of-range trips.
func (h *Handler) Record(err error) {
	if err == nil {
		return
	}
	t, ok := As(err)
	if !ok {
		t = NewTrip(TypeOutOfRange, err.Error(), nil)
	}
	if t.Severity == Stumble {
		h.stumbles = append(h.stumbles, t)
	} else {
		h.trips = append(h.trips, t)
	}
}

// ShouldContinue determines if the host should keep driving the engine.
func (h *Handler) ShouldContinue() bool {
	for _, t := range h.trips {
		if h.policy.StopOnError {
			return false
		}
		if h.policy.StopOnFall && t.IsFall() {
			return false
		}
	}

	if h.policy.MaxStumbles > 0 && len(h.stumbles) > h.policy.MaxStumbles {
		return false
	}

	return true
}

// HasTrips returns true if any errors (non-stumbles) have been recorded.
func (h *Handler) HasTrips() bool {
	return len(h.trips) > 0
}

// HasStumbles returns true if any stumbles have been recorded.
func (h *Handler) HasStumbles() bool {
	return len(h.stumbles) > 0
}

// GetTrips returns all recorded errors.
func (h *Handler) GetTrips() []*Trip {
	return h.trips
}

// GetStumbles returns all recorded stumbles.
func (h *Handler) GetStumbles() []*Trip {
	return h.stumbles
}

// Last returns the most recent non-stumble trip, or nil.
func (h *Handler) Last() *Trip {
	if len(h.trips) == 0 {
		return nil
	}
	return h.trips[len(h.trips)-1]
}

// Summary provides a concise overview of all errors and stumbles.
func (h *Handler) Summary() string {
	if len(h.trips) == 0 && len(h.stumbles) == 0 {
		return fmt.Sprintf("[%s] No issues", h.component)
	}

	return fmt.Sprintf("[%s] %d trips, %d stumbles",
		h.component, len(h.trips), len(h.stumbles))
}

// DetailedReport provides a comprehensive report of all issues.
func (h *Handler) DetailedReport() string {
	var report strings.Builder

	report.WriteString(fmt.Sprintf("=== %s Report ===\n", h.component))
	report.WriteString(h.Summary() + "\n")

	if len(h.trips) > 0 {
		report.WriteString("\nTrips:\n")
		for i, t := range h.trips {
			report.WriteString(fmt.Sprintf("%d. %s\n", i+1, t.DetailedString()))
		}
	}

	if len(h.stumbles) > 0 {
		report.WriteString("\nStumbles:\n")
		for i, s := range h.stumbles {
			report.WriteString(fmt.Sprintf("%d. %s\n", i+1, s.DetailedString()))
		}
	}

	return report.String()
}
