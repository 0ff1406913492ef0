package lifecycle

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Jayasakthi-07/foodie/internal/domain/model"
)

var (
	ErrTimelineStart      = errors.New("timeline must start at zero")
	ErrTimelineDecreasing = errors.New("timeline thresholds must not decrease")
	ErrTimelineEntry      = errors.New("malformed timeline entry")
)

// Timeline maps order age to the status the order should have reached.
// Thresholds are indexed by Progression.
type Timeline struct {
	thresholds [len(Progression)]time.Duration
}

// DefaultTimeline is the schedule used when nothing else is configured.
var DefaultTimeline = Timeline{thresholds: [len(Progression)]time.Duration{
	0,
	30 * time.Second,
	60 * time.Second,
	90 * time.Second,
	120 * time.Second,
	180 * time.Second,
}}

// NewTimeline builds a timeline from explicit thresholds in Progression order.
func NewTimeline(thresholds ...time.Duration) (Timeline, error) {
	var tl Timeline
	if len(thresholds) != len(tl.thresholds) {
		return Timeline{}, fmt.Errorf("timeline needs %d thresholds, got %d", len(tl.thresholds), len(thresholds))
	}
	copy(tl.thresholds[:], thresholds)
	if err := tl.Validate(); err != nil {
		return Timeline{}, err
	}
	return tl, nil
}

// Validate checks the pending threshold is zero and thresholds never decrease.
func (t Timeline) Validate() error {
	if t.thresholds[0] != 0 {
		return ErrTimelineStart
	}
	for i := 1; i < len(t.thresholds); i++ {
		if t.thresholds[i] < t.thresholds[i-1] {
			return fmt.Errorf("%w: %s before %s", ErrTimelineDecreasing, Progression[i], Progression[i-1])
		}
	}
	return nil
}

// Threshold returns the age at which status is reached.
func (t Timeline) Threshold(status model.OrderStatus) (time.Duration, bool) {
	rank := Rank(status)
	if rank < 0 {
		return 0, false
	}
	return t.thresholds[rank], true
}

// StatusAt returns the last status whose threshold is at or below age.
func (t Timeline) StatusAt(age time.Duration) model.OrderStatus {
	status := Progression[0]
	for i, threshold := range t.thresholds {
		if age < threshold {
			break
		}
		status = Progression[i]
	}
	return status
}

// NextTransition returns the status following the one reached at age and how
// long until it is due. ok is false once the final status is reached.
func (t Timeline) NextTransition(age time.Duration) (next model.OrderStatus, in time.Duration, ok bool) {
	for i, threshold := range t.thresholds {
		if age < threshold {
			return Progression[i], threshold - age, true
		}
	}
	return "", 0, false
}

// String renders the timeline in the form accepted by ParseTimeline.
func (t Timeline) String() string {
	parts := make([]string, 0, len(t.thresholds)-1)
	for i := 1; i < len(t.thresholds); i++ {
		parts = append(parts, fmt.Sprintf("%s=%s", Progression[i], t.thresholds[i]))
	}
	return strings.Join(parts, ",")
}

// MarshalText implements encoding.TextMarshaler.
func (t Timeline) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Timeline) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeline(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTimeline reads "confirmed=30s,preparing=1m,..." entries on top of
// DefaultTimeline. Statuses left out keep their default threshold.
func ParseTimeline(raw string) (Timeline, error) {
	tl := DefaultTimeline
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return tl, nil
	}

	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, value, found := strings.Cut(entry, "=")
		if !found {
			return Timeline{}, fmt.Errorf("%w: %q", ErrTimelineEntry, entry)
		}
		rank := Rank(model.OrderStatus(strings.TrimSpace(name)))
		if rank < 0 {
			return Timeline{}, fmt.Errorf("%w: unknown status %q", ErrTimelineEntry, name)
		}
		d, err := time.ParseDuration(strings.TrimSpace(value))
		if err != nil {
			return Timeline{}, fmt.Errorf("%w: %q: %v", ErrTimelineEntry, entry, err)
		}
		tl.thresholds[rank] = d
	}

	if err := tl.Validate(); err != nil {
		return Timeline{}, err
	}
	return tl, nil
}
