// Package env models time-varying environments: obstacles that exist
// on activity schedules, optionally repeat, and optionally translate,
// plus the Environment and the query-optimized Instance the roadmap
// builder runs against.
package env

// Recurrence describes how an obstacle's activity interval repeats.
type Recurrence int

const (
	// None means the activity interval occurs exactly once.
	None Recurrence = iota
	// Minutely repeats the activity interval every 60 seconds.
	Minutely
	// Hourly repeats the activity interval every 3600 seconds.
	Hourly
	// Daily repeats the activity interval every 86400 seconds.
	Daily
)

func (r Recurrence) String() string {
	return [...]string{"none", "minutely", "hourly", "daily"}[r]
}

// Seconds returns the repetition period, 0 for None.
func (r Recurrence) Seconds() float64 {
	switch r {
	case Minutely:
		return 60
	case Hourly:
		return 3600
	case Daily:
		return 86400
	default:
		return 0
	}
}

// ParseRecurrence maps the serialized name back to a Recurrence.
func ParseRecurrence(s string) (Recurrence, bool) {
	switch s {
	case "", "none":
		return None, true
	case "minutely":
		return Minutely, true
	case "hourly":
		return Hourly, true
	case "daily":
		return Daily, true
	default:
		return None, false
	}
}
