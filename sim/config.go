package sim

// Config bounds and defaults.
const (
	MaxContextSwitchOverhead = 10
	DefaultAgingFactor       = 10

	// maxSimulationTime caps a run so a policy bug cannot spin the engine
	// forever.
	maxSimulationTime = 100000
)

// Config holds the engine parameters shared by all policies.
type Config struct {
	// ContextSwitchOverhead is the number of ticks charged when the CPU
	// switches between two different processes. Range [0, 10].
	ContextSwitchOverhead int `json:"context_switch_overhead"`

	// TimeSlice is the Round-Robin quantum in ticks. Must be >= 1.
	TimeSlice int `json:"time_slice"`

	// AgingFactor divides the accumulated ready ticks when the aging
	// policy boosts a dynamic priority. Zero selects the default of 10.
	AgingFactor int `json:"aging_factor,omitempty"`
}

// Validate returns a *ConfigurationError if any parameter is out of
// range.
func (c Config) Validate() error {
	if c.ContextSwitchOverhead < 0 ||
		c.ContextSwitchOverhead > MaxContextSwitchOverhead {
		return NewConfigurationError(
			"context switch overhead %d is outside [0, %d]",
			c.ContextSwitchOverhead, MaxContextSwitchOverhead)
	}

	if c.TimeSlice < 1 {
		return NewConfigurationError(
			"time slice %d is smaller than 1", c.TimeSlice)
	}

	if c.AgingFactor < 0 {
		return NewConfigurationError(
			"aging factor %d is negative", c.AgingFactor)
	}

	return nil
}

// WithDefaults returns the config with zero-valued optional parameters
// replaced by their defaults.
func (c Config) WithDefaults() Config {
	if c.AgingFactor == 0 {
		c.AgingFactor = DefaultAgingFactor
	}
	return c
}
