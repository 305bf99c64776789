package ai

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the controller tuning values.
type Config struct {
	// ReRollInterval is how long a mode must be held before the random re-roll.
	ReRollInterval time.Duration `toml:"reroll_interval"`
	// PathRefreshInterval limits how often a path in progress is recomputed.
	PathRefreshInterval time.Duration `toml:"path_refresh_interval"`
	EngagementRange     float64       `toml:"engagement_range"`
	// DechargeDelay is how long a target may stay out of engagement before the
	// weapon loses its charge.
	DechargeDelay time.Duration `toml:"decharge_delay"`
	StuckSpeed    float64       `toml:"stuck_speed"`
	// StuckTimeout is the time below StuckSpeed after which the controller
	// gives up and enters ModeStuck.
	StuckTimeout time.Duration `toml:"stuck_timeout"`
	// WaypointReachFactor times the mesh spacing is the distance at which a
	// waypoint counts as reached.
	WaypointReachFactor float64 `toml:"waypoint_reach_factor"`
	// StartOffsetFactor times the mesh spacing is how far ahead of the
	// vehicle a path query starts.
	StartOffsetFactor float64 `toml:"start_offset_factor"`
	HistorySize       int     `toml:"history_size"`
}

func DefaultConfig() Config {
	return Config{
		ReRollInterval:      10 * time.Second,
		PathRefreshInterval: 10 * time.Millisecond,
		EngagementRange:     50,
		DechargeDelay:       500 * time.Millisecond,
		StuckSpeed:          1,
		StuckTimeout:        100000 * time.Second,
		WaypointReachFactor: 2,
		StartOffsetFactor:   2,
		HistorySize:         64,
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.ReRollInterval <= 0 {
		errs = append(errs, fmt.Errorf("reroll_interval %v must be positive", c.ReRollInterval))
	}
	if c.PathRefreshInterval < 0 {
		errs = append(errs, fmt.Errorf("path_refresh_interval %v must not be negative", c.PathRefreshInterval))
	}
	if c.EngagementRange <= 0 {
		errs = append(errs, fmt.Errorf("engagement_range %v must be positive", c.EngagementRange))
	}
	if c.DechargeDelay < 0 {
		errs = append(errs, fmt.Errorf("decharge_delay %v must not be negative", c.DechargeDelay))
	}
	if c.StuckSpeed < 0 {
		errs = append(errs, fmt.Errorf("stuck_speed %v must not be negative", c.StuckSpeed))
	}
	if c.StuckTimeout <= 0 {
		errs = append(errs, fmt.Errorf("stuck_timeout %v must be positive", c.StuckTimeout))
	}
	if c.WaypointReachFactor <= 0 {
		errs = append(errs, fmt.Errorf("waypoint_reach_factor %v must be positive", c.WaypointReachFactor))
	}
	if c.StartOffsetFactor < 0 {
		errs = append(errs, fmt.Errorf("start_offset_factor %v must not be negative", c.StartOffsetFactor))
	}
	if c.HistorySize < 0 {
		errs = append(errs, fmt.Errorf("history_size %d must not be negative", c.HistorySize))
	}
	return errors.Join(errs...)
}
