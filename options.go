package shipyard

import (
	"time"

	"golang.org/x/time/rate"
)

// Options configures a Manager.
type Options struct {
	// NotifyCooldown is how long a repair notification stays up.
	// Default: 10 seconds.
	NotifyCooldown time.Duration

	// RepairCooldown is how long a player has to acknowledge a removal or
	// choose the part of the ship to keep.
	// Default: 30 seconds.
	RepairCooldown time.Duration

	// SubmitLimit and SubmitBurst throttle submissions per player.
	// Default: unlimited.
	SubmitLimit rate.Limit
	SubmitBurst int

	// Workers is the size of the scheduler pool.
	// Default: GOMAXPROCS.
	Workers int

	// PanicHandler receives panics recovered from scheduled jobs.
	// Default: nil, panics are logged.
	PanicHandler func(job string, recovered any)
}

// defaultOptions returns sensible defaults.
func defaultOptions() Options {
	return Options{
		NotifyCooldown: 10 * time.Second,
		RepairCooldown: 30 * time.Second,
		SubmitLimit:    rate.Inf,
	}
}

// Option configures a Manager.
type Option func(*Options)

// WithNotifyCooldown sets the cooldown of repair notifications.
func WithNotifyCooldown(d time.Duration) Option {
	return func(o *Options) {
		o.NotifyCooldown = d
	}
}

// WithRepairCooldown sets the cooldown of repair acknowledgements and choices.
func WithRepairCooldown(d time.Duration) Option {
	return func(o *Options) {
		o.RepairCooldown = d
	}
}

// WithSubmitRate throttles submissions of each player to limit per second
// with bursts of burst.
func WithSubmitRate(limit rate.Limit, burst int) Option {
	return func(o *Options) {
		o.SubmitLimit = limit
		o.SubmitBurst = burst
	}
}

// WithWorkers sets the size of the scheduler pool.
func WithWorkers(n int) Option {
	return func(o *Options) {
		o.Workers = n
	}
}

// WithPanicHandler sets the handler of panics recovered from scheduled jobs.
func WithPanicHandler(h func(job string, recovered any)) Option {
	return func(o *Options) {
		o.PanicHandler = h
	}
}
