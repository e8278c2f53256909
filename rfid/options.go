package rfid

import (
	"time"

	"go.uber.org/zap"
)

// ModuleType selects the reader hardware variant. It only affects the
// region-code mapping (the M6E Nano wants the legacy North America code).
type ModuleType int

const (
	ModuleM6ENano ModuleType = iota
	ModuleM7EHecto
)

func (m ModuleType) String() string {
	if m == ModuleM7EHecto {
		return "M7E Hecto"
	}
	return "M6E Nano"
}

// DefaultCommandTimeout bounds configuration transactions that take no
// explicit timeout.
const DefaultCommandTimeout = 2 * time.Second

// Option configures a Reader.
type Option func(*Reader)

// WithModuleType sets the hardware variant. Default is the M6E Nano.
func WithModuleType(m ModuleType) Option {
	return func(r *Reader) {
		r.module = m
	}
}

// WithLogger attaches a logger that receives frame dumps and transaction
// traces. Purely diagnostic; control flow never depends on it.
func WithLogger(log *zap.Logger) Option {
	return func(r *Reader) {
		if log != nil {
			r.log = log
		}
	}
}

// WithClock substitutes the time source used for deadlines.
func WithClock(c Clock) Option {
	return func(r *Reader) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithCommandTimeout overrides DefaultCommandTimeout for configuration
// commands.
func WithCommandTimeout(d time.Duration) Option {
	return func(r *Reader) {
		if d > 0 {
			r.timeout = d
		}
	}
}
