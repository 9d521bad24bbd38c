package shipyard

import (
	"log/slog"

	"github.com/leonelquinteros/gotext"
)

// Builder configures a Manager before initialization.
// Use NewBuilder() to create a builder and chain configuration methods.
type Builder struct {
	options   []Option
	observers []any
	logger    *slog.Logger
	locale    *gotext.Locale
	domain    string
}

// NewBuilder creates a new builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Options adds manager options.
func (b *Builder) Options(opts ...Option) *Builder {
	b.options = append(b.options, opts...)
	return b
}

// Observer registers an event observer.
//
// Example:
//
//	builder.Observer(&RepairLog{})
func (b *Builder) Observer(h any) *Builder {
	b.observers = append(b.observers, h)
	return b
}

// Logger sets the logger. Defaults to slog.Default().
func (b *Builder) Logger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

// Locale loads the prompt catalogue of lang from lib for the given domain.
// Without a locale prompts are rendered through the gotext package defaults.
func (b *Builder) Locale(lib, lang, domain string) *Builder {
	l := gotext.NewLocale(lib, lang)
	l.AddDomain(domain)
	b.locale = l
	b.domain = domain
	return b
}

// Init initializes the manager with the configured settings and starts its
// scheduler. Multiple Manager instances can coexist in one process.
func (b *Builder) Init() *Manager {
	opts := defaultOptions()
	for _, opt := range b.options {
		opt(&opts)
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	m := newManager(opts, logger, b.locale, b.domain)
	for _, h := range b.observers {
		if err := m.Observe(h); err != nil {
			panic("shipyard: failed to register observer: " + err.Error())
		}
	}

	m.scheduler.Start()
	return m
}
