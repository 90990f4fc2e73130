// Package log provides the section-filtered slog logger shared by braid packages.
//
// Records below Warn are only emitted when they carry a "section" attribute
// matching one of the enabled sections. Packages obtain their logger with
//
//	var logger = log.For("functor")
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"
)

var (
	mu              sync.RWMutex
	enabledSections []string
	root            = newRoot(os.Stderr, slog.LevelWarn)
)

var _ slog.Handler = &filteringHandler{}

func options(level slog.Leveler) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "time" {
				return slog.Attr{}
			}
			return a
		},
	}
}

func newRoot(w io.Writer, level slog.Leveler) slog.Handler {
	return slog.NewTextHandler(w, options(level))
}

// Configure replaces the output, minimum level and enabled sections of every
// logger handed out by For, including those created earlier.
func Configure(w io.Writer, level slog.Level, sections ...string) {
	mu.Lock()
	defer mu.Unlock()
	root = newRoot(w, level)
	enabledSections = slices.Clone(sections)
}

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels.
// Unknown names yield Warn.
func ParseLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelWarn
	}
	return level
}

// For returns a logger tagged with section.
func For(section string) *slog.Logger {
	return slog.New(&filteringHandler{}).With("section", section)
}

func sectionEnabled(name string) bool {
	return slices.ContainsFunc(enabledSections, func(section string) bool {
		return strings.HasPrefix(name, section)
	})
}

// filteringHandler resolves the root handler at Handle time so Configure
// applies to loggers created before it ran.
type filteringHandler struct {
	attrs    []slog.Attr
	groups   []string
	sections []string
}

func (f *filteringHandler) underlying() slog.Handler {
	mu.RLock()
	h := root
	mu.RUnlock()
	if len(f.attrs) > 0 {
		h = h.WithAttrs(f.attrs)
	}
	for _, g := range f.groups {
		h = h.WithGroup(g)
	}
	return h
}

func (f *filteringHandler) Enabled(ctx context.Context, level slog.Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return root.Enabled(ctx, level)
}

func (f *filteringHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level >= slog.LevelWarn {
		return f.underlying().Handle(ctx, record)
	}

	mu.RLock()
	wantSection := slices.ContainsFunc(f.sections, sectionEnabled)
	if !wantSection {
		record.Attrs(func(attr slog.Attr) bool {
			wantSection = attr.Key == "section" && sectionEnabled(attr.Value.String())
			// iterate as long as we have not found our section
			return !wantSection
		})
	}
	mu.RUnlock()

	if !wantSection {
		return nil
	}
	return f.underlying().Handle(ctx, record)
}

func (f *filteringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &filteringHandler{
		attrs:    slices.Clone(f.attrs),
		groups:   f.groups,
		sections: slices.Clone(f.sections),
	}
	// keep the section attribute in filteringHandler
	for _, attr := range attrs {
		if attr.Key == "section" {
			next.sections = append(next.sections, attr.Value.String())
		}
		next.attrs = append(next.attrs, attr)
	}
	return next
}

func (f *filteringHandler) WithGroup(name string) slog.Handler {
	return &filteringHandler{
		attrs:    f.attrs,
		groups:   append(slices.Clone(f.groups), name),
		sections: f.sections,
	}
}
