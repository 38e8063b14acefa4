// Package report connects the document tree's message machinery to
// structured logging. A Reporter builds system_message elements,
// mirrors them to slog, and tracks whether processing should halt.
package report

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/doctree/internal/doctree"
)

// Observer receives every system message above the debug level, e.g.
// to collect them on the document.
type Observer func(msg *doctree.Element)

// Reporter implements doctree.Reporter on top of slog.
type Reporter struct {
	log    *slog.Logger
	source string

	reportLevel doctree.MessageLevel
	haltLevel   doctree.MessageLevel

	observers []Observer

	maxLevel doctree.MessageLevel
	haltErr  error
}

// New returns a reporter for one source document. Messages at or above
// reportLevel are logged; the first message at or above haltLevel is
// remembered as the halt error.
func New(log *slog.Logger, source string, reportLevel, haltLevel doctree.MessageLevel) *Reporter {
	if log == nil {
		log = slog.Default()
	}
	return &Reporter{
		log:         log,
		source:      source,
		reportLevel: reportLevel,
		haltLevel:   haltLevel,
	}
}

// AttachObserver registers an observer for subsequent messages.
func (r *Reporter) AttachObserver(o Observer) {
	r.observers = append(r.observers, o)
}

// Threshold returns the level below which messages should be dropped
// from output.
func (r *Reporter) Threshold() doctree.MessageLevel { return r.reportLevel }

// MaxLevel returns the highest level reported so far.
func (r *Reporter) MaxLevel() doctree.MessageLevel { return r.maxLevel }

// Err returns a non-nil error once a message reached the halt level.
func (r *Reporter) Err() error { return r.haltErr }

// Report builds a system message, logs it, and notifies observers.
func (r *Reporter) Report(level doctree.MessageLevel, message string, opts ...doctree.MessageOption) *doctree.Element {
	msg := doctree.NewSystemMessage(level, message, opts...)
	if msg.GetString("source") == "" && r.source != "" {
		msg.Set("source", r.source)
		msg.SetSource(r.source)
	}
	if level > r.maxLevel {
		r.maxLevel = level
	}
	if level >= r.reportLevel {
		r.log.LogAttrs(context.Background(), slogLevel(level), message,
			slog.String("source", msg.GetString("source")),
			slog.Int("line", msg.GetInt("line")),
			slog.String("type", level.String()))
	}
	if level >= r.haltLevel && r.haltErr == nil {
		r.haltErr = fmt.Errorf("%s: %s", level, message)
	}
	if level > doctree.LevelDebug {
		for _, o := range r.observers {
			o(msg)
		}
	}
	return msg
}

func slogLevel(level doctree.MessageLevel) slog.Level {
	switch level {
	case doctree.LevelDebug:
		return slog.LevelDebug
	case doctree.LevelInfo:
		return slog.LevelInfo
	case doctree.LevelWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// Debug through Severe are shorthands for Report at a fixed level.
func (r *Reporter) Debug(message string, opts ...doctree.MessageOption) *doctree.Element {
	return r.Report(doctree.LevelDebug, message, opts...)
}

func (r *Reporter) Info(message string, opts ...doctree.MessageOption) *doctree.Element {
	return r.Report(doctree.LevelInfo, message, opts...)
}

func (r *Reporter) Warning(message string, opts ...doctree.MessageOption) *doctree.Element {
	return r.Report(doctree.LevelWarning, message, opts...)
}

func (r *Reporter) Error(message string, opts ...doctree.MessageOption) *doctree.Element {
	return r.Report(doctree.LevelError, message, opts...)
}

func (r *Reporter) Severe(message string, opts ...doctree.MessageOption) *doctree.Element {
	return r.Report(doctree.LevelSevere, message, opts...)
}
