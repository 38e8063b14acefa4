// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/doctree/internal/doctree"
)

type Config struct {
	Port string

	// Auth. Empty means the API is open.
	APIKey string

	// Upload limits
	MaxUploadBytes int64

	ShutdownTimeout time.Duration

	// PDF
	PDFFallbackPdftotext bool

	// Document processing
	IDPrefix      string
	AutoIDPrefix  string
	LanguageCode  string
	ReportLevel   doctree.MessageLevel
	HaltLevel     doctree.MessageLevel
	StrictVisitor bool

	StripComments   bool
	StripClasses    []string
	StripElements   []string
	ExposeInternals []string
	SmartQuotes     bool

	Generator  bool
	Datestamp  string
	SourceLink bool
	SourceURL  string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("DOCTREE_API_KEY"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		IDPrefix:      os.Getenv("ID_PREFIX"),
		AutoIDPrefix:  envOr("AUTO_ID_PREFIX", "%"),
		LanguageCode:  envOr("LANGUAGE_CODE", "en"),
		ReportLevel:   envLevel("REPORT_LEVEL", doctree.LevelWarning),
		HaltLevel:     envLevel("HALT_LEVEL", doctree.LevelSevere),
		StrictVisitor: envBool("STRICT_VISITOR", false),

		StripComments:   envBool("STRIP_COMMENTS", false),
		StripClasses:    envList("STRIP_CLASSES"),
		StripElements:   envList("STRIP_ELEMENTS_WITH_CLASSES"),
		ExposeInternals: envList("EXPOSE_INTERNALS"),
		SmartQuotes:     envBool("SMART_QUOTES", false),

		Generator:  envBool("GENERATOR", false),
		Datestamp:  os.Getenv("DATESTAMP"),
		SourceLink: envBool("SOURCE_LINK", false),
		SourceURL:  os.Getenv("SOURCE_URL"),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	return cfg
}

// Doc maps the configuration onto document tree settings.
func (c Config) Doc() doctree.Settings {
	return doctree.Settings{
		IDPrefix:        c.IDPrefix,
		AutoIDPrefix:    c.AutoIDPrefix,
		LanguageCode:    c.LanguageCode,
		ReportLevel:     c.ReportLevel,
		HaltLevel:       c.HaltLevel,
		StrictVisitor:   c.StrictVisitor,
		StripComments:   c.StripComments,
		StripClasses:    c.StripClasses,
		StripElements:   c.StripElements,
		ExposeInternals: c.ExposeInternals,
		SmartQuotes:     c.SmartQuotes,
		Generator:       c.Generator,
		Datestamp:       c.Datestamp,
		SourceLink:      c.SourceLink,
		SourceURL:       c.SourceURL,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envLevel(key string, fallback doctree.MessageLevel) doctree.MessageLevel {
	if v := os.Getenv(key); v != "" {
		if l, err := doctree.ParseMessageLevel(v); err == nil {
			return l
		}
	}
	return fallback
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
