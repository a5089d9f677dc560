package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyLocale     = "locale"
	KeyPrefix     = "prefix"
	KeyPage       = "page"
	KeyKey        = "key"
	KeyPlugin     = "plugin"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyCount      = "count"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Locale(l string) slog.Attr       { return slog.String(KeyLocale, l) }
func Prefix(p string) slog.Attr       { return slog.String(KeyPrefix, p) }
func Page(p string) slog.Attr         { return slog.String(KeyPage, p) }
func Key(k string) slog.Attr          { return slog.String(KeyKey, k) }
func Plugin(name string) slog.Attr    { return slog.String(KeyPlugin, name) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
