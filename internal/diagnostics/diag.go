package diagnostics

import "time"

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

// Codes emitted by the worker session and the process shell.
const (
	SetupDone            = "SETUP.DONE"
	SetupRepeated        = "SETUP.REPEATED"
	FrameSourceAnnounced = "FRAMESOURCE.ANNOUNCED"
	MessageIgnored       = "MESSAGE.IGNORED"
	PatternUpdated       = "PATTERN.UPDATED"
	DriverFallback       = "DRIVER.FALLBACK"
)

type Diagnostic struct {
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
	At             time.Time      `json:"at"`
}

// New stamps a diagnostic with the current time.
func New(sev Severity, code, summary string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Summary: summary, At: time.Now()}
}

// With returns d with key=value added to its evidence.
func (d Diagnostic) With(key string, value any) Diagnostic {
	ev := make(map[string]any, len(d.Evidence)+1)
	for k, v := range d.Evidence {
		ev[k] = v
	}
	ev[key] = value
	d.Evidence = ev
	return d
}

// Reporter receives diagnostics. It must not block.
type Reporter func(Diagnostic)

// Discard is a Reporter that drops everything.
func Discard(Diagnostic) {}
