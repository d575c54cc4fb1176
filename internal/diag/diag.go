// Package diag collects the non-fatal findings of a transformation run.
//
// Transformers never abort a document because one schema or operation is
// malformed. They record what went wrong here and move on; the pipeline
// merges the per-unit results and logs them.
package diag

import (
	"errors"
	"fmt"
	"strings"
)

// Severity ranks a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic is a single finding.
type Diagnostic struct {
	Severity Severity
	// Code identifies the kind of finding, e.g. "schema.panic".
	Code string
	// Subject is the schema id or operation id the finding belongs to.
	Subject string
	// Field is the property, parameter or status code involved, if any.
	Field   string
	Message string
}

// String formats the diagnostic as "[subject] field: [code] message".
func (d Diagnostic) String() string {
	var prefix []string
	if d.Subject != "" {
		prefix = append(prefix, "["+d.Subject+"]")
	}
	if d.Field != "" {
		prefix = append(prefix, d.Field)
	}
	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}
	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}
	return msg
}

// Diagnostics holds findings in the order they were recorded.
type Diagnostics struct {
	Items []Diagnostic
}

func (d *Diagnostics) add(sev Severity, code, subject, field, format string, args ...any) {
	d.Items = append(d.Items, Diagnostic{
		Severity: sev,
		Code:     code,
		Subject:  subject,
		Field:    field,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Errorf records an error-level diagnostic.
func (d *Diagnostics) Errorf(code, subject, field, format string, args ...any) {
	d.add(SeverityError, code, subject, field, format, args...)
}

// Warnf records a warning-level diagnostic.
func (d *Diagnostics) Warnf(code, subject, field, format string, args ...any) {
	d.add(SeverityWarning, code, subject, field, format, args...)
}

// Infof records an info-level diagnostic.
func (d *Diagnostics) Infof(code, subject, field, format string, args ...any) {
	d.add(SeverityInfo, code, subject, field, format, args...)
}

// Merge appends other's findings.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Items = append(d.Items, other.Items...)
}

// Len returns the number of findings.
func (d Diagnostics) Len() int { return len(d.Items) }

// Filter returns the findings of the given severity.
func (d Diagnostics) Filter(sev Severity) []Diagnostic {
	var out []Diagnostic
	for _, it := range d.Items {
		if it.Severity == sev {
			out = append(out, it)
		}
	}
	return out
}

// WithCode returns the findings carrying code.
func (d Diagnostics) WithCode(code string) []Diagnostic {
	var out []Diagnostic
	for _, it := range d.Items {
		if it.Code == code {
			out = append(out, it)
		}
	}
	return out
}

// HasErrors reports whether any error-level finding was recorded.
func (d Diagnostics) HasErrors() bool {
	for _, it := range d.Items {
		if it.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Err joins the error-level findings into one error, or returns nil.
func (d Diagnostics) Err() error {
	var parts []string
	for _, it := range d.Items {
		if it.Severity == SeverityError {
			parts = append(parts, it.String())
		}
	}
	if len(parts) == 0 {
		return nil
	}
	return errors.New(strings.Join(parts, "; "))
}
