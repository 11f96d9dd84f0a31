package model

import (
	"fmt"
	"strings"
)

// DecodeError reports undecodable image input. Fatal for the invocation.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode image: %v", e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// OCRUnavailableError reports that the recognition capability is missing,
// crashed, or timed out. It is always propagated as-is: the pipeline never
// substitutes fabricated output for a failed pass.
type OCRUnavailableError struct {
	Pass string // variant/mode identifier of the failing pass, if known
	Err  error
}

func (e *OCRUnavailableError) Error() string {
	if e.Pass != "" {
		return fmt.Sprintf("ocr unavailable (pass %s): %v", e.Pass, e.Err)
	}
	return fmt.Sprintf("ocr unavailable: %v", e.Err)
}

func (e *OCRUnavailableError) Unwrap() error { return e.Err }

// ConfigError reports malformed or missing rule configuration. Fatal at
// startup, before any invocation proceeds.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config: %s: %v", e.Reason, e.Err)
	}
	return "config: " + e.Reason
}

func (e *ConfigError) Unwrap() error { return e.Err }

// InvalidRecordError reports an application record that fails schema
// validation. Fatal for that single record.
type InvalidRecordError struct {
	Problems []string
}

func (e *InvalidRecordError) Error() string {
	return "invalid application record: " + strings.Join(e.Problems, "; ")
}
