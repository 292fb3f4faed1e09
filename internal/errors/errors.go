// Package errors provides typed errors for pronghorn.
package errors

import "fmt"

// ErrorCode identifies the type of error.
type ErrorCode string

const (
	ErrConfigNotFound  ErrorCode = "CONFIG_NOT_FOUND"
	ErrConfigInvalid   ErrorCode = "CONFIG_INVALID"
	ErrInputNotFound   ErrorCode = "INPUT_NOT_FOUND"
	ErrPackInvalid     ErrorCode = "PACK_INVALID"
	ErrPackFetchFailed ErrorCode = "PACK_FETCH_FAILED"
	ErrNoPackSource    ErrorCode = "NO_PACK_SOURCE"
	ErrStateCorrupt    ErrorCode = "STATE_CORRUPT"
)

// PronghornError represents a typed error with user-friendly hints.
type PronghornError struct {
	Code    ErrorCode
	Message string
	Hint    string
	Cause   error
}

func (e *PronghornError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *PronghornError) Unwrap() error {
	return e.Cause
}

// New creates a new PronghornError.
func New(code ErrorCode, message, hint string) *PronghornError {
	return &PronghornError{
		Code:    code,
		Message: message,
		Hint:    hint,
	}
}

// Wrap creates a new PronghornError wrapping an existing error.
func Wrap(code ErrorCode, message, hint string, cause error) *PronghornError {
	return &PronghornError{
		Code:    code,
		Message: message,
		Hint:    hint,
		Cause:   cause,
	}
}

// ConfigNotFound returns an error for missing config file.
func ConfigNotFound(path string) *PronghornError {
	return &PronghornError{
		Code:    ErrConfigNotFound,
		Message: fmt.Sprintf("config file not found: %s", path),
		Hint:    "Run `pronghorn init` to create a configuration",
	}
}

// ConfigInvalid returns an error for invalid config.
func ConfigInvalid(reason string) *PronghornError {
	return &PronghornError{
		Code:    ErrConfigInvalid,
		Message: fmt.Sprintf("invalid config: %s", reason),
		Hint:    "Check your config file at ~/.config/pronghorn/config.yaml",
	}
}

// InputNotFound returns an error for a missing input file.
func InputNotFound(path string, cause error) *PronghornError {
	return &PronghornError{
		Code:    ErrInputNotFound,
		Message: fmt.Sprintf("cannot read input: %s", path),
		Hint:    "Pass a readable file path, or pipe content on stdin",
		Cause:   cause,
	}
}

// PackInvalid returns an error for a malformed mapping pack.
func PackInvalid(path string, cause error) *PronghornError {
	return &PronghornError{
		Code:    ErrPackInvalid,
		Message: fmt.Sprintf("invalid mapping pack: %s", path),
		Hint:    "Mapping packs are YAML files with `tags:` and `phrases:` maps",
		Cause:   cause,
	}
}

// PackFetchFailed returns an error for pack sync failures.
func PackFetchFailed(repo string, cause error) *PronghornError {
	return &PronghornError{
		Code:    ErrPackFetchFailed,
		Message: fmt.Sprintf("failed to fetch mapping packs from %s", repo),
		Hint:    "Check that the repository exists and you have access",
		Cause:   cause,
	}
}

// NoPackSource returns an error when sync is run without a configured source.
func NoPackSource() *PronghornError {
	return &PronghornError{
		Code:    ErrNoPackSource,
		Message: "no mapping pack source configured",
		Hint:    "Set `packs.source: owner/repo` in your config",
	}
}
