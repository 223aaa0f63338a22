package cli

import (
	"errors"
	"fmt"

	"github.com/aurule/npc/internal/atomicfile"
	"github.com/aurule/npc/internal/campaign"
	"github.com/aurule/npc/internal/pages"
	"github.com/aurule/npc/internal/reorg"
	"github.com/aurule/npc/internal/resolver"
	"github.com/aurule/npc/internal/settings"
)

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Campaign errors
	ErrCampaignNotFound = "CAMPAIGN_NOT_FOUND"
	ErrCampaignExists   = "CAMPAIGN_EXISTS"

	// Settings errors
	ErrConfigUnreadable = "CONFIG_UNREADABLE"
	ErrConfigInvalid    = "CONFIG_INVALID"
	ErrKeyNotFound      = "KEY_NOT_FOUND"
	ErrSystemNotFound   = "SYSTEM_NOT_FOUND"

	// Character errors
	ErrTypeNotFound     = "TYPE_NOT_FOUND"
	ErrCharacterExists  = "CHARACTER_EXISTS"
	ErrValidationFailed = "VALIDATION_FAILED"

	// Path errors
	ErrTemplateInvalid = "PATH_TEMPLATE_INVALID"
	ErrReorgConflict   = "REORG_CONFLICT"

	// File errors
	ErrFileReadError  = "FILE_READ_ERROR"
	ErrFileWriteError = "FILE_WRITE_ERROR"

	// Input errors
	ErrInvalidInput = "INVALID_INPUT"

	ErrInternal = "INTERNAL_ERROR"
)

// Process exit codes.
const (
	ExitOK         = 0
	ExitUnreadable = 4
	ExitConfig     = 5
	ExitFailure    = 6
)

// ExitError carries the exit code and structured error code for a failed
// command. Only main turns it into a process exit.
type ExitError struct {
	Code int
	Err  error

	// ErrCode is the stable code shown in JSON output.
	ErrCode    string
	Suggestion string

	// reported is set when the command already wrote its own failure
	// output.
	reported bool
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	var cfgErr *settings.ConfigError
	if errors.As(err, &cfgErr) {
		if cfgErr.Unreadable() {
			return ExitUnreadable
		}
		return ExitConfig
	}
	return ExitFailure
}

// classify wraps err in an ExitError with the code and exit status its type
// calls for. An ExitError passes through unchanged.
func classify(err error) *ExitError {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}

	var (
		cfgErr      *settings.ConfigError
		conflictErr *reorg.ConflictError
		templateErr *resolver.TemplateError
	)
	switch {
	case errors.As(err, &cfgErr):
		if cfgErr.Unreadable() {
			return &ExitError{Code: ExitUnreadable, Err: err, ErrCode: ErrConfigUnreadable}
		}
		return &ExitError{Code: ExitConfig, Err: err, ErrCode: ErrConfigInvalid,
			Suggestion: "Fix the settings file and run 'npc settings problems'"}
	case errors.Is(err, campaign.ErrNoCampaign):
		return &ExitError{Code: ExitUnreadable, Err: err, ErrCode: ErrCampaignNotFound,
			Suggestion: "Run 'npc init' to create a campaign here, or pass --campaign"}
	case errors.As(err, &conflictErr):
		return &ExitError{Code: ExitFailure, Err: err, ErrCode: ErrReorgConflict,
			Suggestion: "Rename or retag one of the characters, then run reorg again"}
	case errors.As(err, &templateErr):
		return &ExitError{Code: ExitConfig, Err: err, ErrCode: ErrTemplateInvalid}
	case errors.Is(err, pages.ErrExists), errors.Is(err, atomicfile.ErrExists):
		return &ExitError{Code: ExitFailure, Err: err, ErrCode: ErrCharacterExists}
	case errors.Is(err, pages.ErrTagInDescription):
		return &ExitError{Code: ExitFailure, Err: err, ErrCode: ErrInvalidInput,
			Suggestion: "Indent the line or reword it so it does not start with @"}
	}
	return &ExitError{Code: ExitFailure, Err: err, ErrCode: ErrInternal}
}

// configError marks err as invalid configuration.
func configError(err error) *ExitError {
	return &ExitError{Code: ExitConfig, Err: err, ErrCode: ErrConfigInvalid}
}

// inputError marks err as bad command-line input.
func inputError(err error) *ExitError {
	return &ExitError{Code: ExitFailure, Err: err, ErrCode: ErrInvalidInput}
}
