package cli

import (
	"encoding/json"
	"fmt"
)

// Response is the standard JSON envelope for all CLI output.
type Response struct {
	OK       bool        `json:"ok"`
	Data     interface{} `json:"data,omitempty"`
	Error    *ErrorInfo  `json:"error,omitempty"`
	Warnings []Warning   `json:"warnings,omitempty"`
	Meta     *Meta       `json:"meta,omitempty"`
}

// ErrorInfo contains structured error information.
type ErrorInfo struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// Warning represents a non-fatal warning.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

// Meta contains metadata about the response.
type Meta struct {
	Count int `json:"count,omitempty"`
}

// outputJSON writes the response as indented JSON to stdout.
func (a *app) outputJSON(resp Response) {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(resp)
}

// outputSuccess writes a successful JSON response, with the settings
// problems as warnings.
func (a *app) outputSuccess(data interface{}, meta *Meta) {
	a.outputJSON(Response{
		OK:       true,
		Data:     data,
		Warnings: a.warnings(),
		Meta:     meta,
	})
}

// outputError writes an error JSON response.
func (a *app) outputError(code, message string, details interface{}, suggestion string) {
	a.outputJSON(Response{
		OK: false,
		Error: &ErrorInfo{
			Code:       code,
			Message:    message,
			Details:    details,
			Suggestion: suggestion,
		},
		Warnings: a.warnings(),
	})
}

// failWithDetails reports a failure whose output the command shapes itself.
// In JSON mode the details go in the error envelope; otherwise the caller
// has already printed them. Execute prints nothing more.
func (a *app) failWithDetails(code int, errCode string, err error, details interface{}) error {
	if a.jsonOutput {
		a.outputError(errCode, err.Error(), details, "")
	}
	return &ExitError{Code: code, Err: err, ErrCode: errCode, reported: true}
}

// reportError writes a failed command's error to the right stream.
func (a *app) reportError(exitErr *ExitError) {
	if exitErr.reported {
		return
	}
	if a.jsonOutput {
		a.outputError(exitErr.ErrCode, exitErr.Error(), nil, exitErr.Suggestion)
		return
	}
	fmt.Fprintln(a.errOut, "Error: "+exitErr.Error())
	if exitErr.Suggestion != "" {
		fmt.Fprintln(a.errOut, exitErr.Suggestion)
	}
}

func (a *app) warnings() []Warning {
	if a.settings == nil {
		return nil
	}
	var out []Warning
	for _, p := range a.settings.Problems() {
		out = append(out, Warning{Code: ErrConfigInvalid, Message: p.Error()})
	}
	return out
}
