package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strconv"

	"github.com/BurntSushi/toml"
)

// ConfigError reports unreadable, unparseable or invalid configuration.
type ConfigError struct {
	// Path is the offending file, or empty for problems found while
	// composing systems.
	Path string
	// Tier names the settings tier: defaults, user or campaign.
	Tier   string
	Line   int
	Column int
	Err    error
}

func (e *ConfigError) Error() string {
	loc := e.Path
	if loc != "" && e.Line > 0 {
		loc += ":" + strconv.Itoa(e.Line)
		if e.Column > 0 {
			loc += ":" + strconv.Itoa(e.Column)
		}
	}
	switch {
	case loc != "":
		return fmt.Sprintf("%s: %v", loc, e.Err)
	case e.Tier != "":
		return fmt.Sprintf("%s settings: %v", e.Tier, e.Err)
	default:
		return fmt.Sprintf("settings: %v", e.Err)
	}
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Unreadable reports whether the file could not be read at all, as opposed
// to being read and found invalid.
func (e *ConfigError) Unreadable() bool {
	var pathErr *fs.PathError
	return errors.As(e.Err, &pathErr) || errors.Is(e.Err, fs.ErrPermission)
}

// ErrExtendsCycle marks a system inheritance loop.
var ErrExtendsCycle = errors.New("extends cycle")

var yamlPosition = regexp.MustCompile(`line (\d+)(?:: column (\d+))?`)

// parseError wraps a parser failure with the best position it can find.
func parseError(tier Tier, name string, data []byte, err error) *ConfigError {
	ce := &ConfigError{Tier: tier.Name, Path: tier.path(name), Err: err}

	var syntax *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var tomlErr toml.ParseError
	switch {
	case errors.As(err, &tomlErr):
		ce.Line, ce.Column = offsetPosition(data, int64(tomlErr.Position.Start))
	case errors.As(err, &syntax):
		ce.Line, ce.Column = offsetPosition(data, syntax.Offset)
	case errors.As(err, &typeErr):
		ce.Line, ce.Column = offsetPosition(data, typeErr.Offset)
	default:
		if m := yamlPosition.FindStringSubmatch(err.Error()); m != nil {
			ce.Line, _ = strconv.Atoi(m[1])
			if m[2] != "" {
				ce.Column, _ = strconv.Atoi(m[2])
			}
		}
	}
	return ce
}

// offsetPosition converts a byte offset into a 1-based line and column.
func offsetPosition(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col := 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
