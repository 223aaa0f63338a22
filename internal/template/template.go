// Package template provides template loading and variable substitution for
// character sheets and session files.
package template

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the format of {{date}}.
const DateLayout = "2006-01-02"

// Variables holds the available template variables for substitution.
type Variables struct {
	// Name is the character name passed to npc new
	Name string
	// Type is the character type key
	Type string
	// Number is the session or plot number
	Number string
	// Date is today's date (YYYY-MM-DD)
	Date string
	// Year is the current year
	Year string
	// Month is the current month (2 digit)
	Month string
	// Day is the current day (2 digit)
	Day string
	// Weekday is the day name (Monday, Tuesday, etc.)
	Weekday string
	// Fields are tag values from --tag flags
	Fields map[string]string
}

// NewVariables creates Variables for a new character. Date fields are
// populated with the current time.
func NewVariables(name, typeName string, fields map[string]string) *Variables {
	vars := dated(time.Now())
	vars.Name = name
	vars.Type = typeName
	vars.Fields = fields
	return vars
}

// NewSessionVariables creates Variables for a numbered session or plot file.
func NewSessionVariables(number int, date time.Time) *Variables {
	vars := dated(date)
	vars.Number = strconv.Itoa(number)
	vars.Fields = make(map[string]string)
	return vars
}

func dated(date time.Time) *Variables {
	return &Variables{
		Date:    date.Format(DateLayout),
		Year:    date.Format("2006"),
		Month:   date.Format("01"),
		Day:     date.Format("02"),
		Weekday: date.Weekday().String(),
	}
}

// Load reads a template file. Relative paths are resolved under root and
// may not leave it. An empty spec loads nothing.
func Load(root, spec string) (string, error) {
	if strings.TrimSpace(spec) == "" {
		return "", nil
	}
	if strings.ContainsAny(spec, "\r\n") {
		return "", fmt.Errorf("template file path cannot contain newlines")
	}

	path := filepath.Clean(spec)
	if !filepath.IsAbs(path) {
		rel := filepath.ToSlash(path)
		if rel == ".." || strings.HasPrefix(rel, "../") {
			return "", fmt.Errorf("template file path cannot escape the campaign: %s", spec)
		}
		path = filepath.Join(root, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("template file not found: %s", spec)
		}
		return "", err
	}
	return string(content), nil
}

// Apply substitutes template variables in the content.
// Variables use {{name}} syntax. Unknown variables are left as-is.
// Escaped variables \{{name}} are converted to literal {{name}}.
func Apply(content string, vars *Variables) string {
	if content == "" || vars == nil {
		return content
	}

	content = strings.ReplaceAll(content, "\\{{", "«NPC_ESC_OPEN»")
	content = strings.ReplaceAll(content, "\\}}", "«NPC_ESC_CLOSE»")

	replacements := map[string]string{
		"{{name}}":    vars.Name,
		"{{type}}":    vars.Type,
		"{{number}}":  vars.Number,
		"{{date}}":    vars.Date,
		"{{year}}":    vars.Year,
		"{{month}}":   vars.Month,
		"{{day}}":     vars.Day,
		"{{weekday}}": vars.Weekday,
	}
	for placeholder, value := range replacements {
		content = strings.ReplaceAll(content, placeholder, value)
	}

	// {{tag.X}}
	for name, value := range vars.Fields {
		content = strings.ReplaceAll(content, "{{tag."+name+"}}", value)
	}

	content = strings.ReplaceAll(content, "«NPC_ESC_OPEN»", "{{")
	content = strings.ReplaceAll(content, "«NPC_ESC_CLOSE»", "}}")

	return content
}
