package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NumberPlaceholder marks where a session or plot number goes in a file
// name pattern.
const NumberPlaceholder = "((NN))"

// Campaign is the typed view of the campaign section.
type Campaign struct {
	Name       string     `koanf:"name"`
	Systems    []string   `koanf:"systems"`
	Characters Characters `koanf:"characters"`
	Sessions   Series     `koanf:"sessions"`
	Plots      Series     `koanf:"plots"`
}

// Characters configures where character files live.
type Characters struct {
	Path         string   `koanf:"path" validate:"required"`
	PathTemplate string   `koanf:"path_template" validate:"required"`
	Ignore       []string `koanf:"ignore"`
	Suffixes     []string `koanf:"suffixes" validate:"required,min=1,dive,startswith=."`
}

// Series configures a directory of numbered files such as session notes.
type Series struct {
	Path     string `koanf:"path" validate:"required"`
	FileName string `koanf:"file_name" validate:"required,contains=((NN))"`
	Template string `koanf:"template"`
}

var validate = validator.New()

func (s *Settings) decodeCampaign() error {
	var c Campaign
	if err := s.k.Unmarshal("campaign", &c); err != nil {
		return &ConfigError{Tier: "composed", Err: fmt.Errorf("campaign: %w", err)}
	}
	if err := validate.Struct(c); err != nil {
		return &ConfigError{Tier: "composed", Err: describeValidation(err)}
	}
	s.campaign = c
	return nil
}

// DefaultSystem is the campaign's first system, or "generic".
func (c Campaign) DefaultSystem() string {
	if len(c.Systems) > 0 && c.Systems[0] != "" {
		return c.Systems[0]
	}
	return "generic"
}

func describeValidation(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		key := settingsKey(fe.Namespace())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, key+" is required")
		case "contains":
			msgs = append(msgs, fmt.Sprintf("%s must contain %s", key, fe.Param()))
		case "startswith":
			msgs = append(msgs, fmt.Sprintf("%s entries must start with %q", key, fe.Param()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s needs at least %s entries", key, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", key, fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// settingsKey turns "Campaign.Sessions.FileName" into
// "campaign.sessions.file_name".
func settingsKey(namespace string) string {
	parts := strings.Split(namespace, ".")
	for i, part := range parts {
		var b strings.Builder
		for j, r := range part {
			if r >= 'A' && r <= 'Z' {
				if j > 0 {
					b.WriteByte('_')
				}
				r += 'a' - 'A'
			}
			b.WriteRune(r)
		}
		parts[i] = b.String()
	}
	return strings.Join(parts, ".")
}
