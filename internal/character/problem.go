package character

import "fmt"

// Kind classifies a validation problem.
type Kind string

const (
	KindMissing            Kind = "missing"
	KindEmpty              Kind = "empty"
	KindForbiddenValue     Kind = "forbidden_value"
	KindTooFew             Kind = "too_few"
	KindTooMany            Kind = "too_many"
	KindDeprecated         Kind = "deprecated"
	KindReplaced           Kind = "replaced"
	KindUnknownTag         Kind = "unknown_tag"
	KindSubtagOrphan       Kind = "subtag_orphan"
	KindBadType            Kind = "bad_type"
	KindMissingDescription Kind = "missing_description"

	// KindNotValidated marks a record that has not been through the linter.
	KindNotValidated Kind = "not_validated"
)

// Problem is one validation error on a character. Problems are recorded on
// the record and never raised.
type Problem struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	TagName string `json:"tag,omitempty"`
	Value   string `json:"value,omitempty"`
}

// NotValidated is the placeholder problem of a fresh record.
var NotValidated = Problem{Kind: KindNotValidated, Message: "Not yet validated"}

func (p Problem) Error() string {
	return p.Message
}

func (p Problem) String() string {
	if p.TagName == "" {
		return fmt.Sprintf("%s: %s", p.Kind, p.Message)
	}
	return fmt.Sprintf("%s (@%s): %s", p.Kind, p.TagName, p.Message)
}
