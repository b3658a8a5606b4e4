package changes

import (
	"fmt"
	"strings"

	pkgerrors "github.com/angelmondragon/wedsite-backend/pkg/errors"
)

// Validate checks a summary received from a client: every entry must name a
// known field of its bucket and carry an actual change, in the same terms
// Compute uses (trimmed text, no cleared fields). Missing labels are
// filled in from the static map.
func (s *Summary) Validate() error {
	problems := map[string]string{}

	for i := range s.TextChanges {
		change := &s.TextChanges[i]
		if !contains(TextFields, change.Field) {
			problems[fieldPath("textChanges", i)] = "unknown text field " + change.Field
			continue
		}
		switch {
		case strings.TrimSpace(change.NewValue) == "":
			problems[fieldPath("textChanges", i)] = "newValue is required; cleared fields are not reported"
		case strings.TrimSpace(change.OldValue) == strings.TrimSpace(change.NewValue):
			problems[fieldPath("textChanges", i)] = "old and new values are identical"
		}
		fillLabel(&change.Label, change.Field)
	}

	for i := range s.ArrayChanges {
		change := &s.ArrayChanges[i]
		if !contains(ArrayFields, change.Field) {
			problems[fieldPath("arrayChanges", i)] = "unknown list field " + change.Field
			continue
		}
		if len(change.Added) == 0 && len(change.Removed) == 0 {
			problems[fieldPath("arrayChanges", i)] = "added or removed is required"
		}
		if change.Added == nil {
			change.Added = []Item{}
		}
		if change.Removed == nil {
			change.Removed = []Item{}
		}
		fillLabel(&change.Label, change.Field)
	}

	for i := range s.ToggleChanges {
		change := &s.ToggleChanges[i]
		if !contains(ToggleFields, change.Field) {
			problems[fieldPath("toggleChanges", i)] = "unknown toggle field " + change.Field
			continue
		}
		if change.OldValue == change.NewValue {
			problems[fieldPath("toggleChanges", i)] = "toggle did not change"
		}
		fillLabel(&change.Label, change.Field)
	}

	if s.TextChanges == nil {
		s.TextChanges = []TextChange{}
	}
	if s.ArrayChanges == nil {
		s.ArrayChanges = []ArrayChange{}
	}
	if s.ToggleChanges == nil {
		s.ToggleChanges = []ToggleChange{}
	}

	if len(problems) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid change summary").WithDetails(problems)
	}
	return nil
}

func fillLabel(label *string, field string) {
	if strings.TrimSpace(*label) == "" {
		*label = Label(field)
	}
}

func fieldPath(bucket string, index int) string {
	return fmt.Sprintf("%s[%d]", bucket, index)
}
