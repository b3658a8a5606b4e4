// Package changes computes a structured description of what changed between two
// revisions of an invitation's content.
package changes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Summary groups the edits into three buckets. It carries data only.
type Summary struct {
	TextChanges   []TextChange   `json:"textChanges" validate:"dive"`
	ArrayChanges  []ArrayChange  `json:"arrayChanges" validate:"dive"`
	ToggleChanges []ToggleChange `json:"toggleChanges" validate:"dive"`
}

type TextChange struct {
	Field    string `json:"field" validate:"required"`
	Label    string `json:"label"`
	OldValue string `json:"oldValue"`
	NewValue string `json:"newValue"`
}

type ArrayChange struct {
	Field   string `json:"field" validate:"required"`
	Label   string `json:"label"`
	Added   []Item `json:"added" validate:"dive"`
	Removed []Item `json:"removed" validate:"dive"`
}

// Item is one list element: a short human summary plus the element itself.
type Item struct {
	Summary string          `json:"summary"`
	Value   json.RawMessage `json:"value,omitempty"`
}

type ToggleChange struct {
	Field    string `json:"field" validate:"required"`
	Label    string `json:"label"`
	OldValue bool   `json:"oldValue"`
	NewValue bool   `json:"newValue"`
}

// Compute diffs two snapshots.
//
// Text fields cleared in after are not reported, and a list that was only
// reordered produces no entry.
func Compute(before, after Snapshot) Summary {
	summary := Summary{
		TextChanges:   []TextChange{},
		ArrayChanges:  []ArrayChange{},
		ToggleChanges: []ToggleChange{},
	}

	for _, field := range TextFields {
		oldValue := strings.TrimSpace(before.Text[field])
		newValue := strings.TrimSpace(after.Text[field])
		if newValue == oldValue || newValue == "" {
			continue
		}
		summary.TextChanges = append(summary.TextChanges, TextChange{
			Field:    field,
			Label:    Label(field),
			OldValue: oldValue,
			NewValue: newValue,
		})
	}

	for _, field := range ArrayFields {
		if change, ok := diffList(field, before.Arrays[field], after.Arrays[field]); ok {
			summary.ArrayChanges = append(summary.ArrayChanges, change)
		}
	}

	for _, field := range ToggleFields {
		oldValue := before.Toggles[field]
		newValue := after.Toggles[field]
		if oldValue == newValue {
			continue
		}
		summary.ToggleChanges = append(summary.ToggleChanges, ToggleChange{
			Field:    field,
			Label:    Label(field),
			OldValue: oldValue,
			NewValue: newValue,
		})
	}

	return summary
}

// IsEmpty reports whether nothing changed.
func (s Summary) IsEmpty() bool {
	return len(s.TextChanges) == 0 && len(s.ArrayChanges) == 0 && len(s.ToggleChanges) == 0
}

// Count is the number of changed fields across buckets.
func (s Summary) Count() int {
	return len(s.TextChanges) + len(s.ArrayChanges) + len(s.ToggleChanges)
}

type element struct {
	raw     json.RawMessage
	decoded any
}

func diffList(field string, before, after []json.RawMessage) (ArrayChange, bool) {
	if sameSerialization(before, after) {
		return ArrayChange{}, false
	}

	oldElems := decodeAll(before)
	newElems := decodeAll(after)

	change := ArrayChange{
		Field:   field,
		Label:   Label(field),
		Added:   missingFrom(newElems, oldElems),
		Removed: missingFrom(oldElems, newElems),
	}
	if len(change.Added) == 0 && len(change.Removed) == 0 {
		return ArrayChange{}, false
	}
	return change, true
}

func sameSerialization(a, b []json.RawMessage) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !bytes.Equal(compact(a[i]), compact(b[i])) {
			return false
		}
	}
	return true
}

func compact(raw json.RawMessage) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}

func decodeAll(raws []json.RawMessage) []element {
	out := make([]element, 0, len(raws))
	for _, raw := range raws {
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			decoded = string(raw)
		}
		out = append(out, element{raw: raw, decoded: decoded})
	}
	return out
}

// missingFrom returns the elements of src with no deep-equal counterpart in other.
func missingFrom(src, other []element) []Item {
	items := []Item{}
	for _, candidate := range src {
		found := false
		for _, existing := range other {
			if reflect.DeepEqual(candidate.decoded, existing.decoded) {
				found = true
				break
			}
		}
		if !found {
			items = append(items, Item{Summary: describe(candidate.decoded), Value: candidate.raw})
		}
	}
	return items
}

var summaryKeys = []string{"label", "name", "question", "title"}

func describe(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case map[string]any:
		text := ""
		for _, key := range summaryKeys {
			if s, ok := v[key].(string); ok && strings.TrimSpace(s) != "" {
				text = s
				break
			}
		}
		if when, ok := v["time"].(string); ok && strings.TrimSpace(when) != "" {
			if text == "" {
				return when
			}
			return when + " " + text
		}
		if text != "" {
			return text
		}
	}
	buf, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(buf)
}
