package sanitize

import (
	"strings"

	"github.com/goliatone/go-fieldset/pkg/fields"
)

// Meaningful reports whether a sanitized value carries content worth keeping.
// A repeater row survives the content test only if at least one of its
// members is meaningful; rows failing the test are dropped, not emptied.
func Meaningful(field fields.Field, value any) bool {
	switch field.Kind {
	case fields.KindCheckbox:
		checked, _ := value.(bool)
		return checked
	case fields.KindNumber:
		// sanitizeNumber yields nil when nothing numeric was submitted.
		return value != nil
	case fields.KindMedia:
		id, _ := value.(int)
		return id > 0
	case fields.KindMediaList:
		ids, _ := value.([]int)
		return len(ids) > 0
	case fields.KindMultiSelect, fields.KindSearchMulti:
		entries, _ := value.([]string)
		return len(entries) > 0
	case fields.KindDimension:
		record, _ := value.(map[string]any)
		for key, member := range record {
			if key == "unit" {
				continue
			}
			if member != nil {
				return true
			}
		}
		return false
	case fields.KindGroup:
		record, _ := value.(map[string]any)
		for _, child := range field.Children {
			if member, ok := record[child.Key]; ok && Meaningful(child, member) {
				return true
			}
		}
		return false
	case fields.KindRepeater:
		rows, _ := value.([]map[string]any)
		return len(rows) > 0
	default:
		text, _ := value.(string)
		return strings.TrimSpace(text) != ""
	}
}
