package rows

import (
	"strconv"
	"strings"
)

// Title renders the row heading for the row at the given position, using the
// repeater's title template. {index} expands to the 1-based position and
// {value} to the configured title field's current value. When the source
// value is empty, the {value} segment and its preceding separator are
// stripped, so "Item {index}: {value}" renders as "Item 1" rather than
// "Item 1: ".
func (c *Coordinator) Title(index int) string {
	row, ok := c.Row(index)
	if !ok {
		return ""
	}

	template := c.field.Constraints.RowTitle
	if strings.TrimSpace(template) == "" {
		template = "Row {index}"
	}

	value := ""
	if titleField := c.field.Constraints.RowTitleField; titleField != "" {
		value = displayValue(row.Values[titleField])
	}

	return RenderTitle(template, index, value)
}

// RenderTitle expands a row title template for the given 0-based position.
func RenderTitle(template string, index int, value string) string {
	out := strings.ReplaceAll(template, "{index}", strconv.Itoa(index+1))
	value = strings.TrimSpace(value)
	if value != "" {
		return strings.ReplaceAll(out, "{value}", value)
	}

	for {
		at := strings.Index(out, "{value}")
		if at < 0 {
			break
		}
		prefix := strings.TrimRight(out[:at], " :,-|/")
		suffix := out[at+len("{value}"):]
		if prefix == "" {
			suffix = strings.TrimLeft(suffix, " :,-|/")
		}
		out = prefix + suffix
	}
	return strings.TrimSpace(out)
}

func displayValue(raw any) string {
	switch typed := raw.(type) {
	case nil:
		return ""
	case string:
		return typed
	case int:
		return strconv.Itoa(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case bool:
		if typed {
			return "1"
		}
		return ""
	default:
		return ""
	}
}
