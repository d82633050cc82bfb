package sanitize

import (
	"context"
	"math"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-fieldset/pkg/fields"
)

var (
	richTextOnce   sync.Once
	richTextPolicy *bluemonday.Policy

	hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// sanitizeScalar dispatches to the kind-specific sanitizer. Scalar sanitizers
// never fail: malformed input falls back to the field default, and a missing
// default falls back to the kind's zero value.
func sanitizeScalar(ctx context.Context, field fields.Field, raw any) any {
	switch field.Kind {
	case fields.KindText:
		return sanitizeText(raw, field.Default)
	case fields.KindTextarea:
		return sanitizeTextarea(raw, field.Default)
	case fields.KindNumber:
		return sanitizeNumber(field, raw)
	case fields.KindCheckbox:
		return truthy(raw)
	case fields.KindDate:
		return sanitizeDate(raw, field.Default)
	case fields.KindColor:
		return sanitizeColor(raw, field.Default)
	case fields.KindURL:
		return sanitizeURL(raw, field.Default)
	case fields.KindEmail:
		return sanitizeEmail(raw, field.Default)
	case fields.KindRichText:
		return sanitizeRichText(raw)
	case fields.KindSelect, fields.KindRadio:
		return sanitizeChoice(ctx, field, raw)
	case fields.KindMultiSelect:
		return sanitizeMultiChoice(ctx, field, raw)
	case fields.KindMedia:
		return sanitizeMediaID(raw)
	case fields.KindMediaList:
		return sanitizeMediaList(raw)
	case fields.KindSearch:
		return sanitizeText(raw, field.Default)
	case fields.KindSearchMulti:
		return stringList(raw)
	case fields.KindDimension:
		return sanitizeDimension(field, raw)
	default:
		return sanitizeText(raw, field.Default)
	}
}

func sanitizeText(raw, fallback any) string {
	text, ok := coerceString(raw)
	if !ok {
		text, _ = coerceString(fallback)
	}
	return strings.TrimSpace(stripControl(text))
}

// sanitizeTextarea keeps newlines and tabs but strips other control bytes.
func sanitizeTextarea(raw, fallback any) string {
	text, ok := coerceString(raw)
	if !ok {
		text, _ = coerceString(fallback)
	}
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, text)
}

// sanitizeNumber clamps to [min,max] and chooses int versus float from the
// step: a step with no fractional part yields an integer. A value that does
// not parse falls back to the default, and an absent default yields nil,
// which the row-content test reads as "no number submitted".
func sanitizeNumber(field fields.Field, raw any) any {
	num, ok := coerceFloat(raw)
	if !ok {
		num, ok = coerceFloat(field.Default)
		if !ok {
			return nil
		}
	}

	c := field.Constraints
	if c.Min != nil && num < *c.Min {
		num = *c.Min
	}
	if c.Max != nil && num > *c.Max {
		num = *c.Max
	}

	if wantsInteger(c.Step) {
		return int(math.Round(num))
	}
	return num
}

// wantsInteger reports whether the step constraint implies whole numbers.
// An unset step defaults to 1.
func wantsInteger(step *float64) bool {
	if step == nil {
		return true
	}
	return *step == math.Trunc(*step)
}

func sanitizeDate(raw, fallback any) string {
	text, _ := coerceString(raw)
	text = strings.TrimSpace(text)
	if _, err := time.Parse("2006-01-02", text); err == nil {
		return text
	}
	text, _ = coerceString(fallback)
	text = strings.TrimSpace(text)
	if _, err := time.Parse("2006-01-02", text); err == nil {
		return text
	}
	return ""
}

func sanitizeColor(raw, fallback any) string {
	text, _ := coerceString(raw)
	text = strings.TrimSpace(text)
	if text != "" && !strings.HasPrefix(text, "#") {
		text = "#" + text
	}
	if hexColor.MatchString(text) {
		return strings.ToLower(text)
	}
	text, _ = coerceString(fallback)
	if hexColor.MatchString(strings.TrimSpace(text)) {
		return strings.ToLower(strings.TrimSpace(text))
	}
	return ""
}

func sanitizeURL(raw, fallback any) string {
	text, _ := coerceString(raw)
	text = strings.TrimSpace(text)
	if cleaned, ok := cleanURL(text); ok {
		return cleaned
	}
	text, _ = coerceString(fallback)
	if cleaned, ok := cleanURL(strings.TrimSpace(text)); ok {
		return cleaned
	}
	return ""
}

func cleanURL(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	parsed, err := url.Parse(text)
	if err != nil {
		return "", false
	}
	switch parsed.Scheme {
	case "http", "https", "mailto", "tel", "":
		return parsed.String(), true
	default:
		return "", false
	}
}

func sanitizeEmail(raw, fallback any) string {
	text, _ := coerceString(raw)
	if addr, err := mail.ParseAddress(strings.TrimSpace(text)); err == nil {
		return addr.Address
	}
	text, _ = coerceString(fallback)
	if addr, err := mail.ParseAddress(strings.TrimSpace(text)); err == nil {
		return addr.Address
	}
	return ""
}

func sanitizeRichText(raw any) string {
	text, _ := coerceString(raw)
	if strings.TrimSpace(text) == "" {
		return ""
	}
	richTextOnce.Do(func() {
		richTextPolicy = bluemonday.UGCPolicy()
	})
	return strings.TrimSpace(richTextPolicy.Sanitize(text))
}

// sanitizeChoice validates membership in the freshly resolved option set.
// Invalid members fall back to the field default when the default itself is a
// member, otherwise to the empty string.
func sanitizeChoice(ctx context.Context, field fields.Field, raw any) string {
	values := resolvedValues(ctx, field)

	text, _ := coerceString(raw)
	text = strings.TrimSpace(text)
	if _, ok := values[text]; ok {
		return text
	}

	fallback, _ := coerceString(field.Default)
	fallback = strings.TrimSpace(fallback)
	if _, ok := values[fallback]; ok {
		return fallback
	}
	return ""
}

func sanitizeMultiChoice(ctx context.Context, field fields.Field, raw any) []string {
	values := resolvedValues(ctx, field)

	out := make([]string, 0, 4)
	for _, entry := range stringList(raw) {
		if _, ok := values[entry]; ok {
			out = append(out, entry)
		}
	}
	return out
}

// resolvedValues invokes the option provider fresh. Dynamic sources may
// change between requests, so the set is never cached on the field. A
// provider failure yields an empty set, which drops every submitted member.
func resolvedValues(ctx context.Context, field fields.Field) map[string]struct{} {
	provider := field.Constraints.Options
	if provider == nil {
		return nil
	}
	options, err := provider.Resolve(ctx)
	if err != nil {
		return nil
	}
	values := make(map[string]struct{}, len(options))
	for _, option := range options {
		values[option.Value] = struct{}{}
	}
	return values
}

// sanitizeMediaID accepts attachment identifiers as numbers or numeric
// strings. Anything else, including negative identifiers, becomes zero.
func sanitizeMediaID(raw any) int {
	num, ok := coerceFloat(raw)
	if !ok || num < 0 {
		return 0
	}
	return int(num)
}

func sanitizeMediaList(raw any) []int {
	entries := anyList(raw)
	out := make([]int, 0, len(entries))
	for _, entry := range entries {
		if id := sanitizeMediaID(entry); id > 0 {
			out = append(out, id)
		}
	}
	return out
}

// sanitizeDimension cleans the composite numeric-with-unit value: a record
// holding the numeric part under the companion key and the unit under
// "unit". An unrecognised unit falls back to the first declared unit.
func sanitizeDimension(field fields.Field, raw any) map[string]any {
	companion := field.Constraints.CompanionKey
	record, _ := raw.(map[string]any)

	out := make(map[string]any, 2)
	numField := fields.Field{
		Key:         companion,
		Kind:        fields.KindNumber,
		Constraints: fields.Constraints{Min: field.Constraints.Min, Max: field.Constraints.Max, Step: field.Constraints.Step},
	}
	out[companion] = sanitizeNumber(numField, record[companion])

	unit, _ := coerceString(record["unit"])
	unit = strings.TrimSpace(unit)
	if _, ok := field.Constraints.Units[unit]; !ok {
		unit = firstUnit(field.Constraints.Units)
	}
	out["unit"] = unit
	return out
}

func firstUnit(units map[string]string) string {
	first := ""
	for unit := range units {
		if first == "" || unit < first {
			first = unit
		}
	}
	return first
}

func stripControl(text string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, text)
}

func coerceString(raw any) (string, bool) {
	switch typed := raw.(type) {
	case nil:
		return "", false
	case string:
		return typed, true
	case []byte:
		return string(typed), true
	case bool:
		if typed {
			return "1", true
		}
		return "0", true
	case int:
		return strconv.Itoa(typed), true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	default:
		return "", false
	}
}

func coerceFloat(raw any) (float64, bool) {
	switch typed := raw.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return 0, false
		}
		num, err := strconv.ParseFloat(trimmed, 64)
		return num, err == nil
	default:
		return 0, false
	}
}

// stringList flattens the shapes a multi-valued submission arrives in.
func stringList(raw any) []string {
	entries := anyList(raw)
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		text, ok := coerceString(entry)
		if !ok {
			continue
		}
		text = strings.TrimSpace(text)
		if text != "" {
			out = append(out, text)
		}
	}
	return out
}

func anyList(raw any) []any {
	switch typed := raw.(type) {
	case nil:
		return nil
	case []any:
		return typed
	case []string:
		out := make([]any, 0, len(typed))
		for _, entry := range typed {
			out = append(out, entry)
		}
		return out
	case []int:
		out := make([]any, 0, len(typed))
		for _, entry := range typed {
			out = append(out, entry)
		}
		return out
	default:
		return []any{raw}
	}
}

func truthy(raw any) bool {
	switch typed := raw.(type) {
	case bool:
		return typed
	case string:
		switch strings.ToLower(strings.TrimSpace(typed)) {
		case "", "0", "false", "off", "no":
			return false
		default:
			return true
		}
	case nil:
		return false
	default:
		if num, ok := coerceFloat(raw); ok {
			return num != 0
		}
		return false
	}
}
