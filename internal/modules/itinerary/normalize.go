package itinerary

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
)

var (
	// ErrParse means no JSON object could be extracted from the model output.
	ErrParse = errors.New("itinerary: model output is not valid JSON")
	// ErrInvalidShape means the JSON has no usable "itinerary" array.
	ErrInvalidShape = errors.New("itinerary: model output has no itinerary array")
)

var fencePattern = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")

// Normalizer turns raw model text into an Itinerary.
// By default malformed day entries are repaired; Strict rejects them instead.
type Normalizer struct {
	Strict bool
}

// Normalize applies the lenient repair policy.
func Normalize(raw string) (*Itinerary, error) {
	return Normalizer{}.Normalize(raw)
}

func (n Normalizer) Normalize(raw string) (*Itinerary, error) {
	doc, err := extractObject(raw)
	if err != nil {
		return nil, err
	}

	days, ok := doc["itinerary"].([]any)
	if !ok {
		return nil, ErrInvalidShape
	}

	out := &Itinerary{
		Itinerary:       make([]DayPlan, 0, len(days)),
		BudgetBreakdown: decodeBreakdown(doc["budgetBreakdown"]),
		Tips:            stringList(doc["tips"]),
	}
	for i, entry := range days {
		plan, repaired := repairDay(i, entry)
		if repaired && n.Strict {
			return nil, fmt.Errorf("%w: day entry %d is incomplete", ErrInvalidShape, i+1)
		}
		out.Itinerary = append(out.Itinerary, plan)
	}
	return out, nil
}

func extractObject(raw string) (map[string]any, error) {
	text := cleanJSONString(raw)

	var doc map[string]any
	if err := json.Unmarshal([]byte(text), &doc); err == nil && doc != nil {
		return doc, nil
	}
	if block, ok := firstObject(text); ok {
		if err := json.Unmarshal([]byte(block), &doc); err == nil && doc != nil {
			return doc, nil
		}
	}
	if strings.TrimSpace(text) == "null" {
		return nil, ErrInvalidShape
	}
	return nil, ErrParse
}

// cleanJSONString removes markdown code blocks if present (e.g. ```json ... ```).
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	if m := fencePattern.FindStringSubmatch(input); m != nil {
		return m[1]
	}
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}

// firstObject returns the first balanced top-level {...} block, ignoring braces inside strings.
func firstObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// repairDay fills defaults for one day entry and reports whether anything had to be fixed.
func repairDay(index int, entry any) (DayPlan, bool) {
	fields, _ := entry.(map[string]any)
	repaired := fields == nil

	plan := DayPlan{Day: index + 1}
	if n, ok := fields["day"].(float64); ok && n >= 1 && n == math.Trunc(n) {
		plan.Day = int(n)
	} else {
		repaired = true
	}

	if title, ok := fields["title"].(string); ok && strings.TrimSpace(title) != "" {
		plan.Title = title
	} else {
		plan.Title = fmt.Sprintf("Day %d", plan.Day)
		repaired = true
	}

	if list, ok := fields["activities"].([]any); ok {
		plan.Activities = toStrings(list)
	} else {
		plan.Activities = []string{}
		repaired = true
	}

	if s, ok := fields["travelIntensity"].(string); ok && Intensity(s).Valid() {
		plan.TravelIntensity = Intensity(s)
	} else {
		plan.TravelIntensity = IntensityMedium
		repaired = true
	}

	if n, ok := fields["estimatedCost"].(float64); ok {
		if n < 0 {
			repaired = true
		}
		plan.EstimatedCost = math.Max(math.Round(n), 0)
	} else {
		repaired = true
	}

	return plan, repaired
}

func toStrings(list []any) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		switch v := item.(type) {
		case string:
			out = append(out, v)
		case nil:
		default:
			b, err := json.Marshal(v)
			if err == nil {
				out = append(out, string(b))
			}
		}
	}
	return out
}

func stringList(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func decodeBreakdown(v any) BudgetBreakdown {
	fields, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return BudgetBreakdown(fields)
}
