package describe

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"dwellr/internal/models"
)

// ParseMetadata deserializes a model response strictly into PostMetadata.
// The response must contain a JSON object; otherwise the whole call fails.
// Within the object, unknown keys are dropped and any value that fails type
// coercion leaves its field absent rather than defaulted.
func ParseMetadata(raw string) (*models.PostMetadata, error) {
	obj := extractObject(raw)
	if obj == "" {
		return nil, fmt.Errorf("response contains no JSON object")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(obj), &fields); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}

	meta := &models.PostMetadata{}
	meta.IncludesParking = coerceBool(fields["includesParking"])
	meta.LeaseAvailabilityDate = coerceDate(fields["leaseAvailabilityDate"])
	meta.LengthOfLeaseInMonths = coerceInt(fields["lengthOfLeaseInMonths"])
	meta.PetsAllowed = coerceBool(fields["petsAllowed"])
	meta.Price = coerceFloat(fields["price"])
	meta.Sqft = coerceFloat(fields["sqft"])
	meta.GeneratedDescription = coerceString(fields["generatedDescription"])
	meta.BedroomCount = coerceInt(fields["bedroomCount"])
	meta.BathroomCount = coerceInt(fields["bathroomCount"])
	meta.Furnished = coerceBool(fields["furnished"])
	meta.Kitchen = coerceBool(fields["kitchen"])
	meta.Appliances = coerceString(fields["appliances"])
	meta.Amenities = coerceString(fields["amenities"])
	meta.Yard = coerceBool(fields["yard"])
	meta.Location = coerceString(fields["location"])
	meta.UtilitiesIncluded = coerceBool(fields["utilitiesIncluded"])
	return meta, nil
}

// extractObject returns the first balanced {...} block. Models often wrap
// JSON in prose or markdown fences.
func extractObject(raw string) string {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = inString
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return raw[start : i+1]
				}
			}
		}
	}
	return ""
}

func coerceBool(raw json.RawMessage) *bool {
	if raw == nil {
		return nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return &b
	}
	// Models occasionally quote booleans.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if parsed, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(s))); err == nil {
			return &parsed
		}
	}
	return nil
}

func coerceInt(raw json.RawMessage) *int {
	if raw == nil {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		if f == math.Trunc(f) {
			n := int(f)
			return &n
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return &n
		}
	}
	return nil
}

func coerceFloat(raw json.RawMessage) *float64 {
	if raw == nil {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return &f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		// Strip currency formatting like "$1,500".
		cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
		if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return &parsed
		}
	}
	return nil
}

func coerceString(raw json.RawMessage) *string {
	if raw == nil {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// coerceDate accepts YYYY-MM-DD or a full ISO timestamp, normalizing to the
// date-only form the client displays.
func coerceDate(raw json.RawMessage) *string {
	s := coerceString(raw)
	if s == nil {
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, *s); err == nil {
			normalized := t.Format("2006-01-02")
			return &normalized
		}
	}
	return nil
}
