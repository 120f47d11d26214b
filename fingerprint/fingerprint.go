// Copyright (c) 2025 Barto95100.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package fingerprint

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var ErrInvalid = errors.New("invalid fingerprint")

// DuplicateThreshold is the similarity score at or above which two
// fingerprints are treated as the same device.
const DuplicateThreshold = 0.5

// criticalComponents are the fingerprint fields considered strong
// same-device evidence. A deviceId match, or three or more matches
// among these, short-circuits the similarity score to 1.0.
var criticalComponents = []string{
	"deviceId",
	"hardwareConcurrency",
	"deviceMemory",
	"platform",
	"canvas",
}

// Components is the normalized fingerprint: component name to value.
// Values keep their decoded JSON types (string, float64, bool, nested
// map/slice); equality is always on the canonical string rendering.
type Components map[string]any

// Envelope is a validated client fingerprint payload.
type Envelope struct {
	Components Components
	serialized string
}

// Serialized returns the canonical JSON serialization of the whole
// envelope. This is the input to voter identity derivation.
func (e Envelope) Serialized() string {
	return e.serialized
}

// Normalize validates a raw client fingerprint payload and returns its
// canonical form. The payload may be a JSON object or a string holding
// serialized JSON; either way it must carry a "components" object.
// Pure: no side effects.
func Normalize(raw any) (Envelope, error) {
	var envelope map[string]any

	switch v := raw.(type) {
	case nil:
		return Envelope{}, fmt.Errorf("%w: missing payload", ErrInvalid)
	case string:
		if err := json.Unmarshal([]byte(v), &envelope); err != nil {
			return Envelope{}, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	case []byte:
		if err := json.Unmarshal(v, &envelope); err != nil {
			return Envelope{}, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	case json.RawMessage:
		if err := json.Unmarshal(v, &envelope); err != nil {
			return Envelope{}, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	case map[string]any:
		envelope = v
	default:
		return Envelope{}, fmt.Errorf("%w: unsupported payload type %T", ErrInvalid, raw)
	}

	rawComponents, ok := envelope["components"]
	if !ok {
		return Envelope{}, fmt.Errorf("%w: missing components", ErrInvalid)
	}
	components, ok := rawComponents.(map[string]any)
	if !ok {
		return Envelope{}, fmt.Errorf("%w: components is not an object", ErrInvalid)
	}

	// encoding/json sorts map keys, so this serialization is canonical.
	serialized, err := json.Marshal(envelope)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	return Envelope{
		Components: Components(components),
		serialized: string(serialized),
	}, nil
}

// ParseComponents reconstructs a normalized component mapping from its
// stored serialization.
func ParseComponents(serialized string) (Components, error) {
	var components Components
	if err := json.Unmarshal([]byte(serialized), &components); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return components, nil
}

// Serialize renders a component mapping for storage, reconstructible
// via ParseComponents.
func (c Components) Serialize() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to serialize components: %w", err)
	}
	return string(data), nil
}

// Similarity scores how likely two fingerprints belong to the same
// device, in [0, 1]:
//
//  1. If deviceId is present in both and equal, or 3+ critical
//     components match, the score is 1.0.
//  2. Otherwise the score is the fraction of matching values over the
//     keys both fingerprints share (0.0 when they share none).
//
// All equality is on the canonical string rendering, so a numeric 3 and
// a textual "3" match.
func Similarity(a, b Components) float64 {
	criticalMatches := 0
	for _, key := range criticalComponents {
		av, aok := a[key]
		bv, bok := b[key]
		if aok && bok && Render(av) == Render(bv) {
			criticalMatches++
		}
	}

	aID, aok := a["deviceId"]
	bID, bok := b["deviceId"]
	if (aok && bok && Render(aID) == Render(bID)) || criticalMatches >= 3 {
		return 1.0
	}

	commonKeys := 0
	matches := 0
	for key, av := range a {
		bv, ok := b[key]
		if !ok {
			continue
		}
		commonKeys++
		if Render(av) == Render(bv) {
			matches++
		}
	}
	if commonKeys == 0 {
		return 0.0
	}

	return float64(matches) / float64(commonKeys)
}

// IsDuplicate reports whether the new fingerprint matches any of the
// fingerprints already recorded, at DuplicateThreshold or above.
func IsDuplicate(next Components, existing []Components) bool {
	for _, prior := range existing {
		if Similarity(next, prior) >= DuplicateThreshold {
			return true
		}
	}
	return false
}

// Render produces the canonical string form of a component value.
// Scalars render bare (numbers in shortest decimal form); nested
// structures render as compact JSON with sorted keys.
func Render(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var sb strings.Builder
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(k)
			sb.WriteByte(':')
			sb.WriteString(Render(val[k]))
		}
		sb.WriteByte('}')
		return sb.String()
	case []any:
		var sb strings.Builder
		sb.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(Render(item))
		}
		sb.WriteByte(']')
		return sb.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
