package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// MergeOver decodes persisted profile data on top of base. Keys present in
// data win; keys missing from data keep the value they have in base, so
// records written before a field existed still load.
func MergeOver(base Profile, data []byte) (Profile, error) {
	out := base.Clone()
	if len(data) == 0 || string(data) == "null" {
		return out, nil
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return out, fmt.Errorf("decode profile data: %w", err)
	}
	normalizeLegacy(raw)

	b, err := json.Marshal(raw)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return base.Clone(), fmt.Errorf("decode profile data: %w", err)
	}
	if out.Projects == nil {
		out.Projects = []Project{}
	}
	if out.Experiences == nil {
		out.Experiences = []Experience{}
	}
	EnsureIDs(&out)
	return out, nil
}

// FromRecordData merges persisted data over Defaults.
func FromRecordData(data []byte) (Profile, error) {
	return MergeOver(Defaults(), data)
}

// normalizeLegacy rewrites older input shapes into the current ones:
// certifications as a list, bullets as lists and null lists.
func normalizeLegacy(m map[string]interface{}) {
	if c, ok := m["certifications"]; ok {
		switch t := c.(type) {
		case []interface{}:
			m["certifications"] = joinLines(t)
		case nil:
			delete(m, "certifications")
		}
	}

	for _, key := range []string{"projects", "experiences"} {
		v, ok := m[key]
		if !ok {
			continue
		}
		items, ok := v.([]interface{})
		if !ok {
			delete(m, key)
			continue
		}
		for _, it := range items {
			obj, ok := it.(map[string]interface{})
			if !ok {
				continue
			}
			for _, field := range []string{"contributions", "description"} {
				if arr, ok := obj[field].([]interface{}); ok {
					obj[field] = joinLines(arr)
				}
			}
		}
	}

	for _, key := range []string{"personalDetails", "education", "skills"} {
		switch v := m[key].(type) {
		case nil:
			delete(m, key)
		case map[string]interface{}:
			stringifyScalars(v)
		}
	}
	stringifyScalars(m)
}

// stringifyScalars turns numbers and booleans into strings so a gradYear
// stored as 2024 still decodes into a string field.
func stringifyScalars(m map[string]interface{}) {
	for k, v := range m {
		switch t := v.(type) {
		case float64, bool:
			m[k] = fmt.Sprintf("%v", t)
		}
	}
}

func joinLines(items []interface{}) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case string:
			lines = append(lines, v)
		case map[string]interface{}:
			if s, ok := v["name"].(string); ok {
				lines = append(lines, s)
				continue
			}
			lines = append(lines, fmt.Sprintf("%v", v))
		default:
			lines = append(lines, fmt.Sprintf("%v", v))
		}
	}
	return strings.Join(lines, "\n")
}

// EnsureIDs assigns fresh ids to list entries whose id is empty or repeats
// an earlier entry, keeping ids unique within each list.
func EnsureIDs(p *Profile) {
	seen := map[string]bool{}
	for i := range p.Projects {
		if p.Projects[i].ID == "" || seen[p.Projects[i].ID] {
			p.Projects[i].ID = NewID()
		}
		seen[p.Projects[i].ID] = true
	}
	seen = map[string]bool{}
	for i := range p.Experiences {
		if p.Experiences[i].ID == "" || seen[p.Experiences[i].ID] {
			p.Experiences[i].ID = NewID()
		}
		seen[p.Experiences[i].ID] = true
	}
}

// NewID returns a client-side list entry identifier.
func NewID() string {
	return uuid.NewString()
}
