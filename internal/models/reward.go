package models

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultRewardKey is the reward-definition key applied when no category
// entry matches.
const DefaultRewardKey = "default"

// RewardValue is one entry of a card's reward definition. Older card data
// stores a plain multiplier; newer data stores a structured value carrying a
// multiplier plus notes and, for rotating categories, the active subset.
// Both shapes decode into this type and are read through Rate.
//
// Decoding never fails: an entry that cannot be understood is marked invalid
// and is treated as absent by every lookup.
type RewardValue struct {
	Multiplier float64
	Notes      []string
	Active     []string
	Structured bool
	Invalid    bool
}

// PlainReward builds a plain-number reward value.
func PlainReward(multiplier float64) RewardValue {
	return RewardValue{Multiplier: multiplier}
}

// Rate returns the numeric multiplier and whether the entry is usable.
func (v RewardValue) Rate() (float64, bool) {
	if v.Invalid || math.IsNaN(v.Multiplier) || math.IsInf(v.Multiplier, 0) || v.Multiplier < 0 {
		return 0, false
	}
	return v.Multiplier, true
}

// Note joins the entry's notes for explanation text.
func (v RewardValue) Note() string {
	return strings.Join(v.Notes, "; ")
}

// IsRotating reports whether the entry lists an active category subset.
func (v RewardValue) IsRotating() bool {
	return len(v.Active) > 0
}

// ActiveFor reports whether categoryID is in the entry's active subset.
func (v RewardValue) ActiveFor(categoryID string) bool {
	for _, id := range v.Active {
		if strings.EqualFold(strings.TrimSpace(id), categoryID) {
			return true
		}
	}
	return false
}

type structuredReward struct {
	Multiplier       *float64   `yaml:"multiplier" json:"multiplier"`
	Rate             *float64   `yaml:"rate" json:"rate"`
	Note             string     `yaml:"note" json:"note"`
	Notes            stringList `yaml:"notes" json:"notes"`
	Active           []string   `yaml:"active" json:"active"`
	ActiveCategories []string   `yaml:"active_categories" json:"active_categories"`
}

func (s structuredReward) toValue() RewardValue {
	v := RewardValue{Structured: true}
	switch {
	case s.Multiplier != nil:
		v.Multiplier = *s.Multiplier
	case s.Rate != nil:
		v.Multiplier = *s.Rate
	default:
		v.Invalid = true
	}
	if s.Note != "" {
		v.Notes = append(v.Notes, s.Note)
	}
	v.Notes = append(v.Notes, s.Notes...)
	v.Active = append(append(v.Active, s.Active...), s.ActiveCategories...)
	return v
}

// UnmarshalYAML accepts a scalar multiplier ("3", "1.5x") or a mapping.
func (v *RewardValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*v = parseScalarReward(node.Value)
	case yaml.MappingNode:
		var raw structuredReward
		if err := node.Decode(&raw); err != nil {
			*v = RewardValue{Structured: true, Invalid: true}
			return nil
		}
		*v = raw.toValue()
	default:
		*v = RewardValue{Invalid: true}
	}
	return nil
}

// MarshalYAML writes plain entries back as numbers.
func (v RewardValue) MarshalYAML() (interface{}, error) {
	if !v.Structured {
		return v.Multiplier, nil
	}
	out := map[string]interface{}{"multiplier": v.Multiplier}
	if len(v.Notes) > 0 {
		out["notes"] = v.Notes
	}
	if len(v.Active) > 0 {
		out["active"] = v.Active
	}
	return out, nil
}

// UnmarshalJSON accepts a number, a numeric string or an object.
func (v *RewardValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*v = RewardValue{Invalid: true}
	case data[0] == '{':
		var raw structuredReward
		if err := json.Unmarshal(data, &raw); err != nil {
			*v = RewardValue{Structured: true, Invalid: true}
			return nil
		}
		*v = raw.toValue()
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*v = RewardValue{Invalid: true}
			return nil
		}
		*v = parseScalarReward(s)
	default:
		*v = parseScalarReward(string(data))
	}
	return nil
}

// MarshalJSON writes plain entries back as numbers.
func (v RewardValue) MarshalJSON() ([]byte, error) {
	out, _ := v.MarshalYAML()
	return json.Marshal(out)
}

func parseScalarReward(s string) RewardValue {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "xX%")
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return RewardValue{Invalid: true}
	}
	return RewardValue{Multiplier: f}
}

// stringList decodes either a single string or a list of strings.
type stringList []string

func (l *stringList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*l = stringList{node.Value}
		return nil
	}
	var items []string
	if err := node.Decode(&items); err != nil {
		return err
	}
	*l = items
	return nil
}

func (l *stringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = stringList{single}
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

// RewardDefinition maps a category key, or DefaultRewardKey, to a reward
// value. Definitions may be partial.
type RewardDefinition map[string]RewardValue

// Get looks up a usable entry by key, case-insensitively.
func (d RewardDefinition) Get(key string) (RewardValue, bool) {
	key = strings.TrimSpace(key)
	if key == "" || d == nil {
		return RewardValue{}, false
	}
	if v, ok := d[key]; ok {
		if _, valid := v.Rate(); valid {
			return v, true
		}
	}
	for k, v := range d {
		if strings.EqualFold(strings.TrimSpace(k), key) {
			if _, valid := v.Rate(); valid {
				return v, true
			}
		}
	}
	return RewardValue{}, false
}

// Keys returns the definition's keys in sorted order.
func (d RewardDefinition) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// UnmarshalCSV decodes a JSON-encoded reward definition held in a single CSV
// column. An empty column yields an empty definition.
func (d *RewardDefinition) UnmarshalCSV(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*d = RewardDefinition{}
		return nil
	}
	var out RewardDefinition
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return err
	}
	*d = out
	return nil
}

// MarshalCSV encodes the definition as JSON for a single CSV column.
func (d RewardDefinition) MarshalCSV() (string, error) {
	if len(d) == 0 {
		return "", nil
	}
	b, err := json.Marshal(map[string]RewardValue(d))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
