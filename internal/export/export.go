// Package export renders a stored session for humans and other tools.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/jask/vitaflow/internal/session"
)

// Format is an output encoding.
type Format string

const (
	JSON Format = "json"
	TOML Format = "toml"
	YAML Format = "yaml"
)

// Formats lists the supported encodings.
var Formats = []Format{JSON, TOML, YAML}

// ParseFormat accepts a format name in any case; "yml" is an alias for yaml.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "yml" {
		f = YAML
	}
	if !slices.Contains(Formats, f) {
		return "", fmt.Errorf("export: unknown format %q", s)
	}
	return f, nil
}

// Document is the exported shape of a session.
type Document struct {
	ID                  string    `json:"id" toml:"id" yaml:"id"`
	Completed           bool      `json:"completed" toml:"completed" yaml:"completed"`
	PrioritizedConcerns []string  `json:"prioritizedConcerns" toml:"prioritized_concerns" yaml:"prioritized_concerns"`
	SelectedDiets       []string  `json:"selectedDiets" toml:"selected_diets" yaml:"selected_diets"`
	SelectedAllergies   []string  `json:"selectedAllergies" toml:"selected_allergies" yaml:"selected_allergies"`
	Lifestyle           Lifestyle `json:"lifestyle" toml:"lifestyle" yaml:"lifestyle"`
	StartedAt           time.Time `json:"startedAt,omitzero" toml:"started_at,omitempty" yaml:"started_at,omitempty"`
	UpdatedAt           time.Time `json:"updatedAt,omitzero" toml:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

type Lifestyle struct {
	SunExposure        string `json:"sunExposure,omitempty" toml:"sun_exposure,omitempty" yaml:"sun_exposure,omitempty"`
	Smoking            string `json:"smoking,omitempty" toml:"smoking,omitempty" yaml:"smoking,omitempty"`
	AlcoholConsumption string `json:"alcoholConsumption,omitempty" toml:"alcohol_consumption,omitempty" yaml:"alcohol_consumption,omitempty"`
}

// FromState converts st. Empty lists are kept as empty, never null.
func FromState(st session.State) Document {
	return Document{
		ID:                  st.ID,
		Completed:           st.Completed,
		PrioritizedConcerns: list(st.PrioritizedConcerns),
		SelectedDiets:       list(st.SelectedDiets),
		SelectedAllergies:   list(st.SelectedAllergies),
		Lifestyle: Lifestyle{
			SunExposure:        string(st.Lifestyle.SunExposure),
			Smoking:            string(st.Lifestyle.Smoking),
			AlcoholConsumption: string(st.Lifestyle.AlcoholConsumption),
		},
		StartedAt: st.StartedAt,
		UpdatedAt: st.UpdatedAt,
	}
}

// Write encodes st to w in format.
func Write(w io.Writer, format Format, st session.State) error {
	doc := FromState(st)
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case TOML:
		return toml.NewEncoder(w).Encode(doc)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("export: unknown format %q", format)
}

func list(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
