package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jask/vitaflow/internal/session"
)

func sample() session.State {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	return session.State{
		ID:                  "6f1f6a0e-5a3b-4c5e-9d43-2b1d7c1e8a10",
		PrioritizedConcerns: []string{"Sleep", "Hair, Nail, Skin"},
		SelectedDiets:       []string{"Vegan"},
		Lifestyle: session.LifestyleAnswers{
			SunExposure:        session.Yes,
			Smoking:            session.No,
			AlcoholConsumption: session.AlcoholModerate,
		},
		Completed: true,
		StartedAt: at,
		UpdatedAt: at.Add(4 * time.Minute),
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" YML ")
	require.NoError(t, err)
	require.Equal(t, YAML, f)
	_, err = ParseFormat("csv")
	require.Error(t, err)
}

func TestWriteJSONUsesStoredKeyNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, JSON, sample()))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	require.Equal(t, []any{"Sleep", "Hair, Nail, Skin"}, raw["prioritizedConcerns"])
	require.Equal(t, []any{}, raw["selectedAllergies"])
	require.Equal(t, "2 - 5", raw["lifestyle"].(map[string]any)["alcoholConsumption"])
}

func TestWriteTOML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, TOML, sample()))
	require.True(t, strings.Contains(buf.String(), "[lifestyle]"))

	var doc Document
	_, err := toml.Decode(buf.String(), &doc)
	require.NoError(t, err)
	require.Equal(t, []string{"Sleep", "Hair, Nail, Skin"}, doc.PrioritizedConcerns)
	require.Equal(t, "2 - 5", doc.Lifestyle.AlcoholConsumption)
	require.True(t, doc.UpdatedAt.Equal(sample().UpdatedAt))
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, YAML, sample()))

	var doc Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	require.Equal(t, []string{"Vegan"}, doc.SelectedDiets)
	require.Equal(t, "Yes", doc.Lifestyle.SunExposure)
	require.True(t, doc.Completed)
}

func TestWriteUnknownFormat(t *testing.T) {
	require.Error(t, Write(&bytes.Buffer{}, Format("xml"), sample()))
}
