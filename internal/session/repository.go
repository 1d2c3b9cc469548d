package session

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/jask/vitaflow/internal/kv"
)

// Layout selects how State is laid out in the store.
type Layout string

const (
	// LayoutRecord stores the whole State as one JSON value under RecordKey,
	// so every save is a single atomic write.
	LayoutRecord Layout = "record"
	// LayoutKeys stores one key per Field: JSON arrays for the lists and plain
	// strings for the lifestyle answers.
	LayoutKeys Layout = "keys"
)

// RecordKey is the key used by LayoutRecord.
const RecordKey = "session"

const recordVersion = 1

// ParseLayout maps a config value to a Layout. Empty means LayoutRecord.
func ParseLayout(s string) (Layout, error) {
	switch Layout(s) {
	case "", LayoutRecord:
		return LayoutRecord, nil
	case LayoutKeys:
		return LayoutKeys, nil
	}
	return "", fmt.Errorf("session: unknown storage layout %q", s)
}

type record struct {
	Version             int       `json:"version"`
	ID                  string    `json:"id"`
	PrioritizedConcerns []string  `json:"prioritizedConcerns"`
	SelectedDiets       []string  `json:"selectedDiets"`
	SelectedAllergies   []string  `json:"selectedAllergies"`
	SunExposure         string    `json:"sunExposure,omitempty"`
	Smoking             string    `json:"smoking,omitempty"`
	AlcoholConsumption  string    `json:"alcoholConsumption,omitempty"`
	Completed           bool      `json:"completed"`
	StartedAt           time.Time `json:"startedAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// Repository is the serialization boundary between State and a kv.Store.
type Repository struct {
	store  kv.Store
	layout Layout
	now    func() time.Time
}

func NewRepository(store kv.Store, layout Layout) *Repository {
	if layout == "" {
		layout = LayoutRecord
	}
	return &Repository{store: store, layout: layout, now: func() time.Time { return time.Now().UTC() }}
}

// Layout returns the configured layout.
func (r *Repository) Layout() Layout { return r.layout }

// Load reads the stored state. Under LayoutKeys only the requested fields are
// read (all when none are given); under LayoutRecord the whole record is read
// and, when no record exists yet, the per-field keys are tried instead.
// found is false when nothing relevant is stored.
func (r *Repository) Load(ctx context.Context, fields ...Field) (State, bool, error) {
	if r.layout == LayoutRecord {
		st, found, err := r.loadRecord(ctx)
		if err != nil || found {
			return st, found, err
		}
	}
	return r.loadKeys(ctx, fields)
}

// Save writes the given fields of st (all when none are given). Under
// LayoutRecord the stored record is read first and only the named fields are
// replaced, so unnamed fields keep their stored values. ID, Completed and the
// timestamps always come from st.
func (r *Repository) Save(ctx context.Context, st State, fields ...Field) error {
	if r.layout == LayoutRecord {
		if len(fields) == 0 || coversAll(fields) {
			return r.saveRecord(ctx, st)
		}
		stored, _, err := r.Load(ctx)
		if err != nil {
			return err
		}
		merged := st.Clone()
		merged.PrioritizedConcerns = stored.PrioritizedConcerns
		merged.SelectedDiets = stored.SelectedDiets
		merged.SelectedAllergies = stored.SelectedAllergies
		merged.Lifestyle = stored.Lifestyle
		for _, f := range fields {
			if err := copyField(&merged, st, f); err != nil {
				return &StorageError{Op: "encode", Key: string(f), Err: err}
			}
		}
		return r.saveRecord(ctx, merged)
	}
	if len(fields) == 0 {
		fields = AllFields
	}
	entries := make(map[string]string, len(fields))
	for _, f := range fields {
		v, ok, err := encodeField(st, f)
		if err != nil {
			return &StorageError{Op: "encode", Key: string(f), Err: err}
		}
		if ok {
			entries[string(f)] = v
		}
	}
	if err := kv.SetAll(ctx, r.store, entries); err != nil {
		return &StorageError{Op: "set", Key: joinKeys(fields), Err: err}
	}
	return nil
}

// Reset clears the entire store.
func (r *Repository) Reset(ctx context.Context) error {
	if err := r.store.Clear(ctx); err != nil {
		return &StorageError{Op: "clear", Err: err}
	}
	return nil
}

func (r *Repository) loadRecord(ctx context.Context) (State, bool, error) {
	raw, ok, err := r.store.Get(ctx, RecordKey)
	if err != nil {
		return State{}, false, &StorageError{Op: "get", Key: RecordKey, Err: err}
	}
	if !ok {
		return State{}, false, nil
	}
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return State{}, false, &StorageError{Op: "decode", Key: RecordKey, Err: err}
	}
	if rec.Version > recordVersion {
		return State{}, false, &StorageError{Op: "decode", Key: RecordKey, Err: fmt.Errorf("unsupported record version %d", rec.Version)}
	}
	st := State{
		ID:                  rec.ID,
		PrioritizedConcerns: rec.PrioritizedConcerns,
		SelectedDiets:       rec.SelectedDiets,
		SelectedAllergies:   rec.SelectedAllergies,
		Completed:           rec.Completed,
		StartedAt:           rec.StartedAt,
		UpdatedAt:           rec.UpdatedAt,
	}
	if st.Lifestyle, err = parseLifestyle(rec.SunExposure, rec.Smoking, rec.AlcoholConsumption); err != nil {
		return State{}, false, &StorageError{Op: "decode", Key: RecordKey, Err: err}
	}
	return st, true, nil
}

func (r *Repository) saveRecord(ctx context.Context, st State) error {
	st.UpdatedAt = r.now()
	if st.StartedAt.IsZero() {
		st.StartedAt = st.UpdatedAt
	}
	rec := record{
		Version:             recordVersion,
		ID:                  st.ID,
		PrioritizedConcerns: nonNil(st.PrioritizedConcerns),
		SelectedDiets:       nonNil(st.SelectedDiets),
		SelectedAllergies:   nonNil(st.SelectedAllergies),
		SunExposure:         string(st.Lifestyle.SunExposure),
		Smoking:             string(st.Lifestyle.Smoking),
		AlcoholConsumption:  string(st.Lifestyle.AlcoholConsumption),
		Completed:           st.Completed,
		StartedAt:           st.StartedAt,
		UpdatedAt:           st.UpdatedAt,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return &StorageError{Op: "encode", Key: RecordKey, Err: err}
	}
	if err := r.store.Set(ctx, RecordKey, string(data)); err != nil {
		return &StorageError{Op: "set", Key: RecordKey, Err: err}
	}
	return nil
}

func (r *Repository) loadKeys(ctx context.Context, fields []Field) (State, bool, error) {
	if len(fields) == 0 {
		fields = AllFields
	}
	var st State
	found := false
	for _, f := range fields {
		raw, ok, err := r.store.Get(ctx, string(f))
		if err != nil {
			return State{}, false, &StorageError{Op: "get", Key: string(f), Err: err}
		}
		if !ok {
			continue
		}
		found = true
		if err := decodeField(&st, f, raw); err != nil {
			return State{}, false, &StorageError{Op: "decode", Key: string(f), Err: err}
		}
	}
	return st, found, nil
}

func encodeField(st State, f Field) (string, bool, error) {
	switch f {
	case FieldConcerns:
		v, err := EncodeList(st.PrioritizedConcerns)
		return v, true, err
	case FieldDiets:
		v, err := EncodeList(st.SelectedDiets)
		return v, true, err
	case FieldAllergies:
		v, err := EncodeList(st.SelectedAllergies)
		return v, true, err
	case FieldSunExposure:
		return string(st.Lifestyle.SunExposure), st.Lifestyle.SunExposure.Set(), nil
	case FieldSmoking:
		return string(st.Lifestyle.Smoking), st.Lifestyle.Smoking.Set(), nil
	case FieldAlcoholConsumption:
		return string(st.Lifestyle.AlcoholConsumption), st.Lifestyle.AlcoholConsumption.Set(), nil
	}
	return "", false, fmt.Errorf("unknown field %q", f)
}

func decodeField(st *State, f Field, raw string) error {
	var err error
	switch f {
	case FieldConcerns:
		st.PrioritizedConcerns, err = DecodeList(raw)
	case FieldDiets:
		st.SelectedDiets, err = DecodeList(raw)
	case FieldAllergies:
		st.SelectedAllergies, err = DecodeList(raw)
	case FieldSunExposure:
		st.Lifestyle.SunExposure, err = ParseYesNo(raw)
	case FieldSmoking:
		st.Lifestyle.Smoking, err = ParseYesNo(raw)
	case FieldAlcoholConsumption:
		st.Lifestyle.AlcoholConsumption, err = ParseAlcoholIntake(raw)
	default:
		err = fmt.Errorf("unknown field %q", f)
	}
	return err
}

func copyField(dst *State, src State, f Field) error {
	switch f {
	case FieldConcerns:
		dst.PrioritizedConcerns = slices.Clone(src.PrioritizedConcerns)
	case FieldDiets:
		dst.SelectedDiets = slices.Clone(src.SelectedDiets)
	case FieldAllergies:
		dst.SelectedAllergies = slices.Clone(src.SelectedAllergies)
	case FieldSunExposure:
		dst.Lifestyle.SunExposure = src.Lifestyle.SunExposure
	case FieldSmoking:
		dst.Lifestyle.Smoking = src.Lifestyle.Smoking
	case FieldAlcoholConsumption:
		dst.Lifestyle.AlcoholConsumption = src.Lifestyle.AlcoholConsumption
	default:
		return fmt.Errorf("unknown field %q", f)
	}
	return nil
}

func coversAll(fields []Field) bool {
	for _, f := range AllFields {
		if !slices.Contains(fields, f) {
			return false
		}
	}
	return true
}

func parseLifestyle(sun, smoking, alcohol string) (LifestyleAnswers, error) {
	var a LifestyleAnswers
	var err error
	if a.SunExposure, err = ParseYesNo(sun); err != nil {
		return a, err
	}
	if a.Smoking, err = ParseYesNo(smoking); err != nil {
		return a, err
	}
	if a.AlcoholConsumption, err = ParseAlcoholIntake(alcohol); err != nil {
		return a, err
	}
	return a, nil
}

// EncodeList renders names as a JSON array. nil encodes as [].
func EncodeList(names []string) (string, error) {
	data, err := json.Marshal(nonNil(names))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeList parses a JSON array of strings. JSON null decodes to nil.
func DecodeList(raw string) ([]string, error) {
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func joinKeys(fields []Field) string {
	if len(fields) == 1 {
		return string(fields[0])
	}
	return fmt.Sprintf("%v", fields)
}
