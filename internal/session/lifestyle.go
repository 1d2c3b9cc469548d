package session

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsetAnswer is returned when a caller tries to clear an answered question.
var ErrUnsetAnswer = errors.New("session: answer cannot be unset")

// YesNo answers the sun exposure and smoking questions. The zero value is unset.
type YesNo string

const (
	Yes YesNo = "Yes"
	No  YesNo = "No"
)

// AlcoholIntake answers the weekly drinks question. The zero value is unset.
type AlcoholIntake string

const (
	AlcoholLow      AlcoholIntake = "0 - 1"
	AlcoholModerate AlcoholIntake = "2 - 5"
	AlcoholHigh     AlcoholIntake = "5+"
)

// AlcoholIntakes lists the answer choices in display order.
var AlcoholIntakes = []AlcoholIntake{AlcoholLow, AlcoholModerate, AlcoholHigh}

func (v YesNo) Set() bool { return v != "" }

func (v AlcoholIntake) Set() bool { return v != "" }

// ParseYesNo accepts "yes"/"no" in any case. An empty string parses to unset.
func ParseYesNo(s string) (YesNo, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "yes", "y":
		return Yes, nil
	case "no", "n":
		return No, nil
	}
	return "", fmt.Errorf("session: invalid yes/no answer %q", s)
}

// ParseAlcoholIntake accepts the stored form ("0 - 1") and the compact one ("0-1").
func ParseAlcoholIntake(s string) (AlcoholIntake, error) {
	compact := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	switch compact {
	case "":
		return "", nil
	case "0-1":
		return AlcoholLow, nil
	case "2-5":
		return AlcoholModerate, nil
	case "5+":
		return AlcoholHigh, nil
	}
	return "", fmt.Errorf("session: invalid alcohol consumption answer %q", s)
}

// LifestyleAnswers holds the three required single-choice questions.
type LifestyleAnswers struct {
	SunExposure        YesNo
	Smoking            YesNo
	AlcoholConsumption AlcoholIntake
}

// Missing returns the fields still unanswered, in question order.
func (a LifestyleAnswers) Missing() []Field {
	var out []Field
	if !a.SunExposure.Set() {
		out = append(out, FieldSunExposure)
	}
	if !a.Smoking.Set() {
		out = append(out, FieldSmoking)
	}
	if !a.AlcoholConsumption.Set() {
		out = append(out, FieldAlcoholConsumption)
	}
	return out
}

// Complete reports whether every question is answered.
func (a LifestyleAnswers) Complete() bool { return len(a.Missing()) == 0 }
