package ascvd

import (
	"encoding/json"
	"math"
)

// Measurement is a vital or lab value that may not have been found in the record.  A
// missing measurement is never silently treated as zero.
type Measurement struct {
	Value float64
	Found bool
}

// Measured returns a found Measurement holding v.
func Measured(v float64) Measurement {
	return Measurement{Value: v, Found: true}
}

// Usable reports whether the measurement can be log-transformed.
func (m Measurement) Usable() bool {
	return m.Found && m.Value > 0
}

// MarshalJSON encodes a found measurement as its value and a missing one as null.
func (m Measurement) MarshalJSON() ([]byte, error) {
	if !m.Found {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// Conditions are the boolean risk factors of a profile.
type Conditions struct {
	Smoker       bool `json:"smoker"`
	Diabetic     bool `json:"diabetic"`
	Hypertensive bool `json:"hypertensive"`
}

// Profile is the normalized input to the risk model.  It is a value type, built once per
// calculation and never modified; NewProfile copies the race list so the caller's slice
// cannot alias it.
type Profile struct {
	Name                  string      `json:"name"`
	Age                   int         `json:"age"`
	Sex                   string      `json:"sex"`
	Race                  []string    `json:"race"`
	TotalCholesterol      Measurement `json:"totalCholesterol"`
	HDL                   Measurement `json:"hdl"`
	SystolicBloodPressure Measurement `json:"systolicBloodPressure"`
	Conditions            Conditions  `json:"conditions"`

	// Body measures are reported with the profile but do not enter the equations.
	Height Measurement `json:"height"`
	Weight Measurement `json:"weight"`
	BMI    Measurement `json:"bmi"`
}

// NewProfile assembles a Profile, defaulting an empty name to "Unknown", an empty sex to
// "unknown", and an empty race list to ["Unknown"].
func NewProfile(name string, age int, sex string, race []string, totalCholesterol, hdl, sbp Measurement, conditions Conditions) Profile {
	if name == "" {
		name = "Unknown"
	}
	if sex == "" {
		sex = "unknown"
	}
	r := []string{"Unknown"}
	if len(race) > 0 {
		r = make([]string, len(race))
		copy(r, race)
	}
	return Profile{
		Name:                  name,
		Age:                   age,
		Sex:                   sex,
		Race:                  r,
		TotalCholesterol:      totalCholesterol,
		HDL:                   hdl,
		SystolicBloodPressure: sbp,
		Conditions:            conditions,
	}
}

// WithBodyMeasures returns a copy of p carrying height in centimeters, weight in kilograms,
// and the body mass index derived from them.
func (p Profile) WithBodyMeasures(height, weight Measurement) Profile {
	p.Height = height
	p.Weight = weight
	p.BMI = BodyMassIndex(height, weight)
	return p
}

// BodyMassIndex is weight (kg) over height (m) squared, rounded to one decimal.  Height is
// taken in centimeters.  The result is missing unless both inputs are usable.
func BodyMassIndex(heightCM, weightKG Measurement) Measurement {
	if !heightCM.Usable() || !weightKG.Usable() {
		return Measurement{}
	}
	m := heightCM.Value / 100
	return Measured(math.Round(weightKG.Value/(m*m)*10) / 10)
}
