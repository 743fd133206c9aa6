package extract

import (
	"fmt"
	"time"

	"github.com/intervention-engine/cvdriskservice/ascvd"
	"github.com/intervention-engine/cvdriskservice/record"
	"github.com/intervention-engine/cvdriskservice/terminology"
)

// Extractor builds risk profiles.  Table and Conditions are injected so code lists and
// detection policies can be swapped without touching the extraction code.
type Extractor struct {
	Table      terminology.CodeTable
	Conditions ConditionExtractor
	// Now supplies the reference date for age; time.Now when nil.
	Now func() time.Time
}

// NewExtractor returns an Extractor using table and its default condition policies.
func NewExtractor(table terminology.CodeTable) *Extractor {
	return &Extractor{
		Table:      table,
		Conditions: NewConditionExtractor(table),
		Now:        time.Now,
	}
}

// Extract builds the profile for res.  The only error is a missing birth date, wrapped so
// that errors.Is(err, ErrMissingBirthDate) holds.
func (e *Extractor) Extract(res *record.Resources) (ascvd.Profile, error) {
	if res == nil {
		res = &record.Resources{}
	}
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}

	age, err := Age(res.Patient, now())
	if err != nil {
		id := ""
		if res.Patient != nil {
			id = res.Patient.Id
		}
		return ascvd.Profile{}, fmt.Errorf("extract profile for patient %q: %w", id, err)
	}

	vitals := Vitals(res.Observations, e.Table)
	return ascvd.NewProfile(
		Name(res.Patient),
		age,
		Sex(res.Patient),
		Race(res.Patient, e.Table.RaceExtensionURL),
		vitals.TotalCholesterol,
		vitals.HDL,
		vitals.SystolicBloodPressure,
		e.Conditions.Extract(res.Observations, res.Conditions),
	).WithBodyMeasures(vitals.Height, vitals.Weight), nil
}
