package assessments

import (
	"fmt"
	"math"

	"github.com/intervention-engine/fhir/models"

	"github.com/intervention-engine/cvdriskservice/ascvd"
	"github.com/intervention-engine/cvdriskservice/extract"
	"github.com/intervention-engine/cvdriskservice/plugin"
	"github.com/intervention-engine/cvdriskservice/record"
	"github.com/intervention-engine/cvdriskservice/terminology"
)

// PCEPlugin is a risk calculation service implementing the ACC/AHA Pooled Cohort Equations
// for 10-year risk of atherosclerotic cardiovascular disease.
type PCEPlugin struct {
	Extractor *extract.Extractor
}

// NewPCEPlugin returns a new PCEPlugin resolving codes through table
func NewPCEPlugin(table terminology.CodeTable) *PCEPlugin {
	return &PCEPlugin{Extractor: extract.NewExtractor(table)}
}

// Config provides the configuration parameters for the PCEPlugin
func (p *PCEPlugin) Config() plugin.RiskServicePluginConfig {
	return plugin.RiskServicePluginConfig{
		Name: "Pooled Cohort Equations",
		Method: models.CodeableConcept{
			Coding: []models.Coding{{System: "http://interventionengine.org/risk-assessments", Code: "PCE"}},
			Text:   "Pooled Cohort Equations",
		},
		PredictedOutcome: models.CodeableConcept{Text: "Atherosclerotic Cardiovascular Disease (10 year)"},
		DefaultPieSlices: []plugin.Slice{
			{Name: "Age", Weight: 20, MaxValue: ascvd.MaxAge},
			{Name: "Total Cholesterol", Weight: 15, MaxValue: 320},
			{Name: "HDL", Weight: 15, MaxValue: 100},
			{Name: "Systolic Blood Pressure", Weight: 15, MaxValue: 200},
			{Name: "Smoker", Weight: 15, MaxValue: 1},
			{Name: "Diabetes", Weight: 10, MaxValue: 1},
			{Name: "Hypertension Treatment", Weight: 10, MaxValue: 1},
		},
	}
}

// Assess extracts the patient's profile and runs the equations over it.  An out-of-domain
// age is reported through the Result, not as an error.
func (p *PCEPlugin) Assess(res *record.Resources) (ascvd.Profile, ascvd.Result, error) {
	profile, err := p.Extractor.Extract(res)
	if err != nil {
		return ascvd.Profile{}, ascvd.Result{}, err
	}
	result, err := ascvd.TenYearRisk(profile)
	if err != nil {
		return profile, ascvd.Result{}, err
	}
	return profile, result, nil
}

// Calculate returns the patient's current 10-year risk along with the pie of contributing
// factors.  Patients outside the validated age range get a NotApplicableError.
func (p *PCEPlugin) Calculate(res *record.Resources) (plugin.RiskServiceCalculationResult, error) {
	profile, result, err := p.Assess(res)
	if err != nil {
		return plugin.RiskServiceCalculationResult{}, err
	}
	if !result.Applicable() {
		return plugin.RiskServiceCalculationResult{}, plugin.NewNotApplicableError(
			fmt.Sprintf("Pooled Cohort Equations are only applicable to patients aged %d to %d (age %d)", ascvd.MinAge, ascvd.MaxAge, result.Age))
	}

	config := p.Config()
	pie := plugin.NewPie("Patient/" + res.Patient.Id)
	if p.Extractor.Now != nil {
		pie.Created = p.Extractor.Now()
	}
	pie.Slices = config.DefaultPieSlices
	pie.Method = &config.Method
	pie.UpdateSliceValue("Age", profile.Age)
	pie.UpdateSliceValue("Total Cholesterol", rounded(profile.TotalCholesterol))
	pie.UpdateSliceValue("HDL", rounded(profile.HDL))
	pie.UpdateSliceValue("Systolic Blood Pressure", rounded(profile.SystolicBloodPressure))
	pie.UpdateSliceValue("Smoker", flag(profile.Conditions.Smoker))
	pie.UpdateSliceValue("Diabetes", flag(profile.Conditions.Diabetic))
	pie.UpdateSliceValue("Hypertension Treatment", flag(profile.Conditions.Hypertensive))

	percent := result.Percent
	return plugin.RiskServiceCalculationResult{
		AsOf:               pie.Created,
		ProbabilityDecimal: &percent,
		Pie:                pie,
	}, nil
}

func rounded(m ascvd.Measurement) int {
	return int(math.Round(m.Value))
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}
