package plugin

import (
	"time"

	"github.com/intervention-engine/fhir/models"

	"github.com/intervention-engine/cvdriskservice/record"
)

// RiskServicePlugin provides the interface that risk service plugins should adhere to.
// A plugin receives the complete, already materialized record set for one patient and
// returns its assessment as of the time of the calculation.
type RiskServicePlugin interface {
	// Config returns the configuration information for the risk service plugin
	Config() RiskServicePluginConfig
	// Calculate accepts the patient's resources and returns the current risk assessment.
	// A plugin that does not apply to the patient returns a NotApplicableError.
	Calculate(res *record.Resources) (RiskServiceCalculationResult, error)
}

// RiskServicePluginConfig represents key information about the risk service plugin.
type RiskServicePluginConfig struct {
	Name             string
	Method           models.CodeableConcept
	PredictedOutcome models.CodeableConcept
	DefaultPieSlices []Slice
}

// RiskServiceCalculationResult represents risk assessment info for a given point in time.
// ProbabilityDecimal is a percentage probability of the predicted outcome, so it should
// never exceed 100.
type RiskServiceCalculationResult struct {
	AsOf               time.Time
	ProbabilityDecimal *float64
	Pie                *Pie
}

// ToRiskAssessment converts the RiskServiceCalculationResult to a FHIR RiskAssessment.
func (r *RiskServiceCalculationResult) ToRiskAssessment(patientID string, basisPieURL string, config RiskServicePluginConfig) *models.RiskAssessment {
	method := config.Method
	outcome := config.PredictedOutcome
	ra := &models.RiskAssessment{
		Subject: &models.Reference{Reference: "Patient/" + patientID},
		Method:  &method,
		Date:    &models.FHIRDateTime{Time: r.AsOf, Precision: models.Timestamp},
		Prediction: []models.RiskAssessmentPredictionComponent{
			{
				ProbabilityDecimal: r.ProbabilityDecimal,
				Outcome:            &outcome,
			},
		},
	}
	if r.Pie != nil {
		ra.Basis = []models.Reference{
			{Reference: basisPieURL + "/" + r.Pie.Id.Hex()},
		}
	}
	return ra
}

// NotApplicableError indicates that the given algorithm is not applicable
// for the requested patient.  It would be inappropriate to return a score.
type NotApplicableError struct {
	msg string
}

// NewNotApplicableError returns a new NotApplicableError with the given
// message.
func NewNotApplicableError(msg string) NotApplicableError {
	return NotApplicableError{msg: msg}
}

func (e NotApplicableError) Error() string { return e.msg }
