package extract

import (
	"github.com/intervention-engine/cvdriskservice/ascvd"
	"github.com/intervention-engine/cvdriskservice/record"
	"github.com/intervention-engine/cvdriskservice/terminology"
)

// ConditionRule decides whether a patient has a condition.  Each condition's detection
// policy is a rule of its own, so policies can differ or be replaced independently.
type ConditionRule interface {
	Name() string
	Evaluate(observations []record.Observation, conditions []record.Condition) bool
}

// DiagnosisRule holds when any condition carries one of Codes.
type DiagnosisRule struct {
	Label string
	Codes terminology.CodeSet
}

func (r DiagnosisRule) Name() string { return r.Label }

func (r DiagnosisRule) Evaluate(_ []record.Observation, conditions []record.Condition) bool {
	_, ok := FindCondition(conditions, r.Codes)
	return ok
}

// LabThresholdRule holds when any observation with the lab code has a value at or above
// the threshold.  Unlike vital lookups, every matching observation is considered.
type LabThresholdRule struct {
	Label string
	Lab   terminology.LabThreshold
}

func (r LabThresholdRule) Name() string { return r.Label }

func (r LabThresholdRule) Evaluate(observations []record.Observation, _ []record.Condition) bool {
	var found bool
	EachObservation(observations, terminology.NewCodeSet(r.Lab.Code), func(m ObservationMatch) bool {
		if v := m.Measurement(); v.Found && v.Value >= r.Lab.Threshold {
			found = true
			return false
		}
		return true
	})
	return found
}

// CodedValueRule inspects the coded answer of the first observation with one of Codes.
// A Negative answer is false, a Positive answer is true, and any other or missing answer
// is false.
type CodedValueRule struct {
	Label    string
	Codes    terminology.CodeSet
	Positive terminology.CodeSet
	Negative terminology.CodeSet
}

func (r CodedValueRule) Name() string { return r.Label }

func (r CodedValueRule) Evaluate(observations []record.Observation, _ []record.Condition) bool {
	m, ok := FindObservation(observations, r.Codes)
	if !ok {
		return false
	}
	for _, coding := range record.Codings(m.Concept) {
		if r.Negative.Contains(coding.Code) {
			return false
		}
		if r.Positive.Contains(coding.Code) {
			return true
		}
	}
	return false
}

// AnyRule holds when any of its rules holds, checked in order.
type AnyRule struct {
	Label string
	Rules []ConditionRule
}

func (r AnyRule) Name() string { return r.Label }

func (r AnyRule) Evaluate(observations []record.Observation, conditions []record.Condition) bool {
	for _, rule := range r.Rules {
		if rule.Evaluate(observations, conditions) {
			return true
		}
	}
	return false
}

// ConditionExtractor evaluates the three boolean risk factors.  They are evaluated
// independently; no finding implies or suppresses another.
type ConditionExtractor struct {
	Diabetes     ConditionRule
	Smoking      ConditionRule
	Hypertension ConditionRule
}

// NewConditionExtractor returns the default detection policies for table:
//   - diabetes by diagnosis, or by HbA1c or fasting glucose at or above threshold
//   - smoking by the coded smoking status answer
//   - treated hypertension by diagnosis only
func NewConditionExtractor(table terminology.CodeTable) ConditionExtractor {
	return ConditionExtractor{
		Diabetes: AnyRule{
			Label: "Diabetes",
			Rules: []ConditionRule{
				DiagnosisRule{Label: "Diabetes diagnosis", Codes: table.DiabetesDiagnosis},
				LabThresholdRule{Label: "HbA1c", Lab: table.HbA1c},
				LabThresholdRule{Label: "Fasting glucose", Lab: table.FastingGlucose},
			},
		},
		Smoking: CodedValueRule{
			Label:    "Smoking status",
			Codes:    table.SmokingStatus,
			Positive: table.Smoker,
			Negative: table.NonSmoker,
		},
		Hypertension: DiagnosisRule{Label: "Hypertension diagnosis", Codes: table.HypertensionDiagnosis},
	}
}

// Extract evaluates every rule.  A nil rule never holds.
func (ce ConditionExtractor) Extract(observations []record.Observation, conditions []record.Condition) ascvd.Conditions {
	return ascvd.Conditions{
		Smoker:       evaluate(ce.Smoking, observations, conditions),
		Diabetic:     evaluate(ce.Diabetes, observations, conditions),
		Hypertensive: evaluate(ce.Hypertension, observations, conditions),
	}
}

func evaluate(rule ConditionRule, observations []record.Observation, conditions []record.Condition) bool {
	if rule == nil {
		return false
	}
	return rule.Evaluate(observations, conditions)
}
