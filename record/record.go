// Package record holds the in-memory FHIR R4 shaped records that risk extraction works on.
// Only the fields needed for extraction are modeled; everything else in the source JSON is
// ignored.
package record

import (
	"github.com/intervention-engine/fhir/models"
)

// HumanName is a patient name entry.
type HumanName struct {
	Use    string   `json:"use,omitempty"`
	Family string   `json:"family,omitempty"`
	Given  []string `json:"given,omitempty"`
}

// Extension is a FHIR extension.  Extensions may nest, as the US Core race extension does.
type Extension struct {
	Url         string         `json:"url"`
	ValueCoding *models.Coding `json:"valueCoding,omitempty"`
	ValueString string         `json:"valueString,omitempty"`
	Extension   []Extension    `json:"extension,omitempty"`
}

// Patient is the demographic record for the subject of a calculation.
type Patient struct {
	Id     string      `json:"id,omitempty"`
	Name   []HumanName `json:"name,omitempty"`
	Gender string      `json:"gender,omitempty"`
	// BirthDate is kept as recorded.  FHIR allows a bare year or year and month.
	BirthDate string      `json:"birthDate,omitempty"`
	Extension []Extension `json:"extension,omitempty"`
}

// ObservationComponent is a coded sub-measurement of an observation, such as the systolic
// half of a blood pressure panel.
type ObservationComponent struct {
	Code                 *models.CodeableConcept `json:"code,omitempty"`
	ValueQuantity        *models.Quantity        `json:"valueQuantity,omitempty"`
	ValueCodeableConcept *models.CodeableConcept `json:"valueCodeableConcept,omitempty"`
}

// Observation is a lab result, vital sign, or survey answer.
type Observation struct {
	Id                   string                  `json:"id,omitempty"`
	Status               string                  `json:"status,omitempty"`
	Code                 *models.CodeableConcept `json:"code,omitempty"`
	ValueQuantity        *models.Quantity        `json:"valueQuantity,omitempty"`
	ValueCodeableConcept *models.CodeableConcept `json:"valueCodeableConcept,omitempty"`
	Component            []ObservationComponent  `json:"component,omitempty"`
}

// Void reports whether the observation was recorded in error or cancelled, in which case
// it must not contribute to any finding.
func (o *Observation) Void() bool {
	return o.Status == "entered-in-error" || o.Status == "cancelled"
}

// Condition is a diagnosis on the patient's problem list or an encounter.
type Condition struct {
	Id                 string                  `json:"id,omitempty"`
	Code               *models.CodeableConcept `json:"code,omitempty"`
	ClinicalStatus     *models.CodeableConcept `json:"clinicalStatus,omitempty"`
	VerificationStatus *models.CodeableConcept `json:"verificationStatus,omitempty"`
}

// Void reports whether the condition's verification status rules it out.
func (c *Condition) Void() bool {
	if c.VerificationStatus == nil {
		return false
	}
	for _, coding := range c.VerificationStatus.Coding {
		if coding.Code == "entered-in-error" || coding.Code == "refuted" {
			return true
		}
	}
	return false
}

// Codings returns the codings of a possibly nil concept.
func Codings(cc *models.CodeableConcept) []models.Coding {
	if cc == nil {
		return nil
	}
	return cc.Coding
}

// Resources is the complete, already materialized record set for one patient.
type Resources struct {
	Patient      *Patient
	Observations []Observation
	Conditions   []Condition
}
