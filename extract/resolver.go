// Package extract derives a normalized ascvd.Profile from coded patient records.  Every
// function here is pure and total over well-formed records: absent optional fields resolve
// to documented defaults, and only a missing birth date is an error.
package extract

import (
	"github.com/intervention-engine/fhir/models"

	"github.com/intervention-engine/cvdriskservice/ascvd"
	"github.com/intervention-engine/cvdriskservice/record"
	"github.com/intervention-engine/cvdriskservice/terminology"
)

// ObservationMatch is what a lookup resolved to: either an observation's own value, or the
// value of one of its components when only the component carried the code.
type ObservationMatch struct {
	Observation *record.Observation
	Quantity    *models.Quantity
	Concept     *models.CodeableConcept
}

// Measurement returns the matched numeric value, if there is one.
func (m ObservationMatch) Measurement() ascvd.Measurement {
	if m.Quantity == nil || m.Quantity.Value == nil {
		return ascvd.Measurement{}
	}
	return ascvd.Measured(*m.Quantity.Value)
}

// MatchesAny reports whether any coding's code is in codes.
func MatchesAny(codings []models.Coding, codes terminology.CodeSet) bool {
	for _, coding := range codings {
		if codes.Contains(coding.Code) {
			return true
		}
	}
	return false
}

// matchObservation checks the observation's own code first, then its components in order.
func matchObservation(o *record.Observation, codes terminology.CodeSet) (ObservationMatch, bool) {
	if MatchesAny(record.Codings(o.Code), codes) {
		return ObservationMatch{Observation: o, Quantity: o.ValueQuantity, Concept: o.ValueCodeableConcept}, true
	}
	for i := range o.Component {
		comp := &o.Component[i]
		if MatchesAny(record.Codings(comp.Code), codes) {
			return ObservationMatch{Observation: o, Quantity: comp.ValueQuantity, Concept: comp.ValueCodeableConcept}, true
		}
	}
	return ObservationMatch{}, false
}

// FindObservation returns the first non-void observation, in input order, carrying one of
// codes.
func FindObservation(observations []record.Observation, codes terminology.CodeSet) (ObservationMatch, bool) {
	for i := range observations {
		o := &observations[i]
		if o.Void() {
			continue
		}
		if m, ok := matchObservation(o, codes); ok {
			return m, true
		}
	}
	return ObservationMatch{}, false
}

// EachObservation calls fn for every non-void observation carrying one of codes, in input
// order, until fn returns false.
func EachObservation(observations []record.Observation, codes terminology.CodeSet, fn func(ObservationMatch) bool) {
	for i := range observations {
		o := &observations[i]
		if o.Void() {
			continue
		}
		if m, ok := matchObservation(o, codes); ok {
			if !fn(m) {
				return
			}
		}
	}
}

// ObservationValue resolves the first observation carrying one of codes to its numeric
// value.  The first match wins even when it has no numeric value.
func ObservationValue(observations []record.Observation, codes terminology.CodeSet) ascvd.Measurement {
	m, ok := FindObservation(observations, codes)
	if !ok {
		return ascvd.Measurement{}
	}
	return m.Measurement()
}

// FindCondition returns the first non-void condition, in input order, carrying one of codes.
func FindCondition(conditions []record.Condition, codes terminology.CodeSet) (*record.Condition, bool) {
	for i := range conditions {
		cond := &conditions[i]
		if cond.Void() {
			continue
		}
		if MatchesAny(record.Codings(cond.Code), codes) {
			return cond, true
		}
	}
	return nil, false
}
