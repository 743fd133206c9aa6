package service

import (
	"errors"
	"fmt"

	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"

	"github.com/intervention-engine/fhir/models"

	"github.com/intervention-engine/cvdriskservice/plugin"
	"github.com/intervention-engine/cvdriskservice/record"
)

// RiskService is an interface for the functions that must be supported by a risk service used in our
// reference implementation risk service server.
type RiskService interface {
	Calculate(bundle *record.Bundle, basisPieURL string) ([]Outcome, error)
}

// Outcome is one plugin's answer for the patient.  Exactly one of Assessment and
// NotApplicable is set.
type Outcome struct {
	Method        string                 `json:"method"`
	Assessment    *models.RiskAssessment `json:"assessment,omitempty"`
	Pie           *plugin.Pie            `json:"pie,omitempty"`
	NotApplicable string                 `json:"notApplicable,omitempty"`
}

// ErrNoMethodCoding is returned when a registered plugin's method has no coding to identify
// its stored assessments by.
var ErrNoMethodCoding = errors.New("risk assessment plugins must provide a method with a coding")

// ReferenceRiskService is a container for risk service plugins.  It invokes the calculations on the
// plugins and, when backed by a database, replaces the patient's stored risk assessments and pies
// with the new ones.
type ReferenceRiskService struct {
	plugins []plugin.RiskServicePlugin
	db      *mgo.Database
}

// NewReferenceRiskService creates a new risk service backed by the passed in MongoDB instance.  A nil
// database calculates without storing anything.
func NewReferenceRiskService(db *mgo.Database) *ReferenceRiskService {
	return &ReferenceRiskService{db: db}
}

// RegisterPlugin registers a plugin for use by the risk service
func (rs *ReferenceRiskService) RegisterPlugin(plugin plugin.RiskServicePlugin) {
	rs.plugins = append(rs.plugins, plugin)
}

// Calculate invokes the registered plugins on the patient in the bundle.  Plugins that do not apply to
// the patient yield an Outcome with NotApplicable set; any other plugin error aborts the calculation.
func (rs *ReferenceRiskService) Calculate(bundle *record.Bundle, basisPieURL string) ([]Outcome, error) {
	res, err := bundle.Resources()
	if err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, 0, len(rs.plugins))
	for _, p := range rs.plugins {
		config := p.Config()
		if len(config.Method.Coding) == 0 {
			return nil, ErrNoMethodCoding
		}
		outcome := Outcome{Method: methodToken(config.Method)}

		result, err := p.Calculate(res)
		if err != nil {
			if na, ok := err.(plugin.NotApplicableError); ok {
				outcome.NotApplicable = na.Error()
				outcomes = append(outcomes, outcome)
				continue
			}
			return nil, err
		}

		ra := result.ToRiskAssessment(res.Patient.Id, basisPieURL, config)
		ra.Meta = &models.Meta{
			Tag: []models.Coding{{System: "http://interventionengine.org/tags/", Code: "MOST_RECENT"}},
		}
		outcome.Assessment = ra
		outcome.Pie = result.Pie

		if rs.db != nil {
			if err := UpdateRiskAssessmentAndPie(rs.db, res.Patient.Id, ra, result.Pie, config); err != nil {
				return nil, err
			}
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// UpdateRiskAssessmentAndPie removes the patient's existing risk assessments and pies for the plugin's method
// and replaces them with the new ones.  The stored pie is a copy tagged with the method; the caller's pie is
// left as it was.
func UpdateRiskAssessmentAndPie(db *mgo.Database, patientID string, ra *models.RiskAssessment, pie *plugin.Pie, config plugin.RiskServicePluginConfig) error {
	method := config.Method.Coding[0]
	methodMatch := bson.M{"$elemMatch": bson.M{"system": method.System, "code": method.Code}}

	raCollection := db.C("riskassessments")
	if _, err := raCollection.RemoveAll(bson.M{
		"subject.reference": "Patient/" + patientID,
		"method.coding":     methodMatch,
	}); err != nil {
		return fmt.Errorf("remove risk assessments: %w", err)
	}
	if ra.Id == "" {
		ra.Id = bson.NewObjectId().Hex()
	}
	if err := raCollection.Insert(ra); err != nil {
		return fmt.Errorf("insert risk assessment: %w", err)
	}

	if pie == nil {
		return nil
	}
	pieCollection := db.C("pies")
	if _, err := pieCollection.RemoveAll(bson.M{
		"patient":       pie.Patient,
		"method.coding": methodMatch,
	}); err != nil {
		return fmt.Errorf("remove pies: %w", err)
	}
	stored := pie.Clone(false)
	if stored.Method == nil {
		m := config.Method
		stored.Method = &m
	}
	if err := pieCollection.Insert(stored); err != nil {
		return fmt.Errorf("insert pie: %w", err)
	}
	return nil
}

func methodToken(concept models.CodeableConcept) string {
	return fmt.Sprintf("%s|%s", concept.Coding[0].System, concept.Coding[0].Code)
}
