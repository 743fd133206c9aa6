package plugin

import (
	"time"

	"github.com/intervention-engine/fhir/models"
	"gopkg.in/mgo.v2/bson"
)

// Pie is the breakdown of the factors behind a risk assessment.  Since the breakdown
// can't be represented in FHIR, the RiskAssessment basis points back to one of these.
type Pie struct {
	Id      bson.ObjectId           `bson:"_id" json:"id"`
	Slices  []Slice                 `bson:"slices" json:"slices"`
	Patient string                  `bson:"patient" json:"patient"`
	Created time.Time               `bson:"created" json:"created"`
	Method  *models.CodeableConcept `bson:"method,omitempty" json:"method,omitempty"`
}

// Slice represents a component that factors into the overall risk assessment
// algorithm.  In the chart, it appears as a slice in the pie.
type Slice struct {
	Name     string `bson:"name" json:"name"`
	Weight   int    `bson:"weight" json:"weight"`
	Value    int    `bson:"value" json:"value"`
	MaxValue int    `bson:"maxValue,omitempty" json:"maxValue,omitempty"`
}

// NewPie constructs a new pie for the given patient, sets the Created time to
// now, and generates a new ID.  Slices are initially empty.
func NewPie(patientRef string) *Pie {
	pie := &Pie{}
	pie.Patient = patientRef
	pie.Created = time.Now()
	pie.Id = bson.NewObjectId()
	return pie
}

// Clone creates a copy of the pie.  If generateNewID is true, it will give
// the clone a new identity.  Slices of the clone can be modified without
// affecting the original.
func (p *Pie) Clone(generateNewID bool) *Pie {
	cloned := *p
	if generateNewID {
		cloned.Id = bson.NewObjectId()
	}
	cloned.Slices = make([]Slice, len(p.Slices))
	copy(cloned.Slices, p.Slices)
	return &cloned
}

// UpdateSliceValue is a convenience function that finds the slice with
// the given name and updates its value, capped at the slice's MaxValue when one is set.
func (p *Pie) UpdateSliceValue(name string, value int) {
	for i := range p.Slices {
		if p.Slices[i].Name == name {
			if p.Slices[i].MaxValue > 0 && value > p.Slices[i].MaxValue {
				value = p.Slices[i].MaxValue
			}
			p.Slices[i].Value = value
			return
		}
	}
}

// SliceValue returns the value of the named slice, or false if the pie has no such slice.
func (p *Pie) SliceValue(name string) (int, bool) {
	for i := range p.Slices {
		if p.Slices[i].Name == name {
			return p.Slices[i].Value, true
		}
	}
	return 0, false
}
