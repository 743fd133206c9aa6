package extract

import (
	"time"

	"github.com/intervention-engine/fhir/models"

	"github.com/intervention-engine/cvdriskservice/record"
	"github.com/intervention-engine/cvdriskservice/terminology"
)

func quantityObservation(id, loincCode string, value float64) record.Observation {
	return record.Observation{
		Id:     id,
		Status: "final",
		Code: &models.CodeableConcept{
			Coding: []models.Coding{{System: terminology.LOINCSystem, Code: loincCode}},
		},
		ValueQuantity: &models.Quantity{Value: &value},
	}
}

func codedObservation(id, loincCode string, snomedCodes ...string) record.Observation {
	obs := record.Observation{
		Id:     id,
		Status: "final",
		Code: &models.CodeableConcept{
			Coding: []models.Coding{{System: terminology.LOINCSystem, Code: loincCode}},
		},
	}
	if len(snomedCodes) > 0 {
		obs.ValueCodeableConcept = &models.CodeableConcept{}
		for _, code := range snomedCodes {
			obs.ValueCodeableConcept.Coding = append(obs.ValueCodeableConcept.Coding, models.Coding{System: terminology.SNOMEDSystem, Code: code})
		}
	}
	return obs
}

func condition(id, snomedCode string) record.Condition {
	return record.Condition{
		Id: id,
		Code: &models.CodeableConcept{
			Coding: []models.Coding{{System: terminology.SNOMEDSystem, Code: snomedCode}},
		},
	}
}

func patient(gender string, birthDate time.Time, races ...string) *record.Patient {
	p := &record.Patient{
		Id:        "p1",
		Name:      []record.HumanName{{Family: "Doe", Given: []string{"Jane"}}},
		Gender:    gender,
		BirthDate: birthDate.Format("2006-01-02"),
	}
	if len(races) > 0 {
		ext := record.Extension{Url: terminology.USCoreRaceURL}
		for _, r := range races {
			ext.Extension = append(ext.Extension, record.Extension{
				Url:         terminology.OMBCategory,
				ValueCoding: &models.Coding{System: "urn:oid:2.16.840.1.113883.6.238", Display: r},
			})
		}
		p.Extension = append(p.Extension, ext)
	}
	return p
}
