package extract

import (
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/pebbe/util"

	"github.com/intervention-engine/cvdriskservice/ascvd"
	"github.com/intervention-engine/cvdriskservice/record"
	"github.com/intervention-engine/cvdriskservice/terminology"
	. "gopkg.in/check.v1"
)

type ProfileSuite struct {
	Extractor *Extractor
}

var _ = Suite(&ProfileSuite{})

func (s *ProfileSuite) SetUpTest(c *C) {
	s.Extractor = NewExtractor(terminology.DefaultCodeTable())
	s.Extractor.Now = func() time.Time { return time.Date(2024, time.June, 15, 9, 0, 0, 0, time.UTC) }
}

func loadResources(path string) *record.Resources {
	data, err := os.Open(path)
	util.CheckErr(err)
	defer data.Close()

	bundle := new(record.Bundle)
	util.CheckErr(json.NewDecoder(data).Decode(bundle))
	res, err := bundle.Resources()
	util.CheckErr(err)
	return res
}

func (s *ProfileSuite) TestExtractFromBundle(c *C) {
	profile, err := s.Extractor.Extract(loadResources("../fixtures/jane_doe_bundle.json"))
	c.Assert(err, IsNil)
	c.Assert(profile, DeepEquals, ascvd.Profile{
		Name:                  "Jane Q Doe",
		Age:                   55,
		Sex:                   "female",
		Race:                  []string{"White"},
		TotalCholesterol:      ascvd.Measured(213),
		HDL:                   ascvd.Measured(50),
		SystolicBloodPressure: ascvd.Measured(120),
		Conditions:            ascvd.Conditions{},
	})

	result, err := ascvd.TenYearRisk(profile)
	c.Assert(err, IsNil)
	c.Assert(result.Percent, Equals, 2.1)
}

func (s *ProfileSuite) TestExtractAllRiskFactors(c *C) {
	profile, err := s.Extractor.Extract(loadResources("../fixtures/john_roe_bundle.json"))
	c.Assert(err, IsNil)
	c.Assert(profile.Name, Equals, "John Roe")
	c.Assert(profile.Age, Equals, 81)
	c.Assert(profile.Race, DeepEquals, []string{"Black or African American"})
	c.Assert(profile.Conditions, Equals, ascvd.Conditions{Smoker: true, Diabetic: true, Hypertensive: true})

	result, err := ascvd.TenYearRisk(profile)
	c.Assert(err, IsNil)
	c.Assert(result.OutOfDomain, Equals, true)
	c.Assert(result.Age, Equals, 81)
}

func (s *ProfileSuite) TestExtractBodyMeasures(c *C) {
	res := loadResources("../fixtures/jane_doe_bundle.json")
	plain, err := s.Extractor.Extract(res)
	c.Assert(err, IsNil)
	c.Assert(plain.Height, Equals, ascvd.Measurement{})
	c.Assert(plain.BMI, Equals, ascvd.Measurement{})

	res.Observations = append(res.Observations,
		quantityObservation("height", "8302-2", 165),
		quantityObservation("weight", "29463-7", 68),
		quantityObservation("weight-older", "29463-7", 75),
	)
	profile, err := s.Extractor.Extract(res)
	c.Assert(err, IsNil)
	c.Assert(profile.Height, Equals, ascvd.Measured(165))
	c.Assert(profile.Weight, Equals, ascvd.Measured(68))
	c.Assert(profile.BMI, Equals, ascvd.Measured(25.0))

	before, err := ascvd.TenYearRisk(plain)
	c.Assert(err, IsNil)
	after, err := ascvd.TenYearRisk(profile)
	c.Assert(err, IsNil)
	c.Assert(after, Equals, before)
}

func (s *ProfileSuite) TestExtractWeightWithoutHeight(c *C) {
	res := loadResources("../fixtures/jane_doe_bundle.json")
	res.Observations = append(res.Observations, quantityObservation("weight", "29463-7", 68))
	profile, err := s.Extractor.Extract(res)
	c.Assert(err, IsNil)
	c.Assert(profile.Weight, Equals, ascvd.Measured(68))
	c.Assert(profile.Height, Equals, ascvd.Measurement{})
	c.Assert(profile.BMI, Equals, ascvd.Measurement{})
}

func (s *ProfileSuite) TestExtractYearOnlyBirthDate(c *C) {
	res := loadResources("../fixtures/jane_doe_bundle.json")
	res.Patient.BirthDate = "1969"
	profile, err := s.Extractor.Extract(res)
	c.Assert(err, IsNil)
	c.Assert(profile.Age, Equals, 55)
}

func (s *ProfileSuite) TestMissingBirthDateAborts(c *C) {
	res := &record.Resources{
		Patient:      &record.Patient{Id: "no-dob", Gender: "male"},
		Observations: []record.Observation{quantityObservation("1", "2093-3", 200)},
	}
	_, err := s.Extractor.Extract(res)
	c.Assert(errors.Is(err, ErrMissingBirthDate), Equals, true)
	c.Assert(err, ErrorMatches, `extract profile for patient "no-dob": patient birth date is missing`)

	res.Patient.BirthDate = "sometime in 1970"
	_, err = s.Extractor.Extract(res)
	c.Assert(errors.Is(err, ErrMissingBirthDate), Equals, true)

	_, err = s.Extractor.Extract(nil)
	c.Assert(errors.Is(err, ErrMissingBirthDate), Equals, true)
}

func (s *ProfileSuite) TestMissingOptionalFieldsDefault(c *C) {
	res := &record.Resources{Patient: patient("", time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC))}
	res.Patient.Name = nil
	profile, err := s.Extractor.Extract(res)
	c.Assert(err, IsNil)
	c.Assert(profile.Name, Equals, "Unknown")
	c.Assert(profile.Sex, Equals, "unknown")
	c.Assert(profile.Race, DeepEquals, []string{"Unknown"})
	c.Assert(profile.TotalCholesterol.Found, Equals, false)
	c.Assert(profile.HDL.Found, Equals, false)
	c.Assert(profile.SystolicBloodPressure.Found, Equals, false)
	c.Assert(profile.Conditions, Equals, ascvd.Conditions{})

	_, err = ascvd.TenYearRisk(profile)
	c.Assert(err, FitsTypeOf, &ascvd.MissingVitalError{})
}

func (s *ProfileSuite) TestRaceAbsentStillComputes(c *C) {
	res := &record.Resources{
		Patient: patient("female", time.Date(1969, time.March, 1, 0, 0, 0, 0, time.UTC)),
		Observations: []record.Observation{
			quantityObservation("1", "2093-3", 213),
			quantityObservation("2", "2085-9", 50),
			quantityObservation("3", "8480-6", 120),
		},
	}
	profile, err := s.Extractor.Extract(res)
	c.Assert(err, IsNil)
	c.Assert(profile.Race, DeepEquals, []string{"Unknown"})

	result, err := ascvd.TenYearRisk(profile)
	c.Assert(err, IsNil)
	c.Assert(result.Cohort, Equals, ascvd.CohortWhiteOther)
	c.Assert(result.Percent, Equals, 2.1)
}

func (s *ProfileSuite) TestCustomCodeTable(c *C) {
	table, err := terminology.ParseCodeTable([]byte(`total_cholesterol: ["14647-2"]`))
	util.CheckErr(err)
	e := NewExtractor(table)
	e.Now = s.Extractor.Now

	res := &record.Resources{
		Patient:      patient("male", time.Date(1960, time.January, 1, 0, 0, 0, 0, time.UTC)),
		Observations: []record.Observation{quantityObservation("1", "2093-3", 213), quantityObservation("2", "14647-2", 5.5)},
	}
	profile, err := e.Extract(res)
	c.Assert(err, IsNil)
	c.Assert(profile.TotalCholesterol, Equals, ascvd.Measured(5.5))
}
