package extract

import (
	"time"

	"github.com/intervention-engine/fhir/models"

	"github.com/intervention-engine/cvdriskservice/record"
	"github.com/intervention-engine/cvdriskservice/terminology"
	. "gopkg.in/check.v1"
)

type DemographicsSuite struct{}

var _ = Suite(&DemographicsSuite{})

func (s *DemographicsSuite) TestName(c *C) {
	p := &record.Patient{Name: []record.HumanName{
		{Family: "Doe", Given: []string{"Jane", "Q"}},
		{Family: "Smith", Given: []string{"Janey"}},
	}}
	c.Assert(Name(p), Equals, "Jane Q Doe")
	c.Assert(Name(&record.Patient{Name: []record.HumanName{{Family: "Doe"}}}), Equals, "Doe")
	c.Assert(Name(&record.Patient{Name: []record.HumanName{{Given: []string{"Jane"}}}}), Equals, "Jane")
	c.Assert(Name(&record.Patient{Name: []record.HumanName{{}}}), Equals, "Unknown")
	c.Assert(Name(&record.Patient{}), Equals, "Unknown")
	c.Assert(Name(nil), Equals, "Unknown")
}

func (s *DemographicsSuite) TestSex(c *C) {
	c.Assert(Sex(&record.Patient{Gender: "female"}), Equals, "female")
	c.Assert(Sex(&record.Patient{Gender: "other"}), Equals, "other")
	c.Assert(Sex(&record.Patient{}), Equals, "unknown")
	c.Assert(Sex(nil), Equals, "unknown")
}

func (s *DemographicsSuite) TestAge(c *C) {
	birth := time.Date(1969, time.March, 15, 0, 0, 0, 0, time.UTC)
	p := patient("female", birth)
	tests := []struct {
		today time.Time
		age   int
	}{
		{time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC), 55},
		{time.Date(2024, time.March, 14, 12, 0, 0, 0, time.UTC), 54},
		{time.Date(2024, time.February, 28, 0, 0, 0, 0, time.UTC), 54},
		{time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), 55},
		{time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), 55},
	}
	for _, t := range tests {
		age, err := Age(p, t.today)
		c.Assert(err, IsNil)
		c.Assert(age, Equals, t.age, Commentf("today %s", t.today))
	}
}

func (s *DemographicsSuite) TestAgePartialBirthDates(c *C) {
	today := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		birthDate string
		age       int
	}{
		{"1970", 54},
		{"1970-05", 53},
		{"1970-03", 54},
		{"1970-05-10", 53},
		{"1970-03-15", 54},
		{"1970-03-16", 53},
		{"1970-05-10T08:30:00-05:00", 53},
		{" 1970-03-01 ", 54},
	}
	for _, t := range tests {
		age, err := Age(&record.Patient{BirthDate: t.birthDate}, today)
		c.Assert(err, IsNil, Commentf("birth date %q", t.birthDate))
		c.Assert(age, Equals, t.age, Commentf("birth date %q", t.birthDate))
	}
}

func (s *DemographicsSuite) TestParseBirthDate(c *C) {
	bd, ok := ParseBirthDate("1970")
	c.Assert(ok, Equals, true)
	c.Assert(bd, Equals, time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC))
	bd, ok = ParseBirthDate("1970-05")
	c.Assert(ok, Equals, true)
	c.Assert(bd, Equals, time.Date(1970, time.May, 1, 0, 0, 0, 0, time.UTC))
	bd, ok = ParseBirthDate("1970-05-10")
	c.Assert(ok, Equals, true)
	c.Assert(bd, Equals, time.Date(1970, time.May, 10, 0, 0, 0, 0, time.UTC))
	_, ok = ParseBirthDate("May 1970")
	c.Assert(ok, Equals, false)
}

func (s *DemographicsSuite) TestAgeMissingBirthDate(c *C) {
	_, err := Age(&record.Patient{}, time.Now())
	c.Assert(err, Equals, ErrMissingBirthDate)
	for _, bd := range []string{"", "  ", "not-a-date", "1970-13", "1970-02-30", "70", "1970/05/10"} {
		_, err = Age(&record.Patient{BirthDate: bd}, time.Now())
		c.Assert(err, Equals, ErrMissingBirthDate, Commentf("birth date %q", bd))
	}
	_, err = Age(nil, time.Now())
	c.Assert(err, Equals, ErrMissingBirthDate)
}

func (s *DemographicsSuite) TestRace(c *C) {
	p := patient("female", time.Now(), "White", "Black or African American")
	c.Assert(Race(p, terminology.USCoreRaceURL), DeepEquals, []string{"White", "Black or African American"})
}

func (s *DemographicsSuite) TestRaceSkipsOtherSubExtensions(c *C) {
	p := &record.Patient{Extension: []record.Extension{
		{Url: "http://example.org/birthsex", ValueString: "F"},
		{
			Url: terminology.USCoreRaceURL,
			Extension: []record.Extension{
				{Url: "detailed", ValueCoding: &models.Coding{Display: "Cherokee"}},
				{Url: terminology.OMBCategory, ValueCoding: &models.Coding{Display: "American Indian or Alaska Native"}},
				{Url: terminology.OMBCategory, ValueCoding: &models.Coding{Code: "2106-3"}},
				{Url: terminology.OMBCategory},
				{Url: "text", ValueString: "Cherokee"},
			},
		},
	}}
	c.Assert(Race(p, terminology.USCoreRaceURL), DeepEquals, []string{"American Indian or Alaska Native"})
}

func (s *DemographicsSuite) TestRaceDefaultsToUnknown(c *C) {
	c.Assert(Race(&record.Patient{}, terminology.USCoreRaceURL), DeepEquals, []string{"Unknown"})
	c.Assert(Race(nil, terminology.USCoreRaceURL), DeepEquals, []string{"Unknown"})
	p := &record.Patient{Extension: []record.Extension{{Url: terminology.USCoreRaceURL}}}
	c.Assert(Race(p, terminology.USCoreRaceURL), DeepEquals, []string{"Unknown"})
	withRace := patient("male", time.Now(), "Asian")
	c.Assert(Race(withRace, "http://example.org/other-race"), DeepEquals, []string{"Unknown"})
}
