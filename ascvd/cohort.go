package ascvd

import (
	"strings"
)

// Cohort selects the race half of a coefficient stratum.  The equations were only fit
// for two race groups, so every other reported race falls into CohortWhiteOther.
type Cohort int

const (
	CohortWhiteOther Cohort = iota
	CohortAfricanAmerican
)

func (c Cohort) String() string {
	if c == CohortAfricanAmerican {
		return "African American"
	}
	return "White/Other"
}

// africanAmericanMarkers are compared case-insensitively after trimming.
var africanAmericanMarkers = []string{
	"black or african american",
	"african american",
	"black",
	"aa",
	"2054-5",
}

// IsAfricanAmerican reports whether a single race entry names the African-American cohort.
func IsAfricanAmerican(race string) bool {
	r := strings.ToLower(strings.TrimSpace(race))
	for _, m := range africanAmericanMarkers {
		if r == m {
			return true
		}
	}
	return false
}

// CohortForRace reduces a reported race list to one cohort: the first entry recognized as
// African American selects CohortAfricanAmerican, otherwise CohortWhiteOther.
func CohortForRace(races []string) Cohort {
	for _, r := range races {
		if IsAfricanAmerican(r) {
			return CohortAfricanAmerican
		}
	}
	return CohortWhiteOther
}

// MarshalText encodes the cohort by name.
func (c Cohort) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
