package extract

import (
	"errors"
	"strings"
	"time"

	"github.com/intervention-engine/cvdriskservice/record"
	"github.com/intervention-engine/cvdriskservice/terminology"
)

// ErrMissingBirthDate is returned when a patient's age cannot be computed.  Age is required
// by the risk model, so this aborts extraction for the patient.
var ErrMissingBirthDate = errors.New("patient birth date is missing")

// Unknown is the display value used for names and races that cannot be resolved.
const Unknown = "Unknown"

// Name joins the given and family names of the patient's first name entry.
func Name(p *record.Patient) string {
	if p == nil || len(p.Name) == 0 {
		return Unknown
	}
	n := p.Name[0]
	full := strings.TrimSpace(strings.Join(n.Given, " ") + " " + n.Family)
	if full == "" {
		return Unknown
	}
	return full
}

// Sex returns the administrative gender as recorded, or "unknown".
func Sex(p *record.Patient) string {
	if p == nil || p.Gender == "" {
		return "unknown"
	}
	return p.Gender
}

// Age returns the patient's age in whole years on the day of today.  A birth date that is
// missing or cannot be parsed yields ErrMissingBirthDate.
func Age(p *record.Patient, today time.Time) (int, error) {
	if p == nil {
		return 0, ErrMissingBirthDate
	}
	birth, ok := ParseBirthDate(p.BirthDate)
	if !ok {
		return 0, ErrMissingBirthDate
	}
	return ageOn(birth, today), nil
}

// birthDateLayouts are the FHIR date precisions, most precise first.
var birthDateLayouts = []string{"2006-01-02", "2006-01", "2006"}

// ParseBirthDate parses a FHIR date of year, month, or day precision.  Missing month and
// day parts are taken as the first.  A dateTime is accepted and its time part dropped.
func ParseBirthDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	for _, layout := range birthDateLayouts {
		if len(s) != len(layout) {
			continue
		}
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func ageOn(birth, today time.Time) int {
	age := today.Year() - birth.Year()
	if today.Month() < birth.Month() || (today.Month() == birth.Month() && today.Day() < birth.Day()) {
		age--
	}
	return age
}

// Race returns the display of every OMB category coding under the first race extension,
// in recorded order, or ["Unknown"] when there are none.
func Race(p *record.Patient, extensionURL string) []string {
	if p == nil {
		return []string{Unknown}
	}
	var races []string
	for _, ext := range p.Extension {
		if ext.Url != extensionURL {
			continue
		}
		for _, sub := range ext.Extension {
			if sub.Url == terminology.OMBCategory && sub.ValueCoding != nil && sub.ValueCoding.Display != "" {
				races = append(races, sub.ValueCoding.Display)
			}
		}
		break
	}
	if len(races) == 0 {
		return []string{Unknown}
	}
	return races
}
