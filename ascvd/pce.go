// Package ascvd implements the 2013 ACC/AHA Pooled Cohort Equations for 10-year
// atherosclerotic cardiovascular disease risk.
// See: Goff DC Jr, et al. 2013 ACC/AHA Guideline on the Assessment of Cardiovascular Risk.
package ascvd

import (
	"fmt"
	"math"
)

// The equations are only validated for this age range (inclusive).
const (
	MinAge = 40
	MaxAge = 79
)

// Result is the outcome of a risk calculation.  When OutOfDomain is set the patient's age
// falls outside [MinAge, MaxAge] and Percent is meaningless; this is an expected outcome,
// not a failure.
type Result struct {
	Percent     float64 `json:"percent"`
	OutOfDomain bool    `json:"outOfDomain"`
	Age         int     `json:"age"`
	Cohort      Cohort  `json:"cohort"`
}

// Applicable reports whether Percent holds a risk estimate.
func (r Result) Applicable() bool {
	return !r.OutOfDomain
}

// MissingVitalError is returned when a vital needed by the equations was not found or is
// not a positive number.
type MissingVitalError struct {
	Vital string
}

func (e *MissingVitalError) Error() string {
	return fmt.Sprintf("missing or non-positive %s; risk cannot be calculated", e.Vital)
}

// coefficients is one sex and race stratum of the equations.  Terms that a stratum does not
// use are zero.
type coefficients struct {
	lnAge                  float64
	lnAgeSquared           float64
	lnTotalChol            float64
	lnAgeLnTotalChol       float64
	lnHDL                  float64
	lnAgeLnHDL             float64
	lnTreatedSBP           float64
	lnAgeLnTreatedSBP      float64
	lnUntreatedSBP         float64
	lnAgeLnUntreatedSBP    float64
	smoker                 float64
	lnAgeSmoker            float64
	diabetes               float64
	meanCoefficientProduct float64
	baselineSurvival       float64
}

var (
	whiteFemale = coefficients{
		lnAge:                  -29.799,
		lnAgeSquared:           4.884,
		lnTotalChol:            13.54,
		lnAgeLnTotalChol:       -3.114,
		lnHDL:                  -13.578,
		lnAgeLnHDL:             3.149,
		lnTreatedSBP:           2.019,
		lnUntreatedSBP:         1.957,
		smoker:                 7.574,
		lnAgeSmoker:            -1.665,
		diabetes:               0.661,
		meanCoefficientProduct: -29.1817,
		baselineSurvival:       0.96652,
	}
	africanAmericanFemale = coefficients{
		lnAge:                  17.1141,
		lnTotalChol:            0.9396,
		lnHDL:                  -18.9196,
		lnAgeLnHDL:             4.4748,
		lnTreatedSBP:           29.2907,
		lnAgeLnTreatedSBP:      -6.4321,
		lnUntreatedSBP:         27.8197,
		lnAgeLnUntreatedSBP:    -6.0873,
		smoker:                 0.6908,
		diabetes:               0.8738,
		meanCoefficientProduct: 86.6081,
		baselineSurvival:       0.95334,
	}
	whiteMale = coefficients{
		lnAge:                  12.344,
		lnTotalChol:            11.853,
		lnAgeLnTotalChol:       -2.664,
		lnHDL:                  -7.99,
		lnAgeLnHDL:             1.769,
		lnTreatedSBP:           1.797,
		lnUntreatedSBP:         1.764,
		smoker:                 7.837,
		lnAgeSmoker:            -1.795,
		diabetes:               0.658,
		meanCoefficientProduct: 61.1816,
		baselineSurvival:       0.91436,
	}
	africanAmericanMale = coefficients{
		lnAge:                  2.469,
		lnTotalChol:            0.302,
		lnHDL:                  -0.307,
		lnTreatedSBP:           1.916,
		lnUntreatedSBP:         1.809,
		smoker:                 0.549,
		diabetes:               0.645,
		meanCoefficientProduct: 19.5425,
		baselineSurvival:       0.89536,
	}
)

// stratum picks the coefficient set.  Only "male" selects the male equations; the
// equations have no stratum for other or unknown sexes, which use the female set.
func stratum(sex string, cohort Cohort) coefficients {
	switch {
	case sex == "male" && cohort == CohortAfricanAmerican:
		return africanAmericanMale
	case sex == "male":
		return whiteMale
	case cohort == CohortAfricanAmerican:
		return africanAmericanFemale
	default:
		return whiteFemale
	}
}

// TenYearRisk computes the 10-year ASCVD risk for p as a percentage rounded to one decimal.
// The function is pure: identical profiles always produce identical results.
func TenYearRisk(p Profile) (Result, error) {
	if p.Age < MinAge || p.Age > MaxAge {
		return Result{OutOfDomain: true, Age: p.Age}, nil
	}
	if !p.TotalCholesterol.Usable() {
		return Result{}, &MissingVitalError{Vital: "total cholesterol"}
	}
	if !p.HDL.Usable() {
		return Result{}, &MissingVitalError{Vital: "HDL cholesterol"}
	}
	if !p.SystolicBloodPressure.Usable() {
		return Result{}, &MissingVitalError{Vital: "systolic blood pressure"}
	}

	cohort := CohortForRace(p.Race)
	k := stratum(p.Sex, cohort)

	lnAge := math.Log(float64(p.Age))
	lnTC := math.Log(p.TotalCholesterol.Value)
	lnHDL := math.Log(p.HDL.Value)
	lnSBP := math.Log(p.SystolicBloodPressure.Value)

	var treatedSBP, untreatedSBP float64
	if p.Conditions.Hypertensive {
		treatedSBP = lnSBP
	} else {
		untreatedSBP = lnSBP
	}
	smoker := indicator(p.Conditions.Smoker)
	diabetic := indicator(p.Conditions.Diabetic)

	sum := k.lnAge*lnAge +
		k.lnAgeSquared*lnAge*lnAge +
		k.lnTotalChol*lnTC +
		k.lnAgeLnTotalChol*lnAge*lnTC +
		k.lnHDL*lnHDL +
		k.lnAgeLnHDL*lnAge*lnHDL +
		k.lnTreatedSBP*treatedSBP +
		k.lnAgeLnTreatedSBP*lnAge*treatedSBP +
		k.lnUntreatedSBP*untreatedSBP +
		k.lnAgeLnUntreatedSBP*lnAge*untreatedSBP +
		k.smoker*smoker +
		k.lnAgeSmoker*lnAge*smoker +
		k.diabetes*diabetic

	risk := 1 - math.Pow(k.baselineSurvival, math.Exp(sum-k.meanCoefficientProduct))
	percent := math.Round(risk*1000) / 10
	percent = math.Max(0, math.Min(100, percent))

	return Result{Percent: percent, Age: p.Age, Cohort: cohort}, nil
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
