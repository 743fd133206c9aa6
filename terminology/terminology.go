package terminology

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Code systems used when building FHIR codings for the tables below.
const (
	LOINCSystem  = "http://loinc.org"
	SNOMEDSystem = "http://snomed.info/sct"
)

// USCoreRaceURL identifies the US Core race extension on a Patient.
const USCoreRaceURL = "http://hl7.org/fhir/us/core/StructureDefinition/us-core-race"

// OMBCategory is the sub-extension of the race extension carrying the OMB race codings.
const OMBCategory = "ombCategory"

// CodeSet is an immutable set of codes.  The zero value is an empty set.
type CodeSet struct {
	codes []string
}

// NewCodeSet returns a CodeSet holding a copy of the given codes.
func NewCodeSet(codes ...string) CodeSet {
	cs := CodeSet{codes: make([]string, len(codes))}
	copy(cs.codes, codes)
	return cs
}

// Contains reports whether code is an exact member of the set.
func (cs CodeSet) Contains(code string) bool {
	for _, c := range cs.codes {
		if c == code {
			return true
		}
	}
	return false
}

// Codes returns a copy of the codes in the set, in their original order.
func (cs CodeSet) Codes() []string {
	out := make([]string, len(cs.codes))
	copy(out, cs.codes)
	return out
}

// Len returns the number of codes in the set.
func (cs CodeSet) Len() int {
	return len(cs.codes)
}

// LabThreshold pairs a lab code with the value at or above which the lab confirms a condition.
type LabThreshold struct {
	Code      string
	Threshold float64
}

// CodeTable holds every code the extractors recognize.  It is passed by value and has no
// exported mutable state, so a table handed to an extractor cannot change underneath it.
type CodeTable struct {
	TotalCholesterol      CodeSet
	HDL                   CodeSet
	SystolicBloodPressure CodeSet

	// Body measures are reported alongside the profile and do not feed the equations.
	Height CodeSet
	Weight CodeSet

	SmokingStatus CodeSet
	NonSmoker     CodeSet
	Smoker        CodeSet

	DiabetesDiagnosis CodeSet
	HbA1c             LabThreshold
	FastingGlucose    LabThreshold

	HypertensionDiagnosis CodeSet

	RaceExtensionURL string
}

// DefaultCodeTable returns the built-in LOINC and SNOMED codes.
func DefaultCodeTable() CodeTable {
	return CodeTable{
		TotalCholesterol:      NewCodeSet("2093-3"),
		HDL:                   NewCodeSet("2085-9"),
		SystolicBloodPressure: NewCodeSet("8480-6"),

		Height: NewCodeSet("8302-2"),
		Weight: NewCodeSet("29463-7"),

		SmokingStatus: NewCodeSet("72166-2"),
		NonSmoker:     NewCodeSet("266919005"),
		Smoker:        NewCodeSet("449868002", "428041000124106", "77176002", "428071000124103", "428061000124105"),

		DiabetesDiagnosis: NewCodeSet("46635009", "44054006", "73211009"),
		HbA1c:             LabThreshold{Code: "4548-4", Threshold: 6.5},
		FastingGlucose:    LabThreshold{Code: "1558-6", Threshold: 126.0},

		HypertensionDiagnosis: NewCodeSet("59621000", "38341003", "35105007"),

		RaceExtensionURL: USCoreRaceURL,
	}
}

type labThresholdFile struct {
	Code      string   `yaml:"code"`
	Threshold *float64 `yaml:"threshold"`
}

// codeTableFile is the on-disk representation of a CodeTable.  Sections left out of the
// file keep their built-in values.
type codeTableFile struct {
	TotalCholesterol      []string          `yaml:"total_cholesterol"`
	HDL                   []string          `yaml:"hdl"`
	SystolicBloodPressure []string          `yaml:"systolic_blood_pressure"`
	Height                []string          `yaml:"body_height"`
	Weight                []string          `yaml:"body_weight"`
	SmokingStatus         []string          `yaml:"smoking_status"`
	NonSmoker             []string          `yaml:"non_smoker"`
	Smoker                []string          `yaml:"smoker"`
	DiabetesDiagnosis     []string          `yaml:"diabetes_diagnosis"`
	HbA1c                 *labThresholdFile `yaml:"hba1c"`
	FastingGlucose        *labThresholdFile `yaml:"fasting_glucose"`
	HypertensionDiagnosis []string          `yaml:"hypertension_diagnosis"`
	RaceExtensionURL      string            `yaml:"race_extension_url"`
}

// LoadCodeTable reads a YAML code table from path, layered over DefaultCodeTable.
func LoadCodeTable(path string) (CodeTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CodeTable{}, fmt.Errorf("read code table: %w", err)
	}
	return ParseCodeTable(data)
}

// ParseCodeTable decodes a YAML code table, layered over DefaultCodeTable.
func ParseCodeTable(data []byte) (CodeTable, error) {
	var f codeTableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return CodeTable{}, fmt.Errorf("parse code table: %w", err)
	}

	t := DefaultCodeTable()
	override(&t.TotalCholesterol, f.TotalCholesterol)
	override(&t.HDL, f.HDL)
	override(&t.SystolicBloodPressure, f.SystolicBloodPressure)
	override(&t.Height, f.Height)
	override(&t.Weight, f.Weight)
	override(&t.SmokingStatus, f.SmokingStatus)
	override(&t.NonSmoker, f.NonSmoker)
	override(&t.Smoker, f.Smoker)
	override(&t.DiabetesDiagnosis, f.DiabetesDiagnosis)
	override(&t.HypertensionDiagnosis, f.HypertensionDiagnosis)
	if err := overrideThreshold(&t.HbA1c, f.HbA1c, "hba1c"); err != nil {
		return CodeTable{}, err
	}
	if err := overrideThreshold(&t.FastingGlucose, f.FastingGlucose, "fasting_glucose"); err != nil {
		return CodeTable{}, err
	}
	if f.RaceExtensionURL != "" {
		t.RaceExtensionURL = f.RaceExtensionURL
	}
	return t, nil
}

// Len returns the number of codes across every set in the table.
func (t CodeTable) Len() int {
	n := 0
	for _, cs := range t.sets() {
		n += cs.Len()
	}
	return n
}

func (t CodeTable) sets() []CodeSet {
	return []CodeSet{
		t.TotalCholesterol, t.HDL, t.SystolicBloodPressure, t.Height, t.Weight,
		t.SmokingStatus, t.NonSmoker, t.Smoker, t.DiabetesDiagnosis, t.HypertensionDiagnosis,
	}
}

// Encode renders the table in the format read by ParseCodeTable.
func (t CodeTable) Encode() ([]byte, error) {
	threshold := func(lt LabThreshold) *labThresholdFile {
		v := lt.Threshold
		return &labThresholdFile{Code: lt.Code, Threshold: &v}
	}
	f := codeTableFile{
		TotalCholesterol:      t.TotalCholesterol.Codes(),
		HDL:                   t.HDL.Codes(),
		SystolicBloodPressure: t.SystolicBloodPressure.Codes(),
		Height:                t.Height.Codes(),
		Weight:                t.Weight.Codes(),
		SmokingStatus:         t.SmokingStatus.Codes(),
		NonSmoker:             t.NonSmoker.Codes(),
		Smoker:                t.Smoker.Codes(),
		DiabetesDiagnosis:     t.DiabetesDiagnosis.Codes(),
		HbA1c:                 threshold(t.HbA1c),
		FastingGlucose:        threshold(t.FastingGlucose),
		HypertensionDiagnosis: t.HypertensionDiagnosis.Codes(),
		RaceExtensionURL:      t.RaceExtensionURL,
	}
	data, err := yaml.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("encode code table: %w", err)
	}
	return data, nil
}

func override(cs *CodeSet, codes []string) {
	if len(codes) > 0 {
		*cs = NewCodeSet(codes...)
	}
}

func overrideThreshold(lt *LabThreshold, f *labThresholdFile, section string) error {
	if f == nil {
		return nil
	}
	if f.Code != "" {
		lt.Code = f.Code
	}
	if f.Threshold != nil {
		if *f.Threshold <= 0 {
			return fmt.Errorf("parse code table: %s threshold must be positive, got %v", section, *f.Threshold)
		}
		lt.Threshold = *f.Threshold
	}
	return nil
}
