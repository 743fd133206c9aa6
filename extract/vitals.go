package extract

import (
	"github.com/intervention-engine/cvdriskservice/ascvd"
	"github.com/intervention-engine/cvdriskservice/record"
	"github.com/intervention-engine/cvdriskservice/terminology"
)

// VitalSigns are the measured inputs to the risk model plus the body measures reported with
// it.  Values are taken as recorded; the model expects mg/dL for both cholesterol values and
// mmHg for blood pressure, height is read as cm and weight as kg.  Units are not checked or
// converted.
type VitalSigns struct {
	TotalCholesterol      ascvd.Measurement
	HDL                   ascvd.Measurement
	SystolicBloodPressure ascvd.Measurement
	Height                ascvd.Measurement
	Weight                ascvd.Measurement
}

// Vitals resolves each vital sign against the table's codes.
func Vitals(observations []record.Observation, table terminology.CodeTable) VitalSigns {
	return VitalSigns{
		TotalCholesterol:      ObservationValue(observations, table.TotalCholesterol),
		HDL:                   ObservationValue(observations, table.HDL),
		SystolicBloodPressure: ObservationValue(observations, table.SystolicBloodPressure),
		Height:                ObservationValue(observations, table.Height),
		Weight:                ObservationValue(observations, table.Weight),
	}
}
