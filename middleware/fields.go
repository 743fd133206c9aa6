package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Context keys handlers set so the request log and panic reports can name what the
// request was about.
const (
	// PatientIDKey holds the id of the patient the request concerns.
	PatientIDKey = "patient_id"
	// RiskMethodsKey holds the method tokens of the risk plugins a calculation ran.
	RiskMethodsKey = "risk_methods"
)

// withRequest adds the request ID, HTTP method, matched route and, once a handler has
// set them, the patient and risk methods.
func withRequest(evt *zerolog.Event, c echo.Context) *zerolog.Event {
	rid, _ := c.Get(RequestIDKey).(string)
	evt = evt.
		Str("request_id", rid).
		Str("method", c.Request().Method).
		Str("route", c.Path())
	if pid, ok := c.Get(PatientIDKey).(string); ok && pid != "" {
		evt = evt.Str("patient_id", pid)
	}
	if methods, ok := c.Get(RiskMethodsKey).([]string); ok && len(methods) > 0 {
		evt = evt.Strs("risk_methods", methods)
	}
	return evt
}
