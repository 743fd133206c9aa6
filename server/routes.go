package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"

	"github.com/intervention-engine/cvdriskservice/ascvd"
	"github.com/intervention-engine/cvdriskservice/extract"
	"github.com/intervention-engine/cvdriskservice/middleware"
	"github.com/intervention-engine/cvdriskservice/plugin"
	"github.com/intervention-engine/cvdriskservice/record"
	"github.com/intervention-engine/cvdriskservice/service"
)

// RegisterRoutes sets up the http request handlers with Echo
func RegisterRoutes(e *echo.Echo, db *mgo.Database, basePieURL string, svc service.RiskService, logger zerolog.Logger) {
	e.GET("/pies/:id", func(c echo.Context) error {
		id := c.Param("id")
		if !bson.IsObjectIdHex(id) {
			return c.String(http.StatusBadRequest, "Bad ID format for requested Pie. Should be a BSON Id")
		}
		pie := &plugin.Pie{}
		if err := db.C("pies").FindId(bson.ObjectIdHex(id)).One(pie); err != nil {
			if err == mgo.ErrNotFound {
				return c.String(http.StatusNotFound, "Pie not found")
			}
			return err
		}
		c.Set(middleware.PatientIDKey, strings.TrimPrefix(pie.Patient, "Patient/"))
		return c.JSON(http.StatusOK, pie)
	})

	e.POST("/calculate", func(c echo.Context) error {
		bundle := &record.Bundle{}
		if err := json.NewDecoder(c.Request().Body).Decode(bundle); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Request body must be a FHIR bundle: "+err.Error())
		}

		c.Set(middleware.PatientIDKey, bundle.PatientID())

		outcomes, err := svc.Calculate(bundle, basePieURL)
		if err != nil {
			if isPatientDataError(err) {
				return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
			}
			return err
		}

		methods := make([]string, 0, len(outcomes))
		for _, o := range outcomes {
			methods = append(methods, o.Method)
		}
		c.Set(middleware.RiskMethodsKey, methods)

		rid, _ := c.Get(middleware.RequestIDKey).(string)
		for _, o := range outcomes {
			evt := logger.Info().Str("request_id", rid).Str("method", o.Method)
			if o.NotApplicable != "" {
				evt.Str("not_applicable", o.NotApplicable).Msg("risk not calculated")
				continue
			}
			if o.Assessment != nil && len(o.Assessment.Prediction) > 0 && o.Assessment.Prediction[0].ProbabilityDecimal != nil {
				evt = evt.Float64("percent", *o.Assessment.Prediction[0].ProbabilityDecimal)
			}
			evt.Msg("risk calculated")
		}
		return c.JSON(http.StatusOK, outcomes)
	})
}

// isPatientDataError reports whether err stems from the submitted record rather than the service.
func isPatientDataError(err error) bool {
	var missingVital *ascvd.MissingVitalError
	return errors.Is(err, extract.ErrMissingBirthDate) ||
		errors.Is(err, record.ErrNoPatient) ||
		errors.Is(err, record.ErrMultiplePatients) ||
		errors.As(err, &missingVital)
}
