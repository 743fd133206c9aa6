package record

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNoPatient is returned when a bundle carries no Patient resource.
	ErrNoPatient = errors.New("no patient found in resources")
	// ErrMultiplePatients is returned when a bundle carries more than one Patient resource.
	ErrMultiplePatients = errors.New("found more than one patient in resources")
)

// Bundle is a FHIR searchset, collection, or $everything bundle.
type Bundle struct {
	Type  string        `json:"type,omitempty"`
	Entry []BundleEntry `json:"entry,omitempty"`
}

// BundleEntry holds one decoded resource.  Resource is a *Patient, *Observation, or
// *Condition; entries of any other resource type keep only their ResourceType.
type BundleEntry struct {
	FullUrl      string      `json:"fullUrl,omitempty"`
	ResourceType string      `json:"-"`
	Resource     interface{} `json:"-"`
}

type bundleEntryJSON struct {
	FullUrl  string          `json:"fullUrl,omitempty"`
	Resource json.RawMessage `json:"resource,omitempty"`
}

// UnmarshalJSON decodes the entry's resource according to its resourceType.
func (e *BundleEntry) UnmarshalJSON(data []byte) error {
	var raw bundleEntryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.FullUrl = raw.FullUrl
	if len(raw.Resource) == 0 {
		return nil
	}

	var header struct {
		ResourceType string `json:"resourceType"`
	}
	if err := json.Unmarshal(raw.Resource, &header); err != nil {
		return err
	}
	e.ResourceType = header.ResourceType

	var target interface{}
	switch header.ResourceType {
	case "Patient":
		target = new(Patient)
	case "Observation":
		target = new(Observation)
	case "Condition":
		target = new(Condition)
	default:
		return nil
	}
	if err := json.Unmarshal(raw.Resource, target); err != nil {
		return fmt.Errorf("decode %s: %w", header.ResourceType, err)
	}
	e.Resource = target
	return nil
}

// MarshalJSON writes the entry back out with its resourceType restored.
func (e BundleEntry) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{}
	if e.FullUrl != "" {
		out["fullUrl"] = e.FullUrl
	}
	if e.Resource != nil {
		data, err := json.Marshal(e.Resource)
		if err != nil {
			return nil, err
		}
		var fields map[string]interface{}
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, err
		}
		fields["resourceType"] = e.ResourceType
		out["resource"] = fields
	}
	return json.Marshal(out)
}

// NewBundle builds a collection bundle from Patient, Observation, and Condition records.
func NewBundle(resources ...interface{}) *Bundle {
	b := &Bundle{Type: "collection"}
	for _, r := range resources {
		entry := BundleEntry{Resource: r}
		switch r.(type) {
		case *Patient:
			entry.ResourceType = "Patient"
		case *Observation:
			entry.ResourceType = "Observation"
		case *Condition:
			entry.ResourceType = "Condition"
		default:
			continue
		}
		b.Entry = append(b.Entry, entry)
	}
	return b
}

// PatientID returns the id of the bundle's first Patient entry, or "" when it has none.
func (b *Bundle) PatientID() string {
	for _, entry := range b.Entry {
		if p, ok := entry.Resource.(*Patient); ok {
			return p.Id
		}
	}
	return ""
}

// Resources gathers the bundle's records for a single patient, preserving entry order.
func (b *Bundle) Resources() (*Resources, error) {
	res := &Resources{}
	for _, entry := range b.Entry {
		switch r := entry.Resource.(type) {
		case *Patient:
			if res.Patient != nil {
				return nil, ErrMultiplePatients
			}
			res.Patient = r
		case *Observation:
			res.Observations = append(res.Observations, *r)
		case *Condition:
			res.Conditions = append(res.Conditions, *r)
		}
	}
	if res.Patient == nil {
		return nil, ErrNoPatient
	}
	return res, nil
}
