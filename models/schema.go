package models

import (
	"strconv"

	"github.com/use-agent/aeroharvest/normalize"
)

// AssignFunc coerces one positional raw value and writes it into the record.
type AssignFunc func(rec *AirportRecord, raw *string)

// Field is one entry of the extraction schema: the output key plus the
// coercion that turns the raw extracted string into the typed field.
type Field struct {
	Key    string
	Assign AssignFunc
}

// Schema is the ordered field list for a detail page. Order is the page's
// layout order (the order text nodes appear in the markup), not alphabetical;
// positional mapping depends on it.
type Schema []Field

// Keys returns the schema keys in order.
func (s Schema) Keys() []string {
	keys := make([]string, len(s))
	for i, f := range s {
		keys[i] = f.Key
	}
	return keys
}

// Map zips the positional raw values onto the schema and applies each
// field's coercion. A count mismatch means the extraction and the schema
// disagree about the page layout; mapping fails instead of silently
// misaligning every field after the gap.
func (s Schema) Map(raw []*string) (*AirportRecord, error) {
	if len(raw) != len(s) {
		return nil, NewMappingError(len(raw), len(s))
	}

	rec := &AirportRecord{}
	for i, f := range s {
		f.Assign(rec, raw[i])
	}
	return rec, nil
}

// DefaultSchema returns the 16-field schema of an airport detail page.
func DefaultSchema() Schema {
	return Schema{
		{"airportCode", func(r *AirportRecord, v *string) { r.AirportCode = stringOrEmpty(v) }},
		{"airportName", func(r *AirportRecord, v *string) { r.AirportName = stringOrEmpty(v) }},
		{"runwayLength", func(r *AirportRecord, v *string) { r.RunwayLength = asFloat(v) }},
		{"runwayElevation", func(r *AirportRecord, v *string) { r.RunwayElevation = asFloat(v) }},
		{"city", func(r *AirportRecord, v *string) { r.City = v }},
		{"country", func(r *AirportRecord, v *string) { r.Country = v }},
		{"countryAbbr", func(r *AirportRecord, v *string) { r.CountryAbbr = v }},
		{"airportGuide", func(r *AirportRecord, v *string) { r.AirportGuide = v }},
		{"longitude", func(r *AirportRecord, v *string) { r.Longitude = asDMS(v) }},
		{"latitude", func(r *AirportRecord, v *string) { r.Latitude = asDMS(v) }},
		{"worldAreaCode", func(r *AirportRecord, v *string) { r.WorldAreaCode = asInt(v) }},
		{"gmtOffset", func(r *AirportRecord, v *string) { r.GMTOffset = asInt(v) }},
		{"telephone", func(r *AirportRecord, v *string) { r.Telephone = v }},
		{"fax", func(r *AirportRecord, v *string) { r.Fax = v }},
		{"email", func(r *AirportRecord, v *string) { r.Email = v }},
		{"url", func(r *AirportRecord, v *string) { r.URL = v }},
	}
}

func stringOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// asInt parses an integer field. Non-numeric text coerces to nil rather
// than rejecting the whole record; a single corrupted cell should not drop
// an otherwise valid airport.
func asInt(v *string) *int {
	if v == nil {
		return nil
	}
	n, err := strconv.Atoi(*v)
	if err != nil {
		return nil
	}
	return &n
}

// asFloat parses a floating point field with the same nil-on-garbage
// policy as asInt.
func asFloat(v *string) *float64 {
	if v == nil {
		return nil
	}
	f, err := strconv.ParseFloat(*v, 64)
	if err != nil {
		return nil
	}
	return &f
}

// asDMS converts a degrees/minutes/seconds coordinate into decimal degrees.
func asDMS(v *string) *float64 {
	if v == nil {
		return nil
	}
	return normalize.ConvertDMS(*v)
}
