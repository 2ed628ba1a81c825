package models

// AirportRecord is one harvested airport. Field order matches the detail
// page layout, which is also the order keys appear in serialized output.
// Optional fields are pointers so missing data serializes as JSON null
// rather than a zero value.
type AirportRecord struct {
	AirportCode     string   `json:"airportCode"`
	AirportName     string   `json:"airportName"`
	RunwayLength    *float64 `json:"runwayLength"`
	RunwayElevation *float64 `json:"runwayElevation"`
	City            *string  `json:"city"`
	Country         *string  `json:"country"`
	CountryAbbr     *string  `json:"countryAbbr"`
	AirportGuide    *string  `json:"airportGuide"`
	Longitude       *float64 `json:"longitude"`
	Latitude        *float64 `json:"latitude"`
	WorldAreaCode   *int     `json:"worldAreaCode"`
	GMTOffset       *int     `json:"gmtOffset"`
	Telephone       *string  `json:"telephone"`
	Fax             *string  `json:"fax"`
	Email           *string  `json:"email"`
	URL             *string  `json:"url"`
}
