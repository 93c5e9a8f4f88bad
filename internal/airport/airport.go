package airport

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Airport is a single map pin. It is a plain comparable value: two airports
// are equal only when every field matches, so == is the equality used to
// decide whether a detail result still belongs to the selected pin.
type Airport struct {
	Code      string
	Latitude  float64
	Longitude float64
	Name      string
	City      string
	Country   string
}

// Info is the extra detail payload shown in the card body once it has been
// fetched for an airport.
type Info struct {
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// airportJSON mirrors the bundled data file, where coordinates are strings.
type airportJSON struct {
	Code    string          `json:"code"`
	Lat     json.RawMessage `json:"lat"`
	Lon     json.RawMessage `json:"lon"`
	Name    string          `json:"name"`
	City    string          `json:"city"`
	Country string          `json:"country"`
}

// Equal reports whether a and other describe the same airport.
func (a Airport) Equal(other Airport) bool {
	return a == other
}

// Info returns the detail payload derived from the airport's display fields.
func (a Airport) Info() Info {
	return Info{
		Name:    a.Name,
		City:    a.City,
		Country: a.Country,
	}
}

// Coordinates returns a short human readable coordinate pair
func (a Airport) Coordinates() string {
	return fmt.Sprintf("%.4f, %.4f", a.Latitude, a.Longitude)
}

// String returns a human-readable string representation of the airport
func (a Airport) String() string {
	return fmt.Sprintf("%s (%s, %s)", a.Code, a.City, a.Country)
}

// Validate checks the fields a pin needs to be placed on the map.
func (a Airport) Validate() error {
	if strings.TrimSpace(a.Code) == "" {
		return fmt.Errorf("airport code is required")
	}
	if math.IsNaN(a.Latitude) || math.IsNaN(a.Longitude) {
		return fmt.Errorf("airport %s: coordinates must be numbers", a.Code)
	}
	if a.Latitude < -90 || a.Latitude > 90 {
		return fmt.Errorf("airport %s: latitude %v out of range [-90, 90]", a.Code, a.Latitude)
	}
	if a.Longitude < -180 || a.Longitude > 180 {
		return fmt.Errorf("airport %s: longitude %v out of range [-180, 180]", a.Code, a.Longitude)
	}
	return nil
}

// MarshalJSON writes the airport in the same shape as the bundled data file.
func (a Airport) MarshalJSON() ([]byte, error) {
	lat, _ := json.Marshal(strconv.FormatFloat(a.Latitude, 'f', -1, 64))
	lon, _ := json.Marshal(strconv.FormatFloat(a.Longitude, 'f', -1, 64))
	return json.Marshal(airportJSON{
		Code:    a.Code,
		Lat:     lat,
		Lon:     lon,
		Name:    a.Name,
		City:    a.City,
		Country: a.Country,
	})
}

// UnmarshalJSON accepts coordinates either as decimal strings (the format of
// the bundled file) or as JSON numbers.
func (a *Airport) UnmarshalJSON(data []byte) error {
	var raw airportJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	lat, err := parseCoordinate(raw.Lat)
	if err != nil {
		return fmt.Errorf("airport %q: invalid lat: %w", raw.Code, err)
	}
	lon, err := parseCoordinate(raw.Lon)
	if err != nil {
		return fmt.Errorf("airport %q: invalid lon: %w", raw.Code, err)
	}

	*a = Airport{
		Code:      raw.Code,
		Latitude:  lat,
		Longitude: lon,
		Name:      raw.Name,
		City:      raw.City,
		Country:   raw.Country,
	}
	return nil
}

func parseCoordinate(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("missing value")
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, err
		}
		return v, nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, fmt.Errorf("expected string or number, got %s", string(raw))
	}
	return f, nil
}
