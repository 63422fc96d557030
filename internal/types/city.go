package types

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// City matches the cities table structure.
type City struct {
	ID        uuid.UUID `json:"id" example:"d290f1ee-6c54-4b01-90e6-d701748f0851"`
	Name      string    `json:"name" example:"Moscow"`
	Latitude  float64   `json:"latitude" example:"55.7522"`
	Longitude float64   `json:"longitude" example:"37.6156"`
}

// Coordinates is the geographic point stored for a city.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CityPayload is the JSON body accepted by the city mutation endpoints.
// Pointer fields distinguish an omitted key from a zero value.
type CityPayload struct {
	Name      *string  `json:"name,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// CityPayloadKeys are the only JSON keys a city body may contain, matched exactly.
var CityPayloadKeys = []string{"name", "latitude", "longitude"}

// CityPatch holds the attributes of a partial update. Nil fields are left untouched.
type CityPatch struct {
	Name      *string
	Latitude  *float64
	Longitude *float64
}

// IsEmpty reports whether the patch changes nothing.
func (p CityPatch) IsEmpty() bool {
	return p.Name == nil && p.Latitude == nil && p.Longitude == nil
}

// ToCity converts a creation payload into a City. Every attribute is required.
func (p CityPayload) ToCity() (City, error) {
	var missing []string
	if p.Name == nil {
		missing = append(missing, "name")
	}
	if p.Latitude == nil {
		missing = append(missing, "latitude")
	}
	if p.Longitude == nil {
		missing = append(missing, "longitude")
	}
	if len(missing) > 0 {
		return City{}, fmt.Errorf("%w: missing keys %s", ErrInvalidCity, strings.Join(missing, ", "))
	}

	patch, err := p.ToPatch()
	if err != nil {
		return City{}, err
	}
	return City{
		Name:      *patch.Name,
		Latitude:  *patch.Latitude,
		Longitude: *patch.Longitude,
	}, nil
}

// ToPatch converts an update payload into a CityPatch. At least one attribute is required.
func (p CityPayload) ToPatch() (CityPatch, error) {
	patch := CityPatch{Latitude: p.Latitude, Longitude: p.Longitude}
	if patch.Latitude == nil && patch.Longitude == nil && p.Name == nil {
		return CityPatch{}, fmt.Errorf("%w: body must contain at least one of name, latitude, longitude", ErrInvalidCity)
	}

	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return CityPatch{}, fmt.Errorf("%w: name must not be empty", ErrInvalidCity)
		}
		patch.Name = &name
	}
	if p.Latitude != nil && (*p.Latitude < -90 || *p.Latitude > 90) {
		return CityPatch{}, fmt.Errorf("%w: latitude %v out of range [-90, 90]", ErrInvalidCity, *p.Latitude)
	}
	if p.Longitude != nil && (*p.Longitude < -180 || *p.Longitude > 180) {
		return CityPatch{}, fmt.Errorf("%w: longitude %v out of range [-180, 180]", ErrInvalidCity, *p.Longitude)
	}
	return patch, nil
}
