package types

import "errors"

var (
	ErrCityNotFound = errors.New("city not found")
	ErrCityExists   = errors.New("city already exists")
	ErrInvalidCity  = errors.New("invalid city attributes")

	// ErrNotModified is returned when a write statement affected no rows.
	ErrNotModified = errors.New("no rows affected")

	// ErrWeatherUnavailable wraps every failure of the weather provider call.
	ErrWeatherUnavailable = errors.New("weather unavailable")
)
