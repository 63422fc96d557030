package types

// WeatherFact is the subset of the provider's current conditions the app shows.
type WeatherFact struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	WindSpeed float64 `json:"wind_speed"`
}

// WeatherSnapshot is a WeatherFact resolved for a named city. It is never persisted.
type WeatherSnapshot struct {
	City string `json:"city"`
	WeatherFact
}
