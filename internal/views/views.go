// Package views renders the HTML pages served by the city handler.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/FACorreiaa/go-city-weather/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	TemplateMain         = "index.html"
	TemplateCities       = "cities.html"
	TemplateWeather      = "weather.html"
	TemplateWeatherDummy = "weather_dummy.html"
)

// Renderer holds the parsed page templates. It is safe for concurrent use.
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

func (r *Renderer) render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) MainPage() ([]byte, error) {
	return r.render(TemplateMain, nil)
}

func (r *Renderer) CitiesPage(cities []types.City) ([]byte, error) {
	return r.render(TemplateCities, struct{ Cities []types.City }{cities})
}

func (r *Renderer) WeatherPage(snapshot types.WeatherSnapshot) ([]byte, error) {
	return r.render(TemplateWeather, snapshot)
}

// WeatherFormPage lists the given city names as options of the lookup form.
func (r *Renderer) WeatherFormPage(cityNames []string) ([]byte, error) {
	return r.render(TemplateWeatherDummy, struct{ Cities []string }{cityNames})
}
