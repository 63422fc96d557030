// Package docs holds the OpenAPI document served under /swagger when enabled.
// Keep it in sync with the handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "description": "Static landing page. Served for every GET path outside /cities and /weather.",
                "produces": ["text/html"],
                "tags": ["Pages"],
                "summary": "Main page",
                "responses": {
                    "200": {"description": "HTML page", "schema": {"type": "string"}}
                }
            }
        },
        "/cities": {
            "get": {
                "description": "HTML list of every saved city with its coordinates.",
                "produces": ["text/html"],
                "tags": ["Pages"],
                "summary": "List cities",
                "responses": {
                    "200": {"description": "HTML page", "schema": {"type": "string"}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "string"}}
                }
            },
            "put": {
                "description": "Partially updates a city. When the city does not exist the request is handled like POST /cities.",
                "consumes": ["application/json"],
                "produces": ["text/plain"],
                "tags": ["Cities"],
                "summary": "Update a city",
                "parameters": [
                    {"type": "string", "description": "API token", "name": "WEATHER_API_KEY", "in": "header", "required": true},
                    {"type": "string", "description": "City name", "name": "name", "in": "query", "required": true},
                    {"description": "Attributes to change", "name": "city", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.CityPayload"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"type": "string"}},
                    "201": {"description": "Created", "schema": {"type": "string"}},
                    "400": {"description": "Bad Request", "schema": {"type": "string"}},
                    "403": {"description": "Forbidden", "schema": {"type": "string"}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "string"}}
                }
            },
            "post": {
                "description": "Inserts a city. The body must contain exactly name, latitude and longitude.",
                "consumes": ["application/json"],
                "produces": ["text/plain"],
                "tags": ["Cities"],
                "summary": "Add a city",
                "parameters": [
                    {"type": "string", "description": "API token", "name": "WEATHER_API_KEY", "in": "header", "required": true},
                    {"description": "City", "name": "city", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.CityPayload"}}
                ],
                "responses": {
                    "200": {"description": "Already exists", "schema": {"type": "string"}},
                    "201": {"description": "Created", "schema": {"type": "string"}},
                    "400": {"description": "Bad Request", "schema": {"type": "string"}},
                    "403": {"description": "Forbidden", "schema": {"type": "string"}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "string"}}
                }
            },
            "delete": {
                "produces": ["text/plain"],
                "tags": ["Cities"],
                "summary": "Delete a city",
                "parameters": [
                    {"type": "string", "description": "API token", "name": "WEATHER_API_KEY", "in": "header", "required": true},
                    {"type": "string", "description": "City name", "name": "name", "in": "query", "required": true}
                ],
                "responses": {
                    "202": {"description": "City did not exist", "schema": {"type": "string"}},
                    "204": {"description": "Deleted"},
                    "400": {"description": "Bad Request", "schema": {"type": "string"}},
                    "403": {"description": "Forbidden", "schema": {"type": "string"}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "string"}}
                }
            }
        },
        "/weather": {
            "get": {
                "description": "Current weather for a saved city. Without the city parameter a form listing every saved city is returned.",
                "produces": ["text/html"],
                "tags": ["Pages"],
                "summary": "Weather for a city",
                "parameters": [
                    {"type": "string", "description": "City name", "name": "city", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "HTML page", "schema": {"type": "string"}},
                    "404": {"description": "City not found", "schema": {"type": "string"}},
                    "502": {"description": "Weather provider error", "schema": {"type": "string"}},
                    "503": {"description": "Weather provider unreachable", "schema": {"type": "string"}}
                }
            }
        }
    },
    "definitions": {
        "types.CityPayload": {
            "type": "object",
            "properties": {
                "latitude": {"type": "number"},
                "longitude": {"type": "number"},
                "name": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "WEATHER_API_KEY", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "City Weather API",
	Description:      "Saved cities and their current weather from YANDEX.Weather.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
