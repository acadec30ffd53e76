// Package docs registers the OpenAPI document served under /swagger/.
// Regenerate with: swag init -g cmd/tempus/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/auth/signup": {"post": {"tags": ["auth"], "summary": "Sign up a new user", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}},
        "/api/auth/login": {"post": {"tags": ["auth"], "summary": "Log in", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/api/auth/forgot-password": {"post": {"tags": ["auth"], "summary": "Request a one-time sign-in code", "responses": {"202": {"description": "Accepted"}}}},
        "/api/auth/login/code": {"post": {"tags": ["auth"], "summary": "Log in with a one-time code", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/api/users/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Get current user", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/api/calendar/meetings": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["calendar"], "summary": "List my meetings", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["calendar"], "summary": "Book a meeting", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/api/calendar/meetings/{meetingID}": {"delete": {"security": [{"BearerAuth": []}], "tags": ["calendar"], "summary": "Cancel a meeting", "parameters": [{"type": "integer", "name": "meetingID", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}},
        "/api/calendar/availability": {"get": {"security": [{"BearerAuth": []}], "tags": ["calendar"], "summary": "Check availability", "responses": {"200": {"description": "OK"}}}},
        "/api/calendar/meetings.ics": {"get": {"security": [{"BearerAuth": []}], "produces": ["text/calendar"], "tags": ["calendar"], "summary": "Export my calendar", "responses": {"200": {"description": "OK"}}}},
        "/api/events": {
            "get": {"tags": ["events"], "summary": "List events", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Create an event", "responses": {"201": {"description": "Created"}}}
        },
        "/api/events/{eventID}": {"get": {"tags": ["events"], "summary": "Get an event", "parameters": [{"type": "string", "name": "eventID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/api/events/join": {"post": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Join an event", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Tempus API",
	Description:      "Calendar scheduling service: meetings, availability, an event catalog and iCalendar export.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
