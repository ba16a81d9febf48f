// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/server/main.go -o docs
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/applications": {
            "get": {"operationId": "listApplications", "tags": ["applications"], "summary": "List my applications", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}},
            "post": {"operationId": "createApplication", "tags": ["applications"], "summary": "Track a new application", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}}
        },
        "/applications/{id}": {
            "put": {"operationId": "updateApplication", "tags": ["applications"], "summary": "Update an application", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"operationId": "deleteApplication", "tags": ["applications"], "summary": "Delete an application", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/experiences": {
            "get": {"operationId": "listExperiences", "tags": ["experiences"], "summary": "List experience reports", "parameters": [{"name": "company", "in": "query", "type": "string"}, {"name": "theme", "in": "query", "type": "string"}, {"name": "search", "in": "query", "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "post": {"operationId": "submitExperience", "tags": ["experiences"], "summary": "Share an experience report", "security": [{"BearerAuth": []}], "parameters": [{"name": "Idempotency-Key", "in": "header", "type": "string"}], "responses": {"200": {"description": "Replayed"}, "201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/experiences/{id}": {
            "get": {"operationId": "getExperience", "tags": ["experiences"], "summary": "Get an experience report", "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/companies": {
            "get": {"operationId": "listCompanies", "tags": ["companies"], "summary": "List companies", "responses": {"200": {"description": "OK"}}}
        },
        "/companies/{name}": {
            "get": {"operationId": "getCompany", "tags": ["companies"], "summary": "Get a company page", "parameters": [{"name": "name", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/user": {
            "get": {"operationId": "getCurrentUser", "tags": ["user"], "summary": "Get the signed-in user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/user/experiences": {
            "get": {"operationId": "listMyExperiences", "tags": ["user"], "summary": "List my experience reports", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/logout": {
            "post": {"operationId": "logout", "tags": ["user"], "summary": "Sign out", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/law-match": {
            "post": {"operationId": "lawMatch", "tags": ["law-match"], "summary": "Rank law firms for a university and WAM", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/firm-university-data": {
            "get": {"operationId": "getFirmUniversityData", "tags": ["law-match"], "summary": "Graduate intake share per firm and university", "responses": {"200": {"description": "OK"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "GradGuide API",
	Description:      "Job application tracking and graduate experience sharing",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
