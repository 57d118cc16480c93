// Package docs holds the OpenAPI document served under /api/swagger.
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
        "/projects": {
            "get": {
                "description": "Get every project, newest first",
                "produces": ["application/json"],
                "tags": ["projects"],
                "summary": "List all projects",
                "responses": {
                    "200": {"description": "List of all projects", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Project"}}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "post": {
                "description": "Create a project from name, description, rating (0-5) and an optional image data URI",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["projects"],
                "summary": "Create a new project",
                "parameters": [
                    {"description": "Project data", "name": "project", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.ProjectInput"}}
                ],
                "responses": {
                    "200": {"description": "Created project with its assigned ID", "schema": {"$ref": "#/definitions/models.Project"}},
                    "400": {"description": "Invalid project data", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/projects/export": {
            "get": {
                "description": "Download a tar.gz archive containing projects.json",
                "produces": ["application/gzip"],
                "tags": ["snapshots"],
                "summary": "Export all projects",
                "responses": {
                    "200": {"description": "Snapshot archive", "schema": {"type": "file"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/projects/import": {
            "post": {
                "description": "Upload an archive containing projects.json; every entry becomes a new project",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["snapshots"],
                "summary": "Import projects from a snapshot",
                "parameters": [
                    {"type": "file", "description": "Snapshot archive", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "Projects imported", "schema": {"$ref": "#/definitions/handlers.ImportResponse"}},
                    "400": {"description": "Missing or invalid archive", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/projects/backup": {
            "post": {
                "description": "Build a snapshot archive and upload it to the configured MinIO bucket",
                "produces": ["application/json"],
                "tags": ["snapshots"],
                "summary": "Back up all projects",
                "responses": {
                    "200": {"description": "Snapshot uploaded", "schema": {"$ref": "#/definitions/handlers.BackupResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "503": {"description": "Object storage not configured", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/projects/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["projects"],
                "summary": "Get a project by ID",
                "parameters": [
                    {"type": "integer", "description": "Project ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Project found", "schema": {"$ref": "#/definitions/models.Project"}},
                    "400": {"description": "Invalid ID", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Project not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "put": {
                "description": "Replace every field of the project with the given ID",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["projects"],
                "summary": "Update a project",
                "parameters": [
                    {"type": "integer", "description": "Project ID", "name": "id", "in": "path", "required": true},
                    {"description": "Updated project data", "name": "project", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.ProjectInput"}}
                ],
                "responses": {
                    "200": {"description": "Project updated successfully", "schema": {"$ref": "#/definitions/models.MessageResponse"}},
                    "400": {"description": "Invalid ID or data", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["projects"],
                "summary": "Delete a project",
                "parameters": [
                    {"type": "integer", "description": "Project ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Project deleted successfully", "schema": {"$ref": "#/definitions/models.MessageResponse"}},
                    "400": {"description": "Invalid ID", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.BackupResponse": {
            "type": "object",
            "properties": {"key": {"type": "string"}, "message": {"type": "string"}}
        },
        "handlers.ImportResponse": {
            "type": "object",
            "properties": {"imported": {"type": "integer"}, "message": {"type": "string"}}
        },
        "models.ErrorResponse": {
            "type": "object",
            "properties": {"details": {"type": "array", "items": {"type": "string"}}, "error": {"type": "string"}}
        },
        "models.MessageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "models.Project": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "id": {"type": "integer"},
                "image": {"type": "string"},
                "name": {"type": "string"},
                "rating": {"type": "integer"}
            }
        },
        "models.ProjectInput": {
            "type": "object",
            "required": ["description", "name", "rating"],
            "properties": {
                "description": {"type": "string"},
                "image": {"type": "string"},
                "name": {"type": "string"},
                "rating": {"type": "integer", "maximum": 5, "minimum": 0}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Portfolio Service API",
	Description:      "CRUD API for portfolio projects with snapshot export, import and backup.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
