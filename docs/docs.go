// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with: swag init -g cmd/notes-api/main.go
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
                "produces": ["application/json"],
                "tags": ["root"],
                "summary": "Repository root",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.rootResponse"}}
                }
            }
        },
        "/user": {
            "get": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List users",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userCollectionResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.ErrorBody"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Create a user",
                "parameters": [
                    {"description": "User", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.userRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.userResponse"}, "headers": {"Location": {"type": "string", "description": "Address of the new user"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorBody"}},
                    "409": {"description": "duplicate name or missing field", "schema": {"$ref": "#/definitions/handler.ErrorBody"}}
                }
            }
        },
        "/user/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get a user",
                "parameters": [{"type": "integer", "description": "User id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorBody"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Replace a user",
                "parameters": [
                    {"type": "integer", "description": "User id", "name": "id", "in": "path", "required": true},
                    {"description": "User", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.userRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorBody"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.ErrorBody"}}
                }
            },
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Partially update a user",
                "parameters": [
                    {"type": "integer", "description": "User id", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.userRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorBody"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.ErrorBody"}}
                }
            },
            "delete": {
                "tags": ["users"],
                "summary": "Delete a user",
                "parameters": [{"type": "integer", "description": "User id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorBody"}},
                    "409": {"description": "still referenced by a note", "schema": {"$ref": "#/definitions/handler.ErrorBody"}}
                }
            }
        },
        "/note": {
            "get": {
                "produces": ["application/json"],
                "tags": ["notes"],
                "summary": "List notes",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.noteCollectionResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.ErrorBody"}}
                }
            },
            "post": {
                "description": "createdBy must be the address of an existing user. A reminder\nthat is not later than created is answered with 500.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["notes"],
                "summary": "Create a note",
                "parameters": [
                    {"description": "Note", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.noteRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.noteResponse"}, "headers": {"Location": {"type": "string", "description": "Address of the new note"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorBody"}},
                    "409": {"description": "duplicate title, missing field or unresolved createdBy", "schema": {"$ref": "#/definitions/handler.ErrorBody"}},
                    "500": {"description": "reminder not after created", "schema": {"$ref": "#/definitions/handler.ErrorBody"}}
                }
            }
        },
        "/note/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["notes"],
                "summary": "Get a note",
                "parameters": [{"type": "integer", "description": "Note id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.noteResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorBody"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["notes"],
                "summary": "Replace a note",
                "parameters": [
                    {"type": "integer", "description": "Note id", "name": "id", "in": "path", "required": true},
                    {"description": "Note", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.noteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.noteResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorBody"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.ErrorBody"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.ErrorBody"}}
                }
            },
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["notes"],
                "summary": "Partially update a note",
                "parameters": [
                    {"type": "integer", "description": "Note id", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.noteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.noteResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorBody"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.ErrorBody"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.ErrorBody"}}
                }
            },
            "delete": {
                "tags": ["notes"],
                "summary": "Delete a note",
                "parameters": [{"type": "integer", "description": "Note id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorBody"}}
                }
            }
        },
        "/note/{id}/createdBy": {
            "get": {
                "produces": ["application/json"],
                "tags": ["notes"],
                "summary": "Get the user a note was created by",
                "parameters": [{"type": "integer", "description": "Note id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorBody"}}
                }
            }
        }
    },
    "definitions": {
        "handler.ErrorBody": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "handler.link": {
            "type": "object",
            "properties": {"href": {"type": "string"}}
        },
        "handler.links": {
            "type": "object",
            "additionalProperties": {"$ref": "#/definitions/handler.link"}
        },
        "handler.rootResponse": {
            "type": "object",
            "properties": {"_links": {"$ref": "#/definitions/handler.links"}}
        },
        "handler.userRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "password": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "handler.userResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "password": {"type": "string"},
                "email": {"type": "string"},
                "_links": {"$ref": "#/definitions/handler.links"}
            }
        },
        "handler.userCollectionResponse": {
            "type": "object",
            "properties": {
                "_embedded": {
                    "type": "object",
                    "properties": {"user": {"type": "array", "items": {"$ref": "#/definitions/handler.userResponse"}}}
                },
                "_links": {"$ref": "#/definitions/handler.links"}
            }
        },
        "handler.noteRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "body": {"type": "string"},
                "category": {"type": "integer"},
                "created": {"type": "string", "example": "2024-03-01T12:00:00.000+0000"},
                "reminder": {"type": "string", "example": "2024-03-02T09:00:00.000+0000"},
                "createdBy": {"type": "string", "example": "http://localhost:8080/user/1"}
            }
        },
        "handler.noteResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "body": {"type": "string"},
                "category": {"type": "integer"},
                "created": {"type": "string"},
                "reminder": {"type": "string"},
                "createdBy": {"type": "string"},
                "_links": {"$ref": "#/definitions/handler.links"}
            }
        },
        "handler.noteCollectionResponse": {
            "type": "object",
            "properties": {
                "_embedded": {
                    "type": "object",
                    "properties": {"note": {"type": "array", "items": {"$ref": "#/definitions/handler.noteResponse"}}}
                },
                "_links": {"$ref": "#/definitions/handler.links"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Notes API",
	Description:      "Users and the notes they create, with uniqueness and referential rules enforced on every write.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
