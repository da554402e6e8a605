// Package docs registers the Swagger/OpenAPI description of the AnonBox API
// with swaggo at init time. The gin-swagger UI route serves it when
// SWAGGER_ENABLED is set.
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
        "/api/confess": {
            "post": {
                "description": "Accepts free-text content up to 1000 characters. Supports Idempotency-Key replay.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Submission"],
                "summary": "Submit an anonymous confession",
                "operationId": "submitConfession",
                "parameters": [
                    {"type": "string", "description": "Client-chosen retry key", "name": "Idempotency-Key", "in": "header"},
                    {"description": "Submission payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.SubmitRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.SubmitResponse"}},
                    "400": {"description": "Empty or over-length content", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Store failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "description": "Verifies credentials and issues an opaque session token. Failed attempts are throttled per email.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Admin login",
                "operationId": "adminLogin",
                "parameters": [
                    {"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.LoginResponse"}},
                    "400": {"description": "Malformed body", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Unknown email or wrong password", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "429": {"description": "Too many failed attempts", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "description": "Revokes the presented session token. Revoking an already-revoked token is not an error.",
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Admin logout",
                "operationId": "adminLogout",
                "parameters": [
                    {"type": "string", "description": "Bearer session token", "name": "Authorization", "in": "header", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Missing or invalid session", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/confessions": {
            "get": {
                "description": "Returns the in-memory working set filtered by the q parameter. Supports weak ETag via If-None-Match.",
                "produces": ["application/json"],
                "tags": ["Moderation"],
                "summary": "List confessions (filtered snapshot)",
                "operationId": "listConfessions",
                "parameters": [
                    {"type": "string", "description": "Bearer session token", "name": "Authorization", "in": "header", "required": true},
                    {"type": "string", "description": "Return 304 if ETag matches", "name": "If-None-Match", "in": "header"},
                    {"type": "string", "description": "Case-insensitive substring over content", "name": "q", "in": "query"},
                    {"type": "integer", "description": "Truncate the filtered result", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ListConfessionsResponse"}, "headers": {"ETag": {"type": "string", "description": "Weak ETag for current result"}}},
                    "304": {"description": "Not Modified"},
                    "401": {"description": "Missing or invalid session", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/confessions/refresh": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Moderation"],
                "summary": "Reload the working set from the store",
                "operationId": "refreshConfessions",
                "parameters": [
                    {"type": "string", "description": "Bearer session token", "name": "Authorization", "in": "header", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Missing or invalid session", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Store failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/confessions/export": {
            "get": {
                "description": "Streams the current working set, filtered by q, as an RFC 4180 CSV attachment.",
                "produces": ["text/csv"],
                "tags": ["Moderation"],
                "summary": "Export the filtered snapshot as CSV",
                "operationId": "exportConfessions",
                "parameters": [
                    {"type": "string", "description": "Bearer session token", "name": "Authorization", "in": "header", "required": true},
                    {"type": "string", "description": "Case-insensitive substring over content", "name": "q", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "CSV payload", "schema": {"type": "string"}},
                    "401": {"description": "Missing or invalid session", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Render failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/confessions/{id}": {
            "delete": {
                "description": "Irreversible. Requires the X-Confirm-Delete header; repeating a delete is not an error.",
                "produces": ["application/json"],
                "tags": ["Moderation"],
                "summary": "Permanently delete a confession",
                "operationId": "deleteConfession",
                "parameters": [
                    {"type": "string", "description": "Bearer session token", "name": "Authorization", "in": "header", "required": true},
                    {"type": "string", "description": "Explicit confirmation, e.g. \"true\"", "name": "X-Confirm-Delete", "in": "header", "required": true},
                    {"type": "string", "format": "uuid", "description": "Confession ID (UUID)", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Malformed id", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Missing or invalid session", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "428": {"description": "Confirmation header missing", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Store failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/confessions/{id}/read": {
            "patch": {
                "description": "Flips isRead; never touches any other field. A missing id is a silent no-op.",
                "produces": ["application/json"],
                "tags": ["Moderation"],
                "summary": "Toggle the read flag of a confession",
                "operationId": "toggleRead",
                "parameters": [
                    {"type": "string", "description": "Bearer session token", "name": "Authorization", "in": "header", "required": true},
                    {"type": "string", "format": "uuid", "description": "Confession ID (UUID)", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Malformed id", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Missing or invalid session", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Store failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/confessions/{id}/archive": {
            "patch": {
                "description": "Flips archived; never touches any other field. A missing id is a silent no-op.",
                "produces": ["application/json"],
                "tags": ["Moderation"],
                "summary": "Toggle the archived flag of a confession",
                "operationId": "toggleArchive",
                "parameters": [
                    {"type": "string", "description": "Bearer session token", "name": "Authorization", "in": "header", "required": true},
                    {"type": "string", "format": "uuid", "description": "Confession ID (UUID)", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Malformed id", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Missing or invalid session", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Store failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.AIAnalysis": {
            "type": "object",
            "properties": {
                "sentimentScore": {"type": "number"},
                "tags": {"type": "array", "items": {"type": "string"}},
                "summary": {"type": "string"},
                "riskFlag": {"type": "boolean"}
            }
        },
        "domain.Confession": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "content": {"type": "string"},
                "createdAt": {"type": "integer", "description": "Creation time, epoch milliseconds UTC"},
                "isRead": {"type": "boolean"},
                "archived": {"type": "boolean"},
                "aiAnalysis": {"$ref": "#/definitions/domain.AIAnalysis"}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string"},
                "code": {"type": "string"},
                "message": {"type": "string"},
                "detail": {"type": "string"}
            }
        },
        "handlers.ListConfessionsResponse": {
            "type": "object",
            "properties": {
                "confessions": {"type": "array", "items": {"$ref": "#/definitions/domain.Confession"}},
                "total": {"type": "integer"}
            }
        },
        "handlers.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string", "example": "admin@example.com"},
                "password": {"type": "string", "example": "hunter2"}
            }
        },
        "handlers.LoginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "email": {"type": "string"},
                "expires_at": {"type": "string", "format": "date-time"}
            }
        },
        "handlers.SubmitRequest": {
            "type": "object",
            "required": ["content"],
            "properties": {
                "content": {"type": "string", "example": "I ate the last piece of cake."}
            }
        },
        "handlers.SubmitResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "id": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "AnonBox API",
	Description:      "Anonymous confession submission and admin moderation API.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
