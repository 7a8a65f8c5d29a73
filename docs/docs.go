// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/server/main.go -o docs
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
        "/auth/signup": {
            "post": {
                "tags": ["auth"],
                "summary": "Sign up",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.signUpRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/v1/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Current identity",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Identity"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/members": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["members"],
                "summary": "Members the caller can evaluate",
                "parameters": [{"type": "string", "in": "query", "name": "assessoria"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.memberListResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/members/all": {
            "get": {
                "tags": ["members"],
                "summary": "All members",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.memberListResponse"}}}
            }
        },
        "/api/get-members": {
            "get": {
                "tags": ["members"],
                "summary": "Members grouped by category",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.groupedMembersResponse"}}}
            }
        },
        "/functions/v1/get-notion-members": {
            "post": {
                "tags": ["functions"],
                "summary": "Members of one assessoria",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.notionMembersRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.membersResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/functions/v1/get-all-notion-members": {
            "get": {
                "tags": ["functions"],
                "summary": "All member names, deduplicated and sorted",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.membersResponse"}}}
            }
        },
        "/v1/rubric": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["evaluations"],
                "summary": "Active rating rubric",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.rubricResponse"}}}
            }
        },
        "/v1/evaluations": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["evaluations"],
                "summary": "Submit one evaluation",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.evaluationRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.evaluationResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/drafts": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["drafts"],
                "summary": "Pending evaluations of the caller",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.draftsResponse"}}}
            }
        },
        "/v1/drafts/{subject_id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["drafts"],
                "summary": "Save a pending evaluation",
                "parameters": [
                    {"type": "string", "in": "path", "name": "subject_id", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.draftRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Draft"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["drafts"],
                "summary": "Discard a pending evaluation",
                "parameters": [{"type": "string", "in": "path", "name": "subject_id", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/v1/drafts/submit": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["drafts"],
                "summary": "Submit all pending evaluations",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.batchResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/reports": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["reports"],
                "summary": "Evaluation dashboard",
                "parameters": [{"type": "string", "in": "query", "name": "q"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.reportResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Draft": {
            "type": "object",
            "properties": {
                "subject_id": {"type": "string"},
                "subject_name": {"type": "string"},
                "ratings": {"type": "object", "additionalProperties": {"type": "integer"}},
                "comment": {"type": "string"},
                "highlight": {"type": "boolean"},
                "saved_at": {"type": "string"}
            }
        },
        "domain.Profile": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "notion_name": {"type": "string"},
                "user_role": {"type": "string"},
                "project_name": {"type": "string"},
                "assessoria": {"type": "string"}
            }
        },
        "domain.Identity": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "profile": {"$ref": "#/definitions/domain.Profile"}
            }
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "fields": {"type": "array", "items": {"type": "object", "properties": {"field": {"type": "string"}, "message": {"type": "string"}}}}
            }
        },
        "handler.signUpRequest": {
            "type": "object",
            "required": ["email", "password", "notion_name", "user_role", "assessoria"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "notion_name": {"type": "string"},
                "user_role": {"type": "string", "enum": ["Gestor", "Diretor"]},
                "project_name": {"type": "string"},
                "assessoria": {"type": "string"}
            }
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.authResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}, "identity": {"$ref": "#/definitions/domain.Identity"}}
        },
        "handler.membersResponse": {
            "type": "object",
            "properties": {"members": {"type": "array", "items": {"type": "string"}}}
        },
        "handler.memberListResponse": {
            "type": "object",
            "properties": {
                "members": {
                    "type": "array",
                    "items": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}}}
                }
            }
        },
        "handler.groupedMembersResponse": {
            "type": "object",
            "properties": {
                "groups": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "array",
                        "items": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "sector": {"type": "string"}}}
                    }
                }
            }
        },
        "handler.notionMembersRequest": {
            "type": "object",
            "properties": {"assessoria": {"type": "string"}, "exclude_name": {"type": "string"}}
        },
        "handler.rubricResponse": {
            "type": "object",
            "properties": {"criteria": {"type": "array", "items": {"type": "string"}}, "min": {"type": "integer"}, "max": {"type": "integer"}}
        },
        "handler.evaluationRequest": {
            "type": "object",
            "properties": {
                "subject_id": {"type": "string"},
                "subject_name": {"type": "string"},
                "ratings": {"type": "object", "additionalProperties": {"type": "integer"}},
                "comment": {"type": "string", "maxLength": 4000},
                "highlight": {"type": "boolean"}
            }
        },
        "handler.evaluationResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "subject_name": {"type": "string"},
                "ratings": {"type": "object", "additionalProperties": {"type": "integer"}},
                "score": {"type": "number"},
                "period": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "handler.draftRequest": {
            "type": "object",
            "properties": {
                "subject_name": {"type": "string"},
                "ratings": {"type": "object", "additionalProperties": {"type": "integer"}},
                "comment": {"type": "string", "maxLength": 4000},
                "highlight": {"type": "boolean"}
            }
        },
        "handler.draftsResponse": {
            "type": "object",
            "properties": {"drafts": {"type": "array", "items": {"$ref": "#/definitions/domain.Draft"}}}
        },
        "handler.batchResponse": {
            "type": "object",
            "properties": {"batch_id": {"type": "string"}, "period": {"type": "string"}, "count": {"type": "integer"}}
        },
        "handler.reportResponse": {
            "type": "object",
            "properties": {
                "records": {"type": "array", "items": {"type": "object"}},
                "metrics": {"type": "object"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Member Evaluations API",
	Description:      "Roster lookup, rating submission and reporting for member evaluations.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
