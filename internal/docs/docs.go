// Package docs holds the Swagger 2.0 document served at /swagger/index.html.
// Keep it in sync with the routes registered in internal/server.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/signup": {
            "post": {
                "tags": ["identity"],
                "summary": "Create an identity and its profile",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/SignupRequest"}}],
                "responses": {
                    "201": {"description": "created", "schema": {"$ref": "#/definitions/SignupResponse"}},
                    "400": {"description": "invalid input", "schema": {"$ref": "#/definitions/APIError"}},
                    "409": {"description": "userName or email taken", "schema": {"$ref": "#/definitions/APIError"}},
                    "429": {"description": "rate limited", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/signin": {
            "post": {
                "tags": ["identity"],
                "summary": "Sign in with userName or email",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/SigninRequest"}}],
                "responses": {
                    "200": {"description": "signed in", "schema": {"$ref": "#/definitions/SigninResponse"}},
                    "401": {"description": "invalid credentials", "schema": {"$ref": "#/definitions/APIError"}},
                    "429": {"description": "rate limited", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/profile/{id}": {
            "get": {
                "tags": ["profile"],
                "summary": "Get a profile",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "ok", "schema": {"$ref": "#/definitions/Profile"}},
                    "404": {"description": "not found", "schema": {"$ref": "#/definitions/APIError"}}
                }
            },
            "post": {
                "tags": ["profile"],
                "summary": "Create a profile for an existing identity",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ProfileRequest"}}
                ],
                "responses": {
                    "201": {"description": "created", "schema": {"$ref": "#/definitions/Profile"}},
                    "404": {"description": "identity not found", "schema": {"$ref": "#/definitions/APIError"}},
                    "409": {"description": "profile exists", "schema": {"$ref": "#/definitions/APIError"}}
                }
            },
            "put": {
                "tags": ["profile"],
                "summary": "Replace a profile",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "ok", "schema": {"$ref": "#/definitions/Profile"}},
                    "404": {"description": "not found", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/attendance/mark": {
            "post": {
                "tags": ["attendance"],
                "summary": "Mark today's attendance (employee, manager)",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/MarkRequest"}}],
                "responses": {
                    "201": {"description": "marked", "schema": {"$ref": "#/definitions/MarkResponse"}},
                    "401": {"description": "unauthenticated", "schema": {"$ref": "#/definitions/APIError"}},
                    "403": {"description": "forbidden", "schema": {"$ref": "#/definitions/APIError"}},
                    "409": {"description": "already marked", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/attendance/edit": {
            "put": {
                "tags": ["attendance"],
                "summary": "Correct a record and consume its rectification request (manager, admin)",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/EditRequest"}}],
                "responses": {
                    "200": {"description": "ok", "schema": {"$ref": "#/definitions/Record"}},
                    "403": {"description": "outside caller's scope", "schema": {"$ref": "#/definitions/APIError"}},
                    "404": {"description": "target not found", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/attendance/export": {
            "get": {
                "tags": ["attendance"],
                "summary": "Export a day's records as CSV (manager, admin)",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv"],
                "parameters": [
                    {"in": "query", "name": "date", "type": "string"},
                    {"in": "query", "name": "encoding", "type": "string", "enum": ["utf8", "sjis"]}
                ],
                "responses": {
                    "200": {"description": "csv attachment"},
                    "400": {"description": "bad date or encoding", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/dashboard": {
            "get": {
                "tags": ["attendance"],
                "summary": "Records visible to the caller",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "query", "name": "date", "type": "string", "description": "YYYY-MM-DD, default today"}],
                "responses": {
                    "200": {"description": "ok", "schema": {"$ref": "#/definitions/Dashboard"}},
                    "400": {"description": "bad date", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/rectification/{id}": {
            "post": {
                "tags": ["rectification"],
                "summary": "Ask to flip your own mark for a date (employee, manager)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RectificationCreate"}}
                ],
                "responses": {
                    "201": {"description": "created", "schema": {"$ref": "#/definitions/Rectification"}},
                    "403": {"description": "not your own id", "schema": {"$ref": "#/definitions/APIError"}},
                    "404": {"description": "no record for date", "schema": {"$ref": "#/definitions/APIError"}},
                    "409": {"description": "already requested", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/rectifications": {
            "get": {
                "tags": ["rectification"],
                "summary": "Pending requests visible to the caller",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "ok", "schema": {"type": "array", "items": {"$ref": "#/definitions/Rectification"}}}
                }
            }
        }
    },
    "definitions": {
        "APIError": {"type": "object", "properties": {"code": {"type": "string"}, "message": {"type": "string"}}},
        "SignupRequest": {
            "type": "object",
            "required": ["userName", "email", "password"],
            "properties": {
                "userName": {"type": "string", "pattern": "^[^@]+$"}, "email": {"type": "string"}, "password": {"type": "string", "minLength": 8, "maxLength": 72},
                "role": {"type": "string", "enum": ["employee", "manager", "admin"]}, "department": {"type": "string"}
            }
        },
        "SignupResponse": {"type": "object", "properties": {"message": {"type": "string"}, "token": {"type": "string"}, "userId": {"type": "string"}}},
        "SigninRequest": {"type": "object", "required": ["identifier", "password"], "properties": {"identifier": {"type": "string"}, "password": {"type": "string"}}},
        "SigninResponse": {"type": "object", "properties": {"message": {"type": "string"}, "token": {"type": "string"}}},
        "ProfileRequest": {
            "type": "object",
            "properties": {
                "role": {"type": "string"}, "department": {"type": "string"}, "contact": {"type": "string"}, "joinDate": {"type": "string"},
                "country": {"type": "string"}, "state": {"type": "string"}, "city": {"type": "string"}, "pinCode": {"type": "string"}
            }
        },
        "Profile": {
            "type": "object",
            "properties": {
                "userId": {"type": "string"}, "role": {"type": "string"}, "department": {"type": "string"}, "contact": {"type": "string"},
                "joinDate": {"type": "string"},
                "address": {"type": "object", "properties": {"country": {"type": "string"}, "state": {"type": "string"}, "city": {"type": "string"}, "pinCode": {"type": "string"}}},
                "createdAt": {"type": "string", "format": "date-time"}, "updatedAt": {"type": "string", "format": "date-time"}
            }
        },
        "MarkRequest": {"type": "object", "required": ["attendance"], "properties": {"attendance": {"type": "string", "enum": ["present", "absent"]}}},
        "MarkResponse": {"type": "object", "properties": {"message": {"type": "string"}, "attendance": {"type": "string"}, "date": {"type": "string"}}},
        "EditRequest": {
            "type": "object",
            "required": ["targetUserId", "date", "attendance"],
            "properties": {"targetUserId": {"type": "string"}, "date": {"type": "string"}, "attendance": {"type": "string", "enum": ["present", "absent"]}}
        },
        "Record": {
            "type": "object",
            "properties": {
                "userId": {"type": "string"}, "date": {"type": "string"}, "department": {"type": "string"}, "role": {"type": "string"},
                "attendance": {"type": "string"}, "rectified": {"type": "boolean"},
                "createdAt": {"type": "string", "format": "date-time"}, "updatedAt": {"type": "string", "format": "date-time"}
            }
        },
        "Dashboard": {"type": "object", "properties": {"date": {"type": "string"}, "data": {"type": "array", "items": {"$ref": "#/definitions/Record"}}}},
        "RectificationCreate": {"type": "object", "required": ["date"], "properties": {"date": {"type": "string"}}},
        "Rectification": {
            "type": "object",
            "properties": {
                "userId": {"type": "string"}, "date": {"type": "string"}, "department": {"type": "string"}, "role": {"type": "string"},
                "attendance": {"type": "string"}, "rectification": {"type": "string"}, "createdAt": {"type": "string", "format": "date-time"}
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
	Title:            "Attendance API",
	Description:      "Attendance marking, correction and rectification requests scoped by role and department.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
