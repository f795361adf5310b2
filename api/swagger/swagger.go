package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Open Court API",
        "description": "Grievance redressal tracking for open court hearings",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login, token refresh and account security"},
        {"name": "Applications", "description": "Grievance application records"},
        {"name": "Dashboard", "description": "Aggregated statistics"},
        {"name": "Staff", "description": "Staff account management (admin only)"},
        {"name": "VideoFeedback", "description": "Citizen video feedback review queue"},
        {"name": "Metadata", "description": "Distinct filter values"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Rotate refresh token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Revoke refresh token",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/auth/user": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/change-password": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Change own password",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/applications": {
            "get": {
                "tags": ["Applications"],
                "summary": "List applications",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "police_station", "in": "query", "type": "string"},
                    {"name": "division", "in": "query", "type": "string"},
                    {"name": "category", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "feedback", "in": "query", "type": "string"},
                    {"name": "from_date", "in": "query", "type": "string"},
                    {"name": "to_date", "in": "query", "type": "string"},
                    {"name": "ordering", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Applications"],
                "summary": "Create application",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Duplicate sr_no"}
                }
            }
        },
        "/applications/{id}": {
            "get": {
                "tags": ["Applications"],
                "summary": "Get application",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found or out of scope"}
                }
            },
            "patch": {
                "tags": ["Applications"],
                "summary": "Update application",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "delete": {
                "tags": ["Applications"],
                "summary": "Delete application",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/applications/{id}/update_status": {
            "patch": {
                "tags": ["Applications"],
                "summary": "Update hearing status",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Invalid status value"}
                }
            }
        },
        "/applications/{id}/update_feedback": {
            "patch": {
                "tags": ["Applications"],
                "summary": "Update applicant feedback",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Invalid feedback value"}
                }
            }
        },
        "/upload-excel": {
            "post": {
                "tags": ["Applications"],
                "summary": "Bulk import from spreadsheet",
                "consumes": ["multipart/form-data"],
                "parameters": [{"name": "file", "in": "formData", "required": true, "type": "file"}],
                "responses": {
                    "200": {"description": "Import summary", "schema": {"$ref": "#/definitions/ImportResult"}}
                }
            }
        },
        "/export-applications": {
            "get": {
                "tags": ["Applications"],
                "summary": "Export applications",
                "parameters": [{"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "xlsx"]}],
                "responses": {
                    "200": {"description": "JSON payload or rendered file"}
                }
            }
        },
        "/dashboard-stats": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Dashboard statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/police-stations": {
            "get": {
                "tags": ["Metadata"],
                "summary": "Distinct police stations",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/categories": {
            "get": {
                "tags": ["Metadata"],
                "summary": "Distinct categories",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/divisions": {
            "get": {
                "tags": ["Metadata"],
                "summary": "Distinct divisions",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/staff": {
            "get": {
                "tags": ["Staff"],
                "summary": "List staff accounts",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Staff"],
                "summary": "Create staff account",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Username taken"}
                }
            }
        },
        "/staff/{id}": {
            "get": {
                "tags": ["Staff"],
                "summary": "Get staff account",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            },
            "patch": {
                "tags": ["Staff"],
                "summary": "Update staff account",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Staff"],
                "summary": "Delete staff account",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/video-feedback": {
            "get": {
                "tags": ["VideoFeedback"],
                "summary": "List video submissions",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["VideoFeedback"],
                "summary": "Submit a feedback video",
                "consumes": ["multipart/form-data"],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/video-feedback/{id}": {
            "get": {
                "tags": ["VideoFeedback"],
                "summary": "Get video submission",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/video-feedback/{id}/submit_feedback": {
            "post": {
                "tags": ["VideoFeedback"],
                "summary": "Record admin verdict",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Verdict must be LIKE or DISLIKE"}
                }
            }
        },
        "/video-feedback-stats": {
            "get": {
                "tags": ["VideoFeedback"],
                "summary": "Video feedback counters",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/media/{token}": {
            "get": {
                "tags": ["VideoFeedback"],
                "summary": "Download a video by signed token",
                "parameters": [{"name": "token", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Video stream"},
                    "401": {"description": "Invalid or expired token"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "ImportResult": {
            "type": "object",
            "properties": {
                "created": {"type": "integer"},
                "updated": {"type": "integer"},
                "errors": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "row": {"type": "integer"},
                            "message": {"type": "string"}
                        }
                    }
                }
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
