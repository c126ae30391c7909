package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Academy CMS Gateway",
        "description": "Gateway for the academy public site and admin console",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Admin session"},
        {"name": "CMS", "description": "Content management"},
        {"name": "Readmissions", "description": "Readmission workflow"},
        {"name": "Dashboard", "description": "Admin summary"},
        {"name": "Exports", "description": "Report downloads"},
        {"name": "Audit", "description": "Admin action trail"},
        {"name": "Uploads", "description": "Image uploads"},
        {"name": "Public", "description": "Landing surface"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/landing": {
            "get": {
                "tags": ["Public"],
                "summary": "Public landing view",
                "responses": {
                    "200": {"description": "Active content with live availability"}
                }
            }
        },
        "/api/readmissions": {
            "post": {
                "tags": ["Public"],
                "summary": "Submit a readmission request",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation failed"}
                }
            }
        },
        "/api/admin/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Admin login",
                "responses": {
                    "200": {"description": "Session token issued"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/api/admin/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Admin logout",
                "responses": {
                    "200": {"description": "Session revoked"}
                }
            }
        },
        "/api/admin/cms/content": {
            "get": {
                "tags": ["CMS"],
                "summary": "Reconciled content state",
                "responses": {
                    "200": {"description": "All sections merged"}
                }
            }
        },
        "/api/admin/cms/{section}": {
            "post": {
                "tags": ["CMS"],
                "summary": "Create a content record",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation failed"}
                }
            }
        },
        "/api/admin/cms/{section}/{id}": {
            "put": {
                "tags": ["CMS"],
                "summary": "Update a content record",
                "responses": {
                    "200": {"description": "Updated"},
                    "409": {"description": "Legacy record, delete and recreate"}
                }
            },
            "delete": {
                "tags": ["CMS"],
                "summary": "Delete a content record",
                "responses": {
                    "200": {"description": "Deleted"},
                    "428": {"description": "Confirmation required"}
                }
            }
        },
        "/api/admin/readmissions": {
            "get": {
                "tags": ["Readmissions"],
                "summary": "List readmission requests",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/admin/readmissions/{id}/approve": {
            "put": {
                "tags": ["Readmissions"],
                "summary": "Approve a pending request",
                "responses": {
                    "200": {"description": "Approved"},
                    "409": {"description": "Slot full or not pending"}
                }
            }
        },
        "/api/admin/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Dashboard summary",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/admin/exports/{report}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download an admin report",
                "responses": {
                    "200": {"description": "CSV or PDF file"}
                }
            }
        },
        "/api/admin/audit": {
            "get": {
                "tags": ["Audit"],
                "summary": "List recorded admin actions",
                "responses": {
                    "200": {"description": "Newest first, filterable by actor, action and resource"}
                }
            }
        },
        "/api/uploads/image": {
            "post": {
                "tags": ["Uploads"],
                "summary": "Upload a CMS image",
                "responses": {
                    "201": {"description": "Stored"},
                    "400": {"description": "Not an image or too large"}
                }
            }
        }
    },
    "definitions": {
        "FieldError": {
            "type": "object",
            "properties": {
                "path": {"type": "string"},
                "msg": {"type": "string"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"type": "object"},
                "message": {"type": "string"},
                "errors": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/FieldError"}
                }
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
