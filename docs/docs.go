// Package docs registers the OpenAPI description served under /swagger.
// Keep it in step with the @Router annotations on the handlers.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/token": {
            "post": {
                "description": "Issues an HS256 token carrying the username. Approvals and rejections are recorded under that name.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Authentication"],
                "summary": "Generate a JWT bearer token",
                "parameters": [
                    {"description": "username", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.TokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token successfully generated", "schema": {"$ref": "#/definitions/dto.TokenResponse"}},
                    "400": {"description": "Invalid request parameters", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/clients": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Lists active clients unless active=false is given.",
                "produces": ["application/json"],
                "tags": ["Clients"],
                "summary": "List clients",
                "parameters": [
                    {"type": "boolean", "description": "Only active clients (default true)", "name": "active", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "List of clients", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.ClientResponse"}}},
                    "400": {"description": "Invalid active flag", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Registers a borrower with contact details.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Clients"],
                "summary": "Create a new client",
                "parameters": [
                    {"description": "Client creation request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateClientRequest"}}
                ],
                "responses": {
                    "201": {"description": "Client successfully created", "schema": {"$ref": "#/definitions/dto.ClientResponse"}},
                    "400": {"description": "Invalid request payload", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/clients/{clientID}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Clients"],
                "summary": "Retrieve client details",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Client ID", "name": "clientID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Client details retrieved", "schema": {"$ref": "#/definitions/dto.ClientResponse"}},
                    "400": {"description": "Invalid client ID format", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Client not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "description": "Updates only the fields present in the body.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Clients"],
                "summary": "Update client contact details",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Client ID", "name": "clientID", "in": "path", "required": true},
                    {"description": "Contact fields to change", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateClientContactRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated client", "schema": {"$ref": "#/definitions/dto.ClientResponse"}},
                    "400": {"description": "Invalid client ID or payload", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Client not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Clients"],
                "summary": "Deactivate a client",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Client ID", "name": "clientID", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "Client successfully deactivated"},
                    "404": {"description": "Client not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/clients/{clientID}/delinquency": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "tags": ["Clients"],
                "summary": "Update client delinquency flag",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Client ID", "name": "clientID", "in": "path", "required": true},
                    {"description": "Delinquency flag", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateDelinquencyRequest"}}
                ],
                "responses": {
                    "204": {"description": "Delinquency status successfully updated"},
                    "404": {"description": "Client not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/clients/{clientID}/reactivate": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Clients"],
                "summary": "Reactivate a client",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Client ID", "name": "clientID", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "Client successfully reactivated"},
                    "404": {"description": "Client not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/loans": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Loans"],
                "summary": "List loans",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Only loans of this client", "name": "clientId", "in": "query"},
                    {"enum": ["pending", "active", "completed", "delinquent"], "type": "string", "description": "Only loans in this status", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Loans", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.LoanResponse"}}},
                    "400": {"description": "Invalid filter", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Creates an active loan for an existing client. Frequency defaults to biweekly and startDate to today.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Loans"],
                "summary": "Create a new loan",
                "parameters": [
                    {"description": "Loan creation request payload", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateLoanRequest"}}
                ],
                "responses": {
                    "201": {"description": "Loan successfully created", "schema": {"$ref": "#/definitions/dto.LoanResponse"}},
                    "400": {"description": "Invalid request payload or validation error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/loans/{loanID}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Loans"],
                "summary": "Retrieve loan details",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Loan ID", "name": "loanID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Loan details successfully retrieved", "schema": {"$ref": "#/definitions/dto.LoanResponse"}},
                    "404": {"description": "Loan not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/loans/{loanID}/delinquent": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Loans"],
                "summary": "Mark a loan delinquent",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Loan ID", "name": "loanID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Loan after the change", "schema": {"$ref": "#/definitions/dto.LoanResponse"}},
                    "404": {"description": "Loan not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "409": {"description": "Loan already completed", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/loans/{loanID}/payments": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Loans"],
                "summary": "List loan payments",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Loan ID", "name": "loanID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Payments in the order they were recorded", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.PaymentResponse"}}},
                    "404": {"description": "Loan not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Applies a payment. In automatic mode amountTotal is split interest first; in manual mode the caller gives amountInterest and amountPrincipal. Send an Idempotency-Key header to make retries safe.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Loans"],
                "summary": "Make a loan payment",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Loan ID", "name": "loanID", "in": "path", "required": true},
                    {"type": "string", "description": "Client chosen key for safe retries", "name": "Idempotency-Key", "in": "header"},
                    {"description": "Payment request payload", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.MakePaymentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Payment recorded", "schema": {"$ref": "#/definitions/dto.MakePaymentResponse"}},
                    "400": {"description": "Invalid loan ID, payload or allocation", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Loan not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "409": {"description": "Loan already completed or idempotency conflict", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/loans/{loanID}/quote": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Shows how an automatic payment of the given amount would be split between interest and principal. Nothing is recorded.",
                "produces": ["application/json"],
                "tags": ["Loans"],
                "summary": "Preview a payment allocation",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Loan ID", "name": "loanID", "in": "path", "required": true},
                    {"type": "string", "example": "150.00", "description": "Payment amount", "name": "amount", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "Allocation preview", "schema": {"$ref": "#/definitions/dto.QuoteResponse"}},
                    "400": {"description": "Invalid loan ID or amount", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/loan-requests": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Loan Requests"],
                "summary": "List loan requests",
                "parameters": [
                    {"enum": ["pending", "approved", "rejected"], "type": "string", "description": "Only requests in this status", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Requests", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.LoanRequestResponse"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Records an application for a loan by an existing, active client. It starts out pending.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Loan Requests"],
                "summary": "Submit a loan request",
                "parameters": [
                    {"description": "Application", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.SubmitLoanRequestRequest"}}
                ],
                "responses": {
                    "201": {"description": "Request recorded", "schema": {"$ref": "#/definitions/dto.LoanRequestResponse"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/loan-requests/{requestID}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Loan Requests"],
                "summary": "Retrieve a loan request",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Request ID", "name": "requestID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Request", "schema": {"$ref": "#/definitions/dto.LoanRequestResponse"}},
                    "404": {"description": "Request not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/loan-requests/{requestID}/approve": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Approves a pending request and creates its loan in the same transaction. When frecuencia is omitted the requested frequency is used.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Loan Requests"],
                "summary": "Approve a loan request",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Request ID", "name": "requestID", "in": "path", "required": true},
                    {"type": "string", "description": "Client chosen key for safe retries", "name": "Idempotency-Key", "in": "header"},
                    {"description": "Approved terms", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.ApproveLoanRequestRequest"}}
                ],
                "responses": {
                    "201": {"description": "Loan created and request approved", "schema": {"$ref": "#/definitions/dto.ApproveLoanRequestResponse"}},
                    "400": {"description": "Invalid terms", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "404": {"description": "Request not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "409": {"description": "Request already decided", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/loan-requests/{requestID}/reject": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Loan Requests"],
                "summary": "Reject a loan request",
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Request ID", "name": "requestID", "in": "path", "required": true},
                    {"description": "Rejection reason", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RejectLoanRequestRequest"}}
                ],
                "responses": {
                    "200": {"description": "Rejected request", "schema": {"$ref": "#/definitions/dto.LoanRequestResponse"}},
                    "400": {"description": "Missing reason", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "409": {"description": "Request already decided", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "error": {"type": "string"},
                "field": {"type": "string"}
            }
        },
        "dto.TokenRequest": {
            "type": "object",
            "properties": {"username": {"type": "string"}}
        },
        "dto.TokenResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "expiresAt": {"type": "string"}
            }
        },
        "dto.CreateClientRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "address": {"type": "string"}
            }
        },
        "dto.UpdateClientContactRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "address": {"type": "string"}
            }
        },
        "dto.UpdateDelinquencyRequest": {
            "type": "object",
            "properties": {"isDelinquent": {"type": "boolean"}}
        },
        "dto.ClientResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "address": {"type": "string"},
                "isDelinquent": {"type": "boolean"},
                "active": {"type": "boolean"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "dto.CreateLoanRequest": {
            "type": "object",
            "properties": {
                "clientId": {"type": "string"},
                "principal": {"type": "string", "example": "1000.00"},
                "interestRatePercent": {"type": "string", "example": "10"},
                "frequency": {"type": "string", "example": "biweekly"},
                "startDate": {"type": "string", "example": "2024-01-01"}
            }
        },
        "dto.MakePaymentRequest": {
            "type": "object",
            "properties": {
                "loanId": {"type": "string"},
                "amountTotal": {"type": "string", "example": "150.00"},
                "amountInterest": {"type": "string"},
                "amountPrincipal": {"type": "string"},
                "mode": {"type": "string", "enum": ["automatic", "manual"]},
                "paymentType": {"type": "string", "example": "normal"},
                "note": {"type": "string"},
                "date": {"type": "string"}
            }
        },
        "dto.LoanResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "clientId": {"type": "string"},
                "requestId": {"type": "string"},
                "principalOriginal": {"type": "string"},
                "principalRemaining": {"type": "string"},
                "interestRatePercent": {"type": "string"},
                "frequency": {"type": "string"},
                "status": {"type": "string"},
                "dateCreated": {"type": "string"},
                "dateLastPayment": {"type": "string"},
                "dateNextPaymentDue": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "dto.PaymentResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "loanId": {"type": "string"},
                "timestamp": {"type": "string"},
                "paymentDate": {"type": "string"},
                "mode": {"type": "string"},
                "paymentType": {"type": "string"},
                "amountTotal": {"type": "string"},
                "amountInterest": {"type": "string"},
                "amountPrincipal": {"type": "string"},
                "interestDue": {"type": "string"},
                "interestShortfall": {"type": "string"},
                "amountExcess": {"type": "string"},
                "principalBefore": {"type": "string"},
                "principalAfter": {"type": "string"},
                "note": {"type": "string"}
            }
        },
        "dto.MakePaymentResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "pago": {"$ref": "#/definitions/dto.PaymentResponse"},
                "prestamoActualizado": {"$ref": "#/definitions/dto.LoanResponse"}
            }
        },
        "dto.QuoteResponse": {
            "type": "object",
            "properties": {
                "loanId": {"type": "string"},
                "amount": {"type": "string"},
                "interestDue": {"type": "string"},
                "interestPortion": {"type": "string"},
                "principalPortion": {"type": "string"},
                "interestShortfall": {"type": "string"},
                "excess": {"type": "string"}
            }
        },
        "dto.SubmitLoanRequestRequest": {
            "type": "object",
            "properties": {
                "clientId": {"type": "string"},
                "applicantName": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "address": {"type": "string"},
                "occupation": {"type": "string"},
                "monthlyIncome": {"type": "string"},
                "purpose": {"type": "string"},
                "amountRequested": {"type": "string"},
                "frequencyRequested": {"type": "string"}
            }
        },
        "dto.ApproveLoanRequestRequest": {
            "type": "object",
            "properties": {
                "requestId": {"type": "string"},
                "montoAprobado": {"type": "string"},
                "interesPercent": {"type": "string"},
                "frecuencia": {"type": "string"},
                "observaciones": {"type": "string"}
            }
        },
        "dto.RejectLoanRequestRequest": {
            "type": "object",
            "properties": {"reason": {"type": "string"}}
        },
        "dto.LoanRequestResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "clientId": {"type": "string"},
                "applicantName": {"type": "string"},
                "monthlyIncome": {"type": "string"},
                "amountRequested": {"type": "string"},
                "frequencyRequested": {"type": "string"},
                "status": {"type": "string"},
                "observations": {"type": "string"},
                "decidedBy": {"type": "string"},
                "decidedAt": {"type": "string"},
                "loanId": {"type": "string"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "dto.ApproveLoanRequestResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "prestamo": {"$ref": "#/definitions/dto.LoanResponse"},
                "solicitud": {"$ref": "#/definitions/dto.LoanRequestResponse"}
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
	Title:            "Loan Engine API",
	Description:      "Loan origination, payment allocation and ledger service.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
