// Package docs registers the OpenAPI description served under /swagger.
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
        "/bookings/lookup": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Session"],
                "summary": "Find a booking",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/types.BookingLookupRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.BookingLookupResponse"}},
                    "400": {"description": "Invalid Input", "schema": {"$ref": "#/definitions/types.Response"}},
                    "404": {"description": "Booking Not Found", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/avatars": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Session"],
                "summary": "Generate an avatar",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/types.AvatarRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.AvatarResponse"}},
                    "400": {"description": "Invalid Input", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/sessions": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Session"],
                "summary": "Start a guest session",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/types.StartSessionRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/types.StartSessionResponse"}},
                    "400": {"description": "Invalid Input", "schema": {"$ref": "#/definitions/types.Response"}},
                    "404": {"description": "Booking Not Found", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/session": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Session"],
                "summary": "Get the current session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.UserSession"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/credentials": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Credentials"],
                "summary": "Credential status",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.CredentialStatus"}}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Credentials"],
                "summary": "Set or clear the generation credential",
                "description": "Only routed when credentials.allowOverride is set.",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/types.UpdateCredentialRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.CredentialStatus"}},
                    "400": {"description": "Invalid Input", "schema": {"$ref": "#/definitions/types.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Dashboard"],
                "summary": "Get dashboard state",
                "parameters": [{"type": "boolean", "in": "query", "name": "wait"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.DashboardSnapshot"}},
                    "409": {"description": "Trip is completed", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/dashboard/attractions/{id}/select": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Dashboard"],
                "summary": "Select an attraction",
                "parameters": [{"type": "integer", "in": "path", "name": "id", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.InsightResponse"}},
                    "400": {"description": "Invalid attraction id", "schema": {"$ref": "#/definitions/types.Response"}},
                    "404": {"description": "Attraction not found", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/dashboard/deselect": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Dashboard"],
                "summary": "Return to hotel",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.DashboardSnapshot"}}}
            }
        },
        "/dashboard/refresh": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Dashboard"],
                "summary": "Refresh generated content",
                "description": "Clears cached insights and souvenirs. Accepted on both the dashboard and souvenir screens.",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Response"}}}
            }
        },
        "/chat": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Chat"],
                "summary": "Get chat transcript",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/types.ChatTurn"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Chat"],
                "summary": "Ask the concierge",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/types.ChatRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ChatResponse"}},
                    "400": {"description": "Empty message", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/souvenir": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Souvenir"],
                "summary": "Get trip souvenir",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Souvenir"}},
                    "409": {"description": "Trip is not completed", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        }
    },
    "definitions": {
        "types.Response": {"type": "object", "properties": {"success": {"type": "boolean"}, "message": {"type": "string"}, "error": {"type": "string"}, "requestId": {"type": "string"}}},
        "types.Booking": {"type": "object", "properties": {"orderId": {"type": "string"}, "guestName": {"type": "string"}, "firstName": {"type": "string"}, "hotelName": {"type": "string"}, "location": {"type": "string"}, "checkInDate": {"type": "string", "example": "2025-06-10"}, "checkOutDate": {"type": "string", "example": "2025-06-14"}, "backgroundImage": {"type": "string"}}},
        "types.BookingLookupRequest": {"type": "object", "properties": {"orderId": {"type": "string"}, "name": {"type": "string"}}},
        "types.BookingLookupResponse": {"type": "object", "properties": {"booking": {"$ref": "#/definitions/types.Booking"}, "travelStyles": {"type": "array", "items": {"type": "string"}}, "presetAvatars": {"type": "array", "items": {"type": "string"}}}},
        "types.AvatarRequest": {"type": "object", "properties": {"travelStyle": {"type": "string", "enum": ["Business", "Family", "Solo", "Luxury"]}}},
        "types.AvatarResponse": {"type": "object", "properties": {"avatar": {"type": "string", "x-nullable": true}}},
        "types.StartSessionRequest": {"type": "object", "properties": {"orderId": {"type": "string"}, "name": {"type": "string"}, "travelStyle": {"type": "string"}, "avatar": {"type": "string"}}},
        "types.UserSession": {"type": "object", "properties": {"id": {"type": "string"}, "booking": {"$ref": "#/definitions/types.Booking"}, "travelStyle": {"type": "string"}, "status": {"type": "string", "enum": ["UPCOMING", "DURING_STAY", "COMPLETED"]}, "avatar": {"type": "string"}, "createdAt": {"type": "string"}}},
        "types.StartSessionResponse": {"type": "object", "properties": {"token": {"type": "string"}, "session": {"$ref": "#/definitions/types.UserSession"}, "screen": {"type": "string", "enum": ["dashboard", "souvenir"]}}},
        "types.CredentialStatus": {"type": "object", "properties": {"configured": {"type": "boolean"}}},
        "types.UpdateCredentialRequest": {"type": "object", "properties": {"apiKey": {"type": "string"}}},
        "types.MapView": {"type": "object", "properties": {"query": {"type": "string"}, "zoom": {"type": "integer"}, "embedUrl": {"type": "string"}, "directionsUrl": {"type": "string"}}},
        "types.AttractionView": {"type": "object", "properties": {"id": {"type": "integer"}, "name": {"type": "string"}, "type": {"type": "string"}, "category": {"type": "string", "enum": ["Nearby", "Must-See"]}, "icon": {"type": "string"}, "description": {"type": "string"}, "imageUrl": {"type": "string"}, "image": {"type": "string"}}},
        "types.DashboardSnapshot": {"type": "object", "properties": {"sessionId": {"type": "string"}, "city": {"type": "string"}, "loadingAttractions": {"type": "boolean"}, "loadingItinerary": {"type": "boolean"}, "attractionCount": {"type": "integer"}, "nearby": {"type": "array", "items": {"$ref": "#/definitions/types.AttractionView"}}, "mustSee": {"type": "array", "items": {"$ref": "#/definitions/types.AttractionView"}}, "itinerary": {"type": "string"}, "selected": {"$ref": "#/definitions/types.AttractionView"}, "insight": {"type": "string"}, "loadingInsight": {"type": "boolean"}, "map": {"$ref": "#/definitions/types.MapView"}, "transcriptLength": {"type": "integer"}}},
        "types.InsightResponse": {"type": "object", "properties": {"attraction": {"$ref": "#/definitions/types.AttractionView"}, "insight": {"type": "string"}, "cached": {"type": "boolean"}, "map": {"$ref": "#/definitions/types.MapView"}}},
        "types.ChatTurn": {"type": "object", "properties": {"speaker": {"type": "string", "enum": ["guest", "concierge"]}, "text": {"type": "string"}}},
        "types.ChatRequest": {"type": "object", "properties": {"message": {"type": "string"}}},
        "types.ChatResponse": {"type": "object", "properties": {"reply": {"type": "string"}, "transcript": {"type": "array", "items": {"$ref": "#/definitions/types.ChatTurn"}}}},
        "types.Souvenir": {"type": "object", "properties": {"caption": {"type": "string"}, "postcardImage": {"type": "string"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8000",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Hotel Concierge API",
	Description:      "Guest-facing concierge: booking lookup, personalised dashboard, chat and trip souvenirs.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
