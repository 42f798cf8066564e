// Package docs регистрирует описание Swagger для HTTP API.
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
        "/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Регистрация пользователя",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/register.Request"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Пользователь уже существует", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "422": {"description": "Ошибка валидации", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Авторизация пользователя",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/login.Request"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Неверные учетные данные", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Auth"],
                "summary": "Выход пользователя",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Profile"],
                "summary": "Профиль пользователя",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Профиль не найден", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Profile"],
                "summary": "Заменить профиль",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/profile/common": {
            "patch": {"security": [{"BearerAuth": []}], "tags": ["Profile"], "summary": "Обновить общие данные",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/profile/body": {
            "patch": {"security": [{"BearerAuth": []}], "tags": ["Profile"], "summary": "Обновить текущие замеры",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/profile/goal": {
            "patch": {"security": [{"BearerAuth": []}], "tags": ["Profile"], "summary": "Обновить цель",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/profile/macros": {
            "patch": {"security": [{"BearerAuth": []}], "tags": ["Profile"], "summary": "Задать макронутриенты вручную (премиум)",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "403": {"description": "Нужен премиум-доступ", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }}
        },
        "/profile/macros/calculate": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Profile"], "summary": "Рассчитать макронутриенты",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/subscription/activate": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Subscription"], "summary": "Активировать подписку",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/subscription/cancel": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Subscription"], "summary": "Отменить подписку",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/purchase": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Purchase"], "summary": "Состояние покупки",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Purchase"], "summary": "Купить пожизненный доступ",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/purchase.CreateRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Доступ уже куплен", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }}
        },
        "/payments": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Payments"], "summary": "История платежей",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/payments/webhook": {
            "post": {"tags": ["Payments"], "summary": "Уведомление платежного провайдера",
                "parameters": [{"in": "header", "name": "X-Api-Signature", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Неверная подпись"}}}
        }
    },
    "definitions": {
        "response.Response": {
            "type": "object",
            "properties": {"status": {"type": "string"}, "error": {"type": "string"}, "data": {}}
        },
        "response.ErrorResponse": {
            "type": "object",
            "properties": {"status": {"type": "string", "example": "Error"}, "error": {"type": "string", "example": "invalid request body"}}
        },
        "register.Request": {
            "type": "object",
            "required": ["email", "username", "password"],
            "properties": {"email": {"type": "string"}, "username": {"type": "string"}, "password": {"type": "string"}}
        },
        "login.Request": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "purchase.CreateRequest": {
            "type": "object",
            "required": ["payment_token"],
            "properties": {"payment_token": {"type": "string"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo содержит метаданные документации.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Nutrition API",
	Description:      "API профиля, подписки и покупок приложения питания",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
