// Package docs 接口文档，挂在 /swagger 下
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
        "/create-linked-topic": {
            "get": {
                "produces": ["text/plain"],
                "tags": ["Topic"],
                "summary": "直接访问提示",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "string"}},
                    "302": {"description": "跳转登录页"}
                }
            },
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["text/plain"],
                "tags": ["Topic"],
                "summary": "创建关联话题",
                "parameters": [
                    {"type": "string", "description": "话题标题", "name": "title", "in": "formData", "required": true},
                    {"type": "string", "description": "条目ID", "name": "id", "in": "formData", "required": true},
                    {"type": "string", "description": "条目地址", "name": "url", "in": "formData", "required": true},
                    {"type": "string", "description": "首帖内容", "name": "markdown", "in": "formData"},
                    {"type": "integer", "description": "父版块ID", "name": "cid", "in": "formData"},
                    {"type": "string", "description": "JSON 字符串数组", "name": "tags", "in": "formData"},
                    {"type": "string", "description": "自定义 slug", "name": "slug", "in": "formData"},
                    {"type": "string", "description": "子版块名称", "name": "category", "in": "formData"}
                ],
                "responses": {
                    "302": {"description": "跳转到 /topic/{tid}"},
                    "400": {"description": "Missing required fields", "schema": {"type": "string"}},
                    "500": {"description": "Error: ...", "schema": {"type": "string"}}
                }
            }
        },
        "/api/topic-by-url": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Article"],
                "summary": "按条目地址查找话题",
                "parameters": [
                    {"type": "string", "description": "条目地址", "name": "url", "in": "query", "required": true},
                    {"type": "string", "description": "条目ID，找到话题时补写关联", "name": "articleId", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/article.TopicLookup"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/article.ErrorResponse"}}
                }
            }
        },
        "/api/check-article/{articleId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Article"],
                "summary": "查看条目的关联记录",
                "parameters": [
                    {"type": "string", "description": "条目ID", "name": "articleId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/article.ArticleStatus"}}
                }
            }
        },
        "/api/species-for-topic/{tid}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Article"],
                "summary": "话题关联的物种数据",
                "parameters": [
                    {"type": "integer", "description": "话题ID", "name": "tid", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/card.SpeciesView"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/article.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/article.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/article.ErrorResponse"}}
                }
            }
        },
        "/hooks/topic/render": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Hooks"],
                "summary": "论坛渲染钩子",
                "parameters": [
                    {"type": "string", "description": "共享令牌", "name": "X-Hook-Token", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        }
    },
    "definitions": {
        "article.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "article.TopicLookup": {
            "type": "object",
            "properties": {
                "found": {"type": "boolean"},
                "tid": {"type": "integer"},
                "url": {"type": "string"}
            }
        },
        "article.ArticleStatus": {
            "type": "object",
            "properties": {
                "found": {"type": "boolean"},
                "articleId": {"type": "string"},
                "article": {"$ref": "#/definitions/association.Article"},
                "topic": {"$ref": "#/definitions/association.TopicArticle"}
            }
        },
        "association.Article": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "tid": {"type": "integer"},
                "url": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "association.TopicArticle": {
            "type": "object",
            "properties": {
                "tid": {"type": "integer"},
                "id": {"type": "string"},
                "url": {"type": "string"}
            }
        },
        "card.SpeciesView": {
            "type": "object",
            "properties": {
                "species": {"type": "object", "additionalProperties": true},
                "atlasUrl": {"type": "string"}
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
	Title:            "atlas-forum API",
	Description:      "论坛话题与物种目录条目的关联服务",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
