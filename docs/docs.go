package docs

import "github.com/swaggo/swag"

const docTemplate = `{
  "swagger": "2.0",
  "info": {
    "title": "Support Desk Triage API",
    "description": "Prioritized support email queue with drafted responses",
    "version": "1.0"
  },
  "basePath": "/",
  "paths": {
    "/api/emails": {"get": {"tags": ["emails"], "summary": "List triaged emails"}},
    "/api/emails/{rank}": {"get": {"tags": ["emails"], "summary": "Email detail"}},
    "/api/emails/{rank}/resolve": {"post": {"tags": ["emails"], "summary": "Resolve email"}},
    "/api/emails/{rank}/response": {"put": {"tags": ["emails"], "summary": "Edit drafted response"}},
    "/api/analytics": {"get": {"tags": ["analytics"], "summary": "Analytics"}},
    "/api/import": {"post": {"tags": ["import"], "summary": "Import emails CSV"}}
  }
}`

func init() {
	swag.Register(swag.Name, &s{})
}

type s struct{}

func (s *s) ReadDoc() string {
	return docTemplate
}
