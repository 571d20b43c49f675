package apidocs

import (
	"fmt"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
	"github.com/shopspring/decimal"
	"net/http"
	"reflect"
	"regexp"
	"strings"
)

const securitySchemeName = "tokenAuth"

type Param struct {
	Name        string
	Description string
	Type        string // "string", "integer" or "boolean"
}

// Operation describes one route for the document.
type Operation struct {
	Method      string
	Path        string // echo style, e.g. /api/recipes/:id
	Name        string // operationId
	Summary     string
	Tag         string
	Secured     bool
	Query       []Param
	Request     any    // JSON body type, nil for none
	UploadField string // multipart file field, "" for none
	Status      int    // success status
	Response    any    // JSON body type, nil for no content
}

var echoParam = regexp.MustCompile(`:([A-Za-z_][A-Za-z0-9_]*)`)

// OpenAPIPath turns /recipes/:id into /recipes/{id}.
func OpenAPIPath(p string) (string, []string) {
	var params []string
	converted := echoParam.ReplaceAllStringFunc(p, func(m string) string {
		params = append(params, m[1:])
		return "{" + m[1:] + "}"
	})
	return converted, params
}

// decimals are exchanged as strings
func customizeSchema(_ string, t reflect.Type, _ reflect.StructTag, schema *openapi3.Schema) error {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == reflect.TypeOf(decimal.Decimal{}) {
		*schema = *openapi3.NewStringSchema().WithPattern(`^-?\d+(\.\d+)?$`)
	}
	return nil
}

func schemaFor(v any) (*openapi3.SchemaRef, error) {
	return openapi3gen.NewSchemaRefForValue(v, make(openapi3.Schemas), openapi3gen.SchemaCustomizer(customizeSchema))
}

func paramSchema(typ string) *openapi3.Schema {
	switch typ {
	case "integer":
		return openapi3.NewIntegerSchema()
	case "boolean":
		return openapi3.NewBoolSchema()
	default:
		return openapi3.NewStringSchema()
	}
}

// Build renders ops as an OpenAPI document; errorBody is the shape of every error response.
func Build(title string, version string, errorBody any, ops []Operation) (*openapi3.T, error) {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   title,
			Version: version,
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			SecuritySchemes: openapi3.SecuritySchemes{
				securitySchemeName: &openapi3.SecuritySchemeRef{
					Value: &openapi3.SecurityScheme{
						Type:        "apiKey",
						In:          "header",
						Name:        "Authorization",
						Description: "Token <key>",
					},
				},
			},
		},
	}

	errorSchema, err := schemaFor(errorBody)
	if err != nil {
		return nil, fmt.Errorf("error schema: %w", err)
	}

	for _, op := range ops {
		p, pathParams := OpenAPIPath(op.Path)

		operation := openapi3.NewOperation()
		operation.OperationID = op.Name
		operation.Summary = op.Summary
		if op.Tag != "" {
			operation.Tags = []string{op.Tag}
		}
		if op.Secured {
			operation.Security = openapi3.NewSecurityRequirements().
				With(openapi3.NewSecurityRequirement().Authenticate(securitySchemeName))
		}

		// 参数
		for _, name := range pathParams {
			operation.AddParameter(openapi3.NewPathParameter(name).WithSchema(openapi3.NewIntegerSchema()))
		}
		for _, q := range op.Query {
			operation.AddParameter(openapi3.NewQueryParameter(q.Name).
				WithDescription(q.Description).
				WithSchema(paramSchema(q.Type)))
		}

		// 请求体
		switch {
		case op.UploadField != "":
			form := openapi3.NewObjectSchema().
				WithProperty(op.UploadField, openapi3.NewStringSchema().WithFormat("binary"))
			form.Required = []string{op.UploadField}
			operation.RequestBody = &openapi3.RequestBodyRef{
				Value: openapi3.NewRequestBody().WithRequired(true).WithFormDataSchema(form),
			}
		case op.Request != nil:
			ref, err := schemaFor(op.Request)
			if err != nil {
				return nil, fmt.Errorf("request schema of %s: %w", op.Name, err)
			}
			operation.RequestBody = &openapi3.RequestBodyRef{
				Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(ref),
			}
		}

		// 响应
		operation.AddResponse(0, openapi3.NewResponse().WithDescription("Error").WithJSONSchemaRef(errorSchema))
		success := openapi3.NewResponse().WithDescription(http.StatusText(op.Status))
		if op.Response != nil {
			ref, err := schemaFor(op.Response)
			if err != nil {
				return nil, fmt.Errorf("response schema of %s: %w", op.Name, err)
			}
			success = success.WithJSONSchemaRef(ref)
		}
		operation.AddResponse(op.Status, success)

		item := doc.Paths.Value(p)
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths.Set(p, item)
		}
		item.SetOperation(strings.ToUpper(op.Method), operation)
	}

	return doc, nil
}
