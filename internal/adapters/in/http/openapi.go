package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var specYAML []byte

// LoadSpec parses and validates the embedded API contract.
func LoadSpec(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(specYAML)
	if err != nil {
		return nil, fmt.Errorf("load openapi spec: %w", err)
	}
	if err = doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi spec: %w", err)
	}
	return doc, nil
}

// RequestValidator rejects requests that do not match the contract. Requests to
// paths the contract does not describe, such as /health, pass through untouched.
func RequestValidator(doc *openapi3.T) (echo.MiddlewareFunc, error) {
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}
	options := &openapi3filter.Options{AuthenticationFunc: openapi3filter.NoopAuthenticationFunc}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()
			route, pathParams, findErr := router.FindRoute(req)
			if findErr != nil {
				return next(ctx)
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if validateErr := openapi3filter.ValidateRequest(req.Context(), input); validateErr != nil {
				return badRequest(ctx, validationMessage(validateErr))
			}
			return next(ctx)
		}
	}, nil
}

func validationMessage(err error) string {
	var reqErr *openapi3filter.RequestError
	if !errors.As(err, &reqErr) {
		return err.Error()
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(reqErr.Err, &schemaErr) {
		field := strings.Join(schemaErr.JSONPointer(), ".")
		if reqErr.Parameter != nil {
			field = reqErr.Parameter.Name
		}
		if field == "" {
			return "invalid request: " + schemaErr.Reason
		}
		return fmt.Sprintf("invalid request: %s: %s", field, schemaErr.Reason)
	}

	if reqErr.Parameter != nil {
		return fmt.Sprintf("invalid request: parameter %s: %s", reqErr.Parameter.Name, reqErr.Error())
	}
	return "invalid request: " + reqErr.Error()
}

// specDoc serves the contract as JSON, both at /api/v1/openapi.json and to the
// swagger UI through the swag registry.
type specDoc struct {
	raw []byte
}

func newSpecDoc(doc *openapi3.T) (*specDoc, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode openapi spec: %w", err)
	}
	return &specDoc{raw: raw}, nil
}

// ReadDoc implements swag.Swagger.
func (d *specDoc) ReadDoc() string {
	return string(d.raw)
}

func (d *specDoc) serve(ctx echo.Context) error {
	return ctx.JSONBlob(http.StatusOK, d.raw)
}

var registerOnce sync.Once

// registerSwagger publishes the contract under swag's default instance name, which
// is where echo-swagger reads doc.json from. The registry is process wide and
// accepts a single registration.
func registerSwagger(d *specDoc) {
	registerOnce.Do(func() {
		swag.Register(swag.Name, d)
	})
}
