package predict

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed contract/predict.yaml
var contractFS embed.FS

// ErrContract is returned when a payload does not match the collaborator's
// published schema.
var ErrContract = errors.New("predict: contract violation")

const (
	contractPath      = "/predict"
	contractMediaType = "application/json"
)

// Contract holds the request and response schemas of POST /predict.
type Contract struct {
	request    *openapi3.Schema
	prediction *openapi3.Schema
	failure    *openapi3.Schema
}

// LoadContract parses the embedded OpenAPI document describing the
// prediction endpoint.
func LoadContract(ctx context.Context) (*Contract, error) {
	raw, err := contractFS.ReadFile("contract/predict.yaml")
	if err != nil {
		return nil, fmt.Errorf("predict: read contract: %w", err)
	}
	return ParseContract(ctx, raw)
}

// ParseContract builds a Contract from an OpenAPI 3 document that declares
// POST /predict.
func ParseContract(ctx context.Context, raw []byte) (*Contract, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("predict: load contract: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("predict: validate contract: %w", err)
	}

	if doc.Paths == nil {
		return nil, errors.New("predict: contract declares no paths")
	}
	item := doc.Paths.Find(contractPath)
	if item == nil || item.Post == nil {
		return nil, fmt.Errorf("predict: contract has no POST %s", contractPath)
	}
	op := item.Post

	c := &Contract{}
	if op.RequestBody != nil && op.RequestBody.Value != nil {
		c.request = mediaSchema(op.RequestBody.Value.Content)
	}
	if op.Responses != nil {
		if ok := op.Responses.Status(http.StatusOK); ok != nil && ok.Value != nil {
			c.prediction = mediaSchema(ok.Value.Content)
		}
		if def := op.Responses.Default(); def != nil && def.Value != nil {
			c.failure = mediaSchema(def.Value.Content)
		}
	}
	if c.request == nil || c.prediction == nil || c.failure == nil {
		return nil, fmt.Errorf("predict: contract for POST %s is missing JSON schemas", contractPath)
	}
	return c, nil
}

// ValidateRequest checks the serialized form against the request schema.
func (c *Contract) ValidateRequest(fields map[string]string) error {
	value := make(map[string]any, len(fields))
	for k, v := range fields {
		value[k] = v
	}
	if err := c.request.VisitJSON(value); err != nil {
		return fmt.Errorf("%w: request: %v", ErrContract, err)
	}
	return nil
}

// ValidateResponse checks a decoded JSON body. Bodies carrying an error key
// are checked against the failure schema, everything else against the
// prediction schema.
func (c *Contract) ValidateResponse(body map[string]any) error {
	schema := c.prediction
	if _, ok := body["error"]; ok {
		schema = c.failure
	}
	if err := schema.VisitJSON(body); err != nil {
		return fmt.Errorf("%w: response: %v", ErrContract, err)
	}
	return nil
}

func mediaSchema(content openapi3.Content) *openapi3.Schema {
	mt := content.Get(contractMediaType)
	if mt == nil || mt.Schema == nil {
		return nil
	}
	return mt.Schema.Value
}
