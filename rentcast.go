// Package rentcast estimates nightly listing prices through a remote
// prediction service. The root package re-exports the pieces most callers
// need; the terminal frontend lives in pkg/renderers/tui.
package rentcast

import (
	"context"

	"github.com/goliatone/go-rentcast/pkg/controller"
	"github.com/goliatone/go-rentcast/pkg/formstate"
	"github.com/goliatone/go-rentcast/pkg/predict"
)

// Result aliases predict.Result for callers that only need the answer.
type Result = predict.Result

// Definition aliases formstate.Definition.
type Definition = formstate.Definition

// NewController builds a submission controller talking to endpoint. An empty
// endpoint targets predict.DefaultEndpoint.
func NewController(endpoint string, options ...controller.Option) (*controller.Controller, error) {
	return controller.New(predict.NewClient(predict.WithEndpoint(endpoint)), options...)
}

// Estimate fills the default form with fields and submits it once, without
// any display. Unknown field names are rejected before the request is sent.
func Estimate(ctx context.Context, endpoint string, fields map[string]string) (Result, error) {
	def, err := formstate.DefaultDefinition()
	if err != nil {
		return Result{}, err
	}
	state := formstate.New(def)
	for name, value := range fields {
		if err := state.Set(name, value); err != nil {
			return Result{}, err
		}
	}
	client := predict.NewClient(predict.WithEndpoint(endpoint))
	return client.Predict(ctx, predict.Request{Fields: state.Serialize()})
}
