package rentcast_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-rentcast"
	"github.com/goliatone/go-rentcast/pkg/formstate"
	"github.com/goliatone/go-rentcast/pkg/stubserver"
)

func newStub(t *testing.T) string {
	t.Helper()
	table, err := stubserver.DefaultPriceTable()
	if err != nil {
		t.Fatalf("price table: %v", err)
	}
	srv := httptest.NewServer(stubserver.New(stubserver.WithPriceTable(table)).Handler())
	t.Cleanup(srv.Close)
	return srv.URL + "/predict"
}

func TestEstimate(t *testing.T) {
	endpoint := newStub(t)

	got, err := rentcast.Estimate(context.Background(), endpoint, map[string]string{
		"neighborhood": "Bronx",
		"room_type":    "Shared room",
	})
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	want := rentcast.Result{Price: 32.2, Confidence: 85, Currency: "$"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestEstimate_UnknownField(t *testing.T) {
	_, err := rentcast.Estimate(context.Background(), newStub(t), map[string]string{"bedrooms": "3"})
	if !errors.Is(err, formstate.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestNewController(t *testing.T) {
	ctrl, err := rentcast.NewController("")
	if err != nil {
		t.Fatalf("controller: %v", err)
	}
	if ctrl.Counter() != nil {
		t.Fatalf("counter should not exist before Bind")
	}
}
