package predict

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type captured struct {
	method  string
	path    string
	headers http.Header
	body    map[string]string
}

func newCollaborator(t *testing.T, status int, body string, seen *captured) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			seen.method = r.Method
			seen.path = r.URL.Path
			seen.headers = r.Header.Clone()
			if err := json.NewDecoder(r.Body).Decode(&seen.body); err != nil {
				t.Errorf("decode request body: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_PostsJSONAndDecodesPrediction(t *testing.T) {
	var req captured
	srv := newCollaborator(t, http.StatusOK, `{"price": 250, "confidence": 87, "currency": "$"}`, &req)

	client := NewClient(WithEndpoint(srv.URL + "/predict"))
	fields := map[string]string{"neighborhood": "Queens", "room_type": "Private room", "accommodates": "3"}
	res, err := client.Predict(context.Background(), Request{ID: "req-1", Fields: fields})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}

	if diff := cmp.Diff(Result{Price: 250, Confidence: 87, Currency: "$"}, res); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
	if req.method != http.MethodPost || req.path != "/predict" {
		t.Fatalf("unexpected request %s %s", req.method, req.path)
	}
	if got := req.headers.Get("Content-Type"); got != "application/json" {
		t.Fatalf("content type: %q", got)
	}
	if got := req.headers.Get(RequestIDHeader); got != "req-1" {
		t.Fatalf("request id header: %q", got)
	}
	if diff := cmp.Diff(fields, req.body); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_ErrorBodyIsRejectionWhateverTheStatus(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusBadRequest, http.StatusInternalServerError} {
		srv := newCollaborator(t, status, `{"error": "Model unavailable"}`, nil)
		res, err := NewClient(WithEndpoint(srv.URL)).Predict(context.Background(), Request{})
		if err != nil {
			t.Fatalf("status %d: predict: %v", status, err)
		}
		if !res.Rejected() || res.Error != "Model unavailable" {
			t.Fatalf("status %d: expected rejection, got %+v", status, res)
		}
	}
}

func TestClient_AnyTruthyErrorIsRejection(t *testing.T) {
	cases := map[string]string{
		`{"error": {"code": 1}}`:                   `{"code":1}`,
		`{"error": 42, "price": 10}`:               `42`,
		`{"error": true}`:                          `true`,
		`{"error": ["bad", "input"]}`:              `["bad","input"]`,
		`{"error": "<NA> in column accommodates"}`: `<NA> in column accommodates`,
	}
	for body, want := range cases {
		srv := newCollaborator(t, http.StatusBadRequest, body, nil)
		res, err := NewClient(WithEndpoint(srv.URL)).Predict(context.Background(), Request{})
		if err != nil {
			t.Fatalf("%s: predict: %v", body, err)
		}
		if !res.Rejected() || res.Error != want {
			t.Fatalf("%s: expected rejection %q, got %+v", body, want, res)
		}
	}
}

func TestClient_FalsyErrorFallsThroughToPrediction(t *testing.T) {
	for _, body := range []string{
		`{"error": null, "price": 99, "confidence": 85}`,
		`{"error": 0, "price": 99, "confidence": 85}`,
	} {
		srv := newCollaborator(t, http.StatusOK, body, nil)
		res, err := NewClient(WithEndpoint(srv.URL)).Predict(context.Background(), Request{})
		if err != nil {
			t.Fatalf("%s: predict: %v", body, err)
		}
		if res.Rejected() || res.Price != 99 {
			t.Fatalf("%s: expected prediction, got %+v", body, res)
		}
	}
}

func TestClient_DecodeFailures(t *testing.T) {
	cases := map[string]string{
		"not json":         `<html>oops</html>`,
		"missing price":    `{"confidence": 80}`,
		"empty error only": `{"error": ""}`,
		"falsy error only": `{"error": false}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			srv := newCollaborator(t, http.StatusOK, body, nil)
			_, err := NewClient(WithEndpoint(srv.URL)).Predict(context.Background(), Request{})
			if !errors.Is(err, ErrDecode) {
				t.Fatalf("expected ErrDecode, got %v", err)
			}
		})
	}
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	_, err := NewClient(WithEndpoint(endpoint)).Predict(context.Background(), Request{})
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestClient_ContractValidation(t *testing.T) {
	contract, err := LoadContract(context.Background())
	if err != nil {
		t.Fatalf("load contract: %v", err)
	}

	srv := newCollaborator(t, http.StatusOK, `{"confidence": 80, "currency": "$"}`, nil)
	client := NewClient(WithEndpoint(srv.URL), WithContractValidation(contract))

	_, err = client.Predict(context.Background(), Request{Fields: map[string]string{"accommodates": "2"}})
	if !errors.Is(err, ErrContract) {
		t.Fatalf("expected ErrContract for response without price, got %v", err)
	}

	_, err = client.Predict(context.Background(), Request{Fields: map[string]string{"accommodates": "17"}})
	if !errors.Is(err, ErrContract) {
		t.Fatalf("expected ErrContract for out of range accommodates, got %v", err)
	}
}

func TestContract_AcceptsBothResponseShapes(t *testing.T) {
	contract, err := LoadContract(context.Background())
	if err != nil {
		t.Fatalf("load contract: %v", err)
	}
	if err := contract.ValidateResponse(map[string]any{"price": 120.5, "confidence": 85.0}); err != nil {
		t.Fatalf("prediction: %v", err)
	}
	if err := contract.ValidateResponse(map[string]any{"error": "Model not loaded"}); err != nil {
		t.Fatalf("failure: %v", err)
	}
	if err := contract.ValidateResponse(map[string]any{"price": 10.0, "confidence": 140.0}); !errors.Is(err, ErrContract) {
		t.Fatalf("expected confidence > 100 to be rejected, got %v", err)
	}
}
