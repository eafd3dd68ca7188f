package esmfold

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/tikz/fold/fetch"
)

const doc = "HEADER    PREDICTED STRUCTURE\nATOM      1  N   MET A   1      11.104   6.134  -6.504  1.00 90.00           N\n"

type scripted struct {
	status int
	body   string
	err    error
}

type scriptDoer struct {
	responses []scripted
	requests  []*http.Request
	bodies    []string
}

func (d *scriptDoer) Do(req *http.Request) (*http.Response, error) {
	i := len(d.requests)
	d.requests = append(d.requests, req)
	payload, _ := io.ReadAll(req.Body)
	d.bodies = append(d.bodies, string(payload))
	if i >= len(d.responses) {
		return nil, errors.New("no scripted response left")
	}
	r := d.responses[i]
	if r.err != nil {
		return nil, r.err
	}
	return &http.Response{
		StatusCode: r.status,
		Body:       io.NopCloser(strings.NewReader(r.body)),
	}, nil
}

func noSleep(ctx context.Context, d time.Duration) error { return nil }

func newTestPredictor(doer *scriptDoer) *Predictor {
	return NewPredictor(fetch.NewClient(fetch.WithDoer(doer), fetch.WithSleep(noSleep)))
}

func TestPredict_SubmitsSequenceAsJSON(t *testing.T) {
	doer := &scriptDoer{responses: []scripted{
		{status: 200, body: doc},
	}}
	p := newTestPredictor(doer)

	got, err := p.Predict(context.Background(), "MKTAYIAK")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != doc {
		t.Error("expected the predicted document back")
	}

	req := doer.requests[0]
	if req.URL.String() != URL {
		t.Errorf("expected %s, got %s", URL, req.URL.String())
	}
	if accept := req.Header.Get("Accept"); accept != "text/plain" {
		t.Errorf("expected Accept text/plain, got %s", accept)
	}

	var payload struct {
		Sequence string `json:"sequence"`
	}
	if err := json.Unmarshal([]byte(doer.bodies[0]), &payload); err != nil {
		t.Fatalf("body should be JSON: %v", err)
	}
	if payload.Sequence != "MKTAYIAK" {
		t.Errorf("expected sequence in payload, got %q", payload.Sequence)
	}
}

func TestPredict_RetriesRateLimiting(t *testing.T) {
	doer := &scriptDoer{responses: []scripted{
		{status: 429},
		{status: 503},
		{status: 200, body: doc},
	}}
	p := newTestPredictor(doer)

	got, err := p.Predict(context.Background(), "MKTAYIAK")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != doc {
		t.Error("expected the 3rd response body")
	}
	if len(doer.requests) != 3 {
		t.Errorf("expected 3 attempts, got %d", len(doer.requests))
	}
}

func TestPredict_FatalStatus(t *testing.T) {
	doer := &scriptDoer{responses: []scripted{
		{status: 400, body: "bad sequence"},
	}}
	p := newTestPredictor(doer)

	_, err := p.Predict(context.Background(), "MKTAYIAK")

	var fatal *fetch.FatalError
	if !errors.As(err, &fatal) {
		t.Fatalf("expected FatalError, got %v", err)
	}
	if fatal.Status != 400 {
		t.Errorf("expected status 400, got %d", fatal.Status)
	}
	if len(doer.requests) != 1 {
		t.Errorf("expected a single attempt, got %d", len(doer.requests))
	}
}

func TestPredict_Exhausted(t *testing.T) {
	var responses []scripted
	for i := 0; i < 5; i++ {
		responses = append(responses, scripted{status: 503})
	}
	doer := &scriptDoer{responses: responses}
	p := newTestPredictor(doer)

	_, err := p.Predict(context.Background(), "MKTAYIAK")

	var exhausted *fetch.ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ExhaustedError, got %v", err)
	}
	if len(doer.requests) != 5 {
		t.Errorf("expected exactly 5 attempts, got %d", len(doer.requests))
	}
}
