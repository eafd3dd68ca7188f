// Package esmfold predicts a protein structure from its sequence using the
// ESM Atlas folding API.
package esmfold

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tikz/fold/fetch"
)

const (
	// URL is the ESM Atlas folding endpoint.
	URL = "https://api.esmatlas.com/foldSequence/v1/pdb/"

	// HeaderRecord starts every well-formed structure document.
	HeaderRecord = "HEADER"

	// DefaultTimeout bounds a single prediction attempt. Folding a long
	// sequence takes a while server-side.
	DefaultTimeout = 90 * time.Second
)

// request is the JSON payload for the folding endpoint.
type request struct {
	Sequence string `json:"sequence"`
}

// Predictor submits sequences for structure prediction. The endpoint rate
// limits aggressively, so calls retry with backoff via fetch.Client.
type Predictor struct {
	URL         string
	MaxAttempts int
	BaseDelay   time.Duration
	Timeout     time.Duration

	client *fetch.Client
}

// NewPredictor constructs a Predictor with the default endpoint and retry
// bounds.
func NewPredictor(client *fetch.Client) *Predictor {
	return &Predictor{
		URL:         URL,
		MaxAttempts: fetch.DefaultMaxAttempts,
		BaseDelay:   fetch.DefaultBaseDelay,
		Timeout:     DefaultTimeout,
		client:      client,
	}
}

// Predict folds the given sequence and returns the structure document.
// The sequence must already be validated with seq.Clean; Predict sends it
// as-is. Failures are either *fetch.FatalError or *fetch.ExhaustedError.
func (p *Predictor) Predict(ctx context.Context, sequence string) (string, error) {
	payload, err := json.Marshal(request{Sequence: sequence})
	if err != nil {
		return "", fmt.Errorf("encode payload: %v", err)
	}

	header := http.Header{}
	header.Set("Accept", "text/plain")
	header.Set("Content-Type", "application/json")

	body, err := p.client.PostRetry(ctx, p.URL, payload, fetch.RetryOptions{
		MaxAttempts: p.MaxAttempts,
		BaseDelay:   p.BaseDelay,
		Timeout:     p.Timeout,
		Prefix:      HeaderRecord,
		Header:      header,
	})
	if err != nil {
		return "", err
	}

	return string(body), nil
}
