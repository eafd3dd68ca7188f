// Package alphafold downloads precomputed structure models from the
// AlphaFold database by UniProt accession.
package alphafold

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tikz/fold/fetch"
)

const (
	// BaseURL serves the AlphaFold model files.
	BaseURL = "https://alphafold.ebi.ac.uk/files"

	// HeaderRecord starts every well-formed structure document.
	HeaderRecord = "HEADER"

	// DefaultTimeout bounds each candidate lookup.
	DefaultTimeout = 30 * time.Second
)

// ModelPatterns are the candidate file name patterns for an accession,
// most recent model version first.
var ModelPatterns = []string{
	"AF-%s-F1-model_v4.pdb",
	"AF-%s-F1-model_v3.pdb",
}

// NotFoundError means no model version yielded a valid document for the
// accession. LastStatus and LastErr describe the final attempt.
type NotFoundError struct {
	Accession  string
	LastStatus int
	LastErr    error
}

func (e *NotFoundError) Error() string {
	if e.LastErr != nil {
		return fmt.Sprintf("no model found for %s: %v", e.Accession, e.LastErr)
	}
	return fmt.Sprintf("no model found for %s, last HTTP status code %d", e.Accession, e.LastStatus)
}

func (e *NotFoundError) Unwrap() error { return e.LastErr }

// Fetcher looks up structure models in the AlphaFold database.
type Fetcher struct {
	BaseURL  string
	Patterns []string
	Timeout  time.Duration

	client *fetch.Client
}

// NewFetcher constructs a Fetcher with the default endpoint and model
// version fallbacks.
func NewFetcher(client *fetch.Client) *Fetcher {
	return &Fetcher{
		BaseURL:  BaseURL,
		Patterns: ModelPatterns,
		Timeout:  DefaultTimeout,
		client:   client,
	}
}

// Fetch tries each model version in order and returns the first valid
// structure document. A miss on one version is expected, not an error;
// only exhausting every candidate fails, with *NotFoundError.
func (f *Fetcher) Fetch(ctx context.Context, accession string) (string, error) {
	notFound := &NotFoundError{Accession: accession}
	for _, pattern := range f.Patterns {
		url := f.BaseURL + "/" + fmt.Sprintf(pattern, accession)
		body, status, err := f.client.Get(ctx, url, f.Timeout)
		if err != nil {
			notFound.LastStatus, notFound.LastErr = 0, err
			continue
		}
		if status == http.StatusOK && fetch.ValidDocument(body, HeaderRecord) {
			return string(body), nil
		}
		notFound.LastStatus, notFound.LastErr = status, nil
	}
	return "", notFound
}
