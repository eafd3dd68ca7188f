// Package server exposes structure retrieval and confidence scoring over a
// JSON HTTP API. Handlers are stateless: every request builds its result
// from scratch and nothing is shared or cached between requests.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/tikz/fold/alphafold"
	"github.com/tikz/fold/fetch"
	"github.com/tikz/fold/pdb"
	"github.com/tikz/fold/seq"
)

// StructureFetcher looks up a precomputed model by accession.
type StructureFetcher interface {
	Fetch(ctx context.Context, accession string) (string, error)
}

// SequencePredictor folds a validated sequence into a structure document.
type SequencePredictor interface {
	Predict(ctx context.Context, sequence string) (string, error)
}

// Server routes API requests to the fetcher and predictor.
type Server struct {
	Fetcher   StructureFetcher
	Predictor SequencePredictor
	Logger    *log.Logger
}

// StructureResponse is the payload returned by the structure endpoints.
// MeanPLDDT is null when the document could not be parsed; the raw PDB
// text is returned regardless so the client can still render it.
type StructureResponse struct {
	Accession string   `json:"accession,omitempty"`
	Source    string   `json:"source"`
	MeanPLDDT *float64 `json:"meanPlddt"`
	Residues  int64    `json:"residues,omitempty"`
	PDB       string   `json:"pdb"`
}

// ErrorResponse is the payload returned on failure.
type ErrorResponse struct {
	Error    string `json:"error"`
	Position int    `json:"position,omitempty"`
	Token    string `json:"token,omitempty"`
}

type predictRequest struct {
	Sequence string `json:"sequence"`
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/structure/{accession}", s.handleStructure)
	mux.HandleFunc("POST /api/predict", s.handlePredict)
	mux.HandleFunc("POST /api/score", s.handleScore)
	return s.withRequestID(mux)
}

// withRequestID tags every request with an ID for log correlation.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		s.logf("%s %s %s", id, r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// handleStructure serves GET /api/structure/{accession}: downloads the
// best available model for the accession and scores it.
func (s *Server) handleStructure(w http.ResponseWriter, r *http.Request) {
	accession := r.PathValue("accession")

	doc, err := s.Fetcher.Fetch(r.Context(), accession)
	if err != nil {
		var notFound *alphafold.NotFoundError
		if errors.As(err, &notFound) {
			writeError(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}
		writeError(w, http.StatusBadGateway, ErrorResponse{Error: err.Error()})
		return
	}

	res := StructureResponse{
		Accession: accession,
		Source:    "alphafold",
		PDB:       doc,
	}
	res.MeanPLDDT, res.Residues = score([]byte(doc))
	writeJSON(w, http.StatusOK, res)
}

// handlePredict serves POST /api/predict: validates the sequence, submits
// it for folding and scores the predicted structure.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
		return
	}

	sequence, err := seq.Clean(req.Sequence)
	if err != nil {
		res := ErrorResponse{Error: err.Error()}
		var vErr *seq.ValidationError
		if errors.As(err, &vErr) && vErr.Kind == seq.InvalidToken {
			res.Position = vErr.Position
			res.Token = string(vErr.Token)
		}
		writeError(w, http.StatusBadRequest, res)
		return
	}

	doc, err := s.Predictor.Predict(r.Context(), sequence)
	if err != nil {
		status := http.StatusBadGateway
		var fatal *fetch.FatalError
		if errors.As(err, &fatal) && fatal.Status == http.StatusBadRequest {
			status = http.StatusBadRequest
		}
		writeError(w, status, ErrorResponse{Error: err.Error()})
		return
	}

	res := StructureResponse{
		Source: "esmfold",
		PDB:    doc,
	}
	res.MeanPLDDT, res.Residues = score([]byte(doc))
	writeJSON(w, http.StatusOK, res)
}

// handleScore serves POST /api/score: scores a structure document supplied
// directly by the client, the manual fallback when remote sources fail.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "read body"})
		return
	}

	res := StructureResponse{
		Source: "upload",
		PDB:    string(raw),
	}
	res.MeanPLDDT, res.Residues = score(raw)
	writeJSON(w, http.StatusOK, res)
}

// score parses the document and extracts the mean confidence. A document
// that fails parsing yields a nil score, never an error: scoring must not
// stop the structure itself from reaching the client.
func score(raw []byte) (*float64, int64) {
	p, err := pdb.NewPDBFromRaw(raw)
	if err != nil {
		return nil, 0
	}
	mean := p.MeanConfidence()
	return &mean, p.TotalLength
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, res ErrorResponse) {
	writeJSON(w, status, res)
}

func (s *Server) logf(format string, args ...interface{}) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}
