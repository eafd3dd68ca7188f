// Package pdb parses structure documents in PDB format and extracts the
// per-atom confidence annotation carried in the B-factor column.
package pdb

import (
	"fmt"
)

// PDB represents a single parsed structure document.
type PDB struct {
	Atoms     []*Atom  `json:"-"`         // ATOM records in the structure
	HetAtoms  []*Atom  `json:"-"`         // HETATM records in the structure
	HetGroups []string `json:"hetGroups"` // HET groups in the structure

	Chains      map[string]map[int64]*Residue `json:"chains"`      // chain ID and position to residue
	TotalLength int64                         `json:"totalLength"` // total length as sum of residues of all chains

	RawPDB []byte `json:"-"` // PDB file raw data
}

// NewPDBFromRaw constructs a new instance from raw bytes, extracting ATOM
// and HETATM records. This is the entry point for documents fetched from
// a remote source or supplied by the user.
func NewPDBFromRaw(raw []byte) (*PDB, error) {
	pdb := PDB{RawPDB: raw}

	err := pdb.ExtractResidues()
	if err != nil {
		return nil, fmt.Errorf("parse: %v", err)
	}

	return &pdb, nil
}
