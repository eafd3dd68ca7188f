package pdb

import (
	"errors"
	"fmt"
	"strings"
)

var residueNames = [...][3]string{
	{"Alanine", "Ala", "A"},
	{"Arginine", "Arg", "R"},
	{"Asparagine", "Asn", "N"},
	{"Aspartic acid", "Asp", "D"},
	{"Cysteine", "Cys", "C"},
	{"Glutamic acid", "Glu", "E"},
	{"Glutamine", "Gln", "Q"},
	{"Glycine", "Gly", "G"},
	{"Histidine", "His", "H"},
	{"Isoleucine", "Ile", "I"},
	{"Leucine", "Leu", "L"},
	{"Lysine", "Lys", "K"},
	{"Methionine", "Met", "M"},
	{"Phenylalanine", "Phe", "F"},
	{"Proline", "Pro", "P"},
	{"Serine", "Ser", "S"},
	{"Threonine", "Thr", "T"},
	{"Tryptophan", "Trp", "W"},
	{"Tyrosine", "Tyr", "Y"},
	{"Valine", "Val", "V"},
}

// Residue represents a single residue from the PDB structure.
type Residue struct {
	Chain          string  `json:"chain"`
	StructPosition int64   `json:"position"`
	Name           string  `json:"-"`
	Name1          string  `json:"name1"`
	Name3          string  `json:"-"`
	Atoms          []*Atom `json:"-"`
	MeanBFactor    float64 `json:"meanBfactor"`
}

// IsAminoacid returns true if the given letter is an aminoacid, false otherwise.
func IsAminoacid(letter string) bool {
	for _, res := range residueNames {
		if res[2] == letter {
			return true
		}
	}
	return false
}

// AminoacidNames receives a name and returns all the possible representations as a string.
func AminoacidNames(input string) (string, string, string) {
	s := strings.Title(strings.ToLower(input))
	for _, res := range residueNames {
		for _, n := range res {
			if n == s {
				return res[0], res[1], res[2]
			}
		}
	}

	return input, "Unk", "X"
}

// NewResidue constructs a new residue given a chain, position and aminoacid name.
// The name is case-insensitive and can be either a full aminoacid name, one or three letter abbreviation.
func NewResidue(chain string, pos int64, input string) *Residue {
	name, abbrv3, abbrv1 := AminoacidNames(input)

	res := &Residue{
		Chain:          chain,
		StructPosition: pos,
		Name:           name,
		Name1:          abbrv1,
		Name3:          abbrv3,
	}

	return res
}

// ExtractResidues extracts data from the ATOM and HETATM records and parses them.
func (pdb *PDB) ExtractResidues() error {
	atoms, err := pdb.extractPDBATMRecords("ATOM")
	if err != nil {
		return fmt.Errorf("extract ATOM records: %v", err)
	}

	hetatms, _ := pdb.extractPDBATMRecords("HETATM")

	pdb.Atoms = atoms
	pdb.HetAtoms = hetatms

	err = pdb.ExtractPDBChains()
	if err != nil {
		return fmt.Errorf("extract PDB chains: %v", err)
	}

	return nil
}

// ExtractPDBChains parses the residue chains.
func (pdb *PDB) ExtractPDBChains() error {
	atoms := pdb.Atoms
	if len(atoms) == 0 {
		return errors.New("empty atoms list")
	}

	chains := make(map[string]map[int64]*Residue)

	var res *Residue
	for _, atom := range atoms {
		chain, chainOk := chains[atom.Chain]
		pos, posOk := chain[atom.ResidueNumber]

		if !chainOk {
			chains[atom.Chain] = make(map[int64]*Residue)
		}
		if !posOk {
			res = NewResidue(atom.Chain, atom.ResidueNumber, atom.Residue)
			res.Atoms = []*Atom{atom}
			chains[atom.Chain][atom.ResidueNumber] = res
		} else {
			pos.Atoms = append(pos.Atoms, atom)
		}
	}

	pdb.Chains = chains
	for _, chain := range pdb.Chains {
		pdb.TotalLength += int64(len(chain))
	}

	for _, chain := range pdb.Chains {
		for _, residue := range chain {
			residue.calculateMeanBFactor()
		}
	}

	return nil
}

// calculateMeanBFactor calculates the mean B-factor for the residue based on all its atoms.
func (r *Residue) calculateMeanBFactor() {
	var sum float64
	for _, atom := range r.Atoms {
		sum += atom.BFactor
	}

	r.MeanBFactor = sum / float64(len(r.Atoms))
}
