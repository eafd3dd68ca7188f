package pdb

import "math"

// MeanConfidence returns the arithmetic mean of the per-atom confidence
// annotation over every atom in the structure, rounded to 2 decimal places.
//
// Structure prediction tools repurpose the B-factor column to carry a
// 0-100 per-residue confidence estimate (pLDDT). Blank or unparsable
// values count as 0, so a document with no annotation at all scores 0.00
// rather than being reported absent; only a document that fails parsing
// outright has no score.
func (pdb *PDB) MeanConfidence() float64 {
	atoms := len(pdb.Atoms) + len(pdb.HetAtoms)
	if atoms == 0 {
		return 0
	}

	var sum float64
	for _, atom := range pdb.Atoms {
		sum += atom.BFactor
	}
	for _, atom := range pdb.HetAtoms {
		sum += atom.BFactor
	}

	return round2(sum / float64(atoms))
}

// ResidueConfidence returns the per-residue mean confidence keyed by chain
// and residue number.
func (pdb *PDB) ResidueConfidence() map[string]map[int64]float64 {
	confidence := make(map[string]map[int64]float64)
	for chain, residues := range pdb.Chains {
		confidence[chain] = make(map[int64]float64)
		for pos, residue := range residues {
			confidence[chain][pos] = round2(residue.MeanBFactor)
		}
	}
	return confidence
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
