package pdb

import (
	"fmt"
	"os"
	"strings"
	"testing"
)

func LoadTestFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return data, nil
}

// atomLine builds a single-atom ATOM record with the B-factor column set
// to the given 6-character string, blank meaning no annotation.
func atomLine(serial int64, bfactor string) string {
	return fmt.Sprintf("ATOM  %5d  CA  ALA A%4d      11.000   6.000  -6.000  1.00%6s", serial, serial, bfactor)
}

func docWithBFactors(bfactors ...string) []byte {
	lines := []string{"HEADER    PREDICTED STRUCTURE"}
	for i, bf := range bfactors {
		lines = append(lines, atomLine(int64(i+1), bf))
	}
	lines = append(lines, "END")
	return []byte(strings.Join(lines, "\n"))
}

func TestChains(t *testing.T) {
	raw, err := LoadTestFile("./testdata/af-sample.pdb")
	if err != nil {
		t.Errorf("cannot open file: %s", err)
	}

	pdb, err := NewPDBFromRaw(raw)
	if err != nil {
		t.Error(err)
	}

	t.Logf("testing PDB chains")

	actual := pdb.TotalLength
	expected := int64(3)
	if actual != expected {
		t.Errorf("expected %d, got %d", expected, actual)
	}

	res := pdb.Chains["A"][1]
	expect := "Methionine"
	if res.Name != expect {
		t.Errorf("expected %s in A-1, got %s", expect, res.Name)
	}

	expect = "Lysine"
	res = pdb.Chains["A"][2]
	if res.Name != expect {
		t.Errorf("expected %s in A-2, got %s", expect, res.Name)
	}

	expect = "Threonine"
	res = pdb.Chains["A"][3]
	if res.Name != expect {
		t.Errorf("expected %s in A-3, got %s", expect, res.Name)
	}

	if len(pdb.Atoms) != 6 {
		t.Errorf("expected 6 atoms, got %d", len(pdb.Atoms))
	}
}

func TestResidueMeanBFactor(t *testing.T) {
	raw, err := LoadTestFile("./testdata/af-sample.pdb")
	if err != nil {
		t.Errorf("cannot open file: %s", err)
	}

	pdb, err := NewPDBFromRaw(raw)
	if err != nil {
		t.Error(err)
	}

	tests := []struct {
		position int64
		expected float64
	}{
		{1, 91.00},
		{2, 85.00},
		{3, 70.50},
	}
	confidence := pdb.ResidueConfidence()
	for _, tt := range tests {
		actual := confidence["A"][tt.position]
		if actual != tt.expected {
			t.Errorf("expected %.2f in A-%d, got %.2f", tt.expected, tt.position, actual)
		}
	}
}

func TestMeanConfidence(t *testing.T) {
	raw, err := LoadTestFile("./testdata/af-sample.pdb")
	if err != nil {
		t.Errorf("cannot open file: %s", err)
	}

	pdb, err := NewPDBFromRaw(raw)
	if err != nil {
		t.Error(err)
	}

	actual := pdb.MeanConfidence()
	expected := 82.17
	if actual != expected {
		t.Errorf("expected %.2f, got %.2f", expected, actual)
	}
}

func TestMeanConfidence_Values(t *testing.T) {
	pdb, err := NewPDBFromRaw(docWithBFactors(" 10.00", " 20.00", " 30.00"))
	if err != nil {
		t.Error(err)
	}

	actual := pdb.MeanConfidence()
	expected := 20.00
	if actual != expected {
		t.Errorf("expected %.2f, got %.2f", expected, actual)
	}
}

func TestMeanConfidence_UndefinedValueCountsAsZero(t *testing.T) {
	pdb, err := NewPDBFromRaw(docWithBFactors(" 10.00", "      ", " 30.00"))
	if err != nil {
		t.Error(err)
	}

	actual := pdb.MeanConfidence()
	expected := 13.33
	if actual != expected {
		t.Errorf("expected %.2f, got %.2f", expected, actual)
	}
}

func TestMeanConfidence_NoAnnotation(t *testing.T) {
	pdb, err := NewPDBFromRaw(docWithBFactors("      ", "      ", "      "))
	if err != nil {
		t.Error(err)
	}

	actual := pdb.MeanConfidence()
	expected := 0.00
	if actual != expected {
		t.Errorf("expected %.2f, got %.2f", expected, actual)
	}
}

func TestMeanConfidence_IncludesHetAtoms(t *testing.T) {
	doc := "HEADER    TEST\n" +
		atomLine(1, " 10.00") + "\n" +
		"HETATM    2  O   HOH A 100      11.000   6.000  -6.000  1.00 30.00\n" +
		"END"

	pdb, err := NewPDBFromRaw([]byte(doc))
	if err != nil {
		t.Error(err)
	}

	actual := pdb.MeanConfidence()
	expected := 20.00
	if actual != expected {
		t.Errorf("expected %.2f, got %.2f", expected, actual)
	}

	if len(pdb.HetGroups) != 1 || pdb.HetGroups[0] != "HOH" {
		t.Errorf("expected HOH het group, got %v", pdb.HetGroups)
	}
}

func TestNewPDBFromRaw_Unparsable(t *testing.T) {
	_, err := NewPDBFromRaw([]byte("this is not a structure document"))
	if err == nil {
		t.Error("expected an error for an unparsable document")
	}
}

func TestNewPDBFromRaw_Empty(t *testing.T) {
	_, err := NewPDBFromRaw(nil)
	if err == nil {
		t.Error("expected an error for an empty document")
	}
}
