package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/tikz/fold/pdb"
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score <file.pdb>",
	Short: "Report the mean pLDDT of a local structure document",
	Args:  cobra.ExactArgs(1),
	Run:   runScore,
}

func runScore(cmd *cobra.Command, args []string) {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		log.Fatalf("read file: %v", err)
	}

	p, err := pdb.NewPDBFromRaw(raw)
	if err != nil {
		fmt.Println("mean pLDDT: unavailable")
		return
	}

	fmt.Printf("mean pLDDT: %.2f over %d residues\n", p.MeanConfidence(), p.TotalLength)
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}
