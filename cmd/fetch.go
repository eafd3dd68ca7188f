package cmd

import (
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tikz/fold/config"
)

var fetchOutPath string

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch <accession>",
	Short: "Download the precomputed AlphaFold model for a UniProt accession",
	Long: `Download the structure document for an accession from the AlphaFold
database, trying the most recent model version first and falling back to
older ones. The document is printed to stdout (or written with -o) and the
mean pLDDT is reported on stderr.`,
	Args: cobra.ExactArgs(1),
	Run:  runFetch,
}

func runFetch(cmd *cobra.Command, args []string) {
	cfg := config.NewConfig()
	accession := strings.TrimSpace(args[0])

	doc, err := newFetcher(cfg).Fetch(cmd.Context(), accession)
	if err != nil {
		log.Fatalf("%v", err)
	}

	writeDocument(doc, fetchOutPath)
	reportConfidence(doc)
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&fetchOutPath, "out", "o", "", "path to write the PDB file to")
}
