package cmd

import (
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/tikz/fold/config"
	"github.com/tikz/fold/seq"
)

var (
	predictSeqPath string
	predictOutPath string
)

// predictCmd represents the predict command
var predictCmd = &cobra.Command{
	Use:   "predict [sequence]",
	Short: "Predict a structure from an aminoacid sequence with ESMFold",
	Long: `Submit a one-letter-code sequence to the ESMFold API and print the
predicted structure document. The sequence is taken from the argument, from
a file with -f, or from stdin. Transient API failures are retried with
exponential backoff before giving up.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPredict,
}

func runPredict(cmd *cobra.Command, args []string) {
	cfg := config.NewConfig()

	raw, err := readSequence(args)
	if err != nil {
		log.Fatalf("read sequence: %v", err)
	}

	sequence, err := seq.Clean(raw)
	if err != nil {
		log.Fatalf("%v", err)
	}

	doc, err := newPredictor(cfg).Predict(cmd.Context(), sequence)
	if err != nil {
		log.Fatalf("%v", err)
	}

	writeDocument(doc, predictOutPath)
	reportConfidence(doc)
}

func readSequence(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if predictSeqPath != "" {
		raw, err := os.ReadFile(predictSeqPath)
		return string(raw), err
	}
	raw, err := io.ReadAll(os.Stdin)
	return string(raw), err
}

func init() {
	rootCmd.AddCommand(predictCmd)

	predictCmd.Flags().StringVarP(&predictSeqPath, "file", "f", "", "path to a file with the sequence")
	predictCmd.Flags().StringVarP(&predictOutPath, "out", "o", "", "path to write the PDB file to")
}
