// Package cmd is for command line interactions with the fold application
package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/tikz/fold/alphafold"
	"github.com/tikz/fold/config"
	"github.com/tikz/fold/esmfold"
	"github.com/tikz/fold/fetch"
	"github.com/tikz/fold/pdb"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "fold",
	Short: `Obtain protein 3D structures, either precomputed AlphaFold models
by UniProt accession or ESMFold predictions from a sequence, and report the
mean per-residue confidence (pLDDT)`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.OnInitialize(config.Setup)
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

func newFetcher(cfg config.Config) *alphafold.Fetcher {
	f := alphafold.NewFetcher(fetch.NewClient())
	if cfg.AlphaFold.BaseURL != "" {
		f.BaseURL = cfg.AlphaFold.BaseURL
	}
	if len(cfg.AlphaFold.Models) > 0 {
		f.Patterns = cfg.AlphaFold.Models
	}
	if cfg.AlphaFold.TimeoutSeconds > 0 {
		f.Timeout = cfg.AlphaFold.Timeout()
	}
	return f
}

func newPredictor(cfg config.Config) *esmfold.Predictor {
	p := esmfold.NewPredictor(fetch.NewClient())
	if cfg.ESMFold.URL != "" {
		p.URL = cfg.ESMFold.URL
	}
	if cfg.ESMFold.MaxAttempts > 0 {
		p.MaxAttempts = cfg.ESMFold.MaxAttempts
	}
	if cfg.ESMFold.BaseDelaySeconds > 0 {
		p.BaseDelay = cfg.ESMFold.BaseDelay()
	}
	if cfg.ESMFold.TimeoutSeconds > 0 {
		p.Timeout = cfg.ESMFold.Timeout()
	}
	return p
}

// writeDocument prints the structure document to stdout, or to outPath if
// the -o flag was given.
func writeDocument(doc string, outPath string) {
	if outPath == "" {
		fmt.Print(doc)
		return
	}
	if err := os.WriteFile(outPath, []byte(doc), 0644); err != nil {
		log.Fatalf("write document: %v", err)
	}
}

// reportConfidence logs the mean pLDDT for a document, or its absence when
// it cannot be parsed. Goes to stderr so it composes with piped output.
func reportConfidence(doc string) {
	p, err := pdb.NewPDBFromRaw([]byte(doc))
	if err != nil {
		log.Printf("mean pLDDT: unavailable")
		return
	}
	log.Printf("mean pLDDT: %.2f over %d residues", p.MeanConfidence(), p.TotalLength)
}
