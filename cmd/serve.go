package cmd

import (
	"log"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tikz/fold/config"
	"github.com/tikz/fold/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the structure retrieval JSON API",
	Long: `Serve the HTTP API:

  GET  /api/structure/{accession}  fetch an AlphaFold model and score it
  POST /api/predict                fold a sequence with ESMFold and score it
  POST /api/score                  score a structure document supplied as the body`,
	Run: runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := config.NewConfig()

	srv := &server.Server{
		Fetcher:   newFetcher(cfg),
		Predictor: newPredictor(cfg),
		Logger:    log.New(os.Stderr, "", log.LstdFlags),
	}

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := http.ListenAndServe(cfg.HTTP.Addr, srv.Handler()); err != nil {
		log.Fatalf("%v", err)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("addr", "a", ":8036", "address to listen on")

	viper.BindPFlag("http.addr", serveCmd.Flags().Lookup("addr"))
}
