package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"folio/internal/serve"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog as a JSON API",
	Long: `Start the HTTP server answering catalog queries. The data file is watched
and reloaded on change; a reload that fails keeps the current catalog.`,
	RunE: runServe,
}

var (
	serveAddr    string
	serveNoWatch bool
)

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default: serve.addr)")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "do not reload the data file on change")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.Serve.Addr = serveAddr
	}
	if serveNoWatch {
		cfg.Serve.Watch = false
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := serve.New(ctx, cfg, log)
	defer s.Close()

	return s.ListenAndServe(ctx)
}
