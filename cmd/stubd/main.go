// Command stubd runs an in-memory stand-in for the hosted Rapport API.
// It exists for local development and end-to-end testing of the sync
// engine; all data is lost on exit.
package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/rapport-app/rapport/internal/stubserver"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:8787", "listen address")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	srv := stubserver.New()

	log.Info("stub API listening", "addr", *addr)
	if err := http.ListenAndServe(*addr, srv.Router()); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
