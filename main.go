package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	flags "github.com/jessevdk/go-flags"
)

type options struct {
	Addr    string `short:"a" long:"addr" env:"PDFMERGE_ADDR" default:":8080" description:"HTTP listen address"`
	Service string `short:"s" long:"service" env:"PDFMERGE_SERVICE_URL" default:"http://localhost:5000" description:"base URL of the PDF merge service"`
	Verbose bool   `short:"v" long:"verbose" description:"log staging activity"`
}

func main() {
	var opts options
	if _, err := flags.NewParser(&opts, flags.Default).Parse(); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	client, err := NewMergeClient(opts.Service)
	if err != nil {
		log.Fatal(err)
	}

	a := newApp(client, opts.Verbose)
	srv := &http.Server{
		Addr:    opts.Addr,
		Handler: a.routes(),
		// Only the header read is bounded; merge relays can be slow and
		// run without a deadline.
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("PDF Merger UI at http://localhost%v  (service: %s)", opts.Addr, client.Base())
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("[shutdown] signal=%s", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("[shutdown] error: %v", err)
			os.Exit(1)
		}
		log.Printf("[shutdown] complete")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}
}
