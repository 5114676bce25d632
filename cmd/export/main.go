package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/aquaclub/swimtrack/internal/trainlog"

	log "github.com/sirupsen/logrus"
)

// small helper tool, dumps the local session collection as csv or json
func main() {
	storePath := flag.String("store", "./swimtrack-data", "path of the local sessions store root dir")
	format := flag.String("format", "csv", "export format [csv | json]")
	outPath := flag.String("out", "", "output file path, stdout when empty")
	flag.Parse()

	log.SetLevel(log.WarnLevel)

	store, err := trainlog.NewLocalStore(*storePath, trainlog.RetentionPolicy{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "open local store: %s\n", err)
		os.Exit(1)
	}

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "create output file: %s\n", err)
			os.Exit(1)
		}
		defer func() {
			if err := f.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "close output file: %s\n", err)
			}
		}()
		out = f
	}

	sessions := store.All(context.Background())
	switch *format {
	case "csv":
		err = trainlog.WriteCSV(out, sessions)
	case "json":
		err = trainlog.WriteJSON(out, sessions)
	default:
		fmt.Fprintf(os.Stderr, "unknown format: %s\n", *format)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "export failed: %s\n", err)
		os.Exit(1)
	}
}
