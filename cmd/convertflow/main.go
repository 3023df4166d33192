// Command convertflow converts a DWFx document's first fixed page into a
// single-page PDF.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/kfirzuberi/convertflow"
	"github.com/kfirzuberi/convertflow/logging"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [options] input.dwfx output.pdf\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	verbose := flag.Bool("v", false, "log recovered (non-fatal) rendering warnings to stderr")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) != 2 {
		usage()
		os.Exit(2)
	}
	inputPath, outputPath := args[0], args[1]

	if *verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	}

	if err := convertflow.Convert(inputPath, outputPath); err != nil {
		log.Fatalf("convert %s: %v", inputPath, err)
	}

	fmt.Printf("Created: %s\n", outputPath)
}
