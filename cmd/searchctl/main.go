package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/amityadav/searchagg/internal/config"
	"github.com/amityadav/searchagg/internal/export"
	"github.com/amityadav/searchagg/internal/search"
	"github.com/amityadav/searchagg/internal/server"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "searchctl",
		Usage: "Run the aggregated Google + Reddit search from the terminal",
		Before: func(ctx *cli.Context) error {
			if err := godotenv.Load(); err != nil && ctx.Bool("verbose") {
				log.Println("No .env file found, using environment variables")
			}
			if !ctx.Bool("verbose") {
				log.SetOutput(io.Discard)
			}
			return nil
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				EnvVars: []string{"SEARCHCTL_VERBOSE"},
				Usage:   "Log provider requests to stderr",
			},
		},
		Commands: []*cli.Command{
			searchCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search both providers and print the aggregated results as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "term",
				Aliases:  []string{"t"},
				Required: true,
				Usage:    "The search term",
			},
			&cli.StringSliceFlag{
				Name:    "facet",
				Aliases: []string{"f"},
				Usage:   "Only keep results from this source (Google, Reddit); repeatable",
			},
			&cli.StringFlag{
				Name:      "pdf",
				TakesFile: true,
				Usage:     "Also write the results as a PDF to this file",
			},
			&cli.StringFlag{
				Name:      "docx",
				TakesFile: true,
				Usage:     "Also write the results as a DOCX to this file",
			},
		},
		Action: func(cliCtx *cli.Context) error {
			services := server.Initialize(config.Load())

			query := search.Query{
				SearchTerm: cliCtx.String("term"),
				Facets:     cliCtx.StringSlice("facet"),
			}
			results, err := services.Searcher.Search(context.Background(), query)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cliCtx.App.Writer)
			enc.SetIndent("", "  ")
			if err := enc.Encode(results); err != nil {
				return fmt.Errorf("failed to print results: %w", err)
			}

			if path := cliCtx.String("pdf"); path != "" {
				if err := writeExport(path, results, export.WritePDF); err != nil {
					return err
				}
			}
			if path := cliCtx.String("docx"); path != "" {
				if err := writeExport(path, results, export.WriteDOCX); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func writeExport(path string, results []search.Result, render func(io.Writer, []search.Result) error) error {
	var buf bytes.Buffer
	if err := render(&buf, results); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
