package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/moviereviews/internal/domain"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func addOutputFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "output", "o", formatTable, "output format: table, json or yaml")
}

type printer struct {
	w      io.Writer
	format string
}

func newPrinter(w io.Writer, format string) (*printer, error) {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return &printer{w: w, format: format}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

func (p *printer) reviews(reviews []domain.Review) error {
	if p.format != formatTable {
		return p.encode(reviews)
	}

	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RATING\tTITLE\tMOVIE\tREVIEWER")
	for _, r := range reviews {
		rating := "-"
		if r.Rating != nil {
			rating = fmt.Sprintf("%d/5", *r.Rating)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", rating, r.Title, r.MovieTitle(), r.ReviewerName())
	}
	return tw.Flush()
}

func (p *printer) movies(movies []domain.Movie) error {
	if p.format != formatTable {
		return p.encode(movies)
	}

	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tRELEASED")
	for _, m := range movies {
		released := "-"
		if m.ReleaseDate != nil {
			released = m.ReleaseDate.Format(domain.DateLayout)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.ID, m.Title, released)
	}
	return tw.Flush()
}

func (p *printer) encode(v any) error {
	switch p.format {
	case formatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
}
