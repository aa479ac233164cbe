package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tabdash/tabdash-cli/internal/aggregate"
	"github.com/tabdash/tabdash-cli/internal/ingest"
	"github.com/tabdash/tabdash-cli/internal/normalize"
	"github.com/tabdash/tabdash-cli/internal/render"
	"github.com/tabdash/tabdash-cli/internal/schema"
	"github.com/tabdash/tabdash-cli/internal/session"
)

var (
	repOutputPath string
	repFormat     string
	repDelimiter  string
	repMaxRows    int
	repSheetName  string
	repSheetIndex int
	repFilters    []string
	repDrill      string
	repFrom       string
	repTo         string
	repTopN       int
	repRemoteURL  string
	repRemoteKey  string
)

var reportCmd = &cobra.Command{
	Use:   "report [file]",
	Short: "Build a dashboard report from a record export",
	Long:  `Report loads a CSV/TSV/XLSX file (or a remote sheet with --remote-url), normalizes the records, and renders KPI and chart summaries. Filters narrow the visible rows without reloading the source.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := effectiveConfig()

		opt := aggregate.DefaultOptions()
		opt.TurnaroundDays = c.TurnaroundDays
		opt.ConversionDenominator = c.ConversionDenominator
		opt.PreviewRows = c.PreviewRows
		if c.TopN > 0 {
			opt.TopN = c.TopN
		}
		if repTopN > 0 {
			opt.TopN = repTopN
		}

		batch, err := loadBatch(cmd.Context(), args, sourceOptions{
			delimiter:  repDelimiter,
			maxRows:    repMaxRows,
			sheetName:  repSheetName,
			sheetIndex: repSheetIndex,
			remoteURL:  repRemoteURL,
			remoteKey:  repRemoteKey,
		})
		if err != nil {
			return err
		}

		sess := session.New(opt)
		snap, err := sess.Load(batch, parseSynonyms(c.Synonyms))
		if err != nil {
			return err
		}

		// Date range first, then per-field predicates.
		if repFrom != "" || repTo != "" {
			start, end, err := parseRange(repFrom, repTo)
			if err != nil {
				return err
			}
			snap = sess.SetDateRange(start, end)
		}
		for _, f := range repFilters {
			field, value, err := parsePredicate(f)
			if err != nil {
				return err
			}
			snap = sess.ApplyPredicate(field, value)
		}
		if repDrill != "" {
			field, value, err := parsePredicate(repDrill)
			if err != nil {
				return err
			}
			snap = sess.DrillDown(field, value)
		}

		var out []byte
		switch repFormat {
		case "", "md", "markdown":
			out = []byte(render.Markdown(snap))
		case "json":
			out, err = render.JSON(snap)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported --format: %s (use md or json)", repFormat)
		}

		if repOutputPath != "" {
			if err := os.WriteFile(repOutputPath, out, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote report to %s\n", repOutputPath)
			return nil
		}
		fmt.Println(string(out))
		return nil
	},
}

// sourceOptions carries the per-command input flags to loadBatch.
type sourceOptions struct {
	delimiter  string
	maxRows    int
	sheetName  string
	sheetIndex int // 1-based, as on the flag
	remoteURL  string
	remoteKey  string
}

// loadBatch picks the reader by extension, or fetches the remote sheet when
// --remote-url (or the configured remote_url) is set and no file is given.
func loadBatch(ctx context.Context, args []string, opt sourceOptions) (ingest.Batch, error) {
	if len(args) == 0 {
		url := opt.remoteURL
		if url == "" && cfg != nil {
			url = cfg.RemoteURL
		}
		if url == "" {
			return ingest.Batch{}, fmt.Errorf("no input: pass a file path or set --remote-url")
		}
		key := opt.remoteKey
		if key == "" && cfg != nil {
			key = cfg.RemoteKey
		}
		return ingest.FetchRemote(ctx, url, ingest.RemoteOptions{Key: key})
	}

	path := args[0]
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return ingest.ReadXLSX(path, ingest.XLSXOptions{
			SheetIndex: opt.sheetIndex - 1,
			SheetName:  opt.sheetName,
			MaxRows:    opt.maxRows,
		})
	}
	copt := ingest.CSVOptions{MaxRows: opt.maxRows}
	switch opt.delimiter {
	case "":
	case ",":
		copt.Delimiter = ','
	case "\t", "tab":
		copt.Delimiter = '\t'
	case ";":
		copt.Delimiter = ';'
	default:
		return ingest.Batch{}, fmt.Errorf("unsupported --delimiter: %s", opt.delimiter)
	}
	return ingest.ReadCSV(path, copt)
}

// parsePredicate splits "field=value" and resolves the field name.
func parsePredicate(s string) (schema.Field, string, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok {
		return "", "", fmt.Errorf("invalid filter %q (use field=value)", s)
	}
	field, ok := schema.ParseField(strings.TrimSpace(name))
	if !ok {
		return "", "", fmt.Errorf("unknown field %q (see 'tabdash fields')", name)
	}
	return field, strings.TrimSpace(value), nil
}

func parseRange(from, to string) (time.Time, time.Time, error) {
	var start, end time.Time
	if from != "" {
		t, ok := normalize.ParseDate(from)
		if !ok {
			return start, end, fmt.Errorf("invalid --from date: %s", from)
		}
		start = t
	}
	if to != "" {
		t, ok := normalize.ParseDate(to)
		if !ok {
			return start, end, fmt.Errorf("invalid --to date: %s", to)
		}
		end = t
	}
	return start, end, nil
}

// parseSynonyms converts config synonym overrides to schema fields, dropping
// entries whose key is not a canonical field name.
func parseSynonyms(raw map[string][]string) map[schema.Field][]string {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[schema.Field][]string, len(raw))
	for name, syns := range raw {
		field, ok := schema.ParseField(name)
		if !ok {
			fmt.Fprintf(os.Stderr, "⚠ Warning: ignoring synonyms for unknown field %q\n", name)
			continue
		}
		out[field] = syns
	}
	return out
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&repOutputPath, "output", "o", "", "optional path to write the report")
	reportCmd.Flags().StringVar(&repFormat, "format", "md", "output format: md | json")
	reportCmd.Flags().StringVar(&repDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	reportCmd.Flags().IntVar(&repMaxRows, "max-rows", 0, "maximum data rows to read (0 = unlimited)")
	reportCmd.Flags().StringVar(&repSheetName, "sheet-name", "", "XLSX: sheet name to read")
	reportCmd.Flags().IntVar(&repSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	reportCmd.Flags().StringArrayVar(&repFilters, "filter", nil, "filter as field=value (repeatable; ANDed together)")
	reportCmd.Flags().StringVar(&repDrill, "drill", "", "drill into a chart segment as field=value")
	reportCmd.Flags().StringVar(&repFrom, "from", "", "start of date range (inclusive)")
	reportCmd.Flags().StringVar(&repTo, "to", "", "end of date range (inclusive, whole day)")
	reportCmd.Flags().IntVar(&repTopN, "top", 0, "leaderboard size (overrides config top_n)")
	reportCmd.Flags().StringVar(&repRemoteURL, "remote-url", "", "remote sheet endpoint returning a values array")
	reportCmd.Flags().StringVar(&repRemoteKey, "remote-key", "", "API key for the remote sheet endpoint")
}
