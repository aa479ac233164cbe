package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tabdash/tabdash-cli/internal/aggregate"
	"github.com/tabdash/tabdash-cli/internal/schema"
	"github.com/tabdash/tabdash-cli/internal/session"
)

var (
	fldDelimiter  string
	fldSheetName  string
	fldSheetIndex int
	fldOptions    bool
)

var fieldsCmd = &cobra.Command{
	Use:   "fields [file]",
	Short: "Show canonical fields, or how a file's headers resolve to them",
	Long:  `Without a file, fields lists every canonical field and the header spellings it accepts. With a file, it shows which headers resolved to which fields, which fields went unmatched, and (with --options) the distinct values available for filtering.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			for _, f := range schema.Fields {
				fmt.Printf("%-14s %s\n", f, strings.Join(schema.Synonyms(f), ", "))
			}
			return nil
		}

		// Reuse the report loader so sheet/delimiter flags behave the same.
		batch, err := loadBatch(cmd.Context(), args, sourceOptions{
			delimiter:  fldDelimiter,
			sheetName:  fldSheetName,
			sheetIndex: fldSheetIndex,
		})
		if err != nil {
			return err
		}

		c := effectiveConfig()
		sess := session.New(aggregate.DefaultOptions())
		if _, err := sess.Load(batch, parseSynonyms(c.Synonyms)); err != nil {
			return err
		}
		sch := sess.Schema()

		fmt.Println("Resolved:")
		for _, f := range sch.Resolved() {
			key, _ := sch.Key(f)
			fmt.Printf("  %-14s ← %q\n", f, key)
		}
		if unresolved := sch.Unresolved(); len(unresolved) > 0 {
			names := make([]string, len(unresolved))
			for i, f := range unresolved {
				names[i] = string(f)
			}
			fmt.Printf("Unresolved: %s\n", strings.Join(names, ", "))
		}

		if fldOptions {
			fmt.Println("Filter options:")
			opts := sess.Options()
			for _, f := range schema.CategoryFields {
				vals, ok := opts[f]
				if !ok {
					continue
				}
				fmt.Printf("  %-14s %s\n", f, strings.Join(vals, ", "))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fieldsCmd)
	fieldsCmd.Flags().StringVar(&fldDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	fieldsCmd.Flags().StringVar(&fldSheetName, "sheet-name", "", "XLSX: sheet name to read")
	fieldsCmd.Flags().IntVar(&fldSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	fieldsCmd.Flags().BoolVar(&fldOptions, "options", false, "also list distinct filter values per category field")
}
