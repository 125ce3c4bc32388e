package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ganot/project-registry/internal/domain/audit"
)

type auditOptions struct {
	*rootOptions
	Table  string
	Row    string
	Action string
	Actor  string
	Limit  int
	Offset int
	Format string
}

func newAuditCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &auditOptions{rootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show audit history",
		Long: `Show audit history, newest first.

Examples:
  registry audit --db ./registry.db --table projects --row 42
  registry audit --action DELETE --actor alice --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Table, "table", "", "filter by table name")
	cmd.Flags().StringVar(&opts.Row, "row", "", "filter by row id")
	cmd.Flags().StringVar(&opts.Action, "action", "", "filter by action (INSERT|UPDATE|DELETE)")
	cmd.Flags().StringVar(&opts.Actor, "actor", "", "filter by actor")
	cmd.Flags().IntVar(&opts.Limit, "limit", 50, "maximum records to show")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "records to skip")
	cmd.Flags().StringVar(&opts.Format, "format", "text", "output format (text|json)")

	return cmd
}

func runAudit(ctx context.Context, opts *auditOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Format != "text" && opts.Format != "json" {
		return fmt.Errorf("invalid format %q: must be text or json", opts.Format)
	}
	cfg, err := opts.load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	a, err := openApp(cfg.DB.Path, nil, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	records, err := a.audit.History(ctx, audit.Filter{
		TableName: opts.Table,
		RowID:     opts.Row,
		Action:    audit.Action(opts.Action),
		Actor:     opts.Actor,
		Limit:     opts.Limit,
		Offset:    opts.Offset,
	})
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		if records == nil {
			records = []audit.Record{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	return writeAuditTable(out, records)
}

func writeAuditTable(out io.Writer, records []audit.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(out, "no audit records")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tACTION\tTABLE\tROW\tACTOR\tCONTEXT")
	for _, rec := range records {
		label := "-"
		if rec.Context != nil {
			label = *rec.Context
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			rec.ID, rec.Timestamp.Format(time.RFC3339), rec.Action, rec.TableName, rec.RowID, rec.Actor, label)
	}
	return tw.Flush()
}
