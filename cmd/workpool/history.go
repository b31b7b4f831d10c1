package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kubev2v/workpool/internal/models"
	"github.com/kubev2v/workpool/internal/store"
	"github.com/kubev2v/workpool/internal/store/migrations"
)

func newHistoryCommand(v *viper.Viper) *cobra.Command {
	var (
		limit    uint64
		statuses []int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the most recent served requests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfiguration(v)
			if err != nil {
				return err
			}
			if cfg.Store.Path == "" {
				return errors.New("history needs --store-path: the in-memory store does not outlive serve")
			}

			db, err := store.NewDB(cfg.Store.Path)
			if err != nil {
				return err
			}
			st := store.NewStore(db)
			defer st.Close()

			if err := migrations.Run(cmd.Context(), db); err != nil {
				return err
			}

			opts := []store.ListOption{store.WithLimit(limit)}
			if len(statuses) > 0 {
				opts = append(opts, store.ByStatus(statuses...))
			}
			requests, err := st.Requests().List(cmd.Context(), opts...)
			if err != nil {
				return err
			}

			return printHistory(cmd.OutOrStdout(), requests)
		},
	}

	cmd.Flags().Uint64Var(&limit, "limit", 20, "Number of requests to print")
	cmd.Flags().IntSliceVar(&statuses, "status", nil, "Only print requests with these status codes")

	return cmd
}

func printHistory(out io.Writer, requests []models.Request) error {
	if len(requests) == 0 {
		_, err := fmt.Fprintln(out, "no requests recorded")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERVED AT\tSTATUS\tMETHOD\tPATH\tDURATION\tID")
	for _, r := range requests {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ServedAt.Local().Format(time.RFC3339),
			statusColor(r.Status).Sprint(r.Status),
			r.Method,
			r.Path,
			r.Duration.Round(time.Microsecond),
			r.ID,
		)
	}
	return w.Flush()
}

func statusColor(status int) *color.Color {
	switch {
	case status >= 500:
		return color.New(color.FgRed)
	case status >= 400:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}
