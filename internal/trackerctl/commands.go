package trackerctl

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/worktracker/internal/client/backup"
	"github.com/spf13/cobra"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func newPingCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "ping",
		Short:        "Check the server is reachable",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.Dial(opts.Server, opts.Timeout)
			if err != nil {
				return err
			}
			defer store.Close()

			if p, ok := store.(pinger); ok {
				if err := p.Ping(cmd.Context()); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is up\n", opts.Server)
			return nil
		},
	}
}

func newExportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.json|->",
		Short: "Write every collection to a backup file",
		Long: `Export loads all work items, vacations, employees, certificates and
statuses from the server and writes them as one JSON document. Use "-" to
write to standard output.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer s.close(ctx)

			data := backup.Export(s.engine)
			if args[0] == "-" {
				return backup.Encode(cmd.OutOrStdout(), data)
			}
			if err := backup.WriteFile(args[0], data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "backup written to %s\n", args[0])
			return nil
		},
	}
}

func newImportCommand(opts *RootOptions) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "import <file.json|->",
		Short: "Add the records of a backup file to the server",
		Long: `Import creates every record of the backup with a new id. Statuses whose
label already exists are kept as they are. The command waits until the server
confirmed each record.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data backup.Data
				err  error
			)
			if args[0] == "-" {
				data, err = backup.Decode(cmd.InOrStdin())
			} else {
				data, err = backup.ReadFile(args[0])
			}
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			s, err := openSession(ctx, cmd, opts)
			if err != nil {
				return err
			}

			res := backup.Import(s.engine, data, s.logger)
			waitErr := res.Wait(ctx)
			if err := s.close(ctx); err != nil && waitErr == nil {
				waitErr = err
			}

			out := cmd.OutOrStdout()
			for _, r := range res.Rejected {
				fmt.Fprintf(out, "skipped %v\n", r)
			}
			total := 0
			for _, n := range res.Created {
				total += n
			}
			fmt.Fprintf(out, "imported %d record(s), %d existing status(es) kept\n", total, res.Skipped)

			if waitErr != nil {
				return waitErr
			}
			if strict && len(res.Rejected) > 0 {
				return errors.New("some records were rejected")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any record is rejected")
	return cmd
}

func newReportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "report <file.xlsx>",
		Short:        "Write the leave compliance report as a spreadsheet",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer s.close(ctx)

			rows := s.engine.ComplianceReport()
			if err := backup.WriteComplianceReport(args[0], rows, opts.Now()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d employee(s) written to %s\n", len(rows), args[0])
			return nil
		},
	}
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
