package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yungbote/landcontract-backend/internal/backupfile"
	"github.com/yungbote/landcontract-backend/internal/domain/contracts"
	"github.com/yungbote/landcontract-backend/internal/services"
)

func statsCmd() *cobra.Command {
	var ff filterFlags
	var period string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Contract totals by status and ward (Admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := signedIn(cmd)
			if err != nil {
				return err
			}
			f, err := ff.filter()
			if err != nil {
				return err
			}
			stats, err := core.Services.Statistics.Statistics(ctx, services.StatsQuery{Filter: f, Period: period})
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), stats)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "WARD\tTOTAL\tPROCESSING\tCOMPLETED\tCANCELLED")
			for _, w := range stats.ByWard {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", w.WardName, w.Total, w.Processing, w.Completed, w.Cancelled)
			}
			fmt.Fprintf(tw, "All wards\t%d\t%d\t%d\t%d\n", stats.Total, stats.Processing, stats.Completed, stats.Cancelled)
			return tw.Flush()
		},
	}
	ff.bind(cmd, false)
	cmd.Flags().StringVar(&period, "period", "", "week|month|quarter|year (overrides --from/--to)")
	return cmd
}

func backupCmd() *cobra.Command {
	var dir, compress string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write the whole ledger to a backup file (Admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := signedIn(cmd)
			if err != nil {
				return err
			}
			enc, err := backupfile.ParseEncoding(compress)
			if err != nil {
				return err
			}
			file, err := core.Services.Backup.Backup(ctx, enc)
			if err != nil {
				return err
			}
			path := filepath.Join(dir, file.FileName)
			if err := os.WriteFile(path, file.Body, 0o600); err != nil {
				return fmt.Errorf("write backup: %w", err)
			}
			printf(cmd, "Backup written to %s (%d bytes)\n", path, len(file.Body))
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "output directory")
	cmd.Flags().StringVar(&compress, "compress", "", "zstd to compress the file")
	return cmd
}

func restoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <file>",
		Short: "Replace the whole ledger with a backup file (Admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := signedIn(cmd)
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read backup: %w", err)
			}
			sum, err := core.Services.Backup.Restore(ctx, raw)
			if err != nil {
				return err
			}
			printf(cmd, "Restored %d users, %d wards, %d contracts, %d liquidations\n",
				sum.Users, sum.Wards, sum.Contracts, sum.Liquidations)
			return nil
		},
	}
}

func numberCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "number",
		Short: "Contract number helpers",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "explain <contract-number>",
		Short: "Break a contract number into its parts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parts, err := contracts.ParseContractNumber(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), parts)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "Sequence:\t%d\n", parts.Sequence)
			fmt.Fprintf(tw, "Year:\t20%02d\n", parts.Year)
			fmt.Fprintf(tw, "Ward code:\t%s\n", parts.WardCode)
			for _, kind := range []contracts.LiquidationKind{contracts.LiquidationComplete, contracts.LiquidationCancel} {
				if n, err := contracts.LiquidationNumber(args[0], kind); err == nil {
					fmt.Fprintf(tw, "%s:\t%s\n", kind, n)
				}
			}
			return tw.Flush()
		},
	})
	return cmd
}
