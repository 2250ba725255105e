package commands

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/landcontract-backend/internal/domain/contracts"
)

const dateLayout = "2006-01-02"

func wardsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wards",
		Short: "List wards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := signedIn(cmd)
			if err != nil {
				return err
			}
			wards, err := core.Services.Contracts.ListWards(ctx)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), wards)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCODE\tNAME")
			for _, w := range wards {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", w.ID, w.Code, w.Name)
			}
			return tw.Flush()
		},
	}
}

func contractsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "contracts",
		Aliases: []string{"contract", "c"},
		Short:   "Create, inspect and settle contracts",
	}
	cmd.AddCommand(
		contractsListCmd(), contractsShowCmd(), contractsCreateCmd(),
		contractsEditCmd(), contractsCancelCmd(), contractsLiquidateCmd(),
	)
	return cmd
}

type filterFlags struct {
	query  string
	status string
	ward   int64
	from   string
	to     string
}

func (f *filterFlags) bind(cmd *cobra.Command, withQuery bool) {
	if withQuery {
		cmd.Flags().StringVarP(&f.query, "query", "q", "", "customer name or contract number contains")
	}
	cmd.Flags().StringVar(&f.status, "status", "", "processing|completed|cancelled")
	cmd.Flags().Int64Var(&f.ward, "ward", 0, "ward id")
	cmd.Flags().StringVar(&f.from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.to, "to", "", "last day, YYYY-MM-DD")
}

func (f *filterFlags) filter() (contracts.Filter, error) {
	loc := core.Ledger.Location()
	out := contracts.Filter{Query: f.query, WardID: f.ward, Location: loc}
	if f.status != "" {
		s, ok := contracts.ParseStatus(f.status)
		if !ok {
			return out, fmt.Errorf("unknown status %q", f.status)
		}
		out.Status = s
	}
	var err error
	if f.from != "" {
		if out.From, err = time.ParseInLocation(dateLayout, f.from, loc); err != nil {
			return out, fmt.Errorf("--from: %w", err)
		}
	}
	if f.to != "" {
		if out.To, err = time.ParseInLocation(dateLayout, f.to, loc); err != nil {
			return out, fmt.Errorf("--to: %w", err)
		}
	}
	return out, nil
}

func contractsListCmd() *cobra.Command {
	var ff filterFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contracts, newest first",
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
			list, err := core.Services.Contracts.List(ctx, f)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), list)
			}
			loc := core.Ledger.Location()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNUMBER\tCUSTOMER\tWARD\tCREATED\tSTATUS")
			for _, c := range list {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n",
					c.ID, c.ContractNumber, c.CustomerName, c.WardID, c.CreatedAt.In(loc).Format(dateLayout), c.Status)
			}
			return tw.Flush()
		},
	}
	ff.bind(cmd, true)
	return cmd
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid contract id %q", raw)
	}
	return id, nil
}

func contractsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a contract with its ward and liquidations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := signedIn(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			d, err := core.Services.Contracts.Get(ctx, id)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), d)
			}
			c := d.Contract
			ward := contracts.UnknownWardName
			if d.Ward != nil {
				ward = d.Ward.Name
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "Number:\t%s\n", c.ContractNumber)
			fmt.Fprintf(tw, "Customer:\t%s\n", c.CustomerName)
			fmt.Fprintf(tw, "Map sheet / plot:\t%d / %d\n", c.MapSheetNumber, c.PlotNumber)
			fmt.Fprintf(tw, "Ward:\t%s\n", ward)
			fmt.Fprintf(tw, "Created:\t%s\n", c.CreatedAt.In(core.Ledger.Location()).Format("2006-01-02 15:04"))
			fmt.Fprintf(tw, "Status:\t%s\n", c.Status)
			if c.CancellationReason != "" {
				fmt.Fprintf(tw, "Cancellation reason:\t%s\n", c.CancellationReason)
			}
			if c.Notes != "" {
				fmt.Fprintf(tw, "Notes:\t%s\n", c.Notes)
			}
			for _, l := range d.Liquidations {
				fmt.Fprintf(tw, "Liquidation:\t%s (%s)\n", l.Number, l.Kind)
			}
			return tw.Flush()
		},
	}
}

func bindDetails(cmd *cobra.Command, d *contracts.Details) {
	cmd.Flags().StringVar(&d.CustomerName, "customer", "", "customer name")
	cmd.Flags().IntVar(&d.MapSheetNumber, "map-sheet", 0, "map sheet number")
	cmd.Flags().IntVar(&d.PlotNumber, "plot", 0, "plot number")
	cmd.Flags().Int64Var(&d.WardID, "ward", 0, "ward id")
	cmd.Flags().StringVar(&d.Notes, "notes", "", "free-form notes")
}

func contractsCreateCmd() *cobra.Command {
	var d contracts.Details
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new contract and assign its number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := signedIn(cmd)
			if err != nil {
				return err
			}
			c, err := core.Services.Contracts.Create(ctx, d)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), c)
			}
			printf(cmd, "Created contract %d: %s\n", c.ID, c.ContractNumber)
			return nil
		},
	}
	bindDetails(cmd, &d)
	for _, name := range []string{"customer", "map-sheet", "plot", "ward"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func contractsEditCmd() *cobra.Command {
	var d contracts.Details
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Replace a contract's editable fields (Admin)",
		Long:  "Unset flags keep their current values.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := signedIn(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			current, err := core.Services.Contracts.Get(ctx, id)
			if err != nil {
				return err
			}
			merged := current.Contract.Details()
			flags := cmd.Flags()
			if flags.Changed("customer") {
				merged.CustomerName = d.CustomerName
			}
			if flags.Changed("map-sheet") {
				merged.MapSheetNumber = d.MapSheetNumber
			}
			if flags.Changed("plot") {
				merged.PlotNumber = d.PlotNumber
			}
			if flags.Changed("ward") {
				merged.WardID = d.WardID
			}
			if flags.Changed("notes") {
				merged.Notes = d.Notes
			}
			c, err := core.Services.Contracts.Update(ctx, id, merged)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), c)
			}
			printf(cmd, "Updated contract %d: %s\n", c.ID, c.ContractNumber)
			return nil
		},
	}
	bindDetails(cmd, &d)
	return cmd
}

func contractsCancelCmd() *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a contract that is still being processed (Admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := signedIn(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := core.Services.Contracts.Cancel(ctx, id, reason)
			if err != nil {
				return err
			}
			printf(cmd, "Contract %s is now %s\n", c.ContractNumber, c.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "cancellation reason, at least 8 characters")
	_ = cmd.MarkFlagRequired("reason")
	return cmd
}

func contractsLiquidateCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "liquidate <id>",
		Short: "Record a liquidation and settle the contract (Admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := signedIn(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			k, ok := contracts.ParseLiquidationKind(kind)
			if !ok {
				return fmt.Errorf("unknown liquidation type %q, want complete or cancel", kind)
			}
			res, err := core.Services.Contracts.Liquidate(ctx, id, k)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), res)
			}
			printf(cmd, "Liquidation %s recorded; contract is now %s\n", res.Liquidation.Number, res.Contract.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "type", "complete", "complete|cancel")
	return cmd
}
