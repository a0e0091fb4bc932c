package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/brmiles/milhas-radar/internal/common"
	"github.com/brmiles/milhas-radar/internal/models"
)

type addCmd struct {
	owner   string
	program string
	qty     int64
	cpm     float64
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a lot of miles to the portfolio" }
func (*addCmd) Usage() string {
	return `add -owner <id> -program <name> -qty <miles> -cpm <paid per thousand>

  Records one acquisition of miles. The total cost is derived from the cpm
  paid, and the cost per thousand is fixed at creation: it is never
  recomputed against later market prices.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.owner, "owner", "", "Owner id (required)")
	f.StringVar(&c.program, "program", "", "Loyalty program, free text accepted (required)")
	f.Int64Var(&c.qty, "qty", 0, "Quantity of miles (required)")
	f.Float64Var(&c.cpm, "cpm", 0, "Price paid per thousand miles (required)")
}

func (c *addCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.owner == "" || c.program == "" || c.qty <= 0 || c.cpm < 0 {
		fmt.Fprintln(os.Stderr, "Error: -owner, -program, -qty, and -cpm are required.")
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	costTotal := float64(c.qty) / 1000 * c.cpm
	lot, err := models.NewLot(c.owner, c.program, c.qty, costTotal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	lot, err = a.LotStore.Add(ctx, lot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Lot %d added: %s %s at %s/thousand (%s total)\n",
		lot.ID, common.FormatPoints(lot.Quantity), lot.Program.DisplayName(),
		common.FormatBRL(lot.CostPerThousand), common.FormatBRL(lot.CostTotal))
	return subcommands.ExitSuccess
}

type listCmd struct {
	owner string
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "value the portfolio at current market prices" }
func (*listCmd) Usage() string {
	return `list -owner <id>

  Prints every lot valued at the best available market price, with profit and
  margin per lot and the aggregate totals. Programs with no quote yet are
  marked as awaiting data rather than valued at zero silently.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.owner, "owner", "", "Owner id (required)")
}

func (c *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.owner == "" {
		fmt.Fprintln(os.Stderr, "Error: -owner is required.")
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	lots, err := a.LotStore.List(ctx, c.owner)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(lots) == 0 {
		fmt.Println("Portfolio is empty.")
		return subcommands.ExitSuccess
	}

	valuation, err := a.Valuator.Valuate(ctx, lots)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROGRAM\tQTY\tCPM PAID\tCOST\tBEST QUOTE\tVALUE\tPROFIT\tMARGIN")
	for _, lv := range valuation.Lots {
		quote := "awaiting quote"
		value := "-"
		profit := "-"
		margin := "-"
		if lv.Snapshot.HasPrice() {
			quote = fmt.Sprintf("%s (%s)", common.FormatBRL(lv.Snapshot.BestPrice), lv.Snapshot.Source)
			value = common.FormatBRL(lv.MarketValue)
			profit = common.FormatBRL(lv.Profit)
			margin = common.FormatSignedPct(lv.MarginPct)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			lv.Lot.ID, lv.Lot.Program.DisplayName(), common.FormatPoints(lv.Lot.Quantity),
			common.FormatBRL(lv.Lot.CostPerThousand), common.FormatBRL(lv.Lot.CostTotal),
			quote, value, profit, margin)
	}
	w.Flush()

	fmt.Printf("\nInvested: %s   Market value: %s   Profit: %s\n",
		common.FormatBRL(valuation.TotalCost),
		common.FormatBRL(valuation.TotalValue),
		common.FormatBRL(valuation.TotalProfit))
	return subcommands.ExitSuccess
}

type rmCmd struct {
	id uint64
}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "remove a lot from the portfolio" }
func (*rmCmd) Usage() string {
	return `rm -id <lot id>

  Deletes one lot. Lots are never edited in place; to correct a mistake,
  remove the lot and add it again.
`
}

func (c *rmCmd) SetFlags(f *flag.FlagSet) {
	f.Uint64Var(&c.id, "id", 0, "Lot id to remove (required)")
}

func (c *rmCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == 0 {
		fmt.Fprintln(os.Stderr, "Error: -id is required.")
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if err := a.LotStore.Delete(ctx, c.id); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Lot %d removed.\n", c.id)
	return subcommands.ExitSuccess
}
