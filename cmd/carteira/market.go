package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/brmiles/milhas-radar/internal/common"
	"github.com/brmiles/milhas-radar/internal/models"
	"github.com/brmiles/milhas-radar/internal/pricing"
)

type quoteCmd struct {
	program string
}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "show the current market view for a program" }
func (*quoteCmd) Usage() string {
	return `quote -program <name>

  Shows the latest scraped quote, the latest peer offer, the movement since
  the previous scrape, and the reconciled best price.
`
}

func (c *quoteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.program, "program", "", "Loyalty program, free text accepted (required)")
}

func (c *quoteCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.program == "" {
		fmt.Fprintln(os.Stderr, "Error: -program is required.")
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	snapshot, err := a.Reconciler.Resolve(ctx, c.program)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Program: %s\n", snapshot.Program.DisplayName())
	if !snapshot.HasPrice() {
		fmt.Println("No quote available yet. Awaiting next scrape.")
		return subcommands.ExitSuccess
	}

	if quote, err := a.QuoteStore.Latest(ctx, c.program); err == nil && quote != nil {
		fmt.Printf("Scraped:  %s/thousand (%d day tenor, %s)\n",
			common.FormatBRL(quote.CPM), quote.TenorDays, quote.RecordedAt.Format("2006-01-02 15:04"))
	}
	if offer, err := a.QuoteStore.LatestOffer(ctx, c.program); err == nil && offer != nil {
		fmt.Printf("Peer:     %s/thousand (%s, %s)\n",
			common.FormatBRL(offer.PricePerThousand), offer.SourceLabel, offer.RecordedAt.Format("2006-01-02 15:04"))
	}
	if delta, err := a.QuoteStore.Delta(ctx, c.program); err == nil && delta != 0 {
		fmt.Printf("Movement: %s since previous scrape\n", common.FormatBRL(delta))
	}
	fmt.Printf("Best:     %s/thousand via %s\n", common.FormatBRL(snapshot.BestPrice), snapshot.Source)
	return subcommands.ExitSuccess
}

type offerCmd struct {
	program   string
	price     float64
	source    string
	note      string
	offerType string
}

func (*offerCmd) Name() string     { return "offer" }
func (*offerCmd) Synopsis() string { return "record a peer-reported price" }
func (*offerCmd) Usage() string {
	return `offer -program <name> -price <per thousand> [-source <label>] [-type BUY|SELL] [-note <text>]

  Appends one peer-observed price to the offer history. History is never
  edited: to correct a bad entry, record a corrective one.
`
}

func (c *offerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.program, "program", "", "Loyalty program (required)")
	f.Float64Var(&c.price, "price", 0, "Observed price per thousand (required)")
	f.StringVar(&c.source, "source", "manual", "Where the price was observed")
	f.StringVar(&c.offerType, "type", "SELL", "Offer side: BUY or SELL")
	f.StringVar(&c.note, "note", "", "Free-text note")
}

func (c *offerCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.program == "" || c.price <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -program and a positive -price are required.")
		return subcommands.ExitUsageError
	}
	offerType := models.OfferType(c.offerType)
	if offerType != models.OfferBuy && offerType != models.OfferSell {
		fmt.Fprintln(os.Stderr, "Error: -type must be BUY or SELL.")
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	offer := models.P2POffer{
		SourceLabel:      c.source,
		Program:          models.CanonicalProgram(c.program),
		OfferType:        offerType,
		PricePerThousand: c.price,
		Note:             c.note,
	}
	if err := a.QuoteStore.RecordOffer(ctx, &offer); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Offer recorded: %s at %s/thousand (%s)\n",
		offer.Program.DisplayName(), common.FormatBRL(offer.PricePerThousand), offer.SourceLabel)
	return subcommands.ExitSuccess
}

type routeCmd struct {
	dest   string
	points int64
	cash   float64
}

func (*routeCmd) Name() string     { return "route" }
func (*routeCmd) Synopsis() string { return "recommend redeeming with points or paying cash" }
func (*routeCmd) Usage() string {
	return `route -dest <program> -points <required> -cash <price>

  Evaluates every known acquisition scenario for the destination program,
  including bonuses spotted in promotion feeds, and recommends the cheaper of
  producing the points or paying the cash price.
`
}

func (c *routeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dest, "dest", "", "Destination loyalty program (required)")
	f.Int64Var(&c.points, "points", 0, "Points required for the redemption (required)")
	f.Float64Var(&c.cash, "cash", 0, "Cash price of the same ticket (required)")
}

func (c *routeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.dest == "" || c.points <= 0 || c.cash <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -dest, -points, and -cash are required.")
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	rec, err := pricing.Optimize(c.dest, c.points, c.cash, a.Scenarios(ctx))
	if errors.Is(err, pricing.ErrNoRoute) {
		fmt.Printf("No acquisition route known for %s: insufficient data.\n",
			models.CanonicalProgram(c.dest).DisplayName())
		return subcommands.ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Cheapest route: %s -> %s at %s/thousand",
		rec.Scenario.SourceProgram.DisplayName(), rec.Destination.DisplayName(),
		common.FormatBRL(rec.CostPerThousand))
	if rec.Scenario.BonusPct > 0 {
		fmt.Printf(" (%.0f%% transfer bonus)", rec.Scenario.BonusPct)
	}
	fmt.Printf("\nProducing %s points costs %s vs %s cash.\n",
		common.FormatPoints(c.points), common.FormatBRL(rec.TotalCost), common.FormatBRL(c.cash))

	switch rec.Action {
	case pricing.ActionRedeemWithPoints:
		fmt.Printf("Recommendation: REDEEM WITH POINTS, saving %s.\n", common.FormatBRL(rec.Savings))
	case pricing.ActionPayCash:
		fmt.Printf("Recommendation: PAY CASH, avoiding a %s loss.\n", common.FormatBRL(rec.AvoidedLoss))
	}
	return subcommands.ExitSuccess
}
