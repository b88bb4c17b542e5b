package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"
	"gopkg.in/yaml.v3"

	"github.com/SzaboCristian/stock-market/internal/models"
	"github.com/SzaboCristian/stock-market/internal/validator"
)

// seedFile is the on-disk layout of a registry seed.
type seedFile struct {
	Stocks []seedStock `yaml:"stocks"`
}

type seedStock struct {
	Symbol         string `yaml:"symbol"`
	Name           string `yaml:"name"`
	Description    string `yaml:"description"`
	Sector         string `yaml:"sector"`
	Industry       string `yaml:"industry"`
	Exchange       string `yaml:"exchange"`
	Currency       string `yaml:"currency"`
	InstrumentType string `yaml:"instrument_type"`
	Website        string `yaml:"website"`
}

// parseSeed decodes a seed document into registry records. Symbols are
// upper-cased and must be valid tickers.
func parseSeed(r io.Reader) ([]models.Stock, error) {
	var doc seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	stocks := make([]models.Stock, 0, len(doc.Stocks))
	for i, s := range doc.Stocks {
		symbol := strings.ToUpper(strings.TrimSpace(s.Symbol))
		if !validator.IsTicker(symbol) {
			return nil, fmt.Errorf("entry %d: invalid ticker %q", i+1, s.Symbol)
		}
		stocks = append(stocks, models.Stock{
			Symbol:         symbol,
			Name:           s.Name,
			Description:    s.Description,
			Sector:         s.Sector,
			Industry:       s.Industry,
			Exchange:       s.Exchange,
			Currency:       s.Currency,
			InstrumentType: s.InstrumentType,
			Website:        s.Website,
		})
	}
	return stocks, nil
}

type seedCmd struct{}

func (*seedCmd) Name() string     { return "seed" }
func (*seedCmd) Synopsis() string { return "register stocks listed in a YAML file" }
func (*seedCmd) Usage() string {
	return `seed <file.yaml>

  Inserts every stock of the file into the registry. Symbols already
  registered are left untouched. No provider lookups are made.
`
}
func (*seedCmd) SetFlags(*flag.FlagSet) {}

func (*seedCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one seed file is required.")
		return subcommands.ExitUsageError
	}

	file, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	stocks, err := parseSeed(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	e, err := openEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	n, err := e.stocks.ImportStocks(ctx, stocks)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%d of %d stocks registered\n", n, len(stocks))
	return subcommands.ExitSuccess
}
