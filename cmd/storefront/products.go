package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"Storefront/internal/catalog"
)

type productsOpts struct {
	search     string
	minPrice   string
	maxPrice   string
	categories []string
	sort       string
	file       string
	asJSON     bool
}

func newProductsCmd() *cobra.Command {
	var o productsOpts
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List catalog products through the storefront filter",
		Example: `  storefront products --q dress --sort price-low
  storefront products --category Accessories --max 100 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProducts(cmd.Context(), cmd.OutOrStdout(), o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.search, "q", "", "case-insensitive match on name or category")
	f.StringVar(&o.minPrice, "min", "", "minimum price, e.g. 49.99")
	f.StringVar(&o.maxPrice, "max", "", "maximum price, e.g. 150")
	f.StringSliceVar(&o.categories, "category", nil, "category to include (repeatable)")
	f.StringVar(&o.sort, "sort", string(catalog.SortFeatured), "featured|newest|price-low|price-high|rating")
	f.StringVar(&o.file, "catalog-file", "", "YAML catalog to read instead of the built-in one")
	f.BoolVar(&o.asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func runProducts(ctx context.Context, out io.Writer, o productsOpts) error {
	var store catalog.Store = catalog.NewStore()
	if o.file != "" {
		s, err := catalog.LoadFile(o.file)
		if err != nil {
			return err
		}
		store = s
	}

	filter := catalog.DefaultFilter()
	filter.Search = o.search
	filter.Categories = o.categories
	if o.minPrice != "" {
		c, err := catalog.ParsePriceCents(o.minPrice)
		if err != nil {
			return fmt.Errorf("--min: %w", err)
		}
		filter.MinPriceCents = c
	}
	if o.maxPrice != "" {
		c, err := catalog.ParsePriceCents(o.maxPrice)
		if err != nil {
			return fmt.Errorf("--max: %w", err)
		}
		filter = filter.WithMaxPrice(c)
	}

	all, err := store.List(ctx)
	if err != nil {
		return err
	}
	shown := catalog.Apply(all, filter, catalog.ParseSortKey(o.sort))

	if o.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(shown)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tRATING")
	for _, p := range shown {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d.%02d\t%.1f\n",
			p.ID, p.Name, p.Category, p.PriceCents/100, p.PriceCents%100, p.Rating)
	}
	fmt.Fprintf(tw, "\nshowing %d of %d products\n", len(shown), len(all))
	return tw.Flush()
}
