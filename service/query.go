package service

import (
	"fmt"
	"io"
	"strings"

	"autoreview/app/compare"
	"autoreview/app/models"
	"autoreview/app/services"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func (c *cli) searchCommand() *cobra.Command {
	var (
		scope string
		all   bool
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search reviews or cars by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := services.ParseScope(scope)
			if err != nil {
				return err
			}
			svc, closeBackend, err := c.openServices()
			if err != nil {
				return err
			}
			defer closeBackend()

			listing, err := svc.Search.Search(cmd.Context(), sc, strings.Join(args, " "), all)
			if err != nil {
				return err
			}
			printListing(cmd.OutOrStdout(), listing)
			return nil
		},
	}
	cmd.Flags().StringVar(&scope, "scope", string(services.ScopePosts), "collection to search: posts or cars")
	cmd.Flags().BoolVar(&all, "all", false, "list every match instead of the summary")
	return cmd
}

func printListing(w io.Writer, listing services.Listing) {
	if len(listing.Groups) == 0 {
		fmt.Fprintln(w, "No results found")
		if len(listing.Suggestions) > 0 {
			fmt.Fprintf(w, "Did you mean: %s\n", strings.Join(listing.Suggestions, ", "))
		}
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"#", "Name", "Link"})
	for _, g := range listing.Groups {
		for i, hit := range g.Items {
			key := ""
			if i == 0 {
				key = g.Key
			}
			table.Append([]string{key, hit.Name, hit.Path})
		}
	}
	table.Render()

	if listing.Truncated {
		fmt.Fprintf(w, "Showing %d of %d matches, use --all to list every match\n", len(listing.Hits()), listing.Total)
	}
}

func (c *cli) compareCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <first> <second>",
		Short: "Compare two cars side by side",
		Long:  "Each car is named by its id or, ignoring case, by its name.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeBackend, err := c.openServices()
			if err != nil {
				return err
			}
			defer closeBackend()

			cars, err := svc.Content.Cars(cmd.Context())
			if err != nil {
				return err
			}
			view, err := svc.Compare.Compare(cmd.Context(), resolveCar(cars, args[0]), resolveCar(cars, args[1]))
			if err != nil {
				return err
			}
			printComparison(cmd.OutOrStdout(), view.Comparison)
			return nil
		},
	}
}

// resolveCar maps a command line name to a car id. Arguments that match no
// car are returned as they are.
func resolveCar(cars []*models.CarSpec, arg string) string {
	for _, car := range cars {
		if car.ID == arg {
			return arg
		}
	}
	for _, car := range cars {
		if strings.EqualFold(car.Name, arg) {
			return car.ID
		}
	}
	return arg
}

func printComparison(w io.Writer, cmp *compare.Comparison) {
	title := color.New(color.Bold, color.FgHiCyan)
	title.Fprintf(w, "%s vs %s\n", cmp.First.Name, cmp.Second.Name)

	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"", cmp.First.Name, cmp.Second.Name})
	for _, row := range cmp.Rows {
		table.Append([]string{row.Label, row.First, row.Second})
	}
	table.Render()
}
