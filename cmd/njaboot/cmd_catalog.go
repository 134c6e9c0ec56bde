package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"njaboot/internal/domain"
	"njaboot/internal/format"

	"github.com/spf13/cobra"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List the catalog with prices and stock levels",
	Args:  cobra.NoArgs,
	RunE:  runProducts,
}

var loyaltyCmd = &cobra.Command{
	Use:   "loyalty [points]",
	Short: "Show the loyalty program or the tier reached with a point balance",
	Long: `Without argument, prints every tier with its benefits. With a point
balance, prints the tier it reaches and the progress toward the next one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLoyalty,
}

func runProducts(cmd *cobra.Command, args []string) error {
	cat, err := env.Catalog()
	if err != nil {
		return err
	}

	manager := env.session.IsManager()
	headers := []string{"ID", "Produit", "Unité", "Prix"}
	if manager {
		headers = append(headers, "Stock", "État")
	}

	rows := make([][]string, 0, cat.Len())
	for _, p := range cat.Products() {
		row := []string{p.ID, format.Truncate(p.Name, nameWidth), p.Unit, format.Currency(p.Price)}
		if manager {
			badge := format.StockStatus(p.Stock, p.MinStock)
			row = append(row, strconv.Itoa(p.Stock), badgeStyle(badge.Class).Render(badge.Label))
		}
		rows = append(rows, row)
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows))
	return nil
}

func runLoyalty(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) == 1 {
		points, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || points < 0 {
			return fmt.Errorf("invalid point balance %q", args[0])
		}
		printTier(out, points)
		return nil
	}

	for _, t := range domain.Tiers() {
		fmt.Fprintf(out, "%s (dès %d points)\n", titleStyle.Render(t.Level), t.MinPoints)
		for _, b := range t.Benefits {
			fmt.Fprintf(out, "  • %s\n", b)
		}
	}
	return nil
}

func printTier(out io.Writer, points int64) {
	t := domain.TierFor(points)
	fmt.Fprintf(out, "Niveau %s, %d points\n", titleStyle.Render(t.Level), points)
	if t.IsMax() {
		fmt.Fprintln(out, "Niveau maximum atteint.")
	} else {
		fmt.Fprintf(out, "%s %.0f%%, encore %d points pour %s\n", progressBar(t.Progress), t.Progress, t.PointsToNext, t.NextLevel)
	}
	fmt.Fprintf(out, "Avantages : %s\n", strings.Join(t.Benefits, ", "))
}

// progressBar draws percent (0-100) as a fixed-width bar.
func progressBar(percent float64) string {
	const width = 20
	filled := int(percent / 100 * width)
	filled = max(0, min(width, filled))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}
