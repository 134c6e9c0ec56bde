package main

import (
	"fmt"
	"strconv"

	"njaboot/internal/domain"
	"njaboot/internal/format"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const nameWidth = 28

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage the shopping cart",
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id> [quantity]",
	Short: "Add a product (quantity defaults to 1)",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runCartAdd,
}

var cartSetCmd = &cobra.Command{
	Use:   "set <product-id> <quantity>",
	Short: "Set the quantity of a product already in the cart (0 removes it)",
	Args:  cobra.ExactArgs(2),
	RunE:  runCartSet,
}

var cartRemoveCmd = &cobra.Command{
	Use:     "rm <product-id>",
	Aliases: []string{"remove"},
	Short:   "Remove a product from the cart",
	Args:    cobra.ExactArgs(1),
	RunE:    runCartRemove,
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	Args:  cobra.NoArgs,
	RunE:  runCartClear,
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List the cart with prices and the points it earns",
	Args:  cobra.NoArgs,
	RunE:  runCartShow,
}

func runCartAdd(cmd *cobra.Command, args []string) error {
	qty := 1
	if len(args) == 2 {
		n, err := parseQuantity(args[1])
		if err != nil {
			return err
		}
		if n <= 0 {
			return fmt.Errorf("quantity must be positive, got %d", n)
		}
		qty = n
	}
	if c, err := env.Catalog(); err == nil {
		if _, ok := c.Product(args[0]); !ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "attention : %q n'est pas au catalogue\n", args[0])
		}
	}

	env.cart.AddItem(cmd.Context(), args[0], qty)
	fmt.Fprintf(cmd.OutOrStdout(), "%s : %d dans le panier\n", args[0], env.cart.Quantity(args[0]))
	return nil
}

func runCartSet(cmd *cobra.Command, args []string) error {
	qty, err := parseQuantity(args[1])
	if err != nil {
		return err
	}
	env.cart.UpdateQuantity(cmd.Context(), args[0], qty)
	fmt.Fprintf(cmd.OutOrStdout(), "%s : %d dans le panier\n", args[0], env.cart.Quantity(args[0]))
	return nil
}

func runCartRemove(cmd *cobra.Command, args []string) error {
	env.cart.RemoveItem(cmd.Context(), args[0])
	fmt.Fprintf(cmd.OutOrStdout(), "%s retiré du panier\n", args[0])
	return nil
}

func runCartClear(cmd *cobra.Command, args []string) error {
	env.cart.Clear(cmd.Context())
	fmt.Fprintln(cmd.OutOrStdout(), "Panier vidé.")
	return nil
}

func runCartShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	lines := env.cart.Lines()
	if len(lines) == 0 {
		fmt.Fprintln(out, "Votre panier est vide.")
		return nil
	}

	var prices domain.PriceLookup = domain.Prices{}
	cat, err := env.Catalog()
	if err != nil {
		env.log.Warn(cmd.Context(), "catalog unavailable, prices omitted", err)
	} else {
		prices = cat
	}

	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		name := l.ProductID
		unitPrice, lineTotal := "-", "-"
		if cat != nil {
			if p, ok := cat.Product(l.ProductID); ok {
				name = p.Name
			}
		}
		if price, ok := prices.PriceOf(l.ProductID); ok {
			unitPrice = format.Currency(price)
			lineTotal = format.Currency(price.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
		rows = append(rows, []string{format.Truncate(name, nameWidth), strconv.Itoa(l.Quantity), unitPrice, lineTotal})
	}
	fmt.Fprintln(out, renderTable([]string{"Produit", "Qté", "Prix", "Total"}, rows))

	total := env.cart.Total(prices)
	fmt.Fprintf(out, "%s, %s\n", plural(env.cart.Len(), "produit"), plural(env.cart.ItemCount(), "article"))
	fmt.Fprintf(out, "%s %s\n", titleStyle.Render("Total :"), format.Currency(total))
	if pts := domain.PointsEarned(total); pts > 0 {
		fmt.Fprintf(out, "Points fidélité gagnés : %d\n", pts)
	}
	return nil
}

// plural appends "s" to word for counts above one, as French does.
func plural(n int, word string) string {
	if n > 1 {
		word += "s"
	}
	return fmt.Sprintf("%d %s", n, word)
}

func parseQuantity(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	return n, nil
}
