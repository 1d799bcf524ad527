package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/cafefront/app/models"
	"github.com/shashiranjanraj/cafefront/app/repositories"
	"github.com/shashiranjanraj/cafefront/app/services"
	"github.com/shashiranjanraj/cafefront/config"
	"github.com/shashiranjanraj/cafefront/pkg/apiclient"
)

// cafefront menu: print what can be ordered right now.
var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Print the available menu",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := services.NewCatalogService(repositories.NewMenuRepository(apiclient.NewFromConfig()), 0)
		items, err := catalog.Menu(cmd.Context())
		if err != nil {
			return fmt.Errorf("load menu: %s", apiclient.Message(err))
		}

		currency := config.Currency()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		for _, cat := range services.Categories(services.Available(items)) {
			fmt.Fprintf(w, "%s\n", cat.Name)
			for _, item := range cat.Items {
				fmt.Fprintf(w, "  %d\t%s\t%s\n", item.ID, item.Name, models.FormatMoney(currency, item.Price))
			}
		}
		return w.Flush()
	},
}

// cafefront order 1:2 3: place a guest order.
var orderCmd = &cobra.Command{
	Use:   "order <id[:qty]>...",
	Short: "Place a guest order for the given menu item ids",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		picks, err := parsePicks(args)
		if err != nil {
			return err
		}

		api := apiclient.NewFromConfig()
		catalog := services.NewCatalogService(repositories.NewMenuRepository(api), 0)
		orders := services.NewOrderService(repositories.NewOrderRepository(api))

		items, err := catalog.Menu(cmd.Context())
		if err != nil {
			return fmt.Errorf("load menu: %s", apiclient.Message(err))
		}

		cart, err := buildCart(items, picks)
		if err != nil {
			return err
		}
		total := cart.Total()

		order, err := orders.Place(cmd.Context(), cart)
		if err != nil {
			return fmt.Errorf("Failed to place order: %s", apiclient.Message(err))
		}

		if order.TotalAmount.IsPositive() {
			total = order.TotalAmount
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Order #%d placed. Total: %s\n", order.ID, models.FormatMoney(config.Currency(), total))
		return nil
	},
}

type pick struct {
	id  int
	qty int
}

// parsePicks reads "id" or "id:qty" arguments.
func parsePicks(args []string) ([]pick, error) {
	out := make([]pick, 0, len(args))
	for _, arg := range args {
		idPart, qtyPart, hasQty := strings.Cut(arg, ":")
		id, err := strconv.Atoi(idPart)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid menu item id %q", idPart)
		}
		qty := 1
		if hasQty {
			qty, err = strconv.Atoi(qtyPart)
			if err != nil || qty <= 0 {
				return nil, fmt.Errorf("invalid quantity %q for item %d", qtyPart, id)
			}
		}
		out = append(out, pick{id: id, qty: qty})
	}
	return out, nil
}

func buildCart(menu []models.MenuItem, picks []pick) (*models.Cart, error) {
	available := services.Available(menu)
	cart := &models.Cart{}
	for _, p := range picks {
		for i := 0; i < p.qty; i++ {
			if !cart.AddItem(available, p.id) {
				return nil, fmt.Errorf("menu item %d is not available", p.id)
			}
		}
	}
	return cart, nil
}
