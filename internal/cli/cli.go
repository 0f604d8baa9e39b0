package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"ordertrack/internal/service"
	"ordertrack/internal/util"

	"go.uber.org/zap"
)

// CLI is the interactive menu over the order service. It only parses input
// and renders output; every rule lives in the service and the store.
type CLI struct {
	svc       *service.OrderService
	in        *bufio.Scanner
	out       io.Writer
	listLimit int
	logger    *zap.Logger
}

// New creates a CLI bound to the given input and output streams.
func New(svc *service.OrderService, in io.Reader, out io.Writer, listLimit int) *CLI {
	return &CLI{
		svc:       svc,
		in:        bufio.NewScanner(in),
		out:       out,
		listLimit: listLimit,
		logger:    util.GetLogger(),
	}
}

// Run drives the menu loop until the user exits or input ends. Errors from
// single operations are printed and the loop continues; only the exit
// choice or closed input stops it.
func (c *CLI) Run(ctx context.Context) error {
	for {
		fmt.Fprintln(c.out, "\n--- Order System ---")
		fmt.Fprintln(c.out, "1. List Products")
		fmt.Fprintln(c.out, "2. List Orders")
		fmt.Fprintln(c.out, "3. Create Order")
		fmt.Fprintln(c.out, "4. View Order Details")
		fmt.Fprintln(c.out, "5. Update Order Status")
		fmt.Fprintln(c.out, "6. Delete Order")
		fmt.Fprintln(c.out, "0. Exit")

		choice, ok := c.prompt("Select: ")
		if !ok {
			return nil
		}

		var err error
		switch choice {
		case "1":
			err = c.listProducts(ctx)
		case "2":
			err = c.listOrders(ctx)
		case "3":
			err = c.createOrder(ctx)
		case "4":
			err = c.viewOrder(ctx)
		case "5":
			err = c.updateStatus(ctx)
		case "6":
			err = c.deleteOrder(ctx)
		case "0":
			fmt.Fprintln(c.out, "Goodbye.")
			return nil
		default:
			fmt.Fprintln(c.out, "Invalid option.")
		}

		if err != nil {
			c.logger.Error("Operation failed", zap.String("choice", choice), zap.Error(err))
			fmt.Fprintf(c.out, "Error: %v\n", err)
		}
	}
}

func (c *CLI) prompt(msg string) (string, bool) {
	fmt.Fprint(c.out, msg)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *CLI) promptInt(msg string) (int64, bool) {
	for {
		val, ok := c.prompt(msg)
		if !ok {
			return 0, false
		}
		n, err := strconv.ParseInt(val, 10, 64)
		if err == nil && n >= 0 {
			return n, true
		}
		fmt.Fprintln(c.out, ">> Invalid integer. Try again.")
	}
}

func (c *CLI) listProducts(ctx context.Context) error {
	products, err := c.svc.ListProducts(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSKU\tPRICE\tNAME")
	for _, p := range products {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.ID, p.SKU, FormatCurrency(p.Price), p.Name)
	}
	return w.Flush()
}

func (c *CLI) listOrders(ctx context.Context) error {
	orders, err := c.svc.ListOrders(ctx, c.listLimit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tTOTAL\tCUSTOMER")
	for _, o := range orders {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", o.ID, o.Status, FormatCurrency(o.Total), o.CustomerName)
	}
	return w.Flush()
}

func (c *CLI) createOrder(ctx context.Context) error {
	custID, ok := c.promptInt("Customer ID: ")
	if !ok {
		return nil
	}

	customer, err := c.svc.GetCustomer(ctx, custID)
	if err != nil {
		return err
	}
	if customer == nil {
		fmt.Fprintln(c.out, ">> Customer not found.")
		return nil
	}

	var items []service.OrderItemInput
	fmt.Fprintln(c.out, "Enter items (Product ID, Quantity). Empty line to finish.")
	for {
		line, ok := c.prompt("PID, QTY: ")
		if !ok || line == "" {
			break
		}
		pid, qty, err := ParseItemLine(line)
		if err != nil {
			fmt.Fprintf(c.out, ">> %v\n", err)
			continue
		}
		if qty <= 0 {
			fmt.Fprintln(c.out, ">> Quantity must be positive.")
			continue
		}
		items = append(items, service.OrderItemInput{ProductID: pid, Quantity: qty})
	}

	if len(items) == 0 {
		fmt.Fprintln(c.out, ">> Order cancelled (no items).")
		return nil
	}

	orderID, err := c.svc.CreateOrder(ctx, custID, items)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, ">> Order created successfully! ID: %d\n", orderID)
	return nil
}

func (c *CLI) viewOrder(ctx context.Context) error {
	orderID, ok := c.promptInt("Order ID: ")
	if !ok {
		return nil
	}

	order, err := c.svc.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		fmt.Fprintln(c.out, ">> Order not found.")
		return nil
	}

	fmt.Fprintf(c.out, "\nOrder #%d [%s]\n", order.ID, strings.ToUpper(order.Status))
	fmt.Fprintf(c.out, "Date: %s\n", order.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(c.out, "Total: %s\n", FormatCurrency(order.Total))
	fmt.Fprintln(c.out, "Line Items:")
	for _, item := range order.Items {
		fmt.Fprintf(c.out, " - %s x%d @ %s = %s\n",
			item.ProductName, item.Quantity,
			FormatCurrency(item.UnitPrice), FormatCurrency(item.LineTotal))
	}
	return nil
}

func (c *CLI) updateStatus(ctx context.Context) error {
	orderID, ok := c.promptInt("Order ID: ")
	if !ok {
		return nil
	}
	status, ok := c.prompt("New Status (pending/processing/shipped/cancelled/completed): ")
	if !ok {
		return nil
	}

	updated, err := c.svc.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return err
	}
	if updated {
		fmt.Fprintln(c.out, ">> Status updated.")
	} else {
		fmt.Fprintln(c.out, ">> Order not found.")
	}
	return nil
}

func (c *CLI) deleteOrder(ctx context.Context) error {
	orderID, ok := c.promptInt("Order ID: ")
	if !ok {
		return nil
	}

	deleted, err := c.svc.DeleteOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if deleted {
		fmt.Fprintln(c.out, ">> Order deleted.")
	} else {
		fmt.Fprintln(c.out, ">> Order not found.")
	}
	return nil
}
