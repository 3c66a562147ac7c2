// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gosuri/uitable"

	"github.com/wangtaoking1/shopdesk/app"
	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/flag"
	"github.com/wangtaoking1/shopdesk/model"
)

func newTable(header ...interface{}) *uitable.Table {
	table := uitable.New()
	table.MaxColWidth = 48
	table.Wrap = true
	table.AddRow(header...)

	return table
}

func printTable(table *uitable.Table) {
	fmt.Fprintln(os.Stdout, table)
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func pageCommands(opts *Options) []app.Command {
	return []app.Command{
		app.NewCommand("brands", "List product brands",
			app.WithCmdRunFunc(listBrands(opts))),
		app.NewCommand("categories", "List product categories",
			app.WithCmdRunFunc(listCategories(opts))),
		ordersCommand(opts),
		app.NewCommand("pricing", "Show the delivery pricing configuration",
			app.WithCmdRunFunc(showPricing(opts))),
		ticketsCommand(opts),
		app.NewCommand("coupons", "List coupons",
			app.WithCmdRunFunc(listCoupons(opts))),
	}
}

func listBrands(opts *Options) app.CommandRunFunc {
	return func(string, []string) error {
		return withConsole(opts, func(ctx context.Context, c *adminConsole) error {
			if _, err := c.open(ctx, "brands"); err != nil {
				return err
			}

			table := newTable("ID", "NAME", "ACTIVE", "DESCRIPTION")
			for _, b := range c.workspace.Brands.Brands() {
				table.AddRow(b.ID, b.Name, b.Active, b.Description)
			}
			printTable(table)

			return nil
		})
	}
}

func listCategories(opts *Options) app.CommandRunFunc {
	return func(string, []string) error {
		return withConsole(opts, func(ctx context.Context, c *adminConsole) error {
			if _, err := c.open(ctx, "categories"); err != nil {
				return err
			}

			table := newTable("ID", "NAME", "PARENT", "ACTIVE")
			for _, cat := range c.workspace.Categories.Categories() {
				table.AddRow(cat.ID, cat.Name, cat.ParentID, cat.Active)
			}
			printTable(table)

			return nil
		})
	}
}

type ordersOptions struct {
	Status string `json:"status" mapstructure:"status"`
}

func (o *ordersOptions) Flags() (fss flag.NamedFlagSets) {
	fss.FlagSet("orders").StringVar(&o.Status, "status", o.Status, "Only list orders in this status.")

	return fss
}

func (o *ordersOptions) Validate() []error {
	if o.Status != "" && !model.OrderStatus(o.Status).Valid() {
		return []error{errors.Errorf("--status %q is not an order status", o.Status)}
	}

	return nil
}

func ordersCommand(opts *Options) app.Command {
	cmdOpts := &ordersOptions{}

	return app.NewCommand("orders", "List orders",
		app.WithCmdOptions(cmdOpts),
		app.WithCmdRunFunc(func(string, []string) error {
			return withConsole(opts, func(ctx context.Context, c *adminConsole) error {
				if _, err := c.open(ctx, "orders"); err != nil {
					return err
				}

				orders := c.workspace.Orders.Orders()
				if cmdOpts.Status != "" {
					orders = c.workspace.Orders.WithStatus(model.OrderStatus(cmdOpts.Status))
				}
				table := newTable("ID", "CUSTOMER", "STATUS", "ITEMS", "TOTAL", "CREATED")
				for _, o := range orders {
					table.AddRow(o.ID, o.CustomerName, o.Status, len(o.Items), money(o.Total),
						o.CreatedAt.Format("2006-01-02 15:04"))
				}
				printTable(table)

				return nil
			})
		}),
	)
}

func showPricing(opts *Options) app.CommandRunFunc {
	return func(string, []string) error {
		return withConsole(opts, func(ctx context.Context, c *adminConsole) error {
			if _, err := c.open(ctx, "pricing"); err != nil {
				return err
			}
			cfg, ok := c.workspace.Pricing.Config()
			if !ok {
				return errors.New("no pricing configuration received")
			}

			table := uitable.New()
			table.RightAlign(0)
			table.Separator = " "
			table.AddRow("baseDeliveryFee:", money(cfg.BaseDeliveryFee))
			table.AddRow("perKmFee:", money(cfg.PerKmFee))
			table.AddRow("serviceFeePercent:", cfg.ServiceFeePercent)
			table.AddRow("surgeMultiplier:", cfg.SurgeMultiplier)
			table.AddRow("freeDeliveryThreshold:", money(cfg.FreeDeliveryThreshold))
			table.AddRow("minOrderAmount:", money(cfg.MinOrderAmount))
			printTable(table)

			return nil
		})
	}
}

type ticketsOptions struct {
	State string `json:"state" mapstructure:"state"`
}

func (o *ticketsOptions) Flags() (fss flag.NamedFlagSets) {
	fss.FlagSet("tickets").StringVar(&o.State, "state", o.State, "Only list open or closed tickets.")

	return fss
}

func (o *ticketsOptions) Validate() []error {
	switch o.State {
	case "", "open", "closed":
		return nil
	default:
		return []error{errors.Errorf("--state must be open or closed, got %q", o.State)}
	}
}

func ticketsCommand(opts *Options) app.Command {
	cmdOpts := &ticketsOptions{}

	return app.NewCommand("tickets", "List help tickets",
		app.WithCmdOptions(cmdOpts),
		app.WithCmdRunFunc(func(string, []string) error {
			return withConsole(opts, func(ctx context.Context, c *adminConsole) error {
				if _, err := c.open(ctx, "tickets"); err != nil {
					return err
				}

				page := c.workspace.Tickets
				tickets := page.Tickets()
				switch cmdOpts.State {
				case "open":
					tickets = page.Open()
				case "closed":
					tickets = page.Closed()
				}
				table := newTable("ID", "USER", "STATUS", "SUBJECT", "LAST RESPONSE")
				for _, t := range tickets {
					table.AddRow(t.ID, t.UserID, t.Status, t.Subject, lastResponse(t))
				}
				printTable(table)

				return nil
			})
		}),
	)
}

func lastResponse(t model.HelpTicket) string {
	if len(t.Responses) == 0 {
		return ""
	}
	r := t.Responses[len(t.Responses)-1]

	return strings.Join([]string{r.Author, r.Message}, ": ")
}

func listCoupons(opts *Options) app.CommandRunFunc {
	return func(string, []string) error {
		return withConsole(opts, func(ctx context.Context, c *adminConsole) error {
			if _, err := c.open(ctx, "coupons"); err != nil {
				return err
			}

			table := newTable("ID", "CODE", "TYPE", "VALUE", "USED", "LIMIT", "ACTIVE")
			for _, cp := range c.workspace.Coupons.Coupons() {
				table.AddRow(cp.ID, cp.Code, cp.DiscountType, cp.Value, cp.Used, cp.UsageLimit, cp.Active)
			}
			printTable(table)

			return nil
		})
	}
}
