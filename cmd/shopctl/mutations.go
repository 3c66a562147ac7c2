// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wangtaoking1/shopdesk/app"
	"github.com/wangtaoking1/shopdesk/console"
	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/flag"
	"github.com/wangtaoking1/shopdesk/model"
)

func mutationCommands(opts *Options) []app.Command {
	return []app.Command{
		brandCreateCommand(opts),
		app.NewCommand("order-status", "Move an order to another status",
			app.WithCmdArgs("ID STATUS", cobra.ExactArgs(2)),
			app.WithCmdRunFunc(updateOrderStatus(opts))),
		ticketRespondCommand(opts),
		app.NewCommand("pricing-quote", "Quote an order against the live pricing configuration",
			app.WithCmdArgs("DISTANCE_KM SUBTOTAL", cobra.ExactArgs(2)),
			app.WithCmdRunFunc(quotePricing(opts))),
	}
}

type brandCreateOptions struct {
	Description string `json:"description" mapstructure:"description"`
	Logo        string `json:"logo"        mapstructure:"logo"`
	Inactive    bool   `json:"inactive"    mapstructure:"inactive"`
}

func (o *brandCreateOptions) Flags() (fss flag.NamedFlagSets) {
	fs := fss.FlagSet("brand")
	fs.StringVar(&o.Description, "description", o.Description, "Description of the brand.")
	fs.StringVar(&o.Logo, "logo", o.Logo, "Image `FILE` used as the brand logo.")
	fs.BoolVar(&o.Inactive, "inactive", o.Inactive, "Create the brand hidden from customers.")

	return fss
}

func (o *brandCreateOptions) Validate() []error {
	return nil
}

func brandCreateCommand(opts *Options) app.Command {
	cmdOpts := &brandCreateOptions{}

	return app.NewCommand("brand-create", "Create a product brand",
		app.WithCmdOptions(cmdOpts),
		app.WithCmdArgs("NAME", cobra.ExactArgs(1)),
		app.WithCmdRunFunc(func(_ string, args []string) error {
			form := console.BrandForm{
				Name:        args[0],
				Description: cmdOpts.Description,
				Active:      !cmdOpts.Inactive,
			}
			if cmdOpts.Logo != "" {
				logo, err := readImage(cmdOpts.Logo)
				if err != nil {
					return err
				}
				form.Logo = logo
			}

			return withConsole(opts, func(ctx context.Context, c *adminConsole) error {
				if _, err := c.open(ctx, "brands"); err != nil {
					return err
				}

				return c.await(ctx, func(ctx context.Context) error {
					return c.workspace.Brands.Create(ctx, form)
				})
			})
		}),
	)
}

func readImage(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "open logo %s", path)
	}
	defer f.Close()

	return console.EncodeImage(f)
}

func updateOrderStatus(opts *Options) app.CommandRunFunc {
	return func(_ string, args []string) error {
		id, status := args[0], model.OrderStatus(args[1])
		if !status.Valid() {
			return errors.Errorf("%q is not an order status", args[1])
		}

		return withConsole(opts, func(ctx context.Context, c *adminConsole) error {
			if _, err := c.open(ctx, "orders"); err != nil {
				return err
			}

			return c.await(ctx, func(ctx context.Context) error {
				return c.workspace.Orders.UpdateStatus(ctx, id, status)
			})
		})
	}
}

type ticketRespondOptions struct {
	Status string `json:"status" mapstructure:"status"`
}

func (o *ticketRespondOptions) Flags() (fss flag.NamedFlagSets) {
	fss.FlagSet("ticket").StringVar(&o.Status, "status", o.Status,
		"Move the ticket to this status, e.g. resolved.")

	return fss
}

func (o *ticketRespondOptions) Validate() []error {
	return nil
}

func ticketRespondCommand(opts *Options) app.Command {
	cmdOpts := &ticketRespondOptions{}

	return app.NewCommand("ticket-respond", "Answer a help ticket",
		app.WithCmdOptions(cmdOpts),
		app.WithCmdArgs("ID MESSAGE", cobra.ExactArgs(2)),
		app.WithCmdRunFunc(func(_ string, args []string) error {
			return withConsole(opts, func(ctx context.Context, c *adminConsole) error {
				if _, err := c.open(ctx, "tickets"); err != nil {
					return err
				}

				return c.await(ctx, func(ctx context.Context) error {
					return c.workspace.Tickets.Respond(ctx, args[0], args[1], model.TicketStatus(cmdOpts.Status))
				})
			})
		}),
	)
}

func quotePricing(opts *Options) app.CommandRunFunc {
	return func(_ string, args []string) error {
		distance, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return errors.Wrapf(err, "parse distance %q", args[0])
		}
		subtotal, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return errors.Wrapf(err, "parse subtotal %q", args[1])
		}

		return withConsole(opts, func(ctx context.Context, c *adminConsole) error {
			if _, err := c.open(ctx, "pricing"); err != nil {
				return err
			}

			q := c.workspace.Pricing.Simulate(distance, subtotal)
			table := newTable("DISTANCE", "SUBTOTAL", "DELIVERY", "SERVICE", "TOTAL", "BELOW MINIMUM")
			table.AddRow(q.DistanceKm, money(q.Subtotal), money(q.DeliveryFee), money(q.ServiceFee),
				money(q.Total), q.BelowMinimum)
			printTable(table)

			return nil
		})
	}
}
