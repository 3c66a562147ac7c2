// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/wangtaoking1/shopdesk/app"
	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/mobile"
	"github.com/wangtaoking1/shopdesk/model"
	"github.com/wangtaoking1/shopdesk/session"
)

func mobileCommands(opts *Options) []app.Command {
	return []app.Command{
		app.NewCommand("login", "Sign in to the mobile api and keep the token",
			app.WithCmdArgs("EMAIL PASSWORD", cobra.ExactArgs(2)),
			app.WithCmdRunFunc(login(opts))),
		app.NewCommand("logout", "Sign out of the mobile api",
			app.WithCmdRunFunc(logout(opts))),
		app.NewCommand("deliveries", "List orders waiting for a delivery partner",
			app.WithCmdRunFunc(listDeliveries(opts))),
		app.NewCommand("accept", "Accept a delivery as the signed in partner",
			app.WithCmdArgs("ID", cobra.ExactArgs(1)),
			app.WithCmdRunFunc(acceptDelivery(opts))),
		app.NewCommand("address", "Look up an address the way the address field does",
			app.WithCmdArgs("QUERY", cobra.MinimumNArgs(1)),
			app.WithCmdRunFunc(searchAddress(opts))),
	}
}

// withMobile runs fn with an api client whose token lives in the
// configured session store.
func withMobile(opts *Options, fn func(ctx context.Context, cli *mobile.Client) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()

	tokens, err := session.New(ctx, opts.Session)
	if err != nil {
		return err
	}
	cli, err := mobile.NewClient(opts.API, tokens)
	if err != nil {
		return err
	}

	return fn(ctx, cli)
}

func login(opts *Options) app.CommandRunFunc {
	return func(_ string, args []string) error {
		return withMobile(opts, func(ctx context.Context, cli *mobile.Client) error {
			res, err := cli.Login(ctx, mobile.Credentials{Email: args[0], Password: args[1]})
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Signed in as %s (%s)\n", res.User.Name, res.User.Role)

			return nil
		})
	}
}

func logout(opts *Options) app.CommandRunFunc {
	return func(string, []string) error {
		return withMobile(opts, func(ctx context.Context, cli *mobile.Client) error {
			return cli.Logout(ctx)
		})
	}
}

func listDeliveries(opts *Options) app.CommandRunFunc {
	return func(string, []string) error {
		return withMobile(opts, func(ctx context.Context, cli *mobile.Client) error {
			orders, err := cli.AvailableDeliveries(ctx)
			if err != nil {
				return err
			}

			table := newTable("ID", "CUSTOMER", "ADDRESS", "TOTAL")
			for _, o := range orders {
				table.AddRow(o.ID, o.CustomerName, o.Address, money(o.Total))
			}
			printTable(table)

			return nil
		})
	}
}

func acceptDelivery(opts *Options) app.CommandRunFunc {
	return func(_ string, args []string) error {
		return withMobile(opts, func(ctx context.Context, cli *mobile.Client) error {
			order, err := cli.AcceptDelivery(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Order %s is now %s\n", order.ID, order.Status)

			return nil
		})
	}
}

type searchResult struct {
	addresses []model.Address
	err       error
}

// searchAddress feeds the query one character at a time through the
// debounced searcher, so only the complete query reaches the server.
func searchAddress(opts *Options) app.CommandRunFunc {
	return func(_ string, args []string) error {
		query := strings.Join(args, " ")
		searchOpts := mobile.DefaultSearchOptions()
		if utf8.RuneCountInString(query) < searchOpts.MinLength {
			return errors.Errorf("query must have at least %d characters", searchOpts.MinLength)
		}

		return withMobile(opts, func(ctx context.Context, cli *mobile.Client) error {
			results := make(chan searchResult, 1)
			searcher := mobile.NewAddressSearcher(cli, searchOpts, func(addresses []model.Address, err error) {
				select {
				case results <- searchResult{addresses: addresses, err: err}:
				default:
				}
			})
			defer searcher.Close()

			var typed strings.Builder
			for _, r := range query {
				typed.WriteRune(r)
				searcher.Query(ctx, typed.String())
				time.Sleep(searchOpts.Wait / 10)
			}
			// drop the empty answers to the first few characters
			select {
			case <-results:
			default:
			}

			select {
			case res := <-results:
				if res.err != nil {
					return res.err
				}
				table := newTable("LABEL", "ADDRESS", "LAT", "LNG")
				for _, a := range res.addresses {
					table.AddRow(a.Label, a.Line, a.Latitude, a.Longitude)
				}
				printTable(table)

				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}
}
