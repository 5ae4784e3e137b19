package main

import (
	"fmt"

	httpinterface "github.com/tswap-network/tswap-daemon/internal/interfaces/http"
	"github.com/urfave/cli/v2"
)

var account = cli.Command{
	Name:  "account",
	Usage: "inspect or fund account balances",
	Subcommands: []*cli.Command{
		{
			Name:   "info",
			Usage:  "get the balance of an account",
			Flags:  []cli.Flag{addressFlag},
			Action: accountInfoAction,
		},
		{
			Name:   "fund",
			Usage:  "fund an account, if the daemon has the faucet enabled",
			Flags:  []cli.Flag{addressFlag, amountFlag},
			Action: accountFundAction,
		},
	},
}

func accountInfoAction(ctx *cli.Context) error {
	client, err := getTradeClient()
	if err != nil {
		return err
	}
	addr, err := parseKey(ctx.String("address"), "address")
	if err != nil {
		return err
	}

	var resp httpinterface.Balance
	if err := client.get(fmt.Sprintf("/v1/accounts/%s", addr), &resp); err != nil {
		return err
	}
	fmt.Printf("%s: %s SOL\n", resp.Address, lamportsToSol(resp.Balance))
	return nil
}

func accountFundAction(ctx *cli.Context) error {
	client, err := getOperatorClient()
	if err != nil {
		return err
	}
	addr, err := parseKey(ctx.String("address"), "address")
	if err != nil {
		return err
	}
	amount, err := solToLamports(ctx.String("amount"))
	if err != nil {
		return err
	}

	var resp httpinterface.Balance
	if err := client.post(
		fmt.Sprintf("/v1/accounts/%s/fund", addr),
		httpinterface.FundRequest{Amount: amount}, &resp,
	); err != nil {
		return err
	}
	fmt.Printf("%s: %s SOL\n", resp.Address, lamportsToSol(resp.Balance))
	return nil
}
