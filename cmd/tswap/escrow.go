package main

import (
	"fmt"

	httpinterface "github.com/tswap-network/tswap-daemon/internal/interfaces/http"
	"github.com/urfave/cli/v2"
)

var escrow = cli.Command{
	Name:  "escrow",
	Usage: "create and manage shared escrows",
	Subcommands: []*cli.Command{
		escrowCreateCmd, escrowInfoCmd, escrowDepositCmd, escrowWithdrawCmd,
		escrowCloseCmd, escrowAttachCmd, escrowDetachCmd,
	},
}

var (
	escrowCreateCmd = &cli.Command{
		Name:  "create",
		Usage: "create a shared escrow",
		Flags: []cli.Flag{
			ownerAddrFlag,
			&cli.UintFlag{
				Name:  "nonce",
				Usage: "the nonce distinguishing the escrows of the same owner",
			},
			&cli.StringFlag{
				Name:  "amount",
				Usage: "the initial deposit in SOL",
				Value: "0",
			},
		},
		Action: escrowCreateAction,
	}
	escrowInfoCmd = &cli.Command{
		Name:   "info",
		Usage:  "get info about a shared escrow",
		Flags:  []cli.Flag{addressFlag},
		Action: escrowInfoAction,
	}
	escrowDepositCmd = &cli.Command{
		Name:   "deposit",
		Usage:  "deposit SOL into a shared escrow",
		Flags:  []cli.Flag{addressFlag, ownerAddrFlag, amountFlag},
		Action: escrowDepositAction,
	}
	escrowWithdrawCmd = &cli.Command{
		Name:   "withdraw",
		Usage:  "withdraw SOL from a shared escrow",
		Flags:  []cli.Flag{addressFlag, ownerAddrFlag, amountFlag},
		Action: escrowWithdrawAction,
	}
	escrowCloseCmd = &cli.Command{
		Name:   "close",
		Usage:  "close a shared escrow with no pools attached",
		Flags:  []cli.Flag{addressFlag, ownerAddrFlag},
		Action: escrowCloseAction,
	}
	escrowAttachCmd = &cli.Command{
		Name:  "attach",
		Usage: "attach a pool to a shared escrow moving its funds",
		Flags: []cli.Flag{
			addressFlag,
			ownerAddrFlag,
			&cli.StringFlag{
				Name:     "pool",
				Usage:    "the base58 address of the pool",
				Required: true,
			},
		},
		Action: escrowAttachAction,
	}
	escrowDetachCmd = &cli.Command{
		Name:  "detach",
		Usage: "detach a pool from a shared escrow moving back the given amount",
		Flags: []cli.Flag{
			addressFlag,
			ownerAddrFlag,
			&cli.StringFlag{
				Name:     "pool",
				Usage:    "the base58 address of the pool",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "amount",
				Usage: "the amount in SOL moved back to the pool",
				Value: "0",
			},
		},
		Action: escrowDetachAction,
	}
)

func escrowCreateAction(ctx *cli.Context) error {
	client, err := getOperatorClient()
	if err != nil {
		return err
	}
	owner, err := getOwner(ctx)
	if err != nil {
		return err
	}
	amount, err := solToLamports(ctx.String("amount"))
	if err != nil {
		return err
	}

	var resp httpinterface.SharedEscrow
	if err := client.post("/v1/escrows", httpinterface.CreateEscrowRequest{
		Owner:  owner,
		Nonce:  uint16(ctx.Uint("nonce")),
		Amount: amount,
	}, &resp); err != nil {
		return err
	}
	printRespJSON(resp)
	return nil
}

func escrowInfoAction(ctx *cli.Context) error {
	client, err := getOperatorClient()
	if err != nil {
		return err
	}
	addr, err := parseKey(ctx.String("address"), "escrow address")
	if err != nil {
		return err
	}

	var resp httpinterface.SharedEscrow
	if err := client.get(fmt.Sprintf("/v1/escrows/%s", addr), &resp); err != nil {
		return err
	}
	printRespJSON(resp)
	return nil
}

func escrowDepositAction(ctx *cli.Context) error {
	return escrowMoveSol(ctx, "deposit")
}

func escrowWithdrawAction(ctx *cli.Context) error {
	return escrowMoveSol(ctx, "withdraw")
}

func escrowMoveSol(ctx *cli.Context, action string) error {
	client, err := getOperatorClient()
	if err != nil {
		return err
	}
	owner, err := getOwner(ctx)
	if err != nil {
		return err
	}
	addr, err := parseKey(ctx.String("address"), "escrow address")
	if err != nil {
		return err
	}
	amount, err := solToLamports(ctx.String("amount"))
	if err != nil {
		return err
	}

	var resp httpinterface.SharedEscrow
	if err := client.post(
		fmt.Sprintf("/v1/escrows/%s/%s", addr, action),
		httpinterface.AmountRequest{Owner: owner, Amount: amount}, &resp,
	); err != nil {
		return err
	}
	printRespJSON(resp)
	return nil
}

func escrowCloseAction(ctx *cli.Context) error {
	client, err := getOperatorClient()
	if err != nil {
		return err
	}
	owner, err := getOwner(ctx)
	if err != nil {
		return err
	}
	addr, err := parseKey(ctx.String("address"), "escrow address")
	if err != nil {
		return err
	}

	var resp httpinterface.Balance
	if err := client.do(
		"DELETE", fmt.Sprintf("/v1/escrows/%s", addr),
		httpinterface.CloseEscrowRequest{Owner: owner}, &resp,
	); err != nil {
		return err
	}
	fmt.Printf("escrow closed, refunded %s SOL\n", lamportsToSol(resp.Balance))
	return nil
}

func escrowAttachAction(ctx *cli.Context) error {
	return escrowPoolAction(ctx, "attach-escrow", 0)
}

func escrowDetachAction(ctx *cli.Context) error {
	amount, err := solToLamports(ctx.String("amount"))
	if err != nil {
		return err
	}
	return escrowPoolAction(ctx, "detach-escrow", amount)
}

func escrowPoolAction(ctx *cli.Context, action string, amount uint64) error {
	client, err := getOperatorClient()
	if err != nil {
		return err
	}
	owner, err := getOwner(ctx)
	if err != nil {
		return err
	}
	addr, err := parseKey(ctx.String("address"), "escrow address")
	if err != nil {
		return err
	}
	poolAddr, err := parseKey(ctx.String("pool"), "pool address")
	if err != nil {
		return err
	}

	var resp httpinterface.Pool
	if err := client.post(
		fmt.Sprintf("/v1/pools/%s/%s", poolAddr, action),
		httpinterface.EscrowRequest{Owner: owner, Escrow: addr, Amount: amount},
		&resp,
	); err != nil {
		return err
	}
	printRespJSON(resp)
	return nil
}
