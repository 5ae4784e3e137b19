package main

import (
	"encoding/base64"
	"fmt"
	"net/url"

	httpinterface "github.com/tswap-network/tswap-daemon/internal/interfaces/http"
	"github.com/urfave/cli/v2"
)

var tradeFlags = []cli.Flag{
	addressFlag,
	mintFlag,
	&cli.StringFlag{
		Name:     "taker",
		Usage:    "the base58 address of the taker",
		Required: true,
	},
	&cli.StringFlag{
		Name:  "taker_broker",
		Usage: "the account receiving the taker broker fee",
	},
	&cli.StringFlag{
		Name:  "cosigner",
		Usage: "the cosigner of the pool, if any",
	},
	&cli.UintFlag{
		Name:  "royalty_pct",
		Usage: "the share of optional royalties to pay",
	},
	&cli.StringFlag{
		Name:  "authorization",
		Usage: "base64 authorization payload passed to the token transfer",
	},
}

var (
	buy = cli.Command{
		Name:  "buy",
		Usage: "buy an nft from an nft or trade pool",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "max_price",
				Usage:    "the max price in SOL, fees excluded",
				Required: true,
			},
		}, tradeFlags...),
		Action: buyAction,
	}
	sell = cli.Command{
		Name:  "sell",
		Usage: "sell an nft to a token or trade pool",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "min_price",
				Usage:    "the min price in SOL, fees excluded",
				Required: true,
			},
		}, tradeFlags...),
		Action: sellAction,
	}
	trades = cli.Command{
		Name:  "trades",
		Usage: "list trades, optionally filtered by pool",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "pool",
				Usage: "the base58 address of the pool",
			},
			&cli.StringFlag{
				Name:  "id",
				Usage: "the id of a single trade",
			},
		},
		Action: tradesAction,
	}
)

func buyAction(ctx *cli.Context) error {
	maxPrice, err := solToLamports(ctx.String("max_price"))
	if err != nil {
		return err
	}
	return trade(ctx, "buy", func(req httpinterface.TradeRequest) interface{} {
		return httpinterface.BuyRequest{TradeRequest: req, MaxPrice: maxPrice}
	})
}

func sellAction(ctx *cli.Context) error {
	minPrice, err := solToLamports(ctx.String("min_price"))
	if err != nil {
		return err
	}
	return trade(ctx, "sell", func(req httpinterface.TradeRequest) interface{} {
		return httpinterface.SellRequest{TradeRequest: req, MinPrice: minPrice}
	})
}

func trade(
	ctx *cli.Context, side string,
	makeReq func(httpinterface.TradeRequest) interface{},
) error {
	client, err := getTradeClient()
	if err != nil {
		return err
	}
	addr, err := parseKey(ctx.String("address"), "pool address")
	if err != nil {
		return err
	}

	// The pool accounts are part of the request, as the taker would pass
	// them along with the instruction.
	var info httpinterface.Pool
	if err := client.get(fmt.Sprintf("/v1/pools/%s", addr), &info); err != nil {
		return err
	}

	req := httpinterface.TradeRequest{
		Owner:        info.Owner,
		RentPayer:    info.RentPayer,
		SharedEscrow: info.SharedEscrow,
	}
	if req.Taker, err = parseKey(ctx.String("taker"), "taker"); err != nil {
		return err
	}
	if req.Mint, err = parseKey(ctx.String("mint"), "mint"); err != nil {
		return err
	}
	if req.TakerBroker, err = parseOptionalKey(
		ctx.String("taker_broker"), "taker broker",
	); err != nil {
		return err
	}
	if req.Cosigner, err = parseOptionalKey(ctx.String("cosigner"), "cosigner"); err != nil {
		return err
	}
	if ctx.IsSet("royalty_pct") {
		pct := uint16(ctx.Uint("royalty_pct"))
		req.OptionalRoyaltyPct = &pct
	}
	if auth := ctx.String("authorization"); auth != "" {
		if req.Authorization, err = base64.StdEncoding.DecodeString(auth); err != nil {
			return fmt.Errorf("invalid authorization: %s", err)
		}
	}

	var resp httpinterface.Trade
	if err := client.post(
		fmt.Sprintf("/v1/pools/%s/%s", addr, side), makeReq(req), &resp,
	); err != nil {
		return err
	}
	printRespJSON(resp)
	return nil
}

func tradesAction(ctx *cli.Context) error {
	client, err := getTradeClient()
	if err != nil {
		return err
	}

	if id := ctx.String("id"); id != "" {
		var resp httpinterface.Trade
		if err := client.get("/v1/trades/"+url.PathEscape(id), &resp); err != nil {
			return err
		}
		printRespJSON(resp)
		return nil
	}

	path := "/v1/trades"
	if poolAddr := ctx.String("pool"); poolAddr != "" {
		if _, err := parseKey(poolAddr, "pool"); err != nil {
			return err
		}
		path += "?pool=" + url.QueryEscape(poolAddr)
	}

	var resp []httpinterface.Trade
	if err := client.get(path, &resp); err != nil {
		return err
	}
	printRespJSON(resp)
	return nil
}
