package main

import (
	"fmt"
	"net/url"

	"github.com/tswap-network/tswap-daemon/internal/core/domain"
	httpinterface "github.com/tswap-network/tswap-daemon/internal/interfaces/http"
	"github.com/urfave/cli/v2"
)

var pool = cli.Command{
	Name:  "pool",
	Usage: "create, manage and inspect pools",
	Subcommands: []*cli.Command{
		poolCreateCmd, poolEditCmd, poolCloseCmd, poolInfoCmd, poolListCmd,
		poolQuoteCmd, poolDepositSolCmd, poolWithdrawSolCmd, poolDepositNftCmd,
		poolWithdrawNftCmd,
	},
}

var (
	poolCreateCmd = &cli.Command{
		Name:  "create",
		Usage: "create a new pool",
		Flags: []cli.Flag{
			ownerAddrFlag,
			&cli.StringFlag{
				Name:  "rent_payer",
				Usage: "the account paying the pool bond, defaults to owner",
			},
			&cli.StringFlag{
				Name:     "type",
				Usage:    "the pool type: token, nft or trade",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "curve",
				Usage: "the bonding curve: linear or exponential",
				Value: "linear",
			},
			&cli.StringFlag{
				Name:     "starting_price",
				Usage:    "the price at offset 0 in SOL",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "delta",
				Usage: "the price step in SOL for linear curves, in bps for exponential ones",
				Value: "0",
			},
			&cli.UintFlag{
				Name:  "mm_fee_bps",
				Usage: "the market-making fee of trade pools, in bps",
			},
			&cli.BoolFlag{
				Name:  "mm_compound_fees",
				Usage: "keep the market-making fee in the pool instead of paying it to the owner",
			},
			&cli.StringFlag{
				Name:  "shared_escrow",
				Usage: "the shared escrow to attach the pool to",
			},
			&cli.StringFlag{
				Name:  "cosigner",
				Usage: "the account that must cosign every trade",
			},
			&cli.StringFlag{
				Name:  "maker_broker",
				Usage: "the account receiving the maker broker fee",
			},
			&cli.StringFlag{
				Name:  "whitelist",
				Usage: "the collection accepted by the pool, any if empty",
			},
			&cli.UintFlag{
				Name:  "max_taker_sell_count",
				Usage: "the max net number of nfts takers can sell to the pool, unbounded if 0",
			},
			&cli.Int64Flag{
				Name:  "expiry",
				Usage: "the unix timestamp after which the pool can't trade, none if 0",
			},
		},
		Action: poolCreateAction,
	}
	poolEditCmd = &cli.Command{
		Name:  "edit",
		Usage: "edit the config or the options of a pool",
		Flags: []cli.Flag{
			addressFlag,
			ownerAddrFlag,
			&cli.StringFlag{
				Name:  "curve",
				Usage: "the new bonding curve: linear or exponential",
			},
			&cli.StringFlag{
				Name:  "starting_price",
				Usage: "the new price at offset 0 in SOL",
			},
			&cli.StringFlag{
				Name:  "delta",
				Usage: "the new price step",
			},
			&cli.UintFlag{
				Name:  "mm_fee_bps",
				Usage: "the new market-making fee of trade pools, in bps",
			},
			&cli.BoolFlag{
				Name:  "mm_compound_fees",
				Usage: "keep the market-making fee in the pool",
			},
			&cli.BoolFlag{
				Name:  "reset_price_offset",
				Usage: "restart the curve from the starting price",
			},
			&cli.StringFlag{
				Name:  "cosigner",
				Usage: "the new cosigner",
			},
			&cli.StringFlag{
				Name:  "maker_broker",
				Usage: "the new maker broker",
			},
			&cli.BoolFlag{
				Name:  "clear_cosigner",
				Usage: "remove the cosigner of the pool",
			},
			&cli.BoolFlag{
				Name:  "clear_maker_broker",
				Usage: "remove the maker broker of the pool",
			},
			&cli.UintFlag{
				Name:  "max_taker_sell_count",
				Usage: "the new max net number of nfts takers can sell to the pool",
			},
			&cli.Int64Flag{
				Name:  "expiry",
				Usage: "the new expiry unix timestamp",
			},
		},
		Action: poolEditAction,
	}
	poolCloseCmd = &cli.Command{
		Name:  "close",
		Usage: "close a pool with no nfts and get back its funds and bond",
		Flags: []cli.Flag{
			addressFlag,
			ownerAddrFlag,
			&cli.StringFlag{
				Name:  "rent_payer",
				Usage: "the account that paid the pool bond, defaults to owner",
			},
		},
		Action: poolCloseAction,
	}
	poolInfoCmd = &cli.Command{
		Name:   "info",
		Usage:  "get info about a pool",
		Flags:  []cli.Flag{addressFlag},
		Action: poolInfoAction,
	}
	poolListCmd = &cli.Command{
		Name:  "list",
		Usage: "list pools, optionally filtered by owner",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "owner",
				Usage: "the base58 owner address",
			},
		},
		Action: poolListAction,
	}
	poolQuoteCmd = &cli.Command{
		Name:  "quote",
		Usage: "preview the next buy or sell on a pool",
		Flags: []cli.Flag{
			addressFlag,
			&cli.StringFlag{
				Name:     "side",
				Usage:    "the taker side: buy or sell",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "mint",
				Usage: "the nft to trade, used to compute the creators fee",
			},
			&cli.BoolFlag{
				Name:  "taker_broker",
				Usage: "whether a taker broker is going to be given",
			},
			&cli.UintFlag{
				Name:  "royalty_pct",
				Usage: "the share of optional royalties to pay",
			},
		},
		Action: poolQuoteAction,
	}
	poolDepositSolCmd = &cli.Command{
		Name:   "deposit-sol",
		Usage:  "deposit SOL into a token or trade pool",
		Flags:  []cli.Flag{addressFlag, ownerAddrFlag, amountFlag},
		Action: poolDepositSolAction,
	}
	poolWithdrawSolCmd = &cli.Command{
		Name:   "withdraw-sol",
		Usage:  "withdraw SOL from a token or trade pool",
		Flags:  []cli.Flag{addressFlag, ownerAddrFlag, amountFlag},
		Action: poolWithdrawSolAction,
	}
	poolDepositNftCmd = &cli.Command{
		Name:   "deposit-nft",
		Usage:  "deposit an nft into an nft or trade pool",
		Flags:  []cli.Flag{addressFlag, ownerAddrFlag, mintFlag},
		Action: poolDepositNftAction,
	}
	poolWithdrawNftCmd = &cli.Command{
		Name:   "withdraw-nft",
		Usage:  "withdraw an nft from an nft or trade pool",
		Flags:  []cli.Flag{addressFlag, ownerAddrFlag, mintFlag},
		Action: poolWithdrawNftAction,
	}
)

func poolCreateAction(ctx *cli.Context) error {
	client, err := getOperatorClient()
	if err != nil {
		return err
	}
	owner, err := getOwner(ctx)
	if err != nil {
		return err
	}

	config, err := parsePoolConfig(ctx)
	if err != nil {
		return err
	}
	req := httpinterface.CreatePoolRequest{
		Owner:             owner,
		Config:            *config,
		Whitelist:         ctx.String("whitelist"),
		MaxTakerSellCount: uint32(ctx.Uint("max_taker_sell_count")),
		Expiry:            ctx.Int64("expiry"),
	}
	if rentPayer, err := parseOptionalKey(ctx.String("rent_payer"), "rent payer"); err != nil {
		return err
	} else if rentPayer != nil {
		req.RentPayer = *rentPayer
	}
	if req.SharedEscrow, err = parseOptionalKey(
		ctx.String("shared_escrow"), "shared escrow",
	); err != nil {
		return err
	}
	if req.Cosigner, err = parseOptionalKey(ctx.String("cosigner"), "cosigner"); err != nil {
		return err
	}
	if req.MakerBroker, err = parseOptionalKey(
		ctx.String("maker_broker"), "maker broker",
	); err != nil {
		return err
	}

	var resp httpinterface.Pool
	if err := client.post("/v1/pools", req, &resp); err != nil {
		return err
	}
	printRespJSON(resp)
	return nil
}

func poolEditAction(ctx *cli.Context) error {
	client, err := getOperatorClient()
	if err != nil {
		return err
	}
	owner, err := getOwner(ctx)
	if err != nil {
		return err
	}
	addr, err := parseKey(ctx.String("address"), "pool address")
	if err != nil {
		return err
	}

	req := httpinterface.EditPoolRequest{
		Owner:            owner,
		ResetPriceOffset: ctx.Bool("reset_price_offset"),
		ClearCosigner:    ctx.Bool("clear_cosigner"),
		ClearMakerBroker: ctx.Bool("clear_maker_broker"),
	}
	if ctx.IsSet("curve") || ctx.IsSet("starting_price") || ctx.IsSet("delta") ||
		ctx.IsSet("mm_fee_bps") || ctx.IsSet("mm_compound_fees") {
		var current httpinterface.Pool
		if err := client.get(fmt.Sprintf("/v1/pools/%s", addr), &current); err != nil {
			return err
		}
		config, err := mergePoolConfig(ctx, current.Config)
		if err != nil {
			return err
		}
		req.Config = config
	}
	if req.Cosigner, err = parseOptionalKey(ctx.String("cosigner"), "cosigner"); err != nil {
		return err
	}
	if req.MakerBroker, err = parseOptionalKey(
		ctx.String("maker_broker"), "maker broker",
	); err != nil {
		return err
	}
	if ctx.IsSet("max_taker_sell_count") {
		count := uint32(ctx.Uint("max_taker_sell_count"))
		req.MaxTakerSellCount = &count
	}
	if ctx.IsSet("expiry") {
		expiry := ctx.Int64("expiry")
		req.Expiry = &expiry
	}

	var resp httpinterface.Pool
	if err := client.do(
		"PATCH", fmt.Sprintf("/v1/pools/%s", addr), req, &resp,
	); err != nil {
		return err
	}
	printRespJSON(resp)
	return nil
}

func poolCloseAction(ctx *cli.Context) error {
	client, err := getOperatorClient()
	if err != nil {
		return err
	}
	owner, err := getOwner(ctx)
	if err != nil {
		return err
	}
	addr, err := parseKey(ctx.String("address"), "pool address")
	if err != nil {
		return err
	}

	req := httpinterface.ClosePoolRequest{Owner: owner, RentPayer: owner}
	if rentPayer, err := parseOptionalKey(ctx.String("rent_payer"), "rent payer"); err != nil {
		return err
	} else if rentPayer != nil {
		req.RentPayer = *rentPayer
	}

	var resp httpinterface.PoolClosure
	if err := client.do(
		"DELETE", fmt.Sprintf("/v1/pools/%s", addr), req, &resp,
	); err != nil {
		return err
	}
	printRespJSON(resp)
	fmt.Printf("refund: %s SOL, bond: %s SOL\n",
		lamportsToSol(resp.Refund), lamportsToSol(resp.Bond),
	)
	return nil
}

func poolInfoAction(ctx *cli.Context) error {
	client, err := getTradeClient()
	if err != nil {
		return err
	}
	addr, err := parseKey(ctx.String("address"), "pool address")
	if err != nil {
		return err
	}

	var resp httpinterface.Pool
	if err := client.get(fmt.Sprintf("/v1/pools/%s", addr), &resp); err != nil {
		return err
	}
	printRespJSON(resp)
	return nil
}

func poolListAction(ctx *cli.Context) error {
	client, err := getOperatorClient()
	if err != nil {
		return err
	}
	path := "/v1/pools"
	if owner := ctx.String("owner"); owner != "" {
		if _, err := parseKey(owner, "owner"); err != nil {
			return err
		}
		path += "?owner=" + url.QueryEscape(owner)
	}

	var resp []httpinterface.Pool
	if err := client.get(path, &resp); err != nil {
		return err
	}
	printRespJSON(resp)
	return nil
}

func poolQuoteAction(ctx *cli.Context) error {
	client, err := getTradeClient()
	if err != nil {
		return err
	}
	addr, err := parseKey(ctx.String("address"), "pool address")
	if err != nil {
		return err
	}
	side, err := domain.ParseTakerSide(ctx.String("side"))
	if err != nil {
		return err
	}

	query := url.Values{}
	query.Set("side", side.String())
	if mint := ctx.String("mint"); mint != "" {
		if _, err := parseKey(mint, "mint"); err != nil {
			return err
		}
		query.Set("mint", mint)
	}
	if ctx.Bool("taker_broker") {
		query.Set("taker_broker", "true")
	}
	if ctx.IsSet("royalty_pct") {
		query.Set("royalty_pct", fmt.Sprint(ctx.Uint("royalty_pct")))
	}

	var resp httpinterface.Quote
	if err := client.get(
		fmt.Sprintf("/v1/pools/%s/quote?%s", addr, query.Encode()), &resp,
	); err != nil {
		return err
	}
	printRespJSON(resp)
	fmt.Printf("price: %s SOL, total: %s SOL\n",
		lamportsToSol(resp.CurrentPrice), lamportsToSol(resp.Total),
	)
	return nil
}

func poolDepositSolAction(ctx *cli.Context) error {
	return poolMoveSol(ctx, "deposit-sol")
}

func poolWithdrawSolAction(ctx *cli.Context) error {
	return poolMoveSol(ctx, "withdraw-sol")
}

func poolDepositNftAction(ctx *cli.Context) error {
	return poolMoveNft(ctx, "deposit-nft")
}

func poolWithdrawNftAction(ctx *cli.Context) error {
	return poolMoveNft(ctx, "withdraw-nft")
}

func poolMoveSol(ctx *cli.Context, action string) error {
	client, err := getOperatorClient()
	if err != nil {
		return err
	}
	owner, err := getOwner(ctx)
	if err != nil {
		return err
	}
	addr, err := parseKey(ctx.String("address"), "pool address")
	if err != nil {
		return err
	}
	amount, err := solToLamports(ctx.String("amount"))
	if err != nil {
		return err
	}

	var resp httpinterface.Pool
	if err := client.post(
		fmt.Sprintf("/v1/pools/%s/%s", addr, action),
		httpinterface.AmountRequest{Owner: owner, Amount: amount}, &resp,
	); err != nil {
		return err
	}
	printRespJSON(resp)
	return nil
}

func poolMoveNft(ctx *cli.Context, action string) error {
	client, err := getOperatorClient()
	if err != nil {
		return err
	}
	owner, err := getOwner(ctx)
	if err != nil {
		return err
	}
	addr, err := parseKey(ctx.String("address"), "pool address")
	if err != nil {
		return err
	}
	mint, err := parseKey(ctx.String("mint"), "mint")
	if err != nil {
		return err
	}

	var resp httpinterface.Pool
	if err := client.post(
		fmt.Sprintf("/v1/pools/%s/%s", addr, action),
		httpinterface.NftRequest{Owner: owner, Mint: mint}, &resp,
	); err != nil {
		return err
	}
	printRespJSON(resp)
	return nil
}

func parsePoolConfig(ctx *cli.Context) (*httpinterface.PoolConfig, error) {
	poolType, err := domain.ParsePoolType(ctx.String("type"))
	if err != nil {
		return nil, err
	}
	return mergePoolConfig(ctx, httpinterface.PoolConfig{PoolType: poolType})
}

// mergePoolConfig overrides the given config with the curve flags set.
func mergePoolConfig(
	ctx *cli.Context, config httpinterface.PoolConfig,
) (*httpinterface.PoolConfig, error) {
	if curve := ctx.String("curve"); curve != "" {
		curveType, err := domain.ParseCurveType(curve)
		if err != nil {
			return nil, err
		}
		config.CurveType = curveType
	}
	if price := ctx.String("starting_price"); price != "" {
		lamports, err := solToLamports(price)
		if err != nil {
			return nil, err
		}
		config.StartingPrice = lamports
	}
	if delta := ctx.String("delta"); delta != "" {
		d, err := parseDelta(delta, config.CurveType)
		if err != nil {
			return nil, err
		}
		config.Delta = d
	}
	if ctx.IsSet("mm_fee_bps") {
		mmFee := uint16(ctx.Uint("mm_fee_bps"))
		config.MMFeeBps = &mmFee
	}
	if ctx.IsSet("mm_compound_fees") {
		config.MMCompoundFees = ctx.Bool("mm_compound_fees")
	}
	return &config, nil
}

// parseDelta reads a SOL amount for linear curves and plain bps for
// exponential ones.
func parseDelta(delta string, curveType domain.CurveType) (uint64, error) {
	if curveType == domain.CurveLinear {
		return solToLamports(delta)
	}
	var bps uint64
	if _, err := fmt.Sscan(delta, &bps); err != nil {
		return 0, fmt.Errorf("invalid delta %s: %s", delta, err)
	}
	return bps, nil
}
