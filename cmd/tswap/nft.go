package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tswap-network/tswap-daemon/internal/core/domain"
	httpinterface "github.com/tswap-network/tswap-daemon/internal/interfaces/http"
	"github.com/urfave/cli/v2"
)

var nft = cli.Command{
	Name:  "nft",
	Usage: "register and inspect nfts",
	Subcommands: []*cli.Command{
		nftRegisterCmd, nftInfoCmd,
	},
}

var (
	nftRegisterCmd = &cli.Command{
		Name:  "register",
		Usage: "register an nft along with its royalty config",
		Flags: []cli.Flag{
			mintFlag,
			&cli.StringFlag{
				Name:     "holder",
				Usage:    "the base58 address of the current holder",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "collection",
				Usage: "the collection of the nft",
			},
			&cli.UintFlag{
				Name:  "seller_fee_bps",
				Usage: "the royalty rate in bps",
			},
			&cli.BoolFlag{
				Name:  "programmable",
				Usage: "whether royalties are enforced",
			},
			&cli.StringSliceFlag{
				Name:  "creator",
				Usage: "a creator in the form <address>:<share>, repeatable",
			},
		},
		Action: nftRegisterAction,
	}
	nftInfoCmd = &cli.Command{
		Name:   "info",
		Usage:  "get info about an nft",
		Flags:  []cli.Flag{mintFlag},
		Action: nftInfoAction,
	}
)

func nftRegisterAction(ctx *cli.Context) error {
	client, err := getOperatorClient()
	if err != nil {
		return err
	}
	mint, err := parseKey(ctx.String("mint"), "mint")
	if err != nil {
		return err
	}
	holder, err := parseKey(ctx.String("holder"), "holder")
	if err != nil {
		return err
	}
	creators, err := parseCreators(ctx.StringSlice("creator"))
	if err != nil {
		return err
	}

	royalty := httpinterface.Royalty{
		SellerFeeBps: uint16(ctx.Uint("seller_fee_bps")),
		Standard:     domain.StandardLegacy,
		Creators:     creators,
	}
	if ctx.Bool("programmable") {
		royalty.Standard = domain.StandardProgrammable
	}

	var resp httpinterface.Nft
	if err := client.post("/v1/nfts", httpinterface.RegisterNftRequest{
		Mint:       mint,
		Holder:     holder,
		Collection: ctx.String("collection"),
		Royalty:    royalty,
	}, &resp); err != nil {
		return err
	}
	printRespJSON(resp)
	return nil
}

func nftInfoAction(ctx *cli.Context) error {
	client, err := getTradeClient()
	if err != nil {
		return err
	}
	mint, err := parseKey(ctx.String("mint"), "mint")
	if err != nil {
		return err
	}

	var resp httpinterface.Nft
	if err := client.get(fmt.Sprintf("/v1/nfts/%s", mint), &resp); err != nil {
		return err
	}
	printRespJSON(resp)
	return nil
}

func parseCreators(list []string) ([]httpinterface.Creator, error) {
	creators := make([]httpinterface.Creator, 0, len(list))
	for _, c := range list {
		parts := strings.Split(c, ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid creator %s, must be <address>:<share>", c)
		}
		addr, err := parseKey(parts[0], "creator address")
		if err != nil {
			return nil, err
		}
		share, err := strconv.ParseUint(parts[1], 10, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid creator share %s: %s", parts[1], err)
		}
		creators = append(creators, httpinterface.Creator{
			Address: addr,
			Share:   uint8(share),
		})
	}
	return creators, nil
}
