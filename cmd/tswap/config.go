package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gagliardetto/solana-go"
	"github.com/urfave/cli/v2"
)

var (
	operatorURLFlag = cli.StringFlag{
		Name:  "operator_url",
		Usage: "tswapd operator interface url",
		Value: "http://localhost:9000",
	}

	tradeURLFlag = cli.StringFlag{
		Name:  "trade_url",
		Usage: "tswapd trade interface url",
		Value: "http://localhost:9945",
	}

	ownerFlag = cli.StringFlag{
		Name:  "owner",
		Usage: "default base58 owner address of pools and escrows",
		Value: "",
	}
)

var config = cli.Command{
	Name:   "config",
	Usage:  "Print local configuration of the tswap CLI",
	Action: configAction,
	Subcommands: []*cli.Command{
		{
			Name:   "set",
			Usage:  "set a <key> <value> in the local state",
			Action: configSetAction,
		},
		{
			Name:   "init",
			Usage:  "initialize the local state with flags",
			Action: configInitAction,
			Flags: []cli.Flag{
				&operatorURLFlag,
				&tradeURLFlag,
				&ownerFlag,
			},
		},
	},
}

func configAction(ctx *cli.Context) error {
	state, err := getState()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(state))
	for key := range state {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Println(key + ": " + state[key])
	}

	return nil
}

func configInitAction(c *cli.Context) error {
	owner := c.String("owner")
	if owner != "" {
		if _, err := solana.PublicKeyFromBase58(owner); err != nil {
			return fmt.Errorf("invalid owner: %s", err)
		}
	}

	return setState(map[string]string{
		operatorURLKey: c.String("operator_url"),
		tradeURLKey:    c.String("trade_url"),
		ownerKey:       owner,
	})
}

func configSetAction(c *cli.Context) error {
	if c.NArg() < 2 {
		return errors.New("key and value are missing")
	}

	key := c.Args().Get(0)
	value := c.Args().Get(1)

	if err := setState(map[string]string{key: value}); err != nil {
		return err
	}

	fmt.Printf("%s %s has been set\n", key, value)

	return nil
}

// getOwner returns the owner given with the flag, or the default one in
// the local state.
func getOwner(c *cli.Context) (solana.PublicKey, error) {
	owner := c.String("owner")
	if owner == "" {
		state, err := getState()
		if err != nil {
			return solana.PublicKey{}, err
		}
		owner = state[ownerKey]
	}
	if owner == "" {
		return solana.PublicKey{}, errors.New(
			"missing owner, use --owner or `config set owner`",
		)
	}
	return parseKey(owner, "owner")
}
