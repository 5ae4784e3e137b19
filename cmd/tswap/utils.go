package main

import (
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

const solDecimals = 9

var (
	addressFlag = &cli.StringFlag{
		Name:     "address",
		Usage:    "the base58 address of the target",
		Required: true,
	}
	ownerAddrFlag = &cli.StringFlag{
		Name:  "owner",
		Usage: "the base58 owner address, defaults to the one in local state",
	}
	amountFlag = &cli.StringFlag{
		Name:     "amount",
		Usage:    "the amount in SOL",
		Required: true,
	}
	mintFlag = &cli.StringFlag{
		Name:     "mint",
		Usage:    "the base58 mint address of the nft",
		Required: true,
	}
)

func parseKey(key, name string) (solana.PublicKey, error) {
	pk, err := solana.PublicKeyFromBase58(key)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid %s: %s", name, err)
	}
	return pk, nil
}

func parseOptionalKey(key, name string) (*solana.PublicKey, error) {
	if key == "" {
		return nil, nil
	}
	pk, err := parseKey(key, name)
	if err != nil {
		return nil, err
	}
	return &pk, nil
}

// solToLamports converts an amount of SOL, like 1.5, to lamports.
func solToLamports(amount string) (uint64, error) {
	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %s: %s", amount, err)
	}
	if dec.IsNegative() {
		return 0, fmt.Errorf("amount must not be negative")
	}
	lamports := dec.Shift(solDecimals)
	if !lamports.Equal(lamports.Truncate(0)) {
		return 0, fmt.Errorf("amount %s has more than %d decimals", amount, solDecimals)
	}
	if lamports.GreaterThan(decimal.NewFromInt(1).Shift(19)) {
		return 0, fmt.Errorf("amount %s is too large", amount)
	}
	return lamports.BigInt().Uint64(), nil
}

func lamportsToSol(lamports uint64) string {
	return decimal.NewFromBigInt(
		new(big.Int).SetUint64(lamports), -solDecimals,
	).String()
}
