package domain

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

// AddressDeriver derives the deterministic addresses of the program
// accounts.
type AddressDeriver struct {
	ProgramID solana.PublicKey
}

func (d AddressDeriver) PoolAddress(
	owner solana.PublicKey, poolID [32]byte,
) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte(poolSeed), owner.Bytes(), poolID[:]}, d.ProgramID,
	)
	return addr, err
}

func (d AddressDeriver) SharedEscrowAddress(
	owner solana.PublicKey, nonce uint16,
) (solana.PublicKey, error) {
	nonceBytes := make([]byte, 2)
	binary.LittleEndian.PutUint16(nonceBytes, nonce)
	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte(sharedEscrowSeed), owner.Bytes(), nonceBytes},
		d.ProgramID,
	)
	return addr, err
}

func (d AddressDeriver) NftReceiptAddress(
	mint, pool solana.PublicKey,
) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte(nftReceiptSeed), mint.Bytes(), pool.Bytes()},
		d.ProgramID,
	)
	return addr, err
}

func (d AddressDeriver) FeeVaultAddress() (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte(feeVaultSeed)}, d.ProgramID,
	)
	return addr, err
}
