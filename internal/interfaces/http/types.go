package httpinterface

import (
	"encoding/hex"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/tswap-network/tswap-daemon/internal/core/application"
	"github.com/tswap-network/tswap-daemon/internal/core/domain"
	"github.com/tswap-network/tswap-daemon/internal/core/ports"
)

type PoolConfig struct {
	PoolType       domain.PoolType  `json:"pool_type"`
	CurveType      domain.CurveType `json:"curve_type"`
	StartingPrice  uint64           `json:"starting_price"`
	Delta          uint64           `json:"delta"`
	MMCompoundFees bool             `json:"mm_compound_fees"`
	MMFeeBps       *uint16          `json:"mm_fee_bps,omitempty"`
}

func (c PoolConfig) toDomain() domain.PoolConfig {
	return domain.PoolConfig{
		PoolType:       c.PoolType,
		CurveType:      c.CurveType,
		StartingPrice:  c.StartingPrice,
		Delta:          c.Delta,
		MMCompoundFees: c.MMCompoundFees,
		MMFeeBps:       c.MMFeeBps,
	}
}

type PoolStats struct {
	TakerSellCount      uint32 `json:"taker_sell_count"`
	TakerBuyCount       uint32 `json:"taker_buy_count"`
	AccumulatedMMProfit uint64 `json:"accumulated_mm_profit"`
}

type Pool struct {
	Address           solana.PublicKey  `json:"address"`
	PoolID            string            `json:"pool_id"`
	Owner             solana.PublicKey  `json:"owner"`
	RentPayer         solana.PublicKey  `json:"rent_payer"`
	Config            PoolConfig        `json:"config"`
	PriceOffset       int32             `json:"price_offset"`
	Stats             PoolStats         `json:"stats"`
	SharedEscrow      *solana.PublicKey `json:"shared_escrow,omitempty"`
	Cosigner          *solana.PublicKey `json:"cosigner,omitempty"`
	MakerBroker       *solana.PublicKey `json:"maker_broker,omitempty"`
	Whitelist         string            `json:"whitelist,omitempty"`
	MaxTakerSellCount uint32            `json:"max_taker_sell_count"`
	Amount            uint64            `json:"amount"`
	StateBond         uint64            `json:"state_bond"`
	NftsHeld          uint32            `json:"nfts_held"`
	Expiry            int64             `json:"expiry,omitempty"`
	CreatedAt         int64             `json:"created_at"`
	UpdatedAt         int64             `json:"updated_at"`
	Balance           *uint64           `json:"balance,omitempty"`
}

func newPool(p domain.Pool) Pool {
	c := p.Config
	return Pool{
		Address:   p.Address,
		PoolID:    hex.EncodeToString(p.PoolID[:]),
		Owner:     p.Owner,
		RentPayer: p.RentPayer,
		Config: PoolConfig{
			PoolType:       c.PoolType,
			CurveType:      c.CurveType,
			StartingPrice:  c.StartingPrice,
			Delta:          c.Delta,
			MMCompoundFees: c.MMCompoundFees,
			MMFeeBps:       c.MMFeeBps,
		},
		PriceOffset: p.PriceOffset,
		Stats: PoolStats{
			TakerSellCount:      p.Stats.TakerSellCount,
			TakerBuyCount:       p.Stats.TakerBuyCount,
			AccumulatedMMProfit: p.Stats.AccumulatedMMProfit,
		},
		SharedEscrow:      p.SharedEscrow,
		Cosigner:          p.Cosigner,
		MakerBroker:       p.MakerBroker,
		Whitelist:         p.Whitelist,
		MaxTakerSellCount: p.MaxTakerSellCount,
		Amount:            p.Amount,
		StateBond:         p.StateBond,
		NftsHeld:          p.NftsHeld,
		Expiry:            p.Expiry,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func newPoolInfo(info application.PoolInfo) Pool {
	pool := newPool(info.Pool)
	balance := info.Balance
	pool.Balance = &balance
	return pool
}

func newPools(pools []domain.Pool) []Pool {
	list := make([]Pool, 0, len(pools))
	for _, p := range pools {
		list = append(list, newPool(p))
	}
	return list
}

type Fees struct {
	TakerFee       uint64 `json:"taker_fee"`
	ProtocolFee    uint64 `json:"protocol_fee"`
	MakerBrokerFee uint64 `json:"maker_broker_fee"`
	TakerBrokerFee uint64 `json:"taker_broker_fee"`
}

func newFees(f domain.Fees) Fees {
	return Fees{
		TakerFee:       f.TakerFee,
		ProtocolFee:    f.ProtocolFee,
		MakerBrokerFee: f.MakerBrokerFee,
		TakerBrokerFee: f.TakerBrokerFee,
	}
}

type SettlementEvent struct {
	CurrentPrice uint64 `json:"current_price"`
	TakerFee     uint64 `json:"taker_fee"`
	MMFee        uint64 `json:"mm_fee"`
	CreatorsFee  uint64 `json:"creators_fee"`
}

func newSettlementEvent(e domain.SettlementEvent) SettlementEvent {
	return SettlementEvent{
		CurrentPrice: e.CurrentPrice,
		TakerFee:     e.TakerFee,
		MMFee:        e.MMFee,
		CreatorsFee:  e.CreatorsFee,
	}
}

type Quote struct {
	Pool         solana.PublicKey `json:"pool"`
	Side         domain.TakerSide `json:"side"`
	CurrentPrice uint64           `json:"current_price"`
	MMFee        uint64           `json:"mm_fee"`
	Fees         Fees             `json:"fees"`
	CreatorsFee  uint64           `json:"creators_fee"`
	Total        uint64           `json:"total"`
}

func newQuote(q application.Quote) Quote {
	return Quote{
		Pool:         q.Pool,
		Side:         q.Side,
		CurrentPrice: q.CurrentPrice,
		MMFee:        q.MMFee,
		Fees:         newFees(q.Fees),
		CreatorsFee:  q.CreatorsFee,
		Total:        q.Total,
	}
}

type Trade struct {
	ID            string             `json:"id"`
	Pool          solana.PublicKey   `json:"pool"`
	PoolType      domain.PoolType    `json:"pool_type"`
	Side          domain.TakerSide   `json:"side"`
	Mint          solana.PublicKey   `json:"mint"`
	Taker         solana.PublicKey   `json:"taker"`
	Event         SettlementEvent    `json:"event"`
	Fees          Fees               `json:"fees"`
	TakerAmount   uint64             `json:"taker_amount"`
	SkippedFees   uint64             `json:"skipped_fees"`
	PoolClosed    bool               `json:"pool_closed"`
	Status        domain.TradeStatus `json:"status"`
	FailureReason string             `json:"failure_reason,omitempty"`
	Timestamp     int64              `json:"timestamp"`
}

func newTrade(t domain.Trade) Trade {
	return Trade{
		ID:            t.ID,
		Pool:          t.Pool,
		PoolType:      t.PoolType,
		Side:          t.Side,
		Mint:          t.Mint,
		Taker:         t.Taker,
		Event:         newSettlementEvent(t.Event),
		Fees:          newFees(t.Fees),
		TakerAmount:   t.TakerAmount,
		SkippedFees:   t.SkippedFees,
		PoolClosed:    t.PoolClosed,
		Status:        t.Status,
		FailureReason: t.FailureReason,
		Timestamp:     t.Timestamp,
	}
}

func newTrades(trades []domain.Trade) []Trade {
	list := make([]Trade, 0, len(trades))
	for _, t := range trades {
		list = append(list, newTrade(t))
	}
	return list
}

type PoolClosure struct {
	Pool      solana.PublicKey `json:"pool"`
	Owner     solana.PublicKey `json:"owner"`
	RentPayer solana.PublicKey `json:"rent_payer"`
	Reason    string           `json:"reason"`
	Refund    uint64           `json:"refund"`
	Bond      uint64           `json:"bond"`
	Timestamp int64            `json:"timestamp"`
}

func newPoolClosure(c domain.PoolClosure) PoolClosure {
	return PoolClosure{
		Pool:      c.Pool,
		Owner:     c.Owner,
		RentPayer: c.RentPayer,
		Reason:    c.Reason.String(),
		Refund:    c.Refund,
		Bond:      c.Bond,
		Timestamp: c.Timestamp,
	}
}

type NftReceipt struct {
	Address     solana.PublicKey `json:"address"`
	Mint        solana.PublicKey `json:"mint"`
	Pool        solana.PublicKey `json:"pool"`
	DepositedAt int64            `json:"deposited_at"`
}

func newNftReceipts(receipts []domain.NftReceipt) []NftReceipt {
	list := make([]NftReceipt, 0, len(receipts))
	for _, r := range receipts {
		list = append(list, NftReceipt{
			Address:     r.Address,
			Mint:        r.Mint,
			Pool:        r.Pool,
			DepositedAt: r.DepositedAt,
		})
	}
	return list
}

type Creator struct {
	Address solana.PublicKey `json:"address"`
	Share   uint8            `json:"share"`
}

type Royalty struct {
	SellerFeeBps uint16               `json:"seller_fee_bps"`
	Standard     domain.TokenStandard `json:"standard"`
	Creators     []Creator            `json:"creators,omitempty"`
}

func (r Royalty) toDomain() domain.Royalty {
	creators := make([]domain.Creator, 0, len(r.Creators))
	for _, c := range r.Creators {
		creators = append(creators, domain.Creator{
			Address: c.Address,
			Share:   c.Share,
		})
	}
	return domain.Royalty{
		SellerFeeBps: r.SellerFeeBps,
		Standard:     r.Standard,
		Creators:     creators,
	}
}

type Nft struct {
	Mint       solana.PublicKey `json:"mint"`
	Holder     solana.PublicKey `json:"holder"`
	Collection string           `json:"collection,omitempty"`
	Royalty    Royalty          `json:"royalty"`
	CreatedAt  int64            `json:"created_at"`
}

func newNft(n domain.Nft) Nft {
	creators := make([]Creator, 0, len(n.Royalty.Creators))
	for _, c := range n.Royalty.Creators {
		creators = append(creators, Creator{Address: c.Address, Share: c.Share})
	}
	return Nft{
		Mint:       n.Mint,
		Holder:     n.Holder,
		Collection: n.Collection,
		Royalty: Royalty{
			SellerFeeBps: n.Royalty.SellerFeeBps,
			Standard:     n.Royalty.Standard,
			Creators:     creators,
		},
		CreatedAt: n.CreatedAt,
	}
}

type SharedEscrow struct {
	Address       solana.PublicKey `json:"address"`
	Owner         solana.PublicKey `json:"owner"`
	Nonce         uint16           `json:"nonce"`
	PoolsAttached uint32           `json:"pools_attached"`
	StateBond     uint64           `json:"state_bond"`
	CreatedAt     int64            `json:"created_at"`
	Balance       *uint64          `json:"balance,omitempty"`
}

func newSharedEscrow(e domain.SharedEscrow) SharedEscrow {
	return SharedEscrow{
		Address:       e.Address,
		Owner:         e.Owner,
		Nonce:         e.Nonce,
		PoolsAttached: e.PoolsAttached,
		StateBond:     e.StateBond,
		CreatedAt:     e.CreatedAt,
	}
}

func newEscrowInfo(info application.EscrowInfo) SharedEscrow {
	escrow := newSharedEscrow(info.SharedEscrow)
	balance := info.Balance
	escrow.Balance = &balance
	return escrow
}

type Webhook struct {
	ID        string `json:"id"`
	Event     string `json:"event"`
	Endpoint  string `json:"endpoint"`
	IsSecured bool   `json:"is_secured"`
}

func newWebhooks(subs []ports.Subscription) []Webhook {
	list := make([]Webhook, 0, len(subs))
	for _, s := range subs {
		list = append(list, Webhook{
			ID:        s.Id(),
			Event:     s.Topic(),
			Endpoint:  s.NotifyAt(),
			IsSecured: s.IsSecured(),
		})
	}
	return list
}

type Balance struct {
	Address solana.PublicKey `json:"address"`
	Balance uint64           `json:"balance"`
}

// Requests

type TradeRequest struct {
	Taker              solana.PublicKey  `json:"taker"`
	Mint               solana.PublicKey  `json:"mint"`
	Owner              solana.PublicKey  `json:"owner"`
	RentPayer          solana.PublicKey  `json:"rent_payer"`
	SharedEscrow       *solana.PublicKey `json:"shared_escrow,omitempty"`
	TakerBroker        *solana.PublicKey `json:"taker_broker,omitempty"`
	Cosigner           *solana.PublicKey `json:"cosigner,omitempty"`
	OptionalRoyaltyPct *uint16           `json:"optional_royalty_pct,omitempty"`
	Authorization      []byte            `json:"authorization,omitempty"`
}

func (r TradeRequest) toApp(pool solana.PublicKey) application.TradeRequest {
	return application.TradeRequest{
		Pool:               pool,
		Taker:              r.Taker,
		Mint:               r.Mint,
		Owner:              r.Owner,
		RentPayer:          r.RentPayer,
		SharedEscrow:       r.SharedEscrow,
		TakerBroker:        r.TakerBroker,
		Cosigner:           r.Cosigner,
		OptionalRoyaltyPct: r.OptionalRoyaltyPct,
		Authorization:      r.Authorization,
	}
}

type BuyRequest struct {
	TradeRequest
	MaxPrice uint64 `json:"max_price"`
}

type SellRequest struct {
	TradeRequest
	MinPrice uint64 `json:"min_price"`
}

type CreatePoolRequest struct {
	Owner             solana.PublicKey  `json:"owner"`
	RentPayer         solana.PublicKey  `json:"rent_payer"`
	PoolID            string            `json:"pool_id,omitempty"`
	Config            PoolConfig        `json:"config"`
	Currency          *solana.PublicKey `json:"currency,omitempty"`
	SharedEscrow      *solana.PublicKey `json:"shared_escrow,omitempty"`
	Cosigner          *solana.PublicKey `json:"cosigner,omitempty"`
	MakerBroker       *solana.PublicKey `json:"maker_broker,omitempty"`
	Whitelist         string            `json:"whitelist,omitempty"`
	MaxTakerSellCount uint32            `json:"max_taker_sell_count,omitempty"`
	Expiry            int64             `json:"expiry,omitempty"`
}

func (r CreatePoolRequest) toApp() (application.CreatePoolRequest, error) {
	req := application.CreatePoolRequest{
		Owner:             r.Owner,
		RentPayer:         r.RentPayer,
		Config:            r.Config.toDomain(),
		Currency:          r.Currency,
		SharedEscrow:      r.SharedEscrow,
		Cosigner:          r.Cosigner,
		MakerBroker:       r.MakerBroker,
		Whitelist:         r.Whitelist,
		MaxTakerSellCount: r.MaxTakerSellCount,
		Expiry:            r.Expiry,
	}
	if req.RentPayer.IsZero() {
		req.RentPayer = r.Owner
	}
	if r.PoolID != "" {
		buf, err := hex.DecodeString(r.PoolID)
		if err != nil || len(buf) != 32 {
			return req, fmt.Errorf("pool id must be a 32-byte hex string")
		}
		var id [32]byte
		copy(id[:], buf)
		req.PoolID = &id
	}
	return req, nil
}

type EditPoolRequest struct {
	Owner             solana.PublicKey  `json:"owner"`
	Config            *PoolConfig       `json:"config,omitempty"`
	ResetPriceOffset  bool              `json:"reset_price_offset"`
	Cosigner          *solana.PublicKey `json:"cosigner,omitempty"`
	MakerBroker       *solana.PublicKey `json:"maker_broker,omitempty"`
	ClearCosigner     bool              `json:"clear_cosigner,omitempty"`
	ClearMakerBroker  bool              `json:"clear_maker_broker,omitempty"`
	MaxTakerSellCount *uint32           `json:"max_taker_sell_count,omitempty"`
	Expiry            *int64            `json:"expiry,omitempty"`
}

func (r EditPoolRequest) toApp(pool solana.PublicKey) application.EditPoolRequest {
	req := application.EditPoolRequest{
		Pool:              pool,
		Owner:             r.Owner,
		ResetPriceOffset:  r.ResetPriceOffset,
		Cosigner:          r.Cosigner,
		MakerBroker:       r.MakerBroker,
		ClearCosigner:     r.ClearCosigner,
		ClearMakerBroker:  r.ClearMakerBroker,
		MaxTakerSellCount: r.MaxTakerSellCount,
		Expiry:            r.Expiry,
	}
	if r.Config != nil {
		config := r.Config.toDomain()
		req.Config = &config
	}
	return req
}

type ClosePoolRequest struct {
	Owner     solana.PublicKey `json:"owner"`
	RentPayer solana.PublicKey `json:"rent_payer"`
}

type AmountRequest struct {
	Owner  solana.PublicKey `json:"owner"`
	Amount uint64           `json:"amount"`
}

type NftRequest struct {
	Owner         solana.PublicKey `json:"owner"`
	Mint          solana.PublicKey `json:"mint"`
	Authorization []byte           `json:"authorization,omitempty"`
}

type CreateEscrowRequest struct {
	Owner  solana.PublicKey `json:"owner"`
	Nonce  uint16           `json:"nonce"`
	Amount uint64           `json:"amount"`
}

type CloseEscrowRequest struct {
	Owner solana.PublicKey `json:"owner"`
}

type EscrowRequest struct {
	Owner  solana.PublicKey `json:"owner"`
	Escrow solana.PublicKey `json:"escrow"`
	Amount uint64           `json:"amount,omitempty"`
}

type RegisterNftRequest struct {
	Mint       solana.PublicKey `json:"mint"`
	Holder     solana.PublicKey `json:"holder"`
	Collection string           `json:"collection,omitempty"`
	Royalty    Royalty          `json:"royalty"`
}

type FundRequest struct {
	Amount uint64 `json:"amount"`
}

type AddWebhookRequest struct {
	Event    string `json:"event"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"secret,omitempty"`
}
