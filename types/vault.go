// SPDX-License-Identifier: BUSL-1.1
//
// Copyright (C) 2025, NASD Inc. All rights reserved.
// Use of this software is governed by the Business Source License included
// in the LICENSE file of this repository and at www.mariadb.com/bsl11.
//
// ANY USE OF THE LICENSED WORK IN VIOLATION OF THIS LICENSE WILL AUTOMATICALLY
// TERMINATE YOUR RIGHTS UNDER THIS LICENSE FOR THE CURRENT AND ALL OTHER
// VERSIONS OF THE LICENSED WORK.
//
// THIS LICENSE DOES NOT GRANT YOU ANY RIGHT IN ANY TRADEMARK OR LOGO OF
// LICENSOR OR ITS AFFILIATES (PROVIDED THAT YOU MAY USE A TRADEMARK OR LOGO OF
// LICENSOR AS EXPRESSLY REQUIRED BY THIS LICENSE).
//
// TO THE EXTENT PERMITTED BY APPLICABLE LAW, THE LICENSED WORK IS PROVIDED ON
// AN "AS IS" BASIS. LICENSOR HEREBY DISCLAIMS ALL WARRANTIES AND CONDITIONS,
// EXPRESS OR IMPLIED, INCLUDING (WITHOUT LIMITATION) WARRANTIES OF
// MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE, NON-INFRINGEMENT, AND
// TITLE.

package types

import (
	"fmt"
	"math/big"
	"time"

	"cosmossdk.io/math"
)

const (
	// BpsDenominator is the basis-point scale shared by the fee rate, sale
	// discount and reserved fraction. 10000 = 100%.
	BpsDenominator = uint64(10_000)

	// SecondsPerYear is the accrual year used by the fee engine (365 days).
	SecondsPerYear = int64(31_536_000)
)

// PriceScale is the 1e18 fixed-point scale of attested underlying-asset
// prices.
var PriceScale = math.NewIntWithDecimal(1, 18)

// Request accumulators are bounded to 112-bit amounts and 32-bit unix
// timestamps; accumulation past either width fails rather than wraps.
var (
	MaxRequestAmount   = math.NewIntFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 112), big.NewInt(1)))
	MaxRequestUnixTime = int64(1)<<32 - 1
)

// Vault is the aggregate accounting record for a single underlying asset.
// Every state-changing operation reads it, rolls fees forward and writes it
// back within the same transaction.
type Vault struct {
	// TotalShares is the outstanding RCA claim supply.
	TotalShares math.Int `json:"total_shares"`
	// FeeRateBps is the annual fee, in basis points, charged against the
	// active (non-reserved, non-for-sale, non-pending) balance.
	FeeRateBps uint64 `json:"fee_rate_bps"`
	// SaleDiscountBps is applied to attested prices for inventory sales.
	SaleDiscountBps uint64 `json:"sale_discount_bps"`
	// ReservedFractionBps is the fraction of vault value frozen after a
	// confirmed loss event. Zero under normal operation.
	ReservedFractionBps uint64 `json:"reserved_fraction_bps"`
	// CumulativeLiquidated is the lifetime total of underlying marked for
	// liquidation. Monotonic; only an explicit correction moves it down.
	CumulativeLiquidated math.Int `json:"cumulative_liquidated"`
	// ForSaleInventory is the underlying amount currently purchasable at a
	// discount, fed by fee accrual and liquidation deltas.
	ForSaleInventory math.Int `json:"for_sale_inventory"`
	// PendingWithdrawalTotal is the sum promised to redeemers whose request
	// has not been finalized. The assets remain physically in the vault.
	PendingWithdrawalTotal math.Int `json:"pending_withdrawal_total"`
	// LastAccrual is the instant of the last fee rollover.
	LastAccrual time.Time `json:"last_accrual"`
	// WithdrawalDelaySeconds gates redeem-finalize after redeem-request.
	WithdrawalDelaySeconds int64 `json:"withdrawal_delay_seconds"`
	// Treasury receives payments from discounted purchases.
	Treasury string `json:"treasury"`
}

// NewVault returns a vault with zeroed counters, ready for a first deposit.
func NewVault(feeRateBps, saleDiscountBps uint64, withdrawalDelaySeconds int64, treasury string) Vault {
	return Vault{
		TotalShares:            math.ZeroInt(),
		FeeRateBps:             feeRateBps,
		SaleDiscountBps:        saleDiscountBps,
		ReservedFractionBps:    0,
		CumulativeLiquidated:   math.ZeroInt(),
		ForSaleInventory:       math.ZeroInt(),
		PendingWithdrawalTotal: math.ZeroInt(),
		WithdrawalDelaySeconds: withdrawalDelaySeconds,
		Treasury:               treasury,
	}
}

// Validate checks the structural invariants that must hold after every state
// transition.
func (v Vault) Validate() error {
	if v.SaleDiscountBps > BpsDenominator {
		return fmt.Errorf("sale discount %d exceeds %d bps", v.SaleDiscountBps, BpsDenominator)
	}
	if v.ReservedFractionBps > BpsDenominator {
		return fmt.Errorf("reserved fraction %d exceeds %d bps", v.ReservedFractionBps, BpsDenominator)
	}
	if v.WithdrawalDelaySeconds < 0 {
		return fmt.Errorf("withdrawal delay cannot be negative")
	}
	for _, field := range []struct {
		name  string
		value math.Int
	}{
		{"total shares", v.TotalShares},
		{"cumulative liquidated", v.CumulativeLiquidated},
		{"for-sale inventory", v.ForSaleInventory},
		{"pending withdrawal total", v.PendingWithdrawalTotal},
	} {
		if field.value.IsNil() {
			return fmt.Errorf("%s is not set", field.name)
		}
		if field.value.IsNegative() {
			return fmt.Errorf("%s cannot be negative", field.name)
		}
	}
	return nil
}

// WithdrawRequest is the single outstanding redemption record per account.
// New requests merge additively into it; finalize consumes and deletes it.
type WithdrawRequest struct {
	// AmountOwed is the underlying amount promised at request time.
	AmountOwed math.Int `json:"amount_owed"`
	// SharesBurned records the claim units burned when the request was made.
	SharesBurned math.Int `json:"shares_burned"`
	// ReadyAt is the earliest instant finalize is accepted. Each merge
	// extends it to cover the combined amount.
	ReadyAt time.Time `json:"ready_at"`
}

// Merge folds an additional owed amount into the request, extends ReadyAt to
// the later value and enforces the fixed-width accumulation bounds.
func (r WithdrawRequest) Merge(amountOwed, sharesBurned math.Int, readyAt time.Time) (WithdrawRequest, error) {
	combinedAmount, err := r.AmountOwed.SafeAdd(amountOwed)
	if err != nil {
		return WithdrawRequest{}, err
	}
	combinedShares, err := r.SharesBurned.SafeAdd(sharesBurned)
	if err != nil {
		return WithdrawRequest{}, err
	}
	if combinedAmount.GT(MaxRequestAmount) || combinedShares.GT(MaxRequestAmount) {
		return WithdrawRequest{}, fmt.Errorf("request accumulator exceeds %d-bit bound", 112)
	}
	if readyAt.Unix() > MaxRequestUnixTime {
		return WithdrawRequest{}, fmt.Errorf("request ready time exceeds 32-bit unix bound")
	}
	if readyAt.Before(r.ReadyAt) {
		readyAt = r.ReadyAt
	}
	return WithdrawRequest{
		AmountOwed:   combinedAmount,
		SharesBurned: combinedShares,
		ReadyAt:      readyAt,
	}, nil
}

// SaleRecord is an audit entry written for every discounted purchase.
type SaleRecord struct {
	Buyer          string    `json:"buyer"`
	AssetAmount    math.Int  `json:"asset_amount"`
	SharesMinted   math.Int  `json:"shares_minted"`
	PaymentAmount  math.Int  `json:"payment_amount"`
	EffectivePrice math.Int  `json:"effective_price"`
	Timestamp      time.Time `json:"timestamp"`
}
