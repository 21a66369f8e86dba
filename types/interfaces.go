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
	"context"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// CapacityAttestation carries the externally attested deposit capacity. The
// proof bytes are opaque to the accounting engine and validated by the
// Verifier.
type CapacityAttestation struct {
	Capacity math.Int `json:"capacity"`
	Proof    [][]byte `json:"proof,omitempty"`
}

// LiquidationAttestation carries the attested lifetime liquidation total.
// The engine applies the delta against its recorded cumulative total after
// the Verifier accepts the proof.
type LiquidationAttestation struct {
	NewCumulativeLiquidated math.Int `json:"new_cumulative_liquidated"`
	Proof                   [][]byte `json:"proof,omitempty"`
}

// PriceAttestation carries the attested underlying-asset price, scaled by
// PriceScale, denominated in the payment asset.
type PriceAttestation struct {
	Price math.Int `json:"price"`
	Proof [][]byte `json:"proof,omitempty"`
}

// Empty reports whether no liquidation figure was attached to a call.
func (a LiquidationAttestation) Empty() bool {
	return a.NewCumulativeLiquidated.IsNil()
}

// Verifier validates externally attested figures before the engine applies
// them, and answers the rate queries the fee rollover needs. Proof formats
// and the governance process behind them are entirely its concern.
type Verifier interface {
	OnDeposit(ctx context.Context, account string, amount math.Int, capacity CapacityAttestation, liquidation LiquidationAttestation) error
	OnRedeemRequest(ctx context.Context, account string, shares math.Int, liquidation LiquidationAttestation) error
	// OnRedeemFinalize reports whether destination is a registered
	// pass-through router rather than a plain account.
	OnRedeemFinalize(ctx context.Context, destination, account string, shares math.Int, liquidation LiquidationAttestation) (isRouter bool, err error)
	OnPurchase(ctx context.Context, account string, price PriceAttestation) error
	// CurrentFeeRate returns the attested annual fee rate in basis points
	// and the instant it became effective.
	CurrentFeeRate(ctx context.Context) (rateBps uint64, effectiveSince time.Time, err error)
	CurrentReservedFraction(ctx context.Context) (uint64, error)
}

// AssetAdapter binds the vault to one concrete underlying asset. RealBalance
// must include staked and rewarded positions, not just the idle balance, and
// must not be reduced by pending withdrawals or for-sale inventory.
type AssetAdapter interface {
	RealBalance(ctx context.Context) (math.Int, error)
	// AfterDeposit and BeforeWithdrawal perform asset-specific side effects
	// (staking, unstake initiation). Their failure aborts the enclosing
	// operation.
	AfterDeposit(ctx context.Context, amount math.Int) error
	BeforeWithdrawal(ctx context.Context, amount math.Int) error
}

// Router receives the completion callback when a redemption is finalized to
// a registered pass-through destination, enabling one-transaction asset
// conversion without a prior approval.
type Router interface {
	RouteTo(ctx context.Context, account string, payout sdk.Coin) error
}

// BankKeeper is the subset of the host bank module the vault depends on.
type BankKeeper interface {
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
	SendCoins(ctx context.Context, from, to sdk.AccAddress, amt sdk.Coins) error
}
