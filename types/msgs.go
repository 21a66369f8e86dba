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

type MsgDeposit struct {
	Depositor   string                 `json:"depositor"`
	Amount      math.Int               `json:"amount"`
	Capacity    CapacityAttestation    `json:"capacity"`
	Liquidation LiquidationAttestation `json:"liquidation"`
}

type MsgDepositResponse struct {
	SharesMinted math.Int `json:"shares_minted"`
}

type MsgRedeemRequest struct {
	Requester   string                 `json:"requester"`
	Shares      math.Int               `json:"shares"`
	Liquidation LiquidationAttestation `json:"liquidation"`
}

type MsgRedeemRequestResponse struct {
	AmountOwed math.Int  `json:"amount_owed"`
	ReadyAt    time.Time `json:"ready_at"`
}

type MsgRedeemFinalize struct {
	Account     string                 `json:"account"`
	Destination string                 `json:"destination"`
	Liquidation LiquidationAttestation `json:"liquidation"`
}

type MsgRedeemFinalizeResponse struct {
	AmountPaid math.Int `json:"amount_paid"`
}

type MsgPurchaseUnderlying struct {
	Buyer       string           `json:"buyer"`
	AssetAmount math.Int         `json:"asset_amount"`
	Payment     sdk.Coin         `json:"payment"`
	Price       PriceAttestation `json:"price"`
}

type MsgPurchaseUnderlyingResponse struct {
	PaymentDue math.Int `json:"payment_due"`
}

type MsgPurchaseShares struct {
	Buyer       string           `json:"buyer"`
	AssetAmount math.Int         `json:"asset_amount"`
	Payment     sdk.Coin         `json:"payment"`
	Price       PriceAttestation `json:"price"`
}

type MsgPurchaseSharesResponse struct {
	SharesMinted math.Int `json:"shares_minted"`
	PaymentDue   math.Int `json:"payment_due"`
}

type MsgSetFeeRate struct {
	Authority string `json:"authority"`
	RateBps   uint64 `json:"rate_bps"`
}

type MsgSetSaleDiscount struct {
	Authority   string `json:"authority"`
	DiscountBps uint64 `json:"discount_bps"`
}

type MsgSetReservedFraction struct {
	Authority   string `json:"authority"`
	FractionBps uint64 `json:"fraction_bps"`
}

type MsgSetWithdrawalDelay struct {
	Authority    string `json:"authority"`
	DelaySeconds int64  `json:"delay_seconds"`
}

type MsgSetTreasury struct {
	Authority string `json:"authority"`
	Treasury  string `json:"treasury"`
}

type MsgSetLiquidationTotal struct {
	Authority               string   `json:"authority"`
	NewCumulativeLiquidated math.Int `json:"new_cumulative_liquidated"`
}

type MsgSetLiquidationTotalResponse struct {
	InventoryDelta math.Int `json:"inventory_delta"`
}

type MsgSetPaused struct {
	Authority string `json:"authority"`
	Paused    bool   `json:"paused"`
}

type MsgEmptyResponse struct{}

// MsgServer is the state-changing surface of the vault accounting engine.
type MsgServer interface {
	Deposit(ctx context.Context, msg *MsgDeposit) (*MsgDepositResponse, error)
	RedeemRequest(ctx context.Context, msg *MsgRedeemRequest) (*MsgRedeemRequestResponse, error)
	RedeemFinalize(ctx context.Context, msg *MsgRedeemFinalize) (*MsgRedeemFinalizeResponse, error)
	PurchaseUnderlying(ctx context.Context, msg *MsgPurchaseUnderlying) (*MsgPurchaseUnderlyingResponse, error)
	PurchaseShares(ctx context.Context, msg *MsgPurchaseShares) (*MsgPurchaseSharesResponse, error)

	SetFeeRate(ctx context.Context, msg *MsgSetFeeRate) (*MsgEmptyResponse, error)
	SetSaleDiscount(ctx context.Context, msg *MsgSetSaleDiscount) (*MsgEmptyResponse, error)
	SetReservedFraction(ctx context.Context, msg *MsgSetReservedFraction) (*MsgEmptyResponse, error)
	SetWithdrawalDelay(ctx context.Context, msg *MsgSetWithdrawalDelay) (*MsgEmptyResponse, error)
	SetTreasury(ctx context.Context, msg *MsgSetTreasury) (*MsgEmptyResponse, error)
	SetLiquidationTotal(ctx context.Context, msg *MsgSetLiquidationTotal) (*MsgSetLiquidationTotalResponse, error)
	SetPaused(ctx context.Context, msg *MsgSetPaused) (*MsgEmptyResponse, error)
}
