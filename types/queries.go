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
)

type QueryVault struct{}

type QueryVaultResponse struct {
	Vault       Vault    `json:"vault"`
	RealBalance math.Int `json:"real_balance"`
}

type QueryWithdrawRequest struct {
	Account string `json:"account"`
}

type QueryWithdrawRequestResponse struct {
	Request WithdrawRequest `json:"request"`
	Found   bool            `json:"found"`
}

type QueryShares struct {
	Account string `json:"account"`
}

type QuerySharesResponse struct {
	Shares math.Int `json:"shares"`
}

// QueryPreviewDeposit values a hypothetical deposit. When
// NewCumulativeLiquidated is set, the conversion is computed as if that
// attestation had been applied, without mutating state.
type QueryPreviewDeposit struct {
	Amount                  math.Int `json:"amount"`
	NewCumulativeLiquidated math.Int `json:"new_cumulative_liquidated,omitempty"`
}

type QueryPreviewDepositResponse struct {
	Shares math.Int `json:"shares"`
}

// QueryPreviewRedeem values a hypothetical redemption under an optional
// pending liquidation attestation.
type QueryPreviewRedeem struct {
	Shares                  math.Int `json:"shares"`
	NewCumulativeLiquidated math.Int `json:"new_cumulative_liquidated,omitempty"`
}

type QueryPreviewRedeemResponse struct {
	Amount math.Int `json:"amount"`
}

type QuerySaleRecords struct {
	Limit int `json:"limit"`
}

type QuerySaleRecordsResponse struct {
	Records []SaleRecord `json:"records"`
}

type QueryLiquidationLog struct{}

type LiquidationLogEntry struct {
	AppliedAt            time.Time `json:"applied_at"`
	CumulativeLiquidated math.Int  `json:"cumulative_liquidated"`
}

type QueryLiquidationLogResponse struct {
	Entries []LiquidationLogEntry `json:"entries"`
}

// QueryServer is the read-only valuation and inspection surface.
type QueryServer interface {
	Vault(ctx context.Context, req *QueryVault) (*QueryVaultResponse, error)
	WithdrawRequest(ctx context.Context, req *QueryWithdrawRequest) (*QueryWithdrawRequestResponse, error)
	Shares(ctx context.Context, req *QueryShares) (*QuerySharesResponse, error)
	PreviewDeposit(ctx context.Context, req *QueryPreviewDeposit) (*QueryPreviewDepositResponse, error)
	PreviewRedeem(ctx context.Context, req *QueryPreviewRedeem) (*QueryPreviewRedeemResponse, error)
	SaleRecords(ctx context.Context, req *QuerySaleRecords) (*QuerySaleRecordsResponse, error)
	LiquidationLog(ctx context.Context, req *QueryLiquidationLog) (*QueryLiquidationLogResponse, error)
}
