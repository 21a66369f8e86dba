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

package keeper

import (
	"context"
	"time"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"rca.ease.org/types"
)

var _ types.QueryServer = &queryServer{}

type queryServer struct {
	*Keeper
}

func NewQueryServer(keeper *Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

// Vault returns the stored vault record with pending fee accrual folded in,
// alongside the adapter-reported real balance. The stored record is not
// mutated.
func (q queryServer) Vault(ctx context.Context, req *types.QueryVault) (*types.QueryVaultResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	vault, realBalance, err := q.previewVault(ctx, math.Int{})
	if err != nil {
		return nil, err
	}

	return &types.QueryVaultResponse{Vault: vault, RealBalance: realBalance}, nil
}

func (q queryServer) WithdrawRequest(ctx context.Context, req *types.QueryWithdrawRequest) (*types.QueryWithdrawRequestResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	addrBz, err := q.address.StringToBytes(req.Account)
	if err != nil {
		return nil, errors.Wrapf(types.ErrInvalidRequest, "invalid account address: %s", req.Account)
	}

	request, found, err := q.GetWithdrawRequest(ctx, sdk.AccAddress(addrBz))
	if err != nil {
		return nil, err
	}

	return &types.QueryWithdrawRequestResponse{Request: request, Found: found}, nil
}

func (q queryServer) Shares(ctx context.Context, req *types.QueryShares) (*types.QuerySharesResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	addrBz, err := q.address.StringToBytes(req.Account)
	if err != nil {
		return nil, errors.Wrapf(types.ErrInvalidRequest, "invalid account address: %s", req.Account)
	}

	shares, err := q.GetShares(ctx, sdk.AccAddress(addrBz))
	if err != nil {
		return nil, err
	}

	return &types.QuerySharesResponse{Shares: shares}, nil
}

// PreviewDeposit values a hypothetical deposit at the rate the next
// state-changing call would use, including any not-yet-applied liquidation
// attestation supplied by the caller.
func (q queryServer) PreviewDeposit(ctx context.Context, req *types.QueryPreviewDeposit) (*types.QueryPreviewDepositResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}
	if req.Amount.IsNil() || !req.Amount.IsPositive() {
		return nil, errors.Wrap(types.ErrInvalidAmount, "deposit amount must be positive")
	}

	vault, realBalance, err := q.previewVault(ctx, req.NewCumulativeLiquidated)
	if err != nil {
		return nil, err
	}

	shares := SharesForDeposit(vault.TotalShares, realBalance, vault.ForSaleInventory, vault.PendingWithdrawalTotal, req.Amount)

	return &types.QueryPreviewDepositResponse{Shares: shares}, nil
}

// PreviewRedeem values a hypothetical redemption under the same rollover the
// next state-changing call would perform.
func (q queryServer) PreviewRedeem(ctx context.Context, req *types.QueryPreviewRedeem) (*types.QueryPreviewRedeemResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}
	if req.Shares.IsNil() || !req.Shares.IsPositive() {
		return nil, errors.Wrap(types.ErrInvalidAmount, "share amount must be positive")
	}

	vault, realBalance, err := q.previewVault(ctx, req.NewCumulativeLiquidated)
	if err != nil {
		return nil, err
	}

	amount := AssetsForShares(vault.TotalShares, realBalance, vault.ForSaleInventory, vault.PendingWithdrawalTotal, req.Shares, vault.ReservedFractionBps)

	return &types.QueryPreviewRedeemResponse{Amount: amount}, nil
}

func (q queryServer) SaleRecords(ctx context.Context, req *types.QuerySaleRecords) (*types.QuerySaleRecordsResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 100
	}

	records, err := q.GetRecentSaleRecords(ctx, limit)
	if err != nil {
		return nil, err
	}

	return &types.QuerySaleRecordsResponse{Records: records}, nil
}

func (q queryServer) LiquidationLog(ctx context.Context, req *types.QueryLiquidationLog) (*types.QueryLiquidationLogResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	var entries []types.LiquidationLogEntry
	err := q.IterateLiquidationLog(ctx, func(atUnix int64, cumulative math.Int) (bool, error) {
		entries = append(entries, types.LiquidationLogEntry{
			AppliedAt:            time.Unix(atUnix, 0).UTC(),
			CumulativeLiquidated: cumulative,
		})
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	return &types.QueryLiquidationLogResponse{Entries: entries}, nil
}
