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
	"errors"

	"cosmossdk.io/collections"
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"rca.ease.org/types"
)

// InitVault writes the initial vault configuration. Called once from genesis
// or test setup; subsequent calls overwrite the configuration wholesale.
func (k *Keeper) InitVault(ctx context.Context, vault types.Vault) error {
	if err := vault.Validate(); err != nil {
		return sdkerrors.Wrap(types.ErrInvalidConfig, err.Error())
	}
	if vault.LastAccrual.IsZero() {
		vault.LastAccrual = k.header.GetHeaderInfo(ctx).Time
	}
	return k.Vault.Set(ctx, vault)
}

// GetVault returns the vault record, or a zeroed vault when none has been
// initialised yet so callers can update it safely.
func (k *Keeper) GetVault(ctx context.Context) (types.Vault, error) {
	vault, err := k.Vault.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.NewVault(0, 0, 0, ""), nil
		}
		return types.Vault{}, err
	}

	return vault, nil
}

// SetVault persists the vault record after re-checking its structural
// invariants. Every state transition funnels through here.
func (k *Keeper) SetVault(ctx context.Context, vault types.Vault) error {
	if err := vault.Validate(); err != nil {
		return sdkerrors.Wrap(types.ErrInvalidConfig, err.Error())
	}
	return k.Vault.Set(ctx, vault)
}

// GetPaused reports whether state-changing operations are halted.
func (k *Keeper) GetPaused(ctx context.Context) bool {
	paused, err := k.Paused.Get(ctx)
	if err != nil {
		return false
	}
	return paused
}

// SetPaused flips the operation halt flag.
func (k *Keeper) SetPaused(ctx context.Context, paused bool) error {
	return k.Paused.Set(ctx, paused)
}

// GetWithdrawRequest returns the outstanding request for an account. The
// boolean flag indicates whether one existed in state.
func (k *Keeper) GetWithdrawRequest(ctx context.Context, account sdk.AccAddress) (types.WithdrawRequest, bool, error) {
	request, err := k.WithdrawRequests.Get(ctx, account)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.WithdrawRequest{}, false, nil
		}
		return types.WithdrawRequest{}, false, err
	}

	return request, true, nil
}

// SetWithdrawRequest stores the outstanding request for an account.
func (k *Keeper) SetWithdrawRequest(ctx context.Context, account sdk.AccAddress, request types.WithdrawRequest) error {
	return k.WithdrawRequests.Set(ctx, account, request)
}

// DeleteWithdrawRequest removes an account's request record.
func (k *Keeper) DeleteWithdrawRequest(ctx context.Context, account sdk.AccAddress) error {
	return k.WithdrawRequests.Remove(ctx, account)
}

// GetShares returns the claim balance for an account. Missing entries are
// treated as zero without error.
func (k *Keeper) GetShares(ctx context.Context, account sdk.AccAddress) (math.Int, error) {
	shares, err := k.Shares.Get(ctx, account)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return math.ZeroInt(), nil
		}
		return math.ZeroInt(), err
	}

	return shares, nil
}

// SetShares updates the claim balance for an account, deleting the entry
// when the balance reaches zero to keep the store compact.
func (k *Keeper) SetShares(ctx context.Context, account sdk.AccAddress, shares math.Int) error {
	if !shares.IsPositive() {
		if err := k.Shares.Remove(ctx, account); err != nil && !errors.Is(err, collections.ErrNotFound) {
			return err
		}
		return nil
	}

	return k.Shares.Set(ctx, account, shares)
}

// NextSaleRecordID increments and returns the next sale record identifier.
// Identifiers start at one.
func (k *Keeper) NextSaleRecordID(ctx context.Context) (uint64, error) {
	next, err := k.SaleRecordNextID.Get(ctx)
	if err != nil {
		if !errors.Is(err, collections.ErrNotFound) {
			return 0, err
		}

		next = 1
	} else {
		next++
	}

	if err := k.SaleRecordNextID.Set(ctx, next); err != nil {
		return 0, err
	}

	return next, nil
}

// AppendSaleRecord stores an audit entry for a completed discounted sale.
func (k *Keeper) AppendSaleRecord(ctx context.Context, record types.SaleRecord) error {
	id, err := k.NextSaleRecordID(ctx)
	if err != nil {
		return err
	}

	return k.SaleRecords.Set(ctx, id, record)
}

// GetRecentSaleRecords returns up to limit sale records, newest first.
func (k *Keeper) GetRecentSaleRecords(ctx context.Context, limit int) ([]types.SaleRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	currentID, err := k.SaleRecordNextID.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	records := make([]types.SaleRecord, 0, limit)
	for i := currentID; i > 0 && len(records) < limit; i-- {
		record, err := k.SaleRecords.Get(ctx, i)
		if err != nil {
			if errors.Is(err, collections.ErrNotFound) {
				continue
			}
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// RecordLiquidation appends the applied cumulative total to the audit log,
// keyed by the application time.
func (k *Keeper) RecordLiquidation(ctx context.Context, atUnix int64, cumulative math.Int) error {
	return k.LiquidationLog.Set(ctx, atUnix, cumulative)
}

// IterateLiquidationLog walks the liquidation audit log in chronological
// order. Returning true from the callback stops the iteration early.
func (k *Keeper) IterateLiquidationLog(ctx context.Context, fn func(atUnix int64, cumulative math.Int) (bool, error)) error {
	return k.LiquidationLog.Walk(ctx, nil, fn)
}
