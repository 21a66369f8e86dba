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

	"cosmossdk.io/core/event"
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"

	"rca.ease.org/types"
)

// secondsBetween returns the whole seconds from a to b, never negative.
func secondsBetween(a, b time.Time) int64 {
	d := b.Unix() - a.Unix()
	if d < 0 {
		return 0
	}
	return d
}

// SharesForDeposit converts an underlying amount into claim units. The pool
// backing new deposits excludes both for-sale inventory and pending
// withdrawals. A fresh vault, a zero supply, or a real balance inconsistent
// with the bookkeeping falls back to a 1:1 rate rather than wrapping.
func SharesForDeposit(totalShares, realBalance, forSale, pending, amount math.Int) math.Int {
	if totalShares.IsZero() || realBalance.IsZero() {
		return amount
	}
	pool := realBalance.Sub(forSale).Sub(pending)
	if !pool.IsPositive() {
		return amount
	}
	return totalShares.Mul(amount).Quo(pool)
}

// AssetsForShares converts claim units back into underlying. Pending
// withdrawals are added back here: redeemers whose shares were already
// burned walked away with that value, so it no longer backs the remaining
// supply the way it reduces the pool for new deposits. The sign asymmetry
// with SharesForDeposit is deliberate and must not be "simplified" away.
// The reserved fraction scales the result down only on the pro-rata path,
// never on the 1:1 fallbacks.
func AssetsForShares(totalShares, realBalance, forSale, pending, shares math.Int, reservedBps uint64) math.Int {
	if totalShares.IsZero() {
		return shares
	}
	backing := realBalance.Sub(forSale).Add(pending)
	if backing.IsNegative() {
		return shares
	}
	assets := backing.Mul(shares).Quo(totalShares)
	if reservedBps > 0 {
		assets = assets.Sub(assets.MulRaw(int64(reservedBps)).QuoRaw(int64(types.BpsDenominator)))
	}
	return assets
}

// applyLiquidation folds the delta between an attested lifetime liquidation
// total and the recorded one into for-sale inventory. The cumulative-total
// pattern (never a raw delta) lets a figure corrected downward before the
// next loss event net out correctly instead of double-applying a stale
// interim value. Downward corrections are only accepted on the explicit
// administrative path.
func applyLiquidation(vault *types.Vault, newCumulative math.Int, allowCorrection bool) (math.Int, error) {
	if newCumulative.IsNil() || newCumulative.IsNegative() {
		return math.ZeroInt(), sdkerrors.Wrap(types.ErrInvalidAmount, "cumulative liquidation total must be non-negative")
	}

	delta := newCumulative.Sub(vault.CumulativeLiquidated)
	if delta.IsZero() {
		return math.ZeroInt(), nil
	}
	if delta.IsNegative() && !allowCorrection {
		return math.ZeroInt(), sdkerrors.Wrapf(
			types.ErrStaleAttestation,
			"attested total %s is below the recorded total %s",
			newCumulative, vault.CumulativeLiquidated,
		)
	}

	inventory, err := vault.ForSaleInventory.SafeAdd(delta)
	if err != nil {
		return math.ZeroInt(), sdkerrors.Wrap(types.ErrOverflow, err.Error())
	}
	if inventory.IsNegative() {
		return math.ZeroInt(), sdkerrors.Wrap(types.ErrOverflow, "correction would drive for-sale inventory negative")
	}

	vault.ForSaleInventory = inventory
	vault.CumulativeLiquidated = newCumulative

	return delta, nil
}

// accrue rolls the time-based fee for the window since the last accrual into
// for-sale inventory and advances the accrual clock. The verifier supplies
// the attested rate and reserved fraction. When the attested rate became
// effective inside the window, the fee is computed piecewise: the stored
// rate up to the change, the attested rate after it, which equals charging
// the time-weighted average rate over the whole window. Only a single
// mid-window breakpoint is interpolated.
//
// The accrual clock always advances, whether or not the fee branch ran. The
// vault record is mutated in memory only; callers persist it.
func (k *Keeper) accrue(ctx context.Context, vault *types.Vault) (math.Int, error) {
	now := k.header.GetHeaderInfo(ctx).Time

	rateBps, effectiveSince, err := k.verifier.CurrentFeeRate(ctx)
	if err != nil {
		return math.ZeroInt(), sdkerrors.Wrap(types.ErrVerifierRejected, err.Error())
	}
	reservedBps, err := k.verifier.CurrentReservedFraction(ctx)
	if err != nil {
		return math.ZeroInt(), sdkerrors.Wrap(types.ErrVerifierRejected, err.Error())
	}
	if reservedBps > types.BpsDenominator {
		return math.ZeroInt(), sdkerrors.Wrapf(types.ErrInvalidConfig, "reserved fraction %d exceeds %d bps", reservedBps, types.BpsDenominator)
	}

	if vault.LastAccrual.IsZero() {
		vault.LastAccrual = now
	}
	elapsed := secondsBetween(vault.LastAccrual, now)

	var rateSeconds math.Int
	switch {
	case rateBps == vault.FeeRateBps || !effectiveSince.After(vault.LastAccrual):
		// No change, or the change predates the window: one rate covers it.
		rateSeconds = math.NewIntFromUint64(rateBps).MulRaw(elapsed)
	case effectiveSince.After(now):
		// Future-dated change, nothing to interpolate yet.
		rateSeconds = math.NewIntFromUint64(vault.FeeRateBps).MulRaw(elapsed)
	default:
		d2 := secondsBetween(effectiveSince, now)
		d1 := elapsed - d2
		rateSeconds = math.NewIntFromUint64(vault.FeeRateBps).MulRaw(d1).
			Add(math.NewIntFromUint64(rateBps).MulRaw(d2))
	}

	fee := math.ZeroInt()
	if rateSeconds.IsPositive() {
		realBalance, err := k.adapter.RealBalance(ctx)
		if err != nil {
			return math.ZeroInt(), err
		}

		// The fee only accrues when the active balance is computable
		// without underflow; a real balance inconsistent with the
		// bookkeeping must not wrap into a huge charge.
		active := realBalance.Sub(vault.PendingWithdrawalTotal).Sub(vault.ForSaleInventory)
		if active.IsPositive() {
			bps := math.NewIntFromUint64(types.BpsDenominator)
			fee = active.
				Mul(math.NewIntFromUint64(types.BpsDenominator - reservedBps)).
				Mul(rateSeconds).
				Quo(math.NewInt(types.SecondsPerYear)).
				Quo(bps).
				Quo(bps)
			if fee.IsPositive() {
				inventory, err := vault.ForSaleInventory.SafeAdd(fee)
				if err != nil {
					return math.ZeroInt(), sdkerrors.Wrap(types.ErrOverflow, err.Error())
				}
				vault.ForSaleInventory = inventory
			}
		}
	}

	if !effectiveSince.After(now) {
		vault.FeeRateBps = rateBps
	}
	vault.ReservedFractionBps = reservedBps
	vault.LastAccrual = now

	return fee, nil
}

// settle is the shared rollover executed at the start of every state-changing
// call: fees accrue first so the elapsed window is charged against
// pre-liquidation inventory, then any attested liquidation delta is applied
// and logged. The caller persists the vault afterwards.
func (k *Keeper) settle(ctx context.Context, vault *types.Vault, liquidation types.LiquidationAttestation) error {
	fee, err := k.accrue(ctx, vault)
	if err != nil {
		return err
	}
	if fee.IsPositive() {
		if err := k.event.EventManager(ctx).EmitKV(ctx, types.EventTypeFeeAccrued,
			event.Attribute{Key: types.AttributeKeyAmount, Value: fee.String()},
			event.Attribute{Key: types.AttributeKeyInventory, Value: vault.ForSaleInventory.String()},
		); err != nil {
			return err
		}
	}

	if liquidation.Empty() {
		return nil
	}

	delta, err := applyLiquidation(vault, liquidation.NewCumulativeLiquidated, false)
	if err != nil {
		return err
	}
	if delta.IsZero() {
		return nil
	}

	now := k.header.GetHeaderInfo(ctx).Time
	if err := k.RecordLiquidation(ctx, now.Unix(), vault.CumulativeLiquidated); err != nil {
		return err
	}

	k.logger.Info("applied liquidation attestation",
		"delta", delta.String(),
		"cumulative", vault.CumulativeLiquidated.String(),
		"for_sale_inventory", vault.ForSaleInventory.String(),
	)

	return k.event.EventManager(ctx).EmitKV(ctx, types.EventTypeLiquidationApply,
		event.Attribute{Key: types.AttributeKeyAmount, Value: delta.String()},
		event.Attribute{Key: types.AttributeKeyCumulative, Value: vault.CumulativeLiquidated.String()},
		event.Attribute{Key: types.AttributeKeyInventory, Value: vault.ForSaleInventory.String()},
	)
}

// previewVault returns a copy of the vault with pending fee accrual and an
// optional not-yet-applied liquidation attestation folded in, together with
// the adapter-reported real balance. Nothing is written: query handlers use
// it to value conversions the way the next state-changing call would.
func (k *Keeper) previewVault(ctx context.Context, newCumulative math.Int) (types.Vault, math.Int, error) {
	vault, err := k.GetVault(ctx)
	if err != nil {
		return types.Vault{}, math.Int{}, err
	}

	if _, err := k.accrue(ctx, &vault); err != nil {
		return types.Vault{}, math.Int{}, err
	}

	if !newCumulative.IsNil() {
		if _, err := applyLiquidation(&vault, newCumulative, false); err != nil {
			return types.Vault{}, math.Int{}, err
		}
	}

	realBalance, err := k.adapter.RealBalance(ctx)
	if err != nil {
		return types.Vault{}, math.Int{}, err
	}

	return vault, realBalance, nil
}
