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
	"fmt"
	"strconv"

	"cosmossdk.io/core/event"
	"cosmossdk.io/errors"
	"cosmossdk.io/math"

	"rca.ease.org/types"
)

// checkAuthority gates the administrative setters on the governance address.
func (m msgServer) checkAuthority(authority string) error {
	if m.authority != authority {
		return errors.Wrapf(types.ErrInvalidAuthority, "expected %s, got %s", m.authority, authority)
	}
	return nil
}

// updateVault runs a configuration mutation inside a settle so the elapsed
// fee window is always charged under the configuration it accrued under.
func (m msgServer) updateVault(ctx context.Context, mutate func(vault *types.Vault) error) (types.Vault, error) {
	vault, err := m.GetVault(ctx)
	if err != nil {
		return types.Vault{}, errors.Wrap(err, "unable to fetch vault state")
	}
	if err := m.settle(ctx, &vault, types.LiquidationAttestation{}); err != nil {
		return types.Vault{}, err
	}
	if err := mutate(&vault); err != nil {
		return types.Vault{}, err
	}
	if err := m.SetVault(ctx, vault); err != nil {
		return types.Vault{}, errors.Wrap(err, "unable to persist vault state")
	}

	return vault, nil
}

func (m msgServer) emitConfigUpdate(ctx context.Context, field, value string) error {
	return m.event.EventManager(ctx).EmitKV(ctx, types.EventTypeConfigUpdated,
		event.Attribute{Key: types.AttributeKeyField, Value: field},
		event.Attribute{Key: types.AttributeKeyValue, Value: value},
	)
}

// SetFeeRate overrides the stored fee rate. The verifier remains the source
// of truth at the next rollover; this setter exists for recovery when the
// verifier is quiet. Rates above 10000 bps are allowed: the scale is open
// above one.
func (m msgServer) SetFeeRate(ctx context.Context, msg *types.MsgSetFeeRate) (*types.MsgEmptyResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if err := m.checkAuthority(msg.Authority); err != nil {
		return nil, err
	}

	if _, err := m.updateVault(ctx, func(vault *types.Vault) error {
		vault.FeeRateBps = msg.RateBps
		return nil
	}); err != nil {
		return nil, err
	}

	if err := m.emitConfigUpdate(ctx, "fee_rate_bps", strconv.FormatUint(msg.RateBps, 10)); err != nil {
		return nil, err
	}

	return &types.MsgEmptyResponse{}, nil
}

func (m msgServer) SetSaleDiscount(ctx context.Context, msg *types.MsgSetSaleDiscount) (*types.MsgEmptyResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if err := m.checkAuthority(msg.Authority); err != nil {
		return nil, err
	}
	if msg.DiscountBps > types.BpsDenominator {
		return nil, errors.Wrapf(types.ErrInvalidConfig, "sale discount %d exceeds %d bps", msg.DiscountBps, types.BpsDenominator)
	}

	if _, err := m.updateVault(ctx, func(vault *types.Vault) error {
		vault.SaleDiscountBps = msg.DiscountBps
		return nil
	}); err != nil {
		return nil, err
	}

	if err := m.emitConfigUpdate(ctx, "sale_discount_bps", strconv.FormatUint(msg.DiscountBps, 10)); err != nil {
		return nil, err
	}

	return &types.MsgEmptyResponse{}, nil
}

func (m msgServer) SetReservedFraction(ctx context.Context, msg *types.MsgSetReservedFraction) (*types.MsgEmptyResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if err := m.checkAuthority(msg.Authority); err != nil {
		return nil, err
	}
	if msg.FractionBps > types.BpsDenominator {
		return nil, errors.Wrapf(types.ErrInvalidConfig, "reserved fraction %d exceeds %d bps", msg.FractionBps, types.BpsDenominator)
	}

	if _, err := m.updateVault(ctx, func(vault *types.Vault) error {
		vault.ReservedFractionBps = msg.FractionBps
		return nil
	}); err != nil {
		return nil, err
	}

	if err := m.emitConfigUpdate(ctx, "reserved_fraction_bps", strconv.FormatUint(msg.FractionBps, 10)); err != nil {
		return nil, err
	}

	return &types.MsgEmptyResponse{}, nil
}

// SetWithdrawalDelay changes the delay armed on future redemption requests.
// Requests already in flight keep the ReadyAt they were created with.
func (m msgServer) SetWithdrawalDelay(ctx context.Context, msg *types.MsgSetWithdrawalDelay) (*types.MsgEmptyResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if err := m.checkAuthority(msg.Authority); err != nil {
		return nil, err
	}
	if msg.DelaySeconds < 0 {
		return nil, errors.Wrap(types.ErrInvalidConfig, "withdrawal delay cannot be negative")
	}

	if _, err := m.updateVault(ctx, func(vault *types.Vault) error {
		vault.WithdrawalDelaySeconds = msg.DelaySeconds
		return nil
	}); err != nil {
		return nil, err
	}

	if err := m.emitConfigUpdate(ctx, "withdrawal_delay_seconds", strconv.FormatInt(msg.DelaySeconds, 10)); err != nil {
		return nil, err
	}

	return &types.MsgEmptyResponse{}, nil
}

func (m msgServer) SetTreasury(ctx context.Context, msg *types.MsgSetTreasury) (*types.MsgEmptyResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if err := m.checkAuthority(msg.Authority); err != nil {
		return nil, err
	}
	if _, err := m.address.StringToBytes(msg.Treasury); err != nil {
		return nil, errors.Wrapf(types.ErrInvalidConfig, "invalid treasury address: %s", msg.Treasury)
	}

	if _, err := m.updateVault(ctx, func(vault *types.Vault) error {
		vault.Treasury = msg.Treasury
		return nil
	}); err != nil {
		return nil, err
	}

	if err := m.emitConfigUpdate(ctx, "treasury", msg.Treasury); err != nil {
		return nil, err
	}

	return &types.MsgEmptyResponse{}, nil
}

// SetLiquidationTotal overrides the recorded lifetime liquidation total.
// Unlike the attestations riding on user operations, this path accepts
// downward corrections, clawing the difference back out of for-sale
// inventory.
func (m msgServer) SetLiquidationTotal(ctx context.Context, msg *types.MsgSetLiquidationTotal) (*types.MsgSetLiquidationTotalResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if err := m.checkAuthority(msg.Authority); err != nil {
		return nil, err
	}

	delta := math.ZeroInt()
	vault, err := m.updateVault(ctx, func(vault *types.Vault) error {
		d, err := applyLiquidation(vault, msg.NewCumulativeLiquidated, true)
		if err != nil {
			return err
		}
		delta = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !delta.IsZero() {
		now := m.header.GetHeaderInfo(ctx).Time
		if err := m.RecordLiquidation(ctx, now.Unix(), vault.CumulativeLiquidated); err != nil {
			return nil, err
		}

		m.logger.Info("liquidation total overridden",
			"delta", delta.String(),
			"cumulative", vault.CumulativeLiquidated.String(),
			"for_sale_inventory", vault.ForSaleInventory.String(),
		)

		if err := m.event.EventManager(ctx).EmitKV(ctx, types.EventTypeLiquidationApply,
			event.Attribute{Key: types.AttributeKeyAmount, Value: delta.String()},
			event.Attribute{Key: types.AttributeKeyCumulative, Value: vault.CumulativeLiquidated.String()},
			event.Attribute{Key: types.AttributeKeyInventory, Value: vault.ForSaleInventory.String()},
		); err != nil {
			return nil, err
		}
	}

	return &types.MsgSetLiquidationTotalResponse{InventoryDelta: delta}, nil
}

func (m msgServer) SetPaused(ctx context.Context, msg *types.MsgSetPaused) (*types.MsgEmptyResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if err := m.checkAuthority(msg.Authority); err != nil {
		return nil, err
	}

	if err := m.Keeper.SetPaused(ctx, msg.Paused); err != nil {
		return nil, errors.Wrap(err, "unable to persist pause flag")
	}

	if err := m.emitConfigUpdate(ctx, "paused", fmt.Sprintf("%t", msg.Paused)); err != nil {
		return nil, err
	}

	return &types.MsgEmptyResponse{}, nil
}
