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
	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"rca.ease.org/types"
)

var _ types.MsgServer = &msgServer{}

type msgServer struct {
	*Keeper
}

func NewMsgServer(keeper *Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

// Deposit pulls underlying into the vault and mints claim units at the
// current exchange rate, computed against the pre-transfer for-sale
// inventory.
func (m msgServer) Deposit(ctx context.Context, msg *types.MsgDeposit) (*types.MsgDepositResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if msg.Amount.IsNil() || !msg.Amount.IsPositive() {
		return nil, errors.Wrap(types.ErrInvalidAmount, "deposit amount must be positive")
	}
	if m.GetPaused(ctx) {
		return nil, types.ErrPaused
	}

	addrBz, err := m.address.StringToBytes(msg.Depositor)
	if err != nil {
		return nil, errors.Wrapf(types.ErrInvalidRequest, "invalid depositor address: %s", msg.Depositor)
	}
	depositor := sdk.AccAddress(addrBz)

	if err := m.verifier.OnDeposit(ctx, msg.Depositor, msg.Amount, msg.Capacity, msg.Liquidation); err != nil {
		return nil, errors.Wrap(types.ErrVerifierRejected, err.Error())
	}

	vault, err := m.GetVault(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "unable to fetch vault state")
	}
	if err := m.settle(ctx, &vault, msg.Liquidation); err != nil {
		return nil, err
	}

	realBalance, err := m.adapter.RealBalance(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read real balance from adapter")
	}

	shares := SharesForDeposit(vault.TotalShares, realBalance, vault.ForSaleInventory, vault.PendingWithdrawalTotal, msg.Amount)
	if !shares.IsPositive() {
		return nil, errors.Wrap(types.ErrInvalidAmount, "deposit too small to mint any claim units")
	}

	currentShares, err := m.GetShares(ctx, depositor)
	if err != nil {
		return nil, errors.Wrap(err, "unable to fetch depositor shares")
	}
	updatedShares, err := currentShares.SafeAdd(shares)
	if err != nil {
		return nil, errors.Wrap(types.ErrOverflow, err.Error())
	}
	totalShares, err := vault.TotalShares.SafeAdd(shares)
	if err != nil {
		return nil, errors.Wrap(types.ErrOverflow, err.Error())
	}
	vault.TotalShares = totalShares

	coin := sdk.NewCoin(m.denom, msg.Amount)
	if err := m.bank.SendCoins(ctx, depositor, types.ModuleAddress, sdk.NewCoins(coin)); err != nil {
		return nil, errors.Wrap(err, "unable to transfer deposit into module account")
	}

	if err := m.SetShares(ctx, depositor, updatedShares); err != nil {
		return nil, errors.Wrap(err, "unable to persist depositor shares")
	}
	if err := m.SetVault(ctx, vault); err != nil {
		return nil, errors.Wrap(err, "unable to persist vault state")
	}

	if err := m.adapter.AfterDeposit(ctx, msg.Amount); err != nil {
		return nil, errors.Wrap(err, "adapter post-deposit hook failed")
	}

	if err := m.event.EventManager(ctx).EmitKV(ctx, types.EventTypeDeposit,
		event.Attribute{Key: types.AttributeKeyAccount, Value: msg.Depositor},
		event.Attribute{Key: types.AttributeKeyAmount, Value: msg.Amount.String()},
		event.Attribute{Key: types.AttributeKeyShares, Value: shares.String()},
	); err != nil {
		return nil, errors.Wrap(err, "unable to emit deposit event")
	}

	return &types.MsgDepositResponse{SharesMinted: shares}, nil
}

// RedeemRequest burns claim units immediately and opens (or extends) the
// account's withdrawal request for the owed underlying amount. The burn
// locks the exchange rate now; the assets leave at finalize.
func (m msgServer) RedeemRequest(ctx context.Context, msg *types.MsgRedeemRequest) (*types.MsgRedeemRequestResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if msg.Shares.IsNil() || !msg.Shares.IsPositive() {
		return nil, errors.Wrap(types.ErrInvalidAmount, "share amount must be positive")
	}
	if m.GetPaused(ctx) {
		return nil, types.ErrPaused
	}

	addrBz, err := m.address.StringToBytes(msg.Requester)
	if err != nil {
		return nil, errors.Wrapf(types.ErrInvalidRequest, "invalid requester address: %s", msg.Requester)
	}
	requester := sdk.AccAddress(addrBz)

	if err := m.verifier.OnRedeemRequest(ctx, msg.Requester, msg.Shares, msg.Liquidation); err != nil {
		return nil, errors.Wrap(types.ErrVerifierRejected, err.Error())
	}

	vault, err := m.GetVault(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "unable to fetch vault state")
	}
	if err := m.settle(ctx, &vault, msg.Liquidation); err != nil {
		return nil, err
	}

	userShares, err := m.GetShares(ctx, requester)
	if err != nil {
		return nil, errors.Wrap(err, "unable to fetch requester shares")
	}
	if userShares.LT(msg.Shares) {
		return nil, errors.Wrap(types.ErrInvalidAmount, "insufficient shares to redeem")
	}

	realBalance, err := m.adapter.RealBalance(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read real balance from adapter")
	}

	owed := AssetsForShares(vault.TotalShares, realBalance, vault.ForSaleInventory, vault.PendingWithdrawalTotal, msg.Shares, vault.ReservedFractionBps)
	if !owed.IsPositive() {
		return nil, errors.Wrap(types.ErrInvalidAmount, "redemption too small to release any underlying")
	}

	pending, err := vault.PendingWithdrawalTotal.SafeAdd(owed)
	if err != nil {
		return nil, errors.Wrap(types.ErrOverflow, err.Error())
	}
	if pending.GT(realBalance) {
		return nil, errors.Wrap(types.ErrOverflow, "pending withdrawals would exceed the real balance")
	}

	totalShares, err := vault.TotalShares.SafeSub(msg.Shares)
	if err != nil {
		return nil, errors.Wrap(types.ErrOverflow, err.Error())
	}
	if totalShares.IsNegative() {
		return nil, errors.Wrap(types.ErrOverflow, "share supply would go negative")
	}

	headerInfo := m.header.GetHeaderInfo(ctx)
	request, found, err := m.GetWithdrawRequest(ctx, requester)
	if err != nil {
		return nil, errors.Wrap(err, "unable to fetch withdrawal request")
	}
	if !found {
		request = types.WithdrawRequest{AmountOwed: math.ZeroInt(), SharesBurned: math.ZeroInt()}
	}

	// Each new request re-arms the delay for the combined amount; partial
	// finalization is not supported.
	readyAt := headerInfo.Time.Add(time.Duration(vault.WithdrawalDelaySeconds) * time.Second)
	merged, err := request.Merge(owed, msg.Shares, readyAt)
	if err != nil {
		return nil, errors.Wrap(types.ErrOverflow, err.Error())
	}

	if err := m.adapter.BeforeWithdrawal(ctx, owed); err != nil {
		return nil, errors.Wrap(err, "adapter pre-withdrawal hook failed")
	}

	vault.TotalShares = totalShares
	vault.PendingWithdrawalTotal = pending
	if err := m.SetShares(ctx, requester, userShares.Sub(msg.Shares)); err != nil {
		return nil, errors.Wrap(err, "unable to persist requester shares")
	}
	if err := m.SetWithdrawRequest(ctx, requester, merged); err != nil {
		return nil, errors.Wrap(err, "unable to persist withdrawal request")
	}
	if err := m.SetVault(ctx, vault); err != nil {
		return nil, errors.Wrap(err, "unable to persist vault state")
	}

	if err := m.event.EventManager(ctx).EmitKV(ctx, types.EventTypeRedeemRequested,
		event.Attribute{Key: types.AttributeKeyAccount, Value: msg.Requester},
		event.Attribute{Key: types.AttributeKeyShares, Value: msg.Shares.String()},
		event.Attribute{Key: types.AttributeKeyAmount, Value: owed.String()},
		event.Attribute{Key: types.AttributeKeyReadyAt, Value: merged.ReadyAt.String()},
	); err != nil {
		return nil, errors.Wrap(err, "unable to emit redeem requested event")
	}

	return &types.MsgRedeemRequestResponse{AmountOwed: owed, ReadyAt: merged.ReadyAt}, nil
}

// RedeemFinalize pays out a matured withdrawal request to its owner, or to
// a registered pass-through router when the verifier flags the destination.
func (m msgServer) RedeemFinalize(ctx context.Context, msg *types.MsgRedeemFinalize) (*types.MsgRedeemFinalizeResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if m.GetPaused(ctx) {
		return nil, types.ErrPaused
	}

	accountBz, err := m.address.StringToBytes(msg.Account)
	if err != nil {
		return nil, errors.Wrapf(types.ErrInvalidRequest, "invalid account address: %s", msg.Account)
	}
	account := sdk.AccAddress(accountBz)

	destinationBz, err := m.address.StringToBytes(msg.Destination)
	if err != nil {
		return nil, errors.Wrapf(types.ErrInvalidRequest, "invalid destination address: %s", msg.Destination)
	}
	destination := sdk.AccAddress(destinationBz)

	request, found, err := m.GetWithdrawRequest(ctx, account)
	if err != nil {
		return nil, errors.Wrap(err, "unable to fetch withdrawal request")
	}
	if !found {
		return nil, types.ErrNoRequest
	}

	headerInfo := m.header.GetHeaderInfo(ctx)
	if !headerInfo.Time.After(request.ReadyAt) {
		return nil, errors.Wrapf(types.ErrWithdrawalNotReady, "ready at %s", request.ReadyAt)
	}

	isRouter, err := m.verifier.OnRedeemFinalize(ctx, msg.Destination, msg.Account, request.SharesBurned, msg.Liquidation)
	if err != nil {
		return nil, errors.Wrap(types.ErrVerifierRejected, err.Error())
	}

	var router types.Router
	if isRouter {
		router = m.routers[msg.Destination]
		if router == nil {
			return nil, errors.Wrapf(types.ErrUnknownRouter, "destination %s", msg.Destination)
		}
	} else if !destination.Equals(account) {
		return nil, errors.Wrapf(types.ErrUnauthorizedDestination, "destination %s", msg.Destination)
	}

	// The record goes away before any transfer so a reentrant finalize
	// finds nothing to pay out.
	if err := m.DeleteWithdrawRequest(ctx, account); err != nil {
		return nil, errors.Wrap(err, "unable to delete withdrawal request")
	}

	vault, err := m.GetVault(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "unable to fetch vault state")
	}
	if err := m.settle(ctx, &vault, msg.Liquidation); err != nil {
		return nil, err
	}

	pending, err := vault.PendingWithdrawalTotal.SafeSub(request.AmountOwed)
	if err != nil {
		return nil, errors.Wrap(types.ErrOverflow, err.Error())
	}
	if pending.IsNegative() {
		return nil, errors.Wrap(types.ErrOverflow, "pending withdrawal total would go negative")
	}
	vault.PendingWithdrawalTotal = pending
	if err := m.SetVault(ctx, vault); err != nil {
		return nil, errors.Wrap(err, "unable to persist vault state")
	}

	payout := sdk.NewCoin(m.denom, request.AmountOwed)
	if err := m.bank.SendCoins(ctx, types.ModuleAddress, destination, sdk.NewCoins(payout)); err != nil {
		return nil, errors.Wrap(err, "unable to transfer withdrawal proceeds")
	}

	if isRouter {
		if err := router.RouteTo(ctx, msg.Account, payout); err != nil {
			return nil, errors.Wrap(err, "router completion callback failed")
		}
	}

	if err := m.event.EventManager(ctx).EmitKV(ctx, types.EventTypeRedeemFinalized,
		event.Attribute{Key: types.AttributeKeyAccount, Value: msg.Account},
		event.Attribute{Key: types.AttributeKeyDestination, Value: msg.Destination},
		event.Attribute{Key: types.AttributeKeyAmount, Value: request.AmountOwed.String()},
	); err != nil {
		return nil, errors.Wrap(err, "unable to emit redeem finalized event")
	}

	return &types.MsgRedeemFinalizeResponse{AmountPaid: request.AmountOwed}, nil
}

// discountedPaymentDue computes the exact payment owed for an inventory
// purchase. Both purchase variants share it so neither can be arbitraged
// against the other.
func discountedPaymentDue(vault types.Vault, attestedPrice, assetAmount math.Int) (paymentDue, effectivePrice math.Int, err error) {
	if attestedPrice.IsNil() || !attestedPrice.IsPositive() {
		return math.Int{}, math.Int{}, errors.Wrap(types.ErrInvalidAmount, "attested price must be positive")
	}

	effectivePrice = attestedPrice.Sub(attestedPrice.MulRaw(int64(vault.SaleDiscountBps)).QuoRaw(int64(types.BpsDenominator)))
	paymentDue = effectivePrice.Mul(assetAmount).Quo(types.PriceScale)

	return paymentDue, effectivePrice, nil
}

// takeInventory removes an exact amount from for-sale inventory, rejecting
// the whole call when it would go negative.
func takeInventory(vault *types.Vault, assetAmount math.Int) error {
	inventory := vault.ForSaleInventory.Sub(assetAmount)
	if inventory.IsNegative() {
		return errors.Wrapf(types.ErrInsufficientInventory, "requested %s, available %s", assetAmount, vault.ForSaleInventory)
	}
	vault.ForSaleInventory = inventory
	return nil
}

func (m msgServer) beginPurchase(ctx context.Context, buyer string, assetAmount math.Int, payment sdk.Coin, price types.PriceAttestation) (sdk.AccAddress, types.Vault, error) {
	if assetAmount.IsNil() || !assetAmount.IsPositive() {
		return nil, types.Vault{}, errors.Wrap(types.ErrInvalidAmount, "purchase amount must be positive")
	}
	if payment.Denom != m.paymentDenom {
		return nil, types.Vault{}, errors.Wrapf(types.ErrInvalidRequest, "payment must be denominated in %s", m.paymentDenom)
	}
	if m.GetPaused(ctx) {
		return nil, types.Vault{}, types.ErrPaused
	}

	addrBz, err := m.address.StringToBytes(buyer)
	if err != nil {
		return nil, types.Vault{}, errors.Wrapf(types.ErrInvalidRequest, "invalid buyer address: %s", buyer)
	}

	if err := m.verifier.OnPurchase(ctx, buyer, price); err != nil {
		return nil, types.Vault{}, errors.Wrap(types.ErrVerifierRejected, err.Error())
	}

	vault, err := m.GetVault(ctx)
	if err != nil {
		return nil, types.Vault{}, errors.Wrap(err, "unable to fetch vault state")
	}
	if err := m.settle(ctx, &vault, types.LiquidationAttestation{}); err != nil {
		return nil, types.Vault{}, err
	}
	if vault.Treasury == "" {
		return nil, types.Vault{}, errors.Wrap(types.ErrInvalidConfig, "treasury is not configured")
	}

	return sdk.AccAddress(addrBz), vault, nil
}

// PurchaseUnderlying sells underlying out of for-sale inventory at the
// attested price less the configured discount, against exact payment.
func (m msgServer) PurchaseUnderlying(ctx context.Context, msg *types.MsgPurchaseUnderlying) (*types.MsgPurchaseUnderlyingResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}

	buyer, vault, err := m.beginPurchase(ctx, msg.Buyer, msg.AssetAmount, msg.Payment, msg.Price)
	if err != nil {
		return nil, err
	}

	paymentDue, effectivePrice, err := discountedPaymentDue(vault, msg.Price.Price, msg.AssetAmount)
	if err != nil {
		return nil, err
	}
	if !msg.Payment.Amount.Equal(paymentDue) {
		return nil, errors.Wrapf(types.ErrPaymentMismatch, "due %s, got %s", paymentDue, msg.Payment.Amount)
	}

	if err := takeInventory(&vault, msg.AssetAmount); err != nil {
		return nil, err
	}
	if err := m.SetVault(ctx, vault); err != nil {
		return nil, errors.Wrap(err, "unable to persist vault state")
	}

	treasury, err := m.address.StringToBytes(vault.Treasury)
	if err != nil {
		return nil, errors.Wrap(types.ErrInvalidConfig, "treasury address is malformed")
	}
	if err := m.bank.SendCoins(ctx, buyer, sdk.AccAddress(treasury), sdk.NewCoins(msg.Payment)); err != nil {
		return nil, errors.Wrap(err, "unable to forward payment to treasury")
	}
	if err := m.bank.SendCoins(ctx, types.ModuleAddress, buyer, sdk.NewCoins(sdk.NewCoin(m.denom, msg.AssetAmount))); err != nil {
		return nil, errors.Wrap(err, "unable to transfer purchased underlying")
	}

	headerInfo := m.header.GetHeaderInfo(ctx)
	if err := m.AppendSaleRecord(ctx, types.SaleRecord{
		Buyer:          msg.Buyer,
		AssetAmount:    msg.AssetAmount,
		SharesMinted:   math.ZeroInt(),
		PaymentAmount:  paymentDue,
		EffectivePrice: effectivePrice,
		Timestamp:      headerInfo.Time,
	}); err != nil {
		return nil, errors.Wrap(err, "unable to record sale")
	}

	if err := m.event.EventManager(ctx).EmitKV(ctx, types.EventTypePurchaseU,
		event.Attribute{Key: types.AttributeKeyAccount, Value: msg.Buyer},
		event.Attribute{Key: types.AttributeKeyAmount, Value: msg.AssetAmount.String()},
		event.Attribute{Key: types.AttributeKeyPayment, Value: paymentDue.String()},
		event.Attribute{Key: types.AttributeKeyInventory, Value: vault.ForSaleInventory.String()},
	); err != nil {
		return nil, errors.Wrap(err, "unable to emit purchase event")
	}

	return &types.MsgPurchaseUnderlyingResponse{PaymentDue: paymentDue}, nil
}

// PurchaseShares sells newly minted claim units against for-sale inventory
// at the same discounted price as PurchaseUnderlying. The underlying stays
// in the vault and backs the new shares.
func (m msgServer) PurchaseShares(ctx context.Context, msg *types.MsgPurchaseShares) (*types.MsgPurchaseSharesResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}

	buyer, vault, err := m.beginPurchase(ctx, msg.Buyer, msg.AssetAmount, msg.Payment, msg.Price)
	if err != nil {
		return nil, err
	}

	paymentDue, effectivePrice, err := discountedPaymentDue(vault, msg.Price.Price, msg.AssetAmount)
	if err != nil {
		return nil, err
	}
	if !msg.Payment.Amount.Equal(paymentDue) {
		return nil, errors.Wrapf(types.ErrPaymentMismatch, "due %s, got %s", paymentDue, msg.Payment.Amount)
	}

	realBalance, err := m.adapter.RealBalance(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read real balance from adapter")
	}

	// Shares are valued against the pre-decrement inventory, mirroring the
	// deposit path.
	shares := SharesForDeposit(vault.TotalShares, realBalance, vault.ForSaleInventory, vault.PendingWithdrawalTotal, msg.AssetAmount)
	if !shares.IsPositive() {
		return nil, errors.Wrap(types.ErrInvalidAmount, "purchase too small to mint any claim units")
	}

	if err := takeInventory(&vault, msg.AssetAmount); err != nil {
		return nil, err
	}

	currentShares, err := m.GetShares(ctx, buyer)
	if err != nil {
		return nil, errors.Wrap(err, "unable to fetch buyer shares")
	}
	updatedShares, err := currentShares.SafeAdd(shares)
	if err != nil {
		return nil, errors.Wrap(types.ErrOverflow, err.Error())
	}
	totalShares, err := vault.TotalShares.SafeAdd(shares)
	if err != nil {
		return nil, errors.Wrap(types.ErrOverflow, err.Error())
	}
	vault.TotalShares = totalShares

	if err := m.SetShares(ctx, buyer, updatedShares); err != nil {
		return nil, errors.Wrap(err, "unable to persist buyer shares")
	}
	if err := m.SetVault(ctx, vault); err != nil {
		return nil, errors.Wrap(err, "unable to persist vault state")
	}

	treasury, err := m.address.StringToBytes(vault.Treasury)
	if err != nil {
		return nil, errors.Wrap(types.ErrInvalidConfig, "treasury address is malformed")
	}
	if err := m.bank.SendCoins(ctx, buyer, sdk.AccAddress(treasury), sdk.NewCoins(msg.Payment)); err != nil {
		return nil, errors.Wrap(err, "unable to forward payment to treasury")
	}

	headerInfo := m.header.GetHeaderInfo(ctx)
	if err := m.AppendSaleRecord(ctx, types.SaleRecord{
		Buyer:          msg.Buyer,
		AssetAmount:    msg.AssetAmount,
		SharesMinted:   shares,
		PaymentAmount:  paymentDue,
		EffectivePrice: effectivePrice,
		Timestamp:      headerInfo.Time,
	}); err != nil {
		return nil, errors.Wrap(err, "unable to record sale")
	}

	if err := m.event.EventManager(ctx).EmitKV(ctx, types.EventTypePurchaseShares,
		event.Attribute{Key: types.AttributeKeyAccount, Value: msg.Buyer},
		event.Attribute{Key: types.AttributeKeyAmount, Value: msg.AssetAmount.String()},
		event.Attribute{Key: types.AttributeKeyShares, Value: shares.String()},
		event.Attribute{Key: types.AttributeKeyPayment, Value: paymentDue.String()},
	); err != nil {
		return nil, errors.Wrap(err, "unable to emit purchase event")
	}

	return &types.MsgPurchaseSharesResponse{SharesMinted: shares, PaymentDue: paymentDue}, nil
}
