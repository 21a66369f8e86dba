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

package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rca.ease.org/types"
	"rca.ease.org/utils"
	"rca.ease.org/utils/mocks"
)

// setupPurchaseTest funds a vault with 1M underlying and marks 100k of it as
// for-sale inventory via an attested liquidation total.
func setupPurchaseTest(t *testing.T) (*vaultEnv, utils.Account) {
	t.Helper()

	env := setupVaultTest(t)
	alice := utils.TestAccount()
	env.fund(alice, mocks.Denom, ONE)
	env.deposit(t, alice, ONE)

	_, err := env.server.SetLiquidationTotal(env.ctx, &types.MsgSetLiquidationTotal{
		Authority:               mocks.Authority,
		NewCumulativeLiquidated: math.NewInt(100_000),
	})
	require.NoError(t, err)

	return env, alice
}

// attestedPrice is two payment units per underlying unit at the 1e18 scale.
var attestedPrice = types.PriceAttestation{Price: math.NewIntWithDecimal(2, 18)}

func TestPurchaseUnderlying(t *testing.T) {
	env, _ := setupPurchaseTest(t)
	buyer := utils.TestAccount()
	env.fund(buyer, mocks.PaymentDenom, 90_000)

	// ACT: Buy 50k underlying at price 2.0 with the 10% discount, paying
	// exactly 50_000 * 1.8.
	resp, err := env.server.PurchaseUnderlying(env.ctx, &types.MsgPurchaseUnderlying{
		Buyer:       buyer.Address,
		AssetAmount: math.NewInt(50_000),
		Payment:     sdk.NewCoin(mocks.PaymentDenom, math.NewInt(90_000)),
		Price:       attestedPrice,
	})
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(90_000), resp.PaymentDue)

	// ASSERT: Underlying moved to the buyer, payment to the treasury,
	// inventory shrank by the purchased amount.
	assert.Equal(t, math.NewInt(50_000), env.bank.Balances[buyer.Address].AmountOf(mocks.Denom))
	assert.Equal(t, math.ZeroInt(), env.bank.Balances[buyer.Address].AmountOf(mocks.PaymentDenom))
	assert.Equal(t, math.NewInt(90_000), env.bank.Balances[env.treasury.Address].AmountOf(mocks.PaymentDenom))

	vault, err := env.keeper.GetVault(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(50_000), vault.ForSaleInventory)
	env.requireConservation(t)

	// ASSERT: The sale is on the audit trail.
	records, err := env.keeper.GetRecentSaleRecords(env.ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, buyer.Address, records[0].Buyer)
	assert.Equal(t, math.NewInt(50_000), records[0].AssetAmount)
	assert.Equal(t, math.NewInt(90_000), records[0].PaymentAmount)
	assert.Equal(t, math.ZeroInt(), records[0].SharesMinted)
}

func TestPurchaseUnderlyingPaymentMismatch(t *testing.T) {
	env, _ := setupPurchaseTest(t)
	buyer := utils.TestAccount()
	env.fund(buyer, mocks.PaymentDenom, 200_000)

	// Both underpayment and overpayment are rejected: the price is exact.
	for _, payment := range []int64{89_999, 90_001, 0} {
		_, err := env.server.PurchaseUnderlying(env.ctx, &types.MsgPurchaseUnderlying{
			Buyer:       buyer.Address,
			AssetAmount: math.NewInt(50_000),
			Payment:     sdk.NewCoin(mocks.PaymentDenom, math.NewInt(payment)),
			Price:       attestedPrice,
		})
		require.ErrorIs(t, err, types.ErrPaymentMismatch)
	}
}

func TestPurchaseUnderlyingExceedsInventory(t *testing.T) {
	env, _ := setupPurchaseTest(t)
	buyer := utils.TestAccount()
	env.fund(buyer, mocks.PaymentDenom, ONE)

	_, err := env.server.PurchaseUnderlying(env.ctx, &types.MsgPurchaseUnderlying{
		Buyer:       buyer.Address,
		AssetAmount: math.NewInt(100_001),
		Payment:     sdk.NewCoin(mocks.PaymentDenom, math.NewInt(180_001)),
		Price:       attestedPrice,
	})
	require.ErrorIs(t, err, types.ErrInsufficientInventory)
}

func TestPurchaseUnderlyingExactRemainder(t *testing.T) {
	env, _ := setupPurchaseTest(t)
	buyer := utils.TestAccount()
	env.fund(buyer, mocks.PaymentDenom, 180_000)

	// ACT: Buy the entire 100k inventory in one order.
	_, err := env.server.PurchaseUnderlying(env.ctx, &types.MsgPurchaseUnderlying{
		Buyer:       buyer.Address,
		AssetAmount: math.NewInt(100_000),
		Payment:     sdk.NewCoin(mocks.PaymentDenom, math.NewInt(180_000)),
		Price:       attestedPrice,
	})
	require.NoError(t, err)

	// ASSERT: Inventory lands exactly at zero and a further purchase of a
	// single unit is rejected.
	vault, err := env.keeper.GetVault(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, math.ZeroInt(), vault.ForSaleInventory)

	env.fund(buyer, mocks.PaymentDenom, 2)
	_, err = env.server.PurchaseUnderlying(env.ctx, &types.MsgPurchaseUnderlying{
		Buyer:       buyer.Address,
		AssetAmount: math.OneInt(),
		Payment:     sdk.NewCoin(mocks.PaymentDenom, math.OneInt()),
		Price:       attestedPrice,
	})
	require.ErrorIs(t, err, types.ErrInsufficientInventory)
}

func TestPurchaseUnderlyingWrongPaymentDenom(t *testing.T) {
	env, _ := setupPurchaseTest(t)
	buyer := utils.TestAccount()

	_, err := env.server.PurchaseUnderlying(env.ctx, &types.MsgPurchaseUnderlying{
		Buyer:       buyer.Address,
		AssetAmount: math.NewInt(50_000),
		Payment:     sdk.NewCoin(mocks.Denom, math.NewInt(90_000)),
		Price:       attestedPrice,
	})
	require.ErrorIs(t, err, types.ErrInvalidRequest)
}

func TestPurchaseUnderlyingInvalidPrice(t *testing.T) {
	env, _ := setupPurchaseTest(t)
	buyer := utils.TestAccount()

	for _, price := range []math.Int{{}, math.ZeroInt(), math.NewInt(-1)} {
		_, err := env.server.PurchaseUnderlying(env.ctx, &types.MsgPurchaseUnderlying{
			Buyer:       buyer.Address,
			AssetAmount: math.NewInt(50_000),
			Payment:     sdk.NewCoin(mocks.PaymentDenom, math.NewInt(90_000)),
			Price:       types.PriceAttestation{Price: price},
		})
		require.ErrorIs(t, err, types.ErrInvalidAmount)
	}
}

func TestPurchaseShares(t *testing.T) {
	env, _ := setupPurchaseTest(t)
	buyer := utils.TestAccount()
	env.fund(buyer, mocks.PaymentDenom, 90_000)

	// ACT: Buy claim units against 50k of inventory at the same discounted
	// price as a cash purchase.
	resp, err := env.server.PurchaseShares(env.ctx, &types.MsgPurchaseShares{
		Buyer:       buyer.Address,
		AssetAmount: math.NewInt(50_000),
		Payment:     sdk.NewCoin(mocks.PaymentDenom, math.NewInt(90_000)),
		Price:       attestedPrice,
	})
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(90_000), resp.PaymentDue)

	// ASSERT: Shares valued against the pre-decrement pool of 900k, so 50k
	// of underlying mints 55_555 claim units.
	assert.Equal(t, math.NewInt(55_555), resp.SharesMinted)

	held, err := env.keeper.GetShares(env.ctx, sdk.AccAddress(buyer.Bytes))
	require.NoError(t, err)
	assert.Equal(t, resp.SharesMinted, held)

	// ASSERT: The underlying stayed in the vault; only inventory moved back
	// to backing the (now larger) share supply.
	vault, err := env.keeper.GetVault(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(50_000), vault.ForSaleInventory)
	assert.Equal(t, math.NewInt(ONE+55_555), vault.TotalShares)
	assert.Equal(t, math.NewInt(ONE), env.bank.Balances[types.ModuleAddress.String()].AmountOf(mocks.Denom))
	assert.Equal(t, math.NewInt(90_000), env.bank.Balances[env.treasury.Address].AmountOf(mocks.PaymentDenom))
	env.requireConservation(t)

	// ASSERT: The audit record carries the minted claim units.
	records, err := env.keeper.GetRecentSaleRecords(env.ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, resp.SharesMinted, records[0].SharesMinted)
}

func TestPurchaseSharesExceedsInventory(t *testing.T) {
	env, _ := setupPurchaseTest(t)
	buyer := utils.TestAccount()
	env.fund(buyer, mocks.PaymentDenom, ONE)

	_, err := env.server.PurchaseShares(env.ctx, &types.MsgPurchaseShares{
		Buyer:       buyer.Address,
		AssetAmount: math.NewInt(100_001),
		Payment:     sdk.NewCoin(mocks.PaymentDenom, math.NewInt(180_001)),
		Price:       attestedPrice,
	})
	require.ErrorIs(t, err, types.ErrInsufficientInventory)
}

func TestPurchaseRejectedByVerifier(t *testing.T) {
	env, _ := setupPurchaseTest(t)
	buyer := utils.TestAccount()
	env.fund(buyer, mocks.PaymentDenom, 90_000)

	env.verifier.RejectPurchases = true

	_, err := env.server.PurchaseUnderlying(env.ctx, &types.MsgPurchaseUnderlying{
		Buyer:       buyer.Address,
		AssetAmount: math.NewInt(50_000),
		Payment:     sdk.NewCoin(mocks.PaymentDenom, math.NewInt(90_000)),
		Price:       attestedPrice,
	})
	require.ErrorIs(t, err, types.ErrVerifierRejected)
}

func TestPurchaseWithoutTreasury(t *testing.T) {
	env := setupVaultTest(t)
	alice := utils.TestAccount()
	env.fund(alice, mocks.Denom, ONE)
	env.deposit(t, alice, ONE)

	// ARRANGE: Clear the treasury.
	vault, err := env.keeper.GetVault(env.ctx)
	require.NoError(t, err)
	vault.Treasury = ""
	require.NoError(t, env.keeper.SetVault(env.ctx, vault))

	buyer := utils.TestAccount()
	_, err = env.server.PurchaseUnderlying(env.ctx, &types.MsgPurchaseUnderlying{
		Buyer:       buyer.Address,
		AssetAmount: math.NewInt(10_000),
		Payment:     sdk.NewCoin(mocks.PaymentDenom, math.NewInt(18_000)),
		Price:       attestedPrice,
	})
	require.ErrorIs(t, err, types.ErrInvalidConfig)
}
