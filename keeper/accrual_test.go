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
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rca.ease.org/keeper"
	"rca.ease.org/types"
	"rca.ease.org/utils"
	"rca.ease.org/utils/mocks"
)

func TestSharesForDeposit(t *testing.T) {
	testCases := []struct {
		name                                string
		totalShares, real, forSale, pending int64
		amount                              int64
		expected                            int64
	}{
		{"fresh vault is 1:1", 0, 0, 0, 0, 500, 500},
		{"zero real balance is 1:1", 1000, 0, 0, 0, 500, 500},
		{"pool underflow falls back to 1:1", 1000, 100, 80, 40, 500, 500},
		{"pool exactly zero falls back to 1:1", 1000, 100, 60, 40, 500, 500},
		{"pro rata at par", 1000, 1000, 0, 0, 500, 500},
		{"for-sale inventory shrinks the pool", 1000, 1000, 200, 0, 400, 500},
		{"pending withdrawals shrink the pool", 1000, 1000, 0, 200, 400, 500},
		{"flooring", 1000, 999, 0, 0, 500, 500},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			shares := keeper.SharesForDeposit(
				math.NewInt(tc.totalShares),
				math.NewInt(tc.real),
				math.NewInt(tc.forSale),
				math.NewInt(tc.pending),
				math.NewInt(tc.amount),
			)
			assert.Equal(t, math.NewInt(tc.expected), shares)
		})
	}
}

func TestAssetsForShares(t *testing.T) {
	testCases := []struct {
		name                                string
		totalShares, real, forSale, pending int64
		shares                              int64
		reservedBps                         uint64
		expected                            int64
	}{
		{"zero supply is 1:1", 0, 1000, 0, 0, 500, 0, 500},
		{"backing underflow falls back to 1:1", 1000, 100, 500, 0, 500, 0, 500},
		{"pro rata at par", 1000, 1000, 0, 0, 500, 0, 500},
		{"for-sale inventory reduces backing", 1000, 1000, 200, 0, 500, 0, 400},
		// Pending withdrawals are added back on this side, the mirror image
		// of how they shrink the deposit pool.
		{"pending withdrawals increase backing", 1000, 1000, 200, 200, 500, 0, 500},
		{"reserved fraction scales the payout", 1000, 1000, 0, 0, 500, 2000, 400},
		{"reserved fraction skipped on fallback", 0, 1000, 0, 0, 500, 2000, 500},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assets := keeper.AssetsForShares(
				math.NewInt(tc.totalShares),
				math.NewInt(tc.real),
				math.NewInt(tc.forSale),
				math.NewInt(tc.pending),
				math.NewInt(tc.shares),
				tc.reservedBps,
			)
			assert.Equal(t, math.NewInt(tc.expected), assets)
		})
	}
}

// settleNow forces a fee rollover through the configuration path without
// changing anything else.
func settleNow(t *testing.T, env *vaultEnv) {
	t.Helper()

	_, err := env.server.SetTreasury(env.ctx, &types.MsgSetTreasury{
		Authority: mocks.Authority,
		Treasury:  env.treasury.Address,
	})
	require.NoError(t, err)
}

func TestFeeAccrualFullYear(t *testing.T) {
	env := setupVaultTest(t)
	alice := utils.TestAccount()

	// ARRANGE: 1M deposited at a 5% annual fee.
	env.verifier.RateBps = 500
	env.fund(alice, mocks.Denom, ONE)
	env.deposit(t, alice, ONE)

	// ACT: A full accrual year passes.
	env.headers.Advance(time.Duration(types.SecondsPerYear) * time.Second)
	settleNow(t, env)

	// ASSERT: Exactly 5% of the active balance moved into for-sale
	// inventory and the accrual clock advanced.
	vault, err := env.keeper.GetVault(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(50_000), vault.ForSaleInventory)
	assert.Equal(t, env.headers.Info.Time, vault.LastAccrual)
	env.requireConservation(t)
}

func TestFeeAccrualInterimRateAverage(t *testing.T) {
	env := setupVaultTest(t)
	alice := utils.TestAccount()
	halfYear := time.Duration(types.SecondsPerYear/2) * time.Second

	// ARRANGE: 1M deposited at 2%; halfway through the year the attested
	// rate rises to 6%, backdated to the midpoint.
	env.verifier.RateBps = 200
	env.fund(alice, mocks.Denom, ONE)
	env.deposit(t, alice, ONE)

	env.headers.Advance(halfYear)
	env.verifier.RateBps = 600
	env.verifier.EffectiveSince = env.headers.Info.Time
	env.headers.Advance(halfYear)

	// ACT: The next rollover covers the whole year in one window.
	settleNow(t, env)

	// ASSERT: The fee equals the time-weighted average of 2% and 6%, i.e.
	// 4% for the year, not either rate applied to the full window.
	vault, err := env.keeper.GetVault(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(40_000), vault.ForSaleInventory)
	assert.Equal(t, uint64(600), vault.FeeRateBps)
}

func TestFeeAccrualFutureDatedRateIgnored(t *testing.T) {
	env := setupVaultTest(t)
	alice := utils.TestAccount()

	// ARRANGE: 1M deposited at 5%; a rate change is announced effective in
	// the future.
	env.verifier.RateBps = 500
	env.fund(alice, mocks.Denom, ONE)
	env.deposit(t, alice, ONE)

	env.headers.Advance(time.Duration(types.SecondsPerYear) * time.Second)
	env.verifier.RateBps = 900
	env.verifier.EffectiveSince = env.headers.Info.Time.Add(time.Hour)

	// ACT
	settleNow(t, env)

	// ASSERT: The stored rate covered the elapsed window and remains in
	// force until the announced instant arrives.
	vault, err := env.keeper.GetVault(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(50_000), vault.ForSaleInventory)
	assert.Equal(t, uint64(500), vault.FeeRateBps)
}

func TestFeeAccrualInventoryMonotonic(t *testing.T) {
	env := setupVaultTest(t)
	alice := utils.TestAccount()

	env.verifier.RateBps = 300
	env.fund(alice, mocks.Denom, ONE)
	env.deposit(t, alice, ONE)

	previous := math.ZeroInt()
	for i := 0; i < 12; i++ {
		env.headers.Advance(30 * 24 * time.Hour)
		settleNow(t, env)

		vault, err := env.keeper.GetVault(env.ctx)
		require.NoError(t, err)
		require.True(t, vault.ForSaleInventory.GTE(previous),
			"inventory shrank from %s to %s", previous, vault.ForSaleInventory)
		previous = vault.ForSaleInventory
	}

	env.requireConservation(t)
}

func TestFeeAccrualSkipsInconsistentBalance(t *testing.T) {
	env := setupVaultTest(t)
	alice := utils.TestAccount()

	env.verifier.RateBps = 500
	env.fund(alice, mocks.Denom, ONE)
	env.deposit(t, alice, ONE)

	// ARRANGE: The adapter reports less than the bookkeeping accounts for.
	_, err := env.server.SetLiquidationTotal(env.ctx, &types.MsgSetLiquidationTotal{
		Authority:               mocks.Authority,
		NewCumulativeLiquidated: math.NewInt(900_000),
	})
	require.NoError(t, err)
	env.keeper.SetAssetAdapter(&mocks.StaticAdapter{Balance: math.NewInt(100_000)})

	// ACT: A year passes over an underflowing active balance.
	env.headers.Advance(time.Duration(types.SecondsPerYear) * time.Second)
	settleNow(t, env)

	// ASSERT: No fee was charged; the engine fails closed instead of
	// wrapping the active balance.
	vault, err := env.keeper.GetVault(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(900_000), vault.ForSaleInventory)
	assert.Equal(t, env.headers.Info.Time, vault.LastAccrual)
}

func TestFeeAccrualReservedFractionReducesFee(t *testing.T) {
	env := setupVaultTest(t)
	alice := utils.TestAccount()

	// ARRANGE: 1M at 5% with a quarter of vault value reserved.
	env.verifier.RateBps = 500
	env.verifier.ReservedBps = 2500
	env.fund(alice, mocks.Denom, ONE)
	env.deposit(t, alice, ONE)

	// ACT
	env.headers.Advance(time.Duration(types.SecondsPerYear) * time.Second)
	settleNow(t, env)

	// ASSERT: Only the unreserved 75% of the active balance is charged.
	vault, err := env.keeper.GetVault(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(37_500), vault.ForSaleInventory)
	assert.Equal(t, uint64(2500), vault.ReservedFractionBps)
}
