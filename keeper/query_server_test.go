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
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rca.ease.org/types"
	"rca.ease.org/utils"
	"rca.ease.org/utils/mocks"
)

func TestQueryVaultPreviewsAccrualWithoutMutating(t *testing.T) {
	env := setupVaultTest(t)
	alice := utils.TestAccount()

	env.verifier.RateBps = 500
	env.fund(alice, mocks.Denom, ONE)
	env.deposit(t, alice, ONE)

	accrualTime := env.headers.Info.Time
	env.headers.Advance(time.Duration(types.SecondsPerYear) * time.Second)

	// ACT
	resp, err := env.queries.Vault(env.ctx, &types.QueryVault{})
	require.NoError(t, err)

	// ASSERT: The response includes the pending year of fees.
	assert.Equal(t, math.NewInt(50_000), resp.Vault.ForSaleInventory)
	assert.Equal(t, math.NewInt(ONE), resp.RealBalance)

	// ASSERT: The stored record was not touched.
	stored, err := env.keeper.GetVault(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, math.ZeroInt(), stored.ForSaleInventory)
	assert.Equal(t, accrualTime, stored.LastAccrual)
}

func TestQueryPreviewDepositMatchesDeposit(t *testing.T) {
	env := setupVaultTest(t)
	alice, bob := utils.TestAccount(), utils.TestAccount()

	env.verifier.RateBps = 500
	env.fund(alice, mocks.Denom, ONE)
	env.deposit(t, alice, ONE)
	env.headers.Advance(time.Duration(types.SecondsPerYear) * time.Second)

	// ACT: Preview, then perform the same deposit.
	preview, err := env.queries.PreviewDeposit(env.ctx, &types.QueryPreviewDeposit{
		Amount: math.NewInt(500_000),
	})
	require.NoError(t, err)

	env.fund(bob, mocks.Denom, 500_000)
	minted := env.deposit(t, bob, 500_000)

	// ASSERT: The preview saw the exact rate the state-changing call used.
	assert.Equal(t, minted, preview.Shares)
}

func TestQueryPreviewRedeemMatchesRedeemRequest(t *testing.T) {
	env := setupVaultTest(t)
	alice := utils.TestAccount()

	env.verifier.RateBps = 500
	env.fund(alice, mocks.Denom, ONE)
	env.deposit(t, alice, ONE)
	env.headers.Advance(time.Duration(types.SecondsPerYear) * time.Second)

	preview, err := env.queries.PreviewRedeem(env.ctx, &types.QueryPreviewRedeem{
		Shares: math.NewInt(250_000),
	})
	require.NoError(t, err)

	resp, err := env.server.RedeemRequest(env.ctx, &types.MsgRedeemRequest{
		Requester: alice.Address,
		Shares:    math.NewInt(250_000),
	})
	require.NoError(t, err)

	assert.Equal(t, resp.AmountOwed, preview.Amount)
}

func TestQueryPreviewWithPendingLiquidation(t *testing.T) {
	env := setupVaultTest(t)
	alice := utils.TestAccount()
	env.fund(alice, mocks.Denom, ONE)
	env.deposit(t, alice, ONE)

	// ACT: Value a deposit as if a 100k liquidation attestation had been
	// applied.
	withAttestation, err := env.queries.PreviewDeposit(env.ctx, &types.QueryPreviewDeposit{
		Amount:                  math.NewInt(450_000),
		NewCumulativeLiquidated: math.NewInt(100_000),
	})
	require.NoError(t, err)

	without, err := env.queries.PreviewDeposit(env.ctx, &types.QueryPreviewDeposit{
		Amount: math.NewInt(450_000),
	})
	require.NoError(t, err)

	// ASSERT: The synthesized inventory shrinks the pool, so the same
	// deposit buys more shares; state is still untouched.
	assert.Equal(t, math.NewInt(500_000), withAttestation.Shares)
	assert.Equal(t, math.NewInt(450_000), without.Shares)

	stored, err := env.keeper.GetVault(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, math.ZeroInt(), stored.CumulativeLiquidated)
}

func TestQuerySharesAndWithdrawRequest(t *testing.T) {
	env := setupVaultTest(t)
	alice := utils.TestAccount()
	env.fund(alice, mocks.Denom, ONE)
	env.deposit(t, alice, ONE)

	shares, err := env.queries.Shares(env.ctx, &types.QueryShares{Account: alice.Address})
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(ONE), shares.Shares)

	// No request yet.
	request, err := env.queries.WithdrawRequest(env.ctx, &types.QueryWithdrawRequest{Account: alice.Address})
	require.NoError(t, err)
	assert.False(t, request.Found)

	resp, err := env.server.RedeemRequest(env.ctx, &types.MsgRedeemRequest{
		Requester: alice.Address,
		Shares:    math.NewInt(100_000),
	})
	require.NoError(t, err)

	request, err = env.queries.WithdrawRequest(env.ctx, &types.QueryWithdrawRequest{Account: alice.Address})
	require.NoError(t, err)
	require.True(t, request.Found)
	assert.Equal(t, resp.AmountOwed, request.Request.AmountOwed)
	assert.Equal(t, resp.ReadyAt, request.Request.ReadyAt)
}

func TestQuerySaleRecordsNewestFirst(t *testing.T) {
	env, _ := setupPurchaseTest(t)
	buyer := utils.TestAccount()
	env.fund(buyer, mocks.PaymentDenom, 200_000)

	for _, amount := range []int64{10_000, 20_000} {
		due := amount * 18 / 10
		_, err := env.server.PurchaseUnderlying(env.ctx, &types.MsgPurchaseUnderlying{
			Buyer:       buyer.Address,
			AssetAmount: math.NewInt(amount),
			Payment:     sdk.NewCoin(mocks.PaymentDenom, math.NewInt(due)),
			Price:       attestedPrice,
		})
		require.NoError(t, err)
	}

	resp, err := env.queries.SaleRecords(env.ctx, &types.QuerySaleRecords{Limit: 10})
	require.NoError(t, err)
	require.Len(t, resp.Records, 2)
	assert.Equal(t, math.NewInt(20_000), resp.Records[0].AssetAmount)
	assert.Equal(t, math.NewInt(10_000), resp.Records[1].AssetAmount)
}

func TestQueryLiquidationLog(t *testing.T) {
	env := setupVaultTest(t)
	alice := utils.TestAccount()
	env.fund(alice, mocks.Denom, ONE)
	env.deposit(t, alice, ONE)

	_, err := env.server.SetLiquidationTotal(env.ctx, &types.MsgSetLiquidationTotal{
		Authority:               mocks.Authority,
		NewCumulativeLiquidated: math.NewInt(75_000),
	})
	require.NoError(t, err)

	resp, err := env.queries.LiquidationLog(env.ctx, &types.QueryLiquidationLog{})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, math.NewInt(75_000), resp.Entries[0].CumulativeLiquidated)
	assert.Equal(t, env.headers.Info.Time.Unix(), resp.Entries[0].AppliedAt.Unix())
}

func TestQueryInvalidAddress(t *testing.T) {
	env := setupVaultTest(t)

	_, err := env.queries.Shares(env.ctx, &types.QueryShares{Account: "not-an-address"})
	require.ErrorIs(t, err, types.ErrInvalidRequest)

	_, err = env.queries.WithdrawRequest(env.ctx, &types.QueryWithdrawRequest{Account: "not-an-address"})
	require.ErrorIs(t, err, types.ErrInvalidRequest)
}
