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

	"cosmossdk.io/math"

	"rca.ease.org/types"
)

var _ types.AssetAdapter = &BankAdapter{}

// BankAdapter is the simplest asset adapter: the underlying sits idle in the
// module account and the bank balance is the whole real balance. Assets with
// staked or rewarded positions need a richer adapter.
type BankAdapter struct {
	denom string
	bank  types.BankKeeper
}

func NewBankAdapter(denom string, bank types.BankKeeper) *BankAdapter {
	return &BankAdapter{denom: denom, bank: bank}
}

func (a *BankAdapter) RealBalance(ctx context.Context) (math.Int, error) {
	return a.bank.GetBalance(ctx, types.ModuleAddress, a.denom).Amount, nil
}

func (a *BankAdapter) AfterDeposit(_ context.Context, _ math.Int) error {
	return nil
}

func (a *BankAdapter) BeforeWithdrawal(_ context.Context, _ math.Int) error {
	return nil
}
