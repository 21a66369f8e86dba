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

package mocks

import (
	"context"
	"testing"
	"time"

	"cosmossdk.io/log"
	"github.com/cosmos/cosmos-sdk/codec/address"

	"rca.ease.org/keeper"
	"rca.ease.org/types"
)

const (
	Authority    = "authority"
	Denom        = "uease"
	PaymentDenom = "uusdc"
)

// GenesisTime is the block time every harness starts at.
var GenesisTime = time.Unix(1_700_000_000, 0).UTC()

// VaultKeeperWithKeepers wires a keeper against in-memory services. The
// returned header service controls the block clock and the event service
// records every emission.
func VaultKeeperWithKeepers(t testing.TB, bank types.BankKeeper, verifier types.Verifier) (*keeper.Keeper, *HeaderService, *EventService, context.Context) {
	t.Helper()

	headerService := NewHeaderService(GenesisTime)
	eventService := &EventService{}

	k := keeper.NewKeeper(
		Denom,
		PaymentDenom,
		Authority,
		NewStoreService(),
		log.NewNopLogger(),
		headerService,
		eventService,
		address.NewBech32Codec("cosmos"),
		bank,
		verifier,
		nil,
	)
	k.SetAssetAdapter(keeper.NewBankAdapter(Denom, bank))

	return k, headerService, eventService, context.Background()
}
