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
	"cosmossdk.io/collections"
	"cosmossdk.io/core/address"
	"cosmossdk.io/core/event"
	"cosmossdk.io/core/header"
	"cosmossdk.io/core/store"
	"cosmossdk.io/log"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"rca.ease.org/types"
)

type Keeper struct {
	denom        string
	paymentDenom string
	authority    string

	store store.KVStoreService

	logger  log.Logger
	header  header.Service
	event   event.Service
	address address.Codec
	bank    types.BankKeeper

	verifier types.Verifier
	adapter  types.AssetAdapter
	routers  map[string]types.Router

	Vault            collections.Item[types.Vault]
	Paused           collections.Item[bool]
	WithdrawRequests collections.Map[[]byte, types.WithdrawRequest]
	Shares           collections.Map[[]byte, math.Int]
	LiquidationLog   collections.Map[int64, math.Int]
	SaleRecords      collections.Map[uint64, types.SaleRecord]
	SaleRecordNextID collections.Item[uint64]
}

func NewKeeper(
	denom string,
	paymentDenom string,
	authority string,
	store store.KVStoreService,
	logger log.Logger,
	header header.Service,
	event event.Service,
	address address.Codec,
	bank types.BankKeeper,
	verifier types.Verifier,
	adapter types.AssetAdapter,
) *Keeper {
	builder := collections.NewSchemaBuilder(store)

	keeper := &Keeper{
		denom:        denom,
		paymentDenom: paymentDenom,
		authority:    authority,

		store: store,

		logger:  logger.With("module", types.ModuleName),
		header:  header,
		event:   event,
		address: address,
		bank:    bank,

		verifier: verifier,
		adapter:  adapter,
		routers:  make(map[string]types.Router),

		Vault:            collections.NewItem(builder, types.VaultKey, "vault", types.JSONValue[types.Vault]("vault")),
		Paused:           collections.NewItem(builder, types.PausedKey, "paused", collections.BoolValue),
		WithdrawRequests: collections.NewMap(builder, types.WithdrawReqPrefix, "withdraw_requests", collections.BytesKey, types.JSONValue[types.WithdrawRequest]("withdraw_request")),
		Shares:           collections.NewMap(builder, types.SharesPrefix, "shares", collections.BytesKey, sdk.IntValue),
		LiquidationLog:   collections.NewMap(builder, types.LiquidationLogPrefix, "liquidation_log", collections.Int64Key, sdk.IntValue),
		SaleRecords:      collections.NewMap(builder, types.SaleRecordPrefix, "sale_records", collections.Uint64Key, types.JSONValue[types.SaleRecord]("sale_record")),
		SaleRecordNextID: collections.NewItem(builder, types.SaleRecordNextIDKey, "sale_record_next_id", collections.Uint64Value),
	}

	_, err := builder.Build()
	if err != nil {
		panic(err)
	}

	return keeper
}

// SetAssetAdapter overwrites the asset adapter bound to this vault.
func (k *Keeper) SetAssetAdapter(adapter types.AssetAdapter) {
	k.adapter = adapter
}

// SetVerifier overwrites the verifier consulted by this vault.
func (k *Keeper) SetVerifier(verifier types.Verifier) {
	k.verifier = verifier
}

// RegisterRouter binds a pass-through router implementation to its address.
// The verifier decides per call whether a destination is routed; this
// registry supplies the implementation invoked for the completion callback.
func (k *Keeper) RegisterRouter(address string, router types.Router) {
	k.routers[address] = router
}

// GetDenom returns the underlying-asset denomination of this vault.
func (k *Keeper) GetDenom() string {
	return k.denom
}

// GetPaymentDenom returns the denomination purchases are paid in.
func (k *Keeper) GetPaymentDenom() string {
	return k.paymentDenom
}

// GetAuthority returns the governance address allowed to run administrative
// setters.
func (k *Keeper) GetAuthority() string {
	return k.authority
}
