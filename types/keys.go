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

package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
)

const ModuleName = "rca"

// ModuleAddress holds the vault's underlying-asset balance between deposit
// and finalized withdrawal or sale.
var ModuleAddress = authtypes.NewModuleAddress(ModuleName)

var (
	VaultKey             = []byte("rca/vault")
	WithdrawReqPrefix    = []byte("rca/withdraw_request/")
	SharesPrefix         = []byte("rca/shares/")
	PausedKey            = []byte("rca/paused")
	LiquidationLogPrefix = []byte("rca/liquidation_log/")
	SaleRecordPrefix     = []byte("rca/sale_record/")
	SaleRecordNextIDKey  = []byte("rca/sale_record_next_id")
)

// Event types and attribute keys emitted by the message server.
const (
	EventTypeDeposit          = "rca_deposit"
	EventTypeRedeemRequested  = "rca_redeem_requested"
	EventTypeRedeemFinalized  = "rca_redeem_finalized"
	EventTypePurchaseU        = "rca_purchase_underlying"
	EventTypePurchaseShares   = "rca_purchase_shares"
	EventTypeLiquidationApply = "rca_liquidation_applied"
	EventTypeFeeAccrued       = "rca_fee_accrued"
	EventTypeConfigUpdated    = "rca_config_updated"

	AttributeKeyAccount     = "account"
	AttributeKeyDestination = "destination"
	AttributeKeyAmount      = "amount"
	AttributeKeyShares      = "shares"
	AttributeKeyPayment     = "payment"
	AttributeKeyReadyAt     = "ready_at"
	AttributeKeyInventory   = "for_sale_inventory"
	AttributeKeyCumulative  = "cumulative_liquidated"
	AttributeKeyField       = "field"
	AttributeKeyValue       = "value"
)

// MustAccAddress converts a bech32 string into an account address, panicking
// on malformed input. Intended for test fixtures and genesis wiring only.
func MustAccAddress(address string) sdk.AccAddress {
	addr, err := sdk.AccAddressFromBech32(address)
	if err != nil {
		panic(err)
	}
	return addr
}
