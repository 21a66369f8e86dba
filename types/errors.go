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

import "cosmossdk.io/errors"

var (
	ErrInvalidRequest          = errors.Register(ModuleName, 1, "invalid request")
	ErrInvalidAmount           = errors.Register(ModuleName, 2, "invalid amount")
	ErrInvalidConfig           = errors.Register(ModuleName, 3, "invalid configuration")
	ErrInvalidAuthority        = errors.Register(ModuleName, 4, "invalid authority")
	ErrVerifierRejected        = errors.Register(ModuleName, 5, "rejected by verifier")
	ErrOverflow                = errors.Register(ModuleName, 6, "bookkeeping overflow or underflow")
	ErrPaymentMismatch         = errors.Register(ModuleName, 7, "payment does not match amount due")
	ErrWithdrawalNotReady      = errors.Register(ModuleName, 8, "withdrawal delay has not elapsed")
	ErrUnauthorizedDestination = errors.Register(ModuleName, 9, "destination is not the requester or a registered router")
	ErrNoRequest               = errors.Register(ModuleName, 10, "no outstanding withdrawal request")
	ErrInsufficientInventory   = errors.Register(ModuleName, 11, "insufficient for-sale inventory")
	ErrStaleAttestation        = errors.Register(ModuleName, 12, "attested cumulative liquidation is below the recorded total")
	ErrUnknownRouter           = errors.Register(ModuleName, 13, "no router registered for destination")
	ErrPaused                  = errors.Register(ModuleName, 14, "vault operations are paused")
)
