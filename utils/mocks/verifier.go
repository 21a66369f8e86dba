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
	"errors"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"rca.ease.org/types"
)

var (
	_ types.Verifier     = &Verifier{}
	_ types.AssetAdapter = &StaticAdapter{}
	_ types.Router       = &Router{}
)

// Verifier accepts everything by default and serves the configured rate and
// reserved fraction. Tests flip the fields to exercise rejection paths and
// mid-window rate changes.
type Verifier struct {
	RateBps        uint64
	EffectiveSince time.Time
	ReservedBps    uint64

	RouterAddresses map[string]bool

	RejectDeposits  bool
	RejectRedeems   bool
	RejectFinalizes bool
	RejectPurchases bool
	RateErr         error
}

func NewVerifier() *Verifier {
	return &Verifier{RouterAddresses: make(map[string]bool)}
}

func (v *Verifier) OnDeposit(_ context.Context, _ string, _ math.Int, _ types.CapacityAttestation, _ types.LiquidationAttestation) error {
	if v.RejectDeposits {
		return errors.New("deposit attestation rejected")
	}
	return nil
}

func (v *Verifier) OnRedeemRequest(_ context.Context, _ string, _ math.Int, _ types.LiquidationAttestation) error {
	if v.RejectRedeems {
		return errors.New("redeem attestation rejected")
	}
	return nil
}

func (v *Verifier) OnRedeemFinalize(_ context.Context, destination, _ string, _ math.Int, _ types.LiquidationAttestation) (bool, error) {
	if v.RejectFinalizes {
		return false, errors.New("finalize attestation rejected")
	}
	return v.RouterAddresses[destination], nil
}

func (v *Verifier) OnPurchase(_ context.Context, _ string, _ types.PriceAttestation) error {
	if v.RejectPurchases {
		return errors.New("purchase attestation rejected")
	}
	return nil
}

func (v *Verifier) CurrentFeeRate(_ context.Context) (uint64, time.Time, error) {
	if v.RateErr != nil {
		return 0, time.Time{}, v.RateErr
	}
	return v.RateBps, v.EffectiveSince, nil
}

func (v *Verifier) CurrentReservedFraction(_ context.Context) (uint64, error) {
	if v.RateErr != nil {
		return 0, v.RateErr
	}
	return v.ReservedBps, nil
}

// StaticAdapter reports a fixed real balance regardless of bank state, for
// driving the engine through inconsistent-bookkeeping branches.
type StaticAdapter struct {
	Balance math.Int
}

func (a *StaticAdapter) RealBalance(_ context.Context) (math.Int, error) {
	return a.Balance, nil
}

func (a *StaticAdapter) AfterDeposit(_ context.Context, _ math.Int) error { return nil }

func (a *StaticAdapter) BeforeWithdrawal(_ context.Context, _ math.Int) error { return nil }

// Router records completion callbacks.
type Router struct {
	Routed []RoutedPayout
	Err    error
}

type RoutedPayout struct {
	Account string
	Payout  sdk.Coin
}

func (r *Router) RouteTo(_ context.Context, account string, payout sdk.Coin) error {
	if r.Err != nil {
		return r.Err
	}
	r.Routed = append(r.Routed, RoutedPayout{Account: account, Payout: payout})
	return nil
}
