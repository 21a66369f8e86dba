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
	"time"

	"cosmossdk.io/core/event"
	"cosmossdk.io/core/header"
	"google.golang.org/protobuf/runtime/protoiface"
)

var (
	_ header.Service = &HeaderService{}
	_ event.Service  = &EventService{}
)

// HeaderService serves a mutable block time so tests can advance the clock
// between calls.
type HeaderService struct {
	Info header.Info
}

func NewHeaderService(at time.Time) *HeaderService {
	return &HeaderService{Info: header.Info{Height: 1, Time: at}}
}

func (s *HeaderService) GetHeaderInfo(_ context.Context) header.Info {
	return s.Info
}

// Advance moves the block clock forward and bumps the height.
func (s *HeaderService) Advance(d time.Duration) {
	s.Info.Time = s.Info.Time.Add(d)
	s.Info.Height++
}

// SetTime pins the block clock to an absolute instant.
func (s *HeaderService) SetTime(at time.Time) {
	s.Info.Time = at
	s.Info.Height++
}

// Event is one recorded KV emission.
type Event struct {
	Type       string
	Attributes []event.Attribute
}

// EventService records every KV event for assertion.
type EventService struct {
	Events []Event
}

func (s *EventService) EventManager(_ context.Context) event.Manager {
	return &eventManager{service: s}
}

type eventManager struct {
	service *EventService
}

func (m *eventManager) Emit(_ context.Context, _ protoiface.MessageV1) error {
	return nil
}

func (m *eventManager) EmitKV(_ context.Context, eventType string, attrs ...event.Attribute) error {
	m.service.Events = append(m.service.Events, Event{Type: eventType, Attributes: attrs})
	return nil
}

func (m *eventManager) EmitNonConsensus(_ context.Context, _ protoiface.MessageV1) error {
	return nil
}
