// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package state defines the lifecycle status of a content item and the
// fixed transition table that governs it. The log store may only ever move
// a row along these edges; everything else is rejected before any write.
package state

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state of a content item in the log store.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
	StatusSuccess   Status = "SUCCESS"
	StatusFailed    Status = "FAILED"
)

// All lists every valid status, in lifecycle order.
var All = []Status{StatusDraft, StatusPublished, StatusSuccess, StatusFailed}

// transitions is the complete set of allowed edges. SUCCESS is terminal;
// FAILED may go back to PUBLISHED for a retry.
var transitions = map[Status][]Status{
	StatusDraft:     {StatusPublished, StatusSuccess},
	StatusPublished: {StatusSuccess, StatusFailed},
	StatusSuccess:   {},
	StatusFailed:    {StatusPublished},
}

// Parse converts a string into a Status, case-insensitively.
func Parse(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range All {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q (valid: DRAFT, PUBLISHED, SUCCESS, FAILED)", s)
}

// InvalidTransitionError reports a transition outside the table.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}

// Validate checks the requested transition. A nil from means no prior row
// exists; that is always allowed as a creation. Any edge missing from the
// table yields an *InvalidTransitionError and the caller must not write.
func Validate(from *Status, to Status) error {
	if from == nil {
		return nil
	}
	for _, allowed := range transitions[*from] {
		if to == allowed {
			return nil
		}
	}
	return &InvalidTransitionError{From: *from, To: to}
}

// CanTransition reports whether the edge from -> to is in the table.
func CanTransition(from, to Status) bool {
	return Validate(&from, to) == nil
}
