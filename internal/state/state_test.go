// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package state

import (
	"errors"
	"testing"
)

// TestValidateFullTable checks every (from, to) pair against the expected
// transition table, both directions of the contract: allowed edges pass and
// every other edge fails with *InvalidTransitionError.
func TestValidateFullTable(t *testing.T) {
	allowed := map[Status]map[Status]bool{
		StatusDraft:     {StatusPublished: true, StatusSuccess: true},
		StatusPublished: {StatusSuccess: true, StatusFailed: true},
		StatusSuccess:   {},
		StatusFailed:    {StatusPublished: true},
	}

	for _, from := range All {
		for _, to := range All {
			from, to := from, to
			t.Run(string(from)+"_to_"+string(to), func(t *testing.T) {
				err := Validate(&from, to)
				if allowed[from][to] {
					if err != nil {
						t.Errorf("Validate(%s -> %s): unexpected error: %v", from, to, err)
					}
					return
				}
				if err == nil {
					t.Fatalf("Validate(%s -> %s): expected InvalidTransition", from, to)
				}
				var ite *InvalidTransitionError
				if !errors.As(err, &ite) {
					t.Fatalf("Validate(%s -> %s): got %T, want *InvalidTransitionError", from, to, err)
				}
				if ite.From != from || ite.To != to {
					t.Errorf("error fields: got %s -> %s, want %s -> %s", ite.From, ite.To, from, to)
				}
			})
		}
	}
}

func TestValidateNilFromIsCreation(t *testing.T) {
	for _, to := range All {
		if err := Validate(nil, to); err != nil {
			t.Errorf("Validate(nil -> %s): creation must always be allowed, got %v", to, err)
		}
	}
}

func TestDraftSkipsPublished(t *testing.T) {
	// DRAFT -> SUCCESS is explicitly allowed (manual-paste platforms have
	// no PUBLISHED step).
	if !CanTransition(StatusDraft, StatusSuccess) {
		t.Error("DRAFT -> SUCCESS must be allowed")
	}
}

func TestSuccessIsTerminal(t *testing.T) {
	for _, to := range All {
		if CanTransition(StatusSuccess, to) {
			t.Errorf("SUCCESS -> %s must be rejected; SUCCESS is terminal", to)
		}
	}
}

func TestFailedRetriesToPublished(t *testing.T) {
	if !CanTransition(StatusFailed, StatusPublished) {
		t.Error("FAILED -> PUBLISHED (retry) must be allowed")
	}
	if CanTransition(StatusFailed, StatusSuccess) {
		t.Error("FAILED -> SUCCESS must be rejected")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"SUCCESS", StatusSuccess, false},
		{"success", StatusSuccess, false},
		{"  Published ", StatusPublished, false},
		{"draft", StatusDraft, false},
		{"FAILED", StatusFailed, false},
		{"PENDING", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Parse(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
