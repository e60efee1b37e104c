// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package authorization

import (
	"testing"

	"github.com/citydesk-project/citydesk/lib/civic"
)

func TestPermitted(t *testing.T) {
	citizen := &civic.Identity{ID: "user-1", Role: civic.RoleCitizen}
	otherCitizen := &civic.Identity{ID: "user-2", Role: civic.RoleCitizen}
	authority := &civic.Identity{ID: "user-3", Role: civic.RoleAuthority}
	record := civic.Record{ID: "rec-1", OwnerID: "user-1"}

	tests := []struct {
		name     string
		identity *civic.Identity
		want     Actions
	}{
		{"logged out", nil, Actions{}},
		{"owning citizen", citizen, Actions{CanDelete: true}},
		{"other citizen", otherCitizen, Actions{}},
		{"authority", authority, Actions{CanDelete: true, CanChangeStatus: true}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Permitted(test.identity, record)
			if got != test.want {
				t.Errorf("Permitted = %+v, want %+v", got, test.want)
			}
		})
	}
}

func TestPermittedAuthorityOwnRecord(t *testing.T) {
	// An authority deleting its own record is covered by both rules;
	// the result must not change.
	authority := &civic.Identity{ID: "user-9", Role: civic.RoleAuthority}
	record := civic.Record{ID: "rec-1", OwnerID: "user-9"}
	got := Permitted(authority, record)
	if !got.CanDelete || !got.CanChangeStatus {
		t.Errorf("Permitted = %+v", got)
	}
}

func TestPermittedUnknownRole(t *testing.T) {
	// A role outside the closed set gets citizen-level treatment:
	// ownership still grants delete, nothing grants status changes.
	identity := &civic.Identity{ID: "user-1", Role: "superuser"}
	record := civic.Record{ID: "rec-1", OwnerID: "user-1"}
	got := Permitted(identity, record)
	if !got.CanDelete || got.CanChangeStatus {
		t.Errorf("Permitted = %+v", got)
	}
}
