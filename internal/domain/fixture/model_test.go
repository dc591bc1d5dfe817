package fixture

import "testing"

func TestStatusSets(t *testing.T) {
	for _, s := range []string{"1H", "ht", " 2H ", "ET", "BT", "P", "SUSP", "INT"} {
		if !IsActiveStatus(s) {
			t.Fatalf("expected %q to be active", s)
		}
	}
	for _, s := range []string{"NS", "FT", "PST", "CANC", "ABD", ""} {
		if IsActiveStatus(s) {
			t.Fatalf("expected %q to be inactive", s)
		}
	}
	for _, s := range []string{"FT", "AET", "PEN"} {
		if !IsFinishedStatus(s) {
			t.Fatalf("expected %q to be finished", s)
		}
	}
}

func TestStatusListsAreCopies(t *testing.T) {
	got := ActiveStatuses()
	got[0] = "XX"
	if ActiveStatuses()[0] != StatusFirstHalf {
		t.Fatalf("active status list must not be shared")
	}
}

func TestNeedsStats(t *testing.T) {
	cases := []struct {
		name string
		f    Fixture
		want bool
	}{
		{"not finished", Fixture{StatusShort: "2H"}, false},
		{"finished unsynced", Fixture{StatusShort: "FT"}, true},
		{"team only", Fixture{StatusShort: "AET", IsTeamStatsSynced: true}, true},
		{"both synced", Fixture{StatusShort: "PEN", IsTeamStatsSynced: true, IsPlayerStatsSynced: true}, false},
	}
	for _, tc := range cases {
		if got := tc.f.NeedsStats(); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
