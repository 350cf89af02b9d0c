package keel

import "testing"

func Test_Version_Matches(t *testing.T) {
	tests := []struct {
		name string
		a, b Version
		want bool
	}{
		{"equal defined", 5, 5, true},
		{"unequal defined", 3, 5, false},
		{"both undefined", VersionNone, VersionNone, true},
		{"defined vs undefined", 5, VersionNone, false},
		{"undefined vs defined", VersionNone, 5, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Matches(tc.b); got != tc.want {
				t.Fatalf("(%s).Matches(%s) = %t, want %t", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func Test_Version_String(t *testing.T) {
	if VersionNone.String() != "none" {
		t.Fatal("undefined version should print as none")
	}
	if Version(7).String() != "7" {
		t.Fatal("defined version should print its integer")
	}
}
