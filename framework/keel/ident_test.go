package keel

import "testing"

func Test_Ident_KindAndID(t *testing.T) {
	i := Ident("listing/123")
	if i.Kind() != "listing" {
		t.Fatal("wrong kind:", i.Kind())
	}
	if i.ID() != "123" {
		t.Fatal("wrong id:", i.ID())
	}
}

func Test_Ident_WithoutKindSegment(t *testing.T) {
	i := Ident("123")
	if i.Kind() != "123" || i.ID() != "123" {
		t.Fatal("un-prefixed identifiers fall back to the whole string")
	}
}
