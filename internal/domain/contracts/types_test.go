package contracts

import (
	"testing"
	"time"
)

func TestCloneKeepsEmptyCollections(t *testing.T) {
	d := AppData{}.Normalize()
	got := d.Clone()
	if got.Users == nil || got.Wards == nil || got.Contracts == nil || got.Liquidations == nil {
		t.Fatalf("empty collections became nil: %#v", got)
	}
	if (AppData{}).Clone().Liquidations != nil {
		t.Fatalf("nil collections should stay nil")
	}
}

func TestCloneSharesNoBackingArray(t *testing.T) {
	d := AppData{Contracts: []Contract{{ID: 1, CustomerName: "A", CreatedAt: time.Unix(0, 0)}}}.Normalize()
	c := d.Clone()
	c.Contracts[0].CustomerName = "B"
	if d.Contracts[0].CustomerName != "A" {
		t.Fatalf("clone aliased the original: %q", d.Contracts[0].CustomerName)
	}
}
