package contracts

import (
	"strings"
	"testing"
	"time"

	domainagg "github.com/yungbote/landcontract-backend/internal/domain/aggregates"
)

var testWards = []Ward{
	{ID: 1, Name: "Phường 1", Code: "01"},
	{ID: 2, Name: "Phường Lê Lợi", Code: "LL"},
}

func contractsIn(year, n int) []Contract {
	out := make([]Contract, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Contract{
			ID:        int64(i + 1),
			CreatedAt: time.Date(year, time.March, 1, 9, 0, i, 0, time.UTC),
		})
	}
	return out
}

func TestContractNumberFirstOfYear(t *testing.T) {
	now := time.Date(2024, time.June, 10, 8, 0, 0, 0, time.UTC)
	got, seq, err := ContractNumber(testWards, contractsIn(2023, 5), 1, now, time.UTC)
	if err != nil {
		t.Fatalf("ContractNumber: %v", err)
	}
	if seq != 1 {
		t.Fatalf("seq: want=1 got=%d", seq)
	}
	if got != "01/2401.HĐ.VPĐKLK" {
		t.Fatalf("number: want=%q got=%q", "01/2401.HĐ.VPĐKLK", got)
	}
}

func TestContractNumberSequenceIncreases(t *testing.T) {
	now := time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)
	existing := []Contract{}
	prev := 0
	for i := 0; i < 12; i++ {
		num, seq, err := ContractNumber(testWards, existing, 2, now, time.UTC)
		if err != nil {
			t.Fatalf("ContractNumber #%d: %v", i, err)
		}
		if seq <= prev {
			t.Fatalf("sequence not increasing: prev=%d got=%d", prev, seq)
		}
		parts, err := ParseContractNumber(num)
		if err != nil {
			t.Fatalf("ParseContractNumber(%q): %v", num, err)
		}
		if parts.Sequence != seq || parts.Year != 24 || parts.WardCode != "LL" {
			t.Fatalf("parts mismatch for %q: %+v", num, parts)
		}
		if len(strings.SplitN(num, "/", 2)[0]) != 2 {
			t.Fatalf("sequence not two digits: %q", num)
		}
		prev = seq
		existing = append(existing, Contract{ID: int64(i + 1), ContractNumber: num, CreatedAt: now})
	}
}

func TestContractNumberHundredthWidens(t *testing.T) {
	now := time.Date(2024, time.December, 31, 12, 0, 0, 0, time.UTC)
	num99, seq99, err := ContractNumber(testWards, contractsIn(2024, 98), 1, now, time.UTC)
	if err != nil {
		t.Fatalf("ContractNumber: %v", err)
	}
	if seq99 != 99 || num99 != "99/2401.HĐ.VPĐKLK" {
		t.Fatalf("99th: got seq=%d num=%q", seq99, num99)
	}
	num100, seq100, err := ContractNumber(testWards, contractsIn(2024, 99), 1, now, time.UTC)
	if err != nil {
		t.Fatalf("ContractNumber: %v", err)
	}
	if seq100 != 100 || num100 != "100/2401.HĐ.VPĐKLK" {
		t.Fatalf("100th: got seq=%d num=%q", seq100, num100)
	}
	if seq100 <= MaxFixedWidthSequence {
		t.Fatalf("expected overflow past fixed width")
	}
}

func TestNextSequenceUsesLocationYear(t *testing.T) {
	ict := time.FixedZone("ICT", 7*3600)
	// 2023-12-31T20:00Z is already 2024-01-01 in ICT.
	existing := []Contract{{ID: 1, CreatedAt: time.Date(2023, time.December, 31, 20, 0, 0, 0, time.UTC)}}
	now := time.Date(2024, time.January, 2, 0, 0, 0, 0, ict)
	if got := NextSequence(existing, now, ict); got != 2 {
		t.Fatalf("ICT sequence: want=2 got=%d", got)
	}
	if got := NextSequence(existing, now, time.UTC); got != 1 {
		t.Fatalf("UTC sequence: want=1 got=%d", got)
	}
}

func TestContractNumberUnknownWard(t *testing.T) {
	_, _, err := ContractNumber(testWards, nil, 99, time.Now(), time.UTC)
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestLiquidationNumberRoundTrip(t *testing.T) {
	num := FormatContractNumber(7, 2025, "LL")
	cases := map[LiquidationKind]string{
		LiquidationComplete: strings.Replace(num, ".HĐ.VPĐKLK", ".TLHĐ.VPĐKLK", 1),
		LiquidationCancel:   strings.Replace(num, ".HĐ.VPĐKLK", ".TLHHĐ.VPĐKLK", 1),
	}
	for kind, want := range cases {
		got, err := LiquidationNumber(num, kind)
		if err != nil {
			t.Fatalf("LiquidationNumber(%s): %v", kind, err)
		}
		if got != want {
			t.Fatalf("LiquidationNumber(%s): want=%q got=%q", kind, want, got)
		}
	}
	if got, _ := LiquidationNumber("07/25LL.HĐ.VPĐKLK", LiquidationComplete); got != "07/25LL.TLHĐ.VPĐKLK" {
		t.Fatalf("literal complete number: got=%q", got)
	}
}

func TestLiquidationNumberErrors(t *testing.T) {
	if _, err := LiquidationNumber("07/25LL", LiquidationComplete); !domainagg.IsCode(err, domainagg.CodeInvariant) {
		t.Fatalf("missing suffix: expected invariant_violation, got %v", err)
	}
	if _, err := LiquidationNumber("07/25LL.HĐ.VPĐKLK", LiquidationKind("bogus")); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("bad kind: expected validation, got %v", err)
	}
	if _, err := LiquidationNumberFor(nil, 5, LiquidationCancel); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("missing contract: expected not_found, got %v", err)
	}
}

func TestParseContractNumberRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "01/24", "x/2401.HĐ.VPĐKLK", "012401.HĐ.VPĐKLK", "01/2.HĐ.VPĐKLK"} {
		if _, err := ParseContractNumber(raw); err == nil {
			t.Fatalf("ParseContractNumber(%q): expected error", raw)
		}
	}
}
