package contracts

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	domainagg "github.com/yungbote/landcontract-backend/internal/domain/aggregates"
)

// Contract and liquidation numbers share the office suffix. Liquidation
// numbers are derived by swapping ContractSuffix, so every contract
// number must end with it.
const (
	ContractSuffix            = ".HĐ.VPĐKLK"
	CompleteLiquidationSuffix = ".TLHĐ.VPĐKLK"
	CancelLiquidationSuffix   = ".TLHHĐ.VPĐKLK"

	SequenceWidth = 2
	// MaxFixedWidthSequence is the last sequence that fits SequenceWidth digits.
	MaxFixedWidthSequence = 99
)

// NumberParts are the components encoded in a contract number.
type NumberParts struct {
	Sequence int    `json:"sequence"`
	Year     int    `json:"year"` // two-digit year
	WardCode string `json:"wardCode"`
}

// FormatContractNumber renders {seq}/{yy}{wardCode}.HĐ.VPĐKLK. Sequences
// past MaxFixedWidthSequence widen instead of being truncated.
func FormatContractNumber(seq, year int, wardCode string) string {
	return fmt.Sprintf("%0*d/%02d%s%s", SequenceWidth, seq, year%100, wardCode, ContractSuffix)
}

// NextSequence is one more than the number of contracts created in the
// calendar year of now, with years evaluated in loc.
func NextSequence(existing []Contract, now time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	year := now.In(loc).Year()
	n := 0
	for _, c := range existing {
		if c.CreatedAt.In(loc).Year() == year {
			n++
		}
	}
	return n + 1
}

// ContractNumber computes the number for a new contract in wardID.
// It fails with not_found when the ward does not resolve.
func ContractNumber(wards []Ward, existing []Contract, wardID int64, now time.Time, loc *time.Location) (string, int, error) {
	const op = "Numbering.ContractNumber"
	ward, ok := FindWard(wards, wardID)
	if !ok {
		return "", 0, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("ward %d not found", wardID), nil)
	}
	if loc == nil {
		loc = time.UTC
	}
	seq := NextSequence(existing, now, loc)
	return FormatContractNumber(seq, now.In(loc).Year(), ward.Code), seq, nil
}

func LiquidationSuffix(kind LiquidationKind) (string, error) {
	switch kind {
	case LiquidationComplete:
		return CompleteLiquidationSuffix, nil
	case LiquidationCancel:
		return CancelLiquidationSuffix, nil
	default:
		return "", domainagg.NewError(domainagg.CodeValidation, "Numbering.LiquidationSuffix", fmt.Sprintf("unknown liquidation kind %q", kind), nil)
	}
}

// LiquidationNumber swaps the first ContractSuffix in contractNumber for
// the kind's liquidation suffix.
func LiquidationNumber(contractNumber string, kind LiquidationKind) (string, error) {
	suffix, err := LiquidationSuffix(kind)
	if err != nil {
		return "", err
	}
	if !strings.Contains(contractNumber, ContractSuffix) {
		return "", domainagg.NewError(domainagg.CodeInvariant, "Numbering.LiquidationNumber",
			fmt.Sprintf("contract number %q lacks suffix %s", contractNumber, ContractSuffix), nil)
	}
	return strings.Replace(contractNumber, ContractSuffix, suffix, 1), nil
}

// LiquidationNumberFor resolves contractID and derives its liquidation number.
func LiquidationNumberFor(existing []Contract, contractID int64, kind LiquidationKind) (string, error) {
	c, _, ok := FindContract(existing, contractID)
	if !ok {
		return "", domainagg.NewError(domainagg.CodeNotFound, "Numbering.LiquidationNumberFor", fmt.Sprintf("contract %d not found", contractID), nil)
	}
	return LiquidationNumber(c.ContractNumber, kind)
}

// ParseContractNumber splits a number produced by FormatContractNumber.
// The ward code is whatever sits between the two-digit year and the suffix.
func ParseContractNumber(number string) (NumberParts, error) {
	const op = "Numbering.ParseContractNumber"
	invalid := func(why string) (NumberParts, error) {
		return NumberParts{}, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("%q: %s", number, why), nil)
	}
	body, ok := strings.CutSuffix(number, ContractSuffix)
	if !ok {
		return invalid("missing contract suffix")
	}
	seqRaw, rest, ok := strings.Cut(body, "/")
	if !ok {
		return invalid("missing sequence separator")
	}
	seq, err := strconv.Atoi(seqRaw)
	if err != nil || seq <= 0 {
		return invalid("sequence is not a positive integer")
	}
	if len(rest) < 2 {
		return invalid("missing year")
	}
	year, err := strconv.Atoi(rest[:2])
	if err != nil {
		return invalid("year is not numeric")
	}
	return NumberParts{Sequence: seq, Year: year, WardCode: rest[2:]}, nil
}
