package contracts

import (
	"fmt"
	"strings"
	"unicode/utf8"

	domainagg "github.com/yungbote/landcontract-backend/internal/domain/aggregates"
)

// MinCancellationReasonLength is counted in characters, not bytes.
const MinCancellationReasonLength = 8

type Trigger string

const (
	TriggerDirectCancel      Trigger = "direct_cancel"
	TriggerLiquidateComplete Trigger = "liquidate_complete"
	TriggerLiquidateCancel   Trigger = "liquidate_cancel"
)

type Transition struct {
	From    Status
	Trigger Trigger
	To      Status
}

var transitions = []Transition{
	{From: StatusProcessing, Trigger: TriggerDirectCancel, To: StatusCancelled},
	{From: StatusProcessing, Trigger: TriggerLiquidateComplete, To: StatusCompleted},
	{From: StatusProcessing, Trigger: TriggerLiquidateCancel, To: StatusCancelled},
}

// Policy holds the configurable parts of the lifecycle.
type Policy struct {
	// AllowReliquidation lets a Completed or Cancelled contract receive
	// another liquidation. Direct cancellation stays Processing-only.
	AllowReliquidation bool
}

func TriggerForKind(kind LiquidationKind) (Trigger, error) {
	switch kind {
	case LiquidationComplete:
		return TriggerLiquidateComplete, nil
	case LiquidationCancel:
		return TriggerLiquidateCancel, nil
	default:
		return "", domainagg.NewError(domainagg.CodeValidation, "Lifecycle.TriggerForKind", fmt.Sprintf("unknown liquidation kind %q", kind), nil)
	}
}

func targetOf(trigger Trigger) (Status, bool) {
	for _, t := range transitions {
		if t.Trigger == trigger {
			return t.To, true
		}
	}
	return "", false
}

func isLiquidation(trigger Trigger) bool {
	return trigger == TriggerLiquidateComplete || trigger == TriggerLiquidateCancel
}

// Next returns the status reached from `from` via trigger, or an
// invalid_transition error.
func Next(from Status, trigger Trigger, policy Policy) (Status, error) {
	for _, t := range transitions {
		if t.From == from && t.Trigger == trigger {
			return t.To, nil
		}
	}
	if from.Terminal() && isLiquidation(trigger) && policy.AllowReliquidation {
		if to, ok := targetOf(trigger); ok {
			return to, nil
		}
	}
	return "", domainagg.NewError(domainagg.CodeInvalidTransition, "Lifecycle.Next",
		fmt.Sprintf("%s is not allowed from status %q", trigger, from), nil)
}

// AllowedTriggers lists the transitions offered for a contract in status from.
func AllowedTriggers(from Status, policy Policy) []Trigger {
	out := []Trigger{}
	for _, trig := range []Trigger{TriggerDirectCancel, TriggerLiquidateComplete, TriggerLiquidateCancel} {
		if _, err := Next(from, trig, policy); err == nil {
			out = append(out, trig)
		}
	}
	return out
}

// Cancel applies a direct cancellation. The reason is stored verbatim
// when non-empty; an empty reason leaves any existing one in place.
func Cancel(c Contract, reason string) (Contract, error) {
	to, err := Next(c.Status, TriggerDirectCancel, Policy{})
	if err != nil {
		return Contract{}, err
	}
	c.Status = to
	if reason != "" {
		c.CancellationReason = reason
	}
	return c, nil
}

// SetStatus moves c to `to` through the matching direct transition. Only
// Processing -> Cancelled is reachable without a liquidation.
func SetStatus(c Contract, to Status, reason string) (Contract, error) {
	if !to.Valid() {
		return Contract{}, domainagg.NewError(domainagg.CodeValidation, "Lifecycle.SetStatus", fmt.Sprintf("unknown status %q", to), nil)
	}
	if to != StatusCancelled {
		return Contract{}, domainagg.NewError(domainagg.CodeInvalidTransition, "Lifecycle.SetStatus",
			fmt.Sprintf("status %q can only be reached through a liquidation", to), nil)
	}
	return Cancel(c, reason)
}

// Liquidate returns c with the status the liquidation kind leads to.
// The cancellation reason is never touched.
func Liquidate(c Contract, kind LiquidationKind, policy Policy) (Contract, error) {
	trig, err := TriggerForKind(kind)
	if err != nil {
		return Contract{}, err
	}
	to, err := Next(c.Status, trig, policy)
	if err != nil {
		return Contract{}, err
	}
	c.Status = to
	return c, nil
}

func ValidateCancellationReason(reason string) error {
	if utf8.RuneCountInString(strings.TrimSpace(reason)) < MinCancellationReasonLength {
		return domainagg.NewError(domainagg.CodeValidation, "Lifecycle.ValidateCancellationReason",
			fmt.Sprintf("cancellation reason must be at least %d characters", MinCancellationReasonLength), nil)
	}
	return nil
}
