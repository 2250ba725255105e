package contracts

import (
	"reflect"
	"testing"

	domainagg "github.com/yungbote/landcontract-backend/internal/domain/aggregates"
)

func processing() Contract {
	return Contract{ID: 1, ContractNumber: "01/2401.HĐ.VPĐKLK", Status: StatusProcessing}
}

func TestLifecycleFromProcessing(t *testing.T) {
	cancelled, err := Cancel(processing(), "Khách hàng yêu cầu")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != StatusCancelled || cancelled.CancellationReason != "Khách hàng yêu cầu" {
		t.Fatalf("Cancel: unexpected %+v", cancelled)
	}

	completed, err := Liquidate(processing(), LiquidationComplete, Policy{})
	if err != nil {
		t.Fatalf("Liquidate complete: %v", err)
	}
	if completed.Status != StatusCompleted {
		t.Fatalf("Liquidate complete: status=%q", completed.Status)
	}

	liqCancelled, err := Liquidate(processing(), LiquidationCancel, Policy{})
	if err != nil {
		t.Fatalf("Liquidate cancel: %v", err)
	}
	if liqCancelled.Status != StatusCancelled || liqCancelled.CancellationReason != "" {
		t.Fatalf("Liquidate cancel: unexpected %+v", liqCancelled)
	}
}

func TestLifecycleRejectsTerminalStates(t *testing.T) {
	for _, from := range []Status{StatusCompleted, StatusCancelled} {
		c := processing()
		c.Status = from
		if _, err := Cancel(c, "lý do đủ dài"); !domainagg.IsCode(err, domainagg.CodeInvalidTransition) {
			t.Fatalf("Cancel from %q: expected invalid_transition, got %v", from, err)
		}
		for _, kind := range []LiquidationKind{LiquidationComplete, LiquidationCancel} {
			if _, err := Liquidate(c, kind, Policy{}); !domainagg.IsCode(err, domainagg.CodeInvalidTransition) {
				t.Fatalf("Liquidate %s from %q: expected invalid_transition, got %v", kind, from, err)
			}
		}
	}
}

func TestReliquidationPolicy(t *testing.T) {
	c := processing()
	c.Status = StatusCompleted
	got, err := Liquidate(c, LiquidationCancel, Policy{AllowReliquidation: true})
	if err != nil {
		t.Fatalf("Liquidate with policy: %v", err)
	}
	if got.Status != StatusCancelled {
		t.Fatalf("status: want=%q got=%q", StatusCancelled, got.Status)
	}
	if _, err := Cancel(c, "lý do đủ dài"); err == nil {
		t.Fatalf("direct cancellation must stay Processing-only")
	}
}

func TestAllowedTriggers(t *testing.T) {
	all := []Trigger{TriggerDirectCancel, TriggerLiquidateComplete, TriggerLiquidateCancel}
	if got := AllowedTriggers(StatusProcessing, Policy{}); !reflect.DeepEqual(got, all) {
		t.Fatalf("processing: got=%v", got)
	}
	if got := AllowedTriggers(StatusCompleted, Policy{}); len(got) != 0 {
		t.Fatalf("completed: got=%v", got)
	}
	want := []Trigger{TriggerLiquidateComplete, TriggerLiquidateCancel}
	if got := AllowedTriggers(StatusCancelled, Policy{AllowReliquidation: true}); !reflect.DeepEqual(got, want) {
		t.Fatalf("cancelled+policy: got=%v", got)
	}
}

func TestSetStatus(t *testing.T) {
	got, err := SetStatus(processing(), StatusCancelled, "đổi ý không làm nữa")
	if err != nil || got.Status != StatusCancelled {
		t.Fatalf("SetStatus cancelled: %+v %v", got, err)
	}
	if _, err := SetStatus(processing(), StatusCompleted, ""); !domainagg.IsCode(err, domainagg.CodeInvalidTransition) {
		t.Fatalf("SetStatus completed: expected invalid_transition, got %v", err)
	}
	if _, err := SetStatus(processing(), Status("x"), ""); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("SetStatus unknown: expected validation, got %v", err)
	}
}

func TestValidateCancellationReason(t *testing.T) {
	cases := []struct {
		reason string
		ok     bool
	}{
		{"Khách hủy", true},  // 9 characters, 11 bytes
		{"Hủy gấp", false},   // 7 characters
		{"12345678", true},
		{"   1234567   ", false},
	}
	for _, tc := range cases {
		err := ValidateCancellationReason(tc.reason)
		if (err == nil) != tc.ok {
			t.Fatalf("ValidateCancellationReason(%q): ok=%v err=%v", tc.reason, tc.ok, err)
		}
	}
}
