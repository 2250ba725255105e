package services

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/landcontract-backend/internal/data/aggregates"
	"github.com/yungbote/landcontract-backend/internal/data/kv"
	"github.com/yungbote/landcontract-backend/internal/domain/contracts"
	"github.com/yungbote/landcontract-backend/internal/domain/user"
	"github.com/yungbote/landcontract-backend/internal/platform/ctxutil"
	"github.com/yungbote/landcontract-backend/internal/platform/logger"
)

type fixture struct {
	ledger *aggregates.ContractLedger
	store  *kv.MemoryStore
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	seed := contracts.AppData{
		Users: []user.User{
			{ID: 1, Username: "admin", Password: string(hash), FullName: "Quản trị viên", Role: user.RoleAdmin},
			{ID: 2, Username: "nhanvien", Password: "nhanvien123", FullName: "Nhân viên", Role: user.RoleUser},
		},
		Wards: []contracts.Ward{
			{ID: 1, Name: "Phường 1", Code: "01"},
			{ID: 2, Name: "Phường Lê Lợi", Code: "LL"},
		},
	}
	store := kv.NewMemoryStore()
	l, err := aggregates.NewContractLedger(context.Background(), store, aggregates.BaseDeps{Log: logger.Nop()}, aggregates.LedgerOptions{
		Location: time.UTC,
		Seed:     func() (contracts.AppData, error) { return seed, nil },
	})
	if err != nil {
		t.Fatalf("NewContractLedger: %v", err)
	}
	return fixture{ledger: l, store: store}
}

func asAdmin() context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: 1, Username: "admin", Role: string(user.RoleAdmin)})
}

func asStaff() context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: 2, Username: "nhanvien", Role: string(user.RoleUser)})
}

func sampleDetails() contracts.Details {
	return contracts.Details{CustomerName: "Nguyễn Văn A", MapSheetNumber: 12, PlotNumber: 345, WardID: 1}
}
