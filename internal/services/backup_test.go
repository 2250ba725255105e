package services

import (
	"strings"
	"testing"
	"time"

	"github.com/yungbote/landcontract-backend/internal/backupfile"
	domainagg "github.com/yungbote/landcontract-backend/internal/domain/aggregates"
	"github.com/yungbote/landcontract-backend/internal/domain/contracts"
	"github.com/yungbote/landcontract-backend/internal/platform/logger"
)

func TestBackupRestoreCompressed(t *testing.T) {
	f := newFixture(t)
	contractsSvc := NewContractService(logger.Nop(), f.ledger)
	if _, err := contractsSvc.Create(asAdmin(), sampleDetails()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	svc := NewBackupService(logger.Nop(), f.ledger)

	if _, err := svc.Backup(asStaff(), backupfile.EncodingJSON); !domainagg.IsCode(err, domainagg.CodeForbidden) {
		t.Fatalf("staff backup: expected forbidden, got %v", err)
	}
	file, err := svc.Backup(asAdmin(), backupfile.EncodingZstd)
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if !strings.HasPrefix(file.FileName, "backup-") || !strings.HasSuffix(file.FileName, ".json.zst") {
		t.Fatalf("file name: %q", file.FileName)
	}
	if !backupfile.IsCompressed(file.Body) {
		t.Fatalf("expected a zstd body")
	}

	if _, err := contractsSvc.Create(asAdmin(), sampleDetails()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	sum, err := svc.Restore(asAdmin(), file.Body)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if sum.Contracts != 1 || sum.Wards != 2 || sum.Users != 2 {
		t.Fatalf("summary: %+v", sum)
	}
}

func TestRestoreRejectsMissingContracts(t *testing.T) {
	f := newFixture(t)
	svc := NewBackupService(logger.Nop(), f.ledger)
	before := f.ledger.Snapshot()
	_, err := svc.Restore(asAdmin(), []byte(`{"users":[],"wards":[]}`))
	if !domainagg.IsCode(err, domainagg.CodeRestoreFormat) {
		t.Fatalf("expected restore_format, got %v", err)
	}
	if after := f.ledger.Snapshot(); len(after.Users) != len(before.Users) || len(after.Wards) != len(before.Wards) {
		t.Fatalf("snapshot changed on rejected restore")
	}
	if _, err := svc.Restore(asAdmin(), nil); !domainagg.IsCode(err, domainagg.CodeRestoreFormat) {
		t.Fatalf("empty body: expected restore_format, got %v", err)
	}
}

func TestStatisticsPeriodAndGate(t *testing.T) {
	f := newFixture(t)
	if _, err := NewContractService(logger.Nop(), f.ledger).Create(asAdmin(), sampleDetails()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	svc := NewStatisticsService(logger.Nop(), f.ledger, time.UTC)
	if _, err := svc.Statistics(asStaff(), StatsQuery{}); !domainagg.IsCode(err, domainagg.CodeForbidden) {
		t.Fatalf("staff stats: expected forbidden, got %v", err)
	}
	stats, err := svc.Statistics(asAdmin(), StatsQuery{Period: "year"})
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if stats.Total != 1 || stats.Processing != 1 || len(stats.ByWard) != 1 {
		t.Fatalf("stats: %+v", stats)
	}
	if _, err := svc.Statistics(asAdmin(), StatsQuery{Period: "decade"}); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("bad period: expected validation, got %v", err)
	}
	bad := StatsQuery{Filter: contracts.Filter{Status: contracts.Status("x")}}
	if _, err := svc.Statistics(asAdmin(), bad); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("bad status: expected validation, got %v", err)
	}
}
