package services

import (
	"context"

	"github.com/yungbote/landcontract-backend/internal/backupfile"
	domainagg "github.com/yungbote/landcontract-backend/internal/domain/aggregates"
	"github.com/yungbote/landcontract-backend/internal/domain/contracts"
	"github.com/yungbote/landcontract-backend/internal/platform/logger"
)

// BackupFile is an encoded backup ready to hand to a caller.
type BackupFile struct {
	FileName    string
	ContentType string
	Body        []byte
}

// RestoreSummary counts what a restore loaded.
type RestoreSummary struct {
	Users        int `json:"users"`
	Wards        int `json:"wards"`
	Contracts    int `json:"contracts"`
	Liquidations int `json:"liquidations"`
}

type BackupService interface {
	Backup(ctx context.Context, enc backupfile.Encoding) (*BackupFile, error)
	Restore(ctx context.Context, raw []byte) (RestoreSummary, error)
}

type backupService struct {
	log    *logger.Logger
	ledger contracts.Ledger
}

func NewBackupService(log *logger.Logger, ledger contracts.Ledger) BackupService {
	return &backupService{log: log.With("service", "BackupService"), ledger: ledger}
}

func (bs *backupService) Backup(ctx context.Context, enc backupfile.Encoding) (*BackupFile, error) {
	const op = "backup.create"
	rd, err := requireAdmin(ctx, op)
	if err != nil {
		return nil, err
	}
	res, err := bs.ledger.Backup(ctx)
	if err != nil {
		return nil, err
	}
	body, name, err := backupfile.Encode(res.Document, res.FileName, enc)
	if err != nil {
		return nil, validationError(op, err.Error())
	}
	bs.log.Info("backup created", "file", name, "bytes", len(body), "by", rd.Username)
	return &BackupFile{FileName: name, ContentType: backupfile.ContentType(enc), Body: body}, nil
}

func (bs *backupService) Restore(ctx context.Context, raw []byte) (RestoreSummary, error) {
	const op = "backup.restore"
	rd, err := requireAdmin(ctx, op)
	if err != nil {
		return RestoreSummary{}, err
	}
	if len(raw) == 0 {
		return RestoreSummary{}, domainagg.NewError(domainagg.CodeRestoreFormat, op, "empty restore document", nil)
	}
	doc, err := backupfile.Decode(raw)
	if err != nil {
		return RestoreSummary{}, domainagg.NewError(domainagg.CodeRestoreFormat, op, err.Error(), err)
	}
	data, err := bs.ledger.Restore(ctx, doc)
	if err != nil {
		return RestoreSummary{}, err
	}
	bs.log.Info("backup restored", "by", rd.Username, "contracts", len(data.Contracts))
	return RestoreSummary{
		Users:        len(data.Users),
		Wards:        len(data.Wards),
		Contracts:    len(data.Contracts),
		Liquidations: len(data.Liquidations),
	}, nil
}
