package aggregates

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/yungbote/landcontract-backend/internal/data/kv"
	domainagg "github.com/yungbote/landcontract-backend/internal/domain/aggregates"
	"github.com/yungbote/landcontract-backend/internal/domain/contracts"
	"github.com/yungbote/landcontract-backend/internal/domain/user"
)

type LedgerOptions struct {
	// Location decides which calendar year a contract belongs to.
	Location *time.Location
	Policy   contracts.Policy
	// Seed supplies the initial document when the store holds none.
	Seed func() (contracts.AppData, error)
	// Key overrides kv.KeyAppData.
	Key string
}

// ContractLedger is the in-memory authority over AppData. Every mutation
// copies the current snapshot, applies the change, persists the copy and
// only then publishes it. Readers always see a fully committed snapshot.
type ContractLedger struct {
	deps   BaseDeps
	loc    *time.Location
	policy contracts.Policy

	mu   sync.RWMutex
	data contracts.AppData
	ids  *idSequence
}

var _ contracts.Ledger = (*ContractLedger)(nil)

// NewContractLedger loads the stored document from store, or the seed
// when none exists. A stored document that cannot be decoded is logged
// and replaced in memory by the seed; it is overwritten on the next write.
func NewContractLedger(ctx context.Context, store kv.Store, deps BaseDeps, opts LedgerOptions) (*ContractLedger, error) {
	deps = deps.withDefaults()
	deps.Log = deps.Log.With("aggregate", "ContractLedger")
	key := opts.Key
	if key == "" {
		key = kv.KeyAppData
	}
	if deps.Writer == nil {
		deps.Writer = NewGatewayWriter(store, key)
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	data, found, err := loadSnapshot(ctx, store, key)
	corrupt := false
	if err != nil {
		mapped := MapError("Contracts.Load", err)
		if !domainagg.IsCode(mapped, domainagg.CodeRestoreFormat) {
			return nil, mapped
		}
		deps.Log.Error("stored document unreadable, falling back to seed", "key", key, "error", err)
		found, corrupt = false, true
	}

	if !found {
		if opts.Seed != nil {
			if data, err = opts.Seed(); err != nil {
				return nil, fmt.Errorf("seed: %w", err)
			}
		}
		data = data.Normalize()
		if !corrupt {
			if err := deps.Writer.Write(ctx, data); err != nil {
				return nil, MapError("Contracts.Seed", err)
			}
			deps.Log.Info("seeded empty store", "users", len(data.Users), "wards", len(data.Wards), "contracts", len(data.Contracts))
		}
	}
	l := &ContractLedger{
		deps:   deps,
		loc:    loc,
		policy: opts.Policy,
		data:   data,
		ids:    newIDSequence(data.MaxID(), deps.Clock),
	}
	deps.Hooks.SnapshotPublished(data)
	return l, nil
}

func (l *ContractLedger) Contract() domainagg.Contract {
	return contracts.LedgerAggregateContract
}

func (l *ContractLedger) now(override time.Time) time.Time {
	if !override.IsZero() {
		return override
	}
	return l.deps.Clock()
}

// stamp is the stored form of a creation time.
func stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// mutate runs fn against a private copy of the snapshot under the write
// lock. fn returns changed=false to skip the write entirely.
func (l *ContractLedger) mutate(ctx context.Context, op string, fn func(next *contracts.AppData) (bool, error)) error {
	return executeWrite(ctx, l.deps, op, func(ctx context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		next := l.data.Clone()
		changed, err := fn(&next)
		if err != nil || !changed {
			return err
		}
		next = next.Normalize()
		if err := l.deps.Writer.Write(ctx, next); err != nil {
			return err
		}
		l.data = next
		l.deps.Hooks.SnapshotPublished(next)
		return nil
	})
}

func (l *ContractLedger) AddContract(ctx context.Context, in contracts.AddContractInput) (contracts.Contract, error) {
	const op = "Contracts.AddContract"
	var created contracts.Contract
	err := l.mutate(ctx, op, func(next *contracts.AppData) (bool, error) {
		now := l.now(in.Now)
		number, seq, err := contracts.ContractNumber(next.Wards, next.Contracts, in.WardID, now, l.loc)
		if err != nil {
			return false, err
		}
		if err := RequireUniqueNumber(next.Contracts, number); err != nil {
			return false, err
		}
		if seq > contracts.MaxFixedWidthSequence {
			ward, _ := contracts.FindWard(next.Wards, in.WardID)
			l.deps.Log.Warn("contract sequence exceeds two digits", "sequence", seq, "number", number)
			l.deps.Hooks.IncSequenceOverflow(ward.Code)
		}
		created = contracts.Contract{
			ID:             l.ids.next(),
			ContractNumber: number,
			CreatedAt:      stamp(now),
			Status:         contracts.StatusProcessing,
		}.ApplyDetails(in.Details)
		next.Contracts = append(next.Contracts, created)
		return true, nil
	})
	if err != nil {
		return contracts.Contract{}, err
	}
	return created, nil
}

func (l *ContractLedger) UpdateContract(ctx context.Context, in contracts.UpdateContractInput) (contracts.Contract, bool, error) {
	const op = "Contracts.UpdateContract"
	var (
		updated contracts.Contract
		found   bool
	)
	err := l.mutate(ctx, op, func(next *contracts.AppData) (bool, error) {
		c, idx, ok := contracts.FindContract(next.Contracts, in.ID)
		if !ok {
			return false, nil
		}
		found = true
		if _, err := RequireWard(*next, op, in.WardID); err != nil {
			return false, err
		}
		updated = c.ApplyDetails(in.Details)
		next.Contracts[idx] = updated
		return true, nil
	})
	if err != nil {
		return contracts.Contract{}, found, err
	}
	return updated, found, nil
}

func (l *ContractLedger) UpdateContractStatus(ctx context.Context, in contracts.UpdateStatusInput) (contracts.Contract, error) {
	const op = "Contracts.UpdateContractStatus"
	var updated contracts.Contract
	err := l.mutate(ctx, op, func(next *contracts.AppData) (bool, error) {
		c, idx, err := RequireContract(*next, op, in.ID)
		if err != nil {
			return false, err
		}
		if updated, err = contracts.SetStatus(c, in.Status, in.Reason); err != nil {
			return false, err
		}
		next.Contracts[idx] = updated
		l.deps.Hooks.IncTransition(c.Status, updated.Status, contracts.TriggerDirectCancel)
		return true, nil
	})
	if err != nil {
		return contracts.Contract{}, err
	}
	return updated, nil
}

func (l *ContractLedger) AddLiquidation(ctx context.Context, in contracts.AddLiquidationInput) (contracts.AddLiquidationResult, error) {
	const op = "Contracts.AddLiquidation"
	var res contracts.AddLiquidationResult
	err := l.mutate(ctx, op, func(next *contracts.AppData) (bool, error) {
		c, idx, err := RequireContract(*next, op, in.ContractID)
		if err != nil {
			return false, err
		}
		number, err := contracts.LiquidationNumber(c.ContractNumber, in.Kind)
		if err != nil {
			return false, err
		}
		updated, err := contracts.Liquidate(c, in.Kind, l.policy)
		if err != nil {
			return false, err
		}
		liq := contracts.Liquidation{
			ID:         l.ids.next(),
			Number:     number,
			ContractID: c.ID,
			Kind:       in.Kind,
			CreatedAt:  stamp(l.now(in.Now)),
		}
		next.Liquidations = append(next.Liquidations, liq)
		next.Contracts[idx] = updated
		trig, _ := contracts.TriggerForKind(in.Kind)
		l.deps.Hooks.IncTransition(c.Status, updated.Status, trig)
		res = contracts.AddLiquidationResult{Liquidation: liq, Contract: updated}
		return true, nil
	})
	if err != nil {
		return contracts.AddLiquidationResult{}, err
	}
	return res, nil
}

func (l *ContractLedger) GetWardByID(id int64) (contracts.Ward, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return contracts.FindWard(l.data.Wards, id)
}

func (l *ContractLedger) GetContractByID(id int64) (contracts.Contract, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, _, ok := contracts.FindContract(l.data.Contracts, id)
	return c, ok
}

func (l *ContractLedger) GetLiquidationsByContractID(contractID int64) []contracts.Liquidation {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return contracts.LiquidationsFor(l.data.Liquidations, contractID)
}

func (l *ContractLedger) FindUser(username string) (user.User, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return contracts.FindUser(l.data.Users, user.NormalizeUsername(username))
}

func (l *ContractLedger) ListWards() []contracts.Ward {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]contracts.Ward{}, l.data.Wards...)
}

func (l *ContractLedger) withLocation(f contracts.Filter) contracts.Filter {
	if f.Location == nil {
		f.Location = l.loc
	}
	return f
}

func (l *ContractLedger) ListContracts(f contracts.Filter) []contracts.Contract {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return contracts.FilterContracts(l.data.Contracts, l.withLocation(f))
}

func (l *ContractLedger) Stats(f contracts.Filter) contracts.Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return contracts.ComputeStats(l.data.Contracts, l.data.Wards, l.withLocation(f))
}

func (l *ContractLedger) Snapshot() contracts.AppData {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.data.Clone().Normalize()
}

// Location is the numbering time zone.
func (l *ContractLedger) Location() *time.Location { return l.loc }

// BackupFileName is backup-YYYY-MM-DD.json for the given day in the numbering zone.
func (l *ContractLedger) BackupFileName(now time.Time) string {
	return "backup-" + now.In(l.loc).Format("2006-01-02") + ".json"
}

func (l *ContractLedger) Backup(ctx context.Context) (contracts.BackupResult, error) {
	const op = "Contracts.Backup"
	if err := ctx.Err(); err != nil {
		return contracts.BackupResult{}, MapError(op, err)
	}
	doc, err := json.MarshalIndent(l.Snapshot(), "", "  ")
	if err != nil {
		return contracts.BackupResult{}, MapError(op, PersistenceError(err))
	}
	return contracts.BackupResult{FileName: l.BackupFileName(l.deps.Clock()), Document: doc}, nil
}

// Restore replaces the whole snapshot with doc. users, wards and
// contracts must be present and truthy (not null, false, 0 or ""), so an
// empty array is accepted; liquidations may be absent. On any failure the
// current snapshot is kept.
func (l *ContractLedger) Restore(ctx context.Context, doc []byte) (contracts.AppData, error) {
	const op = "Contracts.Restore"
	restored, err := decodeRestoreDocument(doc)
	if err != nil {
		return contracts.AppData{}, MapError(op, err)
	}
	err = l.mutate(ctx, op, func(next *contracts.AppData) (bool, error) {
		*next = restored
		l.ids.reseed(restored.MaxID())
		return true, nil
	})
	if err != nil {
		return contracts.AppData{}, err
	}
	l.deps.Log.Info("snapshot restored", "users", len(restored.Users), "wards", len(restored.Wards),
		"contracts", len(restored.Contracts), "liquidations", len(restored.Liquidations))
	return restored.Clone(), nil
}

func decodeRestoreDocument(doc []byte) (contracts.AppData, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(doc, &top); err != nil {
		return contracts.AppData{}, RestoreFormatError(fmt.Sprintf("document is not a JSON object: %v", err))
	}
	if err := RequireCollections(top, "users", "wards", "contracts"); err != nil {
		return contracts.AppData{}, err
	}
	var data contracts.AppData
	if err := json.Unmarshal(doc, &data); err != nil {
		return contracts.AppData{}, RestoreFormatError(fmt.Sprintf("document does not match the backup format: %v", err))
	}
	return data.Normalize(), nil
}
