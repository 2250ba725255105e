package aggregates

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	domainagg "github.com/yungbote/landcontract-backend/internal/domain/aggregates"
	"github.com/yungbote/landcontract-backend/internal/domain/contracts"
)

// RequireWard resolves a ward or fails with not_found.
func RequireWard(data contracts.AppData, op string, id int64) (contracts.Ward, error) {
	w, ok := contracts.FindWard(data.Wards, id)
	if !ok {
		return contracts.Ward{}, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("ward %d not found", id), nil)
	}
	return w, nil
}

// RequireContract resolves a contract and its index or fails with not_found.
func RequireContract(data contracts.AppData, op string, id int64) (contracts.Contract, int, error) {
	c, idx, ok := contracts.FindContract(data.Contracts, id)
	if !ok {
		return contracts.Contract{}, -1, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("contract %d not found", id), nil)
	}
	return c, idx, nil
}

// RequireUniqueNumber rejects a contract number already in use.
func RequireUniqueNumber(cs []contracts.Contract, number string) error {
	for _, c := range cs {
		if c.ContractNumber == number {
			return ConflictError(fmt.Sprintf("contract number %s already exists", number))
		}
	}
	return nil
}

// RequireCollections checks that every key is present with a truthy value:
// not null, false, 0 or "".
func RequireCollections(doc map[string]json.RawMessage, keys ...string) error {
	missing := []string{}
	for _, k := range keys {
		raw, ok := doc[k]
		if !ok || !truthy(raw) {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return RestoreFormatError("missing required collections: " + strings.Join(missing, ", "))
	}
	return nil
}

func truthy(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	switch string(v) {
	case "", "null", "false", "0", `""`:
		return false
	}
	return true
}
