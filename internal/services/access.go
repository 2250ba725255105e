package services

import (
	"context"

	domainagg "github.com/yungbote/landcontract-backend/internal/domain/aggregates"
	"github.com/yungbote/landcontract-backend/internal/domain/user"
	"github.com/yungbote/landcontract-backend/internal/platform/ctxutil"
)

func requireUser(ctx context.Context, op string) (*ctxutil.RequestData, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.Username == "" {
		return nil, domainagg.NewError(domainagg.CodeUnauthorized, op, "sign in required", nil)
	}
	return rd, nil
}

// requireAdmin gates edits, cancellation, liquidation, statistics,
// backup and restore.
func requireAdmin(ctx context.Context, op string) (*ctxutil.RequestData, error) {
	rd, err := requireUser(ctx, op)
	if err != nil {
		return nil, err
	}
	if user.Role(rd.Role) != user.RoleAdmin {
		return nil, domainagg.NewError(domainagg.CodeForbidden, op, "admin role required", nil)
	}
	return rd, nil
}

func validationError(op, msg string) error {
	return domainagg.NewError(domainagg.CodeValidation, op, msg, nil)
}

func notFound(op, msg string) error {
	return domainagg.NewError(domainagg.CodeNotFound, op, msg, nil)
}
