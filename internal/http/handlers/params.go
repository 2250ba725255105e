package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/landcontract-backend/internal/domain/aggregates"
	"github.com/yungbote/landcontract-backend/internal/domain/contracts"
)

const dateLayout = "2006-01-02"

func badRequest(msg string) error {
	return domainagg.NewError(domainagg.CodeValidation, "http", msg, nil)
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid id " + strconv.Quote(c.Param("id")))
	}
	return id, nil
}

// queryFilter reads q, status, wardId, from and to. Dates are YYYY-MM-DD
// in loc.
func queryFilter(c *gin.Context, loc *time.Location) (contracts.Filter, error) {
	f := contracts.Filter{Query: strings.TrimSpace(c.Query("q")), Location: loc}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		s, ok := contracts.ParseStatus(raw)
		if !ok {
			return f, badRequest("unknown status " + strconv.Quote(raw))
		}
		f.Status = s
	}
	if raw := strings.TrimSpace(c.Query("wardId")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return f, badRequest("invalid wardId " + strconv.Quote(raw))
		}
		f.WardID = id
	}
	var err error
	if f.From, err = queryDate(c, "from", loc); err != nil {
		return f, err
	}
	if f.To, err = queryDate(c, "to", loc); err != nil {
		return f, err
	}
	return f, nil
}

func queryDate(c *gin.Context, name string, loc *time.Location) (time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		return time.Time{}, badRequest("invalid " + name + " date, want YYYY-MM-DD")
	}
	return t, nil
}
