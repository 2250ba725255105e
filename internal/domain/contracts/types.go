package contracts

import (
	"slices"
	"strings"
	"time"

	"github.com/yungbote/landcontract-backend/internal/domain/user"
)

// Status values are the localized strings stored in documents.
type Status string

const (
	StatusProcessing Status = "Đang xử lý"
	StatusCompleted  Status = "Hoàn thành"
	StatusCancelled  Status = "Đã hủy"
)

var AllStatuses = []Status{StatusProcessing, StatusCompleted, StatusCancelled}

func (s Status) Valid() bool {
	return s == StatusProcessing || s == StatusCompleted || s == StatusCancelled
}

// Terminal reports whether no further lifecycle transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ParseStatus accepts the stored value or a short English alias.
func ParseStatus(raw string) (Status, bool) {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "processing":
		return StatusProcessing, true
	case "completed":
		return StatusCompleted, true
	case "cancelled", "canceled":
		return StatusCancelled, true
	}
	s := Status(raw)
	return s, s.Valid()
}

type LiquidationKind string

const (
	LiquidationComplete LiquidationKind = "Thanh lý hoàn tất"
	LiquidationCancel   LiquidationKind = "Thanh lý hủy hợp đồng"
)

func (k LiquidationKind) Valid() bool {
	return k == LiquidationComplete || k == LiquidationCancel
}

// ParseLiquidationKind accepts the stored value or "complete"/"cancel".
func ParseLiquidationKind(raw string) (LiquidationKind, bool) {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "complete":
		return LiquidationComplete, true
	case "cancel":
		return LiquidationCancel, true
	}
	k := LiquidationKind(raw)
	return k, k.Valid()
}

type Ward struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"wardName" yaml:"wardName"`
	Code string `json:"wardCode" yaml:"wardCode"`
}

type Contract struct {
	ID                 int64     `json:"id" yaml:"id"`
	ContractNumber     string    `json:"contractNumber" yaml:"contractNumber"`
	CustomerName       string    `json:"customerName" yaml:"customerName"`
	MapSheetNumber     int       `json:"mapSheetNumber" yaml:"mapSheetNumber"`
	PlotNumber         int       `json:"plotNumber" yaml:"plotNumber"`
	WardID             int64     `json:"wardId" yaml:"wardId"`
	Notes              string    `json:"notes,omitempty" yaml:"notes"`
	CreatedAt          time.Time `json:"createdAt" yaml:"createdAt"`
	Status             Status    `json:"status" yaml:"status"`
	CancellationReason string    `json:"cancellationReason,omitempty" yaml:"cancellationReason"`
}

// Details are the caller-supplied fields of a contract. They are the
// only fields a later edit may change.
type Details struct {
	CustomerName   string `json:"customerName"`
	MapSheetNumber int    `json:"mapSheetNumber"`
	PlotNumber     int    `json:"plotNumber"`
	WardID         int64  `json:"wardId"`
	Notes          string `json:"notes,omitempty"`
}

// ApplyDetails replaces the editable fields; id, number, createdAt,
// status and cancellation reason are carried over unchanged.
func (c Contract) ApplyDetails(d Details) Contract {
	c.CustomerName = d.CustomerName
	c.MapSheetNumber = d.MapSheetNumber
	c.PlotNumber = d.PlotNumber
	c.WardID = d.WardID
	c.Notes = d.Notes
	return c
}

func (c Contract) Details() Details {
	return Details{
		CustomerName:   c.CustomerName,
		MapSheetNumber: c.MapSheetNumber,
		PlotNumber:     c.PlotNumber,
		WardID:         c.WardID,
		Notes:          c.Notes,
	}
}

type Liquidation struct {
	ID         int64           `json:"id" yaml:"id"`
	Number     string          `json:"liquidationNumber" yaml:"liquidationNumber"`
	ContractID int64           `json:"contractId" yaml:"contractId"`
	Kind       LiquidationKind `json:"liquidationType" yaml:"liquidationType"`
	CreatedAt  time.Time       `json:"createdAt" yaml:"createdAt"`
}

// AppData is the aggregate root persisted and backed up as one document.
type AppData struct {
	Users        []user.User   `json:"users"`
	Wards        []Ward        `json:"wards"`
	Contracts    []Contract    `json:"contracts"`
	Liquidations []Liquidation `json:"liquidations"`
}

// Clone copies every collection so the result shares no backing arrays
// with d. Nil and empty collections stay distinct.
func (d AppData) Clone() AppData {
	return AppData{
		Users:        slices.Clone(d.Users),
		Wards:        slices.Clone(d.Wards),
		Contracts:    slices.Clone(d.Contracts),
		Liquidations: slices.Clone(d.Liquidations),
	}
}

// Normalize replaces nil collections with empty ones so documents always
// serialize as arrays.
func (d AppData) Normalize() AppData {
	if d.Users == nil {
		d.Users = []user.User{}
	}
	if d.Wards == nil {
		d.Wards = []Ward{}
	}
	if d.Contracts == nil {
		d.Contracts = []Contract{}
	}
	if d.Liquidations == nil {
		d.Liquidations = []Liquidation{}
	}
	return d
}

func FindWard(wards []Ward, id int64) (Ward, bool) {
	for _, w := range wards {
		if w.ID == id {
			return w, true
		}
	}
	return Ward{}, false
}

func FindContract(cs []Contract, id int64) (Contract, int, bool) {
	for i, c := range cs {
		if c.ID == id {
			return c, i, true
		}
	}
	return Contract{}, -1, false
}

func FindUser(users []user.User, username string) (user.User, bool) {
	for _, u := range users {
		if u.Username == username {
			return u, true
		}
	}
	return user.User{}, false
}

// LiquidationsFor returns every liquidation of contractID in insertion order.
func LiquidationsFor(ls []Liquidation, contractID int64) []Liquidation {
	out := []Liquidation{}
	for _, l := range ls {
		if l.ContractID == contractID {
			out = append(out, l)
		}
	}
	return out
}

// MaxID returns the largest contract or liquidation id in d.
func (d AppData) MaxID() int64 {
	var max int64
	for _, c := range d.Contracts {
		if c.ID > max {
			max = c.ID
		}
	}
	for _, l := range d.Liquidations {
		if l.ID > max {
			max = l.ID
		}
	}
	return max
}
