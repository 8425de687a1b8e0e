package app

import (
	"errors"
	"time"
)

type LatestStartRequest struct {
	Now   *time.Time
	Limit int // items considered; <= 0 uses the configured cap
}

func NewLatestStartRequest() LatestStartRequest {
	return LatestStartRequest{}
}

// LatestStartEntry is one item's recommendation, in latest-start order.
type LatestStartEntry struct {
	WorkItemID   string
	Seq          int
	Title        string
	DueDate      time.Time
	LatestStart  time.Time
	AllocatedMin int
	NeededMin    int
}

// LatestStartShortfall names an item that did not receive all its effort.
type LatestStartShortfall struct {
	WorkItemID string
	Seq        int
	Title      string
	MissingMin int
}

type LatestStartResponse struct {
	GeneratedAt time.Time
	IsFeasible  bool
	BinMinutes  int
	Entries     []LatestStartEntry
	Shortfalls  []LatestStartShortfall
	Warnings    []string
}

// Complete reports whether every item received all of its effort.
func (r *LatestStartResponse) Complete() bool {
	return len(r.Shortfalls) == 0
}

type LatestStartErrorCode string

const (
	LatestStartErrInvalidCalendar    LatestStartErrorCode = "INVALID_CALENDAR"
	LatestStartErrNoSchedulableItems LatestStartErrorCode = "NO_SCHEDULABLE_ITEMS"
	LatestStartErrCancelled          LatestStartErrorCode = "CANCELLED"
	LatestStartErrInternal           LatestStartErrorCode = "INTERNAL_ERROR"
)

type LatestStartError struct {
	Code    LatestStartErrorCode
	Message string
	Err     error
}

func (e *LatestStartError) Error() string {
	return string(e.Code) + ": " + e.Message
}

func (e *LatestStartError) Unwrap() error {
	return e.Err
}

// LatestStartCode extracts the error code from err, or "" when err does not
// carry one.
func LatestStartCode(err error) LatestStartErrorCode {
	var lsErr *LatestStartError
	if errors.As(err, &lsErr) {
		return lsErr.Code
	}
	return ""
}
