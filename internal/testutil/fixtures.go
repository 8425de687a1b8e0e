package testutil

import (
	"sync/atomic"
	"time"

	"github.com/alexanderramin/laststart/internal/domain"
	"github.com/google/uuid"
)

var testSeqCounter atomic.Int64

// WorkItem options
type WorkItemOption func(*domain.WorkItem)

func WithPlannedMin(m int) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.PlannedMin = m
	}
}

func WithLoggedMin(m int) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.LoggedMin = m
	}
}

func WithDueDate(d time.Time) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.DueDate = &d
	}
}

func WithNotBefore(d time.Time) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.NotBefore = &d
	}
}

func WithStatus(s domain.WorkItemStatus) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Status = s
	}
}

func WithPriority(p int) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Priority = p
	}
}

func WithSeq(seq int) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Seq = seq
	}
}

func WithDescription(d string) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Description = d
	}
}

// NewTestWorkItem returns a todo item with an hour of planned effort and a
// process-unique Seq. It has no due date unless one is given.
func NewTestWorkItem(title string, opts ...WorkItemOption) *domain.WorkItem {
	now := time.Now().UTC().Truncate(time.Second)
	w := &domain.WorkItem{
		ID:         uuid.New().String(),
		Seq:        int(testSeqCounter.Add(1)),
		Title:      title,
		Status:     domain.WorkItemTodo,
		Priority:   domain.PriorityNormal,
		PlannedMin: 60,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Session options
type SessionOption func(*domain.WorkSessionLog)

func WithNote(note string) SessionOption {
	return func(s *domain.WorkSessionLog) {
		s.Note = note
	}
}

func WithStartedAt(t time.Time) SessionOption {
	return func(s *domain.WorkSessionLog) {
		s.StartedAt = t
	}
}

func NewTestSession(workItemID string, minutes int, opts ...SessionOption) *domain.WorkSessionLog {
	now := time.Now().UTC().Truncate(time.Second)
	s := &domain.WorkSessionLog{
		ID:         uuid.New().String(),
		WorkItemID: workItemID,
		StartedAt:  now.Add(-time.Duration(minutes) * time.Minute),
		Minutes:    minutes,
		CreatedAt:  now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Profile options
type ProfileOption func(*domain.UserProfile)

func WithWorkDays(days ...time.Weekday) ProfileOption {
	return func(p *domain.UserProfile) {
		p.WorkDays = days
	}
}

func WithWorkWindow(startMin, endMin int) ProfileOption {
	return func(p *domain.UserProfile) {
		p.WorkStartMin = startMin
		p.WorkEndMin = endMin
	}
}

func WithBinMinutes(m int) ProfileOption {
	return func(p *domain.UserProfile) {
		p.BinMinutes = m
	}
}

func WithTimezone(tz string) ProfileOption {
	return func(p *domain.UserProfile) {
		p.Timezone = tz
	}
}

// NewTestProfile returns a weekday 09:00-17:00 profile with 15-minute bins in UTC.
func NewTestProfile(opts ...ProfileOption) *domain.UserProfile {
	p := &domain.UserProfile{
		ID:           domain.DefaultProfileID,
		WorkDays:     []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		WorkStartMin: 9 * 60,
		WorkEndMin:   17 * 60,
		BinMinutes:   15,
		Timezone:     "UTC",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}
