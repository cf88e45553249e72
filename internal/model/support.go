package model

import (
	"fmt"
	"strings"
	"time"
)

type SupportStatus string

const (
	SupportOpen       SupportStatus = "OPEN"
	SupportInProgress SupportStatus = "IN_PROGRESS"
	SupportResolved   SupportStatus = "RESOLVED"
	SupportClosed     SupportStatus = "CLOSED"
)

var SupportTransitions = Transitions[SupportStatus]{
	SupportOpen:       {SupportInProgress, SupportResolved, SupportClosed},
	SupportInProgress: {SupportResolved, SupportClosed},
	SupportResolved:   {SupportClosed, SupportInProgress},
	SupportClosed:     {},
}

func ParseSupportStatus(s string) (SupportStatus, error) {
	st := SupportStatus(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := SupportTransitions[st]; !ok {
		return "", fmt.Errorf("unknown support status %q", s)
	}
	return st, nil
}

func (s SupportStatus) CanTransitionTo(to SupportStatus) bool {
	return SupportTransitions.Allows(s, to)
}

// SupportTicket is a help request sent to the platform team.
type SupportTicket struct {
	ID        string        `json:"id"`
	TenantID  string        `json:"tenant_id"`
	FirstName *string       `json:"first_name,omitempty"`
	LastName  *string       `json:"last_name,omitempty"`
	Email     string        `json:"email"`
	Subject   string        `json:"subject"`
	Message   string        `json:"message"`
	Status    SupportStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
