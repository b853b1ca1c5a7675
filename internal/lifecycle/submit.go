package lifecycle

import (
	"fmt"
	"strings"

	"github.com/RNikdata/RAB/internal/model"
)

// SubmitInput 提交申请的表单
type SubmitInput struct {
	Requester     string // 申请经理姓名
	CandidateID   string
	CounterpartID string
}

// Submit 追加一条 Pending 申请并按键去重，返回新的申请表与新建的行
func Submit(p *Policy, snap Snapshot, in SubmitInput) ([]model.TransferRequest, *model.TransferRequest, error) {
	if isUnset(in.Requester) || isUnset(in.CandidateID) || isUnset(in.CounterpartID) {
		return nil, nil, ErrMissingSelection
	}
	requester := strings.TrimSpace(in.Requester)

	roster := NewRoster(snap.Employees)
	candidate, ok := roster.ByID(in.CandidateID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: 候选员工 %s", ErrEmployeeNotFound, strings.TrimSpace(in.CandidateID))
	}
	counterpart, ok := roster.ByID(in.CounterpartID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: 对调员工 %s", ErrEmployeeNotFound, strings.TrimSpace(in.CounterpartID))
	}
	if candidate.EmployeeID == counterpart.EmployeeID {
		return nil, nil, ErrSelfSwap
	}
	if err := p.CheckEligible(candidate); err != nil {
		return nil, nil, err
	}
	if committed(snap.Requests, party{ID: candidate.EmployeeID, Name: candidate.Name}, 0) {
		return nil, nil, fmt.Errorf("%w: %s", ErrEmployeeCommitted, candidate.Label())
	}

	row := model.TransferRequest{
		EmployeeID:        candidate.EmployeeID,
		EmployeeName:      candidate.Name,
		Email:             candidate.Email,
		InterestedManager: requester,
		EmployeeToSwap:    counterpart.Name,
		SwapEmployeeID:    counterpart.EmployeeID,
		Status:            model.StatusPending,
	}
	key := row.Key()
	for i := range snap.Requests {
		r := &snap.Requests[i]
		if r.Status == model.StatusPending && r.Key() == key {
			return nil, nil, fmt.Errorf("%w: 申请编号 %d", ErrDuplicateRequest, r.RequestID)
		}
	}

	id, err := p.IDs.Generate(RequesterID(roster, requester), candidate.EmployeeID, counterpart.EmployeeID)
	if err != nil {
		return nil, nil, err
	}
	for i := range snap.Requests {
		r := &snap.Requests[i]
		if r.RequestID == id && r.Key() != key {
			return nil, nil, fmt.Errorf("%w: %d", ErrRequestIDCollision, id)
		}
	}

	now := p.now()
	row.RequestID = id
	row.RequestedAt = &now

	next := Dedupe(append(cloneRequests(snap.Requests), row))
	return next, &row, nil
}

// RequesterID 申请人在花名册中则取其员工 ID，否则由姓名派生
func RequesterID(roster *Roster, requester string) string {
	if e, ok := roster.ByName(requester); ok {
		return e.EmployeeID
	}
	return PseudoRequesterID(requester)
}
