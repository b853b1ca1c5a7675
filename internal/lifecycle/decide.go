package lifecycle

import (
	"fmt"
	"strings"

	"github.com/RNikdata/RAB/internal/model"
)

// Decision 审批操作
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// ParseDecision 大小写不敏感地解析审批操作
func ParseDecision(s string) (Decision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "approve", "approved":
		return DecisionApprove, nil
	case "reject", "rejected":
		return DecisionReject, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDecision, s)
}

func (d Decision) target() (model.RequestStatus, error) {
	switch d {
	case DecisionApprove:
		return model.StatusApproved, nil
	case DecisionReject:
		return model.StatusRejected, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDecision, string(d))
}

// CanTransition 状态机：Approved 只能前进，不允许同状态重复设置
func CanTransition(from, to model.RequestStatus) bool {
	if from == to {
		return false
	}
	switch from {
	case model.StatusPending:
		return to == model.StatusApproved || to == model.StatusRejected
	case model.StatusRejected:
		return to == model.StatusApproved
	}
	return false
}

// DecideResult 审批结果
type DecideResult struct {
	Request  model.TransferRequest
	Cascaded []int64 // 因本次批准被自动驳回的申请编号
}

// Decide 审批申请；批准时自动驳回涉及同一候选员工或同一对调员工的其他 Pending 申请
func Decide(p *Policy, snap Snapshot, requestID int64, d Decision, actor string) ([]model.TransferRequest, *DecideResult, error) {
	to, err := d.target()
	if err != nil {
		return nil, nil, err
	}

	var idx []int
	for i := range snap.Requests {
		if snap.Requests[i].RequestID == requestID {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return nil, nil, fmt.Errorf("%w: %d", ErrRequestNotFound, requestID)
	}
	for _, i := range idx {
		from := snap.Requests[i].Status
		if !CanTransition(from, to) {
			return nil, nil, fmt.Errorf("%w: %d 从 %s 到 %s", ErrInvalidTransition, requestID, from, to)
		}
	}

	roster := NewRoster(snap.Employees)
	if to == model.StatusApproved {
		for _, i := range idx {
			r := &snap.Requests[i]
			for _, pt := range []party{candidateOf(r, roster), counterpartOf(r, roster)} {
				if committed(snap.Requests, pt, requestID) {
					return nil, nil, fmt.Errorf("%w: %s", ErrEmployeeCommitted, pt.Name)
				}
			}
		}
	}

	now := p.now()
	next := cloneRequests(snap.Requests)
	for _, i := range idx {
		next[i].Status = to
		next[i].DecidedAt = &now
		next[i].DecidedBy = actor
	}
	result := &DecideResult{Request: next[idx[0]]}
	if to != model.StatusApproved {
		return next, result, nil
	}

	// ── 级联驳回 ──
	// 只看获批申请的候选员工（作为候选或对调）与同一对调员工
	var cands, cps []party
	for _, i := range idx {
		r := &snap.Requests[i]
		cands = append(cands, candidateOf(r, roster))
		cps = append(cps, counterpartOf(r, roster))
	}
	seen := make(map[int64]bool)
	for j := range next {
		r := &next[j]
		if r.RequestID == requestID || r.Status != model.StatusPending {
			continue
		}
		if !related(r, cands, cps) {
			continue
		}
		r.Status = model.StatusRejected
		r.DecidedAt = &now
		r.DecidedBy = actor
		if !seen[r.RequestID] {
			seen[r.RequestID] = true
			result.Cascaded = append(result.Cascaded, r.RequestID)
		}
	}
	return next, result, nil
}

func related(r *model.TransferRequest, cands, cps []party) bool {
	for _, c := range cands {
		if c.ID != "" && r.Involves(c.ID, c.Name) {
			return true
		}
	}
	for _, cp := range cps {
		if sameCounterpart(r, cp) {
			return true
		}
	}
	return false
}

// Remove 删除所有带该编号的行，不论状态
func Remove(requests []model.TransferRequest, requestID int64) ([]model.TransferRequest, error) {
	next := make([]model.TransferRequest, 0, len(requests))
	for _, r := range requests {
		if r.RequestID != requestID {
			next = append(next, r)
		}
	}
	if len(next) == len(requests) {
		return nil, fmt.Errorf("%w: %d", ErrRequestNotFound, requestID)
	}
	return next, nil
}
