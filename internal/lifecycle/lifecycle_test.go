package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RNikdata/RAB/config"
	"github.com/RNikdata/RAB/internal/model"
	apperrors "github.com/RNikdata/RAB/pkg/errors"
)

var fixedNow = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func testPolicy() *Policy {
	return &Policy{IDs: ConcatIDGenerator{}, Now: func() time.Time { return fixedNow }}
}

func emp(id, name string) model.Employee {
	return model.Employee{EmployeeID: id, Name: name, BillabilityStatus: "Unbilled"}
}

func req(id int64, cand, manager, swapName, swapID string, st model.RequestStatus) model.TransferRequest {
	return model.TransferRequest{
		RequestID: id, EmployeeID: cand, InterestedManager: manager,
		EmployeeToSwap: swapName, SwapEmployeeID: swapID, Status: st,
	}
}

func statusOf(t *testing.T, reqs []model.TransferRequest, id int64) model.RequestStatus {
	t.Helper()
	for _, r := range reqs {
		if r.RequestID == id {
			return r.Status
		}
	}
	t.Fatalf("申请 %d 不存在", id)
	return ""
}

// ── IDGenerator ──

func TestNewIDGenerator(t *testing.T) {
	g, err := NewIDGenerator(config.IDSchemeConcat)
	require.NoError(t, err)
	assert.Equal(t, config.IDSchemeConcat, g.Scheme())

	g, err = NewIDGenerator(config.IDSchemeLast4)
	require.NoError(t, err)
	assert.Equal(t, config.IDSchemeLast4, g.Scheme())

	_, err = NewIDGenerator("sha")
	assert.Error(t, err)
}

func TestConcatIDGenerator(t *testing.T) {
	id, err := ConcatIDGenerator{}.Generate("1234", "101", "202")
	require.NoError(t, err)
	assert.Equal(t, int64(1234101202), id)

	_, err = ConcatIDGenerator{}.Generate("1234", "E101", "202")
	assert.ErrorIs(t, err, ErrInvalidRequestID)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = ConcatIDGenerator{}.Generate("123456789", "123456789", "123456789")
	assert.ErrorIs(t, err, ErrInvalidRequestID)
}

func TestLast4IDGenerator(t *testing.T) {
	id, err := Last4IDGenerator{}.Generate("1234", "9876543", "202")
	require.NoError(t, err)
	assert.Equal(t, int64(12346543202), id)

	concat, err := ConcatIDGenerator{}.Generate("1234", "9876543", "202")
	require.NoError(t, err)
	assert.NotEqual(t, concat, id)
}

func TestPseudoRequesterID(t *testing.T) {
	for _, name := range []string{"Mgr1", "Alice Manager", "张三", ""} {
		id := PseudoRequesterID(name)
		assert.Len(t, id, 4, name)
		assert.GreaterOrEqual(t, id, "1000")
		assert.LessOrEqual(t, id, "9999")
		assert.Equal(t, id, PseudoRequesterID(" "+name+" "), "首尾空白不影响结果")
	}
}

// ── Dedupe ──

func TestDedupe_KeepLast(t *testing.T) {
	in := []model.TransferRequest{
		req(1, "101", "M", "B", "", model.StatusRejected),
		req(2, "102", "M", "C", "", model.StatusPending),
		req(3, "101", "M", "B", "", model.StatusPending),
	}
	out := Dedupe(in)
	require.Len(t, out, 2)
	assert.Equal(t, int64(2), out[0].RequestID)
	assert.Equal(t, int64(3), out[1].RequestID)
	assert.Equal(t, model.StatusPending, out[1].Status)
}

// ── Submit ──

func TestSubmit_Scenario(t *testing.T) {
	snap := Snapshot{Employees: []model.Employee{emp("101", "A"), emp("202", "B")}}

	next, row, err := Submit(testPolicy(), snap, SubmitInput{Requester: "Mgr1", CandidateID: "101", CounterpartID: "202"})
	require.NoError(t, err)
	require.Len(t, next, 1)

	want, err := ConcatIDGenerator{}.Generate(PseudoRequesterID("Mgr1"), "101", "202")
	require.NoError(t, err)

	assert.Equal(t, want, row.RequestID)
	assert.Equal(t, "101", next[0].EmployeeID)
	assert.Equal(t, "A", next[0].EmployeeName)
	assert.Equal(t, "B", next[0].EmployeeToSwap)
	assert.Equal(t, "202", next[0].SwapEmployeeID)
	assert.Equal(t, "Mgr1", next[0].InterestedManager)
	assert.Equal(t, model.StatusPending, next[0].Status)
	require.NotNil(t, next[0].RequestedAt)
	assert.True(t, fixedNow.Equal(*next[0].RequestedAt))
	assert.Empty(t, snap.Requests, "输入快照不应被修改")
}

func TestSubmit_RequesterInRoster(t *testing.T) {
	snap := Snapshot{Employees: []model.Employee{emp("101", "A"), emp("202", "B"), emp("7", "Boss")}}

	_, row, err := Submit(testPolicy(), snap, SubmitInput{Requester: " boss ", CandidateID: "101", CounterpartID: "202"})
	require.NoError(t, err)
	assert.Equal(t, int64(7101202), row.RequestID)
	assert.Equal(t, "boss", row.InterestedManager)
}

func TestSubmit_Idempotent(t *testing.T) {
	p := testPolicy()
	snap := Snapshot{Employees: []model.Employee{emp("101", "A"), emp("202", "B")}}
	in := SubmitInput{Requester: "Mgr1", CandidateID: "101", CounterpartID: "202"}

	first, _, err := Submit(p, snap, in)
	require.NoError(t, err)

	snap.Requests = first
	_, _, err = Submit(p, snap, in)
	assert.ErrorIs(t, err, ErrDuplicateRequest)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Len(t, snap.Requests, 1)
}

func TestSubmit_ResubmitAfterRejectReplacesRow(t *testing.T) {
	p := testPolicy()
	snap := Snapshot{Employees: []model.Employee{emp("101", "A"), emp("202", "B")}}
	in := SubmitInput{Requester: "Mgr1", CandidateID: "101", CounterpartID: "202"}

	first, row, err := Submit(p, snap, in)
	require.NoError(t, err)
	first[0].Status = model.StatusRejected
	snap.Requests = first

	next, again, err := Submit(p, snap, in)
	require.NoError(t, err)
	require.Len(t, next, 1)
	assert.Equal(t, row.RequestID, again.RequestID)
	assert.Equal(t, model.StatusPending, next[0].Status)
}

func TestSubmit_Validation(t *testing.T) {
	snap := Snapshot{Employees: []model.Employee{emp("101", "A"), emp("202", "B")}}
	cases := []struct {
		name string
		in   SubmitInput
		want error
	}{
		{"缺少申请人", SubmitInput{CandidateID: "101", CounterpartID: "202"}, ErrMissingSelection},
		{"占位选项", SubmitInput{Requester: "M", CandidateID: Placeholder, CounterpartID: "202"}, ErrMissingSelection},
		{"候选不存在", SubmitInput{Requester: "M", CandidateID: "999", CounterpartID: "202"}, ErrEmployeeNotFound},
		{"对调不存在", SubmitInput{Requester: "M", CandidateID: "101", CounterpartID: "999"}, ErrEmployeeNotFound},
		{"与自己对调", SubmitInput{Requester: "M", CandidateID: "101", CounterpartID: "101"}, ErrSelfSwap},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, _, err := Submit(testPolicy(), snap, c.in)
			assert.ErrorIs(t, err, c.want)
		})
	}
}

func TestSubmit_Eligibility(t *testing.T) {
	p := testPolicy()
	p.AllowedBillability = []string{"Unbilled"}
	p.ExcludedDesignations = []string{"Director"}

	billed := emp("101", "A")
	billed.BillabilityStatus = "Billed"
	director := emp("103", "D")
	director.Designation = "director"
	snap := Snapshot{Employees: []model.Employee{billed, emp("202", "B"), director}}

	_, _, err := Submit(p, snap, SubmitInput{Requester: "M", CandidateID: "101", CounterpartID: "202"})
	assert.ErrorIs(t, err, ErrNotEligible)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, _, err = Submit(p, snap, SubmitInput{Requester: "M", CandidateID: "103", CounterpartID: "202"})
	assert.ErrorIs(t, err, ErrNotEligible)

	// 对调员工不受资格限制
	_, _, err = Submit(p, snap, SubmitInput{Requester: "M", CandidateID: "202", CounterpartID: "101"})
	assert.NoError(t, err)
}

func TestSubmit_CandidateCommitted(t *testing.T) {
	snap := Snapshot{
		Employees: []model.Employee{emp("101", "A"), emp("202", "B"), emp("303", "C")},
		Requests:  []model.TransferRequest{req(1, "303", "M", "A", "101", model.StatusApproved)},
	}
	_, _, err := Submit(testPolicy(), snap, SubmitInput{Requester: "M", CandidateID: "101", CounterpartID: "202"})
	assert.ErrorIs(t, err, ErrEmployeeCommitted)
}

func TestSubmit_RequestIDCollision(t *testing.T) {
	snap := Snapshot{
		Employees: []model.Employee{emp("101", "A"), emp("202", "B"), emp("7", "Boss")},
		Requests:  []model.TransferRequest{req(7101202, "999", "Other", "Z", "", model.StatusRejected)},
	}
	_, _, err := Submit(testPolicy(), snap, SubmitInput{Requester: "Boss", CandidateID: "101", CounterpartID: "202"})
	assert.ErrorIs(t, err, ErrRequestIDCollision)
}

// ── Decide ──

func TestDecide_ScenarioCascade(t *testing.T) {
	snap := Snapshot{
		Employees: []model.Employee{emp("101", "A"), emp("202", "B"), emp("303", "C")},
		Requests: []model.TransferRequest{
			req(10, "101", "M1", "B", "202", model.StatusPending),
			req(20, "101", "M2", "C", "303", model.StatusPending),
		},
	}
	next, res, err := Decide(testPolicy(), snap, 10, DecisionApprove, "admin")
	require.NoError(t, err)

	assert.Equal(t, model.StatusApproved, statusOf(t, next, 10))
	assert.Equal(t, model.StatusRejected, statusOf(t, next, 20))
	assert.Equal(t, []int64{20}, res.Cascaded)
	assert.Equal(t, "admin", next[0].DecidedBy)
	assert.Equal(t, model.StatusPending, snap.Requests[0].Status, "输入快照不应被修改")
}

func TestDecide_CascadeProperty(t *testing.T) {
	snap := Snapshot{
		Employees: []model.Employee{
			emp("101", "Eve"), emp("202", "Xan"), emp("303", "Yul"),
			emp("404", "Zed"), emp("505", "Wen"), emp("606", "Vic"),
		},
		Requests: []model.TransferRequest{
			req(1, "101", "M1", "Xan", "202", model.StatusPending),
			req(2, "303", "M2", "Eve", "101", model.StatusPending),
			req(3, "101", "M3", "Zed", "404", model.StatusPending),
			req(4, "505", "M4", "Vic", "606", model.StatusPending),
			req(5, "404", "M5", "Eve", "", model.StatusPending),
			req(6, "303", "M6", "Vic", "606", model.StatusRejected),
		},
	}
	next, res, err := Decide(testPolicy(), snap, 1, DecisionApprove, "mgr")
	require.NoError(t, err)

	assert.Equal(t, model.StatusApproved, statusOf(t, next, 1))
	assert.Equal(t, model.StatusRejected, statusOf(t, next, 2))
	assert.Equal(t, model.StatusRejected, statusOf(t, next, 3))
	assert.Equal(t, model.StatusPending, statusOf(t, next, 4), "无关申请不受影响")
	assert.Equal(t, model.StatusRejected, statusOf(t, next, 5), "旧数据按姓名匹配")
	assert.Equal(t, model.StatusRejected, statusOf(t, next, 6))
	assert.Nil(t, next[5].DecidedAt, "已驳回的申请不被级联修改")
	assert.ElementsMatch(t, []int64{2, 3, 5}, res.Cascaded)
}

func TestDecide_CascadeIgnoresNamesakes(t *testing.T) {
	snap := Snapshot{
		Employees: []model.Employee{
			emp("101", "A"), emp("202", "B"), emp("303", "C"),
			emp("404", "D"), emp("909", "A"),
		},
		Requests: []model.TransferRequest{
			req(1, "101", "M1", "B", "202", model.StatusPending),
			req(7, "202", "M7", "C", "303", model.StatusPending),
			req(8, "909", "M8", "D", "404", model.StatusPending),
			req(9, "303", "M9", "A", "909", model.StatusPending),
		},
	}
	snap.Requests[2].EmployeeName = "A"

	next, res, err := Decide(testPolicy(), snap, 1, DecisionApprove, "mgr")
	require.NoError(t, err)

	assert.Equal(t, model.StatusApproved, statusOf(t, next, 1))
	assert.Equal(t, model.StatusPending, statusOf(t, next, 8), "同名不同 ID 的候选员工不受影响")
	assert.Equal(t, model.StatusPending, statusOf(t, next, 9), "对调员工 ID 不同时不按姓名匹配")
	assert.Equal(t, model.StatusPending, statusOf(t, next, 7), "对调员工作为候选的申请不在级联范围")
	assert.Empty(t, res.Cascaded)
}

func TestDecide_CascadeSameCounterpart(t *testing.T) {
	snap := Snapshot{
		Employees: []model.Employee{emp("101", "A"), emp("202", "B"), emp("303", "C"), emp("404", "D")},
		Requests: []model.TransferRequest{
			req(1, "101", "M1", "B", "202", model.StatusPending),
			req(2, "303", "M2", "B", "202", model.StatusPending),
			req(3, "404", "M3", "b ", "", model.StatusPending),
			req(4, "404", "M4", "C", "303", model.StatusPending),
		},
	}
	next, res, err := Decide(testPolicy(), snap, 1, DecisionApprove, "mgr")
	require.NoError(t, err)

	assert.Equal(t, model.StatusRejected, statusOf(t, next, 2))
	assert.Equal(t, model.StatusRejected, statusOf(t, next, 3), "旧数据缺少对调 ID 时按姓名匹配")
	assert.Equal(t, model.StatusPending, statusOf(t, next, 4))
	assert.ElementsMatch(t, []int64{2, 3}, res.Cascaded)
}

func TestDecide_Transitions(t *testing.T) {
	cases := []struct {
		name string
		from model.RequestStatus
		d    Decision
		ok   bool
	}{
		{"Pending→Approved", model.StatusPending, DecisionApprove, true},
		{"Pending→Rejected", model.StatusPending, DecisionReject, true},
		{"Rejected→Approved", model.StatusRejected, DecisionApprove, true},
		{"Approved→Rejected", model.StatusApproved, DecisionReject, false},
		{"Approved→Approved", model.StatusApproved, DecisionApprove, false},
		{"Rejected→Rejected", model.StatusRejected, DecisionReject, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			snap := Snapshot{
				Employees: []model.Employee{emp("101", "A"), emp("202", "B")},
				Requests:  []model.TransferRequest{req(1, "101", "M", "B", "202", c.from)},
			}
			next, _, err := Decide(testPolicy(), snap, 1, c.d, "x")
			if c.ok {
				require.NoError(t, err)
				assert.NotEqual(t, c.from, next[0].Status)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
			assert.Equal(t, c.from, snap.Requests[0].Status)
		})
	}
}

func TestDecide_ApprovedIsMonotonic(t *testing.T) {
	p := testPolicy()
	snap := Snapshot{
		Employees: []model.Employee{emp("101", "A"), emp("202", "B")},
		Requests:  []model.TransferRequest{req(1, "101", "M", "B", "202", model.StatusPending)},
	}
	next, _, err := Decide(p, snap, 1, DecisionApprove, "x")
	require.NoError(t, err)
	snap.Requests = next

	for i := 0; i < 3; i++ {
		_, _, err = Decide(p, snap, 1, DecisionReject, "x")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	}
	assert.Equal(t, model.StatusApproved, snap.Requests[0].Status)
}

func TestDecide_NotFound(t *testing.T) {
	snap := Snapshot{Requests: []model.TransferRequest{req(1, "101", "M", "B", "", model.StatusPending)}}
	_, _, err := Decide(testPolicy(), snap, 999, DecisionApprove, "x")
	assert.ErrorIs(t, err, ErrRequestNotFound)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, model.StatusPending, snap.Requests[0].Status)
}

func TestDecide_ReapproveBlockedWhenCommitted(t *testing.T) {
	snap := Snapshot{
		Employees: []model.Employee{emp("101", "Eve"), emp("202", "Xan"), emp("303", "Yul")},
		Requests: []model.TransferRequest{
			req(1, "101", "M1", "Xan", "202", model.StatusApproved),
			req(2, "303", "M2", "Eve", "101", model.StatusRejected),
		},
	}
	_, _, err := Decide(testPolicy(), snap, 2, DecisionApprove, "x")
	assert.ErrorIs(t, err, ErrEmployeeCommitted)
}

func TestParseDecision(t *testing.T) {
	d, err := ParseDecision("Approve")
	require.NoError(t, err)
	assert.Equal(t, DecisionApprove, d)

	d, err = ParseDecision("rejected")
	require.NoError(t, err)
	assert.Equal(t, DecisionReject, d)

	_, err = ParseDecision("maybe")
	assert.ErrorIs(t, err, ErrUnknownDecision)

	_, _, err = Decide(testPolicy(), Snapshot{}, 1, Decision("hold"), "x")
	assert.ErrorIs(t, err, ErrUnknownDecision)
}

// ── Remove ──

func TestRemove(t *testing.T) {
	for _, st := range model.Statuses {
		in := []model.TransferRequest{
			req(1, "101", "M", "B", "", st),
			req(2, "102", "M", "C", "", model.StatusPending),
			req(1, "103", "N", "D", "", model.StatusPending),
		}
		next, err := Remove(in, 1)
		require.NoError(t, err)
		require.Len(t, next, 1)
		assert.Equal(t, int64(2), next[0].RequestID)
	}

	_, err := Remove(nil, 1)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}
