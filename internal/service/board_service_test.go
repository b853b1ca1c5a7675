package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/RNikdata/RAB/config"
	"github.com/RNikdata/RAB/internal/dto"
	"github.com/RNikdata/RAB/internal/model"
	"github.com/RNikdata/RAB/internal/repository"
	apperrors "github.com/RNikdata/RAB/pkg/errors"
)

func setupTestBoardService() (BoardService, *mockRequestRepo) {
	reqs := &mockRequestRepo{version: 1, requests: []model.TransferRequest{
		{RequestID: 1, EmployeeID: "101", InterestedManager: "Mgr A", EmployeeToSwap: "Bob", SwapEmployeeID: "202", Status: model.StatusApproved},
		{RequestID: 2, EmployeeID: "303", InterestedManager: "Mgr B", EmployeeToSwap: "Bob", SwapEmployeeID: "202", Status: model.StatusPending},
	}}
	repo := &repository.Repository{Roster: &mockRosterRepo{employees: testEmployees()}, Request: reqs}
	cfg := &config.Config{Auth: config.AuthConfig{Users: []config.UserConfig{
		{Username: "root", DisplayName: "Admin", Role: RoleAdmin},
		{Username: "guest", DisplayName: "Guest", Role: RoleViewer},
	}}}
	return NewBoardService(cfg, repo, testPolicy(), zap.NewNop()), reqs
}

func TestBoardService_ListEmployees(t *testing.T) {
	svc, _ := setupTestBoardService()

	list, total, err := svc.ListEmployees(context.Background(), &dto.EmployeeListRequest{Account: []string{"Acme"}})
	if err != nil {
		t.Fatalf("ListEmployees 应成功: %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Fatalf("期望 2 名 Acme 员工，实际=%d", total)
	}
	if list[0].PhotoURL != "/api/v1/employees/101/photo" {
		t.Errorf("照片路径不符: %s", list[0].PhotoURL)
	}

	list, total, _ = svc.ListEmployees(context.Background(), &dto.EmployeeListRequest{
		PaginationRequest: dto.PaginationRequest{Page: 2, PageSize: 2},
	})
	if total != 3 || len(list) != 1 || list[0].EmployeeID != "303" {
		t.Errorf("分页结果不符: total=%d list=%v", total, list)
	}
}

func TestBoardService_KPIs(t *testing.T) {
	svc, _ := setupTestBoardService()

	k, err := svc.KPIs(context.Background())
	if err != nil {
		t.Fatalf("KPIs 应成功: %v", err)
	}
	if k.TotalEmployees != 3 || k.TotalUnbilled != 2 || k.Approved != 1 || k.Pending != 1 {
		t.Errorf("KPI 不符: %+v", k)
	}
}

func TestBoardService_Options(t *testing.T) {
	svc, _ := setupTestBoardService()

	opts, err := svc.Options(context.Background())
	if err != nil {
		t.Fatalf("Options 应成功: %v", err)
	}
	// Alice 已获批，Bob 计费中，只剩 Carol
	if len(opts.Candidates) != 1 || opts.Candidates[0].Value != "303" {
		t.Errorf("候选员工不符: %v", opts.Candidates)
	}
	for _, r := range opts.Requesters {
		if r == "Guest" {
			t.Error("只读用户不应出现在申请人列表")
		}
	}
	if len(opts.PendingIDs) != 1 || opts.PendingIDs[0] != 2 {
		t.Errorf("待审批编号不符: %v", opts.PendingIDs)
	}
}

func TestBoardService_Summary(t *testing.T) {
	svc, _ := setupTestBoardService()

	resp, err := svc.Summary(context.Background(), []string{"Manager Name"})
	if err != nil {
		t.Fatalf("Summary 应成功: %v", err)
	}
	if len(resp.Rows) != 2 {
		t.Fatalf("期望 2 个分组，实际=%d", len(resp.Rows))
	}

	_, err = svc.Summary(context.Background(), nil)
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("空分组应返回 ErrValidation，实际: %v", err)
	}
}

func TestBoardService_View(t *testing.T) {
	svc, _ := setupTestBoardService()

	view, err := svc.View(context.Background(), &dto.BoardQuery{Status: "Pending", Search: "car"})
	if err != nil {
		t.Fatalf("View 应成功: %v", err)
	}
	if len(view.Employees) != 1 || view.Employees[0].Name != "Carol" {
		t.Errorf("员工筛选不符: %v", view.Employees)
	}
	if len(view.Requests) != 1 || view.Requests[0].RequestID != 2 {
		t.Errorf("申请筛选不符: %v", view.Requests)
	}
	if view.Summary == nil || view.Summary.Keys[0] != model.ColManagerName {
		t.Error("默认应按经理汇总")
	}
}

func TestBoardService_LoadError(t *testing.T) {
	svc, reqs := setupTestBoardService()
	reqs.loadErr = apperrors.NewIOError("requests.read", errors.New("boom"))

	if _, err := svc.View(context.Background(), &dto.BoardQuery{}); !errors.Is(err, apperrors.ErrIO) {
		t.Errorf("期望 ErrIO，实际: %v", err)
	}
}
