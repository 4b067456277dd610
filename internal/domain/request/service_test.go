package request

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, r *ServiceRequest) error {
	args := m.Called(ctx, r)
	if r != nil {
		r.ID = 101
	}
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*ServiceRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ServiceRequest), args.Error(1)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockRepository) SetExpert(ctx context.Context, id, expertID int64) error {
	args := m.Called(ctx, id, expertID)
	return args.Error(0)
}

func (m *MockRepository) ListByClient(ctx context.Context, clientID int64) ([]*ServiceRequest, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]*ServiceRequest), args.Error(1)
}

func (m *MockRepository) ListByExpert(ctx context.Context, expertID int64) ([]*ServiceRequest, error) {
	args := m.Called(ctx, expertID)
	return args.Get(0).([]*ServiceRequest), args.Error(1)
}

func (m *MockRepository) ListAll(ctx context.Context) ([]*ServiceRequest, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*ServiceRequest), args.Error(1)
}

func (m *MockRepository) GetParties(ctx context.Context, requestID int64) (int64, *int64, error) {
	args := m.Called(ctx, requestID)
	var expertID *int64
	if args.Get(1) != nil {
		expertID = args.Get(1).(*int64)
	}
	return args.Get(0).(int64), expertID, args.Error(2)
}

func (m *MockRepository) GetRequestTitle(ctx context.Context, requestID int64) (string, error) {
	args := m.Called(ctx, requestID)
	return args.String(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyStatusUpdate(ctx context.Context, userID, requestID int64, requestTitle, newStatus string) error {
	args := m.Called(ctx, userID, requestID, requestTitle, newStatus)
	return args.Error(0)
}

func (m *MockNotifier) NotifyAssignment(ctx context.Context, userID, requestID int64, requestTitle, expertName string) error {
	args := m.Called(ctx, userID, requestID, requestTitle, expertName)
	return args.Error(0)
}

type MockUserSource struct {
	mock.Mock
}

func (m *MockUserSource) GetUserName(ctx context.Context, id int64) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func newTestService(repo *MockRepository, notifier *MockNotifier, users *MockUserSource) *Service {
	return NewService(repo, notifier, users, zap.NewNop())
}

func assignedRequest(clientID, expertID int64, status Status) *ServiceRequest {
	return &ServiceRequest{
		ID:       7,
		ClientID: clientID,
		ExpertID: sql.NullInt64{Int64: expertID, Valid: true},
		Title:    "Contract review",
		Status:   status,
		Priority: PriorityMedium,
	}
}

func TestService_UpdateStatus_ValidTransition(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	users := new(MockUserSource)

	repo.On("GetByID", mock.Anything, int64(7)).Return(assignedRequest(1, 2, StatusInProgress), nil)
	repo.On("UpdateStatus", mock.Anything, int64(7), StatusCompleted).Return(nil)
	notifier.On("NotifyStatusUpdate", mock.Anything, int64(1), int64(7), "Contract review", "completed").Return(nil)

	svc := newTestService(repo, notifier, users)
	updated, warning, err := svc.UpdateStatus(context.Background(), 2, "expert", 7, StatusCompleted)

	assert.NoError(t, err)
	assert.Empty(t, warning)
	assert.Equal(t, StatusCompleted, updated.Status)
	notifier.AssertNumberOfCalls(t, "NotifyStatusUpdate", 1)
}

func TestService_UpdateStatus_TerminalRejected(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	users := new(MockUserSource)

	repo.On("GetByID", mock.Anything, int64(7)).Return(assignedRequest(1, 2, StatusCompleted), nil)

	svc := newTestService(repo, notifier, users)
	_, _, err := svc.UpdateStatus(context.Background(), 2, "expert", 7, StatusInProgress)

	assert.ErrorIs(t, err, ErrInvalidTransition)
	repo.AssertNotCalled(t, "UpdateStatus")
	notifier.AssertNotCalled(t, "NotifyStatusUpdate")
}

func TestService_UpdateStatus_UnassignedExpertForbidden(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	users := new(MockUserSource)

	repo.On("GetByID", mock.Anything, int64(7)).Return(assignedRequest(1, 2, StatusInProgress), nil)

	svc := newTestService(repo, notifier, users)
	_, _, err := svc.UpdateStatus(context.Background(), 99, "expert", 7, StatusCompleted)

	assert.ErrorIs(t, err, ErrForbidden)
	repo.AssertNotCalled(t, "UpdateStatus")
}

func TestService_UpdateStatus_UnknownStatus(t *testing.T) {
	svc := newTestService(new(MockRepository), new(MockNotifier), new(MockUserSource))
	_, _, err := svc.UpdateStatus(context.Background(), 2, "expert", 7, Status("archived"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestService_UpdateStatus_NotificationFailureIsWarning(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	users := new(MockUserSource)

	repo.On("GetByID", mock.Anything, int64(7)).Return(assignedRequest(1, 2, StatusNew), nil)
	repo.On("UpdateStatus", mock.Anything, int64(7), StatusInProgress).Return(nil)
	notifier.On("NotifyStatusUpdate", mock.Anything, int64(1), int64(7), "Contract review", "in_progress").
		Return(errors.New("insert failed"))

	svc := newTestService(repo, notifier, users)
	updated, warning, err := svc.UpdateStatus(context.Background(), 2, "expert", 7, StatusInProgress)

	assert.NoError(t, err)
	assert.NotEmpty(t, warning)
	assert.Equal(t, StatusInProgress, updated.Status)
}

func TestService_Assign_SelfAssign(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	users := new(MockUserSource)

	unassigned := &ServiceRequest{ID: 7, ClientID: 1, Title: "Contract review", Status: StatusNew}
	repo.On("GetByID", mock.Anything, int64(7)).Return(unassigned, nil)
	repo.On("SetExpert", mock.Anything, int64(7), int64(2)).Return(nil)
	users.On("GetUserName", mock.Anything, int64(2)).Return("Irina Sokolova", nil)
	notifier.On("NotifyAssignment", mock.Anything, int64(1), int64(7), "Contract review", "Irina Sokolova").Return(nil)
	notifier.On("NotifyAssignment", mock.Anything, int64(2), int64(7), "Contract review", "Irina Sokolova").Return(nil)

	svc := newTestService(repo, notifier, users)
	updated, warning, err := svc.Assign(context.Background(), 2, "expert", 7, 2)

	assert.NoError(t, err)
	assert.Empty(t, warning)
	assert.True(t, updated.ExpertID.Valid)
	assert.Equal(t, int64(2), updated.ExpertID.Int64)
}

func TestService_Assign_TerminalRejected(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	users := new(MockUserSource)

	cancelled := &ServiceRequest{ID: 7, ClientID: 1, Status: StatusCancelled}
	repo.On("GetByID", mock.Anything, int64(7)).Return(cancelled, nil)

	svc := newTestService(repo, notifier, users)
	_, _, err := svc.Assign(context.Background(), 2, "expert", 7, 2)

	assert.ErrorIs(t, err, ErrTerminalStatus)
	repo.AssertNotCalled(t, "SetExpert")
}

func TestService_Assign_AlreadyAssigned(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	users := new(MockUserSource)

	repo.On("GetByID", mock.Anything, int64(7)).Return(assignedRequest(1, 2, StatusInProgress), nil)

	svc := newTestService(repo, notifier, users)
	_, _, err := svc.Assign(context.Background(), 5, "admin", 7, 5)

	assert.ErrorIs(t, err, ErrAlreadyAssigned)
}

func TestService_Assign_ExpertCannotAssignOthers(t *testing.T) {
	svc := newTestService(new(MockRepository), new(MockNotifier), new(MockUserSource))
	_, _, err := svc.Assign(context.Background(), 2, "expert", 7, 3)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_Get_NonPartyForbidden(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetByID", mock.Anything, int64(7)).Return(assignedRequest(1, 2, StatusInProgress), nil)

	svc := newTestService(repo, new(MockNotifier), new(MockUserSource))

	_, err := svc.Get(context.Background(), 99, "client", 7)
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := svc.Get(context.Background(), 99, "admin", 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
}

func TestService_Create_DefaultsPriority(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(repo, new(MockNotifier), new(MockUserSource))
	created, err := svc.Create(context.Background(), 1, CreateInput{Title: "T", Description: "D"})

	assert.NoError(t, err)
	assert.Equal(t, StatusNew, created.Status)
	assert.Equal(t, PriorityMedium, created.Priority)
}
