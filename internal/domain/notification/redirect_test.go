package notification

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockMessageSource struct {
	mock.Mock
}

func (m *MockMessageSource) GetRequestIDForMessage(ctx context.Context, messageID string) (int64, bool, error) {
	args := m.Called(ctx, messageID)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func TestResolver_StatusUpdateByAudience(t *testing.T) {
	r := NewResolver(nil)
	n := &Notification{
		Type:      TypeStatusUpdate,
		RequestID: sql.NullInt64{Int64: 7, Valid: true},
	}

	assert.Equal(t, "/requests/7", r.Resolve(context.Background(), n, "client"))
	assert.Equal(t, "/expert/requests/7", r.Resolve(context.Background(), n, "expert"))
	assert.Equal(t, "/requests/7", r.Resolve(context.Background(), n, "admin"))
}

func TestResolver_NewMessageDereferencesRequest(t *testing.T) {
	messages := new(MockMessageSource)
	messages.On("GetRequestIDForMessage", mock.Anything, "msg-1").Return(int64(7), true, nil)

	r := NewResolver(messages)
	n := &Notification{
		Type:      TypeNewMessage,
		MessageID: sql.NullString{String: "msg-1", Valid: true},
	}

	assert.Equal(t, "/requests/7", r.Resolve(context.Background(), n, "client"))
}

func TestResolver_NewMessageFallback(t *testing.T) {
	messages := new(MockMessageSource)
	messages.On("GetRequestIDForMessage", mock.Anything, "gone").Return(int64(0), false, nil)

	r := NewResolver(messages)
	n := &Notification{
		Type:      TypeNewMessage,
		MessageID: sql.NullString{String: "gone", Valid: true},
	}

	assert.Equal(t, "/messages", r.Resolve(context.Background(), n, "client"))
	assert.Equal(t, "/expert/messages", r.Resolve(context.Background(), n, "expert"))
}

func TestResolver_NewMessageLookupError(t *testing.T) {
	messages := new(MockMessageSource)
	messages.On("GetRequestIDForMessage", mock.Anything, "msg-1").Return(int64(0), false, errors.New("db down"))

	r := NewResolver(messages)
	n := &Notification{
		Type:      TypeNewMessage,
		MessageID: sql.NullString{String: "msg-1", Valid: true},
	}

	assert.Equal(t, "/messages", r.Resolve(context.Background(), n, "client"))
}

func TestResolver_AppointmentUpdate(t *testing.T) {
	r := NewResolver(nil)
	n := &Notification{
		Type:          TypeAppointmentUpdate,
		AppointmentID: sql.NullInt64{Int64: 3, Valid: true},
	}

	assert.Equal(t, "/appointments/3", r.Resolve(context.Background(), n, "client"))
	assert.Equal(t, "/expert/appointments/3", r.Resolve(context.Background(), n, "expert"))
}

func TestResolver_MissingBackRefFallsBack(t *testing.T) {
	r := NewResolver(nil)

	assert.Equal(t, "/requests",
		r.Resolve(context.Background(), &Notification{Type: TypeAssignment}, "client"))
	assert.Equal(t, "/expert/appointments",
		r.Resolve(context.Background(), &Notification{Type: TypeAppointmentUpdate}, "expert"))
	assert.Equal(t, "/dashboard",
		r.Resolve(context.Background(), &Notification{Type: Type("unknown")}, "client"))
	assert.Equal(t, "/expert/dashboard",
		r.Resolve(context.Background(), &Notification{Type: Type("unknown")}, "expert"))
}

func TestResolver_Document(t *testing.T) {
	r := NewResolver(nil)
	n := &Notification{
		Type:      TypeDocument,
		RequestID: sql.NullInt64{Int64: 7, Valid: true},
	}

	assert.Equal(t, "/requests/7", r.Resolve(context.Background(), n, "client"))
	assert.Equal(t, "/documents", r.Resolve(context.Background(), &Notification{Type: TypeDocument}, "client"))
}
