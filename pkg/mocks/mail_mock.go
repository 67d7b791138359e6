package mocks

import (
	"context"

	"github.com/hirelane/hirelane/pkg/mail"
	"github.com/stretchr/testify/mock"
)

// MockSender is a mock implementation of mail.Sender.
type MockSender struct {
	mock.Mock
}

var _ mail.Sender = (*MockSender)(nil)

func (m *MockSender) Send(ctx context.Context, msg mail.Message) error {
	args := m.Called(ctx, msg)

	return args.Error(0)
}
