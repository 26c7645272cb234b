package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/backmassage/docnamer/internal/oracle"
)

// MockNamingOracle is a mock implementation of oracle.NamingOracle.
type MockNamingOracle struct {
	mock.Mock
}

func (m *MockNamingOracle) Suggest(ctx context.Context, text, instructions string) (oracle.Suggestion, error) {
	args := m.Called(ctx, text, instructions)
	return args.Get(0).(oracle.Suggestion), args.Error(1)
}

// MockTranscriber is a mock implementation of oracle.Transcriber.
type MockTranscriber struct {
	mock.Mock
}

func (m *MockTranscriber) Transcribe(ctx context.Context, png []byte, prompt string) (string, oracle.Usage, error) {
	args := m.Called(ctx, png, prompt)
	return args.String(0), args.Get(1).(oracle.Usage), args.Error(2)
}
