package service

import (
	"context"
	"testing"

	"github.com/folioworks/portfolio-api/internal/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestContactService_Submit_Validation(t *testing.T) {
	// validation runs before any broker interaction, a nil connection is safe
	svc := NewContactService(nil, &config.Config{}, zap.NewNop())

	tests := []struct {
		name string
		msg  ContactMessage
	}{
		{name: "empty name", msg: ContactMessage{Email: "ada@example.com", Message: "Hi"}},
		{name: "empty email", msg: ContactMessage{Name: "Ada", Message: "Hi"}},
		{name: "empty message", msg: ContactMessage{Name: "Ada", Email: "ada@example.com"}},
		{name: "whitespace only", msg: ContactMessage{Name: " ", Email: " ", Message: " "}},
		{name: "malformed email", msg: ContactMessage{Name: "Ada", Email: "not-an-email", Message: "Hi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Submit(context.Background(), tt.msg)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}
