package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignupRequest_Validate(t *testing.T) {
	valid := SignupRequest{
		Username:        "alice",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	}

	tests := []struct {
		name    string
		mutate  func(req *SignupRequest)
		wantErr bool
	}{
		{name: "valid"},
		{name: "username too short", mutate: func(r *SignupRequest) { r.Username = "ab" }, wantErr: true},
		{name: "username too long", mutate: func(r *SignupRequest) { r.Username = "abcdefghijklmnopqrstu" }, wantErr: true},
		{name: "password too short", mutate: func(r *SignupRequest) { r.Password = "abc12"; r.ConfirmPassword = "abc12" }, wantErr: true},
		{name: "password without digit", mutate: func(r *SignupRequest) { r.Password = "abcdefg"; r.ConfirmPassword = "abcdefg" }, wantErr: true},
		{name: "password without letter", mutate: func(r *SignupRequest) { r.Password = "1234567"; r.ConfirmPassword = "1234567" }, wantErr: true},
		{name: "confirm mismatch", mutate: func(r *SignupRequest) { r.ConfirmPassword = "secret124" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			if tt.mutate != nil {
				tt.mutate(&req)
			}

			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
