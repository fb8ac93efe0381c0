package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestGenerateVerifyRoundtrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	userID := uuid.New().String()
	schoolID := uuid.New().String()

	token, err := m.Generate(userID, "TEACHER", schoolID)
	require.NoError(t, err)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	require.Equal(t, userID, claims.Subject)
	require.Equal(t, "TEACHER", claims.Role)
	require.Equal(t, schoolID, claims.SchoolID)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	token, err := m.Generate(uuid.New().String(), "STUDENT", uuid.New().String())
	require.NoError(t, err)

	other := NewJWTManager("different", time.Hour)
	_, err = other.Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsExpired(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute)
	token, err := m.Generate(uuid.New().String(), "STUDENT", uuid.New().String())
	require.NoError(t, err)

	_, err = m.Verify(token)
	require.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "bearer", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "case insensitive", header: "bearer tok", want: "tok"},
		{name: "missing", header: "", wantErr: true},
		{name: "wrong scheme", header: "Basic dXNlcg==", wantErr: true},
		{name: "no token", header: "Bearer", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			got, err := ExtractTokenFromHeader(r)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
