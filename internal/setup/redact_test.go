package setup

import (
	"testing"

	"github.com/ormstarter/ormstarter/internal/registry"
	"github.com/stretchr/testify/assert"
)

func TestRedactValue(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"DB_PASSWORD", "hunter2", "***"},
		{"DB_PASSWORD", "correcthorse", "corr***"},
		{"JWT_SECRET", "your-secret-key-here", "your***"},
		{"DATABASE_URL", "mysql://root:pw@localhost:3306/db", "mysq***"},
		{"MONGO_URI", "mongodb://localhost:27017/db", "mong***"},
		{"DB_HOST", "localhost", "localhost"},
		{"DB_PASSWORD", "", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RedactValue(tt.key, tt.value), tt.key)
	}
}

func TestRedactedSorted(t *testing.T) {
	got := Redacted(map[string]string{"PORT": "3000", "DB_PASSWORD": "pw", "DB_HOST": "h"})
	assert.Equal(t, []registry.Pair{
		{Key: "DB_HOST", Value: "h"},
		{Key: "DB_PASSWORD", Value: "***"},
		{Key: "PORT", Value: "3000"},
	}, got)
}
