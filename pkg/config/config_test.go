package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveJWTSecret(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    string
		wantErr bool
	}{
		{"development falls back", Config{Environment: "development", SessionSecret: "sess"}, "sess", false},
		{"development keeps its own", Config{Environment: "development", SessionSecret: "sess", JWTSecret: "jwt"}, "jwt", false},
		{"production with its own", Config{Environment: "production", SessionSecret: "sess", JWTSecret: "jwt"}, "jwt", false},
		{"production unset", Config{Environment: "production", SessionSecret: "sess"}, "", true},
		{"production reused", Config{Environment: "production", SessionSecret: "sess", JWTSecret: "sess"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := resolveJWTSecret(&cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.JWTSecret)
		})
	}
}
