package spauth

import (
	"testing"

	"github.com/koltyakov/gosip/auth/addin"
	"github.com/koltyakov/gosip/auth/azurecert"
	"github.com/koltyakov/gosip/auth/saml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"SP_AUTH_STRATEGY", "SP_SITE_URL", "SP_TENANT_ID", "SP_CLIENT_ID", "SP_CLIENT_SECRET",
		"SP_REALM", "SP_CERT_PATH", "SP_CERT_PASSWORD", "SP_USERNAME", "SP_PASSWORD",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnv_DefaultsToAzureCert(t *testing.T) {
	clearEnv(t)
	t.Setenv("SP_SITE_URL", "https://contoso.sharepoint.com/sites/dev")
	t.Setenv("SP_TENANT_ID", "tenant")
	t.Setenv("SP_CLIENT_ID", "client")
	t.Setenv("SP_CERT_PATH", "/certs/app.pfx")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, StrategyAzureCert, cfg.Strategy)

	client, err := NewClient(cfg)
	require.NoError(t, err)
	ac, ok := client.AuthCnfg.(*azurecert.AuthCnfg)
	require.True(t, ok)
	assert.Equal(t, "/certs/app.pfx", ac.CertPath)
}

func TestFromEnv_MissingValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "no site url",
			env:  map[string]string{},
			want: "SP_SITE_URL",
		},
		{
			name: "azurecert without cert",
			env:  map[string]string{"SP_SITE_URL": "https://x", "SP_TENANT_ID": "t", "SP_CLIENT_ID": "c"},
			want: "SP_CERT_PATH",
		},
		{
			name: "addin without secret",
			env:  map[string]string{"SP_AUTH_STRATEGY": "addin", "SP_SITE_URL": "https://x", "SP_CLIENT_ID": "c"},
			want: "SP_CLIENT_SECRET",
		},
		{
			name: "saml without password",
			env:  map[string]string{"SP_AUTH_STRATEGY": "SAML", "SP_SITE_URL": "https://x", "SP_USERNAME": "u"},
			want: "SP_PASSWORD",
		},
		{
			name: "unknown strategy",
			env:  map[string]string{"SP_AUTH_STRATEGY": "ntlm", "SP_SITE_URL": "https://x"},
			want: "unsupported auth strategy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewClient_Strategies(t *testing.T) {
	client, err := NewClient(Config{
		Strategy:     StrategyAddin,
		SiteURL:      "https://x",
		ClientID:     "c",
		ClientSecret: "s",
	})
	require.NoError(t, err)
	_, ok := client.AuthCnfg.(*addin.AuthCnfg)
	assert.True(t, ok)

	client, err = NewClient(Config{
		Strategy: StrategySAML,
		SiteURL:  "https://x",
		Username: "u",
		Password: "p",
	})
	require.NoError(t, err)
	_, ok = client.AuthCnfg.(*saml.AuthCnfg)
	assert.True(t, ok)

	_, err = NewClient(Config{Strategy: StrategySAML, SiteURL: "https://x"})
	assert.Error(t, err)
}
