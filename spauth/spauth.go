package spauth

import (
	"fmt"
	"os"
	"strings"

	"github.com/koltyakov/gosip"
	"github.com/koltyakov/gosip/auth/addin"
	"github.com/koltyakov/gosip/auth/azurecert"
	"github.com/koltyakov/gosip/auth/saml"
)

// Strategy names accepted in SP_AUTH_STRATEGY.
const (
	StrategyAzureCert = "azurecert"
	StrategyAddin     = "addin"
	StrategySAML      = "saml"
)

type Config struct {
	Strategy     string
	SiteURL      string
	TenantID     string
	ClientID     string
	ClientSecret string
	Realm        string
	CertPath     string
	CertPassword string
	Username     string
	Password     string
}

func FromEnv() (Config, error) {
	// Environment should already be loaded by the caller
	cfg := Config{
		Strategy:     strings.ToLower(strings.TrimSpace(os.Getenv("SP_AUTH_STRATEGY"))),
		SiteURL:      os.Getenv("SP_SITE_URL"),
		TenantID:     os.Getenv("SP_TENANT_ID"),
		ClientID:     os.Getenv("SP_CLIENT_ID"),
		ClientSecret: os.Getenv("SP_CLIENT_SECRET"),
		Realm:        os.Getenv("SP_REALM"),
		CertPath:     os.Getenv("SP_CERT_PATH"),
		CertPassword: os.Getenv("SP_CERT_PASSWORD"),
		Username:     os.Getenv("SP_USERNAME"),
		Password:     os.Getenv("SP_PASSWORD"),
	}
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyAzureCert
	}
	return cfg, cfg.Validate()
}

// Validate reports the variables missing for the selected strategy.
func (c Config) Validate() error {
	if c.SiteURL == "" {
		return fmt.Errorf("missing required configuration: SP_SITE_URL")
	}
	switch c.Strategy {
	case StrategyAzureCert:
		if c.TenantID == "" || c.ClientID == "" || c.CertPath == "" {
			return fmt.Errorf("missing required configuration: SP_TENANT_ID, SP_CLIENT_ID, SP_CERT_PATH")
		}
	case StrategyAddin:
		if c.ClientID == "" || c.ClientSecret == "" {
			return fmt.Errorf("missing required configuration: SP_CLIENT_ID, SP_CLIENT_SECRET")
		}
	case StrategySAML:
		if c.Username == "" || c.Password == "" {
			return fmt.Errorf("missing required configuration: SP_USERNAME, SP_PASSWORD")
		}
	default:
		return fmt.Errorf("unsupported auth strategy %q", c.Strategy)
	}
	return nil
}

func NewClient(cfg Config) (*gosip.SPClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var ac gosip.AuthCnfg
	switch cfg.Strategy {
	case StrategyAddin:
		ac = &addin.AuthCnfg{
			SiteURL:      cfg.SiteURL,
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Realm:        cfg.Realm,
		}
	case StrategySAML:
		ac = &saml.AuthCnfg{
			SiteURL:  cfg.SiteURL,
			Username: cfg.Username,
			Password: cfg.Password,
		}
	default:
		ac = &azurecert.AuthCnfg{
			SiteURL:  cfg.SiteURL,
			TenantID: cfg.TenantID,
			ClientID: cfg.ClientID,
			CertPath: cfg.CertPath,
			CertPass: cfg.CertPassword,
		}
	}
	return &gosip.SPClient{AuthCnfg: ac}, nil
}
