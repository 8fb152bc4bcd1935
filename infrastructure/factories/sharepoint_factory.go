package factories

import (
	"fmt"

	"spprovision/domain/contracts"
	"spprovision/infrastructure/spclient"
	"spprovision/spauth"

	"github.com/koltyakov/gosip/api"
)

// NewListClient authenticates against the configured site and returns a list client bound to it.
func NewListClient(cfg spauth.Config) (contracts.ListClient, error) {
	authClient, err := spauth.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("sharepoint auth: %w", err)
	}
	return spclient.NewListClient(api.NewSP(authClient), authClient), nil
}
