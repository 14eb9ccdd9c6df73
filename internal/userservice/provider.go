package userservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var ErrProviderRejected = errors.New("identity provider rejected the assertion")

// HTTPIdentityProvider verifies federated sign-in assertions against the
// provider's userinfo endpoint. The assertion is passed through as a bearer
// token; the provider answers with the profile it certifies.
type HTTPIdentityProvider struct {
	client *http.Client
	url    string
}

func NewHTTPIdentityProvider(url string) *HTTPIdentityProvider {
	return &HTTPIdentityProvider{
		client: &http.Client{Timeout: 10 * time.Second},
		url:    url,
	}
}

func (p *HTTPIdentityProvider) VerifyAssertion(ctx context.Context, providerToken string) (*ProviderIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+providerToken)

	res, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrProviderRejected, res.StatusCode)
	}

	var identity ProviderIdentity
	err = json.NewDecoder(res.Body).Decode(&identity)
	if err != nil {
		return nil, err
	}

	if identity.Email == "" {
		return nil, fmt.Errorf("%w: no email in profile", ErrProviderRejected)
	}

	return &identity, nil
}
