// Package azauth provides the Azure AD credential shared by the document store and OpenAI clients.
package azauth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// Token scopes and resources for passwordless access.
const (
	DocumentDBScope    = "https://ossrdbms-aad.database.windows.net/.default"
	DocumentDBResource = "https://ossrdbms-aad.database.windows.net"
	CognitiveScope     = "https://cognitiveservices.azure.com/.default"
)

// NewCredential returns the default Azure credential chain (env, managed identity, az cli).
func NewCredential() (azcore.TokenCredential, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("create azure credential: %w", err)
	}
	return cred, nil
}

// Token fetches an access token for a single scope.
func Token(ctx context.Context, cred azcore.TokenCredential, scope string) (azcore.AccessToken, error) {
	tok, err := cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{scope}})
	if err != nil {
		return azcore.AccessToken{}, fmt.Errorf("get token for %s: %w", scope, err)
	}
	return tok, nil
}

// BearerTransport sets an Azure AD bearer token on every outgoing request.
type BearerTransport struct {
	Credential azcore.TokenCredential
	Scope      string
	Base       http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	tok, err := Token(req.Context(), t.Credential, t.Scope)
	if err != nil {
		return nil, err
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", "Bearer "+tok.Token)
	r.Header.Del("api-key")
	return base.RoundTrip(r) //nolint:wrapcheck // transport passthrough
}
