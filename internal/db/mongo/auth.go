package mongo

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kailas-cloud/vecagent/internal/azauth"
)

const authMechanismOIDC = "MONGODB-OIDC"

func clusterURI(cluster string) string {
	return fmt.Sprintf("mongodb+srv://%s.global.mongocluster.cosmos.azure.com/", cluster)
}

func oidcCredential(cred azcore.TokenCredential) options.Credential {
	return options.Credential{
		AuthMechanism: authMechanismOIDC,
		AuthMechanismProperties: map[string]string{
			"TOKEN_RESOURCE": azauth.DocumentDBResource,
		},
		OIDCMachineCallback: oidcCallback(cred),
	}
}

// oidcCallback exchanges the Azure credential for a DocumentDB access token on every (re)auth.
func oidcCallback(cred azcore.TokenCredential) options.OIDCCallback {
	return func(ctx context.Context, _ *options.OIDCArgs) (*options.OIDCCredential, error) {
		tok, err := azauth.Token(ctx, cred, azauth.DocumentDBScope)
		if err != nil {
			return nil, err
		}
		expires := tok.ExpiresOn
		return &options.OIDCCredential{AccessToken: tok.Token, ExpiresAt: &expires}, nil
	}
}
