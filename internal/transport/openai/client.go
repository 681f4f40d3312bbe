package openai

import (
	"errors"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	openai "github.com/sashabaranov/go-openai"

	"github.com/kailas-cloud/vecagent/internal/azauth"
)

// ClientConfig holds the Azure OpenAI connection settings shared by embeddings and chat.
type ClientConfig struct {
	Endpoint   string
	APIKey     string
	APIVersion string
	// AzureAD switches from api-key auth to bearer tokens issued by Credential.
	AzureAD    bool
	Credential azcore.TokenCredential
	Timeout    time.Duration
}

// NewClient builds a go-openai client for an Azure OpenAI resource.
// Request models are deployment names and are passed through unchanged.
func NewClient(cfg ClientConfig) (*openai.Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("azure openai endpoint is required")
	}

	key := cfg.APIKey
	if cfg.AzureAD {
		if cfg.Credential == nil {
			return nil, errors.New("azure AD auth requires a credential")
		}
		key = ""
	}

	clientCfg := openai.DefaultAzureConfig(key, cfg.Endpoint)
	if cfg.APIVersion != "" {
		clientCfg.APIVersion = cfg.APIVersion
	}
	clientCfg.AzureModelMapperFunc = func(model string) string { return model }

	httpClient := &http.Client{Timeout: cfg.Timeout}
	if cfg.AzureAD {
		clientCfg.APIType = openai.APITypeAzureAD
		httpClient.Transport = &azauth.BearerTransport{
			Credential: cfg.Credential,
			Scope:      azauth.CognitiveScope,
		}
	}
	clientCfg.HTTPClient = httpClient

	return openai.NewClientWithConfig(clientCfg), nil
}
