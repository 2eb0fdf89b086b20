// Copyright (c) Microsoft. All rights reserved.

package openai

import (
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	go_openai "github.com/sashabaranov/go-openai"
)

// clientConfig holds resolved configuration for the [Client].
type clientConfig struct {
	model         string
	baseURL       string
	azureEndpoint string
	httpClient    *http.Client
	credential    azcore.TokenCredential
}

// Option configures a [Client].
type Option func(*clientConfig)

// WithModel sets the default model for requests.
func WithModel(model string) Option {
	return func(c *clientConfig) { c.model = model }
}

// WithBaseURL overrides the API base URL (e.g., for proxies).
func WithBaseURL(url string) Option {
	return func(c *clientConfig) { c.baseURL = url }
}

// WithAzure targets an Azure OpenAI resource endpoint
// (https://<resource>.openai.azure.com). The API key passed to [New] is
// sent as the api-key header unless [WithAzureCredential] is also set.
func WithAzure(endpoint string) Option {
	return func(c *clientConfig) { c.azureEndpoint = endpoint }
}

// WithAzureCredential enables Entra ID token authentication using the
// provided credential. Tokens are obtained and refreshed per request
// instead of using API keys.
func WithAzureCredential(cred azcore.TokenCredential) Option {
	return func(c *clientConfig) { c.credential = cred }
}

// WithHTTPClient provides a custom http.Client for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) { c.httpClient = client }
}

// build resolves the go-openai client configuration.
func (c *clientConfig) build(apiKey string) go_openai.ClientConfig {
	var cfg go_openai.ClientConfig
	if c.azureEndpoint != "" {
		cfg = go_openai.DefaultAzureConfig(apiKey, c.azureEndpoint)
		if c.credential != nil {
			cfg.APIType = go_openai.APITypeAzureAD
		}
	} else {
		cfg = go_openai.DefaultConfig(apiKey)
		if c.baseURL != "" {
			cfg.BaseURL = c.baseURL
		}
	}

	httpClient := c.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if c.credential != nil {
		httpClient = &http.Client{
			Transport: newTokenTransport(httpClient.Transport, c.credential),
			Timeout:   httpClient.Timeout,
		}
	}
	cfg.HTTPClient = httpClient

	return cfg
}
