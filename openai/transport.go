// Copyright (c) Microsoft. All rights reserved.

package openai

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
)

// cognitiveServicesScope is the token scope for Azure OpenAI requests.
const cognitiveServicesScope = "https://cognitiveservices.azure.com/.default"

// tokenTransport is an http.RoundTripper that authenticates every request
// with a fresh Entra ID bearer token. The credential caches and refreshes
// tokens internally.
type tokenTransport struct {
	base       http.RoundTripper
	credential azcore.TokenCredential
}

func newTokenTransport(base http.RoundTripper, cred azcore.TokenCredential) *tokenTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &tokenTransport{base: base, credential: cred}
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	token, err := t.credential.GetToken(ctx, policy.TokenRequestOptions{
		Scopes: []string{cognitiveServicesScope},
	})
	if err != nil {
		return nil, fmt.Errorf("get azure token: %w", err)
	}
	slog.DebugContext(ctx, "using Entra ID token authentication",
		"token_expires_on", token.ExpiresOn)

	req = req.Clone(ctx)
	req.Header.Set("Authorization", "Bearer "+token.Token)
	req.Header.Del("api-key")
	return t.base.RoundTrip(req)
}
