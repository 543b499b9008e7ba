package pocket

import (
	"context"
	"net/url"
)

// OAuth endpoint paths.
const (
	endpointOAuthRequest   = "/v3/oauth/request"
	endpointOAuthAuthorize = "/v3/oauth/authorize"
	authorizePath          = "/auth/authorize"
)

// Authorization is the outcome of a completed OAuth handshake: the token
// to build clients with and the username it belongs to.
type Authorization struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
}

// RequestToken starts the OAuth handshake: it asks the service for a
// request token bound to the consumer key. redirectURI is where the
// authorization page sends the user afterwards. These are package
// functions rather than Client methods because no access token exists yet;
// they accept the same options (WithBaseURL, WithTimeout, ...).
func RequestToken(ctx context.Context, consumerKey, redirectURI string, opts ...Option) (string, error) {
	if consumerKey == "" {
		return "", ErrMissingConsumerKey
	}
	options := newOptions(opts)

	payload := map[string]any{
		"consumer_key": consumerKey,
		"redirect_uri": redirectURI,
	}
	var out struct {
		Code string `json:"code"`
	}
	if err := postJSON(ctx, options.client(), options.logger, options.base()+endpointOAuthRequest, payload, &out); err != nil {
		return "", err
	}
	return out.Code, nil
}

// AuthorizeURL builds the browser URL where the user grants the request
// token access to their account.
func AuthorizeURL(requestToken, redirectURI string, opts ...Option) string {
	options := newOptions(opts)
	q := url.Values{}
	q.Set("request_token", requestToken)
	q.Set("redirect_uri", redirectURI)
	return options.base() + authorizePath + "?" + q.Encode()
}

// AccessToken completes the handshake, exchanging an authorized request
// token for the user's access token.
func AccessToken(ctx context.Context, consumerKey, requestToken string, opts ...Option) (*Authorization, error) {
	if consumerKey == "" {
		return nil, ErrMissingConsumerKey
	}
	options := newOptions(opts)

	payload := map[string]any{
		"consumer_key": consumerKey,
		"code":         requestToken,
	}
	var out Authorization
	if err := postJSON(ctx, options.client(), options.logger, options.base()+endpointOAuthAuthorize, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
