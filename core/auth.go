package core

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

var (
	authMu         sync.Mutex
	authenticators []Authenticator
)

// Lifetime of a shared-access signature and the window before expiry in
// which a fresh one is computed instead of sending a signature that could
// lapse mid-flight.
const (
	signatureTTL           = 15 * time.Minute
	signatureRefreshWindow = time.Minute
)

type Authenticator interface {
	authorize() error
	setAuthHeader(headers *http.Header)
	equal(other Authenticator) bool
	setInitialized(bool)
}

// createAuthenticator creates a new Authenticator instance based on the provided GMSConfig.
// Equivalent credentials share one authenticator so signatures are not recomputed per session.
func createAuthenticator(config *GMSConfig) (Authenticator, error) {
	var authenticator Authenticator

	// Priority: ApiToken > shared-access pair > basic auth
	if config.ApiToken != "" {
		authenticator = &ApiTokenAuthenticator{
			Host:      config.Host,
			Port:      config.Port,
			SslVerify: config.SslVerify,
			Token:     config.ApiToken,
		}
	} else if config.AccessKey != "" && config.AccessSecret != "" {
		authenticator = &SharedAccessAuthenticator{
			Host:         config.Host,
			Port:         config.Port,
			SslVerify:    config.SslVerify,
			AccessKey:    config.AccessKey,
			AccessSecret: config.AccessSecret,
		}
	} else if config.Username != "" && config.Password != "" {
		authenticator = &BasicAuthAuthenticator{
			Host:      config.Host,
			Port:      config.Port,
			SslVerify: config.SslVerify,
			Username:  config.Username,
			Password:  config.Password,
		}
	}
	if authenticator != nil {
		authMu.Lock()
		defer authMu.Unlock()
		for _, existingAuthenticator := range authenticators {
			if existingAuthenticator.equal(authenticator) {
				return existingAuthenticator, nil
			}
		}
		if err := authenticator.authorize(); err != nil {
			return nil, err
		}
		authenticators = append(authenticators, authenticator)
		return authenticator, nil
	}

	panic("createAuthenticator: neither api token, access key/secret nor username/password are provided")
}

// sasToken is a computed shared-access signature with its expiry.
type sasToken struct {
	Signature string
	ExpiresAt time.Time
}

// SharedAccessAuthenticator signs requests with an HMAC-SHA512 shared-access
// signature in the style of commercial gateway management planes:
//
//	Authorization: SharedAccessSignature uid={key}&ex={RFC3339 expiry}&sn={base64 signature}
//
// The signature covers "{key}\n{expiry}" with the access secret. Signing is
// local, so re-authorization after a 401 simply produces a fresh signature.
type SharedAccessAuthenticator struct {
	Host         string
	Port         uint64
	SslVerify    bool
	AccessKey    string
	AccessSecret string
	Token        *sasToken
	initialized  bool
}

func (auth *SharedAccessAuthenticator) sign(expiry time.Time) string {
	payload := auth.AccessKey + "\n" + expiry.UTC().Format(time.RFC3339)
	mac := hmac.New(sha512.New, []byte(auth.AccessSecret))
	mac.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func (auth *SharedAccessAuthenticator) authorize() error {
	if auth.AccessKey == "" || auth.AccessSecret == "" {
		return errors.New("shared access key and secret must both be provided")
	}
	expiry := time.Now().UTC().Add(signatureTTL).Truncate(time.Second)
	auth.Token = &sasToken{Signature: auth.sign(expiry), ExpiresAt: expiry}
	auth.setInitialized(true)
	return nil
}

func (auth *SharedAccessAuthenticator) expiringSoon() bool {
	return auth.Token == nil || time.Until(auth.Token.ExpiresAt) < signatureRefreshWindow
}

func (auth *SharedAccessAuthenticator) setAuthHeader(headers *http.Header) {
	if auth.expiringSoon() {
		// Local signing cannot fail once the key pair is validated.
		_ = auth.authorize()
	}
	headers.Add(HeaderAuthorization, fmt.Sprintf(
		"%s uid=%s&ex=%s&sn=%s",
		AuthTypeSharedAccess,
		auth.AccessKey,
		auth.Token.ExpiresAt.Format(time.RFC3339),
		url.QueryEscape(auth.Token.Signature),
	))
}

func (auth *SharedAccessAuthenticator) equal(other Authenticator) bool {
	otherAuth, ok := other.(*SharedAccessAuthenticator)
	if !ok {
		return false
	}
	return auth.AccessKey == otherAuth.AccessKey &&
		auth.AccessSecret == otherAuth.AccessSecret &&
		auth.Host == otherAuth.Host &&
		auth.Port == otherAuth.Port &&
		auth.SslVerify == otherAuth.SslVerify
}

func (auth *SharedAccessAuthenticator) setInitialized(state bool) {
	auth.initialized = state
}

type ApiTokenAuthenticator struct {
	Host      string
	Port      uint64
	SslVerify bool
	Token     string
}

func (auth *ApiTokenAuthenticator) authorize() error {
	// No-op for ApiTokenAuthenticator
	return nil
}

func (auth *ApiTokenAuthenticator) setAuthHeader(headers *http.Header) {
	headers.Add(HeaderAuthorization, AuthTypeBearer+" "+auth.Token)
}

func (auth *ApiTokenAuthenticator) equal(other Authenticator) bool {
	otherAuth, ok := other.(*ApiTokenAuthenticator)
	if !ok {
		return false
	}
	return auth.Token == otherAuth.Token &&
		auth.Host == otherAuth.Host &&
		auth.Port == otherAuth.Port &&
		auth.SslVerify == otherAuth.SslVerify
}

func (auth *ApiTokenAuthenticator) setInitialized(_ bool) {
	// No-op
}

type BasicAuthAuthenticator struct {
	Host        string
	Port        uint64
	SslVerify   bool
	Username    string
	Password    string
	encodedAuth string // Cached Base64-encoded credentials
}

func (auth *BasicAuthAuthenticator) authorize() error {
	// Pre-compute and cache the Base64-encoded credentials so each request
	// skips the encoding step.
	authStr := auth.Username + ":" + auth.Password
	auth.encodedAuth = base64.StdEncoding.EncodeToString([]byte(authStr))
	return nil
}

func (auth *BasicAuthAuthenticator) setAuthHeader(headers *http.Header) {
	headers.Add(HeaderAuthorization, AuthTypeBasic+" "+auth.encodedAuth)
}

func (auth *BasicAuthAuthenticator) equal(other Authenticator) bool {
	otherAuth, ok := other.(*BasicAuthAuthenticator)
	if !ok {
		return false
	}
	return auth.Username == otherAuth.Username &&
		auth.Password == otherAuth.Password &&
		auth.Host == otherAuth.Host &&
		auth.Port == otherAuth.Port &&
		auth.SslVerify == otherAuth.SslVerify
}

func (auth *BasicAuthAuthenticator) setInitialized(_ bool) {
	// No-op for Basic Auth
}
