package idsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/flightcheck/backend/core"
	"github.com/flightcheck/backend/core/user"
)

// gotrueService talks to a hosted GoTrue-compatible identity provider.
// Credentials never transit through this application beyond these calls.
type gotrueService struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  core.Logger
}

var _ user.Identity = (*gotrueService)(nil)

func NewGotrueService(conf *core.Config, logger core.Logger) *gotrueService {
	return &gotrueService{
		baseURL: conf.Auth.URL,
		apiKey:  conf.Auth.APIKey,
		client:  &http.Client{Timeout: conf.Auth.Timeout},
		logger:  logger,
	}
}

type sessionPayload struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type errorPayload struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
	Msg         string `json:"msg"`
}

func (p errorPayload) message() string {
	switch {
	case p.Description != "":
		return p.Description
	case p.Msg != "":
		return p.Msg
	default:
		return p.Error
	}
}

func (svc gotrueService) SignIn(ctx context.Context, email, password string) (user.Session, error) {
	body := map[string]string{"email": email, "password": password}
	res, err := svc.do(ctx, http.MethodPost, "/token?grant_type=password", "", body)
	if err != nil {
		return user.Session{}, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return user.Session{}, svc.fail(res, "invalid email or password")
	}
	var payload sessionPayload
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return user.Session{}, errors.Wrap(err, "decoding session")
	}
	return user.Session{
		AccessToken: payload.AccessToken,
		TokenType:   payload.TokenType,
		ExpiresIn:   time.Duration(payload.ExpiresIn) * time.Second,
	}, nil
}

func (svc gotrueService) SignUp(ctx context.Context, signup user.NewSignup) error {
	body := map[string]interface{}{
		"email":    signup.Email,
		"password": signup.Password,
		"data": map[string]string{
			"name":        signup.Name,
			"invite_code": signup.InviteCode,
		},
	}
	res, err := svc.do(ctx, http.MethodPost, "/signup", "", body)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return svc.fail(res, "sign up rejected")
	}
	return nil
}

func (svc gotrueService) GetUser(ctx context.Context, accessToken string) (user.Account, error) {
	res, err := svc.do(ctx, http.MethodGet, "/user", accessToken, nil)
	if err != nil {
		return user.Account{}, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return user.Account{}, errors.Errorf("identity provider: get user: status %d", res.StatusCode)
	}
	var acct user.Account
	if err := json.NewDecoder(res.Body).Decode(&acct); err != nil {
		return user.Account{}, errors.Wrap(err, "decoding account")
	}
	return acct, nil
}

func (svc gotrueService) SignOut(ctx context.Context, accessToken string) error {
	res, err := svc.do(ctx, http.MethodPost, "/logout", accessToken, nil)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	// the provider answers 204; a failed revocation is not fatal to the caller
	if res.StatusCode >= http.StatusInternalServerError {
		return errors.Errorf("identity provider: sign out: status %d", res.StatusCode)
	}
	return nil
}

func (svc gotrueService) do(ctx context.Context, method, path, accessToken string, body interface{}) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, errors.Wrap(err, "encoding request")
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, svc.baseURL+path, &buf)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", svc.apiKey)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	res, err := svc.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "identity provider unreachable")
	}
	return res, nil
}

// fail maps client errors to validation errors the forms can display and
// keeps everything else opaque.
func (svc gotrueService) fail(res *http.Response, fallback string) error {
	var payload errorPayload
	_ = json.NewDecoder(res.Body).Decode(&payload)

	if res.StatusCode >= http.StatusBadRequest && res.StatusCode < http.StatusInternalServerError {
		msg := payload.message()
		if msg == "" {
			msg = fallback
		}
		return core.NewValidationError(errors.New(msg))
	}
	svc.logger.Error(fmt.Sprintf("identity provider: status %d: %s", res.StatusCode, payload.message()))
	return errors.Errorf("identity provider: status %d", res.StatusCode)
}
