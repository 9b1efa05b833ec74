package api

import (
	"context"
	"errors"
	"net/http"
)

// DeviceCode is the server's half of a device login: the code the user
// types at the verification URL and the polling parameters.
type DeviceCode struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
}

// LoginResult is the token minted once the user approves the device.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	UserID      string `json:"user_id"`
	Nickname    string `json:"nickname"`
}

// BeginDeviceLogin starts a device login and returns the code to show
// the user.
func (c *Client) BeginDeviceLogin(ctx context.Context) (*DeviceCode, error) {
	var dc DeviceCode
	if err := c.do(ctx, http.MethodPost, "/v1/auth/device/code", nil, struct{}{}, &dc); err != nil {
		return nil, err
	}
	return &dc, nil
}

// PollDeviceLogin asks once whether the device login was approved. While
// the user is still deciding it returns ErrAuthorizationPending; callers
// own the polling loop and its interval.
func (c *Client) PollDeviceLogin(ctx context.Context, deviceCode string) (*LoginResult, error) {
	body := struct {
		DeviceCode string `json:"device_code"`
	}{DeviceCode: deviceCode}

	var res LoginResult
	if err := c.do(ctx, http.MethodPost, "/v1/auth/device/token", nil, body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Logout revokes the current access token server-side. A 401 is not an
// error here; the token was already dead.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/v1/auth/logout", nil, struct{}{}, nil)
	if err != nil && !errors.Is(err, ErrUnauthorized) {
		return err
	}
	return nil
}
