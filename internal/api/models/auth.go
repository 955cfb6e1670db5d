package models

// DeviceAuthRequest exchanges the deployment's device key for an access token.
type DeviceAuthRequest struct {
	DeviceID  string `json:"deviceId"`
	DeviceKey string `json:"deviceKey"`
}

// DeviceAuthResponse carries the issued access token.
type DeviceAuthResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   Timestamp `json:"expiresAt"`
}
