package go_walley

import "github.com/stremovskyy/go-walley/internal/signature"

// Credentials are the merchant's SharedKey username and access key.
//
// They are set once through WithCredentials and never mutated afterwards, so
// concurrent requests can read them freely.
type Credentials struct {
	Username  string
	AccessKey string
}

func NewCredentials(username, accessKey string) Credentials {
	return Credentials{Username: username, AccessKey: accessKey}
}

// String hides the access key.
func (c Credentials) String() string {
	if c.AccessKey == "" {
		return c.Username + ":<empty>"
	}
	return c.Username + ":<redacted>"
}

func (c Credentials) signer() *signature.SharedKeySigner {
	return &signature.SharedKeySigner{Username: c.Username, AccessKey: c.AccessKey}
}
