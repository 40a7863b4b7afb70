// Package notify sends guest text messages through Twilio.
package notify

import (
	"context"
	"errors"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

var ErrNotConfigured = errors.New("twilio is not configured")

type Config struct {
	AccountSID string
	AuthToken  string
	From       string
}

type Twilio struct {
	client *twilio.RestClient
	from   string
}

func NewTwilio(cfg Config) *Twilio {
	t := &Twilio{from: cfg.From}
	if cfg.AccountSID != "" && cfg.AuthToken != "" {
		t.client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		})
	}
	return t
}

// Send delivers body to a phone number and returns the provider message SID.
func (t *Twilio) Send(ctx context.Context, to, body string) (string, error) {
	if t.client == nil || t.from == "" {
		return "", ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(body)
	params.SetFrom(t.from)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}
