package notification

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"clinicbook/config"
	"clinicbook/utils"

	"go.uber.org/zap"
)

const twilioAPIBase = "https://api.twilio.com/2010-04-01"

// TwilioWhatsAppSender delivers messages through the Twilio Messages API.
type TwilioWhatsAppSender struct {
	AccountSID string
	AuthToken  string
	From       string // e.g. "whatsapp:+14155238886"
	BaseURL    string // defaults to the Twilio API
	Client     *http.Client
}

// NewTwilioWhatsAppSender builds a sender from the loaded configuration.
func NewTwilioWhatsAppSender() *TwilioWhatsAppSender {
	return &TwilioWhatsAppSender{
		AccountSID: config.AppConfig.TwilioAccountSID,
		AuthToken:  config.AppConfig.TwilioAuthToken,
		From:       config.AppConfig.TwilioWhatsAppFrom,
		Client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// SendWhatsApp posts one message to the recipient's WhatsApp number.
func (s *TwilioWhatsAppSender) SendWhatsApp(ctx context.Context, phoneNumber, body string) error {
	base := s.BaseURL
	if base == "" {
		base = twilioAPIBase
	}
	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", base, s.AccountSID)

	form := url.Values{}
	form.Set("From", s.From)
	form.Set("To", "whatsapp:"+phoneNumber)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build Twilio request: %w", err)
	}
	req.SetBasicAuth(s.AccountSID, s.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("Twilio request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("Twilio returned status %d: %s", resp.StatusCode, string(payload))
	}

	utils.GetLogger().Info("WhatsApp message sent",
		zap.String("to", phoneNumber),
		zap.Int("bodyLen", len(body)))
	return nil
}
