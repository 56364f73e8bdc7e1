package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const sendGridEndpoint = "https://api.sendgrid.com/v3/mail/send"

// SendGridSender delivers verification emails through the SendGrid v3 API.
type SendGridSender struct {
	apiKey      string
	senderEmail string
	endpoint    string
	client      *http.Client
}

func NewSendGridSender(apiKey, senderEmail string) *SendGridSender {
	return &SendGridSender{
		apiKey:      apiKey,
		senderEmail: senderEmail,
		endpoint:    sendGridEndpoint,
		client:      &http.Client{},
	}
}

type sendGridAddress struct {
	Email string `json:"email"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridMessage struct {
	Personalizations []struct {
		To []sendGridAddress `json:"to"`
	} `json:"personalizations"`
	From    sendGridAddress   `json:"from"`
	Subject string            `json:"subject"`
	Content []sendGridContent `json:"content"`
}

func (s *SendGridSender) Send(ctx context.Context, toEmail, verificationCode string) error {
	msg := sendGridMessage{
		From:    sendGridAddress{Email: s.senderEmail},
		Subject: "Email Verification",
		Content: []sendGridContent{{
			Type:  "text/plain",
			Value: fmt.Sprintf("Your verification code is: %s", verificationCode),
		}},
	}
	msg.Personalizations = make([]struct {
		To []sendGridAddress `json:"to"`
	}, 1)
	msg.Personalizations[0].To = []sendGridAddress{{Email: toEmail}}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding mail: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building mail request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sendgrid responded %d: %s", resp.StatusCode, detail)
	}

	return nil
}
