package email

import (
	"bytes"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"html/template"
	"mime"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strconv"

	"github.com/rs/zerolog"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/yigit/tam/internal/app/models"
)

// QRImageSize is the edge length in pixels of the QR image embedded in emails
const QRImageSize = 256

const qrContentID = "qrcodeimage"

// EmailService defines the interface for email operations
type EmailService interface {
	SendConfirmationEmail(msg models.ConfirmationMessage) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool // implicit TLS, usually port 465; otherwise STARTTLS when offered
}

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &EmailServiceImpl{
		config: config,
		logger: logger,
	}
}

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
	<h2 style="color: #2563eb;">Registration Confirmation</h2>
	<p>Dear {{.Recipient}},</p>
	<p>Thank you for registering for <strong>{{.EventName}}</strong>!</p>
	<p>Your registration has been confirmed. Please find your QR code below, which you'll need for entry to the event.</p>
	<div style="text-align: center; margin: 30px 0;">
		<img src="cid:{{.ContentID}}" alt="QR Code" style="border: 2px solid #2563eb; border-radius: 8px; display:block; margin:0 auto;" />
		<div style="font-size:12px; color:#888; margin-top:8px;">Check-in code: {{.QRCode}}</div>
	</div>
	<p><strong>Important:</strong> Please present this QR code at the event entrance for quick check-in.</p>
	<p>Best regards,<br>The TAM Team</p>
</div>
`))

// ConfirmationSubject returns the subject line of a confirmation email
func ConfirmationSubject(eventName string) string {
	return "Registration Confirmation - " + eventName
}

// SendConfirmationEmail renders and sends the confirmation email with the QR image inline
func (s *EmailServiceImpl) SendConfirmationEmail(msg models.ConfirmationMessage) error {
	// Without credentials the email is only logged (development)
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", msg.Email).
			Str("eventName", msg.EventName).
			Str("qrCode", msg.QRCode).
			Msg("SMTP credentials not configured - confirmation email not sent")
		return nil
	}

	from := s.config.FromEmail
	if from == "" {
		from = s.config.Username
	}

	body, err := BuildConfirmationMessage(fmt.Sprintf("%s <%s>", s.config.FromName, from), msg)
	if err != nil {
		return err
	}

	if err := s.send(from, msg.Email, body); err != nil {
		s.logger.Error().Err(err).Str("toEmail", msg.Email).Msg("Failed to send confirmation email")
		return err
	}

	s.logger.Info().Str("toEmail", msg.Email).Int64("registrationID", msg.RegistrationID).Msg("Confirmation email sent")
	return nil
}

// BuildConfirmationMessage renders the full MIME message: an HTML part and the QR PNG it references
func BuildConfirmationMessage(from string, msg models.ConfirmationMessage) ([]byte, error) {
	png, err := qrcode.Encode(msg.QRCode, qrcode.Medium, QRImageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}

	var html bytes.Buffer
	err = confirmationTemplate.Execute(&html, map[string]string{
		"Recipient": msg.Recipient(),
		"EventName": msg.EventName,
		"QRCode":    msg.QRCode,
		"ContentID": qrContentID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render email body: %w", err)
	}

	var buf bytes.Buffer
	related := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.Email)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", ConfirmationSubject(msg.EventName)))
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/related; boundary=%s\r\n\r\n", related.Boundary())

	htmlPart, err := related.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"text/html; charset=UTF-8"},
		"Content-Transfer-Encoding": {"base64"},
	})
	if err != nil {
		return nil, err
	}
	if err := writeBase64(htmlPart, html.Bytes()); err != nil {
		return nil, err
	}

	imagePart, err := related.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"image/png"},
		"Content-Transfer-Encoding": {"base64"},
		"Content-ID":                {"<" + qrContentID + ">"},
		"Content-Disposition":       {`inline; filename="qrcode.png"`},
	})
	if err != nil {
		return nil, err
	}
	if err := writeBase64(imagePart, png); err != nil {
		return nil, err
	}

	if err := related.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeBase64 writes data base64 encoded in 76 character lines
func writeBase64(w interface{ Write([]byte) (int, error) }, data []byte) error {
	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > 76 {
		if _, err := w.Write([]byte(encoded[:76] + "\r\n")); err != nil {
			return err
		}
		encoded = encoded[76:]
	}
	_, err := w.Write([]byte(encoded + "\r\n"))
	return err
}

// send delivers one message over SMTP
func (s *EmailServiceImpl) send(from, to string, message []byte) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if !s.config.UseTLS {
		// smtp.SendMail upgrades with STARTTLS when the server offers it
		if err := smtp.SendMail(serverAddress, auth, from, []string{to}, message); err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", serverAddress, &tls.Config{ServerName: s.config.Host})
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return nil
}
