package models

// ConfirmationMessage is the queued payload of a registration confirmation email
type ConfirmationMessage struct {
	RegistrationID int64  `json:"registrationId"`
	Email          string `json:"email"`
	EventName      string `json:"eventName"`
	RegistrantName string `json:"registrantName,omitempty"`
	TeamName       string `json:"teamName,omitempty"`
	QRCode         string `json:"qrCode"`
}

// Recipient returns the name the email greets
func (m ConfirmationMessage) Recipient() string {
	if m.TeamName != "" {
		return m.TeamName
	}
	return m.RegistrantName
}
