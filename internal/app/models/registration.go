package models

import (
	"encoding/json"
	"time"
)

// PaymentMethod is how a paid registration is settled
type PaymentMethod string

const (
	PaymentOnline PaymentMethod = "online"
	PaymentCash   PaymentMethod = "cash"
)

// PaymentStatus tracks the admin approval of a payment
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentRejected PaymentStatus = "rejected"
)

// Payment is the payment sub-record of a registration for a paid event
type Payment struct {
	Method     PaymentMethod `json:"paymentMethod"`
	Status     PaymentStatus `json:"paymentStatus"`
	Amount     int64         `json:"paymentAmount"`
	ApprovedBy *string       `json:"paymentApprovedBy,omitempty"`
	ApprovedAt *time.Time    `json:"paymentApprovedAt,omitempty"`
}

// Person is the identity tuple shared by individual registrants and team members
type Person struct {
	Name              string `json:"name"`
	RollNumber        string `json:"rollNumber"`
	DepartmentSection string `json:"departmentSection"`
	Phone             string `json:"phone"`
}

// RegistrantKind discriminates the Registrant variants
type RegistrantKind string

const (
	RegistrantIndividual RegistrantKind = "individual"
	RegistrantTeam       RegistrantKind = "team"
)

// Registrant is who a registration is for. It is implemented only by
// *Individual and *Team, so a type switch over both is exhaustive.
type Registrant interface {
	Kind() RegistrantKind
	DisplayName() string
	// Primary is the contact person: the individual, or the first team member.
	Primary() Person
	Headcount() int
	registrant()
}

// Individual is a single-person registrant
type Individual struct {
	Person
}

func (i *Individual) Kind() RegistrantKind { return RegistrantIndividual }
func (i *Individual) DisplayName() string { return i.Name }
func (i *Individual) Primary() Person { return i.Person }
func (i *Individual) Headcount() int { return 1 }
func (i *Individual) registrant() {}

// Team is a team registrant with an ordered member list
type Team struct {
	Name        string
	LeaderEmail string
	Members     []Person
}

func (t *Team) Kind() RegistrantKind { return RegistrantTeam }
func (t *Team) DisplayName() string { return t.Name }
func (t *Team) Headcount() int { return len(t.Members) }
func (t *Team) registrant() {}

func (t *Team) Primary() Person {
	if len(t.Members) == 0 {
		return Person{}
	}
	return t.Members[0]
}

// Registration defines the registration model based on the 'registrations' table
type Registration struct {
	ID           int64
	EventID      int64
	EventName    string
	Email        string
	Registrant   Registrant
	QRCode       string // check-in code, unique and immutable
	IsCheckedIn  bool
	CheckInTime  *time.Time
	Payment      *Payment // nil for free events
	ReferralCode *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Team returns the team registrant, or nil for an individual registration
func (r *Registration) Team() *Team {
	t, _ := r.Registrant.(*Team)
	return t
}

// IsPendingCash reports whether an admin still has to approve a cash payment
func (r *Registration) IsPendingCash() bool {
	return r.Payment != nil && r.Payment.Method == PaymentCash && r.Payment.Status == PaymentPending
}

// CountsTowardCapacity reports whether the registration occupies a seat
func (r *Registration) CountsTowardCapacity() bool {
	return r.Payment == nil || r.Payment.Status == PaymentApproved
}

type registrationJSON struct {
	ID                int64          `json:"id"`
	EventID           int64          `json:"eventId"`
	EventName         string         `json:"eventName"`
	Kind              RegistrantKind `json:"kind"`
	RegistrantName    string         `json:"registrantName"`
	RollNumber        string         `json:"rollNumber"`
	DepartmentSection string         `json:"departmentSection"`
	Phone             string         `json:"phone"`
	Email             string         `json:"email"`
	TeamName          string         `json:"teamName,omitempty"`
	TeamLeaderEmail   string         `json:"teamLeaderEmail,omitempty"`
	TeamMembers       []Person       `json:"teamMembers,omitempty"`
	QRCode            string         `json:"qrCode"`
	IsCheckedIn       bool           `json:"isCheckedIn"`
	CheckInTime       *time.Time     `json:"checkInTime,omitempty"`
	*Payment
	ReferralCode *string   `json:"referralCode,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// MarshalJSON flattens the registrant variant into the wire shape used by the admin console
func (r Registration) MarshalJSON() ([]byte, error) {
	out := registrationJSON{
		ID:           r.ID,
		EventID:      r.EventID,
		EventName:    r.EventName,
		Email:        r.Email,
		QRCode:       r.QRCode,
		IsCheckedIn:  r.IsCheckedIn,
		CheckInTime:  r.CheckInTime,
		Payment:      r.Payment,
		ReferralCode: r.ReferralCode,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}

	if r.Registrant != nil {
		primary := r.Registrant.Primary()
		out.Kind = r.Registrant.Kind()
		out.RegistrantName = primary.Name
		out.RollNumber = primary.RollNumber
		out.DepartmentSection = primary.DepartmentSection
		out.Phone = primary.Phone
	}
	if team := r.Team(); team != nil {
		out.TeamName = team.Name
		out.TeamLeaderEmail = team.LeaderEmail
		out.TeamMembers = team.Members
	}

	return json.Marshal(out)
}
