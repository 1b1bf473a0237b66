package models

import "time"

// Checkin is one attendance record. Event and registrant fields are copied
// from the registration at check-in time so the record survives later edits.
type Checkin struct {
	ID                int64     `json:"id" db:"id"`
	EventID           int64     `json:"eventId" db:"event_id"`
	EventName         string    `json:"eventName" db:"event_name"`
	RegistrantName    string    `json:"registrantName" db:"registrant_name"`
	MemberName        string    `json:"memberName,omitempty" db:"member_name"`
	RollNumber        string    `json:"rollNumber" db:"roll_number"`
	DepartmentSection string    `json:"departmentSection" db:"department_section"`
	Email             string    `json:"email" db:"email"`
	Phone             string    `json:"phone" db:"phone"`
	TeamName          string    `json:"teamName,omitempty" db:"team_name"`
	TeamLeaderEmail   string    `json:"teamLeaderEmail,omitempty" db:"team_leader_email"`
	PaymentMethod     string    `json:"paymentMethod" db:"payment_method"`
	PaymentStatus     string    `json:"paymentStatus" db:"payment_status"`
	PaymentAmount     int64     `json:"paymentAmount" db:"payment_amount"`
	ReferralCode      string    `json:"referralCode" db:"referral_code"`
	QRCode            string    `json:"qrCode" db:"qr_code"`
	CheckInTime       time.Time `json:"checkInTime" db:"check_in_time"`
	TeamIndex         int       `json:"teamIndex" db:"team_index"` // 0 for individuals, 1-based for team members
}

// CheckinActivity is the live feed entry published once a check-in commits
type CheckinActivity struct {
	EventID        int64     `json:"eventId"`
	EventName      string    `json:"eventName"`
	RegistrationID int64     `json:"registrationId"`
	RegistrantName string    `json:"registrantName"`
	QRCode         string    `json:"qrCode"`
	Records        int       `json:"records"`
	CheckInTime    time.Time `json:"checkInTime"`
}
