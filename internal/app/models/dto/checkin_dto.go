package dto

import "time"

// CheckinRequest carries a scanned or typed check-in code
type CheckinRequest struct {
	QRCode string `json:"qrCode" example:"12_1700000000000_k3j9x0abc"`
}

// CheckinRegistration is the registrant summary shown to the door staff
type CheckinRegistration struct {
	EventName         string    `json:"eventName" example:"Hackathon 2025"`
	RegistrantName    string    `json:"registrantName" example:"Asha Rao"`
	Email             string    `json:"email" example:"asha@college.edu"`
	RollNumber        string    `json:"rollNumber" example:"21CS042"`
	DepartmentSection string    `json:"departmentSection" example:"CSE-B"`
	Phone             string    `json:"phone" example:"9876543210"`
	CheckInTime       time.Time `json:"checkInTime"`
}

// CheckinSuccessResponse is returned when a code is checked in
type CheckinSuccessResponse struct {
	Success      bool                `json:"success" example:"true"`
	Message      string              `json:"message" example:"Check-in successful"`
	Registration CheckinRegistration `json:"registration"`
}

// CheckinErrorResponse is the flat error body of the check-in endpoint
type CheckinErrorResponse struct {
	Error string `json:"error" example:"Already checked in"`
}
