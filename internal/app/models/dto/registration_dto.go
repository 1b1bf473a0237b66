package dto

// PersonRequest is one identity tuple of a registrant or team member
type PersonRequest struct {
	Name              string `json:"name" binding:"required,max=100" example:"Asha Rao"`
	RollNumber        string `json:"rollNumber" binding:"max=50" example:"21CS042"`
	DepartmentSection string `json:"departmentSection" binding:"max=100" example:"CSE-B"`
	Phone             string `json:"phone" binding:"max=20" example:"9876543210"`
}

// RegisterRequest is the public registration form. Individual events use the
// top-level identity fields; team events use teamName and teamMembers.
type RegisterRequest struct {
	Email             string          `json:"email" binding:"required,email" example:"asha@college.edu"`
	Name              string          `json:"registrantName" binding:"max=100" example:"Asha Rao"`
	RollNumber        string          `json:"rollNumber" binding:"max=50" example:"21CS042"`
	DepartmentSection string          `json:"departmentSection" binding:"max=100" example:"CSE-B"`
	Phone             string          `json:"phone" binding:"max=20" example:"9876543210"`
	TeamName          string          `json:"teamName" binding:"max=100" example:"Team Rocket"`
	TeamLeaderEmail   string          `json:"teamLeaderEmail" binding:"omitempty,email"`
	TeamMembers       []PersonRequest `json:"teamMembers" binding:"omitempty,dive"`
	PaymentMethod     string          `json:"paymentMethod" binding:"omitempty,oneof=online cash" example:"cash"`
	ReferralCode      string          `json:"referralCode" binding:"max=100"`
}

// UpdateRegistrationRequest edits contact and identity fields only
type UpdateRegistrationRequest struct {
	Email             *string         `json:"email" binding:"omitempty,email"`
	Name              *string         `json:"registrantName" binding:"omitempty,min=1,max=100"`
	RollNumber        *string         `json:"rollNumber" binding:"omitempty,max=50"`
	DepartmentSection *string         `json:"departmentSection" binding:"omitempty,max=100"`
	Phone             *string         `json:"phone" binding:"omitempty,max=20"`
	TeamName          *string         `json:"teamName" binding:"omitempty,min=1,max=100"`
	TeamLeaderEmail   *string         `json:"teamLeaderEmail" binding:"omitempty,email"`
	TeamMembers       []PersonRequest `json:"teamMembers" binding:"omitempty,dive"`
	ReferralCode      *string         `json:"referralCode" binding:"omitempty,max=100"`
}

// ExportRequest selects the rows of an Excel export
type ExportRequest struct {
	EventID *int64 `json:"eventId" example:"1"`
}

// ExportResponse carries a base64 encoded xlsx workbook
type ExportResponse struct {
	Success   bool   `json:"success" example:"true"`
	ExcelData string `json:"excelData"`
	Message   string `json:"message" example:"Exported 42 registrations"`
}

// ResendConfirmationRequest queues the confirmation email of a registration again
type ResendConfirmationRequest struct {
	RegistrationID int64 `json:"registrationId" binding:"required,min=1" example:"12"`
}
