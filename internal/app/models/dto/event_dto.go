package dto

// CreateEventRequest is the admin form for a new event
type CreateEventRequest struct {
	Title       string `json:"title" binding:"required,max=200" example:"Hackathon 2025"`
	Description string `json:"description" example:"24 hour build sprint"`
	Date        string `json:"date" binding:"required" example:"2025-03-14"`
	Time        string `json:"time" example:"10:00"`
	Location    string `json:"location" binding:"max=200" example:"Main Auditorium"`
	Capacity    int    `json:"capacity" binding:"gte=0" example:"200"`
	Price       int64  `json:"price" binding:"gte=0" example:"150"`
	PosterURL   string `json:"posterUrl" example:"https://cdn.example.com/poster.png"`
	TeamType    string `json:"teamType" binding:"omitempty,oneof=individual team" example:"team"`
	MinTeamSize int    `json:"minTeamSize" binding:"gte=0" example:"2"`
	MaxTeamSize int    `json:"maxTeamSize" binding:"gte=0" example:"4"`
}

// UpdateEventRequest is a partial update; omitted fields keep their value
type UpdateEventRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	Location    *string `json:"location" binding:"omitempty,max=200"`
	Capacity    *int    `json:"capacity" binding:"omitempty,gte=0"`
	Price       *int64  `json:"price" binding:"omitempty,gte=0"`
	TeamType    *string `json:"teamType" binding:"omitempty,oneof=individual team"`
	MinTeamSize *int    `json:"minTeamSize" binding:"omitempty,gte=1"`
	MaxTeamSize *int    `json:"maxTeamSize" binding:"omitempty,gte=1"`
}

// DeleteEventResponse reports what an event deletion removed
type DeleteEventResponse struct {
	EventID              int64 `json:"eventId" example:"1"`
	DeletedRegistrations int   `json:"deletedRegistrations" example:"42"`
	DeletedCheckins      int   `json:"deletedCheckins" example:"30"`
}
