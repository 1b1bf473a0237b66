package models

import "time"

// TeamType tells whether an event takes individual or team registrations
type TeamType string

const (
	TeamTypeIndividual TeamType = "individual"
	TeamTypeTeam       TeamType = "team"
)

// Event defines the event model based on the 'events' table
type Event struct {
	ID              int64     `json:"id" db:"id" example:"1"`
	Title           string    `json:"title" db:"title" example:"Hackathon 2025"`
	Description     string    `json:"description" db:"description"`
	Date            string    `json:"date" db:"date" example:"2025-03-14"`
	Time            string    `json:"time" db:"time" example:"10:00"`
	Location        string    `json:"location" db:"location" example:"Main Auditorium"`
	Capacity        int       `json:"capacity" db:"capacity" example:"200"`
	RegisteredCount int       `json:"registeredCount" db:"registered_count" example:"42"`
	IsActive        bool      `json:"isActive" db:"is_active" example:"true"`
	Price           int64     `json:"price" db:"price" example:"150"` // INR, 0 means free
	PosterURL       *string   `json:"posterUrl,omitempty" db:"poster_url"`
	TeamType        TeamType  `json:"teamType" db:"team_type" example:"individual"`
	MinTeamSize     int       `json:"minTeamSize" db:"min_team_size" example:"1"`
	MaxTeamSize     int       `json:"maxTeamSize" db:"max_team_size" example:"1"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// IsTeamEvent reports whether registrations must be team registrations
func (e *Event) IsTeamEvent() bool {
	return e.TeamType == TeamTypeTeam
}

// IsFree reports whether the event needs no payment
func (e *Event) IsFree() bool {
	return e.Price <= 0
}

// IsFull reports whether every seat is taken
func (e *Event) IsFull() bool {
	return e.RegisteredCount >= e.Capacity
}

// RemainingSeats returns the number of registration units still available
func (e *Event) RemainingSeats() int {
	if e.IsFull() {
		return 0
	}
	return e.Capacity - e.RegisteredCount
}

// EventStats summarises registrations and attendance of one event
type EventStats struct {
	EventID                int64 `json:"eventId"`
	Registrations          int   `json:"registrations"`
	CheckedInRegistrations int   `json:"checkedInRegistrations"`
	CheckinRecords         int   `json:"checkinRecords"`
	OnlineApproved         int   `json:"online"`
	CashApproved           int   `json:"cashApproved"`
	CashPending            int   `json:"cashPending"`
	CashRejected           int   `json:"cashRejected"`
	FreeRegistrations      int   `json:"free"`
}
