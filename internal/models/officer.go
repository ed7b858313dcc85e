package models

import "time"

type OfficerStatus string

const (
	OfficerStatusAvailable OfficerStatus = "available"
	OfficerStatusOnDuty    OfficerStatus = "on_duty"
	OfficerStatusBusy      OfficerStatus = "busy"
	OfficerStatusOffDuty   OfficerStatus = "off_duty"
)

func (s OfficerStatus) IsValid() bool {
	switch s {
	case OfficerStatusAvailable, OfficerStatusOnDuty, OfficerStatusBusy, OfficerStatusOffDuty:
		return true
	}
	return false
}

type UserRole string

const (
	RoleCitizen UserRole = "citizen"
	RoleOfficer UserRole = "officer"
	RoleAdmin   UserRole = "admin"
)

// Profile is the account record shared by citizens, responders and agency
// admins. Officer-only fields stay empty for citizen rows.
type Profile struct {
	ID            string        `json:"id" bson:"_id,omitempty"`
	Email         string        `json:"email" bson:"email"`
	FullName      string        `json:"full_name" bson:"full_name"`
	Phone         string        `json:"phone,omitempty" bson:"phone,omitempty"`
	Role          UserRole      `json:"role" bson:"role"`
	AgencyType    string        `json:"agency_type,omitempty" bson:"agency_type,omitempty"`
	StationID     string        `json:"station_id,omitempty" bson:"station_id,omitempty"`
	OfficerStatus OfficerStatus `json:"officer_status,omitempty" bson:"officer_status,omitempty"`
	BadgeNumber   string        `json:"badge_number,omitempty" bson:"badge_number,omitempty"`
	AvatarURL     string        `json:"avatar_url,omitempty" bson:"avatar_url,omitempty"`
	FCMToken      string        `json:"-" bson:"fcm_token,omitempty"`
	APNSToken     string        `json:"-" bson:"apns_token,omitempty"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" bson:"updated_at"`
}

func (p *Profile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Email
}

type Station struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	Name       string    `json:"name" bson:"name"`
	AgencyType string    `json:"agency_type" bson:"agency_type"`
	Address    string    `json:"address,omitempty" bson:"address,omitempty"`
	Latitude   *float64  `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty" bson:"longitude,omitempty"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}
