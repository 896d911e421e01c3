package domain

// OrganizationStatus is the admin verification state of an organization.
// Any value may follow any value; there is no transition table.
type OrganizationStatus string

const (
	OrgPending  OrganizationStatus = "pending"
	OrgApproved OrganizationStatus = "approved"
	OrgRejected OrganizationStatus = "rejected"
)

func (s OrganizationStatus) Valid() bool {
	switch s {
	case OrgPending, OrgApproved, OrgRejected:
		return true
	}
	return false
}

// InitiativeStatus is the publication state of an initiative.
type InitiativeStatus string

const (
	InitiativeDraft     InitiativeStatus = "draft"
	InitiativePublished InitiativeStatus = "published"
	InitiativeCancelled InitiativeStatus = "cancelled"
)

func (s InitiativeStatus) Valid() bool {
	switch s {
	case InitiativeDraft, InitiativePublished, InitiativeCancelled:
		return true
	}
	return false
}

// OrganizerType discriminates who organizes an initiative.
type OrganizerType string

const (
	OrganizerUser         OrganizerType = "user"
	OrganizerOrganization OrganizerType = "organization"
)

// UserType describes how an account participates in the platform.
type UserType string

const (
	UserTypeHelper       UserType = "helper"
	UserTypeParticipant  UserType = "participant"
	UserTypeOrganization UserType = "organization"
	UserTypeBoth         UserType = "both"
)

// TargetAudience is who an initiative is aimed at.
type TargetAudience string

const (
	AudienceHelpers      TargetAudience = "helpers"
	AudienceParticipants TargetAudience = "participants"
	AudienceBoth         TargetAudience = "both"
)

func (a TargetAudience) Valid() bool {
	switch a {
	case AudienceHelpers, AudienceParticipants, AudienceBoth:
		return true
	}
	return false
}

// ParticipantStatus is the state of a user's registration on an initiative.
type ParticipantStatus string

const (
	ParticipantRegistered ParticipantStatus = "registered"
	ParticipantApproved   ParticipantStatus = "approved"
	ParticipantRejected   ParticipantStatus = "rejected"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
