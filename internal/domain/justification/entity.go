package justification

import (
	"math"
	"time"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

type Type string

const (
	TypeMedicalCertificate Type = "atestado"
	TypeAllowance          Type = "abono"
	TypeJustifiedAbsence   Type = "falta_justificada"
	TypeCompensation       Type = "compensacao"
	TypeOther              Type = "outro"
)

var validTypes = []string{
	string(TypeMedicalCertificate),
	string(TypeAllowance),
	string(TypeJustifiedAbsence),
	string(TypeCompensation),
	string(TypeOther),
}

// Channel is where the request came from.
type Channel string

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelEmail    Channel = "email"
	ChannelSystem   Channel = "sistema"
	ChannelManual   Channel = "manual"
)

var validChannels = []string{
	string(ChannelWhatsApp),
	string(ChannelEmail),
	string(ChannelSystem),
	string(ChannelManual),
}

// Justification excuses an absence or shortfall on one date.
type Justification struct {
	ID          string
	EmployeeID  string
	CoveredDate time.Time
	Type        Type
	Description string
	Status      Status

	// HoursCovered is nil for full-day coverage.
	HoursCovered *float64

	AttachmentURL *string
	Channel       Channel

	// Review
	ReviewedBy *string
	ReviewedAt *time.Time
	ReviewNote *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO / Join
	EmployeeName         *string
	EmployeeSecretariaID *string
}

func (j Justification) AttachmentPresent() bool {
	return j.AttachmentURL != nil && *j.AttachmentURL != ""
}

func (j Justification) CoversFullDay() bool {
	return j.HoursCovered == nil
}

// CoveredMinutes returns the partial coverage in whole minutes; 0 for
// full-day justifications.
func (j Justification) CoveredMinutes() int {
	if j.HoursCovered == nil {
		return 0
	}
	return int(math.Round(*j.HoursCovered * 60))
}
