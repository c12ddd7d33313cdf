package model

type TemplateChannel string

const (
	TemplateChannelSMS   TemplateChannel = "sms"
	TemplateChannelEmail TemplateChannel = "email"
)

// MessageTemplate holds a message body with placeholder tokens:
// {patient.first_name}, {appointment.start_local},
// {appointment.location}, {appointment.provider}.
type MessageTemplate struct {
	Base
	Name     string          `db:"name" json:"name"`
	Channel  TemplateChannel `db:"channel" json:"channel"`
	Language string          `db:"language" json:"language"`
	Body     string          `db:"body" json:"body"`
}

type CreateTemplateRequest struct {
	Name string `json:"name" validate:"required"`
	Body string `json:"body" validate:"required"`
}
