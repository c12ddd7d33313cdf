package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled           AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed           AppointmentStatus = "confirmed"
	AppointmentStatusCanceled            AppointmentStatus = "canceled"
	AppointmentStatusRescheduleRequested AppointmentStatus = "reschedule_requested"
)

type Appointment struct {
	Base
	PatientID uuid.UUID         `db:"patient_id" json:"patient_id"`
	StartAt   time.Time         `db:"start_at" json:"start_at"`
	Provider  string            `db:"provider" json:"provider"`
	Location  string            `db:"location" json:"location"`
	Status    AppointmentStatus `db:"status" json:"status"`
	// Version is the optimistic-concurrency token. Every status
	// mutation must compare against the version it read and bump it.
	Version int64 `db:"version" json:"version"`
}

type CreateAppointmentRequest struct {
	PatientID uuid.UUID `json:"patient_id" validate:"required"`
	StartAt   time.Time `json:"start_at" validate:"required"`
	Provider  string    `json:"provider" validate:"required"`
	Location  string    `json:"location" validate:"required"`
}

type AppointmentFilters struct {
	PatientID uuid.UUID
	Status    AppointmentStatus
	StartDate time.Time
	EndDate   time.Time
}
