package model

import "github.com/google/uuid"

type Prescription struct {
	Base
	AppointmentID uuid.UUID `db:"appointment_id" json:"appointment_id"`
	PatientName   string    `db:"patient_name" json:"patient_name"`
	Medication    string    `db:"medication" json:"medication"`
	Dosage        string    `db:"dosage" json:"dosage"`
	DoctorNotes   string    `db:"doctor_notes" json:"doctor_notes,omitempty"`
}

type SavePrescriptionRequest struct {
	AppointmentID uuid.UUID `json:"appointment_id" binding:"required"`
	PatientName   string    `json:"patient_name" binding:"required"`
	Medication    string    `json:"medication" binding:"required"`
	Dosage        string    `json:"dosage" binding:"required"`
	DoctorNotes   string    `json:"doctor_notes" binding:"max=2000"`
}
