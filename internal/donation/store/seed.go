// Package store holds what the SQLite and PostgreSQL donation stores share.
package store

import (
	"context"
	"fmt"
	"time"

	"donorlink/internal/donation/models"
	id "donorlink/pkg/domain"
)

// Directory registers the entities donations refer to. Registration itself
// belongs to other services; this is what seeding and tests need.
type Directory interface {
	CreatePerson(ctx context.Context, p *models.Person) error
	CreateHospital(ctx context.Context, name string) (id.HospitalID, error)
	CreateDonor(ctx context.Context, donor *models.Donor) error
	CreateReceiver(ctx context.Context, r *models.Receiver) error
	CreateAssignment(ctx context.Context, a *models.Assignment) error
}

// Demo identifies the seeded rows.
type Demo struct {
	Hospital   id.HospitalID
	Donors     []id.DonorID
	Receiver   id.ReceiverID
	Assignment id.AssignmentID
}

// SeedDemo creates one hospital, three eligible donors, a receiver needing two
// donations and a confirmed assignment pairing the first donor with it.
func SeedDemo(ctx context.Context, dir Directory, now time.Time) (*Demo, error) {
	hospitalID, err := dir.CreateHospital(ctx, "General Hospital")
	if err != nil {
		return nil, fmt.Errorf("seed hospital: %w", err)
	}
	demo := &Demo{Hospital: hospitalID}

	people := []*models.Person{
		{FirstName: "Ana", LastName: "Lopez", BloodType: models.BloodTypeONeg, Gender: models.GenderFemale, IsActive: true},
		{FirstName: "Marco", LastName: "Diaz", BloodType: models.BloodTypeAPos, Gender: models.GenderMale, IsActive: true},
		{FirstName: "Lucia", LastName: "Perez", BloodType: models.BloodTypeBNeg, Gender: models.GenderFemale, IsActive: true},
	}
	for _, p := range people {
		if err := dir.CreatePerson(ctx, p); err != nil {
			return nil, fmt.Errorf("seed person: %w", err)
		}
		donor := &models.Donor{UserID: p.ID, IsPublic: true, CreatedAt: now}
		if err := dir.CreateDonor(ctx, donor); err != nil {
			return nil, fmt.Errorf("seed donor: %w", err)
		}
		demo.Donors = append(demo.Donors, donor.ID)
	}

	patient := &models.Person{FirstName: "Jorge", LastName: "Ruiz", BloodType: models.BloodTypeABPos, Gender: models.GenderMale, IsActive: true}
	if err := dir.CreatePerson(ctx, patient); err != nil {
		return nil, fmt.Errorf("seed patient: %w", err)
	}
	receiver := &models.Receiver{
		UserID:            patient.ID,
		HospitalID:        hospitalID,
		BloodType:         patient.BloodType,
		Diagnosis:         "Scheduled surgery",
		RequiredDonations: 2,
		Deadline:          now.Add(5 * 24 * time.Hour),
		Status:            models.ReceiverStatusActive,
		CreatedAt:         now,
	}
	if err := dir.CreateReceiver(ctx, receiver); err != nil {
		return nil, fmt.Errorf("seed receiver: %w", err)
	}
	demo.Receiver = receiver.ID

	receiverID := receiver.ID
	assignment := &models.Assignment{
		DonorID:        demo.Donors[0],
		ReceiverID:     &receiverID,
		HospitalID:     hospitalID,
		Status:         models.AssignmentStatusConfirmed,
		AssignmentDate: now,
	}
	if err := dir.CreateAssignment(ctx, assignment); err != nil {
		return nil, fmt.Errorf("seed assignment: %w", err)
	}
	demo.Assignment = assignment.ID
	return demo, nil
}

// Drive is a receiver with one confirmed assignment per donor.
type Drive struct {
	Receiver    id.ReceiverID
	Donors      []id.DonorID
	Assignments []id.AssignmentID
}

// SeedDrive creates a receiver at hospitalID needing donors donations and
// that many eligible donors, each holding a confirmed assignment to it.
func SeedDrive(ctx context.Context, dir Directory, hospitalID id.HospitalID, donors int, now time.Time) (*Drive, error) {
	patient := &models.Person{FirstName: "Elena", LastName: "Vidal", BloodType: models.BloodTypeABPos, Gender: models.GenderFemale, IsActive: true}
	if err := dir.CreatePerson(ctx, patient); err != nil {
		return nil, fmt.Errorf("seed patient: %w", err)
	}
	receiver := &models.Receiver{
		UserID:            patient.ID,
		HospitalID:        hospitalID,
		BloodType:         patient.BloodType,
		Diagnosis:         "Transfusion programme",
		RequiredDonations: donors,
		Deadline:          now.Add(30 * 24 * time.Hour),
		Status:            models.ReceiverStatusActive,
		CreatedAt:         now,
	}
	if err := dir.CreateReceiver(ctx, receiver); err != nil {
		return nil, fmt.Errorf("seed receiver: %w", err)
	}
	drive := &Drive{Receiver: receiver.ID}

	for i := range donors {
		p := &models.Person{
			FirstName: fmt.Sprintf("Donor%d", i+1),
			LastName:  "Drive",
			BloodType: models.BloodTypeOPos,
			Gender:    models.GenderMale,
			IsActive:  true,
		}
		if err := dir.CreatePerson(ctx, p); err != nil {
			return nil, fmt.Errorf("seed person: %w", err)
		}
		donor := &models.Donor{UserID: p.ID, IsPublic: true, CreatedAt: now}
		if err := dir.CreateDonor(ctx, donor); err != nil {
			return nil, fmt.Errorf("seed donor: %w", err)
		}
		receiverID := receiver.ID
		assignment := &models.Assignment{
			DonorID:        donor.ID,
			ReceiverID:     &receiverID,
			HospitalID:     hospitalID,
			Status:         models.AssignmentStatusConfirmed,
			AssignmentDate: now,
		}
		if err := dir.CreateAssignment(ctx, assignment); err != nil {
			return nil, fmt.Errorf("seed assignment: %w", err)
		}
		drive.Donors = append(drive.Donors, donor.ID)
		drive.Assignments = append(drive.Assignments, assignment.ID)
	}
	return drive, nil
}
