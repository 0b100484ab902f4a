package main

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/clinichq/clinic-api/internal/config"
	"github.com/clinichq/clinic-api/internal/domain/lookup"
	"github.com/clinichq/clinic-api/internal/domain/referral"
	"github.com/clinichq/clinic-api/internal/domain/scheduling"
	"github.com/clinichq/clinic-api/internal/platform/db"
)

var seedSpecialties = []string{
	"General Practice", "Cardiology", "Dermatology", "Pediatrics",
	"Orthopedics", "Ophthalmology", "ENT", "Neurology",
}

var seedTypes = []lookup.AppointmentType{
	{Name: "Consultation", DurationMinutes: 30, Color: "#4f8ef7"},
	{Name: "Follow-up", DurationMinutes: 30, Color: "#34c38f"},
	{Name: "Procedure", DurationMinutes: 60, Color: "#f46a6a"},
	{Name: "Check-up", DurationMinutes: 30, Color: "#f1b44c"},
}

var seedInsurers = []string{"cnss", "cnops", "axa", "saham", ""}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with sample data",
		RunE: func(cmd *cobra.Command, args []string) error {
			count, _ := cmd.Flags().GetInt("appointments")
			return runSeed(count)
		},
	}
	cmd.Flags().Int("appointments", 120, "Number of appointments to create")
	return cmd
}

func runSeed(apptCount int) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return err
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	// Rooms
	roomRepo := lookup.NewRoomRepoPG(pool)
	var roomIDs []string
	for i := 1; i <= 6; i++ {
		r := lookup.Room{
			ID:     uuid.NewString(),
			Name:   fmt.Sprintf("Salle %d", i),
			Color:  gofakeit.HexColor(),
			Active: true,
		}
		if err := roomRepo.Create(ctx, r); err != nil {
			return fmt.Errorf("seed rooms: %w", err)
		}
		roomIDs = append(roomIDs, r.ID)
	}
	fmt.Printf("Seeded %d rooms.\n", len(roomIDs))

	// Physicians
	physRepo := lookup.NewPhysicianRepoPG(pool)
	var physicians []lookup.Physician
	for i := 0; i < 8; i++ {
		p := lookup.Physician{
			ID:        uuid.NewString(),
			FullName:  "Dr. " + gofakeit.Name(),
			Specialty: seedSpecialties[i%len(seedSpecialties)],
			Color:     gofakeit.HexColor(),
			Active:    true,
		}
		if err := physRepo.Create(ctx, p); err != nil {
			return fmt.Errorf("seed physicians: %w", err)
		}
		physicians = append(physicians, p)
	}
	fmt.Printf("Seeded %d physicians.\n", len(physicians))

	// Appointment types
	typeRepo := lookup.NewAppointmentTypeRepoPG(pool)
	for _, t := range seedTypes {
		t.ID = uuid.NewString()
		if err := typeRepo.Create(ctx, t); err != nil {
			return fmt.Errorf("seed appointment types: %w", err)
		}
	}
	fmt.Printf("Seeded %d appointment types.\n", len(seedTypes))

	// Appointments spread over four weeks around today, on the slot grid.
	apptRepo := scheduling.NewRepoPG(pool)
	slots := scheduling.TimeSlots()
	statuses := []scheduling.Status{
		scheduling.StatusPending, scheduling.StatusConfirmed, scheduling.StatusConfirmed,
		scheduling.StatusToCall, scheduling.StatusCompleted, scheduling.StatusCancelled,
	}
	today := scheduling.DateOf(time.Now())
	for i := 0; i < apptCount; i++ {
		phys := physicians[gofakeit.Number(0, len(physicians)-1)]
		typ := seedTypes[gofakeit.Number(0, len(seedTypes)-1)]
		a := scheduling.Appointment{
			ID:              uuid.NewString(),
			PatientName:     gofakeit.Name(),
			Date:            today.AddDays(gofakeit.Number(-7, 21)),
			Time:            slots[gofakeit.Number(0, len(slots)-1)],
			DurationMinutes: typ.DurationMinutes,
			Status:          statuses[gofakeit.Number(0, len(statuses)-1)],
			Room:            roomIDs[gofakeit.Number(0, len(roomIDs)-1)],
			Type:            typ.Name,
			Physician:       phys.FullName,
			PhysicianID:     phys.ID,
			Phone:           gofakeit.Phone(),
			Email:           gofakeit.Email(),
			Insurance:       seedInsurers[gofakeit.Number(0, len(seedInsurers)-1)],
		}
		if err := apptRepo.Create(ctx, a); err != nil {
			return fmt.Errorf("seed appointments: %w", err)
		}
	}
	fmt.Printf("Seeded %d appointments.\n", apptCount)

	// Referrals in assorted statuses
	refRepo := referral.NewRepoPG(pool)
	refStatuses := []referral.Status{
		referral.StatusNew, referral.StatusNew, referral.StatusSent,
		referral.StatusAccepted, referral.StatusRejected, referral.StatusArrived,
	}
	refCount := apptCount / 4
	for i := 0; i < refCount; i++ {
		phys := physicians[gofakeit.Number(0, len(physicians)-1)]
		ref := referral.Referral{
			ID:                 uuid.NewString(),
			PatientName:        gofakeit.Name(),
			Phone:              gofakeit.Phone(),
			Email:              gofakeit.Email(),
			ReferringDoctor:    "Dr. " + gofakeit.LastName(),
			Physician:          phys.FullName,
			TargetSpecialty:    phys.Specialty,
			Intervention:       seedTypes[gofakeit.Number(0, len(seedTypes)-1)].Name,
			Urgency:            gofakeit.RandomString([]string{"low", "normal", "high", "urgent"}),
			ConsultationReason: gofakeit.Sentence(6),
			Establishment:      gofakeit.Company(),
			Insurance:          seedInsurers[gofakeit.Number(0, len(seedInsurers)-1)],
			Status:             refStatuses[gofakeit.Number(0, len(refStatuses)-1)],
		}
		if err := refRepo.Create(ctx, ref); err != nil {
			return fmt.Errorf("seed referrals: %w", err)
		}
	}
	fmt.Printf("Seeded %d referrals.\n", refCount)

	return nil
}
