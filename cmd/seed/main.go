package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hackgods/appointment-dashboard/internal/appointment"
	"github.com/hackgods/appointment-dashboard/internal/db"
)

var (
	doctors = []string{
		"Dr. Rajesh Kumar",
		"Dr. Priya Sharma",
		"Dr. Aditi Rao",
		"Dr. Smith",
		"Dr. Johnson",
	}
	reasons = []string{
		"Routine Checkup",
		"Follow-up Consultation",
		"Lab Results Review",
		"Vaccination",
		"Prescription Renewal",
	}
	statuses = []appointment.Status{
		appointment.StatusScheduled,
		appointment.StatusConfirmed,
		appointment.StatusCompleted,
		appointment.StatusCancelled,
		appointment.StatusNoShow,
	}
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	count := flag.Int("count", 50, "number of appointments to insert")
	seed := flag.Int64("seed", 42, "random seed; the same seed yields the same rows")
	spread := flag.Int("spread", 14, "days before and after today to spread appointments over")
	flag.Parse()

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	gofakeit.Seed(*seed)

	today := appointment.DateOf(time.Now())
	if err := seedAppointments(ctx, pool, today, *count, *spread); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	log.Println("seed complete")
}

func seedAppointments(ctx context.Context, pool *pgxpool.Pool, today appointment.Date, count, spread int) error {
	log.Printf("seeding %d appointments around %s", count, today)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		date := today.AddDays(gofakeit.Number(-spread, spread))
		hour := gofakeit.Number(9, 16)
		minute := []int{0, 30}[gofakeit.Number(0, 1)]
		mode := appointment.ModeInPerson
		if gofakeit.Bool() {
			mode = appointment.ModeVideo
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO appointments (id, patient_name, appointment_date, appointment_time,
			                          duration_minutes, doctor_name, mode, status, reason, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		`,
			uuid.NewString(),
			gofakeit.Name(),
			date.Time(),
			displayTime(hour, minute),
			[]int{15, 30, 45, 60}[gofakeit.Number(0, 3)],
			gofakeit.RandomString(doctors),
			string(mode),
			string(statuses[gofakeit.Number(0, len(statuses)-1)]),
			gofakeit.RandomString(reasons),
		)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Printf("appointments seeded: %d", count)
	return nil
}

// displayTime renders 24h hour/minute as "02:30 PM".
func displayTime(hour, minute int) string {
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%02d:%02d %s", h, minute, suffix)
}
