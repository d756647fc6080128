package healthfactors_test

import (
	"errors"
	"testing"

	"github.com/okalmanwa/heart-monitor/internal/access"
	"github.com/okalmanwa/heart-monitor/internal/apps/healthfactors"
	"github.com/okalmanwa/heart-monitor/internal/models"
	"github.com/okalmanwa/heart-monitor/internal/testutil"
)

func ownerScope(u *models.User) access.Scope {
	return access.Scope{UserID: u.ID, Email: u.Email}
}

func intPtr(n int) *int { return &n }

func TestCreateHealthFactor(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "alice@example.com", false)
	svc := healthfactors.NewHealthFactorService(db)

	resp, err := svc.Create(ownerScope(user), healthfactors.CreateHealthFactorRequest{
		Date:             "2026-08-01",
		SleepQuality:     intPtr(4),
		StressLevel:      intPtr(2),
		ExerciseDuration: intPtr(30),
		Notes:            "good day",
	})
	if err != nil {
		t.Fatalf("create health factor: %v", err)
	}
	if resp.Date != "2026-08-01" {
		t.Fatalf("date = %q, want 2026-08-01", resp.Date)
	}
	if resp.UserID != user.ID {
		t.Fatalf("owner = %s, want %s", resp.UserID, user.ID)
	}
}

func TestCreateHealthFactorValidation(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "alice@example.com", false)
	svc := healthfactors.NewHealthFactorService(db)

	tests := []struct {
		name    string
		req     healthfactors.CreateHealthFactorRequest
		wantErr error
	}{
		{"bad date", healthfactors.CreateHealthFactorRequest{Date: "01/08/2026"}, healthfactors.ErrInvalidDate},
		{"empty date", healthfactors.CreateHealthFactorRequest{}, healthfactors.ErrInvalidDate},
		{"sleep quality too low", healthfactors.CreateHealthFactorRequest{Date: "2026-08-01", SleepQuality: intPtr(0)}, healthfactors.ErrSleepQualityRange},
		{"sleep quality too high", healthfactors.CreateHealthFactorRequest{Date: "2026-08-01", SleepQuality: intPtr(6)}, healthfactors.ErrSleepQualityRange},
		{"stress level out of range", healthfactors.CreateHealthFactorRequest{Date: "2026-08-01", StressLevel: intPtr(6)}, healthfactors.ErrStressLevelRange},
		{"negative exercise", healthfactors.CreateHealthFactorRequest{Date: "2026-08-01", ExerciseDuration: intPtr(-1)}, healthfactors.ErrExerciseNegative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ownerScope(user), tt.req); !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestHealthFactorOnePerDay(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice@example.com", false)
	bob := testutil.CreateUser(t, db, "bob@example.com", false)
	svc := healthfactors.NewHealthFactorService(db)

	if _, err := svc.Create(ownerScope(alice), healthfactors.CreateHealthFactorRequest{Date: "2026-08-01"}); err != nil {
		t.Fatalf("create health factor: %v", err)
	}

	// Same user, same date: conflict.
	if _, err := svc.Create(ownerScope(alice), healthfactors.CreateHealthFactorRequest{Date: "2026-08-01"}); !errors.Is(err, healthfactors.ErrDuplicateDate) {
		t.Fatalf("duplicate err = %v, want %v", err, healthfactors.ErrDuplicateDate)
	}

	// Same user, other date: fine.
	if _, err := svc.Create(ownerScope(alice), healthfactors.CreateHealthFactorRequest{Date: "2026-08-02"}); err != nil {
		t.Fatalf("second date: %v", err)
	}

	// Other user, same date: fine.
	if _, err := svc.Create(ownerScope(bob), healthfactors.CreateHealthFactorRequest{Date: "2026-08-01"}); err != nil {
		t.Fatalf("other user same date: %v", err)
	}
}

func TestUpdateHealthFactorKeepsDate(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "alice@example.com", false)
	svc := healthfactors.NewHealthFactorService(db)

	created, err := svc.Create(ownerScope(user), healthfactors.CreateHealthFactorRequest{
		Date:         "2026-08-01",
		SleepQuality: intPtr(3),
	})
	if err != nil {
		t.Fatalf("create health factor: %v", err)
	}

	notes := "slept badly"
	resp, err := svc.Update(ownerScope(user), created.ID, healthfactors.UpdateHealthFactorRequest{
		SleepQuality: intPtr(1),
		Notes:        &notes,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if resp.Date != "2026-08-01" {
		t.Fatalf("date changed on update: %q", resp.Date)
	}
	if resp.SleepQuality == nil || *resp.SleepQuality != 1 {
		t.Fatalf("sleep quality not updated: %v", resp.SleepQuality)
	}
}

func TestHealthFactorScopedAccess(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice@example.com", false)
	bob := testutil.CreateUser(t, db, "bob@example.com", false)
	svc := healthfactors.NewHealthFactorService(db)

	created, err := svc.Create(ownerScope(alice), healthfactors.CreateHealthFactorRequest{Date: "2026-08-01"})
	if err != nil {
		t.Fatalf("create health factor: %v", err)
	}

	if _, err := svc.Get(ownerScope(bob), created.ID); !errors.Is(err, healthfactors.ErrHealthFactorNotFound) {
		t.Fatalf("cross-user get err = %v, want %v", err, healthfactors.ErrHealthFactorNotFound)
	}
	if err := svc.Delete(ownerScope(bob), created.ID); !errors.Is(err, healthfactors.ErrHealthFactorNotFound) {
		t.Fatalf("cross-user delete err = %v, want %v", err, healthfactors.ErrHealthFactorNotFound)
	}
}
