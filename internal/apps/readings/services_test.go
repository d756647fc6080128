package readings_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/okalmanwa/heart-monitor/internal/access"
	"github.com/okalmanwa/heart-monitor/internal/apps/readings"
	"github.com/okalmanwa/heart-monitor/internal/models"
	"github.com/okalmanwa/heart-monitor/internal/testutil"
)

func ownerScope(u *models.User) access.Scope {
	return access.Scope{UserID: u.ID, Email: u.Email}
}

func adminScope(u *models.User) access.Scope {
	return access.Scope{UserID: u.ID, Email: u.Email, Admin: true}
}

func TestCreateReadingDerivesCategory(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "alice@example.com", false)
	svc := readings.NewReadingService(db)

	hr := 72
	resp, err := svc.Create(ownerScope(user), readings.CreateReadingRequest{
		Systolic:   150,
		Diastolic:  95,
		HeartRate:  &hr,
		RecordedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create reading: %v", err)
	}
	if resp.Category != readings.CategoryHighStage2 {
		t.Fatalf("category = %q, want %q", resp.Category, readings.CategoryHighStage2)
	}
	if resp.UserID != user.ID {
		t.Fatalf("owner = %s, want %s", resp.UserID, user.ID)
	}
}

func TestCreateReadingValidatesRanges(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "alice@example.com", false)
	svc := readings.NewReadingService(db)

	tests := []struct {
		name      string
		systolic  int
		diastolic int
		heartRate *int
		wantErr   error
	}{
		{"systolic below range", 49, 80, nil, readings.ErrSystolicRange},
		{"systolic above range", 251, 80, nil, readings.ErrSystolicRange},
		{"diastolic below range", 120, 29, nil, readings.ErrDiastolicRange},
		{"diastolic above range", 120, 201, nil, readings.ErrDiastolicRange},
		{"heart rate above range", 120, 80, intPtr(201), readings.ErrHeartRateRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ownerScope(user), readings.CreateReadingRequest{
				Systolic:   tt.systolic,
				Diastolic:  tt.diastolic,
				HeartRate:  tt.heartRate,
				RecordedAt: time.Now().UTC(),
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// Boundary values are accepted.
	for _, pair := range [][2]int{{50, 30}, {250, 200}} {
		if _, err := svc.Create(ownerScope(user), readings.CreateReadingRequest{
			Systolic:   pair[0],
			Diastolic:  pair[1],
			RecordedAt: time.Now().UTC(),
		}); err != nil {
			t.Fatalf("create reading %d/%d: %v", pair[0], pair[1], err)
		}
	}
}

func TestReadingsScopedToOwner(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice@example.com", false)
	bob := testutil.CreateUser(t, db, "bob@example.com", false)
	admin := testutil.CreateUser(t, db, "admin@example.com", true)
	svc := readings.NewReadingService(db)

	created, err := svc.Create(ownerScope(alice), readings.CreateReadingRequest{
		Systolic:   118,
		Diastolic:  76,
		RecordedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create reading: %v", err)
	}

	// Bob cannot see Alice's reading: not found, not forbidden.
	if _, err := svc.Get(ownerScope(bob), created.ID); !errors.Is(err, readings.ErrReadingNotFound) {
		t.Fatalf("cross-user get: err = %v, want %v", err, readings.ErrReadingNotFound)
	}
	list, total, err := svc.List(ownerScope(bob), 1, 20)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 0 || len(list) != 0 {
		t.Fatalf("cross-user list returned %d rows", total)
	}

	// Admin sees everything.
	if _, err := svc.Get(adminScope(admin), created.ID); err != nil {
		t.Fatalf("admin get: %v", err)
	}
	_, total, err = svc.List(adminScope(admin), 1, 20)
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if total != 1 {
		t.Fatalf("admin list total = %d, want 1", total)
	}
}

func TestCreateReadingOwnerOverride(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice@example.com", false)
	bob := testutil.CreateUser(t, db, "bob@example.com", false)
	admin := testutil.CreateUser(t, db, "admin@example.com", true)
	svc := readings.NewReadingService(db)

	// A non-admin naming another owner is silently forced back to self.
	resp, err := svc.Create(ownerScope(alice), readings.CreateReadingRequest{
		User:       &bob.ID,
		Systolic:   118,
		Diastolic:  76,
		RecordedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create reading: %v", err)
	}
	if resp.UserID != alice.ID {
		t.Fatalf("owner = %s, want requester %s", resp.UserID, alice.ID)
	}

	// An admin may target any owner.
	resp, err = svc.Create(adminScope(admin), readings.CreateReadingRequest{
		User:       &bob.ID,
		Systolic:   118,
		Diastolic:  76,
		RecordedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("admin create: %v", err)
	}
	if resp.UserID != bob.ID {
		t.Fatalf("owner = %s, want target %s", resp.UserID, bob.ID)
	}
}

func TestUpdateReadingRevalidates(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "alice@example.com", false)
	svc := readings.NewReadingService(db)

	created, err := svc.Create(ownerScope(user), readings.CreateReadingRequest{
		Systolic:   118,
		Diastolic:  76,
		RecordedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create reading: %v", err)
	}

	bad := 300
	if _, err := svc.Update(ownerScope(user), created.ID, readings.UpdateReadingRequest{Systolic: &bad}); !errors.Is(err, readings.ErrSystolicRange) {
		t.Fatalf("update err = %v, want %v", err, readings.ErrSystolicRange)
	}

	ok := 135
	resp, err := svc.Update(ownerScope(user), created.ID, readings.UpdateReadingRequest{Systolic: &ok})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if resp.Category != readings.CategoryHighStage1 {
		t.Fatalf("category after update = %q, want %q", resp.Category, readings.CategoryHighStage1)
	}
}

func TestDeleteReadingScoped(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice@example.com", false)
	bob := testutil.CreateUser(t, db, "bob@example.com", false)
	svc := readings.NewReadingService(db)

	created, err := svc.Create(ownerScope(alice), readings.CreateReadingRequest{
		Systolic:   118,
		Diastolic:  76,
		RecordedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create reading: %v", err)
	}

	if err := svc.Delete(ownerScope(bob), created.ID); !errors.Is(err, readings.ErrReadingNotFound) {
		t.Fatalf("cross-user delete err = %v, want %v", err, readings.ErrReadingNotFound)
	}
	if err := svc.Delete(ownerScope(alice), created.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if err := svc.Delete(ownerScope(alice), created.ID); !errors.Is(err, readings.ErrReadingNotFound) {
		t.Fatalf("second delete err = %v, want %v", err, readings.ErrReadingNotFound)
	}
}

func TestBuildReportProducesPDF(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "alice@example.com", false)
	svc := readings.NewReadingService(db)

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ownerScope(user), readings.CreateReadingRequest{
			Systolic:   118 + i,
			Diastolic:  76,
			RecordedAt: time.Now().UTC().Add(-time.Duration(i) * time.Hour),
			Notes:      "morning reading",
		}); err != nil {
			t.Fatalf("create reading: %v", err)
		}
	}

	rows, err := svc.AllForUser(user.ID)
	if err != nil {
		t.Fatalf("load readings: %v", err)
	}

	pdf, err := readings.BuildReport(user, rows)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if !strings.HasPrefix(string(pdf), "%PDF") {
		t.Fatalf("report does not start with a PDF header")
	}
}

func intPtr(n int) *int { return &n }
