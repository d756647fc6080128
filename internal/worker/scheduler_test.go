package worker

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/okalmanwa/heart-monitor/internal/apps/medications"
	"github.com/okalmanwa/heart-monitor/internal/apps/notifications"
	"github.com/okalmanwa/heart-monitor/internal/testutil"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fakeDedup struct {
	claimed map[string]bool
}

func newFakeDedup() *fakeDedup {
	return &fakeDedup{claimed: map[string]bool{}}
}

func (d *fakeDedup) Claim(ctx context.Context, key string) (bool, error) {
	if d.claimed[key] {
		return false, nil
	}
	d.claimed[key] = true
	return true, nil
}

func (d *fakeDedup) Release(ctx context.Context, key string) {
	delete(d.claimed, key)
}

type fakeReminderSink struct {
	bp   []uuid.UUID
	meds []string
	fail bool
}

func (s *fakeReminderSink) BPReminder(userID uuid.UUID) error {
	if s.fail {
		return errors.New("queue unavailable")
	}
	s.bp = append(s.bp, userID)
	return nil
}

func (s *fakeReminderSink) MedicationReminder(userID uuid.UUID, medicationName string) error {
	if s.fail {
		return errors.New("queue unavailable")
	}
	s.meds = append(s.meds, medicationName)
	return nil
}

// 2026-08-28 is a Friday, so daily reminders are due and weekly ones are not.
var scanTime = time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

func seedScanUser(t *testing.T, db *gorm.DB, bpEnabled, medEnabled bool) uuid.UUID {
	t.Helper()

	user := testutil.CreateUser(t, db, "alice@example.com", false)
	prefs := notifications.NotificationPreferences{
		ID:                        uuid.New(),
		UserID:                    user.ID,
		BPReminderEnabled:         bpEnabled,
		BPReminderFrequency:       "daily",
		BPReminderTime:            "09:00",
		MedicationReminderEnabled: medEnabled,
	}
	if err := db.Create(&prefs).Error; err != nil {
		t.Fatalf("seed prefs: %v", err)
	}
	return user.ID
}

func seedMedication(t *testing.T, db *gorm.DB, userID uuid.UUID, name string, active bool) {
	t.Helper()

	med := medications.Medication{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Dosage:    "10mg",
		Frequency: "once_daily",
		StartDate: datatypes.Date(scanTime.AddDate(0, -1, 0)),
		IsActive:  active,
	}
	if err := db.Create(&med).Error; err != nil {
		t.Fatalf("seed medication: %v", err)
	}
}

func TestReminderScanEnqueuesOncePerDay(t *testing.T) {
	db := testutil.NewDB(t)
	userID := seedScanUser(t, db, true, true)
	seedMedication(t, db, userID, "Lisinopril", true)
	seedMedication(t, db, userID, "Old med", false)

	dedup := newFakeDedup()
	sink := &fakeReminderSink{}
	logger := slog.Default()

	if err := runReminderScan(context.Background(), logger, db, dedup, sink, scanTime); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(sink.bp) != 1 || sink.bp[0] != userID {
		t.Fatalf("expected one bp reminder for %s, got %v", userID, sink.bp)
	}
	if len(sink.meds) != 1 || sink.meds[0] != "Lisinopril" {
		t.Fatalf("expected one reminder for the active medication, got %v", sink.meds)
	}

	// A second scan in the same minute must not send again.
	if err := runReminderScan(context.Background(), logger, db, dedup, sink, scanTime); err != nil {
		t.Fatalf("rescan: %v", err)
	}
	if len(sink.bp) != 1 || len(sink.meds) != 1 {
		t.Fatalf("duplicate sends after rescan: bp=%d meds=%d", len(sink.bp), len(sink.meds))
	}
}

func TestReminderScanSkipsDisabledAndOffMinute(t *testing.T) {
	db := testutil.NewDB(t)
	userID := seedScanUser(t, db, false, false)
	seedMedication(t, db, userID, "Lisinopril", true)

	dedup := newFakeDedup()
	sink := &fakeReminderSink{}

	if err := runReminderScan(context.Background(), slog.Default(), db, dedup, sink, scanTime); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(sink.bp) != 0 || len(sink.meds) != 0 {
		t.Fatalf("disabled preferences still sent: bp=%v meds=%v", sink.bp, sink.meds)
	}

	// Off-minute scans match no preference rows at all.
	if err := runReminderScan(context.Background(), slog.Default(), db, dedup, sink, scanTime.Add(time.Minute)); err != nil {
		t.Fatalf("off-minute scan: %v", err)
	}
	if len(sink.bp) != 0 || len(sink.meds) != 0 {
		t.Fatalf("off-minute scan sent reminders: bp=%v meds=%v", sink.bp, sink.meds)
	}
}

func TestReminderScanReleasesClaimWhenEnqueueFails(t *testing.T) {
	db := testutil.NewDB(t)
	userID := seedScanUser(t, db, true, true)
	seedMedication(t, db, userID, "Lisinopril", true)

	dedup := newFakeDedup()
	sink := &fakeReminderSink{fail: true}
	logger := slog.Default()

	if err := runReminderScan(context.Background(), logger, db, dedup, sink, scanTime); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(dedup.claimed) != 0 {
		t.Fatalf("claims held after failed enqueue: %v", dedup.claimed)
	}

	// Once the queue recovers, a later scan the same day still delivers.
	sink.fail = false
	if err := runReminderScan(context.Background(), logger, db, dedup, sink, scanTime); err != nil {
		t.Fatalf("retry scan: %v", err)
	}
	if len(sink.bp) != 1 {
		t.Fatalf("expected bp reminder after queue recovery, got %v", sink.bp)
	}
	if len(sink.meds) != 1 {
		t.Fatalf("expected medication reminder after queue recovery, got %v", sink.meds)
	}
}
