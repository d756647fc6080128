package insights_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/okalmanwa/heart-monitor/internal/access"
	"github.com/okalmanwa/heart-monitor/internal/apps/insights"
	"github.com/okalmanwa/heart-monitor/internal/models"
	"github.com/okalmanwa/heart-monitor/internal/testutil"
)

// recordingNotifier captures enqueue calls instead of touching Redis.
type recordingNotifier struct {
	calls []uuid.UUID
}

func (n *recordingNotifier) EnqueueInsightCreated(userID uuid.UUID, insightText string) {
	n.calls = append(n.calls, userID)
}

func ownerScope(u *models.User) access.Scope {
	return access.Scope{UserID: u.ID, Email: u.Email}
}

func TestGenerateInsightNotifies(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "alice@example.com", false)
	notifier := &recordingNotifier{}
	svc := insights.NewInsightService(db, notifier)

	insight, err := svc.Generate(insights.GenerateInsightRequest{
		User:        user.ID,
		InsightText: "Your average systolic pressure dropped 5 points this month.",
		InsightType: "trend",
		Severity:    "low",
	})
	if err != nil {
		t.Fatalf("generate insight: %v", err)
	}
	if insight.IsRead {
		t.Fatalf("new insight must start unread")
	}
	if len(notifier.calls) != 1 || notifier.calls[0] != user.ID {
		t.Fatalf("notifier calls = %v, want one for %s", notifier.calls, user.ID)
	}
}

func TestGenerateInsightValidation(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "alice@example.com", false)
	svc := insights.NewInsightService(db, &recordingNotifier{})

	tests := []struct {
		name    string
		req     insights.GenerateInsightRequest
		wantErr error
	}{
		{"missing text", insights.GenerateInsightRequest{User: user.ID, InsightType: "trend"}, insights.ErrTextRequired},
		{"bad type", insights.GenerateInsightRequest{User: user.ID, InsightText: "x", InsightType: "guess"}, insights.ErrInvalidType},
		{"bad severity", insights.GenerateInsightRequest{User: user.ID, InsightText: "x", InsightType: "trend", Severity: "catastrophic"}, insights.ErrInvalidSeverity},
		{"missing user", insights.GenerateInsightRequest{InsightText: "x", InsightType: "trend"}, insights.ErrOwnerRequired},
		{"unknown user", insights.GenerateInsightRequest{User: uuid.New(), InsightText: "x", InsightType: "trend"}, insights.ErrOwnerUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Generate(tt.req); !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMarkReadOnlyTogglesFlag(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "alice@example.com", false)
	svc := insights.NewInsightService(db, &recordingNotifier{})

	insight, err := svc.Generate(insights.GenerateInsightRequest{
		User:        user.ID,
		InsightText: "Readings spiked on weekends.",
		InsightType: "anomaly",
		Severity:    "medium",
	})
	if err != nil {
		t.Fatalf("generate insight: %v", err)
	}

	if err := svc.MarkRead(ownerScope(user), insight.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	got, err := svc.Get(ownerScope(user), insight.ID)
	if err != nil {
		t.Fatalf("get insight: %v", err)
	}
	if !got.IsRead {
		t.Fatalf("insight still unread after mark-read")
	}
	if got.InsightText != insight.InsightText || got.Severity != insight.Severity {
		t.Fatalf("mark-read modified immutable fields")
	}
}

func TestInsightScopedAccess(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice@example.com", false)
	bob := testutil.CreateUser(t, db, "bob@example.com", false)
	svc := insights.NewInsightService(db, &recordingNotifier{})

	insight, err := svc.Generate(insights.GenerateInsightRequest{
		User:        alice.ID,
		InsightText: "Stable readings all week.",
		InsightType: "trend",
	})
	if err != nil {
		t.Fatalf("generate insight: %v", err)
	}

	if _, err := svc.Get(ownerScope(bob), insight.ID); !errors.Is(err, insights.ErrInsightNotFound) {
		t.Fatalf("cross-user get err = %v, want %v", err, insights.ErrInsightNotFound)
	}
	if err := svc.MarkRead(ownerScope(bob), insight.ID); !errors.Is(err, insights.ErrInsightNotFound) {
		t.Fatalf("cross-user mark-read err = %v, want %v", err, insights.ErrInsightNotFound)
	}

	_, total, err := svc.List(ownerScope(bob), 1, 20)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 0 {
		t.Fatalf("cross-user list total = %d, want 0", total)
	}
}
