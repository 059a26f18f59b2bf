package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/dcorpo/intel/internal/storage"
)

func TestAuditEventsNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	actions := []string{"brief.generate", "brief.save", "brief.publish"}
	for i, action := range actions {
		err := store.PutAuditEvent(ctx, storage.AuditEvent{
			Action:     action,
			BriefID:    "b1",
			OperatorID: "op1",
			CreatedAt:  testBase.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("put audit event %s: %v", action, err)
		}
	}

	records, err := store.ListAuditEvents(ctx, 2)
	if err != nil {
		t.Fatalf("list audit events: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 events, got %d", len(records))
	}
	if records[0].Action != "brief.publish" || records[1].Action != "brief.save" {
		t.Fatalf("expected newest first, got %s then %s", records[0].Action, records[1].Action)
	}
}

func TestPutAuditEventRequiresFields(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.PutAuditEvent(ctx, storage.AuditEvent{OperatorID: "op1"}); err == nil {
		t.Fatal("expected error for missing action")
	}
	if err := store.PutAuditEvent(ctx, storage.AuditEvent{Action: "brief.save"}); err == nil {
		t.Fatal("expected error for missing operator id")
	}
}
