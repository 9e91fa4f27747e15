package interaction

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestTrackedNotify(t *testing.T) {
	ctx := context.Background()
	rec := &recordingResponder{}
	tr := Track(rec)
	i := &discordgo.Interaction{}

	if tr.Acknowledged() {
		t.Fatal("fresh tracker must not be acknowledged")
	}
	if err := tr.Notify(ctx, i, "first"); err != nil {
		t.Fatalf("Notify error: %v", err)
	}
	if !tr.Acknowledged() || len(rec.responses) != 1 {
		t.Fatalf("first notice should be the initial response")
	}

	if err := tr.Notify(ctx, i, "second"); err != nil {
		t.Fatalf("Notify error: %v", err)
	}
	if len(rec.followups) != 1 || rec.followups[0].Content != "second" {
		t.Errorf("second notice should be a follow-up, got %+v", rec.followups)
	}

	if Track(tr) != tr {
		t.Error("Track must not double-wrap")
	}
}
