package result

import "testing"

func TestNew_Accessors(t *testing.T) {
	hits := []Hit{NewHit("custom-users", "1", 1.5, map[string]any{"email": "a@b.com"})}
	r := New(hits, 1, "eq", 4, false, 1.5)

	if r.Total() != 1 || r.TookMs() != 4 || r.MaxScore() != 1.5 || r.TimedOut() {
		t.Errorf("metadata = %d/%d/%f/%v", r.Total(), r.TookMs(), r.MaxScore(), r.TimedOut())
	}
	h := r.Hits()[0]
	if h.Index() != "custom-users" || h.ID() != "1" || h.Score() != 1.5 {
		t.Errorf("hit = %s/%s/%f", h.Index(), h.ID(), h.Score())
	}
	if h.Source()["email"] != "a@b.com" {
		t.Errorf("Source() = %v", h.Source())
	}
}

func TestNew_NilHitsNormalized(t *testing.T) {
	r := New(nil, 0, "", 1, false, 0)
	if r.Hits() == nil {
		t.Error("Hits() should be empty, not nil")
	}
	if r.TotalRelation() != "eq" {
		t.Errorf("TotalRelation() = %q, want eq", r.TotalRelation())
	}
}

func TestProject_ReturnsHitsInOrder(t *testing.T) {
	r := New([]Hit{
		NewHit("i", "b", 2, nil),
		NewHit("i", "a", 1, nil),
	}, 2, "eq", 1, false, 2)

	got := Project(r)
	if len(got) != 2 || got[0].ID() != "b" || got[1].ID() != "a" {
		t.Errorf("Project() = %v", got)
	}
}

func TestProject_ZeroMatches(t *testing.T) {
	got := Project(New(nil, 0, "eq", 0, false, 0))
	if got == nil {
		t.Fatal("Project() = nil, want empty slice")
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestProject_ZeroValueResult(t *testing.T) {
	got := Project(Result{})
	if got == nil || len(got) != 0 {
		t.Errorf("Project(Result{}) = %v", got)
	}
}
