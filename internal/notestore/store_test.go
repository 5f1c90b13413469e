package notestore

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/starford/quill/internal/apperr"
	"github.com/starford/quill/internal/models"
)

// testStore returns a store with a clock that advances one second per call
// and sequential ids n1, n2, ...
func testStore(t *testing.T) *Store {
	t.Helper()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	var ticks, seq int
	return New(models.DefaultCatalog(),
		WithClock(func() time.Time {
			ticks++
			return base.Add(time.Duration(ticks) * time.Second)
		}),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("n%d", seq)
		}),
	)
}

func ids(notes []models.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}

func strPtr(s string) *string { return &s }

func TestCreatePrependsNewest(t *testing.T) {
	s := testStore(t)
	s.Create("a", "", "Work")
	s.Create("b", "", "Work")
	s.Create("c", "", "Work")

	got := ids(s.List())
	want := []string{"n3", "n2", "n1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestCreateSetsTimestamps(t *testing.T) {
	s := testStore(t)
	n := s.Create("t", "c", "Ideas")
	if n.CreatedAt.IsZero() || !n.CreatedAt.Equal(n.UpdatedAt) {
		t.Errorf("created_at = %v, updated_at = %v", n.CreatedAt, n.UpdatedAt)
	}
	if n.Category != "Ideas" {
		t.Errorf("category = %q, want Ideas", n.Category)
	}
}

func TestCreateUnknownCategoryFallsBack(t *testing.T) {
	s := testStore(t)
	for _, cat := range []string{"", "Bogus", "work"} {
		n := s.Create("x", "", cat)
		if n.Category != "Personal" {
			t.Errorf("Create(%q).Category = %q, want Personal", cat, n.Category)
		}
	}
}

func TestCreateAcceptsEmptyText(t *testing.T) {
	s := testStore(t)
	n := s.Create("", "", "Work")
	if n.ID == "" {
		t.Fatal("expected id for empty note")
	}
	if s.Len() != 1 {
		t.Errorf("len = %d, want 1", s.Len())
	}
}

func TestCreateDoesNotTrim(t *testing.T) {
	s := testStore(t)
	n := s.Create("  padded  ", "\tbody\n", "Work")
	if n.Title != "  padded  " || n.Content != "\tbody\n" {
		t.Errorf("text was altered: %q / %q", n.Title, n.Content)
	}
}

func TestUpdateMergesFields(t *testing.T) {
	s := testStore(t)
	a := s.Create("a", "alpha", "Work")
	b := s.Create("b", "beta", "Ideas")
	before := s.List()

	got, err := s.Update(a.ID, models.NoteFields{Title: strPtr("A2")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != "A2" || got.Content != "alpha" || got.Category != "Work" {
		t.Errorf("merged note = %+v", got)
	}
	if got.ID != a.ID || !got.CreatedAt.Equal(a.CreatedAt) {
		t.Errorf("id/created_at changed: %+v", got)
	}
	if !got.UpdatedAt.After(a.UpdatedAt) {
		t.Errorf("updated_at = %v, want after %v", got.UpdatedAt, a.UpdatedAt)
	}

	after := s.List()
	if !reflect.DeepEqual(ids(after), ids(before)) {
		t.Errorf("update repositioned notes: %v -> %v", ids(before), ids(after))
	}
	if !reflect.DeepEqual(after[0], b) {
		t.Errorf("untouched note changed: %+v", after[0])
	}
	if !reflect.DeepEqual(after[1], got) {
		t.Errorf("stored note = %+v, want %+v", after[1], got)
	}
}

func TestUpdateAllFields(t *testing.T) {
	s := testStore(t)
	a := s.Create("a", "alpha", "Work")
	got, err := s.Update(a.ID, models.NoteFields{
		Title:    strPtr("t"),
		Content:  strPtr("c"),
		Category: strPtr("Study"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != "t" || got.Content != "c" || got.Category != "Study" {
		t.Errorf("got %+v", got)
	}
}

func TestUpdateUnknownCategoryFallsBack(t *testing.T) {
	s := testStore(t)
	a := s.Create("a", "", "Work")
	got, err := s.Update(a.ID, models.NoteFields{Category: strPtr("Nope")})
	if err != nil {
		t.Fatal(err)
	}
	if got.Category != "Personal" {
		t.Errorf("category = %q, want Personal", got.Category)
	}
}

func TestUpdateKeepsUpdatedAtMonotonic(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := New(nil, WithClock(func() time.Time { return now }))
	a := s.Create("a", "", "")
	now = now.Add(-time.Hour)
	got, err := s.Update(a.ID, models.NoteFields{Title: strPtr("b")})
	if err != nil {
		t.Fatal(err)
	}
	if got.UpdatedAt.Before(a.UpdatedAt) {
		t.Errorf("updated_at went backwards: %v < %v", got.UpdatedAt, a.UpdatedAt)
	}
}

func TestUpdateNotFoundLeavesCollection(t *testing.T) {
	s := testStore(t)
	s.Create("a", "", "Work")
	before := s.List()

	_, err := s.Update("missing", models.NoteFields{Title: strPtr("x")})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if !reflect.DeepEqual(s.List(), before) {
		t.Error("collection changed after failed update")
	}
}

func TestUpdateIfCheckSeesMergedNote(t *testing.T) {
	s := testStore(t)
	a := s.Create("a", "alpha", "Work")
	before := s.List()

	errReject := errors.New("rejected")
	var seen models.Note
	_, err := s.UpdateIf(a.ID, models.NoteFields{Content: strPtr("")}, func(n models.Note) error {
		seen = n
		return errReject
	})
	if !errors.Is(err, errReject) {
		t.Fatalf("err = %v, want check error", err)
	}
	if seen.Title != "a" || seen.Content != "" {
		t.Errorf("check saw %+v, want merged note", seen)
	}
	if !reflect.DeepEqual(s.List(), before) {
		t.Error("collection changed after rejected update")
	}
}

func TestUpdateIfNotFoundSkipsCheck(t *testing.T) {
	s := testStore(t)
	called := false
	_, err := s.UpdateIf("missing", models.NoteFields{}, func(models.Note) error {
		called = true
		return nil
	})
	if !errors.Is(err, apperr.ErrNotFound) || called {
		t.Errorf("err = %v, check called = %v", err, called)
	}
}

func TestDeletePreservesOrder(t *testing.T) {
	s := testStore(t)
	for _, title := range []string{"a", "b", "c", "d"} {
		s.Create(title, "", "Work")
	}
	if err := s.Delete("n2"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got := ids(s.List())
	want := []string{"n4", "n3", "n1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	if _, err := s.Get("n2"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("deleted note still present: %v", err)
	}
}

func TestDeleteNotFoundLeavesCollection(t *testing.T) {
	s := testStore(t)
	s.Create("a", "", "Work")
	before := s.List()

	if err := s.Delete("missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if !reflect.DeepEqual(s.List(), before) {
		t.Error("collection changed after failed delete")
	}
}

func TestQueryEmptyAllEqualsList(t *testing.T) {
	s := testStore(t)
	s.Create("a", "x", "Work")
	s.Create("b", "y", "Ideas")
	if !reflect.DeepEqual(s.Query("", models.CategoryAll), s.List()) {
		t.Error("Query(\"\", All) != List()")
	}
}

func TestQuerySearchTitleOrContent(t *testing.T) {
	s := testStore(t)
	s.Create("Meeting Notes", "Quarterly review", "Work")
	s.Create("Project Ideas", "dashboard, chat app", "Ideas")
	s.Create("Groceries", "milk, eggs, IDEAL yoghurt", "Personal")

	got := s.Query("idea", models.CategoryAll)
	var titles []string
	for _, n := range got {
		titles = append(titles, n.Title)
	}
	want := []string{"Groceries", "Project Ideas"}
	if !reflect.DeepEqual(titles, want) {
		t.Errorf("titles = %v, want %v", titles, want)
	}

	got = s.Query("QUARTERLY", models.CategoryAll)
	if len(got) != 1 || got[0].Title != "Meeting Notes" {
		t.Errorf("content search = %+v", got)
	}
}

func TestQueryProjectIdeasExample(t *testing.T) {
	s := testStore(t)
	s.Create("Meeting Notes", "", "Work")
	s.Create("Project Ideas", "", "Ideas")

	got := s.Query("idea", models.CategoryAll)
	if len(got) != 1 || got[0].Title != "Project Ideas" {
		t.Errorf("got %+v, want only Project Ideas", got)
	}
}

func TestQueryCategory(t *testing.T) {
	s := testStore(t)
	s.Create("a", "", "Work")
	s.Create("b", "", "Ideas")
	s.Create("c", "", "Work")

	got := ids(s.Query("", "Work"))
	want := []string{"n3", "n1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
	if n := len(s.Query("", "Study")); n != 0 {
		t.Errorf("Study matches = %d, want 0", n)
	}
}

func TestQueryCombinesPredicates(t *testing.T) {
	s := testStore(t)
	s.Create("plan", "", "Work")
	s.Create("plan", "", "Ideas")
	s.Create("other", "", "Work")

	got := ids(s.Query("PLAN", "Work"))
	if !reflect.DeepEqual(got, []string{"n1"}) {
		t.Errorf("ids = %v, want [n1]", got)
	}
}

func TestQueryIsIdempotent(t *testing.T) {
	s := testStore(t)
	s.Create("a", "b", "Work")
	s.Create("c", "d", "Tasks")
	first := s.Query("a", models.CategoryAll)
	second := s.Query("a", models.CategoryAll)
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated query returned different results")
	}
	if !reflect.DeepEqual(s.List(), s.List()) {
		t.Error("repeated list returned different results")
	}
}

func TestCreateQueryRoundTrip(t *testing.T) {
	s := testStore(t)
	s.Create("noise", "", "Study")
	n := s.Create("Weekly standup", "agenda", "Work")

	found := false
	for _, m := range s.Query("standup", "Work") {
		if m.ID == n.ID {
			found = true
		}
	}
	if !found {
		t.Error("created note not returned by query")
	}
}

func TestListReturnsCopy(t *testing.T) {
	s := testStore(t)
	s.Create("a", "", "Work")
	list := s.List()
	list[0].Title = "mutated"
	if s.List()[0].Title != "a" {
		t.Error("List exposed internal state")
	}
}

func TestResetFillsAndNormalizes(t *testing.T) {
	s := testStore(t)
	s.Create("gone", "", "Work")
	created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	s.Reset([]models.Note{
		{Title: "first", Category: "Personal"},
		{ID: "fixed", Title: "second", Category: "Unknown", CreatedAt: created},
	})

	list := s.List()
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].ID == "" || list[0].CreatedAt.IsZero() {
		t.Errorf("first not filled: %+v", list[0])
	}
	if list[1].ID != "fixed" || list[1].Category != "Personal" {
		t.Errorf("second = %+v", list[1])
	}
	if !list[1].UpdatedAt.Equal(created) {
		t.Errorf("updated_at = %v, want %v", list[1].UpdatedAt, created)
	}
}

func TestConcurrentMutations(t *testing.T) {
	s := New(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n := s.Create(fmt.Sprintf("note %d", i), "", "Work")
			_, _ = s.Update(n.ID, models.NoteFields{Content: strPtr("x")})
			_ = s.Query("note", models.CategoryAll)
		}(i)
	}
	wg.Wait()
	if s.Len() != 50 {
		t.Errorf("len = %d, want 50", s.Len())
	}
}
