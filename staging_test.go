package main

import (
	"errors"
	"testing"
)

func TestStagingAdd_KeepsOrder(t *testing.T) {
	s := NewStaging()

	added, rejected := s.Add([]StagedFile{stagedPDF("a.pdf"), stagedPDF("b.pdf")})
	if added != 2 || rejected != 0 {
		t.Fatalf("Add = (%d, %d), want (2, 0)", added, rejected)
	}
	added, rejected = s.Add([]StagedFile{stagedPDF("c.pdf")})
	if added != 1 || rejected != 0 {
		t.Fatalf("Add = (%d, %d), want (1, 0)", added, rejected)
	}

	files := s.Files()
	want := []string{"a.pdf", "b.pdf", "c.pdf"}
	if len(files) != len(want) {
		t.Fatalf("got %d files, want %d", len(files), len(want))
	}
	for i, name := range want {
		if files[i].Name != name {
			t.Errorf("files[%d].Name = %q, want %q", i, files[i].Name, name)
		}
	}

	seen := map[string]bool{}
	for _, f := range files {
		if f.ID == "" {
			t.Errorf("file %q has empty id", f.Name)
		}
		if seen[f.ID] {
			t.Errorf("duplicate id %q", f.ID)
		}
		seen[f.ID] = true
	}
}

func TestStagingAdd_RejectsNonPDF(t *testing.T) {
	s := NewStaging()

	batch := []StagedFile{
		stagedPDF("keep.pdf"),
		{Name: "notes.txt", ContentType: "text/plain", Data: []byte("hi"), Size: 2},
		{Name: "pic.png", ContentType: "image/png", Data: []byte{1}, Size: 1},
		stagedPDF("also.pdf"),
	}
	added, rejected := s.Add(batch)
	if added != 2 || rejected != 2 {
		t.Fatalf("Add = (%d, %d), want (2, 2)", added, rejected)
	}

	files := s.Files()
	if len(files) != 2 || files[0].Name != "keep.pdf" || files[1].Name != "also.pdf" {
		t.Fatalf("unexpected list after filtering: %+v", files)
	}
}

func TestStagingAdd_AllRejected(t *testing.T) {
	s := NewStaging()
	added, rejected := s.Add([]StagedFile{
		{Name: "a.txt", ContentType: "text/plain"},
	})
	if added != 0 || rejected != 1 {
		t.Fatalf("Add = (%d, %d), want (0, 1)", added, rejected)
	}
	if s.Len() != 0 {
		t.Fatalf("Len = %d, want 0", s.Len())
	}
}

func TestStagingRemoveAt(t *testing.T) {
	s := NewStaging()
	s.Add([]StagedFile{stagedPDF("a.pdf"), stagedPDF("b.pdf"), stagedPDF("c.pdf")})

	if !s.RemoveAt(1) {
		t.Fatal("RemoveAt(1) = false, want true")
	}
	files := s.Files()
	if len(files) != 2 || files[0].Name != "a.pdf" || files[1].Name != "c.pdf" {
		t.Fatalf("unexpected list after remove: %+v", files)
	}

	// Out-of-range indexes are no-ops.
	for _, i := range []int{-1, 2, 99} {
		if s.RemoveAt(i) {
			t.Errorf("RemoveAt(%d) = true, want false", i)
		}
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d after no-op removes, want 2", s.Len())
	}
}

func TestStagingClear(t *testing.T) {
	s := NewStaging()
	s.Add([]StagedFile{stagedPDF("a.pdf"), stagedPDF("b.pdf")})
	s.Clear()
	if s.Len() != 0 {
		t.Fatalf("Len = %d after Clear, want 0", s.Len())
	}
}

func TestStagingBeginMerge_EmptyList(t *testing.T) {
	s := NewStaging()
	if _, err := s.BeginMerge(); !errors.Is(err, errNoFiles) {
		t.Fatalf("BeginMerge on empty list: err = %v, want errNoFiles", err)
	}
	if s.Busy() {
		t.Fatal("Busy = true after refused BeginMerge")
	}
}

func TestStagingBeginMerge_AlreadyRunning(t *testing.T) {
	s := NewStaging()
	s.Add([]StagedFile{stagedPDF("a.pdf")})

	if _, err := s.BeginMerge(); err != nil {
		t.Fatalf("first BeginMerge: %v", err)
	}
	if _, err := s.BeginMerge(); !errors.Is(err, errMergeInFlight) {
		t.Fatalf("second BeginMerge: err = %v, want errMergeInFlight", err)
	}

	s.EndMerge()
	if _, err := s.BeginMerge(); err != nil {
		t.Fatalf("BeginMerge after EndMerge: %v", err)
	}
}

func TestStagingSnapshotsSurviveMutation(t *testing.T) {
	s := NewStaging()
	s.Add([]StagedFile{stagedPDF("a.pdf"), stagedPDF("b.pdf")})

	snapshot, err := s.BeginMerge()
	if err != nil {
		t.Fatalf("BeginMerge: %v", err)
	}

	// Mutations while the merge holds its snapshot must not disturb it.
	s.Add([]StagedFile{stagedPDF("late.pdf")})
	s.RemoveAt(0)
	s.Clear()

	if len(snapshot) != 2 || snapshot[0].Name != "a.pdf" || snapshot[1].Name != "b.pdf" {
		t.Fatalf("snapshot changed under mutation: %+v", snapshot)
	}
	if s.Len() != 0 {
		t.Fatalf("Len = %d after Clear, want 0", s.Len())
	}
	s.EndMerge()
}
