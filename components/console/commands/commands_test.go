package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/app-aegis/aegis-admin/components/console"
)

func TestCreateRecordCommand(t *testing.T) {
	service := &stubService{}
	telemetry := &stubTelemetry{}
	cmd := NewCreateRecordCommand(service, telemetry)

	form := console.FeedbackForm{ParentID: "p1", Rating: 5, Comment: "ok"}
	if err := cmd.Execute(context.Background(), CreateRecordInput{Collection: "feedbacks", Form: form}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.createCalls != 1 {
		t.Fatalf("expected create call")
	}
	if telemetry.calls == 0 {
		t.Fatalf("expected telemetry to record events")
	}
}

func TestCreateRecordCommandRequiresForm(t *testing.T) {
	cmd := NewCreateRecordCommand(&stubService{}, nil)
	if err := cmd.Execute(context.Background(), CreateRecordInput{Collection: "feedbacks"}); err == nil {
		t.Fatalf("expected error for missing form")
	}
}

func TestUpdateRecordCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewUpdateRecordCommand(service, nil)

	form := console.ParentUpdateForm{FirstName: "A", LastName: "B", Email: "a@b.com"}
	if err := cmd.Execute(context.Background(), UpdateRecordInput{Collection: "parents", ID: "p1", Form: form}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.updateCalls != 1 {
		t.Fatalf("expected update call")
	}
	if err := cmd.Execute(context.Background(), UpdateRecordInput{Form: form}); err == nil {
		t.Fatalf("expected error for missing id")
	}
}

func TestPatchRecordCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewPatchRecordCommand(service, nil)

	input := PatchRecordInput{Collection: "parents", ID: "p1", Fields: map[string]any{"isVerified": true}}
	if err := cmd.Execute(context.Background(), input); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.patchCalls != 1 {
		t.Fatalf("expected patch call")
	}
	if err := cmd.Execute(context.Background(), PatchRecordInput{ID: "p1"}); err == nil {
		t.Fatalf("expected error for empty fields")
	}
}

func TestDeleteRecordCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewDeleteRecordCommand(service, nil)

	if err := cmd.Execute(context.Background(), DeleteRecordInput{Collection: "parents", ID: "p1"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.requestedDelete != "p1" || service.confirmCalls != 1 {
		t.Fatalf("expected delete to be requested and confirmed")
	}
}

func TestDeleteRecordCommandPropagatesFailure(t *testing.T) {
	service := &stubService{confirmErr: errors.New("cannot delete")}
	telemetry := &stubTelemetry{}
	cmd := NewDeleteRecordCommand(service, telemetry)

	if err := cmd.Execute(context.Background(), DeleteRecordInput{ID: "p1"}); err == nil {
		t.Fatalf("expected error")
	}
	if telemetry.calls != 0 {
		t.Fatalf("expected no telemetry on failure")
	}
}

func TestExportRecordsCommand(t *testing.T) {
	service := &stubService{exportBody: "id,rating\n"}
	cmd := NewExportRecordsCommand(service, nil)

	var buf bytes.Buffer
	if err := cmd.Execute(context.Background(), ExportRecordsInput{Collection: "feedbacks", Out: &buf}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if buf.String() != "id,rating\n" {
		t.Fatalf("unexpected export body %q", buf.String())
	}
	if err := cmd.Execute(context.Background(), ExportRecordsInput{Collection: "feedbacks"}); err == nil {
		t.Fatalf("expected error for missing destination")
	}
}

func TestRefreshListCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewRefreshListCommand(service, nil)
	if err := cmd.Execute(context.Background(), RefreshListInput{Collection: "logs"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.refreshCalls != 1 {
		t.Fatalf("expected refresh call")
	}
}

func TestSavePreferencesCommand(t *testing.T) {
	store := console.NewInMemoryPreferenceStore()
	cmd := NewSavePreferencesCommand(store, nil)

	input := SavePreferencesInput{
		Email:       "a@b.com",
		Preferences: console.Preferences{PageSize: 20, OverviewRange: console.RangeLastMonth},
	}
	if err := cmd.Execute(context.Background(), input); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	prefs, err := store.Preferences(context.Background(), "a@b.com")
	if err != nil {
		t.Fatalf("Preferences returned error: %v", err)
	}
	if prefs.PageSize != 20 || prefs.OverviewRange != console.RangeLastMonth {
		t.Fatalf("unexpected preferences %+v", prefs)
	}
}

type stubService struct {
	createCalls     int
	updateCalls     int
	patchCalls      int
	refreshCalls    int
	confirmCalls    int
	requestedDelete string
	confirmErr      error
	exportBody      string
}

func (s *stubService) Create(context.Context, console.Form) error {
	s.createCalls++
	return nil
}

func (s *stubService) Update(context.Context, string, console.Form) error {
	s.updateCalls++
	return nil
}

func (s *stubService) UpdateFields(context.Context, string, map[string]any) error {
	s.patchCalls++
	return nil
}

func (s *stubService) RequestDelete(id string) {
	s.requestedDelete = id
}

func (s *stubService) ConfirmDelete(context.Context) error {
	s.confirmCalls++
	return s.confirmErr
}

func (s *stubService) Refresh(context.Context) error {
	s.refreshCalls++
	return nil
}

func (s *stubService) ExportCSV(_ context.Context, w io.Writer) error {
	_, err := w.Write([]byte(s.exportBody))
	return err
}

type stubTelemetry struct {
	calls int
}

func (s *stubTelemetry) Record(context.Context, string, map[string]any) {
	s.calls++
}
