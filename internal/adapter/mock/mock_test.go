package mock

import (
	"errors"
	"testing"

	"github.com/thavarshan/fetch-go/internal/core/domain"
)

func TestMatchStaticResponse(t *testing.T) {
	reg := New(false)
	reg.When(domain.MethodGet, "https://api.example.com/users*").Respond(domain.Response{StatusCode: 200})

	req := domain.NewRequest(domain.MethodGet, "https://api.example.com/users/1")
	resp, matched, err := reg.Match(req)
	if err != nil {
		t.Fatal(err)
	}
	if !matched {
		t.Fatal("expected a match")
	}
	if resp.StatusCode != 200 {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestMatchSequenceThenRepeatsLast(t *testing.T) {
	reg := New(false)
	reg.When(domain.MethodGet, "*").
		Respond(domain.Response{StatusCode: 500}).
		Respond(domain.Response{StatusCode: 200})

	req := domain.NewRequest(domain.MethodGet, "https://example.com/")
	resp1, _, _ := reg.Match(req)
	resp2, _, _ := reg.Match(req)
	resp3, _, _ := reg.Match(req)

	if resp1.StatusCode != 500 || resp2.StatusCode != 200 || resp3.StatusCode != 200 {
		t.Errorf("expected 500,200,200, got %d,%d,%d", resp1.StatusCode, resp2.StatusCode, resp3.StatusCode)
	}
}

func TestMatchExhaustibleFallsThrough(t *testing.T) {
	reg := New(false)
	reg.When(domain.MethodGet, "*").Once().Respond(domain.Response{StatusCode: 200})

	req := domain.NewRequest(domain.MethodGet, "https://example.com/")
	_, matched1, _ := reg.Match(req)
	_, matched2, _ := reg.Match(req)

	if !matched1 {
		t.Error("expected first call to match")
	}
	if matched2 {
		t.Error("expected second call to fall through once exhausted")
	}
}

func TestMatchRespondError(t *testing.T) {
	reg := New(false)
	wantErr := errors.New("boom")
	reg.When(domain.MethodGet, "*").RespondError(wantErr)

	_, matched, err := reg.Match(domain.NewRequest(domain.MethodGet, "https://example.com/"))
	if !matched {
		t.Fatal("expected a match")
	}
	if err != wantErr {
		t.Errorf("expected %v, got %v", wantErr, err)
	}
}

func TestStrictModeRejectsUnmatchedRequest(t *testing.T) {
	reg := New(true)
	_, matched, err := reg.Match(domain.NewRequest(domain.MethodGet, "https://example.com/"))
	if matched {
		t.Error("expected no match")
	}
	if err == nil {
		t.Error("expected a MockError in strict mode")
	}
	var mockErr *domain.MockError
	if !errors.As(err, &mockErr) {
		t.Errorf("expected *domain.MockError, got %T", err)
	}
}

func TestNonStrictModeAllowsUnmatchedRequest(t *testing.T) {
	reg := New(false)
	_, matched, err := reg.Match(domain.NewRequest(domain.MethodGet, "https://example.com/"))
	if matched {
		t.Error("expected no match")
	}
	if err != nil {
		t.Errorf("expected no error in non-strict mode, got %v", err)
	}
}

func TestAssertions(t *testing.T) {
	reg := New(false)
	reg.When(domain.MethodPost, "*/login").Respond(domain.Response{StatusCode: 200})

	reg.Match(domain.NewRequest(domain.MethodPost, "https://example.com/login"))
	reg.Match(domain.NewRequest(domain.MethodPost, "https://example.com/login"))

	if !reg.AssertSent(domain.MethodPost, "*/login") {
		t.Error("expected AssertSent to be true")
	}
	if reg.SentCount(domain.MethodPost, "*/login") != 2 {
		t.Errorf("expected count 2, got %d", reg.SentCount(domain.MethodPost, "*/login"))
	}
	if !reg.AssertNotSent(domain.MethodGet, "*/logout") {
		t.Error("expected AssertNotSent to be true for an unrelated pattern")
	}
	if reg.AssertNothingSent() {
		t.Error("expected AssertNothingSent to be false")
	}
}

func TestMatchPrefersExactMethodURLOverWildcard(t *testing.T) {
	reg := New(false)
	reg.When(domain.MethodGet, "*/users/*").Respond(domain.Response{StatusCode: 404})
	reg.When(domain.MethodGet, "https://example.com/users/42").Respond(domain.Response{StatusCode: 200})

	resp, matched, _ := reg.Match(domain.NewRequest(domain.MethodGet, "https://example.com/users/42"))
	if !matched {
		t.Fatal("expected a match")
	}
	if resp.StatusCode != 200 {
		t.Errorf("expected the exact rule to win with 200, got %d", resp.StatusCode)
	}
}

func TestMatchPrefersExactURLOverWildcardMethodURL(t *testing.T) {
	reg := New(false)
	reg.When(domain.MethodGet, "https://example.com/*").Respond(domain.Response{StatusCode: 404})
	reg.When("", "https://example.com/ping").Respond(domain.Response{StatusCode: 200})

	resp, matched, _ := reg.Match(domain.NewRequest(domain.MethodGet, "https://example.com/ping"))
	if !matched {
		t.Fatal("expected a match")
	}
	if resp.StatusCode != 200 {
		t.Errorf("expected the any-method exact rule to beat the method-scoped wildcard, got %d", resp.StatusCode)
	}
}

func TestRecordedCapturesResponseAndTimestamp(t *testing.T) {
	reg := New(false)
	reg.When(domain.MethodGet, "*").Respond(domain.Response{StatusCode: 200, Body: []byte("ok")})

	reg.Match(domain.NewRequest(domain.MethodGet, "https://example.com/"))

	recorded := reg.Recorded()
	if len(recorded) != 1 {
		t.Fatalf("expected 1 recording, got %d", len(recorded))
	}
	if recorded[0].Response.StatusCode != 200 {
		t.Errorf("expected recorded response status 200, got %d", recorded[0].Response.StatusCode)
	}
	if recorded[0].Timestamp.IsZero() {
		t.Error("expected a non-zero timestamp")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	src := New(false)
	src.When(domain.MethodGet, "*").Respond(domain.Response{StatusCode: 201, Body: []byte(`{"ok":true}`)})
	src.Match(domain.NewRequest(domain.MethodGet, "https://example.com/widgets"))

	data, err := src.Export()
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	dst := New(false)
	if err := dst.Import(data); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	resp, matched, err := dst.Match(domain.NewRequest(domain.MethodGet, "https://example.com/widgets"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !matched {
		t.Fatal("expected the imported rule to match the original request")
	}
	if resp.StatusCode != 201 || string(resp.Body) != `{"ok":true}` {
		t.Errorf("expected the imported rule to replay the original response, got %+v", resp)
	}
}

func TestResetClearsRulesAndRecording(t *testing.T) {
	reg := New(false)
	reg.When(domain.MethodGet, "*").Respond(domain.Response{StatusCode: 200})
	reg.Match(domain.NewRequest(domain.MethodGet, "https://example.com/"))

	reg.Reset()

	if reg.Active() {
		t.Error("expected Active to be false after Reset")
	}
	if !reg.AssertNothingSent() {
		t.Error("expected recording to be cleared after Reset")
	}
}
