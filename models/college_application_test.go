package models

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

// The encrypted portal credential must never leave the server, even
// though it lives on the same struct the handlers marshal.
func TestCollegeApplicationJSONHidesSealedCredential(t *testing.T) {
	deadline, err := ParseDateOnly("2026-11-01")
	if err != nil {
		t.Fatalf("ParseDateOnly: %v", err)
	}
	sealed := []byte("nonce-and-box-bytes")

	app := CollegeApplication{
		ApplicationID:     7,
		UserID:            42,
		InstitutionID:     3,
		Status:            CollegeStatusInProgress,
		ApplicationType:   ApplicationTypeEarlyAction,
		SavedAt:           time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Deadline:          &deadline,
		PortalPasswordEnc: sealed,
		PortalPasswordSet: true,
		Version:           1,
	}

	raw, err := json.Marshal(app)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	out := string(raw)

	if strings.Contains(out, "portal_password_enc") {
		t.Errorf("payload exposes the sealed credential column: %s", out)
	}
	if encoded := base64.StdEncoding.EncodeToString(sealed); strings.Contains(out, encoded) {
		t.Errorf("payload leaks sealed credential bytes: %s", out)
	}
	if !strings.Contains(out, `"portal_password_set":true`) {
		t.Errorf("payload should carry the derived flag: %s", out)
	}
	if !strings.Contains(out, `"deadline":"2026-11-01"`) {
		t.Errorf("deadline should render as a bare date: %s", out)
	}
	if strings.Contains(out, "delete_at") {
		t.Errorf("live record should omit delete_at: %s", out)
	}
}
