package httpcore

import "testing"

func TestStatusCodeReasonRoundTrip(t *testing.T) {
	// S6: every registered status round-trips through its code and reason.
	for _, row := range statusTable {
		s := FromCodeAndReason(row.code, row.reason)
		if s.Code() != row.code || s.Reason() != row.reason {
			t.Errorf("round-trip of (%d, %q) = (%d, %q)", row.code, row.reason, s.Code(), s.Reason())
		}
		if !s.IsRegistered() {
			t.Errorf("FromCodeAndReason(%d, %q) not registered", row.code, row.reason)
		}
	}
}

func TestStatusFromCodeAndReasonCaseInsensitive(t *testing.T) {
	s := FromCodeAndReason(404, "not found")
	if s != StatusNotFound {
		t.Errorf("got %v, want StatusNotFound", s)
	}
}

func TestStatusUnregistered(t *testing.T) {
	s := FromCodeAndReason(799, "Wat")
	if s.IsRegistered() {
		t.Error("expected unregistered status")
	}
	if s.Code() != 799 || s.Reason() != "Wat" {
		t.Errorf("got (%d, %q)", s.Code(), s.Reason())
	}
}

func TestStatus424DoubleReason(t *testing.T) {
	if CodeOnly(424) != StatusFailedDependency {
		t.Error("CodeOnly(424) should resolve to FailedDependency (first-listed row)")
	}
	if FromCodeAndReason(424, "Method Failure") != StatusMethodFailure {
		t.Error("FromCodeAndReason(424, \"Method Failure\") should resolve to StatusMethodFailure")
	}
	if StatusFailedDependency.Code() != 424 || StatusMethodFailure.Code() != 424 {
		t.Error("both 424 statuses must report code 424")
	}
}

func TestStatusString(t *testing.T) {
	if got := StatusOK.String(); got != "200 OK" {
		t.Errorf("got %q, want %q", got, "200 OK")
	}
	if got := StatusNotFound.String(); got != "404 Not Found" {
		t.Errorf("got %q, want %q", got, "404 Not Found")
	}
}

func TestCodeOnlyUnknown(t *testing.T) {
	s := CodeOnly(799)
	if s.IsRegistered() {
		t.Error("expected unregistered status for unknown code")
	}
}
