package gateway

import "testing"

func TestExtractFieldRoundTrip(t *testing.T) {
	buf := []byte("8=FIX.4.4\x019=20\x0135=F\x0111=XYZ\x0141=C1\x01")

	if v, ok := ExtractField(buf, 11); !ok || v != "XYZ" {
		t.Errorf("expected tag 11 = XYZ, got %q ok=%v", v, ok)
	}
	if v, ok := ExtractField(buf, 41); !ok || v != "C1" {
		t.Errorf("expected tag 41 = C1, got %q ok=%v", v, ok)
	}
	if _, ok := ExtractField(buf, 38); ok {
		t.Error("expected tag 38 to be absent")
	}
}

func TestExtractFieldMissingTerminator(t *testing.T) {
	// buffer end acts as the implicit terminator
	buf := []byte("35=D\x0111=LAST")
	if v, ok := ExtractField(buf, 11); !ok || v != "LAST" {
		t.Errorf("expected LAST, got %q ok=%v", v, ok)
	}
}

func TestExtractFieldEmptyValue(t *testing.T) {
	buf := []byte("35=D\x0111=\x0155=FOO\x01")
	if v, ok := ExtractField(buf, 11); ok {
		t.Errorf("expected empty value to report not-found, got %q", v)
	}
}

func TestExtractFieldMalformedInput(t *testing.T) {
	for _, buf := range [][]byte{nil, {}, []byte("garbage"), []byte("="), []byte("\x01\x01\x01")} {
		if v, ok := ExtractField(buf, 11); ok {
			t.Errorf("expected not-found on %q, got %q", buf, v)
		}
	}
}

// The extractor matches the first byte-level occurrence of "<tag>=", so a
// tag that appears inside another field's value is misidentified. This is a
// known limitation of the fallback scan, pinned here so a change shows up.
func TestExtractFieldPrefixAmbiguity(t *testing.T) {
	buf := []byte("35=D\x0111=XYZ\x01")
	if v, ok := ExtractField(buf, 1); !ok || v != "XYZ" {
		t.Errorf("known limitation changed: tag 1 scan now yields %q ok=%v", v, ok)
	}

	// a value containing "38=" shadows the real tag 38 that follows it
	buf = []byte("58=qty 38=5 rejected\x0138=100\x01")
	if v, _ := ExtractField(buf, 38); v != "5 rejected" {
		t.Errorf("known limitation changed: tag 38 scan now yields %q", v)
	}
}
