package filter

import "testing"

func TestEmptySpecMatchesEverything(t *testing.T) {
	spec := Compile("", "", "", false)

	if !spec.Empty() {
		t.Error("Expected spec with no criteria to be empty")
	}

	if !spec.Matches("anything.bin", ".bin", "/tmp/anything.bin") {
		t.Error("Empty spec should match any record")
	}
}

func TestLiteralNameFilter(t *testing.T) {
	spec := Compile("report", "", "", false)

	if !spec.Matches("report_q1.txt", ".txt", "/data/report_q1.txt") {
		t.Error("Expected report_q1.txt to match name filter 'report'")
	}

	if spec.Matches("image.png", ".png", "/data/image.png") {
		t.Error("Expected image.png not to match name filter 'report'")
	}
}

func TestLiteralNameCaseInsensitive(t *testing.T) {
	spec := Compile("README", "", "", false)

	if !spec.Matches("readme.md", ".md", "/src/readme.md") {
		t.Error("Literal name matching should be case-insensitive")
	}
}

func TestMultipleExtensionsCommaSeparated(t *testing.T) {
	spec := Compile("", "exe, msi", "", false)

	tests := []struct {
		name string
		ext  string
		want bool
	}{
		{"setup.exe", ".exe", true},
		{"installer.msi", ".msi", true},
		{"readme.txt", ".txt", false},
	}

	for _, tt := range tests {
		if got := spec.Matches(tt.name, tt.ext, "/downloads/"+tt.name); got != tt.want {
			t.Errorf("Matches(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestExtensionSeparators(t *testing.T) {
	// Semicolons and whitespace are separators too.
	spec := Compile("", "pdf; docx txt", "", false)

	for _, ext := range []string{".pdf", ".docx", ".txt"} {
		if !spec.Matches("file"+ext, ext, "/docs/file"+ext) {
			t.Errorf("Expected extension %s to match", ext)
		}
	}

	if spec.Matches("image.jpg", ".jpg", "/docs/image.jpg") {
		t.Error("Expected .jpg not to match")
	}
}

func TestExtensionDotNormalization(t *testing.T) {
	withDot := Compile("", ".exe", "", false)
	withoutDot := Compile("", "exe", "", false)

	for _, spec := range []*Spec{withDot, withoutDot} {
		if !spec.Matches("setup.exe", ".exe", "/downloads/setup.exe") {
			t.Error("Extension filter should match regardless of leading dot in input")
		}
	}
}

func TestExtensionExactEquality(t *testing.T) {
	// Literal extensions compare exactly, not as substrings.
	spec := Compile("", "exe", "", false)

	if spec.Matches("setup.exe.bak", ".bak", "/downloads/setup.exe.bak") {
		t.Error(".bak should not match extension filter 'exe'")
	}

	if spec.Matches("archive.exes", ".exes", "/downloads/archive.exes") {
		t.Error(".exes should not match extension filter 'exe'")
	}
}

func TestAndAcrossGroupsOrWithinGroup(t *testing.T) {
	spec := Compile("report invoice", "pdf, docx", "", false)

	tests := []struct {
		name string
		ext  string
		want bool
	}{
		{"report.pdf", ".pdf", true},
		{"invoice.docx", ".docx", true},
		{"report.txt", ".txt", false}, // name matches, ext does not
		{"data.pdf", ".pdf", false},   // ext matches, name does not
	}

	for _, tt := range tests {
		if got := spec.Matches(tt.name, tt.ext, "/work/"+tt.name); got != tt.want {
			t.Errorf("Matches(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestPathFilter(t *testing.T) {
	spec := Compile("", "", "2024, 2025", false)

	if !spec.Matches("report.pdf", ".pdf", "/documents/2024/report.pdf") {
		t.Error("Expected path containing 2024 to match")
	}

	if spec.Matches("old.txt", ".txt", "/documents/2023/old.txt") {
		t.Error("Expected path containing only 2023 not to match")
	}
}

func TestPatternNameFilter(t *testing.T) {
	spec := Compile("^test.*", "", "", true)

	if !spec.Matches("test_data.csv", ".csv", "/tmp/test_data.csv") {
		t.Error("Expected test_data.csv to match ^test.*")
	}

	if spec.Matches("my_test.csv", ".csv", "/tmp/my_test.csv") {
		t.Error("Expected my_test.csv not to match ^test.*")
	}
}

func TestPatternExtensionAnchoring(t *testing.T) {
	// A bare extension pattern gets an implicit \. prefix and $ anchor.
	spec := Compile("", "exe", "", true)

	if !spec.Matches("setup.exe", ".exe", "/downloads/setup.exe") {
		t.Error("Expected .exe to match pattern extension 'exe'")
	}

	if spec.Matches("setup.exennn", ".exennn", "/downloads/setup.exennn") {
		t.Error("Expected .exennn not to match anchored pattern extension 'exe'")
	}
}

func TestLiteralAndPatternEquivalence(t *testing.T) {
	literal := Compile("", "exe", "", false)
	pattern := Compile(`.*\.exe$`, "", "", true)

	if !literal.Matches("setup.exe", ".exe", "/d/setup.exe") {
		t.Error("Literal filter should match setup.exe")
	}
	if !pattern.Matches("setup.exe", ".exe", "/d/setup.exe") {
		t.Error("Pattern filter should match setup.exe")
	}

	if literal.Matches("setup.exe.bak", ".bak", "/d/setup.exe.bak") {
		t.Error("Literal filter should reject setup.exe.bak")
	}
	if pattern.Matches("setup.exe.bak", ".bak", "/d/setup.exe.bak") {
		t.Error("Pattern filter should reject setup.exe.bak")
	}
}

func TestInvalidPatternFallsBackToLiteral(t *testing.T) {
	// "[invalid" does not compile; it must be matched as literal text
	// instead of rejecting the spec.
	spec := Compile("[invalid", "", "", true)

	if !spec.Matches("data_[invalid_name.txt", ".txt", "/tmp/x") {
		t.Error("Expected literal fallback to match the raw pattern text")
	}

	if spec.Matches("data.txt", ".txt", "/tmp/data.txt") {
		t.Error("Expected non-matching name to be rejected")
	}
}

func TestInvalidExtensionPatternFallsBackToLiteral(t *testing.T) {
	spec := Compile("", "exe(", "", true)

	if !spec.Matches("weird.exe(", ".exe(", "/tmp/weird.exe(") {
		t.Error("Expected literal fallback to match the malformed extension verbatim")
	}

	if spec.Matches("setup.exe", ".exe", "/tmp/setup.exe") {
		t.Error("Expected .exe not to match fallback literal '.exe('")
	}
}

func TestPatternCaseInsensitive(t *testing.T) {
	spec := Compile("REPORT_\\d{4}", "", "", true)

	if !spec.Matches("report_2025.xlsx", ".xlsx", "/work/report_2025.xlsx") {
		t.Error("Pattern matching should be case-insensitive")
	}
}

func TestLiteralTokenAccessors(t *testing.T) {
	spec := Compile("Foo", "exe", "src", false)

	if got := spec.NameTokens(); len(got) != 1 || got[0] != "foo" {
		t.Errorf("NameTokens() = %v, want [foo]", got)
	}
	if got := spec.ExtTokens(); len(got) != 1 || got[0] != ".exe" {
		t.Errorf("ExtTokens() = %v, want [.exe]", got)
	}
	if got := spec.PathTokens(); len(got) != 1 || got[0] != "src" {
		t.Errorf("PathTokens() = %v, want [src]", got)
	}

	pattern := Compile("foo", "exe", "src", true)
	if len(pattern.NameTokens()) != 0 || len(pattern.ExtTokens()) != 0 || len(pattern.PathTokens()) != 0 {
		t.Error("Pattern-mode specs should expose no literal tokens")
	}
}
