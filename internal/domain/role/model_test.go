package role

import "testing"

// TestClassify covers the substring categories accepted at the boundary.
func TestClassify(t *testing.T) {
	cases := []struct {
		raw     string
		teacher bool
		visual  bool
		want    string
	}{
		{"student", false, false, Student},
		{"teacher", true, false, Teacher},
		{"student-visual", false, true, StudentVisual},
		{"teacher-visual", true, true, TeacherVisual},
		{"  Teacher-Visual ", true, true, TeacherVisual},
		{"docente", true, false, Teacher},
		{"alumno", false, false, Student},
		{"visual", false, true, StudentVisual},
	}
	for _, tc := range cases {
		r, err := Classify(tc.raw)
		if err != nil {
			t.Fatalf("Classify(%q): unexpected error: %v", tc.raw, err)
		}
		if r.IsTeacher() != tc.teacher {
			t.Errorf("Classify(%q).IsTeacher() = %v, want %v", tc.raw, r.IsTeacher(), tc.teacher)
		}
		if r.IsVisual() != tc.visual {
			t.Errorf("Classify(%q).IsVisual() = %v, want %v", tc.raw, r.IsVisual(), tc.visual)
		}
		if r.String() != tc.want {
			t.Errorf("Classify(%q).String() = %q, want %q", tc.raw, r.String(), tc.want)
		}
	}
}

// TestClassify_Empty tests that blank input is rejected.
func TestClassify_Empty(t *testing.T) {
	if _, err := Classify("   "); err != ErrEmptyRole {
		t.Errorf("expected ErrEmptyRole, got %v", err)
	}
}

// TestRole_Dashboard tests label and target per family.
func TestRole_Dashboard(t *testing.T) {
	if got := NewTeacher().DashboardTarget(); got != "pages/dashboard-teacher.html" {
		t.Errorf("teacher target = %q", got)
	}
	if got := NewTeacher().DashboardLabel(); got != "Mi Dashboard Docente" {
		t.Errorf("teacher label = %q", got)
	}
	if got := NewStudent().DashboardTarget(); got != "pages/dashboard.html" {
		t.Errorf("student target = %q", got)
	}
	visual := Role{Family: FamilyStudent, Variant: VariantVisual}
	if visual.DashboardTarget() != NewStudent().DashboardTarget() {
		t.Error("visual variant should share the family dashboard")
	}
}
