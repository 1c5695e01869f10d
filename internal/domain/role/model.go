package role

import (
	"errors"
	"strings"
)

// Family groups roles by the dashboard they land on.
type Family uint8

const (
	FamilyStudent Family = iota
	FamilyTeacher
)

// Variant records whether the visual-impairment defaults belong to the role.
type Variant uint8

const (
	VariantStandard Variant = iota
	VariantVisual
)

// Canonical persisted role values.
const (
	Student       = "student"
	Teacher       = "teacher"
	StudentVisual = "student-visual"
	TeacherVisual = "teacher-visual"
)

// Dashboard labels and root-relative targets per family.
const (
	DashboardLabelStudent  = "Mi Dashboard Alumno"
	DashboardLabelTeacher  = "Mi Dashboard Docente"
	DashboardTargetStudent = "pages/dashboard.html"
	DashboardTargetTeacher = "pages/dashboard-teacher.html"
	LoginTarget            = "pages/login.html"
)

// ErrEmptyRole is returned when a blank role value reaches the boundary.
var ErrEmptyRole = errors.New("role cannot be empty")

// Role is the simulated identity of a visitor.
// INVARIANT: Role values are only built by Classify or the constructors below,
// so Family and Variant are always one of the declared constants.
type Role struct {
	Family  Family
	Variant Variant
}

// NewStudent returns the standard student role.
func NewStudent() Role { return Role{Family: FamilyStudent} }

// NewTeacher returns the standard teacher role.
func NewTeacher() Role { return Role{Family: FamilyTeacher} }

// Classify decodes a free-form role value (a data-profile attribute or a
// persisted userProfile) into the two-axis Role.
// PRE: raw is any string
// POST: returns ErrEmptyRole for blank input; anything mentioning "teacher" or
// "docente" is teacher-family, everything else student-family; "visual" marks
// the visual variant
func Classify(raw string) (Role, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return Role{}, ErrEmptyRole
	}
	r := Role{Family: FamilyStudent, Variant: VariantStandard}
	if strings.Contains(v, "teacher") || strings.Contains(v, "docente") {
		r.Family = FamilyTeacher
	}
	if strings.Contains(v, "visual") {
		r.Variant = VariantVisual
	}
	return r, nil
}

// IsTeacher reports whether the role lands on the teacher dashboard.
func (r Role) IsTeacher() bool {
	return r.Family == FamilyTeacher
}

// IsVisual reports whether the role carries the visual-impairment defaults.
func (r Role) IsVisual() bool {
	return r.Variant == VariantVisual
}

// String returns the canonical persisted value.
func (r Role) String() string {
	switch {
	case r.IsTeacher() && r.IsVisual():
		return TeacherVisual
	case r.IsTeacher():
		return Teacher
	case r.IsVisual():
		return StudentVisual
	default:
		return Student
	}
}

// DashboardLabel returns the navigation label for the role's dashboard.
func (r Role) DashboardLabel() string {
	if r.IsTeacher() {
		return DashboardLabelTeacher
	}
	return DashboardLabelStudent
}

// DashboardTarget returns the root-relative path of the role's dashboard.
func (r Role) DashboardTarget() string {
	if r.IsTeacher() {
		return DashboardTargetTeacher
	}
	return DashboardTargetStudent
}
