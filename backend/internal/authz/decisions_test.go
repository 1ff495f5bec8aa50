package authz

import (
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"neurocampus/backend/internal/shared"
)

var (
	owner        = shared.Principal{ID: "teacher-001", Role: shared.RoleTeacher}
	otherTeacher = shared.Principal{ID: "teacher-002", Role: shared.RoleTeacher}
	student      = shared.Principal{ID: "student-001", Role: shared.RoleStudent}
)

func testChain() *Chain {
	return &Chain{
		Submission: &shared.Submission{ID: "sub_1", AssignmentID: "asg_1", StudentID: "student-001"},
		Assignment: &shared.Assignment{ID: "asg_1", CourseID: "crs_1"},
		Course:     &shared.Course{ID: "crs_1", TeacherID: "teacher-001"},
	}
}

func TestAuthorizeGrade(t *testing.T) {
	cases := []struct {
		name      string
		principal shared.Principal
		want      codes.Code
	}{
		{"OwningTeacher", owner, codes.OK},
		{"OtherTeacher", otherTeacher, codes.PermissionDenied},
		{"SubmittingStudent", student, codes.PermissionDenied},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := testChain().AuthorizeGrade(tc.principal)
			if status.Code(err) != tc.want {
				t.Errorf("AuthorizeGrade(%s) = %v, want %v", tc.principal.ID, err, tc.want)
			}
		})
	}
}

func TestAuthorizeViewSubmissions(t *testing.T) {
	if err := testChain().AuthorizeViewSubmissions(owner); err != nil {
		t.Errorf("owner denied: %v", err)
	}
	if status.Code(testChain().AuthorizeViewSubmissions(otherTeacher)) != codes.PermissionDenied {
		t.Error("other teacher allowed to view submissions")
	}
	if status.Code(testChain().AuthorizeViewSubmissions(student)) != codes.PermissionDenied {
		t.Error("student allowed to view submissions")
	}
}

func TestAuthorizeManage(t *testing.T) {
	if err := testChain().AuthorizeManage(owner); err != nil {
		t.Errorf("owner denied: %v", err)
	}
	if status.Code(testChain().AuthorizeManage(otherTeacher)) != codes.PermissionDenied {
		t.Error("other teacher allowed to manage")
	}
}

func TestRoleGates(t *testing.T) {
	if err := AuthorizeSubmit(student); err != nil {
		t.Errorf("student denied submit: %v", err)
	}
	if status.Code(AuthorizeSubmit(owner)) != codes.PermissionDenied {
		t.Error("teacher allowed to submit")
	}

	if err := AuthorizeEnroll(student); err != nil {
		t.Errorf("student denied enroll: %v", err)
	}
	if status.Code(AuthorizeEnroll(owner)) != codes.PermissionDenied {
		t.Error("teacher allowed to enroll")
	}

	if err := AuthorizeCreateCourse(owner); err != nil {
		t.Errorf("teacher denied course creation: %v", err)
	}
	if status.Code(AuthorizeCreateCourse(student)) != codes.PermissionDenied {
		t.Error("student allowed to create courses")
	}
}
