package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/darasa-lms/darasa/core/user"
	testutil "github.com/darasa-lms/darasa/tests"
)

func Test_home(t *testing.T) {
	req, rec := newRequest(http.MethodGet, "/")
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "Welcome to Darasa API!" {
		t.Errorf("failed! body = %v", rec.Body.String())
	}
}

func Test_userApi_query(t *testing.T) {
	db.Reset()

	now := time.Now()
	admin := testutil.CreateUser(t, usrRepo, "admin", "admin@test.cd", "", user.RoleAdmin, now)
	teacher := testutil.CreateUser(t, usrRepo, "teacher", "teacher@test.cd", "", user.RoleTeacher, now.Add(time.Hour))
	student := testutil.CreateUser(t, usrRepo, "hero", "hero@test.cd", "", user.RoleStudent, now.Add(2*time.Hour))

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errNotAuthenticated)},
		{name: "Garbled token", token: "lol.lol.lol", wantCode: http.StatusBadRequest, wantData: marchallObj(t, errInvalidToken)},
		{
			name: "Admin required (student)", token: getToken(t, student),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "Admin required (teacher)", token: getToken(t, teacher),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "Get all", token: getToken(t, admin), wantCode: http.StatusOK,
			wantData: marchallList(t, admin, teacher, student),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.path = "/v1/users"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// the raw (non-Bearer) Authorization form is accepted too
	req, rec := newRequest(http.MethodGet, "/v1/users")
	req.Header.Set("Authorization", getToken(t, admin))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("raw token failed! code = %v; body %v", rec.Code, rec.Body.String())
	}
}

func Test_userApi_retrieve(t *testing.T) {
	db.Reset()

	admin := testutil.CreateUser(t, usrRepo, "admin", "admin@test.cd", "", user.RoleAdmin)
	student := testutil.CreateUser(t, usrRepo, "hero", "hero@test.cd", "", user.RoleStudent)
	adminToken := getToken(t, admin)

	tests := []httpTest{
		{
			name: "Not found", path: "/v1/users/nope", token: adminToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "user not found"}),
		},
		{
			name: "Found", path: "/v1/users/" + student.ID, token: adminToken,
			wantCode: http.StatusOK, wantData: marchallObj(t, student),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_changeRole(t *testing.T) {
	db.Reset()

	admin := testutil.CreateUser(t, usrRepo, "admin", "admin@test.cd", "", user.RoleAdmin)
	student := testutil.CreateUser(t, usrRepo, "hero", "hero@test.cd", "", user.RoleStudent)
	adminToken := getToken(t, admin)

	tests := []httpTest{
		{
			name: "Admin required", path: "/v1/users/" + student.ID + "/role", token: getToken(t, student),
			body:     marchallObj(t, user.ChangeRole{Role: user.RoleTeacher}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "Unknown role", path: "/v1/users/" + student.ID + "/role", token: adminToken,
			body:     marchallObj(t, user.ChangeRole{Role: "boss"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"role": "role must be one of: admin, teacher, student"}),
		},
		{
			name: "Not found", path: "/v1/users/nope/role", token: adminToken,
			body:     marchallObj(t, user.ChangeRole{Role: user.RoleTeacher}),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "user not found"}),
		},
		{
			name: "Role changed", path: "/v1/users/" + student.ID + "/role", token: adminToken,
			body:     marchallObj(t, user.ChangeRole{Role: user.RoleTeacher}),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPatch

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var usr user.User
				if err := json.Unmarshal(rec.Body.Bytes(), &usr); err != nil {
					t.Errorf("json.Unmarshal() failed! err %v", err)
				}
				if usr.Role != user.RoleTeacher {
					t.Errorf("failed! role = %v; want %v", usr.Role, user.RoleTeacher)
				}
				if usr.Username != student.Username {
					t.Errorf("failed! username = %v; want %v", usr.Username, student.Username)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_destroy(t *testing.T) {
	db.Reset()

	admin := testutil.CreateUser(t, usrRepo, "admin", "admin@test.cd", "", user.RoleAdmin)
	student := testutil.CreateUser(t, usrRepo, "hero", "hero@test.cd", "", user.RoleStudent)
	adminToken := getToken(t, admin)

	tests := []httpTest{
		{
			// Say No to Suicide!
			name: "Cannot delete self", path: "/v1/users/" + admin.ID, token: adminToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "Not found", path: "/v1/users/nope", token: adminToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "user not found"}),
		},
		{name: "Deleted", path: "/v1/users/" + student.ID, token: adminToken, wantCode: http.StatusNoContent},
	}
	for _, tt := range tests {
		tt.method = http.MethodDelete

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	if _, err := usrRepo.GetUserByID(context.Background(), student.ID); err != user.ErrNotFound {
		t.Errorf("failed! user not deleted; err %v", err)
	}
}

func Test_userApi_studentLifecycle(t *testing.T) {
	db.Reset()
	ctx := context.Background()

	admin := testutil.CreateUser(t, usrRepo, "admin", "admin@test.cd", "", user.RoleAdmin)
	adminToken := getToken(t, admin)

	// register; the role is forced to student
	body := marchallObj(t, user.NewUser{
		Username: "zeina", Email: "zeina@test.cd", Password: "LocalHero13!",
		Program: "informatique", Year: "L1",
	})
	req, rec := newAuthRequest(http.MethodPost, "/v1/students/register", adminToken, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed! code = %v; body %v", rec.Code, rec.Body.String())
	}
	var usr user.User
	if err := json.Unmarshal(rec.Body.Bytes(), &usr); err != nil {
		t.Fatalf("json.Unmarshal() failed! err %v", err)
	}
	if usr.Role != user.RoleStudent {
		t.Fatalf("failed! role = %v; want %v", usr.Role, user.RoleStudent)
	}

	students, err := usrRepo.QueryStudents(ctx)
	if err != nil || len(students) != 1 {
		t.Fatalf("QueryStudents() failed! err %v; len %d", err, len(students))
	}
	std := students[0]

	// list
	req, rec = newAuthRequest(http.MethodGet, "/v1/students", adminToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("list failed! code = %v", rec.Code)
	}

	// update profile
	body = marchallObj(t, user.UpdateStudent{Program: "genie civil"})
	req, rec = newAuthRequest(http.MethodPut, "/v1/students/"+std.ID, adminToken, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update failed! code = %v; body %v", rec.Code, rec.Body.String())
	}
	var updated user.Student
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("json.Unmarshal() failed! err %v", err)
	}
	if updated.Program != "genie civil" {
		t.Errorf("failed! program = %v; want %v", updated.Program, "genie civil")
	}
	if updated.Year != "L1" {
		t.Errorf("failed! year = %v; want %v", updated.Year, "L1")
	}

	// delete cascades to the user
	req, rec = newAuthRequest(http.MethodDelete, "/v1/students/"+std.ID, adminToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete failed! code = %v", rec.Code)
	}
	if _, err := usrRepo.GetUserByID(ctx, usr.ID); err != user.ErrNotFound {
		t.Errorf("failed! user not deleted; err %v", err)
	}
}
