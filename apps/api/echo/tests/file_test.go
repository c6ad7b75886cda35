package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/darasa-lms/darasa/core/file"
	"github.com/darasa-lms/darasa/core/user"
	testutil "github.com/darasa-lms/darasa/tests"
)

func Test_fileApi(t *testing.T) {
	db.Reset()

	admin := testutil.CreateUser(t, usrRepo, "admin", "admin@test.cd", "", user.RoleAdmin)
	student := testutil.CreateUser(t, usrRepo, "hero", "hero@test.cd", "", user.RoleStudent)
	adminToken := getToken(t, admin)
	studentToken := getToken(t, student)

	// auth required
	req, rec := newRequest(http.MethodPost, "/v1/files")
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errNotAuthenticated)}, rec)

	// required fields
	req, rec = newAuthRequest(http.MethodPost, "/v1/files", studentToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadRequest,
		wantData: marchallObj(t, map[string]string{
			"filename":     "this field is required",
			"content_type": "this field is required",
		}),
	}, rec)

	// uploaded; uploaded_by is the token subject
	body := marchallObj(t, file.NewFile{Filename: "notes.pdf", ContentType: "application/pdf", Size: 2048, Course: "go-101"})
	req, rec = newAuthRequest(http.MethodPost, "/v1/files", studentToken, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload failed! code = %v; body %v", rec.Code, rec.Body.String())
	}
	var f file.File
	if err := json.Unmarshal(rec.Body.Bytes(), &f); err != nil {
		t.Fatalf("json.Unmarshal() failed! err %v", err)
	}
	if f.UploadedBy != student.ID {
		t.Errorf("failed! uploaded_by = %v; want %v", f.UploadedBy, student.ID)
	}

	// retrieve & list
	req, rec = newAuthRequest(http.MethodGet, "/v1/files/"+f.ID, studentToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, f)}, rec)

	req, rec = newAuthRequest(http.MethodGet, "/v1/files", studentToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, f)}, rec)

	req, rec = newAuthRequest(http.MethodGet, "/v1/files/nope", studentToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "file not found"})}, rec)

	// only admins delete
	req, rec = newAuthRequest(http.MethodDelete, "/v1/files/"+f.ID, studentToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)

	req, rec = newAuthRequest(http.MethodDelete, "/v1/files/"+f.ID, adminToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNoContent}, rec)

	req, rec = newAuthRequest(http.MethodGet, "/v1/files/"+f.ID, studentToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "file not found"})}, rec)
}
