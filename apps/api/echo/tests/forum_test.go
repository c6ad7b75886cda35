package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/darasa-lms/darasa/core/forum"
	"github.com/darasa-lms/darasa/core/user"
	testutil "github.com/darasa-lms/darasa/tests"
)

func Test_forumApi_create(t *testing.T) {
	db.Reset()

	admin := testutil.CreateUser(t, usrRepo, "admin", "admin@test.cd", "", user.RoleAdmin)
	teacher := testutil.CreateUser(t, usrRepo, "teacher", "teacher@test.cd", "", user.RoleTeacher)
	student := testutil.CreateUser(t, usrRepo, "hero", "hero@test.cd", "", user.RoleStudent)

	valid := forum.NewForum{CourseID: "go-101", Title: "General questions"}

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errNotAuthenticated)},
		{
			name: "Teacher required (student)", token: getToken(t, student), body: marchallObj(t, valid),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "Teacher required (admin)", token: getToken(t, admin), body: marchallObj(t, valid),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "required fields", token: getToken(t, teacher), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"course_id": "this field is required",
				"title":     "this field is required",
			}),
		},
		{name: "Created", token: getToken(t, teacher), body: marchallObj(t, valid), wantCode: http.StatusCreated},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/forums"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusCreated {
				if rec.Code != tt.wantCode {
					t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var frm forum.Forum
				if err := json.Unmarshal(rec.Body.Bytes(), &frm); err != nil {
					t.Errorf("json.Unmarshal() failed! err %v", err)
				}
				if frm.ID == "" || frm.Title != "General questions" || len(frm.Posts) != 0 {
					t.Errorf("failed! unexpected forum %+v", frm)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_forumApi_postsAndReplies(t *testing.T) {
	db.Reset()

	student := testutil.CreateUser(t, usrRepo, "hero", "hero@test.cd", "", user.RoleStudent)
	studentToken := getToken(t, student)

	frm := testutil.CreateForum(t, frmRepo, "go-101", "General questions")
	other := testutil.CreateForum(t, frmRepo, "go-101", "Assignments")
	postPath := "/v1/forums/" + frm.ID + "/posts"

	// unknown forum
	req, rec := newAuthRequest(http.MethodPost, "/v1/forums/nope/posts", studentToken, marchallObj(t, forum.NewPost{Content: "hello"}))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "forum not found"})}, rec)

	// whitespace-only content is rejected
	req, rec = newAuthRequest(http.MethodPost, postPath, studentToken, marchallObj(t, forum.NewPost{Content: "   \t "}))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadRequest,
		wantData: marchallObj(t, map[string]string{"content": "this field is required"}),
	}, rec)

	// posted; the author defaults to the token subject, content is trimmed
	req, rec = newAuthRequest(http.MethodPost, postPath, studentToken, marchallObj(t, forum.NewPost{Content: "  anyone got the slides?  "}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("post failed! code = %v; body %v", rec.Code, rec.Body.String())
	}
	var post forum.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &post); err != nil {
		t.Fatalf("json.Unmarshal() failed! err %v", err)
	}
	if post.AuthorID != student.ID {
		t.Errorf("failed! author_id = %v; want %v", post.AuthorID, student.ID)
	}
	if post.Content != "anyone got the slides?" {
		t.Errorf("failed! content = %q", post.Content)
	}

	// the post is addressed through its owning forum
	req, rec = newAuthRequest(http.MethodPost, "/v1/forums/"+other.ID+"/posts/"+post.ID+"/replies", studentToken, marchallObj(t, forum.NewReply{Content: "hi"}))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "post not found"})}, rec)

	req, rec = newAuthRequest(http.MethodPost, postPath+"/"+post.ID+"/replies", studentToken, marchallObj(t, forum.NewReply{Content: "on the portal"}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("reply failed! code = %v; body %v", rec.Code, rec.Body.String())
	}

	// the whole thread comes back on retrieve
	req, rec = newAuthRequest(http.MethodGet, "/v1/forums/"+frm.ID, studentToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("retrieve failed! code = %v", rec.Code)
	}
	var got forum.Forum
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("json.Unmarshal() failed! err %v", err)
	}
	if len(got.Posts) != 1 || len(got.Posts[0].Replies) != 1 {
		t.Errorf("failed! unexpected thread %+v", got.Posts)
	}
}

func Test_forumApi_destroy(t *testing.T) {
	db.Reset()

	admin := testutil.CreateUser(t, usrRepo, "admin", "admin@test.cd", "", user.RoleAdmin)
	student := testutil.CreateUser(t, usrRepo, "hero", "hero@test.cd", "", user.RoleStudent)
	adminToken := getToken(t, admin)

	frm := testutil.CreateForum(t, frmRepo, "go-101", "General questions")

	tests := []httpTest{
		{
			name: "Students may not delete", path: "/v1/forums/" + frm.ID, token: getToken(t, student),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "Not found", path: "/v1/forums/nope", token: adminToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "forum not found"}),
		},
		{name: "Deleted", path: "/v1/forums/" + frm.ID, token: adminToken, wantCode: http.StatusNoContent},
	}
	for _, tt := range tests {
		tt.method = http.MethodDelete

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_forumApi_courseStats(t *testing.T) {
	db.Reset()

	student := testutil.CreateUser(t, usrRepo, "hero", "hero@test.cd", "", user.RoleStudent)
	studentToken := getToken(t, student)

	frm := testutil.CreateForum(t, frmRepo, "go-101", "General questions")
	empty := testutil.CreateForum(t, frmRepo, "go-101", "Assignments")
	testutil.CreateForum(t, frmRepo, "other", "Off topic")

	req, rec := newAuthRequest(http.MethodPost, "/v1/forums/"+frm.ID+"/posts", studentToken, marchallObj(t, forum.NewPost{Content: "first"}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("post failed! code = %v", rec.Code)
	}
	var post forum.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &post); err != nil {
		t.Fatalf("json.Unmarshal() failed! err %v", err)
	}
	req, rec = newAuthRequest(http.MethodPost, "/v1/forums/"+frm.ID+"/posts/"+post.ID+"/replies", studentToken, marchallObj(t, forum.NewReply{Content: "reply"}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("reply failed! code = %v", rec.Code)
	}

	tt := httpTest{
		method: http.MethodGet, path: "/v1/courses/go-101/forums/stats", token: studentToken,
		wantCode: http.StatusOK,
		wantData: marchallList(t,
			forum.Stats{ForumID: frm.ID, Title: frm.Title, TotalPosts: 1, TotalReplies: 1},
			forum.Stats{ForumID: empty.ID, Title: empty.Title},
		),
	}
	req, rec = newAuthRequest(tt.method, tt.path, tt.token)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
}
