package testinfra

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"

	"odtflow/authority"
	"odtflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
)

// BuildSession builds an authenticated session for tests.
func BuildSession(uid types.ID, perms ...string) *session.Session {
	identity := session.Identity{ID: uid, Name: "user" + uid.String(), Nickname: "User " + uid.String()}
	for _, perm := range perms {
		if perm == authority.SystemAdminRole {
			identity.Department = "System"
			continue
		}
		if len(perm) > len(authority.LeaderRolePrefix) && perm[0:len(authority.LeaderRolePrefix)] == authority.LeaderRolePrefix {
			identity.Department = perm[len(authority.LeaderRolePrefix):]
			identity.Leader = true
			continue
		}
		if len(perm) > len(authority.DeptRolePrefix) && perm[0:len(authority.DeptRolePrefix)] == authority.DeptRolePrefix {
			identity.Department = perm[len(authority.DeptRolePrefix):]
		}
	}
	return &session.Session{Token: uid.String(), Identity: identity, Perms: perms}
}

// ExecuteRequest drives a request through the router and returns the
// response status, body and recorder.
func ExecuteRequest(req *http.Request, router *gin.Engine) (int, string, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	body, _ := ioutil.ReadAll(w.Body)
	return w.Code, string(body), w
}
