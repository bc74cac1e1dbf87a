package server

import (
	"net/http"
	"net/url"

	"github.com/Daskott/rolodex/server/models"
	"github.com/Daskott/rolodex/server/urlsign"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	SESSION_NAME        = "rolodex"
	SESSION_USER_ID     = "user_id"
	SESSION_SIGNING_KEY = "signing_key"
)

// RequestContext carries everything an action needs: who is asking,
// where data lives & how to sign/verify urls for this session.
type RequestContext struct {
	User   *models.User
	Store  *models.Store
	Signer *urlsign.Signer

	session      *sessions.Session
	sessionDirty bool
}

// Action handles one request. It never writes to the response itself.
type Action func(rc *RequestContext, r *http.Request) Result

// Result is one of Render, Redirect or Failure
type Result interface {
	isResult()
}

// Render renders Template with Data, the template variables
type Render struct {
	Template string
	Data     map[string]interface{}
}

type Redirect struct {
	URL string
}

type Failure struct {
	Status int
	Err    error
}

func (Render) isResult()   {}
func (Redirect) isResult() {}
func (Failure) isResult()  {}

// UserEmail identifies the owner of contacts, "" when nobody is logged in
func (rc *RequestContext) UserEmail() string {
	if rc.User == nil {
		return ""
	}
	return rc.User.Email
}

// LogIn & LogOut rotate the session's signing key, so urls signed for the
// previous user stop verifying
func (rc *RequestContext) LogIn(user *models.User) {
	rc.User = user
	rc.session.Values[SESSION_USER_ID] = user.ID
	rc.rotateSigningKey()
}

func (rc *RequestContext) LogOut() {
	rc.User = nil
	delete(rc.session.Values, SESSION_USER_ID)
	rc.rotateSigningKey()
}

func (rc *RequestContext) rotateSigningKey() {
	sessionKey := uuid.NewString()
	rc.session.Values[SESSION_SIGNING_KEY] = sessionKey
	rc.Signer = rc.Signer.ForSession(sessionKey)
	rc.sessionDirty = true
}

// SignedURL returns a url to path whose signature is only valid for this session
func (rc *RequestContext) SignedURL(path string, params url.Values) (string, error) {
	return rc.Signer.URL(path, params)
}

// ---------------------------------------------------------------------------------//
// Action wrappers
// --------------------------------------------------------------------------------//

// requireUser sends anonymous requests to the login page
func requireUser(action Action) Action {
	return func(rc *RequestContext, r *http.Request) Result {
		if rc.User == nil {
			return Redirect{URL: LOGIN_PATH + "?" + url.Values{"next": {r.URL.RequestURI()}}.Encode()}
		}
		return action(rc, r)
	}
}

// requireSignature rejects the request before action runs, unless the url is signed for this session
func requireSignature(action Action) Action {
	return func(rc *RequestContext, r *http.Request) Result {
		if err := rc.Signer.VerifyRequest(r); err != nil {
			return Failure{Status: http.StatusForbidden, Err: err}
		}
		return action(rc, r)
	}
}

func serverError(err error) Result {
	return Failure{Status: http.StatusInternalServerError, Err: err}
}
